package mail

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReminderMessage(t *testing.T) {
	deadline := time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC)

	subject, body := ReminderMessage("alice", "Buy groceries", deadline)

	assert.Equal(t, "Reminder: Don't forget about your note", subject)
	assert.Contains(t, body, "Hello alice")
	assert.Contains(t, body, "Title: Buy groceries")
	assert.Contains(t, body, "Deadline: 2024-01-01 18:00")
}

func TestActivationMessage(t *testing.T) {
	subject, body := ActivationMessage("bob", "http://localhost:8080/api/auth/activate/2/tok")

	assert.Equal(t, "Activate your account", subject)
	assert.Contains(t, body, "Hello bob")
	assert.Contains(t, body, "http://localhost:8080/api/auth/activate/2/tok")
}

func TestPasswordResetMessage(t *testing.T) {
	subject, body := PasswordResetMessage("carol", "http://localhost:8080/reset/3/tok")

	assert.Equal(t, "Reset your password", subject)
	assert.Contains(t, body, "Hello carol")
	assert.Contains(t, body, "http://localhost:8080/reset/3/tok")
}
