package notify

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"notedo/internal/model"
	"notedo/internal/queue"
)

const testFrom = "noreply@notedo.local"

func reminderJob(t *testing.T, noteID uint) *queue.Job {
	t.Helper()
	payload, err := json.Marshal(ReminderPayload{NoteID: noteID})
	require.NoError(t, err)
	return &queue.Job{ID: "job-1", Name: JobDeadlineReminder, Payload: payload}
}

func TestHandleReminderNoteNotFound(t *testing.T) {
	mockRepo := new(MockNoteRepository)
	mockMailer := new(MockMailer)
	mockRepo.On("FindWithOwner", mock.Anything, uint(404)).Return(nil, gorm.ErrRecordNotFound)

	d := NewReminderDispatcher(mockRepo, mockMailer, testFrom, testLogger())
	err := d.HandleReminder(context.Background(), reminderJob(t, 404))

	assert.NoError(t, err)
	mockMailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleReminderOwnerWithoutEmail(t *testing.T) {
	note := &model.Note{
		ID:       5,
		Name:     "Water plants",
		IsTodo:   true,
		Deadline: ptrTime(time.Now().Add(time.Hour)),
		User:     model.User{ID: 9, Username: "alice"},
	}

	mockRepo := new(MockNoteRepository)
	mockMailer := new(MockMailer)
	mockRepo.On("FindWithOwner", mock.Anything, uint(5)).Return(note, nil)

	d := NewReminderDispatcher(mockRepo, mockMailer, testFrom, testLogger())
	err := d.HandleReminder(context.Background(), reminderJob(t, 5))

	assert.NoError(t, err)
	mockMailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleReminderDeadlineCleared(t *testing.T) {
	note := &model.Note{
		ID:   6,
		Name: "Was a todo",
		User: model.User{ID: 9, Username: "alice", Email: "alice@example.com"},
	}

	mockRepo := new(MockNoteRepository)
	mockMailer := new(MockMailer)
	mockRepo.On("FindWithOwner", mock.Anything, uint(6)).Return(note, nil)

	d := NewReminderDispatcher(mockRepo, mockMailer, testFrom, testLogger())
	err := d.HandleReminder(context.Background(), reminderJob(t, 6))

	assert.NoError(t, err)
	mockMailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleReminderSendsExactlyOnce(t *testing.T) {
	deadline := time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC)
	note := &model.Note{
		ID:       7,
		Name:     "Submit report",
		IsTodo:   true,
		Deadline: &deadline,
		UserID:   9,
		User:     model.User{ID: 9, Username: "alice", Email: "alice@example.com"},
	}

	mockRepo := new(MockNoteRepository)
	mockMailer := new(MockMailer)
	mockRepo.On("FindWithOwner", mock.Anything, uint(7)).Return(note, nil)
	mockMailer.On("Send", mock.Anything,
		"Reminder: Don't forget about your note",
		mock.MatchedBy(func(body string) bool {
			// Body carries the note title and the formatted deadline.
			return strings.Contains(body, "Title: Submit report") &&
				strings.Contains(body, "Deadline: 2024-01-01 18:00")
		}),
		testFrom,
		[]string{"alice@example.com"},
	).Return(nil).Once()

	d := NewReminderDispatcher(mockRepo, mockMailer, testFrom, testLogger())
	err := d.HandleReminder(context.Background(), reminderJob(t, 7))

	require.NoError(t, err)
	mockMailer.AssertExpectations(t)
	mockMailer.AssertNumberOfCalls(t, "Send", 1)
}

func TestHandleReminderTransportFailureRequestsRetry(t *testing.T) {
	transportErr := errors.New("smtp: connection refused")
	note := &model.Note{
		ID:       8,
		Name:     "Pay rent",
		IsTodo:   true,
		Deadline: ptrTime(time.Now().Add(time.Hour)),
		User:     model.User{ID: 9, Username: "alice", Email: "alice@example.com"},
	}

	mockRepo := new(MockNoteRepository)
	mockMailer := new(MockMailer)
	mockRepo.On("FindWithOwner", mock.Anything, uint(8)).Return(note, nil)
	mockMailer.On("Send", mock.Anything, mock.Anything, mock.Anything, testFrom, []string{"alice@example.com"}).Return(transportErr)

	d := NewReminderDispatcher(mockRepo, mockMailer, testFrom, testLogger())
	err := d.HandleReminder(context.Background(), reminderJob(t, 8))

	require.Error(t, err)
	var re *queue.RetryError
	require.ErrorAs(t, err, &re)
	// The original transport error travels through unchanged.
	assert.Equal(t, transportErr, re.Err)
}
