package mail

import (
	"fmt"
	"time"
)

// DeadlineFormat is how deadlines are printed in reminder emails.
const DeadlineFormat = "2006-01-02 15:04"

// ReminderMessage renders the deadline reminder for a note.
func ReminderMessage(username, noteName string, deadline time.Time) (subject, body string) {
	subject = "Reminder: Don't forget about your note"
	body = fmt.Sprintf(
		"Hello %s,\n\n"+
			"You have a note that is due soon:\n\n"+
			"Title: %s\n"+
			"Deadline: %s\n\n"+
			"Don't forget to complete it on time!\n\n"+
			"Best regards,\n"+
			"Your Notes App",
		username, noteName, deadline.Format(DeadlineFormat),
	)
	return subject, body
}

// ActivationMessage renders the account activation email.
func ActivationMessage(username, link string) (subject, body string) {
	subject = "Activate your account"
	body = fmt.Sprintf(
		"Hello %s,\n\n"+
			"Click the link below to activate your account:\n"+
			"%s\n\n"+
			"If you did not register, please ignore this email.",
		username, link,
	)
	return subject, body
}

// PasswordResetMessage renders the password reset email.
func PasswordResetMessage(username, link string) (subject, body string) {
	subject = "Reset your password"
	body = fmt.Sprintf(
		"Hello %s,\n\n"+
			"Click the link below to reset your password:\n"+
			"%s\n\n"+
			"If you did not request this, please ignore this email.",
		username, link,
	)
	return subject, body
}
