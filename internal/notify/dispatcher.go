package notify

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"gorm.io/gorm"

	"notedo/internal/mail"
	"notedo/internal/queue"
	"notedo/internal/repository"
)

// ReminderDispatcher handles deadline reminder jobs: it re-reads the note
// with its owner, renders the reminder, and sends it through the mail
// transport. Vanished notes and owners without an email address are terminal
// conditions (logged, no retry); only transport failures request a retry.
type ReminderDispatcher struct {
	notes  repository.NoteRepository
	mailer mail.Mailer
	from   string
	log    *slog.Logger
}

// NewReminderDispatcher creates a dispatcher sending from the given address.
func NewReminderDispatcher(notes repository.NoteRepository, mailer mail.Mailer, from string, log *slog.Logger) *ReminderDispatcher {
	return &ReminderDispatcher{notes: notes, mailer: mailer, from: from, log: log}
}

// HandleReminder processes one deadline reminder job.
func (d *ReminderDispatcher) HandleReminder(ctx context.Context, job *queue.Job) error {
	var payload ReminderPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return err
	}

	note, err := d.notes.FindWithOwner(ctx, payload.NoteID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		d.log.Warn("note not found, skipping reminder", "note_id", payload.NoteID)
		return nil
	}
	if err != nil {
		return err
	}

	if note.Deadline == nil {
		// Deadline cleared between scan and dispatch; nothing to remind.
		d.log.Warn("note is no longer a to-do, skipping reminder", "note_id", note.ID)
		return nil
	}

	if note.User.Email == "" {
		d.log.Warn("owner has no email address, skipping reminder", "note_id", note.ID, "user_id", note.UserID)
		return nil
	}

	subject, body := mail.ReminderMessage(note.User.Username, note.Name, *note.Deadline)

	if err := d.mailer.Send(ctx, subject, body, d.from, []string{note.User.Email}); err != nil {
		d.log.Error("failed to send deadline reminder", "note_id", note.ID, "to", note.User.Email, "error", err)
		return queue.Retry(err)
	}

	d.log.Info("deadline reminder sent", "note_id", note.ID, "to", note.User.Email)
	return nil
}
