// Package notify contains the deadline-notification pipeline: a periodic
// scanner that classifies active to-dos, and job handlers that deliver the
// resulting emails. The pipeline is at-least-once: a note may be reminded
// more than once across overlapping scan windows, and no dedup key is kept.
package notify

import (
	"context"
	"log/slog"
	"time"

	"notedo/internal/queue"
	"notedo/internal/repository"
)

// JobDeadlineReminder is the job name for per-note reminder emails.
const JobDeadlineReminder = "note.deadline_reminder"

// NotifyWindow is how far ahead of a deadline reminders are sent.
const NotifyWindow = 24 * time.Hour

// ReminderPayload carries only the note's identity; the dispatcher re-reads
// fresh state so a stale snapshot is never mailed.
type ReminderPayload struct {
	NoteID uint `json:"note_id"`
}

// DeadlineScanner classifies to-do notes by deadline and acts on them:
// past-due notes are archived in one batched update, notes due within
// NotifyWindow get one reminder job each. The scanner never sends mail
// itself and never blocks on delivery.
type DeadlineScanner struct {
	notes repository.NoteRepository
	queue queue.Enqueuer
	log   *slog.Logger
}

// NewDeadlineScanner creates a scanner over the given note store and queue.
func NewDeadlineScanner(notes repository.NoteRepository, q queue.Enqueuer, log *slog.Logger) *DeadlineScanner {
	return &DeadlineScanner{notes: notes, queue: q, log: log}
}

// ScanAndDispatch runs one scan cycle at the injected time and returns how
// many notes were enqueued for notification and how many were archived.
//
// Classification is mutually exclusive and evaluated in order: deadline at or
// before now archives the note; a deadline within the next NotifyWindow
// enqueues a reminder; anything later is untouched this cycle. Archived notes
// drop out of the candidate filter, so an immediate re-run cannot
// double-archive.
func (s *DeadlineScanner) ScanAndDispatch(ctx context.Context, now time.Time) (notified, archived int, err error) {
	notes, err := s.notes.ListDeadlineCandidates(ctx)
	if err != nil {
		return 0, 0, err
	}

	if len(notes) == 0 {
		s.log.Info("no notes with deadlines found")
		return 0, 0, nil
	}

	horizon := now.Add(NotifyWindow)

	var toArchive []uint
	var toNotify []uint
	for _, note := range notes {
		if note.Deadline == nil {
			continue
		}
		switch {
		case !note.Deadline.After(now):
			toArchive = append(toArchive, note.ID)
		case !note.Deadline.After(horizon):
			toNotify = append(toNotify, note.ID)
		}
	}

	if len(toArchive) > 0 {
		if err := s.notes.ArchiveByIDs(ctx, toArchive); err != nil {
			return 0, 0, err
		}
		archived = len(toArchive)
		s.log.Info("archived expired to-do notes", "count", archived)
	}

	for _, noteID := range toNotify {
		if err := s.queue.Enqueue(ctx, JobDeadlineReminder, ReminderPayload{NoteID: noteID}); err != nil {
			// A note missed here is picked up again next cycle while it
			// stays inside the notify window.
			s.log.Error("enqueue reminder", "note_id", noteID, "error", err)
			continue
		}
		notified++
	}
	if notified > 0 {
		s.log.Info("dispatched deadline reminders", "count", notified)
	}

	return notified, archived, nil
}
