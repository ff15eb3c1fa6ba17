package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"notedo/internal/cache"
	apperrors "notedo/internal/errors"
	"notedo/internal/model"
	"notedo/internal/repository"
)

// NotesPerPage is the note list page size.
const NotesPerPage = 9

const noteCacheTTL = 5 * time.Minute

// NotePage is one page of a user's notes.
type NotePage struct {
	Notes      []model.Note `json:"notes"`
	Page       int          `json:"page"`
	PerPage    int          `json:"per_page"`
	Total      int64        `json:"total"`
	TotalPages int          `json:"total_pages"`
}

// NoteService handles note operations, all scoped to the acting user.
type NoteService interface {
	ListNotes(ctx context.Context, userID uint, page int) (*NotePage, error)
	GetNote(ctx context.Context, userID, noteID uint) (*model.Note, error)
	CreateNote(ctx context.Context, userID uint, name, description string, tagIDs []uint) (*model.Note, error)
	UpdateNote(ctx context.Context, userID, noteID uint, name, description string, tagIDs []uint) (*model.Note, error)
	DeleteNote(ctx context.Context, userID, noteID uint) error
	ToggleDone(ctx context.Context, userID, noteID uint) (*model.Note, error)
	SetDeadline(ctx context.Context, userID, noteID uint, deadline time.Time) (*model.Note, error)
	ClearTodo(ctx context.Context, userID, noteID uint) (*model.Note, error)
}

type noteService struct {
	notes    repository.NoteRepository
	tags     repository.TagRepository
	profiles repository.ProfileRepository
	cache    *cache.Client
}

// NewNoteService creates a new note service.
func NewNoteService(notes repository.NoteRepository, tags repository.TagRepository, profiles repository.ProfileRepository, cache *cache.Client) NoteService {
	return &noteService{notes: notes, tags: tags, profiles: profiles, cache: cache}
}

func noteCacheKey(userID, noteID uint) string {
	return fmt.Sprintf("note:%d:%d", userID, noteID)
}

// ListNotes returns one page of the user's notes, newest first.
func (s *noteService) ListNotes(ctx context.Context, userID uint, page int) (*NotePage, error) {
	if page < 1 {
		page = 1
	}

	notes, total, err := s.notes.ListByUser(ctx, userID, (page-1)*NotesPerPage, NotesPerPage)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + NotesPerPage - 1) / NotesPerPage)
	return &NotePage{
		Notes:      notes,
		Page:       page,
		PerPage:    NotesPerPage,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

// GetNote fetches one of the user's notes, serving repeated reads from cache.
func (s *noteService) GetNote(ctx context.Context, userID, noteID uint) (*model.Note, error) {
	key := noteCacheKey(userID, noteID)
	if data, _ := s.cache.Get(ctx, key); data != nil {
		var cached model.Note
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	note, err := s.findOwned(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(note); err == nil {
		_ = s.cache.Set(ctx, key, payload, noteCacheTTL)
	}
	return note, nil
}

// CreateNote creates a note for a confirmed user. At least one tag must exist
// before notes can be created; requested tag IDs are filtered by ownership.
func (s *noteService) CreateNote(ctx context.Context, userID uint, name, description string, tagIDs []uint) (*model.Note, error) {
	if err := s.requireConfirmed(ctx, userID); err != nil {
		return nil, err
	}

	existing, err := s.tags.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(existing) == 0 {
		return nil, apperrors.ErrNoTags
	}

	chosen, err := s.tags.FindByIDsForUser(ctx, tagIDs, userID)
	if err != nil {
		return nil, err
	}

	note := &model.Note{
		Name:        name,
		Description: description,
		UserID:      userID,
		Tags:        chosen,
	}
	if err := s.notes.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	return note, nil
}

// UpdateNote edits name, description and tag set of the user's note.
func (s *noteService) UpdateNote(ctx context.Context, userID, noteID uint, name, description string, tagIDs []uint) (*model.Note, error) {
	note, err := s.findOwned(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}

	note.Name = name
	note.Description = description
	if err := s.notes.Save(ctx, note); err != nil {
		return nil, err
	}

	chosen, err := s.tags.FindByIDsForUser(ctx, tagIDs, userID)
	if err != nil {
		return nil, err
	}
	if err := s.notes.ReplaceTags(ctx, note, chosen); err != nil {
		return nil, err
	}
	note.Tags = chosen

	_ = s.cache.Delete(ctx, noteCacheKey(userID, noteID))
	return note, nil
}

// DeleteNote removes the user's note.
func (s *noteService) DeleteNote(ctx context.Context, userID, noteID uint) error {
	if err := s.notes.Delete(ctx, noteID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrNoteNotFound
		}
		return err
	}
	_ = s.cache.Delete(ctx, noteCacheKey(userID, noteID))
	return nil
}

// ToggleDone flips the note's done flag. Completing a to-do also leaves
// to-do mode and clears the deadline so the scanner no longer sees it.
func (s *noteService) ToggleDone(ctx context.Context, userID, noteID uint) (*model.Note, error) {
	return s.mutate(ctx, userID, noteID, func(note *model.Note) error {
		note.Done = !note.Done
		if note.IsTodo {
			note.IsTodo = false
			note.Deadline = nil
		}
		return nil
	})
}

// SetDeadline puts the note into to-do mode with a future deadline and
// unmarks it as done.
func (s *noteService) SetDeadline(ctx context.Context, userID, noteID uint, deadline time.Time) (*model.Note, error) {
	return s.mutate(ctx, userID, noteID, func(note *model.Note) error {
		if !deadline.After(time.Now()) {
			return apperrors.ErrDeadlineInPast
		}
		note.IsTodo = true
		note.Done = false
		note.Deadline = &deadline
		return nil
	})
}

// ClearTodo leaves to-do mode, clearing the deadline.
func (s *noteService) ClearTodo(ctx context.Context, userID, noteID uint) (*model.Note, error) {
	return s.mutate(ctx, userID, noteID, func(note *model.Note) error {
		note.IsTodo = false
		note.Deadline = nil
		return nil
	})
}

func (s *noteService) mutate(ctx context.Context, userID, noteID uint, change func(*model.Note) error) (*model.Note, error) {
	note, err := s.findOwned(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}
	if err := change(note); err != nil {
		return nil, err
	}
	if err := s.notes.Save(ctx, note); err != nil {
		return nil, err
	}
	_ = s.cache.Delete(ctx, noteCacheKey(userID, noteID))
	return note, nil
}

func (s *noteService) findOwned(ctx context.Context, userID, noteID uint) (*model.Note, error) {
	note, err := s.notes.FindByUser(ctx, noteID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNoteNotFound
	}
	if err != nil {
		return nil, err
	}
	return note, nil
}

func (s *noteService) requireConfirmed(ctx context.Context, userID uint) error {
	profile, err := s.profiles.FindByUserID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrProfileNotFound
	}
	if err != nil {
		return err
	}
	if !profile.IsConfirmed {
		return apperrors.ErrProfileNotConfirmed
	}
	return nil
}
