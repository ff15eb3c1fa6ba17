package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"notedo/internal/model"
)

// NoteRepository defines note persistence operations.
//
// The owner-scoped methods take the acting user's ID and treat foreign rows
// as absent. FindWithOwner and the deadline methods serve the notification
// pipeline, which acts on behalf of the system rather than a user.
type NoteRepository interface {
	Create(ctx context.Context, note *model.Note) error
	Save(ctx context.Context, note *model.Note) error
	FindByUser(ctx context.Context, id, userID uint) (*model.Note, error)
	ListByUser(ctx context.Context, userID uint, offset, limit int) ([]model.Note, int64, error)
	ReplaceTags(ctx context.Context, note *model.Note, tags []model.Tag) error
	Delete(ctx context.Context, id, userID uint) error

	FindWithOwner(ctx context.Context, id uint) (*model.Note, error)
	ListDeadlineCandidates(ctx context.Context) ([]model.Note, error)
	ArchiveByIDs(ctx context.Context, ids []uint) error
}

type noteRepository struct {
	db *gorm.DB
}

// NewNoteRepository creates a new note repository.
func NewNoteRepository(db *gorm.DB) NoteRepository {
	return &noteRepository{db: db}
}

// Create inserts a note together with its tag associations.
func (r *noteRepository) Create(ctx context.Context, note *model.Note) error {
	return r.db.WithContext(ctx).Create(note).Error
}

// Save updates an existing note's columns, leaving associations untouched.
func (r *noteRepository) Save(ctx context.Context, note *model.Note) error {
	return r.db.WithContext(ctx).Omit("Tags").Save(note).Error
}

// FindByUser finds a note by ID with its tags, scoped to its owner.
func (r *noteRepository) FindByUser(ctx context.Context, id, userID uint) (*model.Note, error) {
	var note model.Note
	if err := r.db.WithContext(ctx).Preload("Tags").
		Where("id = ? AND user_id = ?", id, userID).
		First(&note).Error; err != nil {
		return nil, err
	}
	return &note, nil
}

// ListByUser returns one page of the user's notes, newest first, plus the
// total count.
func (r *noteRepository) ListByUser(ctx context.Context, userID uint, offset, limit int) ([]model.Note, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Note{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notes []model.Note
	if err := r.db.WithContext(ctx).Preload("Tags").
		Where("user_id = ?", userID).
		Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&notes).Error; err != nil {
		return nil, 0, err
	}
	return notes, total, nil
}

// ReplaceTags swaps the note's tag set for the given one.
func (r *noteRepository) ReplaceTags(ctx context.Context, note *model.Note, tags []model.Tag) error {
	return r.db.WithContext(ctx).Model(note).Association("Tags").Replace(tags)
}

// Delete removes a note and its tag associations, scoped to its owner.
func (r *noteRepository) Delete(ctx context.Context, id, userID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&model.Note{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Exec("DELETE FROM note_tags WHERE note_id = ?", id).Error
	})
}

// FindWithOwner finds a note by ID joined with its owning user, unscoped.
func (r *noteRepository) FindWithOwner(ctx context.Context, id uint) (*model.Note, error) {
	var note model.Note
	if err := r.db.WithContext(ctx).Preload("User").
		Where("id = ?", id).
		First(&note).Error; err != nil {
		return nil, err
	}
	return &note, nil
}

// ListDeadlineCandidates returns all active to-dos with a set deadline.
func (r *noteRepository) ListDeadlineCandidates(ctx context.Context) ([]model.Note, error) {
	var notes []model.Note
	if err := r.db.WithContext(ctx).
		Where("is_todo = ? AND deadline IS NOT NULL", true).
		Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

// ArchiveByIDs clears to-do mode and deadline for the given notes in a single
// batched update.
func (r *noteRepository) ArchiveByIDs(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&model.Note{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"is_todo":    false,
			"deadline":   nil,
			"updated_at": time.Now(),
		}).Error
}
