package repository

import (
	"context"

	"gorm.io/gorm"

	"notedo/internal/model"
)

// TagRepository defines tag persistence operations. Every read and mutation
// is scoped to the acting user; rows owned by other users behave as absent.
type TagRepository interface {
	Create(ctx context.Context, tag *model.Tag) error
	ListByUser(ctx context.Context, userID uint) ([]model.Tag, error)
	FindByUser(ctx context.Context, id, userID uint) (*model.Tag, error)
	FindByIDsForUser(ctx context.Context, ids []uint, userID uint) ([]model.Tag, error)
	InUse(ctx context.Context, tagID uint) (bool, error)
	Delete(ctx context.Context, id, userID uint) error
}

type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new tag repository.
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

// Create inserts a tag. A (name, user) duplicate surfaces as
// gorm.ErrDuplicatedKey via driver error translation.
func (r *tagRepository) Create(ctx context.Context, tag *model.Tag) error {
	return r.db.WithContext(ctx).Create(tag).Error
}

// ListByUser lists all tags owned by the user.
func (r *tagRepository) ListByUser(ctx context.Context, userID uint) ([]model.Tag, error) {
	var tags []model.Tag
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("name").
		Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// FindByUser finds a tag by ID, scoped to its owner.
func (r *tagRepository) FindByUser(ctx context.Context, id, userID uint) (*model.Tag, error) {
	var tag model.Tag
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// FindByIDsForUser returns the subset of the given tag IDs owned by the user.
// Foreign IDs are silently dropped, never reported.
func (r *tagRepository) FindByIDsForUser(ctx context.Context, ids []uint, userID uint) ([]model.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var tags []model.Tag
	if err := r.db.WithContext(ctx).
		Where("id IN ? AND user_id = ?", ids, userID).
		Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// InUse reports whether any note references the tag.
func (r *tagRepository) InUse(ctx context.Context, tagID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Table("note_tags").
		Where("tag_id = ?", tagID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Delete removes a tag, scoped to its owner.
func (r *tagRepository) Delete(ctx context.Context, id, userID uint) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Tag{}).Error
}
