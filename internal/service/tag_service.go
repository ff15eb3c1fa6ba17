package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "notedo/internal/errors"
	"notedo/internal/model"
	"notedo/internal/repository"
)

// TagService handles tag operations, all scoped to the acting user.
type TagService interface {
	ListTags(ctx context.Context, userID uint) ([]model.Tag, error)
	CreateTag(ctx context.Context, userID uint, name string) (*model.Tag, error)
	DeleteTag(ctx context.Context, userID, tagID uint) error
}

type tagService struct {
	tags     repository.TagRepository
	profiles repository.ProfileRepository
}

// NewTagService creates a new tag service.
func NewTagService(tags repository.TagRepository, profiles repository.ProfileRepository) TagService {
	return &tagService{tags: tags, profiles: profiles}
}

// ListTags lists the user's tags.
func (s *tagService) ListTags(ctx context.Context, userID uint) ([]model.Tag, error) {
	return s.tags.ListByUser(ctx, userID)
}

// CreateTag creates a tag for a confirmed user. Uniqueness of (name, user) is
// enforced by the database; the translated duplicate-key error is surfaced as
// a validation error.
func (s *tagService) CreateTag(ctx context.Context, userID uint, name string) (*model.Tag, error) {
	if err := s.requireConfirmed(ctx, userID); err != nil {
		return nil, err
	}

	tag := &model.Tag{Name: name, UserID: userID}
	if err := s.tags.Create(ctx, tag); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicateTag
		}
		return nil, fmt.Errorf("create tag: %w", err)
	}
	return tag, nil
}

// DeleteTag removes the user's tag unless a note still references it.
func (s *tagService) DeleteTag(ctx context.Context, userID, tagID uint) error {
	tag, err := s.tags.FindByUser(ctx, tagID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrTagNotFound
	}
	if err != nil {
		return err
	}

	inUse, err := s.tags.InUse(ctx, tag.ID)
	if err != nil {
		return err
	}
	if inUse {
		return apperrors.ErrTagInUse
	}

	return s.tags.Delete(ctx, tag.ID, userID)
}

func (s *tagService) requireConfirmed(ctx context.Context, userID uint) error {
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
