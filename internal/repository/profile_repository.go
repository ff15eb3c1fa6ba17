package repository

import (
	"context"

	"gorm.io/gorm"

	"notedo/internal/model"
)

// ProfileRepository defines profile persistence operations.
type ProfileRepository interface {
	FindByUserID(ctx context.Context, userID uint) (*model.Profile, error)
	Save(ctx context.Context, profile *model.Profile) error
	Confirm(ctx context.Context, userID uint) error
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// FindByUserID finds the profile owned by the given user.
func (r *profileRepository) FindByUserID(ctx context.Context, userID uint) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// Save updates an existing profile.
func (r *profileRepository) Save(ctx context.Context, profile *model.Profile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

// Confirm marks the user's profile as confirmed.
func (r *profileRepository) Confirm(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Model(&model.Profile{}).
		Where("user_id = ?", userID).
		Update("is_confirmed", true).Error
}
