package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "notedo/internal/errors"
	"notedo/internal/model"
	"notedo/internal/repository"
)

// AvatarMaxSize bounds both avatar dimensions; larger uploads are scaled
// down to fit, preserving aspect ratio.
const AvatarMaxSize = 100

// ProfileService handles profile reads and updates.
type ProfileService interface {
	GetProfile(ctx context.Context, userID uint) (*model.Profile, error)
	UpdateBio(ctx context.Context, userID uint, bio string) (*model.Profile, error)
	UpdateAvatar(ctx context.Context, userID uint, file io.Reader, filename string) (*model.Profile, error)
}

type profileService struct {
	profiles  repository.ProfileRepository
	avatarDir string
}

// NewProfileService creates a profile service storing avatars under avatarDir.
func NewProfileService(profiles repository.ProfileRepository, avatarDir string) ProfileService {
	return &profileService{profiles: profiles, avatarDir: avatarDir}
}

// GetProfile fetches the user's profile.
func (s *profileService) GetProfile(ctx context.Context, userID uint) (*model.Profile, error) {
	profile, err := s.profiles.FindByUserID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// UpdateBio replaces the profile bio.
func (s *profileService) UpdateBio(ctx context.Context, userID uint, bio string) (*model.Profile, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile.Bio = bio
	if err := s.profiles.Save(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// UpdateAvatar decodes the upload, fits it within AvatarMaxSize per side and
// stores it under a fresh name before pointing the profile at it.
func (s *profileService) UpdateAvatar(ctx context.Context, userID uint, file io.Reader, filename string) (*model.Profile, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	img, err := imaging.Decode(file)
	if err != nil {
		return nil, apperrors.ErrInvalidImage
	}
	img = imaging.Fit(img, AvatarMaxSize, AvatarMaxSize, imaging.Lanczos)

	ext := strings.ToLower(path.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif":
	default:
		ext = ".jpg"
	}
	name := fmt.Sprintf("%d_%s%s", userID, uuid.New().String(), ext)

	if err := os.MkdirAll(s.avatarDir, 0o755); err != nil {
		return nil, fmt.Errorf("create avatar dir: %w", err)
	}
	if err := imaging.Save(img, filepath.Join(s.avatarDir, name)); err != nil {
		return nil, fmt.Errorf("save avatar: %w", err)
	}

	profile.Avatar = path.Join("avatars", name)
	if err := s.profiles.Save(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}
