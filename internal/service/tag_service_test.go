package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "notedo/internal/errors"
	"notedo/internal/model"
)

func confirmedProfile(userID uint) *model.Profile {
	return &model.Profile{UserID: userID, IsConfirmed: true}
}

func TestCreateTagSuccess(t *testing.T) {
	tags := new(MockTagRepository)
	profiles := new(MockProfileRepository)
	svc := NewTagService(tags, profiles)
	ctx := context.Background()

	profiles.On("FindByUserID", ctx, uint(7)).Return(confirmedProfile(7), nil)
	tags.On("Create", ctx, mock.AnythingOfType("*model.Tag")).Run(func(args mock.Arguments) {
		args.Get(1).(*model.Tag).ID = 3
	}).Return(nil)

	tag, err := svc.CreateTag(ctx, 7, "work")

	require.NoError(t, err)
	assert.Equal(t, uint(3), tag.ID)
	assert.Equal(t, "work", tag.Name)
	assert.Equal(t, uint(7), tag.UserID)
}

func TestCreateTagDuplicateName(t *testing.T) {
	tags := new(MockTagRepository)
	profiles := new(MockProfileRepository)
	svc := NewTagService(tags, profiles)
	ctx := context.Background()

	profiles.On("FindByUserID", ctx, uint(7)).Return(confirmedProfile(7), nil)
	tags.On("Create", ctx, mock.AnythingOfType("*model.Tag")).Return(gorm.ErrDuplicatedKey)

	_, err := svc.CreateTag(ctx, 7, "work")

	assert.ErrorIs(t, err, apperrors.ErrDuplicateTag)
}

func TestCreateTagRequiresConfirmedProfile(t *testing.T) {
	tags := new(MockTagRepository)
	profiles := new(MockProfileRepository)
	svc := NewTagService(tags, profiles)
	ctx := context.Background()

	profiles.On("FindByUserID", ctx, uint(7)).Return(&model.Profile{UserID: 7}, nil)

	_, err := svc.CreateTag(ctx, 7, "work")

	assert.ErrorIs(t, err, apperrors.ErrProfileNotConfirmed)
	tags.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestDeleteTag(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(tags *MockTagRepository)
		wantErr error
	}{
		{
			name: "deletes unused tag",
			setup: func(tags *MockTagRepository) {
				tags.On("FindByUser", mock.Anything, uint(3), uint(7)).Return(&model.Tag{ID: 3, UserID: 7}, nil)
				tags.On("InUse", mock.Anything, uint(3)).Return(false, nil)
				tags.On("Delete", mock.Anything, uint(3), uint(7)).Return(nil)
			},
		},
		{
			name: "refuses tag still referenced by a note",
			setup: func(tags *MockTagRepository) {
				tags.On("FindByUser", mock.Anything, uint(3), uint(7)).Return(&model.Tag{ID: 3, UserID: 7}, nil)
				tags.On("InUse", mock.Anything, uint(3)).Return(true, nil)
			},
			wantErr: apperrors.ErrTagInUse,
		},
		{
			name: "unknown or foreign tag",
			setup: func(tags *MockTagRepository) {
				tags.On("FindByUser", mock.Anything, uint(3), uint(7)).Return(nil, gorm.ErrRecordNotFound)
			},
			wantErr: apperrors.ErrTagNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tags := new(MockTagRepository)
			svc := NewTagService(tags, new(MockProfileRepository))
			tt.setup(tags)

			err := svc.DeleteTag(context.Background(), 7, 3)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				tags.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			tags.AssertExpectations(t)
		})
	}
}
