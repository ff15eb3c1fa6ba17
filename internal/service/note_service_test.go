package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "notedo/internal/errors"
	"notedo/internal/model"
)

func newNoteFixture() (*MockNoteRepository, *MockTagRepository, *MockProfileRepository, NoteService) {
	notes := new(MockNoteRepository)
	tags := new(MockTagRepository)
	profiles := new(MockProfileRepository)
	svc := NewNoteService(notes, tags, profiles, nil)
	return notes, tags, profiles, svc
}

func TestListNotesPaginates(t *testing.T) {
	notes, _, _, svc := newNoteFixture()
	ctx := context.Background()

	notes.On("ListByUser", ctx, uint(7), NotesPerPage, NotesPerPage).Return([]model.Note{{ID: 10, UserID: 7}}, int64(10), nil)

	page, err := svc.ListNotes(ctx, 7, 2)

	require.NoError(t, err)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, NotesPerPage, page.PerPage)
	assert.Equal(t, int64(10), page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Notes, 1)
}

func TestListNotesClampsPageToFirst(t *testing.T) {
	notes, _, _, svc := newNoteFixture()
	ctx := context.Background()

	notes.On("ListByUser", ctx, uint(7), 0, NotesPerPage).Return([]model.Note{}, int64(0), nil)

	page, err := svc.ListNotes(ctx, 7, 0)

	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 0, page.TotalPages)
}

func TestCreateNote(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(notes *MockNoteRepository, tags *MockTagRepository, profiles *MockProfileRepository)
		wantErr error
	}{
		{
			name: "creates note with owned tags",
			setup: func(notes *MockNoteRepository, tags *MockTagRepository, profiles *MockProfileRepository) {
				profiles.On("FindByUserID", mock.Anything, uint(7)).Return(confirmedProfile(7), nil)
				tags.On("ListByUser", mock.Anything, uint(7)).Return([]model.Tag{{ID: 3, UserID: 7}}, nil)
				tags.On("FindByIDsForUser", mock.Anything, []uint{3}, uint(7)).Return([]model.Tag{{ID: 3, UserID: 7}}, nil)
				notes.On("Create", mock.Anything, mock.AnythingOfType("*model.Note")).Return(nil)
			},
		},
		{
			name: "refuses when user has no tags yet",
			setup: func(notes *MockNoteRepository, tags *MockTagRepository, profiles *MockProfileRepository) {
				profiles.On("FindByUserID", mock.Anything, uint(7)).Return(confirmedProfile(7), nil)
				tags.On("ListByUser", mock.Anything, uint(7)).Return([]model.Tag{}, nil)
			},
			wantErr: apperrors.ErrNoTags,
		},
		{
			name: "refuses unconfirmed profile",
			setup: func(notes *MockNoteRepository, tags *MockTagRepository, profiles *MockProfileRepository) {
				profiles.On("FindByUserID", mock.Anything, uint(7)).Return(&model.Profile{UserID: 7}, nil)
			},
			wantErr: apperrors.ErrProfileNotConfirmed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notes, tags, profiles, svc := newNoteFixture()
			tt.setup(notes, tags, profiles)

			note, err := svc.CreateNote(context.Background(), 7, "Groceries", "milk and eggs", []uint{3})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				notes.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, uint(7), note.UserID)
			assert.Len(t, note.Tags, 1)
			assert.False(t, note.IsTodo)
			assert.Nil(t, note.Deadline)
		})
	}
}

func TestUpdateNoteReplacesTagSet(t *testing.T) {
	notes, tags, _, svc := newNoteFixture()
	ctx := context.Background()

	existing := &model.Note{ID: 10, UserID: 7, Name: "Old", Tags: []model.Tag{{ID: 3}}}
	notes.On("FindByUser", ctx, uint(10), uint(7)).Return(existing, nil)
	notes.On("Save", ctx, existing).Return(nil)
	tags.On("FindByIDsForUser", ctx, []uint{4}, uint(7)).Return([]model.Tag{{ID: 4, UserID: 7}}, nil)
	notes.On("ReplaceTags", ctx, existing, []model.Tag{{ID: 4, UserID: 7}}).Return(nil)

	note, err := svc.UpdateNote(ctx, 7, 10, "New", "updated", []uint{4})

	require.NoError(t, err)
	assert.Equal(t, "New", note.Name)
	require.Len(t, note.Tags, 1)
	assert.Equal(t, uint(4), note.Tags[0].ID)
}

func TestDeleteNoteNotFound(t *testing.T) {
	notes, _, _, svc := newNoteFixture()
	ctx := context.Background()

	notes.On("Delete", ctx, uint(10), uint(7)).Return(gorm.ErrRecordNotFound)

	err := svc.DeleteNote(ctx, 7, 10)

	assert.ErrorIs(t, err, apperrors.ErrNoteNotFound)
}

func TestToggleDoneClearsTodoState(t *testing.T) {
	notes, _, _, svc := newNoteFixture()
	ctx := context.Background()

	deadline := time.Now().Add(2 * time.Hour)
	notes.On("FindByUser", ctx, uint(10), uint(7)).Return(&model.Note{ID: 10, UserID: 7, IsTodo: true, Deadline: &deadline}, nil)
	notes.On("Save", ctx, mock.AnythingOfType("*model.Note")).Return(nil)

	note, err := svc.ToggleDone(ctx, 7, 10)

	require.NoError(t, err)
	assert.True(t, note.Done)
	assert.False(t, note.IsTodo)
	assert.Nil(t, note.Deadline)
}

func TestToggleDoneFlipsBack(t *testing.T) {
	notes, _, _, svc := newNoteFixture()
	ctx := context.Background()

	notes.On("FindByUser", ctx, uint(10), uint(7)).Return(&model.Note{ID: 10, UserID: 7, Done: true}, nil)
	notes.On("Save", ctx, mock.AnythingOfType("*model.Note")).Return(nil)

	note, err := svc.ToggleDone(ctx, 7, 10)

	require.NoError(t, err)
	assert.False(t, note.Done)
}

func TestSetDeadline(t *testing.T) {
	tests := []struct {
		name     string
		deadline time.Time
		wantErr  error
	}{
		{name: "future deadline enters todo mode", deadline: time.Now().Add(time.Hour)},
		{name: "past deadline rejected", deadline: time.Now().Add(-time.Minute), wantErr: apperrors.ErrDeadlineInPast},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notes, _, _, svc := newNoteFixture()
			ctx := context.Background()

			notes.On("FindByUser", ctx, uint(10), uint(7)).Return(&model.Note{ID: 10, UserID: 7, Done: true}, nil)
			notes.On("Save", ctx, mock.AnythingOfType("*model.Note")).Return(nil)

			note, err := svc.SetDeadline(ctx, 7, 10, tt.deadline)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				notes.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.True(t, note.IsTodo)
			assert.False(t, note.Done)
			require.NotNil(t, note.Deadline)
			assert.True(t, note.Deadline.Equal(tt.deadline))
		})
	}
}

func TestClearTodoDropsDeadline(t *testing.T) {
	notes, _, _, svc := newNoteFixture()
	ctx := context.Background()

	deadline := time.Now().Add(time.Hour)
	notes.On("FindByUser", ctx, uint(10), uint(7)).Return(&model.Note{ID: 10, UserID: 7, IsTodo: true, Deadline: &deadline}, nil)
	notes.On("Save", ctx, mock.AnythingOfType("*model.Note")).Return(nil)

	note, err := svc.ClearTodo(ctx, 7, 10)

	require.NoError(t, err)
	assert.False(t, note.IsTodo)
	assert.Nil(t, note.Deadline)
}

func TestGetNoteScopedToOwner(t *testing.T) {
	notes, _, _, svc := newNoteFixture()
	ctx := context.Background()

	notes.On("FindByUser", ctx, uint(10), uint(8)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.GetNote(ctx, 8, 10)

	assert.ErrorIs(t, err, apperrors.ErrNoteNotFound)
}
