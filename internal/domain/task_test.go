package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	execution := time.Date(2026, 9, 10, 14, 0, 0, 0, time.UTC)

	task, err := NewTask(ownerID, "Pay rent", "transfer before noon", execution, TaskStatusInProgress)
	require.NoError(t, err)

	assert.Equal(t, ownerID, task.UserID)
	assert.Equal(t, "Pay rent", task.Title)
	assert.Equal(t, TaskStatusInProgress, task.Status)
	assert.Equal(t, execution, task.ExecutionDate)
}

func TestNewTaskDefaultsToPending(t *testing.T) {
	t.Parallel()

	task, err := NewTask(uuid.New(), "Pay rent", "", time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC), "")
	require.NoError(t, err)
	assert.Equal(t, TaskStatusPending, task.Status)
}

func TestTaskValidate(t *testing.T) {
	t.Parallel()

	execution := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		userID  uuid.UUID
		title   string
		date    time.Time
		status  TaskStatus
		wantErr error
	}{
		{
			name:   "valid task",
			userID: uuid.New(),
			title:  "Pay rent",
			date:   execution,
			status: TaskStatusPending,
		},
		{
			name:    "missing owner",
			userID:  uuid.Nil,
			title:   "Pay rent",
			date:    execution,
			status:  TaskStatusPending,
			wantErr: ErrEmptyTaskOwner,
		},
		{
			name:    "empty title",
			userID:  uuid.New(),
			title:   "",
			date:    execution,
			status:  TaskStatusPending,
			wantErr: ErrEmptyTaskTitle,
		},
		{
			name:    "title too long",
			userID:  uuid.New(),
			title:   strings.Repeat("t", 201),
			date:    execution,
			status:  TaskStatusPending,
			wantErr: ErrTaskTitleTooLong,
		},
		{
			name:    "zero execution date",
			userID:  uuid.New(),
			title:   "Pay rent",
			date:    time.Time{},
			status:  TaskStatusPending,
			wantErr: ErrZeroExecutionDate,
		},
		{
			name:    "unknown status",
			userID:  uuid.New(),
			title:   "Pay rent",
			date:    execution,
			status:  TaskStatus("archived"),
			wantErr: ErrInvalidTaskStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewTask(tt.userID, tt.title, "", tt.date, tt.status)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestTaskStatusIsValid(t *testing.T) {
	t.Parallel()

	assert.True(t, TaskStatusPending.IsValid())
	assert.True(t, TaskStatusInProgress.IsValid())
	assert.True(t, TaskStatusCompleted.IsValid())
	assert.False(t, TaskStatus("").IsValid())
	assert.False(t, TaskStatus("done").IsValid())
}

func TestTaskCategoryNames(t *testing.T) {
	t.Parallel()

	task, err := NewTask(uuid.New(), "Groceries", "", time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC), "")
	require.NoError(t, err)

	assert.Empty(t, task.CategoryNames())

	task.Categories = []Category{
		{ID: uuid.New(), Name: "home"},
		{ID: uuid.New(), Name: "errands"},
	}
	assert.Equal(t, []string{"home", "errands"}, task.CategoryNames())
}

func TestCategoryValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		catName string
		icon    string
		wantErr error
	}{
		{name: "valid", catName: "work", icon: "briefcase"},
		{name: "empty icon is fine", catName: "work", icon: ""},
		{name: "empty name", catName: "", wantErr: ErrEmptyCategoryName},
		{name: "name too long", catName: strings.Repeat("c", 101), wantErr: ErrCategoryNameLong},
		{name: "icon too long", catName: "work", icon: strings.Repeat("i", 51), wantErr: ErrCategoryIconLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewCategory(tt.catName, tt.icon)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}
