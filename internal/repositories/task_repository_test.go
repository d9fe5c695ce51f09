package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	config "task-tracker.com/task-tracker/internal/configs"
	"task-tracker.com/task-tracker/pkg/constants"
	model "task-tracker.com/task-tracker/pkg/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := config.NewDatabase(config.DriverSQLite, ":memory:", logger.Default.LogMode(logger.Silent))
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	t.Cleanup(func() { _ = config.CloseDatabase(db) })

	return db
}

func strPtr(s string) *string { return &s }

func statusPtr(s constants.TaskStatus) *constants.TaskStatus { return &s }

func TestTaskRepository_CreateTask(t *testing.T) {
	repo := NewTaskRepository(setupTestDB(t))
	ctx := context.Background()

	task, err := repo.CreateTask(ctx, "u1", "Write report", "Quarterly numbers")
	require.NoError(t, err)
	require.NotEmpty(t, task.ID)
	require.Equal(t, "u1", task.UserID)
	require.Equal(t, constants.StatusTodo, task.Status)
	require.False(t, task.CreatedAt.IsZero())
	require.Equal(t, model.ContentHash("Write report", "Quarterly numbers"), task.ContentHash)

	found, ok, err := repo.FindByID(ctx, "u1", task.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, task.ID, found.ID)
	require.Equal(t, "Write report", found.Title)
}

func TestTaskRepository_CreateTask_UniquePerUser(t *testing.T) {
	repo := NewTaskRepository(setupTestDB(t))
	ctx := context.Background()

	_, err := repo.CreateTask(ctx, "u1", "X", "Y")
	require.NoError(t, err)

	_, err = repo.CreateTask(ctx, "u1", "X", "Y")
	require.ErrorIs(t, err, ErrDuplicateTask)

	_, err = repo.CreateTask(ctx, "u2", "X", "Y")
	require.NoError(t, err)
}

func TestTaskRepository_FindByID_ScopedToOwner(t *testing.T) {
	repo := NewTaskRepository(setupTestDB(t))
	ctx := context.Background()

	task, err := repo.CreateTask(ctx, "u1", "Private", "Only mine")
	require.NoError(t, err)

	found, ok, err := repo.FindByID(ctx, "u2", task.ID)
	require.NoError(t, err)
	require.False(t, ok)
	require.Nil(t, found)

	_, ok, err = repo.FindByID(ctx, "u1", "does-not-exist")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestTaskRepository_ListByUser_NewestFirst(t *testing.T) {
	repo := NewTaskRepository(setupTestDB(t))
	ctx := context.Background()

	tasks, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, tasks)
	require.Empty(t, tasks)

	var ids []string
	for _, title := range []string{"first", "second", "third"} {
		task, err := repo.CreateTask(ctx, "u1", title, "d")
		require.NoError(t, err)
		ids = append(ids, task.ID)
		time.Sleep(2 * time.Millisecond)
	}
	_, err = repo.CreateTask(ctx, "u2", "other", "d")
	require.NoError(t, err)

	tasks, err = repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	require.Equal(t, ids[2], tasks[0].ID)
	require.Equal(t, ids[1], tasks[1].ID)
	require.Equal(t, ids[0], tasks[2].ID)
}

func TestTaskRepository_FindByTitleAndDescription(t *testing.T) {
	repo := NewTaskRepository(setupTestDB(t))
	ctx := context.Background()

	task, err := repo.CreateTask(ctx, "u1", "X", "Y")
	require.NoError(t, err)

	found, ok, err := repo.FindByTitleAndDescription(ctx, "u1", "X", "Y")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, task.ID, found.ID)

	_, ok, err = repo.FindByTitleAndDescription(ctx, "u1", "X", "Z")
	require.NoError(t, err)
	require.False(t, ok)

	_, ok, err = repo.FindByTitleAndDescription(ctx, "u2", "X", "Y")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestTaskRepository_Update(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	task, err := repo.CreateTask(ctx, "u1", "Old", "Desc")
	require.NoError(t, err)

	updated, ok, err := repo.Update(ctx, "u1", task.ID, TaskChanges{
		Title:  strPtr("New"),
		Status: statusPtr(constants.StatusInProgress),
	})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "New", updated.Title)
	require.Equal(t, "Desc", updated.Description)
	require.Equal(t, constants.StatusInProgress, updated.Status)

	var stored model.Task
	require.NoError(t, db.First(&stored, "id = ?", task.ID).Error)
	require.Equal(t, "New", stored.Title)
	require.Equal(t, constants.StatusInProgress, stored.Status)
	require.Equal(t, model.ContentHash("New", "Desc"), stored.ContentHash)
}

func TestTaskRepository_Update_EmptyChangesReturnsCurrent(t *testing.T) {
	repo := NewTaskRepository(setupTestDB(t))
	ctx := context.Background()

	task, err := repo.CreateTask(ctx, "u1", "Same", "Same")
	require.NoError(t, err)

	got, ok, err := repo.Update(ctx, "u1", task.ID, TaskChanges{})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, task.ID, got.ID)
	require.Equal(t, constants.StatusTodo, got.Status)
}

func TestTaskRepository_Update_AbsentForOtherUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	task, err := repo.CreateTask(ctx, "u1", "Mine", "Desc")
	require.NoError(t, err)

	got, ok, err := repo.Update(ctx, "u2", task.ID, TaskChanges{Title: strPtr("Stolen")})
	require.NoError(t, err)
	require.False(t, ok)
	require.Nil(t, got)

	var stored model.Task
	require.NoError(t, db.First(&stored, "id = ?", task.ID).Error)
	require.Equal(t, "Mine", stored.Title)
}

func TestTaskRepository_Update_CollidingContentIsDuplicate(t *testing.T) {
	repo := NewTaskRepository(setupTestDB(t))
	ctx := context.Background()

	_, err := repo.CreateTask(ctx, "u1", "A", "Desc")
	require.NoError(t, err)
	second, err := repo.CreateTask(ctx, "u1", "B", "Desc")
	require.NoError(t, err)

	_, _, err = repo.Update(ctx, "u1", second.ID, TaskChanges{Title: strPtr("A")})
	require.ErrorIs(t, err, ErrDuplicateTask)
}

func TestTaskRepository_Update_ExpectedStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	task, err := repo.CreateTask(ctx, "u1", "T", "D")
	require.NoError(t, err)

	_, _, err = repo.Update(ctx, "u1", task.ID, TaskChanges{
		Status:         statusPtr(constants.StatusDone),
		ExpectedStatus: statusPtr(constants.StatusArchived),
	})
	require.ErrorIs(t, err, ErrStaleTask)

	var stored model.Task
	require.NoError(t, db.First(&stored, "id = ?", task.ID).Error)
	require.Equal(t, constants.StatusTodo, stored.Status)

	updated, ok, err := repo.Update(ctx, "u1", task.ID, TaskChanges{
		Status:         statusPtr(constants.StatusDone),
		ExpectedStatus: statusPtr(constants.StatusTodo),
	})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, constants.StatusDone, updated.Status)
}

func TestTaskRepository_RejectsUnknownStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	task, err := repo.CreateTask(ctx, "u1", "T", "D")
	require.NoError(t, err)

	_, _, err = repo.Update(ctx, "u1", task.ID, TaskChanges{Status: statusPtr("blocked")})
	require.ErrorIs(t, err, model.ErrInvalidStatus)

	var stored model.Task
	require.NoError(t, db.First(&stored, "id = ?", task.ID).Error)
	require.Equal(t, constants.StatusTodo, stored.Status)

	err = db.Create(&model.Task{ID: "t2", UserID: "u1", Title: "T2", Description: "D", Status: "blocked"}).Error
	require.ErrorIs(t, err, model.ErrInvalidStatus)
}

func TestTaskRepository_Delete(t *testing.T) {
	repo := NewTaskRepository(setupTestDB(t))
	ctx := context.Background()

	task, err := repo.CreateTask(ctx, "u1", "Doomed", "Desc")
	require.NoError(t, err)

	_, ok, err := repo.Delete(ctx, "u2", task.ID)
	require.NoError(t, err)
	require.False(t, ok)

	deleted, ok, err := repo.Delete(ctx, "u1", task.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, task.ID, deleted.ID)

	_, ok, err = repo.FindByID(ctx, "u1", task.ID)
	require.NoError(t, err)
	require.False(t, ok)

	_, ok, err = repo.Delete(ctx, "u1", task.ID)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestTaskRepository_StorageFaultPropagates(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	require.NoError(t, db.Migrator().DropTable(&model.Task{}))

	_, err := repo.ListByUser(ctx, "u1")
	require.Error(t, err)

	_, ok, err := repo.FindByID(ctx, "u1", "anything")
	require.Error(t, err)
	require.False(t, ok)
}
