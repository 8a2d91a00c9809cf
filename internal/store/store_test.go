package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guilhermexp/lifebetter/internal/model"
)

func storeConfig() model.StoreConfig {
	return model.StoreConfig{Path: "tasks.yaml", DebounceSec: 0.05}
}

func TestOpen_CreatesSkeletonFile(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, storeConfig(), nil)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(filepath.Join(dir, "tasks.yaml"))
	assert.NoError(t, err)

	tasks, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestCreate_AssignsIDAndPersists(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, storeConfig(), nil)
	require.NoError(t, err)

	created, err := s.Create(model.Task{
		Title:         "almoço com pais de Gardenia",
		ScheduledDate: "2025-03-14",
		StartTime:     "12:30",
	})
	require.NoError(t, err)
	assert.True(t, model.ValidateTaskID(created.ID))
	assert.NotEmpty(t, created.CreatedAt)
	assert.Equal(t, model.TaskTypeTask, created.Type)

	require.NoError(t, s.Close())

	// Reopen and verify the task survived.
	s2, err := Open(dir, storeConfig(), nil)
	require.NoError(t, err)
	defer s2.Close()

	tasks, err := s2.List()
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "almoço com pais de Gardenia", tasks[0].Title)
	assert.Equal(t, "12:30", tasks[0].StartTime)
}

func TestCreate_RequiresTitle(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, storeConfig(), nil)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Create(model.Task{ScheduledDate: "2025-03-14"})
	assert.Error(t, err)
}

func TestUpdate_ReplacesByID(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, storeConfig(), nil)
	require.NoError(t, err)
	defer s.Close()

	created, err := s.Create(model.Task{Title: "reunião", ScheduledDate: "2025-03-13"})
	require.NoError(t, err)

	created.StartTime = "15:00"
	updated, err := s.Update(created)
	require.NoError(t, err)
	assert.Equal(t, "15:00", updated.StartTime)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	got, err := s.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "15:00", got.StartTime)
}

func TestUpdate_NotFound(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, storeConfig(), nil)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Update(model.Task{ID: "task_missing", Title: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete_RemovesTask(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, storeConfig(), nil)
	require.NoError(t, err)
	defer s.Close()

	created, err := s.Create(model.Task{Title: "dentista", ScheduledDate: "2025-03-20"})
	require.NoError(t, err)

	require.NoError(t, s.Delete(created.ID))
	_, err = s.Get(created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.Delete(created.ID), ErrNotFound)
}

func TestList_SortedByDateTime(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, storeConfig(), nil)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Create(model.Task{Title: "b", ScheduledDate: "2025-03-14", StartTime: "15:00"})
	require.NoError(t, err)
	_, err = s.Create(model.Task{Title: "a", ScheduledDate: "2025-03-14", StartTime: "09:00"})
	require.NoError(t, err)
	_, err = s.Create(model.Task{Title: "c", ScheduledDate: "2025-03-13"})
	require.NoError(t, err)

	tasks, err := s.List()
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "c", tasks[0].Title)
	assert.Equal(t, "a", tasks[1].Title)
	assert.Equal(t, "b", tasks[2].Title)
}

func TestOpen_RecoverCorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tasks.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{{{ not yaml"), 0644))

	s, err := Open(dir, storeConfig(), nil)
	require.NoError(t, err)
	defer s.Close()

	tasks, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, tasks)

	// Original bytes preserved under quarantine/.
	entries, err := os.ReadDir(filepath.Join(dir, "quarantine"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name(), "tasks.yaml")
	assert.Contains(t, entries[0].Name(), ".corrupt")
}

func TestOpen_RecoverPrefersBackup(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir, storeConfig(), nil)
	require.NoError(t, err)
	_, err = s.Create(model.Task{Title: "academia", ScheduledDate: "2025-03-13"})
	require.NoError(t, err)
	// A second write makes the .bak contain the one-task version.
	_, err = s.Create(model.Task{Title: "mercado", ScheduledDate: "2025-03-14"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	path := filepath.Join(dir, "tasks.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{{{ not yaml"), 0644))

	s2, err := Open(dir, storeConfig(), nil)
	require.NoError(t, err)
	defer s2.Close()

	tasks, err := s2.List()
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "academia", tasks[0].Title)
}

func TestSecondOpen_FailsWhileLocked(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, storeConfig(), nil)
	require.NoError(t, err)
	defer s.Close()

	_, err = Open(dir, storeConfig(), nil)
	assert.Error(t, err)
}

func TestWatcher_ReloadsOnExternalWrite(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, storeConfig(), nil)
	require.NoError(t, err)
	defer s.Close()

	reloaded := make(chan struct{}, 1)
	w, err := NewWatcher(s, 0.05, func() {
		select {
		case reloaded <- struct{}{}:
		default:
		}
	})
	require.NoError(t, err)
	defer w.Close()

	external := "schema_version: 1\n" +
		"file_type: task_store\n" +
		"tasks:\n" +
		"  - id: task_ext\n" +
		"    title: tarefa externa\n" +
		"    type: task\n" +
		"    scheduled_date: \"2025-03-15\"\n"
	require.NoError(t, os.WriteFile(s.FilePath(), []byte(external), 0644))

	select {
	case <-reloaded:
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not reload after external write")
	}

	tasks, err := s.List()
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "tarefa externa", tasks[0].Title)
}
