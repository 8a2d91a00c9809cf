// Package store persists tasks in a YAML file with atomic writes,
// corruption recovery and live reload on external edits.
package store

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/guilhermexp/lifebetter/internal/lock"
	"github.com/guilhermexp/lifebetter/internal/model"
	"github.com/guilhermexp/lifebetter/internal/yamlutil"
)

// TaskStore is the persistence surface the executor works against.
type TaskStore interface {
	List() ([]model.Task, error)
	Get(id string) (model.Task, error)
	Create(t model.Task) (model.Task, error)
	Update(t model.Task) (model.Task, error)
	Delete(id string) error
}

// ErrNotFound is returned when no task matches the given ID.
var ErrNotFound = fmt.Errorf("task not found")

// taskFile is the on-disk layout of tasks.yaml.
type taskFile struct {
	SchemaVersion int          `yaml:"schema_version"`
	FileType      string       `yaml:"file_type"`
	Tasks         []model.Task `yaml:"tasks"`
}

// YAMLStore keeps the task list in a single YAML file under dataDir.
// All mutations rewrite the file atomically and keep a .bak of the
// previous version. Corrupt files are quarantined, then restored from
// backup or regenerated as an empty skeleton.
type YAMLStore struct {
	dataDir  string
	filePath string
	fileLock *lock.FileLock
	logger   *log.Logger

	mu    sync.RWMutex
	tasks []model.Task

	sf singleflight.Group
}

// Open loads (or creates) the task file under dataDir and takes the
// store file lock so two assistant processes cannot write concurrently.
func Open(dataDir string, cfg model.StoreConfig, logger *log.Logger) (*YAMLStore, error) {
	if err := os.MkdirAll(filepath.Join(dataDir, "locks"), 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	filePath := cfg.Path
	if !filepath.IsAbs(filePath) {
		filePath = filepath.Join(dataDir, filePath)
	}

	s := &YAMLStore{
		dataDir:  dataDir,
		filePath: filePath,
		fileLock: lock.NewFileLock(filepath.Join(dataDir, "locks", "store.lock")),
		logger:   logger,
	}

	if err := s.fileLock.TryLock(); err != nil {
		return nil, fmt.Errorf("store lock: %w", err)
	}

	if err := s.Reload(); err != nil {
		s.fileLock.Unlock()
		return nil, err
	}
	return s, nil
}

// Close releases the store file lock.
func (s *YAMLStore) Close() error {
	return s.fileLock.Unlock()
}

// FilePath returns the absolute path of the backing YAML file.
func (s *YAMLStore) FilePath() string {
	return s.filePath
}

// Reload re-reads the file into memory. Concurrent callers share a
// single read via singleflight.
func (s *YAMLStore) Reload() error {
	_, err, _ := s.sf.Do("reload", func() (interface{}, error) {
		return nil, s.loadFromDisk()
	})
	return err
}

func (s *YAMLStore) loadFromDisk() error {
	if _, err := os.Stat(s.filePath); os.IsNotExist(err) {
		if err := yamlutil.GenerateSkeleton(s.filePath, yamlutil.FileTypeTaskStore); err != nil {
			return fmt.Errorf("init task file: %w", err)
		}
	}

	var tf taskFile
	if err := s.readValidated(&tf); err != nil {
		s.logf("WARN", "task file corrupt: %v", err)
		if rerr := yamlutil.RecoverCorruptedFile(s.dataDir, s.filePath, yamlutil.FileTypeTaskStore); rerr != nil {
			return fmt.Errorf("recover task file: %w", rerr)
		}
		tf = taskFile{}
		if err := s.readValidated(&tf); err != nil {
			return fmt.Errorf("read recovered task file: %w", err)
		}
	}

	s.mu.Lock()
	s.tasks = tf.Tasks
	s.mu.Unlock()
	return nil
}

func (s *YAMLStore) readValidated(tf *taskFile) error {
	if err := yamlutil.ValidateSchemaHeader(s.filePath, yamlutil.FileTypeTaskStore); err != nil {
		return err
	}
	return yamlutil.ReadInto(s.filePath, tf)
}

// List returns a snapshot of all tasks ordered by (date, time, title)
// so output is stable across reloads.
func (s *YAMLStore) List() ([]model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Task, len(s.tasks))
	copy(out, s.tasks)
	sort.Slice(out, func(i, j int) bool {
		if out[i].ScheduledDate != out[j].ScheduledDate {
			return out[i].ScheduledDate < out[j].ScheduledDate
		}
		if out[i].StartTime != out[j].StartTime {
			return out[i].StartTime < out[j].StartTime
		}
		return out[i].Title < out[j].Title
	})
	return out, nil
}

// Get returns the task with the given ID.
func (s *YAMLStore) Get(id string) (model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return model.Task{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Create appends a task, assigning an ID and timestamps when missing,
// and persists the file.
func (s *YAMLStore) Create(t model.Task) (model.Task, error) {
	if t.Title == "" {
		return model.Task{}, fmt.Errorf("task title is required")
	}
	if t.ID == "" {
		t.ID = model.NewTaskID()
	}
	if t.Type == "" {
		t.Type = model.TaskTypeTask
	}
	now := model.Timestamp(time.Now())
	if t.CreatedAt == "" {
		t.CreatedAt = now
	}
	t.UpdatedAt = now

	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = append(s.tasks, t)
	if err := s.persistLocked(); err != nil {
		s.tasks = s.tasks[:len(s.tasks)-1]
		return model.Task{}, err
	}
	return t, nil
}

// Update replaces the stored task with the same ID and persists.
func (s *YAMLStore) Update(t model.Task) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		if s.tasks[i].ID == t.ID {
			t.CreatedAt = s.tasks[i].CreatedAt
			t.UpdatedAt = model.Timestamp(time.Now())
			prev := s.tasks[i]
			s.tasks[i] = t
			if err := s.persistLocked(); err != nil {
				s.tasks[i] = prev
				return model.Task{}, err
			}
			return t, nil
		}
	}
	return model.Task{}, fmt.Errorf("%w: %s", ErrNotFound, t.ID)
}

// Delete removes the task with the given ID and persists.
func (s *YAMLStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		if s.tasks[i].ID == id {
			removed := s.tasks[i]
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			if err := s.persistLocked(); err != nil {
				s.tasks = append(s.tasks, removed)
				return err
			}
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

func (s *YAMLStore) persistLocked() error {
	tf := taskFile{
		SchemaVersion: yamlutil.CurrentSchemaVersion,
		FileType:      yamlutil.FileTypeTaskStore,
		Tasks:         s.tasks,
	}
	if err := yamlutil.AtomicWrite(s.filePath, tf); err != nil {
		return fmt.Errorf("persist tasks: %w", err)
	}
	return nil
}

func (s *YAMLStore) logf(level, format string, args ...any) {
	if s.logger == nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	s.logger.Printf("%s %s store: %s", time.Now().Format(time.RFC3339), level, msg)
}
