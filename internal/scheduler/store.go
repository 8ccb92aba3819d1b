package scheduler

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"

	"github.com/nrslib/takt/internal/util"
)

// Store guards one project's tasks.yaml with a sibling lock file, so the
// scheduler is the sole writer even across a concurrent batch.
type Store struct {
	path string
}

// NewStore returns a Store for tasks.yaml under projectTaktDir.
func NewStore(projectTaktDir string) *Store {
	return &Store{path: filepath.Join(projectTaktDir, "tasks.yaml")}
}

func (s *Store) lockPath() string {
	return s.path + ".lock"
}

func (s *Store) lock() (func(), error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return nil, fmt.Errorf("creating tasks dir: %w", err)
	}
	fl := flock.New(s.lockPath())
	if err := fl.Lock(); err != nil {
		return nil, fmt.Errorf("acquiring tasks.yaml lock: %w", err)
	}
	return func() { _ = fl.Unlock() }, nil
}

// Load reads the queue, returning an empty one if the file doesn't exist
// yet.
func (s *Store) Load() (*Queue, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return &Queue{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading tasks.yaml: %w", err)
	}
	var q Queue
	if err := yaml.Unmarshal(data, &q); err != nil {
		return nil, fmt.Errorf("parsing tasks.yaml: %w", err)
	}
	return &q, nil
}

// SaveUnlocked writes the queue without acquiring the lock. The caller
// must already hold it via WithLock.
func (s *Store) SaveUnlocked(q *Queue) error {
	return util.EnsureDirAndWriteYAML(s.path, q, 0644)
}

// WithLock acquires the store's lock, runs fn, then releases it. Use this
// to make a Load + mutate + SaveUnlocked sequence atomic.
func (s *Store) WithLock(fn func() error) error {
	unlock, err := s.lock()
	if err != nil {
		return err
	}
	defer unlock()
	return fn()
}

// Append enqueues a new task.
func (s *Store) Append(task TaskRecord) error {
	return s.WithLock(func() error {
		q, err := s.Load()
		if err != nil {
			return err
		}
		q.Tasks = append(q.Tasks, task)
		return s.SaveUnlocked(q)
	})
}
