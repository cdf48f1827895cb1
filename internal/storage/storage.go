// Package storage loads and saves the task list between runs.
package storage

import (
	"fmt"

	"taskman/internal/task"
)

const (
	KindText   = "text"
	KindSQLite = "sqlite"
)

// Backend reads the whole task list at startup and writes it back at exit.
type Backend interface {
	Load() ([]task.Task, error)
	Save(tasks []task.Task) error
	Close() error
}

// IOError is returned when the backing file cannot be read or written.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Open returns the backend named by kind, persisting to path.
func Open(kind, path string) (Backend, error) {
	switch kind {
	case "", KindText:
		f, err := NewTextFile(path)
		if err != nil {
			return nil, err
		}
		return f, nil
	case KindSQLite:
		s, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown backend %q", kind)
	}
}
