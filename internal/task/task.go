// Package task holds the in-memory task list for a session.
package task

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidIndex reports a task number outside the current list.
	ErrInvalidIndex = errors.New("invalid task number")
	// ErrInvalidInput reports an empty description or unparsable number.
	ErrInvalidInput = errors.New("invalid input")
)

// IndexError carries the rejected 1-based index.
type IndexError struct {
	Index int
	Size  int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("invalid task number %d (have %d)", e.Index, e.Size)
}

func (e *IndexError) Unwrap() error { return ErrInvalidIndex }

type Task struct {
	Description string
	Completed   bool
}

// Store is the ordered task list. Positions are 1-based and shift on removal.
type Store struct {
	tasks []Task
}

func NewStore(tasks []Task) *Store {
	s := &Store{}
	s.tasks = append(s.tasks, tasks...)
	return s
}

func (s *Store) Len() int {
	return len(s.tasks)
}

// List returns a copy of the tasks in display order.
func (s *Store) List() []Task {
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// At returns the task at the 1-based index.
func (s *Store) At(index int) (Task, error) {
	if err := s.check(index); err != nil {
		return Task{}, err
	}
	return s.tasks[index-1], nil
}

func (s *Store) Append(t Task) error {
	desc, err := cleanDescription(t.Description)
	if err != nil {
		return err
	}
	t.Description = desc
	s.tasks = append(s.tasks, t)
	return nil
}

// RemoveAt deletes the task at the 1-based index and returns it.
func (s *Store) RemoveAt(index int) (Task, error) {
	if err := s.check(index); err != nil {
		return Task{}, err
	}
	removed := s.tasks[index-1]
	s.tasks = append(s.tasks[:index-1], s.tasks[index:]...)
	return removed, nil
}

// ToggleResult is the outcome of one index passed to ToggleAt.
type ToggleResult struct {
	Index int
	Task  Task
	Err   error
}

// ToggleAt flips the completed flag of each index in order. An invalid index
// is reported in its result and does not stop the others.
func (s *Store) ToggleAt(indices ...int) []ToggleResult {
	results := make([]ToggleResult, 0, len(indices))
	for _, idx := range indices {
		if err := s.check(idx); err != nil {
			results = append(results, ToggleResult{Index: idx, Err: err})
			continue
		}
		t := &s.tasks[idx-1]
		t.Completed = !t.Completed
		results = append(results, ToggleResult{Index: idx, Task: *t})
	}
	return results
}

// SetDescriptionAt replaces the description of the task at index.
func (s *Store) SetDescriptionAt(index int, description string) (Task, error) {
	if err := s.check(index); err != nil {
		return Task{}, err
	}
	desc, err := cleanDescription(description)
	if err != nil {
		return Task{}, err
	}
	s.tasks[index-1].Description = desc
	return s.tasks[index-1], nil
}

func (s *Store) check(index int) error {
	if index < 1 || index > len(s.tasks) {
		return &IndexError{Index: index, Size: len(s.tasks)}
	}
	return nil
}

func cleanDescription(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", fmt.Errorf("%w: description is empty", ErrInvalidInput)
	}
	return v, nil
}
