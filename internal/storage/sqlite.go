package storage

import (
	"database/sql"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"taskman/internal/task"
)

// SQLite keeps the task list in a single table ordered by position.
type SQLite struct {
	db   *sql.DB
	path string
}

func OpenSQLite(dbPath string) (*SQLite, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, &IOError{Op: "open", Path: dbPath, Err: err}
	}
	// modernc.org/sqlite uses driver name "sqlite" and prefers a file: DSN.
	db, err := sql.Open("sqlite", sqliteDSN(dbPath))
	if err != nil {
		return nil, &IOError{Op: "open", Path: dbPath, Err: err}
	}
	db.SetMaxOpenConns(1)

	s := &SQLite{db: db, path: dbPath}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, &IOError{Op: "open", Path: dbPath, Err: err}
	}
	return s, nil
}

func (s *SQLite) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLite) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS tasks (
	position INTEGER PRIMARY KEY,
	description TEXT NOT NULL,
	completed INTEGER NOT NULL DEFAULT 0
);`
	_, err := s.db.Exec(ddl)
	return err
}

func (s *SQLite) Load() ([]task.Task, error) {
	rows, err := s.db.Query(`SELECT description, completed FROM tasks ORDER BY position;`)
	if err != nil {
		return nil, &IOError{Op: "load", Path: s.path, Err: err}
	}
	defer rows.Close()

	var tasks []task.Task
	for rows.Next() {
		var t task.Task
		var completed int
		if err := rows.Scan(&t.Description, &completed); err != nil {
			return nil, &IOError{Op: "load", Path: s.path, Err: err}
		}
		if strings.TrimSpace(t.Description) == "" {
			continue
		}
		t.Completed = completed == 1
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, &IOError{Op: "load", Path: s.path, Err: err}
	}
	return tasks, nil
}

// Save replaces every stored row in one transaction.
func (s *SQLite) Save(tasks []task.Task) error {
	if err := s.replaceAll(tasks); err != nil {
		return &IOError{Op: "save", Path: s.path, Err: err}
	}
	return nil
}

func (s *SQLite) replaceAll(tasks []task.Task) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM tasks;`); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO tasks (position, description, completed) VALUES (?, ?, ?);`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, t := range tasks {
		done := 0
		if t.Completed {
			done = 1
		}
		if _, err := stmt.Exec(i+1, t.Description, done); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
