package storage

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"

	"taskman/internal/task"
)

// Delimiter separates the description from the completed flag on each line.
// There is no escaping: a description containing it, or a newline, does not
// survive a save/load cycle.
const Delimiter = ":::"

const maxLineBytes = 1 << 20

// TextFile stores one task per line as description:::true|false.
type TextFile struct {
	path string
}

func NewTextFile(path string) (*TextFile, error) {
	if path == "" {
		return nil, errors.New("tasks file path is empty")
	}
	return &TextFile{path: path}, nil
}

func (f *TextFile) Path() string {
	return f.path
}

// Load reads the file. A missing file yields an empty list.
func (f *TextFile) Load() ([]task.Task, error) {
	file, err := os.Open(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &IOError{Op: "load", Path: f.path, Err: err}
	}
	defer file.Close()

	tasks, err := ReadRecords(file)
	if err != nil {
		return nil, &IOError{Op: "load", Path: f.path, Err: err}
	}
	return tasks, nil
}

// Save overwrites the file with the given tasks in order.
func (f *TextFile) Save(tasks []task.Task) error {
	var b strings.Builder
	for _, t := range tasks {
		b.WriteString(FormatRecord(t))
		b.WriteString("\n")
	}
	if err := os.WriteFile(f.path, []byte(b.String()), 0o644); err != nil {
		return &IOError{Op: "save", Path: f.path, Err: err}
	}
	return nil
}

func (f *TextFile) Close() error {
	return nil
}

// ReadRecords parses every line of r, skipping the ones that are not records.
func ReadRecords(r io.Reader) ([]task.Task, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var tasks []task.Task
	for sc.Scan() {
		t, ok := ParseRecord(sc.Text())
		if !ok {
			continue
		}
		tasks = append(tasks, t)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}

// ParseRecord splits a line into description and completed flag. Trailing
// empty fields are dropped first, so "desc:::" is not a record. A record has
// exactly one delimiter, and the split is at its last occurrence so a
// description may end in ':'. The flag is true only for a case-insensitive
// "true"; any other token reads as pending without error. Records with a
// blank description are skipped.
func ParseRecord(line string) (task.Task, bool) {
	line = strings.TrimSuffix(line, "\r")
	for strings.HasSuffix(line, Delimiter) {
		line = strings.TrimSuffix(line, Delimiter)
	}
	if strings.Count(line, Delimiter) != 1 {
		return task.Task{}, false
	}
	i := strings.LastIndex(line, Delimiter)
	desc, flag := line[:i], line[i+len(Delimiter):]
	if strings.TrimSpace(desc) == "" {
		return task.Task{}, false
	}
	return task.Task{
		Description: desc,
		Completed:   strings.EqualFold(flag, "true"),
	}, true
}

// FormatRecord renders a task as a single line without the newline.
func FormatRecord(t task.Task) string {
	return t.Description + Delimiter + strconv.FormatBool(t.Completed)
}
