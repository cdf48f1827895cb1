// Package menu runs the numbered console menu over stdin and stdout.
package menu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"taskman/internal/storage"
	"taskman/internal/task"
)

const (
	choiceAdd = iota + 1
	choiceRemove
	choiceList
	choiceToggle
	choiceEdit
	choiceExit
)

// invalidChoice is what unparsable input turns into.
const invalidChoice = -1

const maxLineBytes = 1 << 20

// Menu owns the session: the task store, where it is saved, and the console.
type Menu struct {
	in      *bufio.Scanner
	out     io.Writer
	store   *task.Store
	backend storage.Backend
	logger  *log.Logger
}

func New(in io.Reader, out io.Writer, store *task.Store, backend storage.Backend, logger *log.Logger) *Menu {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return &Menu{
		in:      sc,
		out:     out,
		store:   store,
		backend: backend,
		logger:  logger,
	}
}

// Run loops until Exit is chosen or input ends, then saves the store.
func (m *Menu) Run() {
	for {
		m.printMenu()
		line, ok := m.readLine()
		if !ok {
			m.logger.Debug("input closed, exiting")
			m.exit()
			return
		}

		switch parseChoice(line) {
		case choiceAdd:
			m.add()
		case choiceRemove:
			m.remove()
		case choiceList:
			m.list()
		case choiceToggle:
			m.toggle()
		case choiceEdit:
			m.edit()
		case choiceExit:
			m.exit()
			return
		default:
			m.println("Invalid option! Try again.")
		}
	}
}

func (m *Menu) printMenu() {
	m.println("\n===== TASK MANAGER =====")
	m.println()
	m.println("1. Add Task")
	m.println("2. Remove Task")
	m.println("3. List Tasks")
	m.println("4. Mark Task Completed/Pending")
	m.println("5. Edit Task")
	m.println("6. Exit")
	m.println()
	m.print("Enter your choice: ")
}

func (m *Menu) add() {
	m.print("Enter task description: ")
	line, ok := m.readLine()
	if !ok {
		return
	}
	if err := m.store.Append(task.Task{Description: line}); err != nil {
		m.println("Task cannot be empty!")
		return
	}
	m.println("Task added successfully.")
}

func (m *Menu) remove() {
	if !m.list() {
		return
	}
	m.print("Enter the task number to remove: ")
	line, ok := m.readLine()
	if !ok {
		return
	}
	if _, err := m.store.RemoveAt(parseChoice(line)); err != nil {
		m.println("Invalid task number!")
		return
	}
	m.println("Task removed successfully.")
}

// list prints the tasks and reports whether there were any.
func (m *Menu) list() bool {
	tasks := m.store.List()
	if len(tasks) == 0 {
		m.println("\nNo tasks available!")
		return false
	}
	m.println("\n----- Your Tasks -----")
	for i, t := range tasks {
		m.println(fmt.Sprintf("%d. %s %s", i+1, checkbox(t.Completed), t.Description))
	}
	return true
}

func (m *Menu) toggle() {
	if !m.list() {
		return
	}
	m.print("Enter task numbers to toggle (e.g., 1, 3, 4): ")
	line, ok := m.readLine()
	if !ok {
		return
	}
	line = strings.TrimSpace(line)
	if line == "" {
		m.println("No input provided!")
		return
	}

	tokens := splitIndices(line)
	indices := make([]int, 0, len(tokens))
	for _, tok := range tokens {
		if tok.err == nil {
			indices = append(indices, tok.index)
		}
	}
	results := m.store.ToggleAt(indices...)

	anyValid := false
	next := 0
	for _, tok := range tokens {
		if tok.err != nil {
			m.println("Invalid input: " + tok.raw)
			continue
		}
		res := results[next]
		next++
		if res.Err != nil {
			m.println("Invalid task number: " + tok.raw)
			continue
		}
		m.println(fmt.Sprintf("Toggled task %d: %s", res.Index, res.Task.Description))
		anyValid = true
	}
	if !anyValid {
		m.println("No valid task numbers entered.")
	}
}

func (m *Menu) edit() {
	if !m.list() {
		return
	}
	m.print("Enter task number to edit: ")
	line, ok := m.readLine()
	if !ok {
		return
	}
	index := parseChoice(line)
	if _, err := m.store.At(index); err != nil {
		m.println("Invalid task number!")
		return
	}

	m.print("Enter new description: ")
	line, ok = m.readLine()
	if !ok {
		return
	}
	if _, err := m.store.SetDescriptionAt(index, line); err != nil {
		if errors.Is(err, task.ErrInvalidIndex) {
			m.println("Invalid task number!")
		} else {
			m.println("Description cannot be empty.")
		}
		return
	}
	m.println("Task updated successfully.")
}

func (m *Menu) exit() {
	tasks := m.store.List()
	if err := m.backend.Save(tasks); err != nil {
		m.logger.Error("save failed", "err", err)
		m.println("Error saving tasks: " + err.Error())
	} else {
		m.logger.Debug("saved tasks", "count", len(tasks))
	}
	m.println("Tasks saved. Exiting...")
}

func (m *Menu) readLine() (string, bool) {
	if !m.in.Scan() {
		if err := m.in.Err(); err != nil {
			m.logger.Error("read input", "err", err)
		}
		return "", false
	}
	return m.in.Text(), true
}

func (m *Menu) print(s string) {
	fmt.Fprint(m.out, s)
}

func (m *Menu) println(a ...any) {
	fmt.Fprintln(m.out, a...)
}

func checkbox(done bool) string {
	if done {
		return "[✓]"
	}
	return "[ ]"
}

// parseChoice reads a whole line as an integer, or invalidChoice.
func parseChoice(line string) int {
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return invalidChoice
	}
	return n
}

type indexToken struct {
	raw   string
	index int
	err   error
}

// splitIndices splits on runs of commas and spaces.
func splitIndices(line string) []indexToken {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ' '
	})
	tokens := make([]indexToken, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			err = fmt.Errorf("%w: %q", task.ErrInvalidInput, f)
		}
		tokens = append(tokens, indexToken{raw: f, index: n, err: err})
	}
	return tokens
}
