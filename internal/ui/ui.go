package ui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"taskman/internal/config"
	"taskman/internal/storage"
	"taskman/internal/task"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeRename
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	doneStyle   = lipgloss.NewStyle().Faint(true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	helpStyle   = lipgloss.NewStyle().Faint(true)
)

type Model struct {
	store      *task.Store
	keys       config.Keymap
	cursor     int
	mode       mode
	input      textinput.Model
	status     string
	confirmDel bool
}

func New(store *task.Store, keys config.Keymap) Model {
	ti := textinput.New()
	ti.Placeholder = "Task description"
	ti.CharLimit = 256
	ti.Width = 40

	return Model{
		store:  store,
		keys:   keys,
		cursor: clampCursor(0, store.Len()),
		status: "Press 'a' to add, space to toggle, 'd' to delete.",
		input:  ti,
		mode:   modeList,
	}
}

// Run shows the list until the user quits, then saves the store through
// backend and reports the outcome on out.
func Run(store *task.Store, backend storage.Backend, cfg config.Config, logger *log.Logger, out io.Writer) error {
	program := tea.NewProgram(New(store, cfg.Keys))
	_, err := program.Run()
	save(store, backend, logger, out)
	return err
}

func save(store *task.Store, backend storage.Backend, logger *log.Logger, out io.Writer) {
	tasks := store.List()
	if err := backend.Save(tasks); err != nil {
		logger.Error("save failed", "err", err)
		fmt.Fprintln(out, "Error saving tasks: "+err.Error())
	} else {
		logger.Debug("saved tasks", "count", len(tasks))
	}
	fmt.Fprintln(out, "Tasks saved. Exiting...")
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.confirmDel {
			return m.updateDeleteConfirm(msg.String())
		}
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.input.Width = msg.Width - 10
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if m.mode != modeList {
		return m.updateInputMode(key, msg)
	}
	return m.updateListMode(key)
}

func (m Model) updateInputMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.keys.Cancel:
		m.mode = modeList
		m.input.SetValue("")
		m.input.Blur()
		m.status = "Cancelled"
		return m, nil
	case m.keys.Confirm:
		if m.mode == modeAdd {
			return m.commitAdd()
		}
		return m.commitRename()
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) commitAdd() (tea.Model, tea.Cmd) {
	if err := m.store.Append(task.Task{Description: m.input.Value()}); err != nil {
		m.status = "Task cannot be empty!"
		return m, nil
	}
	m.cursor = clampCursor(m.store.Len()-1, m.store.Len())
	m.status = "Task added successfully."
	return m.leaveInput(), nil
}

func (m Model) commitRename() (tea.Model, tea.Cmd) {
	_, err := m.store.SetDescriptionAt(m.cursor+1, m.input.Value())
	switch {
	case errors.Is(err, task.ErrInvalidInput):
		m.status = "Description cannot be empty."
		return m, nil
	case err != nil:
		m.status = "Invalid task number!"
		return m.leaveInput(), nil
	}
	m.status = "Task updated successfully."
	return m.leaveInput(), nil
}

func (m Model) leaveInput() Model {
	m.input.SetValue("")
	m.input.Blur()
	m.mode = modeList
	return m
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	n := m.store.Len()
	switch key {
	case "ctrl+c", m.keys.Quit:
		return m, tea.Quit
	case m.keys.Down, "down":
		m.cursor = clampCursor(m.cursor+1, n)
	case m.keys.Up, "up":
		m.cursor = clampCursor(m.cursor-1, n)
	case m.keys.Add:
		m.mode = modeAdd
		m.input.Placeholder = "Task description"
		m.input.Focus()
		m.status = "Add mode: type a description and press Enter"
	case m.keys.Toggle:
		if n == 0 {
			return m, nil
		}
		res := m.store.ToggleAt(m.cursor + 1)[0]
		if res.Err != nil {
			m.status = "Invalid task number!"
			return m, nil
		}
		m.status = fmt.Sprintf("Toggled task %d: %s", res.Index, res.Task.Description)
		m.cursor = clampCursor(m.cursor+1, n)
	case m.keys.Delete:
		if n == 0 {
			return m, nil
		}
		t, _ := m.store.At(m.cursor + 1)
		m.confirmDel = true
		m.status = fmt.Sprintf("Delete \"%s\"? y/n", t.Description)
	case m.keys.Edit:
		if n == 0 {
			m.status = "No tasks available!"
			return m, nil
		}
		t, _ := m.store.At(m.cursor + 1)
		m.mode = modeRename
		m.input.SetValue(t.Description)
		m.input.Focus()
		m.status = "Edit mode: change the description and press Enter"
	}
	return m, nil
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", m.keys.Cancel:
		m.status = "Delete cancelled"
		m.confirmDel = false
		return m, nil
	case "y", "Y":
		m.confirmDel = false
		if _, err := m.store.RemoveAt(m.cursor + 1); err != nil {
			m.status = "Invalid task number!"
			return m, nil
		}
		m.cursor = clampCursor(m.cursor, m.store.Len())
		m.status = "Task removed successfully."
		return m, nil
	default:
		return m, nil
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("===== TASK MANAGER ====="))
	b.WriteString("\n\n")

	if m.store.Len() == 0 {
		b.WriteString("No tasks available!")
		b.WriteString("\n")
	} else {
		b.WriteString(m.renderTaskList())
	}

	b.WriteString("\n")
	switch m.mode {
	case modeAdd:
		b.WriteString("Add Task: ")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	case modeRename:
		b.WriteString("Edit Task: ")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(statusStyle.Render(m.status))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(renderHelp(m.keys)))

	return b.String()
}

func (m Model) renderTaskList() string {
	var b strings.Builder
	for i, t := range m.store.List() {
		cursor := " "
		if m.cursor == i && m.mode == modeList {
			cursor = ">"
		}

		checkbox := "[ ]"
		if t.Completed {
			checkbox = "[✓]"
		}

		body := fmt.Sprintf("%s %d. %s %s", cursor, i+1, checkbox, t.Description)
		if t.Completed {
			body = doneStyle.Render(body)
		}
		b.WriteString(body)
		b.WriteString("\n")
	}
	return b.String()
}

func renderHelp(k config.Keymap) string {
	toggle := k.Toggle
	if toggle == " " {
		toggle = "space"
	}
	return fmt.Sprintf("%s/%s move • %s add • %s toggle • %s delete • %s edit • %s quit",
		k.Up, k.Down, k.Add, toggle, k.Delete, k.Edit, k.Quit)
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
