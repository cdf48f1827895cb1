package ui

import (
	"bytes"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskman/internal/config"
	"taskman/internal/logging"
	"taskman/internal/task"
)

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(keyMsg(k))
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func newModel(tasks ...task.Task) Model {
	return New(task.NewStore(tasks), config.Default().Keys)
}

func TestAddTask(t *testing.T) {
	m := newModel()
	m = press(t, m, "a", "buy milk", "enter")

	assert.Equal(t, []task.Task{{Description: "buy milk"}}, m.store.List())
	assert.Equal(t, modeList, m.mode)
	assert.Equal(t, "Task added successfully.", m.status)
	assert.Contains(t, m.View(), "1. [ ] buy milk")
}

func TestAddBlankStaysInAddMode(t *testing.T) {
	m := newModel()
	m = press(t, m, "a", "enter")

	assert.Equal(t, 0, m.store.Len())
	assert.Equal(t, modeAdd, m.mode)
	assert.Equal(t, "Task cannot be empty!", m.status)

	m = press(t, m, "esc")
	assert.Equal(t, modeList, m.mode)
}

func TestToggleMovesCursor(t *testing.T) {
	m := newModel(task.Task{Description: "a"}, task.Task{Description: "b"})
	m = press(t, m, " ")

	assert.True(t, m.store.List()[0].Completed)
	assert.Equal(t, 1, m.cursor)
	assert.Equal(t, "Toggled task 1: a", m.status)

	m = press(t, m, "k", " ")
	assert.False(t, m.store.List()[0].Completed)
}

func TestToggleOnEmptyListIsNoop(t *testing.T) {
	m := newModel()
	m = press(t, m, " ", "d", "e")
	assert.Equal(t, 0, m.store.Len())
	assert.False(t, m.confirmDel)
	assert.Equal(t, modeList, m.mode)
}

func TestDeleteWithConfirm(t *testing.T) {
	m := newModel(task.Task{Description: "a"}, task.Task{Description: "b"})

	m = press(t, m, "j", "d")
	require.True(t, m.confirmDel)
	assert.Equal(t, `Delete "b"? y/n`, m.status)

	m = press(t, m, "n")
	assert.Equal(t, 2, m.store.Len())

	m = press(t, m, "d", "y")
	assert.Equal(t, []task.Task{{Description: "a"}}, m.store.List())
	assert.Equal(t, 0, m.cursor)
}

func TestRename(t *testing.T) {
	m := newModel(task.Task{Description: "old", Completed: true})

	m = press(t, m, "e")
	require.Equal(t, modeRename, m.mode)
	assert.Equal(t, "old", m.input.Value())

	m.input.SetValue("   ")
	m = press(t, m, "enter")
	assert.Equal(t, "Description cannot be empty.", m.status)
	assert.Equal(t, "old", m.store.List()[0].Description)

	m.input.SetValue("new")
	m = press(t, m, "enter")
	assert.Equal(t, []task.Task{{Description: "new", Completed: true}}, m.store.List())
	assert.Equal(t, modeList, m.mode)
}

func TestQuit(t *testing.T) {
	m := newModel()
	_, cmd := m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestViewEmpty(t *testing.T) {
	view := newModel().View()
	assert.Contains(t, view, "TASK MANAGER")
	assert.Contains(t, view, "No tasks available!")
	assert.Contains(t, view, "space toggle")
}

func TestClampCursor(t *testing.T) {
	assert.Equal(t, 0, clampCursor(5, 0))
	assert.Equal(t, 0, clampCursor(-1, 3))
	assert.Equal(t, 2, clampCursor(7, 3))
	assert.Equal(t, 1, clampCursor(1, 3))
}

type failingBackend struct{}

func (failingBackend) Load() ([]task.Task, error) { return nil, nil }
func (failingBackend) Save([]task.Task) error     { return errors.New("read-only") }
func (failingBackend) Close() error               { return nil }

func TestSaveReportsFailure(t *testing.T) {
	var out bytes.Buffer
	save(task.NewStore([]task.Task{{Description: "a"}}), failingBackend{}, logging.Discard(), &out)
	assert.Equal(t, "Error saving tasks: read-only\nTasks saved. Exiting...\n", out.String())
}
