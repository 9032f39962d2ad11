// Package ui is the interactive list: a bubbletea program over a
// tasklist.Controller.
//
// Store callbacks never touch the model. They are queued on a channel that
// waitForEvent drains one message at a time, so every Apply and every
// Complete runs inside Update.
package ui

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/golang/glog"

	"todo/internal/store"
	"todo/internal/tasklist"
)

// eventBuffer is the number of store events that may queue up between frames.
const eventBuffer = 16

type mode int

const (
	modeList mode = iota
	modeAdd
	modeEdit
	modeConfirm
)

// eventMsg carries one store delivery into Update.
type eventMsg tasklist.Event

// opDoneMsg reports a finished store call.
type opDoneMsg struct {
	op  *tasklist.Op
	err error
}

// Model is the bubbletea model of the interactive list.
type Model struct {
	ctx    context.Context
	list   *tasklist.Controller
	events chan tasklist.Event

	// done is closed by Close; nothing reads events after that.
	done      chan struct{}
	closeOnce sync.Once

	mode    mode
	cursor  int
	input   textinput.Model
	spinner spinner.Model
	width   int
}

// New creates a model over st. The live query starts in Init.
func New(ctx context.Context, st store.Store) *Model {
	ti := textinput.New()
	ti.Placeholder = "What needs to be done?"
	ti.CharLimit = 200

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = loadingStyle

	return &Model{
		ctx:     ctx,
		list:    tasklist.New(st),
		events:  make(chan tasklist.Event, eventBuffer),
		done:    make(chan struct{}),
		input:   ti,
		spinner: sp,
	}
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, st store.Store) error {
	m := New(ctx, st)
	defer m.Close()

	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// Close ends the live query and releases any store callback still waiting
// to queue an event. It may be called more than once.
func (m *Model) Close() {
	m.closeOnce.Do(func() {
		close(m.done)
		m.list.Close()
	})
}

func (m *Model) Init() tea.Cmd {
	m.list.Subscribe(m.ctx, m.post)
	return tea.Batch(m.spinner.Tick, m.waitForEvent())
}

// post runs on the store's goroutine.
func (m *Model) post(ev tasklist.Event) {
	select {
	case m.events <- ev:
	case <-m.done:
	case <-m.ctx.Done():
	}
}

func (m *Model) waitForEvent() tea.Cmd {
	events := m.events
	done := m.done
	ctx := m.ctx
	return func() tea.Msg {
		select {
		case ev := <-events:
			return eventMsg(ev)
		case <-done:
			return nil
		case <-ctx.Done():
			return nil
		}
	}
}

// run turns op into a command that performs the store call off the UI
// goroutine and reports back with opDoneMsg.
func (m *Model) run(op *tasklist.Op) tea.Cmd {
	if op == nil {
		return nil
	}
	list := m.list
	ctx := m.ctx
	glog.V(2).Infof("[ui]%s %s\n", op.Kind, op.ID)
	return func() tea.Msg {
		return opDoneMsg{op: op, err: list.Run(ctx, op)}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-12, 20)
		return m, nil

	case eventMsg:
		m.list.Apply(tasklist.Event(msg))
		m.reconcile()
		return m, m.waitForEvent()

	case opDoneMsg:
		m.list.Complete(msg.op, msg.err)
		if msg.err == nil {
			switch msg.op.Kind {
			case tasklist.OpAdd:
				if m.mode == modeAdd {
					m.input.SetValue(m.list.Input())
				}
			case tasklist.OpRename:
				m.reconcile()
			}
		}
		return m, nil

	case spinner.TickMsg:
		if !m.list.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch m.mode {
		case modeAdd:
			return m, m.updateAdd(msg)
		case modeEdit:
			return m, m.updateEdit(msg)
		case modeConfirm:
			return m, m.updateConfirm(msg)
		default:
			return m, m.updateList(msg)
		}
	}
	return m, nil
}

// reconcile drops back to the list when the edit or the pending delete
// went away underneath the current mode, and keeps the cursor in range.
func (m *Model) reconcile() {
	switch m.mode {
	case modeEdit:
		if _, ok := m.list.Editing(); !ok {
			m.leaveInput()
		}
	case modeConfirm:
		if _, ok := m.list.PendingDelete(); !ok {
			m.mode = modeList
		}
	}
	m.clampCursor()
}

func (m *Model) clampCursor() {
	n := len(m.list.Filtered())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) selected() (tasklist.Item, bool) {
	items := m.list.Filtered()
	if m.cursor < 0 || m.cursor >= len(items) {
		return tasklist.Item{}, false
	}
	return items[m.cursor], true
}

func (m *Model) enterInput(md mode, value string) tea.Cmd {
	m.mode = md
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
	return textinput.Blink
}

func (m *Model) leaveInput() {
	m.mode = modeList
	m.input.Blur()
	m.input.SetValue("")
}

func (m *Model) updateList(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "ctrl+c":
		m.Close()
		return tea.Quit
	case "j", "down":
		m.cursor++
		m.clampCursor()
	case "k", "up":
		m.cursor--
		m.clampCursor()
	case "a":
		return m.enterInput(modeAdd, m.list.Input())
	case " ", "x":
		if item, ok := m.selected(); ok {
			return m.run(m.list.Toggle(item.ID))
		}
	case "e":
		if item, ok := m.selected(); ok && m.list.StartEdit(item.ID) {
			ed, _ := m.list.Editing()
			return m.enterInput(modeEdit, ed.Draft)
		}
	case "d":
		if item, ok := m.selected(); ok && m.list.RequestDelete(item.ID) {
			m.mode = modeConfirm
		}
	case "1":
		m.setFilter(tasklist.FilterAll)
	case "2":
		m.setFilter(tasklist.FilterActive)
	case "3":
		m.setFilter(tasklist.FilterCompleted)
	case "tab":
		m.setFilter(m.list.Filter().Next())
	case "esc":
		m.list.ClearErr()
	}
	return nil
}

func (m *Model) setFilter(f tasklist.Filter) {
	m.list.SetFilter(f)
	m.clampCursor()
}

func (m *Model) updateAdd(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		return m.run(m.list.Add())
	case tea.KeyEsc:
		m.leaveInput()
		return nil
	case tea.KeyCtrlC:
		m.Close()
		return tea.Quit
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.list.SetInput(m.input.Value())
	return cmd
}

func (m *Model) updateEdit(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		return m.run(m.list.SaveEdit())
	case tea.KeyEsc:
		m.list.CancelEdit()
		m.leaveInput()
		return nil
	case tea.KeyCtrlC:
		m.Close()
		return tea.Quit
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.list.SetDraft(m.input.Value())
	return cmd
}

func (m *Model) updateConfirm(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		m.mode = modeList
		return m.run(m.list.ConfirmDelete())
	case "n", "N", "esc":
		m.list.DismissDelete()
		m.mode = modeList
	case "ctrl+c":
		m.Close()
		return tea.Quit
	}
	return nil
}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("todos"))
	b.WriteString("  ")
	b.WriteString(m.filterTabs())
	b.WriteString("\n\n")

	if m.mode == modeAdd {
		b.WriteString("New: " + m.input.View() + "\n\n")
	}

	if m.list.Loading() {
		b.WriteString(m.spinner.View() + loadingStyle.Render(" Loading...") + "\n")
	} else {
		m.writeItems(&b)
	}

	if footer := m.list.Footer(); footer != "" {
		b.WriteString("\n" + footerStyle.Render(footer) + "\n")
	}

	if m.mode == modeConfirm {
		if id, ok := m.list.PendingDelete(); ok {
			item, _ := m.list.Item(id)
			b.WriteString("\n" + confirmStyle.Render(fmt.Sprintf("Delete %q? (y/n)", item.Name)) + "\n")
		}
	}

	if err := m.list.Err(); err != nil {
		b.WriteString("\n" + errorStyle.Render("error: "+err.Error()) + "\n")
	}

	b.WriteString("\n" + helpStyle.Render(m.help()) + "\n")
	return b.String()
}

func (m *Model) writeItems(b *strings.Builder) {
	items := m.list.Filtered()
	if len(items) == 0 {
		b.WriteString(helpStyle.Render("Nothing here.") + "\n")
		return
	}
	ed, editing := m.list.Editing()
	for i, item := range items {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}
		box := "[ ]"
		if item.Completed {
			box = "[x]"
		}
		var name string
		switch {
		case editing && m.mode == modeEdit && ed.ID == item.ID:
			name = m.input.View()
		case item.Completed:
			name = completedStyle.Render(item.Name)
		default:
			name = item.Name
		}
		b.WriteString(cursor + box + " " + name + "\n")
	}
}

func (m *Model) filterTabs() string {
	tabs := make([]string, 0, len(tasklist.Filters))
	for i, f := range tasklist.Filters {
		label := fmt.Sprintf("%d:%s", i+1, f)
		if f == m.list.Filter() {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	return strings.Join(tabs, " ")
}

func (m *Model) help() string {
	switch m.mode {
	case modeAdd:
		return "enter: add • esc: done"
	case modeEdit:
		return "enter: save • esc: cancel"
	case modeConfirm:
		return "y: delete • n: keep"
	}
	return "a: add • space: toggle • e: edit • d: delete • 1/2/3 tab: filter • q: quit"
}
