// Package tui renders the personnel screen in the terminal: the form, the
// banner, the delete prompt and the records table. All state changes go
// through view.Controller.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"personnel/internal/client/view"
)

const (
	fieldID = iota
	fieldName
	fieldEmail
	fieldTel
	fieldHobby
	fieldCount
)

var fieldLabels = [fieldCount]string{"id", "name", "email", "tel", "hobby"}

var fieldPlaceholders = [fieldCount]string{
	"13 digits",
	"up to 8 characters",
	"name@example.com",
	"11 digits starting with 1",
	"optional",
}

// formInputs is the form widget the controller reads and writes.
type formInputs struct {
	inputs [fieldCount]textinput.Model
	focus  int
}

func newFormInputs() *formInputs {
	f := &formInputs{}
	for i := range f.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = fieldPlaceholders[i]
		in.CharLimit = 64
		in.Width = 32
		f.inputs[i] = in
	}
	return f
}

func (f *formInputs) Values() view.Form {
	return view.Form{
		ID:    f.inputs[fieldID].Value(),
		Name:  f.inputs[fieldName].Value(),
		Email: f.inputs[fieldEmail].Value(),
		Tel:   f.inputs[fieldTel].Value(),
		Hobby: f.inputs[fieldHobby].Value(),
	}
}

func (f *formInputs) SetValues(v view.Form) {
	f.inputs[fieldID].SetValue(v.ID)
	f.inputs[fieldName].SetValue(v.Name)
	f.inputs[fieldEmail].SetValue(v.Email)
	f.inputs[fieldTel].SetValue(v.Tel)
	f.inputs[fieldHobby].SetValue(v.Hobby)
}

func (f *formInputs) focusAt(i int) tea.Cmd {
	f.blur()
	f.focus = i
	return f.inputs[i].Focus()
}

func (f *formInputs) blur() {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
}

func (f *formInputs) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

// focusTable is the focus position after the last form field.
const focusTable = fieldCount

// Model is the bubbletea model of the personnel screen.
type Model struct {
	ctrl   *view.Controller
	fields *formInputs
	table  table.Model
	styles Styles

	focus  int
	width  int
	height int
}

// New builds the screen around backend. opts are passed to the controller.
func New(backend view.Backend, opts ...view.Option) *Model {
	fields := newFormInputs()
	m := &Model{
		ctrl:   view.New(backend, fields, opts...),
		fields: fields,
		styles: DefaultStyles(),
	}
	m.table = table.New(
		table.WithColumns(columns(0)),
		table.WithHeight(12),
	)
	m.fields.focusAt(fieldID)
	m.syncTable()
	return m
}

// Controller exposes the underlying view controller.
func (m *Model) Controller() *view.Controller { return m.ctrl }

func columns(width int) []table.Column {
	widths := []int{14, 10, 12, 24, 12, 20, 16}
	if width > 0 {
		total := 0
		for _, w := range widths {
			total += w + 2
		}
		if extra := width - total - 4; extra > 0 {
			widths[3] += extra / 2
			widths[4] += extra - extra/2
		}
	}
	cols := make([]table.Column, len(view.Columns))
	for i, title := range view.Columns {
		cols[i] = table.Column{Title: title, Width: widths[i]}
	}
	return cols
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.ctrl.Init(), textinput.Blink)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.table.SetColumns(columns(msg.Width))
		if h := msg.Height - 20; h > 3 {
			m.table.SetHeight(h)
		}
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	cmd := m.ctrl.Handle(msg)
	m.syncTable()
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		return tea.Quit
	}
	if m.ctrl.Pending() != nil {
		switch msg.String() {
		case "y", "Y":
			return m.dispatch(view.ConfirmMsg{Yes: true})
		case "n", "N", "esc":
			return m.dispatch(view.ConfirmMsg{Yes: false})
		}
		return nil
	}

	switch msg.String() {
	case "tab":
		return m.setFocus((m.focus + 1) % (focusTable + 1))
	case "shift+tab":
		return m.setFocus((m.focus + focusTable) % (focusTable + 1))
	}

	if m.focus == focusTable {
		switch msg.String() {
		case "q":
			return tea.Quit
		case "r":
			return m.dispatch(view.LoadMsg{})
		case "e":
			if id, ok := m.selectedID(); ok {
				cmd := m.dispatch(view.EditMsg{ID: id})
				return tea.Batch(cmd, m.setFocus(fieldID))
			}
			return nil
		case "d":
			if id, ok := m.selectedID(); ok {
				return m.dispatch(view.DeleteMsg{ID: id})
			}
			return nil
		}
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return cmd
	}

	switch msg.Type {
	case tea.KeyEnter:
		return m.dispatch(view.SubmitMsg{})
	case tea.KeyEsc:
		return m.dispatch(view.CancelMsg{})
	}
	return m.fields.update(msg)
}

func (m *Model) dispatch(msg tea.Msg) tea.Cmd {
	cmd := m.ctrl.Handle(msg)
	m.syncTable()
	return cmd
}

func (m *Model) setFocus(i int) tea.Cmd {
	m.focus = i
	if i == focusTable {
		m.fields.blur()
		m.table.Focus()
		return nil
	}
	m.table.Blur()
	return m.fields.focusAt(i)
}

func (m *Model) selectedID() (string, bool) {
	ids := m.ctrl.Table().IDs
	i := m.table.Cursor()
	if i < 0 || i >= len(ids) {
		return "", false
	}
	return ids[i], true
}

func (m *Model) syncTable() {
	t := m.ctrl.Table()
	rows := make([]table.Row, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = table.Row(r)
	}
	m.table.SetRows(rows)
	if c := m.table.Cursor(); c >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

func (m *Model) View() string {
	var b strings.Builder
	s := m.styles

	b.WriteString(s.Title.Render(m.ctrl.Title()))
	b.WriteString("\n")
	for i := range m.fields.inputs {
		b.WriteString(s.Label.Render(fieldLabels[i]))
		b.WriteString(m.fields.inputs[i].View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.ctrl.Submitting() {
		b.WriteString(s.ButtonBusy.Render(m.ctrl.SubmitLabel()))
	} else {
		b.WriteString(s.Button.Render(m.ctrl.SubmitLabel()))
	}
	if m.ctrl.CancelVisible() {
		b.WriteString("  ")
		b.WriteString(s.Help.Render("esc cancel"))
	}
	b.WriteString("\n\n")

	if banner := m.ctrl.Banner(); banner.Visible() {
		style := s.Success
		if banner.IsError {
			style = s.Error
		}
		b.WriteString(style.Render(banner.Text))
		b.WriteString("\n\n")
	}
	if p := m.ctrl.Pending(); p != nil {
		b.WriteString(s.Prompt.Render(p.Prompt() + "  [y/n]"))
		b.WriteString("\n\n")
	}

	if t := m.ctrl.Table(); t.Placeholder != "" {
		b.WriteString(s.Help.Render(strings.Join(view.Columns, "  ")))
		b.WriteString("\n")
		b.WriteString(s.Placeholder.Render(t.Placeholder))
	} else {
		b.WriteString(m.table.View())
	}
	b.WriteString("\n\n")
	b.WriteString(s.Help.Render(m.help()))

	return s.Frame.Render(b.String())
}

func (m *Model) help() string {
	if m.ctrl.Pending() != nil {
		return "y confirm • n cancel"
	}
	if m.focus == focusTable {
		return "↑/↓ move • e edit • d delete • r reload • tab form • q quit"
	}
	return "tab next field • enter submit • esc cancel • ctrl+c quit"
}
