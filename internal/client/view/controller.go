// Package view holds the personnel view controller: form mode, banner, delete
// confirmation and the table built from the last fetched list. It is driven
// by bubbletea messages and never touches the network from the event loop.
package view

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"personnel/internal/client/api"
	"personnel/internal/shared/models"
)

// Backend is the subset of api.Client the controller needs.
type Backend interface {
	List(ctx context.Context, mode models.SortMode) ([]models.Person, error)
	Create(ctx context.Context, in models.PersonInput) (*models.Person, error)
	Update(ctx context.Context, originalID string, in models.PersonInput) (*models.Person, error)
	Delete(ctx context.Context, id string) error
}

// PendingDelete is a delete waiting for user confirmation.
type PendingDelete struct {
	ID   string
	Name string
}

// Prompt is the confirmation question shown to the user.
func (p PendingDelete) Prompt() string {
	return fmt.Sprintf("Delete personnel [%s] (id: %s)? This cannot be undone.", p.Name, p.ID)
}

// Controller is the single view context, constructed once at startup.
type Controller struct {
	backend Backend
	form    FormFields
	logger  *zap.Logger
	ctx     context.Context
	loc     *time.Location
	sort    models.SortMode

	state      FormState
	banner     Banner
	submitting bool
	confirm    *PendingDelete
	deleting   map[string]bool

	people  []models.Person
	table   tableStatus
	loadSeq uint64
	doneSeq uint64
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the diagnostic logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithLocation sets the zone used to format creation times.
func WithLocation(loc *time.Location) Option {
	return func(c *Controller) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// WithContext sets the context network calls are bound to.
func WithContext(ctx context.Context) Option {
	return func(c *Controller) {
		if ctx != nil {
			c.ctx = ctx
		}
	}
}

// WithSortMode sets the list order. The default is descend.
func WithSortMode(mode models.SortMode) Option {
	return func(c *Controller) {
		if mode != "" {
			c.sort = mode
		}
	}
}

// New returns a controller in create mode with an empty form.
func New(backend Backend, form FormFields, opts ...Option) *Controller {
	c := &Controller{
		backend:  backend,
		form:     form,
		logger:   zap.NewNop(),
		ctx:      context.Background(),
		loc:      time.Local,
		sort:     models.SortDescend,
		deleting: make(map[string]bool),
		table:    tableLoading,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.form.SetValues(Form{})
	return c
}

// Init starts the initial load.
func (c *Controller) Init() tea.Cmd {
	return c.load()
}

// Handle is the only place controller state changes. It returns the network
// call to run, if any.
func (c *Controller) Handle(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case LoadMsg:
		return c.load()
	case SubmitMsg:
		return c.submit()
	case CancelMsg:
		c.reset()
	case EditMsg:
		c.edit(msg.ID)
	case DeleteMsg:
		c.requestDelete(msg.ID)
	case ConfirmMsg:
		return c.confirmDelete(msg.Yes)

	case listResultMsg:
		c.listDone(msg)
	case submitResultMsg:
		return c.submitDone(msg)
	case deleteResultMsg:
		return c.deleteDone(msg)
	}
	return nil
}

func (c *Controller) load() tea.Cmd {
	c.loadSeq++
	seq := c.loadSeq
	if c.table != tableReady {
		c.table = tableLoading
	}
	ctx, backend, mode := c.ctx, c.backend, c.sort
	return func() tea.Msg {
		people, err := backend.List(ctx, mode)
		return listResultMsg{seq: seq, people: people, err: err}
	}
}

func (c *Controller) listDone(msg listResultMsg) {
	if msg.seq != c.loadSeq {
		c.logger.Debug("dropping stale list result", zap.Uint64("seq", msg.seq), zap.Uint64("latest", c.loadSeq))
		return
	}
	c.doneSeq = msg.seq
	if msg.err != nil {
		c.logger.Warn("list failed", zap.Error(msg.err))
		c.people = nil
		c.table = tableLoadFailed
		return
	}
	c.people = msg.people
	c.table = tableReady
}

func (c *Controller) submit() tea.Cmd {
	if c.submitting {
		return nil
	}
	c.submitting = true
	in := c.form.Values().Input()
	edit := c.state.Mode == ModeEdit
	originalID := c.state.EditingOriginalID
	ctx, backend := c.ctx, c.backend
	return func() tea.Msg {
		var p *models.Person
		var err error
		if edit {
			p, err = backend.Update(ctx, originalID, in)
		} else {
			p, err = backend.Create(ctx, in)
		}
		return submitResultMsg{edit: edit, person: p, err: err}
	}
}

func (c *Controller) submitDone(msg submitResultMsg) tea.Cmd {
	c.submitting = false
	if msg.err != nil {
		c.showError(msg.err)
		return nil
	}
	verb := "created"
	if msg.edit {
		verb = "updated"
	}
	text := verb + " successfully"
	if msg.person != nil && msg.person.Name != "" {
		text = fmt.Sprintf("personnel [%s] %s", msg.person.Name, text)
	}
	c.banner = Banner{Text: text}
	c.reset()
	return c.load()
}

func (c *Controller) edit(id string) {
	p, ok := c.find(id)
	if !ok {
		c.logger.Warn("edit requested for unknown record", zap.String("id", id))
		return
	}
	c.form.SetValues(FormFromPerson(p))
	c.state = FormState{Mode: ModeEdit, EditingOriginalID: p.ID}
}

func (c *Controller) reset() {
	c.form.SetValues(Form{})
	c.state = FormState{Mode: ModeCreate}
}

func (c *Controller) requestDelete(id string) {
	name := id
	if p, ok := c.find(id); ok {
		name = p.Name
	}
	c.confirm = &PendingDelete{ID: id, Name: name}
}

func (c *Controller) confirmDelete(yes bool) tea.Cmd {
	pending := c.confirm
	c.confirm = nil
	if pending == nil || !yes {
		return nil
	}
	if c.deleting[pending.ID] {
		return nil
	}
	c.deleting[pending.ID] = true
	ctx, backend := c.ctx, c.backend
	id, name := pending.ID, pending.Name
	return func() tea.Msg {
		return deleteResultMsg{id: id, name: name, err: backend.Delete(ctx, id)}
	}
}

func (c *Controller) deleteDone(msg deleteResultMsg) tea.Cmd {
	delete(c.deleting, msg.id)
	if msg.err != nil {
		c.showError(msg.err)
		return nil
	}
	c.banner = Banner{Text: fmt.Sprintf("personnel [%s] deleted successfully", msg.name)}
	return c.load()
}

func (c *Controller) showError(err error) {
	var apiErr *api.APIError
	if !errors.As(err, &apiErr) {
		c.logger.Error("unexpected client error", zap.Error(err))
	}
	c.banner = Banner{Text: err.Error(), IsError: true}
}

func (c *Controller) find(id string) (models.Person, bool) {
	for _, p := range c.people {
		if p.ID == id {
			return p, true
		}
	}
	return models.Person{}, false
}

// State returns the form state.
func (c *Controller) State() FormState { return c.state }

// Banner returns the last success or error message.
func (c *Controller) Banner() Banner { return c.banner }

// Submitting reports whether a submit is in flight; the submit control is
// disabled meanwhile.
func (c *Controller) Submitting() bool { return c.submitting }

// Pending returns the delete awaiting confirmation, if any.
func (c *Controller) Pending() *PendingDelete { return c.confirm }

// Loading reports whether a list request is outstanding.
func (c *Controller) Loading() bool { return c.loadSeq != c.doneSeq }

// SubmitLabel is the text of the submit control.
func (c *Controller) SubmitLabel() string {
	switch {
	case c.submitting:
		return "processing..."
	case c.state.Mode == ModeEdit:
		return "save changes"
	default:
		return "create"
	}
}

// Title is the form heading.
func (c *Controller) Title() string {
	if c.state.Mode == ModeEdit {
		return "edit personnel"
	}
	return "personnel form"
}

// CancelVisible reports whether the cancel affordance is shown.
func (c *Controller) CancelVisible() bool { return c.state.Mode == ModeEdit }
