package view

import "personnel/internal/shared/models"

// User commands. Each one is consumed by Controller.Handle.
type (
	// LoadMsg re-fetches the collection.
	LoadMsg struct{}
	// SubmitMsg creates or updates from the current form.
	SubmitMsg struct{}
	// CancelMsg leaves edit mode and clears the form.
	CancelMsg struct{}
	// EditMsg loads the record with ID into the form.
	EditMsg struct{ ID string }
	// DeleteMsg asks for confirmation before deleting the record with ID.
	DeleteMsg struct{ ID string }
	// ConfirmMsg answers the pending delete confirmation.
	ConfirmMsg struct{ Yes bool }
)

// Results of network calls, delivered back on the event loop.
type (
	listResultMsg struct {
		seq    uint64
		people []models.Person
		err    error
	}
	submitResultMsg struct {
		edit   bool
		person *models.Person
		err    error
	}
	deleteResultMsg struct {
		id   string
		name string
		err  error
	}
)
