package view

import (
	"personnel/internal/shared/models"
)

// Mode is the form mode.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// FormState is the transient state of the single form.
type FormState struct {
	Mode              Mode
	EditingOriginalID string
}

// Form holds the raw text of the form fields.
type Form struct {
	ID    string
	Name  string
	Email string
	Tel   string
	Hobby string
}

// Input converts the form into a request body. An empty hobby is sent as null.
func (f Form) Input() models.PersonInput {
	return models.PersonInput{
		ID:    f.ID,
		Name:  f.Name,
		Email: f.Email,
		Tel:   f.Tel,
		Hobby: models.OptionalString(f.Hobby),
	}
}

// FormFromPerson copies the editable fields of p.
func FormFromPerson(p models.Person) Form {
	f := Form{ID: p.ID, Name: p.Name, Email: p.Email, Tel: p.Tel}
	if p.Hobby != nil {
		f.Hobby = *p.Hobby
	}
	return f
}

// FormFields is the widget that holds the form text. The controller reads it
// on submit and writes it on edit and reset.
type FormFields interface {
	Values() Form
	SetValues(Form)
}

// Banner is the single success/error message slot.
type Banner struct {
	Text    string
	IsError bool
}

// Visible reports whether there is anything to show.
func (b Banner) Visible() bool { return b.Text != "" }
