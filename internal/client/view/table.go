package view

import (
	"time"

	"personnel/internal/shared/models"
)

type tableStatus int

const (
	tableLoading tableStatus = iota
	tableReady
	tableLoadFailed
)

// Placeholder texts shown instead of rows.
const (
	PlaceholderLoading    = "loading..."
	PlaceholderLoadFailed = "load failed, check that the backend is running."
	PlaceholderEmpty      = "no records found."
)

// TimeLayout formats creation times in the table.
const TimeLayout = "2006/01/02 15:04:05"

// Columns are the table headers, in row order.
var Columns = []string{"ID", "Name", "Tel", "Email", "Hobby", "Created", "Actions"}

const actionsCell = "[e]dit [d]elete"

// Row is one rendered record.
type Row []string

// Table is what the table area shows: a placeholder or rows.
type Table struct {
	Placeholder string
	Rows        []Row
	// IDs maps each row to the record id it was built from.
	IDs []string
}

// Table builds the table from the last list result.
func (c *Controller) Table() Table {
	switch c.table {
	case tableLoading:
		return Table{Placeholder: PlaceholderLoading}
	case tableLoadFailed:
		return Table{Placeholder: PlaceholderLoadFailed}
	}
	if len(c.people) == 0 {
		return Table{Placeholder: PlaceholderEmpty}
	}
	t := Table{
		Rows: make([]Row, 0, len(c.people)),
		IDs:  make([]string, 0, len(c.people)),
	}
	for _, p := range c.people {
		t.Rows = append(t.Rows, BuildRow(p, c.loc))
		t.IDs = append(t.IDs, p.ID)
	}
	return t
}

// BuildRow renders p in the column order of Columns.
func BuildRow(p models.Person, loc *time.Location) Row {
	hobby := "-"
	if p.Hobby != nil && *p.Hobby != "" {
		hobby = *p.Hobby
	}
	return Row{p.ID, p.Name, p.Tel, p.Email, hobby, FormatTime(p.CreatedTime, loc), actionsCell}
}

// FormatTime renders t in loc, or "" for the zero time.
func FormatTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(TimeLayout)
}
