package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Person is a personnel record as returned by the backend.
type Person struct {
	PID         int64     `json:"pid,omitempty" yaml:"pid,omitempty"`
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Email       string    `json:"email" yaml:"email"`
	Tel         string    `json:"tel" yaml:"tel"`
	Hobby       *string   `json:"hobby" yaml:"hobby"`
	CreatedTime time.Time `json:"created_time" yaml:"created_time"`
}

// Input returns the editable fields of p.
func (p Person) Input() PersonInput {
	in := PersonInput{ID: p.ID, Name: p.Name, Email: p.Email, Tel: p.Tel}
	if p.Hobby != nil {
		h := *p.Hobby
		in.Hobby = &h
	}
	return in
}

// PersonInput is the request body for create and full update.
type PersonInput struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Tel   string  `json:"tel"`
	Hobby *string `json:"hobby"`
}

// PersonPatch is a partial update body; nil fields are left untouched by the backend.
type PersonPatch struct {
	ID    *string
	Name  *string
	Email *string
	Tel   *string
	Hobby *string
	// ClearHobby sends an explicit null hobby when Hobby is nil.
	ClearHobby bool
}

// Empty reports whether the patch modifies nothing.
func (p PersonPatch) Empty() bool {
	return p.ID == nil && p.Name == nil && p.Email == nil && p.Tel == nil && p.Hobby == nil && !p.ClearHobby
}

func (p PersonPatch) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, 5)
	for key, v := range map[string]*string{"id": p.ID, "name": p.Name, "email": p.Email, "tel": p.Tel, "hobby": p.Hobby} {
		if v != nil {
			m[key] = *v
		}
	}
	if p.Hobby == nil && p.ClearHobby {
		m["hobby"] = nil
	}
	return json.Marshal(m)
}

// PersonList is the collection envelope of GET /personnel/.
type PersonList struct {
	Items []Person `json:"items" yaml:"items"`
	Count int      `json:"count" yaml:"count"`
}

// SortMode orders the collection by creation time.
type SortMode string

const (
	SortAscend  SortMode = "ascend"
	SortDescend SortMode = "descend"
)

// ParseSortMode accepts "ascend" or "descend", case-insensitively.
func ParseSortMode(s string) (SortMode, bool) {
	switch SortMode(strings.ToLower(strings.TrimSpace(s))) {
	case SortAscend:
		return SortAscend, true
	case SortDescend:
		return SortDescend, true
	}
	return "", false
}

// OptionalString maps "" to nil.
func OptionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
