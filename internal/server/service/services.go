package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"personnel/internal/server/repository"
	"personnel/internal/shared/models"
)

type Repository interface {
	List(ctx context.Context, mode models.SortMode) ([]models.Person, error)
	Get(ctx context.Context, id string) (models.Person, error)
	Create(ctx context.Context, in models.PersonInput) (models.Person, error)
	Update(ctx context.Context, id string, apply func(*models.Person) error) (models.Person, error)
	Delete(ctx context.Context, id string) error
}

type Services struct {
	Personnel *PersonnelService
}

func NewServices(repo Repository) *Services {
	return &Services{Personnel: &PersonnelService{repo: repo, validate: newValidator()}}
}

// Error is a failure reported to the client as {"detail": Detail}.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string { return e.Detail }

// FieldError is one entry of a 422 detail list.
type FieldError struct {
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
	Type string `json:"type"`
}

// ValidationErrors is reported as {"detail": [...]} with status 422.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, fe := range v {
		parts[i] = fmt.Sprintf("%v: %s", fe.Loc, fe.Msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Value is one submitted field.
type Value struct {
	Set  bool
	Null bool
	Text string
}

// Str is a present string value.
func Str(s string) Value { return Value{Set: true, Text: s} }

// Null is a present JSON null.
func Null() Value { return Value{Set: true, Null: true} }

// Submission is a request body after JSON type checks. Fields that were not
// strings or null are already reported in Invalid.
type Submission struct {
	ID    Value
	Name  Value
	Email Value
	Tel   Value
	Hobby Value

	Invalid ValidationErrors
}

func (s *Submission) field(name string) Value {
	switch name {
	case "id":
		return s.ID
	case "name":
		return s.Name
	case "email":
		return s.Email
	case "tel":
		return s.Tel
	default:
		return s.Hobby
	}
}

var (
	idPattern    = regexp.MustCompile(`^\d{13}$`)
	telPattern   = regexp.MustCompile(`^1\d{10}$`)
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("personnel_id", matches(idPattern))
	_ = v.RegisterValidation("personnel_tel", matches(telPattern))
	_ = v.RegisterValidation("personnel_email", matches(emailPattern))
	return v
}

type fieldRule struct {
	name     string
	tag      string
	nullable bool
}

// rules are checked in this order, which is also the order of reported errors.
var rules = []fieldRule{
	{name: "id", tag: "required,personnel_id"},
	{name: "name", tag: "required,max=8"},
	{name: "email", tag: "required,max=255,personnel_email"},
	{name: "tel", tag: "required,personnel_tel"},
	{name: "hobby", tag: "required,max=32", nullable: true},
}

func describe(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return field + " must not be blank"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "personnel_id":
		return "id must be exactly 13 digits"
	case "personnel_tel":
		return "tel must be 11 digits starting with 1"
	case "personnel_email":
		return "email is not a valid address"
	}
	return field + " is invalid"
}

type PersonnelService struct {
	repo     Repository
	validate *validator.Validate
}

// check validates the present fields of sub and returns their trimmed values.
// With partial false, absent non-nullable fields are reported as missing.
func (s *PersonnelService) check(sub Submission, partial bool) (map[string]*string, ValidationErrors) {
	invalid := map[string]FieldError{}
	for _, fe := range sub.Invalid {
		if len(fe.Loc) == 2 {
			if name, ok := fe.Loc[1].(string); ok {
				invalid[name] = fe
			}
		}
	}
	var errs ValidationErrors
	for _, fe := range sub.Invalid {
		if len(fe.Loc) != 2 {
			errs = append(errs, fe)
		}
	}

	out := map[string]*string{}
	for _, rule := range rules {
		loc := []any{"body", rule.name}
		if fe, ok := invalid[rule.name]; ok {
			errs = append(errs, fe)
			continue
		}
		v := sub.field(rule.name)
		switch {
		case !v.Set:
			if !partial && !rule.nullable {
				errs = append(errs, FieldError{Loc: loc, Msg: "Field required", Type: "missing"})
			}
			continue
		case v.Null:
			if rule.nullable {
				out[rule.name] = nil
			} else {
				errs = append(errs, FieldError{Loc: loc, Msg: "Input should be a valid string", Type: "string_type"})
			}
			continue
		}
		text := strings.TrimSpace(v.Text)
		if err := s.validate.Var(text, rule.tag); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) && len(verrs) > 0 {
				errs = append(errs, FieldError{Loc: loc, Msg: "Value error, " + describe(rule.name, verrs[0]), Type: "value_error"})
				continue
			}
			return nil, ValidationErrors{{Loc: loc, Msg: err.Error(), Type: "value_error"}}
		}
		out[rule.name] = &text
	}
	return out, errs
}

func (s *PersonnelService) List(ctx context.Context, mode models.SortMode) ([]models.Person, error) {
	return s.repo.List(ctx, mode)
}

func (s *PersonnelService) Get(ctx context.Context, id string) (models.Person, error) {
	p, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return models.Person{}, notFound(id)
	}
	return p, err
}

func (s *PersonnelService) Create(ctx context.Context, sub Submission) (models.Person, error) {
	values, errs := s.check(sub, false)
	if len(errs) > 0 {
		return models.Person{}, errs
	}
	in := models.PersonInput{
		ID:    *values["id"],
		Name:  *values["name"],
		Email: *values["email"],
		Tel:   *values["tel"],
		Hobby: values["hobby"],
	}
	p, err := s.repo.Create(ctx, in)
	if errors.Is(err, repository.ErrDuplicateID) {
		return models.Person{}, duplicate(in.ID)
	}
	return p, err
}

// Update changes the fields present in sub on the record with id. A null
// hobby clears it.
func (s *PersonnelService) Update(ctx context.Context, id string, sub Submission) (models.Person, error) {
	values, errs := s.check(sub, true)
	if len(errs) > 0 {
		return models.Person{}, errs
	}
	p, err := s.repo.Update(ctx, id, func(p *models.Person) error {
		if v, ok := values["id"]; ok {
			p.ID = *v
		}
		if v, ok := values["name"]; ok {
			p.Name = *v
		}
		if v, ok := values["email"]; ok {
			p.Email = *v
		}
		if v, ok := values["tel"]; ok {
			p.Tel = *v
		}
		if v, ok := values["hobby"]; ok {
			p.Hobby = v
		}
		return nil
	})
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return models.Person{}, notFound(id)
	case errors.Is(err, repository.ErrDuplicateID):
		newID := id
		if v := values["id"]; v != nil {
			newID = *v
		}
		return models.Person{}, duplicate(newID)
	}
	return p, err
}

func (s *PersonnelService) Delete(ctx context.Context, id string) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(id)
	}
	return err
}

func notFound(id string) *Error {
	return &Error{Status: http.StatusNotFound, Detail: fmt.Sprintf("personnel with id %s not found", id)}
}

func duplicate(id string) *Error {
	return &Error{Status: http.StatusConflict, Detail: fmt.Sprintf("personnel with id %s already exists", id)}
}
