package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"personnel/internal/server/repository"
	"personnel/internal/shared/models"
)

type Repository struct {
	db  *sql.DB
	now func() time.Time
}

func New(dsn string) (*Repository, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS personnel (
			pid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			tel TEXT NOT NULL,
			hobby TEXT,
			created_time TIMESTAMP NOT NULL
		);
		CREATE INDEX IF NOT EXISTS personnel_created_time ON personnel(created_time);
	`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Repository{db: db, now: func() time.Time { return time.Now().UTC() }}, nil
}

func (r *Repository) Close() error { return r.db.Close() }

const selectColumns = `SELECT pid, id, name, email, tel, hobby, created_time FROM personnel`

type scanner interface {
	Scan(dest ...any) error
}

func scanPerson(s scanner) (models.Person, error) {
	var p models.Person
	var hobby sql.NullString
	if err := s.Scan(&p.PID, &p.ID, &p.Name, &p.Email, &p.Tel, &hobby, &p.CreatedTime); err != nil {
		return models.Person{}, err
	}
	if hobby.Valid {
		h := hobby.String
		p.Hobby = &h
	}
	return p, nil
}

func nullable(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// List returns every record ordered by creation time; records created in the
// same instant keep insertion order.
func (r *Repository) List(ctx context.Context, mode models.SortMode) ([]models.Person, error) {
	order := "created_time DESC, pid DESC"
	if mode == models.SortAscend {
		order = "created_time ASC, pid ASC"
	}
	rows, err := r.db.QueryContext(ctx, selectColumns+` ORDER BY `+order)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []models.Person{}
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repository) Get(ctx context.Context, id string) (models.Person, error) {
	p, err := scanPerson(r.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Person{}, repository.ErrNotFound
	}
	return p, err
}

func (r *Repository) Create(ctx context.Context, in models.PersonInput) (models.Person, error) {
	now := r.now()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO personnel(id, name, email, tel, hobby, created_time) VALUES(?,?,?,?,?,?)`,
		in.ID, in.Name, in.Email, in.Tel, nullable(in.Hobby), now)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Person{}, repository.ErrDuplicateID
		}
		return models.Person{}, err
	}
	pid, _ := res.LastInsertId()
	return models.Person{
		PID:         pid,
		ID:          in.ID,
		Name:        in.Name,
		Email:       in.Email,
		Tel:         in.Tel,
		Hobby:       in.Hobby,
		CreatedTime: now,
	}, nil
}

// Update loads the record with id, lets apply modify it and writes the result
// back in one transaction. An error from apply aborts the update unchanged.
func (r *Repository) Update(ctx context.Context, id string, apply func(*models.Person) error) (models.Person, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Person{}, err
	}
	defer func() { _ = tx.Rollback() }()

	p, err := scanPerson(tx.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Person{}, repository.ErrNotFound
	}
	if err != nil {
		return models.Person{}, err
	}
	if err := apply(&p); err != nil {
		return models.Person{}, err
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE personnel SET id=?, name=?, email=?, tel=?, hobby=? WHERE pid=?`,
		p.ID, p.Name, p.Email, p.Tel, nullable(p.Hobby), p.PID)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Person{}, repository.ErrDuplicateID
		}
		return models.Person{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Person{}, fmt.Errorf("commit update: %w", err)
	}
	return p, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM personnel WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
