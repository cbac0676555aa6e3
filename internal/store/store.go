// Package store persists profiles in an embedded SQLite database. It is
// a collaborator outside the scoring core: the export and serve commands
// read profiles here, the core never touches it.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/spboyer/prepscore/internal/profile"
)

// ErrNotFound is returned when a profile id has no row.
var ErrNotFound = errors.New("store: profile not found")

// Store wraps the SQLite database holding profiles and their sub-records.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and ensures the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite: single writer

	if err := initSchema(db); err != nil {
		db.Close() //nolint:errcheck
		return nil, fmt.Errorf("store: init schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			bio          TEXT,
			headline     TEXT,
			location     TEXT,
			linkedin_url TEXT,
			github_url   TEXT,
			resume_path  TEXT,
			created_at   TEXT NOT NULL,
			updated_at   TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS skills (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			profile_id INTEGER NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
			name       TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS educations (
			id                 INTEGER PRIMARY KEY AUTOINCREMENT,
			profile_id         INTEGER NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
			degree             TEXT NOT NULL,
			institution        TEXT,
			year_of_completion INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS experiences (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			profile_id  INTEGER NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
			title       TEXT NOT NULL,
			company     TEXT,
			description TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS certifications (
			id                   INTEGER PRIMARY KEY AUTOINCREMENT,
			profile_id           INTEGER NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
			name                 TEXT NOT NULL,
			issuing_organization TEXT
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// SaveProfile inserts the profile and its sub-records in one transaction,
// returning the assigned id. An existing ID on the profile replaces that
// row and its sub-records.
func (s *Store) SaveProfile(ctx context.Context, p *profile.Profile) (int64, error) {
	if p == nil {
		return 0, errors.New("store: nil profile")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	now := time.Now().UTC().Format(time.RFC3339)
	id := p.ID
	if id > 0 {
		res, err := tx.ExecContext(ctx,
			`UPDATE profiles SET bio=?, headline=?, location=?, linkedin_url=?, github_url=?, resume_path=?, updated_at=?
			 WHERE id=?`,
			p.Bio, p.Headline, p.Location, p.LinkedInURL, p.GitHubURL, p.ResumePath, now, id)
		if err != nil {
			return 0, fmt.Errorf("store: update profile %d: %w", id, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return 0, fmt.Errorf("store: update profile %d: %w", id, ErrNotFound)
		}
		for _, table := range []string{"skills", "educations", "experiences", "certifications"} {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE profile_id=?`, id); err != nil {
				return 0, fmt.Errorf("store: clear %s for %d: %w", table, id, err)
			}
		}
	} else {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO profiles (bio, headline, location, linkedin_url, github_url, resume_path, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			p.Bio, p.Headline, p.Location, p.LinkedInURL, p.GitHubURL, p.ResumePath, now, now)
		if err != nil {
			return 0, fmt.Errorf("store: insert profile: %w", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("store: insert profile: %w", err)
		}
	}

	for _, sk := range p.Skills {
		if _, err := tx.ExecContext(ctx, `INSERT INTO skills (profile_id, name) VALUES (?, ?)`, id, sk.Name); err != nil {
			return 0, fmt.Errorf("store: insert skill: %w", err)
		}
	}
	for _, e := range p.Educations {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO educations (profile_id, degree, institution, year_of_completion) VALUES (?, ?, ?, ?)`,
			id, e.Degree, e.Institution, e.YearOfCompletion); err != nil {
			return 0, fmt.Errorf("store: insert education: %w", err)
		}
	}
	for _, e := range p.Experiences {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO experiences (profile_id, title, company, description) VALUES (?, ?, ?, ?)`,
			id, e.Title, e.Company, e.Description); err != nil {
			return 0, fmt.Errorf("store: insert experience: %w", err)
		}
	}
	for _, c := range p.Certifications {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO certifications (profile_id, name, issuing_organization) VALUES (?, ?, ?)`,
			id, c.Name, c.IssuingOrganization); err != nil {
			return 0, fmt.Errorf("store: insert certification: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("store: commit: %w", err)
	}
	return id, nil
}

// LoadProfile returns the profile with the given id, including all
// sub-records, or ErrNotFound.
func (s *Store) LoadProfile(ctx context.Context, id int64) (*profile.Profile, error) {
	p := &profile.Profile{ID: id}

	var bio, headline, location, linkedin, github, resume sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT bio, headline, location, linkedin_url, github_url, resume_path FROM profiles WHERE id=?`, id).
		Scan(&bio, &headline, &location, &linkedin, &github, &resume)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("store: profile %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store: load profile %d: %w", id, err)
	}
	p.Bio = bio.String
	p.Headline = headline.String
	p.Location = location.String
	p.LinkedInURL = linkedin.String
	p.GitHubURL = github.String
	p.ResumePath = resume.String

	if err := s.loadSubRecords(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ProfileIDs returns every stored profile id in ascending order.
func (s *Store) ProfileIDs(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM profiles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("store: list ids: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("store: scan id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *Store) loadSubRecords(ctx context.Context, p *profile.Profile) error {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM skills WHERE profile_id=? ORDER BY id`, p.ID)
	if err != nil {
		return fmt.Errorf("store: load skills: %w", err)
	}
	for rows.Next() {
		var sk profile.Skill
		if err := rows.Scan(&sk.Name); err != nil {
			rows.Close() //nolint:errcheck
			return fmt.Errorf("store: scan skill: %w", err)
		}
		p.Skills = append(p.Skills, sk)
	}
	if err := closeRows(rows); err != nil {
		return fmt.Errorf("store: iterate skills: %w", err)
	}

	rows, err = s.db.QueryContext(ctx,
		`SELECT degree, institution, year_of_completion FROM educations WHERE profile_id=? ORDER BY id`, p.ID)
	if err != nil {
		return fmt.Errorf("store: load educations: %w", err)
	}
	for rows.Next() {
		var e profile.Education
		var inst sql.NullString
		var year sql.NullInt64
		if err := rows.Scan(&e.Degree, &inst, &year); err != nil {
			rows.Close() //nolint:errcheck
			return fmt.Errorf("store: scan education: %w", err)
		}
		e.Institution = inst.String
		e.YearOfCompletion = int(year.Int64)
		p.Educations = append(p.Educations, e)
	}
	if err := closeRows(rows); err != nil {
		return fmt.Errorf("store: iterate educations: %w", err)
	}

	rows, err = s.db.QueryContext(ctx,
		`SELECT title, company, description FROM experiences WHERE profile_id=? ORDER BY id`, p.ID)
	if err != nil {
		return fmt.Errorf("store: load experiences: %w", err)
	}
	for rows.Next() {
		var e profile.Experience
		var company, desc sql.NullString
		if err := rows.Scan(&e.Title, &company, &desc); err != nil {
			rows.Close() //nolint:errcheck
			return fmt.Errorf("store: scan experience: %w", err)
		}
		e.Company = company.String
		e.Description = desc.String
		p.Experiences = append(p.Experiences, e)
	}
	if err := closeRows(rows); err != nil {
		return fmt.Errorf("store: iterate experiences: %w", err)
	}

	rows, err = s.db.QueryContext(ctx,
		`SELECT name, issuing_organization FROM certifications WHERE profile_id=? ORDER BY id`, p.ID)
	if err != nil {
		return fmt.Errorf("store: load certifications: %w", err)
	}
	for rows.Next() {
		var c profile.Certification
		var org sql.NullString
		if err := rows.Scan(&c.Name, &org); err != nil {
			rows.Close() //nolint:errcheck
			return fmt.Errorf("store: scan certification: %w", err)
		}
		c.IssuingOrganization = org.String
		p.Certifications = append(p.Certifications, c)
	}
	if err := closeRows(rows); err != nil {
		return fmt.Errorf("store: iterate certifications: %w", err)
	}
	return nil
}

// closeRows surfaces an iteration failure that Next reports only by
// returning false. Without this check a mid-iteration error would load
// a silently truncated profile.
func closeRows(rows *sql.Rows) error {
	err := rows.Err()
	rows.Close() //nolint:errcheck
	return err
}
