package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"scantree/internal/analysis"
	"scantree/internal/component"
)

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates or opens a SQLite database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS components (
			uuid TEXT PRIMARY KEY,
			kee TEXT UNIQUE,
			public_key TEXT,
			name TEXT,
			description TEXT,
			type TEXT,
			status TEXT,
			path TEXT,
			scm_path TEXT,
			language TEXT,
			is_test INTEGER,
			line_count INTEGER,
			project_uuid TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS analyses (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			project_uuid TEXT,
			version TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE INDEX IF NOT EXISTS idx_components_project ON components(project_uuid);`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_project ON analyses(project_uuid);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// --- ComponentStore implementation ---

func (s *SQLiteStore) SaveTree(ctx context.Context, root *component.Component) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO components (uuid, kee, public_key, name, description, type, status, path, scm_path, language, is_test, line_count, project_uuid)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(uuid) DO UPDATE SET
			kee=excluded.kee,
			public_key=excluded.public_key,
			name=excluded.name,
			description=excluded.description,
			type=excluded.type,
			status=excluded.status,
			path=excluded.path,
			scm_path=excluded.scm_path,
			language=excluded.language,
			is_test=excluded.is_test,
			line_count=excluded.line_count,
			project_uuid=excluded.project_uuid
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	var save func(c *component.Component) error
	save = func(c *component.Component) error {
		language := ""
		isTest := false
		lineCount := 0
		if c.File != nil {
			language = c.File.Language
			isTest = c.File.IsTest
			lineCount = c.File.Lines
		}
		if _, err := stmt.Exec(c.UUID, c.Key, c.PublicKey, c.Name, c.Description, string(c.Type), string(c.Status),
			c.Report.Path, c.Report.ScmPath, language, isTest, lineCount, root.UUID); err != nil {
			return err
		}
		for _, child := range c.Children {
			if err := save(child); err != nil {
				return err
			}
		}
		return nil
	}
	if err := save(root); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStore) UUIDByKey(ctx context.Context, key string) (string, bool, error) {
	row := s.db.QueryRowContext(ctx, "SELECT uuid FROM components WHERE kee = ?", key)

	var uuid string
	if err := row.Scan(&uuid); err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to look up component key: %w", err)
	}
	return uuid, true, nil
}

// --- AnalysisStore implementation ---

func (s *SQLiteStore) ProjectByKey(ctx context.Context, key string) (*analysis.Project, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT kee, name, description FROM components WHERE kee = ? AND type = ?", key, string(component.TypeProject))

	var p analysis.Project
	if err := row.Scan(&p.Key, &p.Name, &p.Description); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up project: %w", err)
	}
	return &p, nil
}

func (s *SQLiteStore) BaseAnalysis(ctx context.Context, projectUUID string) (*analysis.BaseAnalysis, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT version FROM analyses WHERE project_uuid = ? ORDER BY id DESC LIMIT 1", projectUUID)

	var base analysis.BaseAnalysis
	if err := row.Scan(&base.Version); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up base analysis: %w", err)
	}
	return &base, nil
}

func (s *SQLiteStore) RecordAnalysis(ctx context.Context, projectUUID, version string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO analyses (project_uuid, version) VALUES (?, ?)", projectUUID, version)
	return err
}
