// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache persists fetched and ranked papers between runs so that
// re-rendering a newsletter does not hit the arXiv API again. A cache is
// valid only while the configuration fields that influence fetching stay
// unchanged and the stored snapshot is younger than the validity window.
package cache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/shivankhullar/personal-arXiv-newsletter/pkg/types"
)

const dbFile = "newsletter.db"

// DefaultMaxAge is the cache validity window.
const DefaultMaxAge = 24 * time.Hour

// Paper set kinds stored in the cache. Candidates and reference papers are
// raw fetch output; the ranked set carries scores and match reasons.
const (
	KindCandidates = "candidates"
	KindReference  = "reference"
	KindRanked     = "ranked"
)

const (
	metaFingerprint = "config_fingerprint"
	metaSavedAt     = "saved_at"
)

// Store manages the newsletter cache SQLite database.
type Store struct {
	db  *sql.DB
	dir string
}

// Open opens or creates the cache database at dir/newsletter.db, creating
// the schema if it does not exist.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	s := &Store{db: db, dir: dir}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS papers (
			set_kind TEXT NOT NULL,
			position INTEGER NOT NULL,
			id TEXT NOT NULL,
			title TEXT,
			authors TEXT,
			abstract TEXT,
			categories TEXT,
			primary_category TEXT,
			published TEXT,
			updated TEXT,
			pdf_url TEXT,
			arxiv_url TEXT,
			ads_url TEXT,
			score REAL,
			match_reason TEXT,
			PRIMARY KEY (set_kind, id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_kind_position ON papers(set_kind, position)`,
		`CREATE TABLE IF NOT EXISTS metadata (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Fingerprint derives a stable identifier from the configuration fields
// that influence what gets fetched. List fields are sorted first, so
// reordering entries in the config file does not invalidate the cache.
func Fingerprint(cfg *types.Config) string {
	sortedCopy := func(in []string) []string {
		out := append([]string(nil), in...)
		sort.Strings(out)
		return out
	}

	snapshot := struct {
		Authors         []string `json:"authors"`
		Categories      []string `json:"categories"`
		Keywords        []string `json:"keywords"`
		DaysBack        int      `json:"days_back"`
		MaxAuthors      int      `json:"max_authors"`
		MinAuthors      int      `json:"min_authors"`
		ExcludeKeywords []string `json:"exclude_keywords"`
	}{
		Authors:         sortedCopy(cfg.Authors),
		Categories:      sortedCopy(cfg.Categories),
		Keywords:        sortedCopy(cfg.Keywords),
		DaysBack:        cfg.DaysBack,
		MaxAuthors:      cfg.Exclusions.MaxAuthors,
		MinAuthors:      cfg.Exclusions.MinAuthors,
		ExcludeKeywords: sortedCopy(cfg.Exclusions.ExcludeKeywords),
	}

	data, _ := json.Marshal(snapshot)
	return fmt.Sprintf("%x", sha256.Sum256(data))
}

// Valid reports whether the cache holds a snapshot for this configuration
// that is younger than maxAge. A zero maxAge uses DefaultMaxAge. An empty
// or corrupt cache is simply invalid, never an error.
func (s *Store) Valid(ctx context.Context, cfg *types.Config, maxAge time.Duration) bool {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}

	var stored string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM metadata WHERE key = ?`, metaFingerprint,
	).Scan(&stored)
	if err != nil || stored != Fingerprint(cfg) {
		return false
	}

	var savedAt string
	err = s.db.QueryRowContext(ctx,
		`SELECT value FROM metadata WHERE key = ?`, metaSavedAt,
	).Scan(&savedAt)
	if err != nil {
		return false
	}

	t, err := time.Parse(time.RFC3339, savedAt)
	if err != nil {
		return false
	}
	return time.Since(t) < maxAge
}

// MarkSaved records the configuration fingerprint and the save timestamp.
// Call it after all paper sets for a run have been written.
func (s *Store) MarkSaved(ctx context.Context, cfg *types.Config) error {
	return s.setMeta(ctx, map[string]string{
		metaFingerprint: Fingerprint(cfg),
		metaSavedAt:     time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Store) setMeta(ctx context.Context, values map[string]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for key, value := range values {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO metadata (key, value) VALUES (?, ?)
			 ON CONFLICT(key) DO UPDATE SET value=excluded.value`,
			key, value,
		)
		if err != nil {
			return fmt.Errorf("storing metadata %s: %w", key, err)
		}
	}
	return tx.Commit()
}

// SavePapers replaces the stored paper set of the given kind, preserving
// slice order through the position column.
func (s *Store) SavePapers(ctx context.Context, kind string, papers []types.Paper) error {
	ranked := make([]types.RankedPaper, len(papers))
	for i, p := range papers {
		ranked[i] = types.RankedPaper{Paper: p}
	}
	return s.saveSet(ctx, kind, ranked)
}

// SaveRanked replaces the stored ranked set, including scores and reasons.
func (s *Store) SaveRanked(ctx context.Context, papers []types.RankedPaper) error {
	return s.saveSet(ctx, KindRanked, papers)
}

func (s *Store) saveSet(ctx context.Context, kind string, papers []types.RankedPaper) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM papers WHERE set_kind = ?`, kind); err != nil {
		return fmt.Errorf("clearing %s set: %w", kind, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO papers
			(set_kind, position, id, title, authors, abstract, categories,
			 primary_category, published, updated, pdf_url, arxiv_url, ads_url,
			 score, match_reason)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range papers {
		authorsJSON, _ := json.Marshal(p.Authors)
		categoriesJSON, _ := json.Marshal(p.Categories)
		_, err := stmt.ExecContext(ctx,
			kind, i, p.ID, p.Title, string(authorsJSON), p.Abstract,
			string(categoriesJSON), p.PrimaryCategory,
			p.Published.UTC().Format(time.RFC3339),
			p.Updated.UTC().Format(time.RFC3339),
			p.PDFURL, p.ArxivURL, p.ADSURL, p.Score, p.MatchReason,
		)
		if err != nil {
			return fmt.Errorf("inserting paper %s: %w", p.ID, err)
		}
	}
	return tx.Commit()
}

// LoadPapers returns the stored paper set of the given kind in saved order.
func (s *Store) LoadPapers(ctx context.Context, kind string) ([]types.Paper, error) {
	ranked, err := s.loadSet(ctx, kind)
	if err != nil {
		return nil, err
	}
	papers := make([]types.Paper, len(ranked))
	for i, p := range ranked {
		papers[i] = p.Paper
	}
	return papers, nil
}

// LoadRanked returns the stored ranked set in saved (rank) order.
func (s *Store) LoadRanked(ctx context.Context) ([]types.RankedPaper, error) {
	return s.loadSet(ctx, KindRanked)
}

func (s *Store) loadSet(ctx context.Context, kind string) ([]types.RankedPaper, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, authors, abstract, categories, primary_category,
			published, updated, pdf_url, arxiv_url, ads_url, score, match_reason
		 FROM papers WHERE set_kind = ? ORDER BY position`, kind)
	if err != nil {
		return nil, fmt.Errorf("querying %s set: %w", kind, err)
	}
	defer rows.Close()

	var papers []types.RankedPaper
	for rows.Next() {
		var p types.RankedPaper
		var authorsJSON, categoriesJSON, published, updated string
		if err := rows.Scan(
			&p.ID, &p.Title, &authorsJSON, &p.Abstract, &categoriesJSON,
			&p.PrimaryCategory, &published, &updated,
			&p.PDFURL, &p.ArxivURL, &p.ADSURL, &p.Score, &p.MatchReason,
		); err != nil {
			return nil, fmt.Errorf("scanning paper row: %w", err)
		}
		json.Unmarshal([]byte(authorsJSON), &p.Authors)
		json.Unmarshal([]byte(categoriesJSON), &p.Categories)
		if t, err := time.Parse(time.RFC3339, published); err == nil {
			p.Published = t
		}
		if t, err := time.Parse(time.RFC3339, updated); err == nil {
			p.Updated = t
		}
		papers = append(papers, p)
	}
	return papers, rows.Err()
}

// Clear removes all cached papers and metadata.
func (s *Store) Clear(ctx context.Context) error {
	for _, stmt := range []string{`DELETE FROM papers`, `DELETE FROM metadata`} {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clearing cache: %w", err)
		}
	}
	return nil
}

// Info summarizes the cache contents.
type Info struct {
	Candidates int
	Reference  int
	Ranked     int
	SavedAt    time.Time // zero when the cache was never stamped
	Path       string
}

// Info reports per-set counts and the last save time.
func (s *Store) Info(ctx context.Context) (Info, error) {
	info := Info{Path: filepath.Join(s.dir, dbFile)}

	rows, err := s.db.QueryContext(ctx,
		`SELECT set_kind, count(*) FROM papers GROUP BY set_kind`)
	if err != nil {
		return info, fmt.Errorf("counting cached papers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var kind string
		var count int
		if err := rows.Scan(&kind, &count); err != nil {
			return info, fmt.Errorf("scanning count row: %w", err)
		}
		switch kind {
		case KindCandidates:
			info.Candidates = count
		case KindReference:
			info.Reference = count
		case KindRanked:
			info.Ranked = count
		}
	}
	if err := rows.Err(); err != nil {
		return info, err
	}

	var savedAt string
	err = s.db.QueryRowContext(ctx,
		`SELECT value FROM metadata WHERE key = ?`, metaSavedAt,
	).Scan(&savedAt)
	if err == nil {
		if t, parseErr := time.Parse(time.RFC3339, savedAt); parseErr == nil {
			info.SavedAt = t
		}
	} else if err != sql.ErrNoRows {
		return info, fmt.Errorf("reading save timestamp: %w", err)
	}
	return info, nil
}
