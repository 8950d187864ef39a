package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/ytakahashi/daily-checklist/internal/database/migrations"
	"github.com/ytakahashi/daily-checklist/internal/models"
	"github.com/ytakahashi/daily-checklist/internal/services"
)

// SQLiteStore implements services.Store on a local SQLite database.
// Snapshot items are kept as a JSON document per date.
type SQLiteStore struct {
	db  *sqlx.DB
	ids services.IDGenerator
}

type itemRow struct {
	ID        string `db:"id"`
	Label     string `db:"label"`
	Category  string `db:"category"`
	SortOrder int    `db:"sort_order"`
	Status    string `db:"status"`
	Complete  bool   `db:"complete"`
}

func (r itemRow) model() models.CatalogItem {
	return models.CatalogItem{
		ID:       r.ID,
		Label:    r.Label,
		Category: models.Category(r.Category),
		Order:    r.SortOrder,
		Status:   models.Status(r.Status),
		Complete: r.Complete,
	}
}

type snapshotRow struct {
	ID    string `db:"id"`
	Date  string `db:"date"`
	Items string `db:"items"`
}

// NewSQLiteStore opens (or creates) the database at path and applies any
// pending migrations. path may be ":memory:".
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	if err := migrations.MigrateUp(db.DB); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &SQLiteStore{db: db, ids: services.UUIDGenerator{}}, nil
}

// OpenConnection opens a SQLite connection and configures pragmas.
// A single connection is used so ":memory:" databases are shared and
// writes are serialized.
func OpenConnection(path string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	return db, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ListItems(ctx context.Context) ([]models.CatalogItem, error) {
	var rows []itemRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT id, label, category, sort_order, status, complete FROM checklist_items ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("listing checklist items: %w", err)
	}

	items := make([]models.CatalogItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, r.model())
	}
	return items, nil
}

func (s *SQLiteStore) FindItemByID(ctx context.Context, id string) (*models.CatalogItem, error) {
	var r itemRow
	err := s.db.GetContext(ctx, &r,
		`SELECT id, label, category, sort_order, status, complete FROM checklist_items WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting checklist item %s: %w", id, err)
	}

	item := r.model()
	return &item, nil
}

func (s *SQLiteStore) SaveItems(ctx context.Context, items []models.CatalogItem) ([]models.CatalogItem, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	saved := make([]models.CatalogItem, 0, len(items))
	for _, item := range items {
		if item.ID == "" {
			item.ID = s.ids.New()
		}

		_, err := tx.NamedExecContext(ctx, `
			INSERT INTO checklist_items (id, label, category, sort_order, status, complete)
			VALUES (:id, :label, :category, :sort_order, :status, :complete)
			ON CONFLICT(id) DO UPDATE SET
				label = excluded.label,
				category = excluded.category,
				sort_order = excluded.sort_order,
				status = excluded.status,
				complete = excluded.complete`,
			itemRow{
				ID:        item.ID,
				Label:     item.Label,
				Category:  string(item.Category),
				SortOrder: item.Order,
				Status:    string(item.Status),
				Complete:  item.Complete,
			},
		)
		if err != nil {
			return nil, fmt.Errorf("saving checklist item %s: %w", item.ID, err)
		}
		saved = append(saved, item)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing checklist items: %w", err)
	}
	return saved, nil
}

func (s *SQLiteStore) DeleteItem(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM checklist_items WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting checklist item %s: %w", id, err)
	}
	return nil
}

func (s *SQLiteStore) FindSnapshotByDate(ctx context.Context, date string) (*models.DailySnapshot, error) {
	var r snapshotRow
	err := s.db.GetContext(ctx, &r, `SELECT id, date, items FROM user_checklists WHERE date = ?`, date)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting checklist for %s: %w", date, err)
	}

	snapshot := &models.DailySnapshot{ID: r.ID, Date: r.Date, Items: []models.SnapshotItem{}}
	if err := json.Unmarshal([]byte(r.Items), &snapshot.Items); err != nil {
		return nil, fmt.Errorf("decoding checklist items for %s: %w", date, err)
	}
	if snapshot.Items == nil {
		snapshot.Items = []models.SnapshotItem{}
	}
	return snapshot, nil
}

// SaveSnapshot upserts on date, so a second insert for the same date
// updates the existing row and keeps its id.
func (s *SQLiteStore) SaveSnapshot(ctx context.Context, snapshot *models.DailySnapshot) (*models.DailySnapshot, error) {
	stored := snapshot.Clone()
	if stored.ID == "" {
		stored.ID = s.ids.New()
	}

	data, err := json.Marshal(stored.Items)
	if err != nil {
		return nil, fmt.Errorf("encoding checklist items: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO user_checklists (id, date, items) VALUES (?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET items = excluded.items`,
		stored.ID, stored.Date, string(data),
	)
	if err != nil {
		return nil, fmt.Errorf("saving checklist for %s: %w", stored.Date, err)
	}

	if err := s.db.GetContext(ctx, &stored.ID, `SELECT id FROM user_checklists WHERE date = ?`, stored.Date); err != nil {
		return nil, fmt.Errorf("reading checklist id for %s: %w", stored.Date, err)
	}
	return stored, nil
}
