package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	_ "modernc.org/sqlite"

	"github.com/SharjeelAli25/HR-Interview-Scheduler/pkg/domain/interfaces"
	"github.com/SharjeelAli25/HR-Interview-Scheduler/pkg/domain/model"
)

// timeLayout is RFC 3339 with fixed-width nanoseconds so that stored
// timestamps sort lexicographically. RFC3339Nano trims trailing zeros and
// breaks that ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Repository is a SQLite-backed interview store using the pure-Go driver.
type Repository struct {
	db *sql.DB
}

var _ interfaces.InterviewRepository = &Repository{}

// New opens (or creates) the database at path and applies the schema.
func New(ctx context.Context, path string) (*Repository, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open sqlite database", goerr.V("path", path))
	}

	// SQLite permits one writer at a time; a single pooled connection avoids
	// SQLITE_BUSY churn under concurrent dispatches.
	db.SetMaxOpenConns(1)

	repo := &Repository{db: db}
	if err := repo.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return repo, nil
}

// Migrate creates the interviews table and backfills the scheduled_date
// column on databases created before it existed.
func (r *Repository) Migrate(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS interviews (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			description TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			scheduled_date TEXT
		)`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return goerr.Wrap(err, "failed to create interviews table")
	}

	hasColumn, err := r.hasScheduledDateColumn(ctx)
	if err != nil {
		return err
	}
	if !hasColumn {
		if _, err := r.db.ExecContext(ctx, "ALTER TABLE interviews ADD COLUMN scheduled_date TEXT"); err != nil {
			return goerr.Wrap(err, "failed to add scheduled_date column")
		}
	}

	return nil
}

func (r *Repository) hasScheduledDateColumn(ctx context.Context) (bool, error) {
	rows, err := r.db.QueryContext(ctx, "PRAGMA table_info(interviews)")
	if err != nil {
		return false, goerr.Wrap(err, "failed to inspect interviews table")
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid        int
			name       string
			colType    string
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &defaultVal, &pk); err != nil {
			return false, goerr.Wrap(err, "failed to scan table info")
		}
		if name == "scheduled_date" {
			return true, nil
		}
	}

	return false, rows.Err()
}

func (r *Repository) Create(ctx context.Context, iv *model.Interview) (*model.Interview, error) {
	now := time.Now().UTC()

	result, err := r.db.ExecContext(ctx,
		"INSERT INTO interviews (title, description, scheduled_date, created_at) VALUES (?, ?, ?, ?)",
		iv.Title, iv.Description, iv.ScheduledDate, now.Format(timeLayout),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to insert interview", goerr.V("title", iv.Title))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get inserted interview ID")
	}

	created := &model.Interview{
		ID:            id,
		Title:         iv.Title,
		Description:   iv.Description,
		ScheduledDate: iv.ScheduledDate,
		CreatedAt:     now,
	}
	return created, nil
}

func (r *Repository) List(ctx context.Context) ([]*model.Interview, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, title, description, scheduled_date, created_at FROM interviews ORDER BY created_at DESC, id DESC",
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list interviews")
	}
	defer rows.Close()

	interviews := []*model.Interview{}
	for rows.Next() {
		iv, err := scanInterview(rows)
		if err != nil {
			return nil, err
		}
		interviews = append(interviews, iv)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate interviews")
	}

	return interviews, nil
}

// Get returns nil, nil when no interview exists with the given ID.
func (r *Repository) Get(ctx context.Context, id int64) (*model.Interview, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, title, description, scheduled_date, created_at FROM interviews WHERE id = ?", id,
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query interview", goerr.V("id", id))
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanInterview(rows)
}

func (r *Repository) Update(ctx context.Context, id int64, upd model.InterviewUpdate) (bool, error) {
	sets := []string{}
	args := []any{}
	if upd.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *upd.Title)
	}
	if upd.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *upd.Description)
	}
	if upd.ScheduledDate != nil {
		sets = append(sets, "scheduled_date = ?")
		args = append(args, *upd.ScheduledDate)
	}
	if len(sets) == 0 {
		return false, nil
	}
	args = append(args, id)

	result, err := r.db.ExecContext(ctx,
		"UPDATE interviews SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...,
	)
	if err != nil {
		return false, goerr.Wrap(err, "failed to update interview", goerr.V("id", id))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, goerr.Wrap(err, "failed to get affected rows", goerr.V("id", id))
	}
	return affected > 0, nil
}

// Delete is idempotent: deleting a missing ID is not an error.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM interviews WHERE id = ?", id); err != nil {
		return goerr.Wrap(err, "failed to delete interview", goerr.V("id", id))
	}
	return nil
}

func (r *Repository) Close() error {
	if err := r.db.Close(); err != nil {
		return goerr.Wrap(err, "failed to close sqlite database")
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInterview(row rowScanner) (*model.Interview, error) {
	var (
		iv        model.Interview
		desc      sql.NullString
		scheduled sql.NullString
		createdAt string
	)
	if err := row.Scan(&iv.ID, &iv.Title, &desc, &scheduled, &createdAt); err != nil {
		return nil, goerr.Wrap(err, "failed to scan interview row")
	}

	iv.Description = desc.String
	if scheduled.Valid {
		iv.ScheduledDate = &scheduled.String
	}
	iv.CreatedAt = parseTimestamp(createdAt)

	return &iv, nil
}

// parseTimestamp accepts both our RFC3339 writes and the bare
// "YYYY-MM-DD HH:MM:SS" rows left behind by CURRENT_TIMESTAMP defaults in
// databases created by older deployments.
func parseTimestamp(s string) time.Time {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t.UTC()
	}
	return time.Time{}
}
