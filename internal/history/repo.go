package history

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Operation names recorded in the operation column.
const (
	OpOrderScreen   = "order.screen"
	OpOrderFeedback = "order.feedback"
	OpSMSSend       = "sms.send"
	OpSMSVerify     = "sms.verify"
)

// Entry is one recorded API call.
type Entry struct {
	ID        string    `json:"id"`
	Operation string    `json:"operation"`
	Reference string    `json:"reference"` // fraud id or phone number
	Status    string    `json:"status"`
	Score     string    `json:"score,omitempty"`
	Response  string    `json:"response"` // raw JSON body
	CreatedAt time.Time `json:"created_at"`
}

// created_at holds unix milliseconds so both drivers round-trip it the same way.
const schema = `
CREATE TABLE IF NOT EXISTS fraudlabs_history (
	id         TEXT PRIMARY KEY,
	operation  TEXT NOT NULL,
	reference  TEXT NOT NULL,
	status     TEXT NOT NULL,
	score      TEXT NOT NULL,
	response   TEXT NOT NULL,
	created_at BIGINT NOT NULL
)`

type Repo struct {
	db     *sql.DB
	driver string
}

func NewRepo(db *sql.DB, driver string) *Repo {
	return &Repo{db: db, driver: driver}
}

// Open connects to dsn and makes sure the table exists.
func Open(ctx context.Context, dsn string) (*Repo, error) {
	db, driver, err := OpenDB(dsn)
	if err != nil {
		return nil, err
	}
	r := NewRepo(db, driver)
	if err := r.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

func (r *Repo) Close() error { return r.db.Close() }

func (r *Repo) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return errors.Wrap(err, "create fraudlabs_history")
	}
	return nil
}

// Insert stores e, filling ID and CreatedAt when they are zero.
func (r *Repo) Insert(ctx context.Context, e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	e.CreatedAt = e.CreatedAt.UTC().Truncate(time.Millisecond)

	_, err := r.db.ExecContext(ctx, r.rebind(`
		INSERT INTO fraudlabs_history
			(id, operation, reference, status, score, response, created_at)
		VALUES
			($1,$2,$3,$4,$5,$6,$7)
	`), e.ID, e.Operation, e.Reference, e.Status, e.Score, e.Response, e.CreatedAt.UnixMilli())
	if err != nil {
		return Entry{}, errors.Wrap(err, "insert fraudlabs_history")
	}
	return e, nil
}

// Recent returns up to limit entries, newest first.
func (r *Repo) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.QueryContext(ctx, r.rebind(`
		SELECT id, operation, reference, status, score, response, created_at
		FROM fraudlabs_history
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`), limit)
	if err != nil {
		return nil, errors.Wrap(err, "query fraudlabs_history")
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e  Entry
			ms int64
		)
		if err := rows.Scan(&e.ID, &e.Operation, &e.Reference, &e.Status, &e.Score, &e.Response, &ms); err != nil {
			return nil, errors.Wrap(err, "scan fraudlabs_history")
		}
		e.CreatedAt = time.UnixMilli(ms).UTC()
		out = append(out, e)
	}
	return out, errors.Wrap(rows.Err(), "iterate fraudlabs_history")
}

// rebind turns $n placeholders into ? for SQLite.
func (r *Repo) rebind(query string) string {
	if r.driver != DriverSQLite {
		return query
	}
	var b strings.Builder
	for i := 0; i < len(query); i++ {
		if query[i] == '$' {
			j := i + 1
			for j < len(query) && query[j] >= '0' && query[j] <= '9' {
				j++
			}
			if j > i+1 {
				b.WriteByte('?')
				i = j - 1
				continue
			}
		}
		b.WriteByte(query[i])
	}
	return b.String()
}
