package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestRepo(t *testing.T) *Repo {
	t.Helper()
	r, err := Open(context.Background(), "sqlite://"+filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestParseDSN(t *testing.T) {
	t.Parallel()

	tests := []struct {
		dsn        string
		wantDriver string
		wantSource string
		wantErr    bool
	}{
		{dsn: "postgres://u:p@localhost/fl?sslmode=disable", wantDriver: DriverPostgres, wantSource: "postgres://u:p@localhost/fl?sslmode=disable"},
		{dsn: "postgresql://localhost/fl", wantDriver: DriverPostgres, wantSource: "postgresql://localhost/fl"},
		{dsn: "sqlite:///var/lib/fl.db", wantDriver: DriverSQLite, wantSource: "/var/lib/fl.db"},
		{dsn: "history.db", wantDriver: DriverSQLite, wantSource: "history.db"},
		{dsn: "sqlite://", wantErr: true},
		{dsn: "  ", wantErr: true},
	}
	for _, tt := range tests {
		driver, source, err := ParseDSN(tt.dsn)
		if tt.wantErr {
			assert.Error(t, err, tt.dsn)
			continue
		}
		require.NoError(t, err, tt.dsn)
		assert.Equal(t, tt.wantDriver, driver, tt.dsn)
		assert.Equal(t, tt.wantSource, source, tt.dsn)
	}
}

func TestRepo_InsertAndRecent(t *testing.T) {
	t.Parallel()

	r := openTestRepo(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	first, err := r.Insert(ctx, Entry{
		Operation: OpOrderScreen, Reference: "FL-1", Status: "APPROVE", Score: "12",
		Response: `{"fraudlabspro_id":"FL-1"}`, CreatedAt: base,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)

	_, err = r.Insert(ctx, Entry{
		Operation: OpSMSVerify, Reference: "+15550100", Status: "not_found",
		Response: `{"result":"not_found"}`, CreatedAt: base.Add(time.Minute),
	})
	require.NoError(t, err)

	got, err := r.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, OpSMSVerify, got[0].Operation)
	assert.Equal(t, "not_found", got[0].Status)
	assert.True(t, base.Add(time.Minute).Equal(got[0].CreatedAt))

	assert.Equal(t, first.ID, got[1].ID)
	assert.Equal(t, "12", got[1].Score)
	assert.Equal(t, `{"fraudlabspro_id":"FL-1"}`, got[1].Response)

	limited, err := r.Recent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestRepo_EnsureSchemaIsIdempotent(t *testing.T) {
	t.Parallel()

	r := openTestRepo(t)
	require.NoError(t, r.EnsureSchema(context.Background()))
}

func TestRepo_Rebind(t *testing.T) {
	t.Parallel()

	sqlite := NewRepo(nil, DriverSQLite)
	assert.Equal(t, "VALUES (?,?,?) LIMIT ?", sqlite.rebind("VALUES ($1,$2,$3) LIMIT $4"))
	assert.Equal(t, "price is $ 5", sqlite.rebind("price is $ 5"))

	pg := NewRepo(nil, DriverPostgres)
	assert.Equal(t, "LIMIT $1", pg.rebind("LIMIT $1"))
}
