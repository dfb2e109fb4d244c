package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"

	"github.com/alexanderramin/lotline/internal/db"
	"github.com/alexanderramin/lotline/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newConcurrentTestDB creates a file-backed SQLite database in a temp directory.
// Unlike :memory:, a file-backed DB shares state across all connections in the
// pool, which is required to test real concurrent access with WAL mode.
func newConcurrentTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "concurrent_test.db")
	database, err := db.OpenDB(dbPath)
	require.NoError(t, err, "failed to create concurrent test database")
	t.Cleanup(func() { database.Close() })
	return database
}

// TestConcurrentAccess_DecrementsSerialize runs many read-validate-decrement
// transactions against one batch. Immediate transactions serialize them, so
// every decrement lands and none trips the quantity guard.
func TestConcurrentAccess_DecrementsSerialize(t *testing.T) {
	database := newConcurrentTestDB(t)
	ctx := context.Background()
	b := seedBoard(t, database)
	uow := db.NewSQLiteUnitOfWork(database)

	issue := b.issue("STORE", testutil.WithQuantity(50))
	require.NoError(t, NewSQLiteIssueRepo(database).Create(ctx, issue))

	const workers = 20
	var wg sync.WaitGroup
	errCh := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errCh <- uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
				repo := NewSQLiteIssueRepo(tx)
				current, err := repo.GetByID(ctx, issue.ID)
				if err != nil {
					return err
				}
				expected := current.Quantity
				current.Quantity--
				return repo.DecrementQuantity(ctx, current, expected)
			})
		}()
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		require.NoError(t, err)
	}

	fetched, err := NewSQLiteIssueRepo(database).GetByID(ctx, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, 50-workers, fetched.Quantity)
}

// TestConcurrentAccess_ReadDuringWrite verifies that board reads never see a
// half-written batch while writers insert.
func TestConcurrentAccess_ReadDuringWrite(t *testing.T) {
	database := newConcurrentTestDB(t)
	ctx := context.Background()
	b := seedBoard(t, database)
	repo := NewSQLiteIssueRepo(database)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			if err := repo.Create(ctx, b.issue("TODO", testutil.WithOrder(i))); err != nil {
				t.Errorf("writer: create issue %d: %v", i, err)
				return
			}
		}
	}()

	for r := 0; r < 5; r++ {
		wg.Add(1)
		go func(reader int) {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				views, err := repo.ListViewsByProject(ctx, b.project.ID)
				if err != nil {
					t.Errorf("reader %d: list board: %v", reader, err)
					return
				}
				for _, v := range views {
					if v.ID == "" || v.Item == nil || v.Status == nil || len(v.Track) == 0 {
						t.Errorf("reader %d: incomplete view %+v", reader, v)
						return
					}
				}
			}
		}(r)
	}

	wg.Wait()

	views, err := repo.ListViewsByProject(ctx, b.project.ID)
	require.NoError(t, err)
	assert.Len(t, views, 20)
}
