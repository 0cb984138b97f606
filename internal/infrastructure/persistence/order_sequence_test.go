package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stocksync/backend/internal/domain/trade"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockedOrderDB(t *testing.T) (*GormOrderRepository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	return NewGormOrderRepository(gdb), mock
}

func expectTenantRowLock(mock sqlmock.Sqlmock, tenantID uuid.UUID) {
	mock.ExpectQuery(`SELECT id FROM "organizations" WHERE id = \$1 FOR UPDATE`).
		WithArgs(tenantID.String()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(tenantID.String()))
}

func expectLastNumber(mock sqlmock.Sqlmock, numbers ...string) {
	rows := sqlmock.NewRows([]string{"order_number"})
	for _, n := range numbers {
		rows.AddRow(n)
	}
	mock.ExpectQuery(`SELECT order_number FROM "orders" WHERE tenant_id = \$1 ORDER BY LENGTH\(order_number\) DESC, order_number DESC LIMIT`).
		WillReturnRows(rows)
}

func TestNextOrderNumber(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("locks the tenant row and increments the last sequence", func(t *testing.T) {
		repo, mock := newMockedOrderDB(t)
		expectTenantRowLock(mock, tenantID)
		expectLastNumber(mock, trade.FormatOrderNumber(tenantID, 7))

		number, err := repo.NextOrderNumber(ctx, tenantID)
		require.NoError(t, err)
		assert.Equal(t, trade.FormatOrderNumber(tenantID, 8), number)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("first allocation starts at one", func(t *testing.T) {
		repo, mock := newMockedOrderDB(t)
		expectTenantRowLock(mock, tenantID)
		expectLastNumber(mock)

		number, err := repo.NextOrderNumber(ctx, tenantID)
		require.NoError(t, err)
		assert.Equal(t, trade.FormatOrderNumber(tenantID, 1), number)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unparsable stored number falls back to the first sequence", func(t *testing.T) {
		repo, mock := newMockedOrderDB(t)
		expectTenantRowLock(mock, tenantID)
		expectLastNumber(mock, "ORD-botched")

		number, err := repo.NextOrderNumber(ctx, tenantID)
		require.NoError(t, err)
		assert.Equal(t, trade.FormatOrderNumber(tenantID, 1), number)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

// sqlite cannot parse FOR UPDATE, so the lock acquisition above runs against
// sqlmock; the sequence scan itself round-trips through real storage here.
func TestLastSequence(t *testing.T) {
	ctx := context.Background()

	t.Run("returns zero for a tenant without orders", func(t *testing.T) {
		db := setupOrderTestDB(t)
		repo := NewGormOrderRepository(db)

		seq, err := repo.lastSequence(ctx, uuid.New())
		require.NoError(t, err)
		assert.EqualValues(t, 0, seq)
	})

	t.Run("returns the highest sequence of the tenant only", func(t *testing.T) {
		db := setupOrderTestDB(t)
		repo := NewGormOrderRepository(db)
		tenantID := uuid.New()

		newPersistedOrder(t, repo, tenantID, 1)
		newPersistedOrder(t, repo, tenantID, 2)
		newPersistedOrder(t, repo, tenantID, 3)
		newPersistedOrder(t, repo, uuid.New(), 9)

		seq, err := repo.lastSequence(ctx, tenantID)
		require.NoError(t, err)
		assert.EqualValues(t, 3, seq)
	})

	t.Run("sequences past the zero padding still win", func(t *testing.T) {
		db := setupOrderTestDB(t)
		repo := NewGormOrderRepository(db)
		tenantID := uuid.New()

		newPersistedOrder(t, repo, tenantID, 999999)
		newPersistedOrder(t, repo, tenantID, 1000000)

		seq, err := repo.lastSequence(ctx, tenantID)
		require.NoError(t, err)
		assert.EqualValues(t, 1000000, seq)
	})

	t.Run("unparsable number surfaces an error", func(t *testing.T) {
		db := setupOrderTestDB(t)
		repo := NewGormOrderRepository(db)
		tenantID := uuid.New()

		order, err := trade.NewOrder(tenantID, "ORD-botched")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, order))

		_, err = repo.lastSequence(ctx, tenantID)
		require.Error(t, err)
	})
}
