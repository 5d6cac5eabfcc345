package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"goerp/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`INSERT INTO products`).
			WithArgs("Desk", "Oak desk", 120.5, 3, "DSK-01", "furniture", "Oakworks", true, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("prod-uuid-1"))

		repo := NewProductRepository(db)
		p := &domain.Product{
			Name:        "Desk",
			Description: "Oak desk",
			Price:       120.5,
			Stock:       3,
			SKU:         "DSK-01",
			Category:    "furniture",
			Brand:       "Oakworks",
			IsActive:    true,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}
		require.NoError(t, repo.Create(ctx, p))
		assert.Equal(t, "prod-uuid-1", p.ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate sku maps to ErrDuplicateSKU", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`INSERT INTO products`).
			WillReturnError(&pq.Error{Code: "23505"})

		repo := NewProductRepository(db)
		err = repo.Create(ctx, &domain.Product{Name: "Desk", SKU: "DSK-01"})
		require.ErrorIs(t, err, domain.ErrDuplicateSKU)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProductRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		now := time.Now()
		mock.ExpectQuery(`FROM products\s+WHERE id = \$1`).
			WithArgs("prod-uuid-1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "price", "stock", "sku", "category", "brand", "is_active", "created_at", "updated_at"}).
				AddRow("prod-uuid-1", "Desk", "", 120.5, 3, "DSK-01", "furniture", "", true, now, now))

		repo := NewProductRepository(db)
		p, err := repo.GetByID(ctx, "prod-uuid-1")
		require.NoError(t, err)
		assert.Equal(t, "DSK-01", p.SKU)
		assert.Equal(t, 120.5, p.Price)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`FROM products\s+WHERE id = \$1`).
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		repo := NewProductRepository(db)
		_, err = repo.GetByID(ctx, "missing")
		require.ErrorIs(t, err, domain.ErrProductNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProductRepository_Update(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE products`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewProductRepository(db)
	err = repo.Update(ctx, &domain.Product{ID: "missing", Name: "Desk", SKU: "DSK-01", UpdatedAt: time.Now()})
	require.ErrorIs(t, err, domain.ErrProductNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
