package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/swapitcampus/swapit/internal/database"
	"github.com/swapitcampus/swapit/internal/models"
)

type ListingRepository struct {
	pool *pgxpool.Pool
}

func NewListingRepository(db *database.DB) *ListingRepository {
	return &ListingRepository{pool: db.Pool}
}

const listingColumns = `id, owner_id, title, description, category, condition, daily_rate, available, created_at, updated_at`

func scanListingRow(scanner rowScanner) (*models.Listing, error) {
	var listing models.Listing

	err := scanner.Scan(
		&listing.ID, &listing.OwnerID, &listing.Title, &listing.Description,
		&listing.Category, &listing.Condition, &listing.DailyRate, &listing.Available,
		&listing.CreatedAt, &listing.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &listing, nil
}

func scanListingRows(rows pgx.Rows) ([]*models.Listing, error) {
	defer rows.Close()

	listings := make([]*models.Listing, 0)

	for rows.Next() {
		listing, err := scanListingRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		listings = append(listings, listing)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return listings, nil
}

func (r *ListingRepository) GetByID(ctx context.Context, id string) (*models.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1`

	return scanListingRow(r.pool.QueryRow(ctx, query, id))
}

func (r *ListingRepository) List(ctx context.Context, category string, availableOnly bool, limit, offset int) ([]*models.Listing, error) {
	query := `
		SELECT ` + listingColumns + ` FROM listings
		WHERE ($1 = '' OR category = $1)
		  AND (NOT $2 OR available)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.pool.Query(ctx, query, category, availableOnly, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}

	return scanListingRows(rows)
}

func (r *ListingRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*models.Listing, error) {
	query := `
		SELECT ` + listingColumns + ` FROM listings
		WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query owner listings: %w", err)
	}

	return scanListingRows(rows)
}

func (r *ListingRepository) Create(ctx context.Context, listing *models.Listing) (*models.Listing, error) {
	listing.ID = uuid.New().String()

	now := time.Now()
	listing.CreatedAt = now
	listing.UpdatedAt = now

	query := `
		INSERT INTO listings (id, owner_id, title, description, category, condition, daily_rate, available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + listingColumns

	return scanListingRow(r.pool.QueryRow(ctx, query,
		listing.ID, listing.OwnerID, listing.Title, listing.Description,
		listing.Category, listing.Condition, listing.DailyRate, listing.Available,
		listing.CreatedAt, listing.UpdatedAt,
	))
}

func (r *ListingRepository) Update(ctx context.Context, id string, listing *models.Listing) (*models.Listing, error) {
	query := `
		UPDATE listings
		SET title = $2, description = $3, category = $4, condition = $5,
		    daily_rate = $6, available = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + listingColumns

	return scanListingRow(r.pool.QueryRow(ctx, query,
		id, listing.Title, listing.Description, listing.Category,
		listing.Condition, listing.DailyRate, listing.Available,
	))
}

func (r *ListingRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM listings WHERE id = $1`, id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
