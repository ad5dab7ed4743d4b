package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swapitcampus/swapit/internal/models"
)

func newListingService(repo *MockListingRepository) *ListingService {
	return NewListingService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestUpdateListing_OwnerCanEdit(t *testing.T) {
	repo := &MockListingRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.Listing, error) {
			return &models.Listing{ID: id, OwnerID: "owner-1", Title: "Old title"}, nil
		},
		UpdateFunc: func(ctx context.Context, id string, listing *models.Listing) (*models.Listing, error) {
			return listing, nil
		},
	}

	svc := newListingService(repo)
	updated, err := svc.UpdateListing(context.Background(), "l1", "owner-1", &models.Listing{
		Title:    "New title",
		Category: models.CategoryTextbooks,
	})

	require.NoError(t, err)
	assert.Equal(t, "New title", updated.Title)
	assert.Equal(t, "owner-1", updated.OwnerID)
}

func TestUpdateListing_NonOwnerForbidden(t *testing.T) {
	var updateCalled bool
	repo := &MockListingRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.Listing, error) {
			return &models.Listing{ID: id, OwnerID: "owner-1"}, nil
		},
		UpdateFunc: func(ctx context.Context, id string, listing *models.Listing) (*models.Listing, error) {
			updateCalled = true
			return listing, nil
		},
	}

	svc := newListingService(repo)
	_, err := svc.UpdateListing(context.Background(), "l1", "intruder", &models.Listing{Title: "Hijacked"})

	assert.ErrorIs(t, err, models.ErrForbidden)
	assert.False(t, updateCalled)
}

func TestDeleteListing_NonOwnerForbidden(t *testing.T) {
	var deleteCalled bool
	repo := &MockListingRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.Listing, error) {
			return &models.Listing{ID: id, OwnerID: "owner-1"}, nil
		},
		DeleteFunc: func(ctx context.Context, id string) error {
			deleteCalled = true
			return nil
		},
	}

	svc := newListingService(repo)
	err := svc.DeleteListing(context.Background(), "l1", "intruder")

	assert.ErrorIs(t, err, models.ErrForbidden)
	assert.False(t, deleteCalled)
}

func TestDeleteListing_MissingListing(t *testing.T) {
	repo := &MockListingRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.Listing, error) {
			return nil, models.ErrNotFound
		},
	}

	svc := newListingService(repo)
	err := svc.DeleteListing(context.Background(), "missing", "owner-1")

	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestBrowseListings_PassesFilters(t *testing.T) {
	var gotCategory string
	var gotAvailable bool
	repo := &MockListingRepository{
		ListFunc: func(ctx context.Context, category string, availableOnly bool, limit, offset int) ([]*models.Listing, error) {
			gotCategory = category
			gotAvailable = availableOnly
			return []*models.Listing{{ID: "l1"}}, nil
		},
	}

	svc := newListingService(repo)
	listings, err := svc.BrowseListings(context.Background(), models.CategoryKitchen, true, 20, 0)

	require.NoError(t, err)
	assert.Len(t, listings, 1)
	assert.Equal(t, models.CategoryKitchen, gotCategory)
	assert.True(t, gotAvailable)
}
