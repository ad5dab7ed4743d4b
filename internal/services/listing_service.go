package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/swapitcampus/swapit/internal/models"
)

// ListingRepository defines the interface for listing data access
type ListingRepository interface {
	GetByID(ctx context.Context, id string) (*models.Listing, error)
	List(ctx context.Context, category string, availableOnly bool, limit, offset int) ([]*models.Listing, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*models.Listing, error)
	Create(ctx context.Context, listing *models.Listing) (*models.Listing, error)
	Update(ctx context.Context, id string, listing *models.Listing) (*models.Listing, error)
	Delete(ctx context.Context, id string) error
}

// ListingService handles item listing business logic
type ListingService struct {
	repo   ListingRepository
	logger *slog.Logger
}

// NewListingService creates a new ListingService
func NewListingService(repo ListingRepository, logger *slog.Logger) *ListingService {
	return &ListingService{
		repo:   repo,
		logger: logger,
	}
}

// CreateListing publishes a new item for lending
func (s *ListingService) CreateListing(ctx context.Context, listing *models.Listing) (*models.Listing, error) {
	created, err := s.repo.Create(ctx, listing)
	if err != nil {
		s.logger.Error("failed to create listing", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("listing created",
		slog.String("listing_id", created.ID),
		slog.String("owner_id", created.OwnerID))
	return created, nil
}

// GetListingByID retrieves a listing
func (s *ListingService) GetListingByID(ctx context.Context, id string) (*models.Listing, error) {
	listing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get listing", slog.String("listing_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return listing, nil
}

// BrowseListings returns a page of listings, optionally filtered by category
func (s *ListingService) BrowseListings(ctx context.Context, category string, availableOnly bool, limit, offset int) ([]*models.Listing, error) {
	listings, err := s.repo.List(ctx, category, availableOnly, limit, offset)
	if err != nil {
		s.logger.Error("failed to browse listings", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return listings, nil
}

// ListingsByOwner returns a user's own listings
func (s *ListingService) ListingsByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*models.Listing, error) {
	listings, err := s.repo.ListByOwner(ctx, ownerID, limit, offset)
	if err != nil {
		s.logger.Error("failed to list owner listings", slog.String("owner_id", ownerID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return listings, nil
}

// UpdateListing edits a listing. Only the owner may edit.
func (s *ListingService) UpdateListing(ctx context.Context, id, requesterID string, update *models.Listing) (*models.Listing, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, models.ErrInternalServer
	}

	if existing.OwnerID != requesterID {
		return nil, models.ErrForbidden
	}

	existing.Title = update.Title
	existing.Description = update.Description
	existing.Category = update.Category
	existing.Condition = update.Condition
	existing.DailyRate = update.DailyRate
	existing.Available = update.Available

	updated, err := s.repo.Update(ctx, id, existing)
	if err != nil {
		s.logger.Error("failed to update listing", slog.String("listing_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return updated, nil
}

// DeleteListing removes a listing. Only the owner may delete.
func (s *ListingService) DeleteListing(ctx context.Context, id, requesterID string) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		return models.ErrInternalServer
	}

	if existing.OwnerID != requesterID {
		return models.ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete listing", slog.String("listing_id", id), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.logger.Info("listing deleted", slog.String("listing_id", id))
	return nil
}
