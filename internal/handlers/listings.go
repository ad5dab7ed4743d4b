package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/swapitcampus/swapit/internal/auth"
	"github.com/swapitcampus/swapit/internal/models"
	pkghttp "github.com/swapitcampus/swapit/pkg/http"
)

// ListingServiceInterface defines the interface for listing business logic
type ListingServiceInterface interface {
	CreateListing(ctx context.Context, listing *models.Listing) (*models.Listing, error)
	GetListingByID(ctx context.Context, id string) (*models.Listing, error)
	BrowseListings(ctx context.Context, category string, availableOnly bool, limit, offset int) ([]*models.Listing, error)
	ListingsByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*models.Listing, error)
	UpdateListing(ctx context.Context, id, requesterID string, update *models.Listing) (*models.Listing, error)
	DeleteListing(ctx context.Context, id, requesterID string) error
}

// ListingHandler handles listing-related HTTP requests
type ListingHandler struct {
	service ListingServiceInterface
}

// NewListingHandler creates a new ListingHandler
func NewListingHandler(service ListingServiceInterface) *ListingHandler {
	return &ListingHandler{service: service}
}

// CreateListingRequest represents the request body for creating a listing
type CreateListingRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=120"`
	Description string `json:"description" validate:"max=2000"`
	Category    string `json:"category" validate:"required,oneof=electronics textbooks sports kitchen tools other"`
	Condition   string `json:"condition" validate:"required,oneof=new like_new good fair worn"`
	DailyRate   int    `json:"daily_rate" validate:"gte=0"`
}

// UpdateListingRequest represents the request body for updating a listing
type UpdateListingRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=120"`
	Description string `json:"description" validate:"max=2000"`
	Category    string `json:"category" validate:"required,oneof=electronics textbooks sports kitchen tools other"`
	Condition   string `json:"condition" validate:"required,oneof=new like_new good fair worn"`
	DailyRate   int    `json:"daily_rate" validate:"gte=0"`
	Available   bool   `json:"available"`
}

// ListingResponse is the public shape of a listing
type ListingResponse struct {
	ID          string `json:"id"`
	OwnerID     string `json:"owner_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category"`
	Condition   string `json:"condition"`
	DailyRate   int    `json:"daily_rate"`
	Available   bool   `json:"available"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// CreateListing creates a new listing owned by the authenticated user
func (h *ListingHandler) CreateListing(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req CreateListingRequest
	if err := decodeAndValidate(r, &req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	listing, err := h.service.CreateListing(r.Context(), &models.Listing{
		OwnerID:     claims.UserID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Condition:   req.Condition,
		DailyRate:   req.DailyRate,
		Available:   true,
	})
	if err != nil {
		if errors.Is(err, models.ErrBadRequest) {
			pkghttp.WriteBadRequest(w, "Invalid listing details")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, listingToResponse(listing))
}

// GetListing returns a listing by ID
func (h *ListingHandler) GetListing(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	listing, err := h.service.GetListingByID(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "Listing not found")
		case errors.Is(err, models.ErrBadRequest):
			pkghttp.WriteBadRequest(w, "Invalid listing ID")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, listingToResponse(listing))
}

// BrowseListings returns a filtered page of listings
func (h *ListingHandler) BrowseListings(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r, 20)
	category := r.URL.Query().Get("category")
	availableOnly := r.URL.Query().Get("available") == "true"

	listings, err := h.service.BrowseListings(r.Context(), category, availableOnly, limit, offset)
	if err != nil {
		if errors.Is(err, models.ErrBadRequest) {
			pkghttp.WriteBadRequest(w, "Invalid category")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"listings": listingsToResponse(listings),
		"limit":    limit,
		"offset":   offset,
	})
}

// MyListings returns the authenticated user's own listings
func (h *ListingHandler) MyListings(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	limit, offset := parsePagination(r, 20)

	listings, err := h.service.ListingsByOwner(r.Context(), claims.UserID, limit, offset)
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"listings": listingsToResponse(listings),
		"limit":    limit,
		"offset":   offset,
	})
}

// UpdateListing updates a listing the authenticated user owns
func (h *ListingHandler) UpdateListing(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	id := chi.URLParam(r, "id")

	var req UpdateListingRequest
	if err := decodeAndValidate(r, &req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	listing, err := h.service.UpdateListing(r.Context(), id, claims.UserID, &models.Listing{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Condition:   req.Condition,
		DailyRate:   req.DailyRate,
		Available:   req.Available,
	})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "Listing not found")
		case errors.Is(err, models.ErrForbidden):
			pkghttp.WriteForbidden(w, "You do not own this listing")
		case errors.Is(err, models.ErrBadRequest):
			pkghttp.WriteBadRequest(w, "Invalid listing details")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, listingToResponse(listing))
}

// DeleteListing removes a listing the authenticated user owns
func (h *ListingHandler) DeleteListing(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	id := chi.URLParam(r, "id")

	if err := h.service.DeleteListing(r.Context(), id, claims.UserID); err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "Listing not found")
		case errors.Is(err, models.ErrForbidden):
			pkghttp.WriteForbidden(w, "You do not own this listing")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func listingToResponse(l *models.Listing) *ListingResponse {
	return &ListingResponse{
		ID:          l.ID,
		OwnerID:     l.OwnerID,
		Title:       l.Title,
		Description: l.Description,
		Category:    l.Category,
		Condition:   l.Condition,
		DailyRate:   l.DailyRate,
		Available:   l.Available,
		CreatedAt:   l.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:   l.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func listingsToResponse(listings []*models.Listing) []*ListingResponse {
	out := make([]*ListingResponse, 0, len(listings))
	for _, l := range listings {
		out = append(out, listingToResponse(l))
	}
	return out
}
