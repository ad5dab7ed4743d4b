package handlers_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/swapitcampus/swapit/internal/handlers"
	"github.com/swapitcampus/swapit/internal/models"
)

func TestCreateListing_Success(t *testing.T) {
	mockSvc := &handlers.MockListingService{
		CreateListingFunc: func(ctx context.Context, listing *models.Listing) (*models.Listing, error) {
			listing.ID = "listing-1"
			return listing, nil
		},
	}

	handler := handlers.NewListingHandler(mockSvc)
	req := handlers.NewTestRequest(t, "POST", "/listings", handlers.CreateListingRequest{
		Title:     "Graphing calculator",
		Category:  "electronics",
		Condition: "good",
		DailyRate: 150,
	})
	req = handlers.WithAuthContext(req, "user-1", "owner@campus.edu")

	w := httptest.NewRecorder()
	handler.CreateListing(w, req)

	var resp handlers.ListingResponse
	handlers.AssertJSONResponse(t, w, 201, &resp)
	assert.Equal(t, "listing-1", resp.ID)
	assert.Equal(t, "user-1", resp.OwnerID)
	assert.True(t, resp.Available)
}

func TestCreateListing_Unauthenticated(t *testing.T) {
	handler := handlers.NewListingHandler(&handlers.MockListingService{})
	req := handlers.NewTestRequest(t, "POST", "/listings", handlers.CreateListingRequest{
		Title:     "Graphing calculator",
		Category:  "electronics",
		Condition: "good",
	})

	w := httptest.NewRecorder()
	handler.CreateListing(w, req)

	handlers.AssertErrorResponse(t, w, 401, "unauthorized")
}

func TestCreateListing_InvalidCategory(t *testing.T) {
	handler := handlers.NewListingHandler(&handlers.MockListingService{})
	req := handlers.NewTestRequest(t, "POST", "/listings", handlers.CreateListingRequest{
		Title:     "Graphing calculator",
		Category:  "furniture",
		Condition: "good",
	})
	req = handlers.WithAuthContext(req, "user-1", "owner@campus.edu")

	w := httptest.NewRecorder()
	handler.CreateListing(w, req)

	handlers.AssertErrorResponse(t, w, 400, "bad_request")
}

func TestBrowseListings_PassesFilters(t *testing.T) {
	var gotCategory string
	var gotAvailable bool
	mockSvc := &handlers.MockListingService{
		BrowseListingsFunc: func(ctx context.Context, category string, availableOnly bool, limit, offset int) ([]*models.Listing, error) {
			gotCategory = category
			gotAvailable = availableOnly
			return []*models.Listing{{ID: "l1", Title: "Tent"}}, nil
		},
	}

	handler := handlers.NewListingHandler(mockSvc)
	req := handlers.NewTestRequest(t, "GET", "/listings?category=sports&available=true", nil)

	w := httptest.NewRecorder()
	handler.BrowseListings(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "sports", gotCategory)
	assert.True(t, gotAvailable)
}

func TestUpdateListing_NotOwner(t *testing.T) {
	mockSvc := &handlers.MockListingService{
		UpdateListingFunc: func(ctx context.Context, id, requesterID string, update *models.Listing) (*models.Listing, error) {
			return nil, models.ErrForbidden
		},
	}

	handler := handlers.NewListingHandler(mockSvc)
	req := handlers.NewTestRequest(t, "PUT", "/listings/listing-1", handlers.UpdateListingRequest{
		Title:     "Graphing calculator",
		Category:  "electronics",
		Condition: "good",
		Available: true,
	})
	req = handlers.WithAuthContext(req, "user-2", "other@campus.edu")
	req = handlers.WithChiRouteContext(req, map[string]string{"id": "listing-1"})

	w := httptest.NewRecorder()
	handler.UpdateListing(w, req)

	handlers.AssertErrorResponse(t, w, 403, "forbidden")
}

func TestDeleteListing_Success(t *testing.T) {
	var deletedID, requester string
	mockSvc := &handlers.MockListingService{
		DeleteListingFunc: func(ctx context.Context, id, requesterID string) error {
			deletedID = id
			requester = requesterID
			return nil
		},
	}

	handler := handlers.NewListingHandler(mockSvc)
	req := handlers.NewTestRequest(t, "DELETE", "/listings/listing-1", nil)
	req = handlers.WithAuthContext(req, "user-1", "owner@campus.edu")
	req = handlers.WithChiRouteContext(req, map[string]string{"id": "listing-1"})

	w := httptest.NewRecorder()
	handler.DeleteListing(w, req)

	assert.Equal(t, 204, w.Code)
	assert.Equal(t, "listing-1", deletedID)
	assert.Equal(t, "user-1", requester)
}

func TestGetListing_NotFound(t *testing.T) {
	mockSvc := &handlers.MockListingService{
		GetListingByIDFunc: func(ctx context.Context, id string) (*models.Listing, error) {
			return nil, models.ErrNotFound
		},
	}

	handler := handlers.NewListingHandler(mockSvc)
	req := handlers.NewTestRequest(t, "GET", "/listings/missing", nil)
	req = handlers.WithChiRouteContext(req, map[string]string{"id": "missing"})

	w := httptest.NewRecorder()
	handler.GetListing(w, req)

	handlers.AssertErrorResponse(t, w, 404, "not_found")
}
