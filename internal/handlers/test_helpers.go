package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/swapitcampus/swapit/internal/auth"
	"github.com/swapitcampus/swapit/internal/models"
	"github.com/swapitcampus/swapit/internal/services"
	pkghttp "github.com/swapitcampus/swapit/pkg/http"
)

// NewTestRequest creates an HTTP request with JSON body for testing
func NewTestRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithAuthContext adds user claims to request context for testing authenticated endpoints
func WithAuthContext(req *http.Request, userID, email string) *http.Request {
	claims := &models.TokenClaims{
		UserID: userID,
		Email:  email,
		Type:   "access",
	}
	ctx := context.WithValue(req.Context(), auth.UserContextKey, claims)
	return req.WithContext(ctx)
}

// AssertJSONResponse checks that response has correct status and decodes JSON body
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target interface{}) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	contentType := w.Header().Get("Content-Type")
	assert.Equal(t, "application/json", contentType, "Content-Type should be application/json")

	if target != nil {
		err := json.Unmarshal(w.Body.Bytes(), target)
		assert.NoError(t, err, "Failed to decode response JSON")
	}
}

// AssertErrorResponse checks that response is a valid error response
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedError string) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	var resp pkghttp.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err, "Failed to decode error response")
	assert.Equal(t, expectedError, resp.Error, "Error code mismatch")
	assert.NotEmpty(t, resp.Message, "Error message should not be empty")
}

// MockAuthService implements AuthServiceInterface for testing
type MockAuthService struct {
	LoginFunc        func(ctx context.Context, email, password, ipAddress, userAgent string) (*services.AuthResponse, error)
	RegisterFunc     func(ctx context.Context, email, password, name, dorm string) (*services.AuthResponse, error)
	RefreshTokenFunc func(ctx context.Context, refreshToken string) (*services.AuthResponse, error)
	LogoutFunc       func(ctx context.Context, accessToken string) error
}

func (m *MockAuthService) Login(ctx context.Context, email, password, ipAddress, userAgent string) (*services.AuthResponse, error) {
	if m.LoginFunc == nil {
		return nil, models.ErrUnauthorized
	}
	return m.LoginFunc(ctx, email, password, ipAddress, userAgent)
}

func (m *MockAuthService) Register(ctx context.Context, email, password, name, dorm string) (*services.AuthResponse, error) {
	if m.RegisterFunc == nil {
		return nil, models.ErrConflict
	}
	return m.RegisterFunc(ctx, email, password, name, dorm)
}

func (m *MockAuthService) RefreshToken(ctx context.Context, refreshToken string) (*services.AuthResponse, error) {
	if m.RefreshTokenFunc == nil {
		return nil, models.ErrUnauthorized
	}
	return m.RefreshTokenFunc(ctx, refreshToken)
}

func (m *MockAuthService) Logout(ctx context.Context, accessToken string) error {
	if m.LogoutFunc == nil {
		return nil
	}
	return m.LogoutFunc(ctx, accessToken)
}

// MockUserService implements UserServiceInterface for testing
type MockUserService struct {
	GetUserByIDFunc   func(ctx context.Context, id string) (*models.User, error)
	ListUsersFunc     func(ctx context.Context, limit, offset int) ([]*models.User, error)
	UpdateProfileFunc func(ctx context.Context, id, name, dorm string) (*models.User, error)
	DeleteUserFunc    func(ctx context.Context, id string) error
}

func (m *MockUserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetUserByIDFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.GetUserByIDFunc(ctx, id)
}

func (m *MockUserService) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	if m.ListUsersFunc == nil {
		return []*models.User{}, nil
	}
	return m.ListUsersFunc(ctx, limit, offset)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, id, name, dorm string) (*models.User, error) {
	if m.UpdateProfileFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.UpdateProfileFunc(ctx, id, name, dorm)
}

func (m *MockUserService) DeleteUser(ctx context.Context, id string) error {
	if m.DeleteUserFunc == nil {
		return nil
	}
	return m.DeleteUserFunc(ctx, id)
}

// MockListingService implements ListingServiceInterface for testing
type MockListingService struct {
	CreateListingFunc   func(ctx context.Context, listing *models.Listing) (*models.Listing, error)
	GetListingByIDFunc  func(ctx context.Context, id string) (*models.Listing, error)
	BrowseListingsFunc  func(ctx context.Context, category string, availableOnly bool, limit, offset int) ([]*models.Listing, error)
	ListingsByOwnerFunc func(ctx context.Context, ownerID string, limit, offset int) ([]*models.Listing, error)
	UpdateListingFunc   func(ctx context.Context, id, requesterID string, update *models.Listing) (*models.Listing, error)
	DeleteListingFunc   func(ctx context.Context, id, requesterID string) error
}

func (m *MockListingService) CreateListing(ctx context.Context, listing *models.Listing) (*models.Listing, error) {
	if m.CreateListingFunc == nil {
		return nil, models.ErrBadRequest
	}
	return m.CreateListingFunc(ctx, listing)
}

func (m *MockListingService) GetListingByID(ctx context.Context, id string) (*models.Listing, error) {
	if m.GetListingByIDFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.GetListingByIDFunc(ctx, id)
}

func (m *MockListingService) BrowseListings(ctx context.Context, category string, availableOnly bool, limit, offset int) ([]*models.Listing, error) {
	if m.BrowseListingsFunc == nil {
		return []*models.Listing{}, nil
	}
	return m.BrowseListingsFunc(ctx, category, availableOnly, limit, offset)
}

func (m *MockListingService) ListingsByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*models.Listing, error) {
	if m.ListingsByOwnerFunc == nil {
		return []*models.Listing{}, nil
	}
	return m.ListingsByOwnerFunc(ctx, ownerID, limit, offset)
}

func (m *MockListingService) UpdateListing(ctx context.Context, id, requesterID string, update *models.Listing) (*models.Listing, error) {
	if m.UpdateListingFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.UpdateListingFunc(ctx, id, requesterID, update)
}

func (m *MockListingService) DeleteListing(ctx context.Context, id, requesterID string) error {
	if m.DeleteListingFunc == nil {
		return nil
	}
	return m.DeleteListingFunc(ctx, id, requesterID)
}

// WithChiRouteContext adds chi URL parameters to request context for testing
func WithChiRouteContext(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
