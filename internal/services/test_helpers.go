package services

import (
	"context"
	"time"

	"github.com/swapitcampus/swapit/internal/models"
)

// MockUserRepository implements UserRepository for testing
type MockUserRepository struct {
	GetByIDFunc    func(ctx context.Context, id string) (*models.User, error)
	GetByEmailFunc func(ctx context.Context, email string) (*models.User, error)
	ListFunc       func(ctx context.Context, limit, offset int) ([]*models.User, error)
	CreateFunc     func(ctx context.Context, user *models.User) (*models.User, error)
	UpdateFunc     func(ctx context.Context, id string, user *models.User) (*models.User, error)
	DeleteFunc     func(ctx context.Context, id string) error
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	return []*models.User{}, nil
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserRepository) Update(ctx context.Context, id string, user *models.User) (*models.User, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, user)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockTokenRevocationRepository implements TokenRevocationRepository for testing
type MockTokenRevocationRepository struct {
	RevokeTokenFunc    func(ctx context.Context, jti, userID, tokenType string, expiresAt time.Time, reason string) error
	IsTokenRevokedFunc func(ctx context.Context, jti string) (bool, error)
}

func (m *MockTokenRevocationRepository) RevokeToken(ctx context.Context, jti, userID, tokenType string, expiresAt time.Time, reason string) error {
	if m.RevokeTokenFunc != nil {
		return m.RevokeTokenFunc(ctx, jti, userID, tokenType, expiresAt, reason)
	}
	return nil
}

func (m *MockTokenRevocationRepository) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	if m.IsTokenRevokedFunc != nil {
		return m.IsTokenRevokedFunc(ctx, jti)
	}
	return false, nil
}

// MockLoginRateLimiter implements LoginRateLimiter for testing
type MockLoginRateLimiter struct {
	CheckFunc         func(ctx context.Context, id Identifier) (*CheckResult, error)
	RecordFailureFunc func(ctx context.Context, id Identifier, userAgent string) error
	RecordSuccessFunc func(ctx context.Context, id Identifier, userAgent string) error

	Failures  []Identifier
	Successes []Identifier
}

func (m *MockLoginRateLimiter) Check(ctx context.Context, id Identifier) (*CheckResult, error) {
	if m.CheckFunc != nil {
		return m.CheckFunc(ctx, id)
	}
	return &CheckResult{Allowed: true, Remaining: 5}, nil
}

func (m *MockLoginRateLimiter) RecordFailure(ctx context.Context, id Identifier, userAgent string) error {
	m.Failures = append(m.Failures, id)
	if m.RecordFailureFunc != nil {
		return m.RecordFailureFunc(ctx, id, userAgent)
	}
	return nil
}

func (m *MockLoginRateLimiter) RecordSuccess(ctx context.Context, id Identifier, userAgent string) error {
	m.Successes = append(m.Successes, id)
	if m.RecordSuccessFunc != nil {
		return m.RecordSuccessFunc(ctx, id, userAgent)
	}
	return nil
}

// MockListingRepository implements ListingRepository for testing
type MockListingRepository struct {
	GetByIDFunc     func(ctx context.Context, id string) (*models.Listing, error)
	ListFunc        func(ctx context.Context, category string, availableOnly bool, limit, offset int) ([]*models.Listing, error)
	ListByOwnerFunc func(ctx context.Context, ownerID string, limit, offset int) ([]*models.Listing, error)
	CreateFunc      func(ctx context.Context, listing *models.Listing) (*models.Listing, error)
	UpdateFunc      func(ctx context.Context, id string, listing *models.Listing) (*models.Listing, error)
	DeleteFunc      func(ctx context.Context, id string) error
}

func (m *MockListingRepository) GetByID(ctx context.Context, id string) (*models.Listing, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockListingRepository) List(ctx context.Context, category string, availableOnly bool, limit, offset int) ([]*models.Listing, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, category, availableOnly, limit, offset)
	}
	return []*models.Listing{}, nil
}

func (m *MockListingRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*models.Listing, error) {
	if m.ListByOwnerFunc != nil {
		return m.ListByOwnerFunc(ctx, ownerID, limit, offset)
	}
	return []*models.Listing{}, nil
}

func (m *MockListingRepository) Create(ctx context.Context, listing *models.Listing) (*models.Listing, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, listing)
	}
	return listing, nil
}

func (m *MockListingRepository) Update(ctx context.Context, id string, listing *models.Listing) (*models.Listing, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, listing)
	}
	return listing, nil
}

func (m *MockListingRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}
