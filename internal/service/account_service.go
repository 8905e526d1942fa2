package service

import (
	"context"
	"errors"
	"strings"

	"simple-ecommerce/internal/apperr"
	"simple-ecommerce/internal/models"
	"simple-ecommerce/internal/store"
	"simple-ecommerce/internal/util"

	"go.uber.org/zap"
)

// AccountService manages profile data and the saved shipping address
type AccountService struct {
	users     UserRepository
	addresses AddressRepository
	logger    *zap.Logger
}

func NewAccountService(users UserRepository, addresses AddressRepository) *AccountService {
	return &AccountService{
		users:     users,
		addresses: addresses,
		logger:    util.GetLogger(),
	}
}

// Me returns the signed-in user's account
func (s *AccountService) Me(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, translate(err, "User not found", "Error loading user")
	}
	return user, nil
}

// ProfileRequest represents editable profile fields
type ProfileRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

func (s *AccountService) UpdateProfile(ctx context.Context, userID int64, req *ProfileRequest) error {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return apperr.Validation("Name required")
	}
	if err := s.users.UpdateProfile(ctx, userID, name, strings.TrimSpace(req.Phone)); err != nil {
		return translate(err, "User not found", "Error updating profile")
	}
	return nil
}

// GetAddress returns the saved address, or nil when none was saved yet
func (s *AccountService) GetAddress(ctx context.Context, userID int64) (*models.Address, error) {
	addr, err := s.addresses.GetAddress(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Internal("Error loading address", err)
	}
	return addr, nil
}

// AddressRequest represents a shipping address submission
type AddressRequest struct {
	FullName     string `json:"full_name"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country"`
}

// SaveAddress creates or replaces the user's address
func (s *AccountService) SaveAddress(ctx context.Context, userID int64, req *AddressRequest) (*models.Address, error) {
	addr := &models.Address{
		UserID:       userID,
		FullName:     strings.TrimSpace(req.FullName),
		Phone:        strings.TrimSpace(req.Phone),
		AddressLine1: strings.TrimSpace(req.AddressLine1),
		AddressLine2: strings.TrimSpace(req.AddressLine2),
		City:         strings.TrimSpace(req.City),
		State:        strings.TrimSpace(req.State),
		PostalCode:   strings.TrimSpace(req.PostalCode),
		Country:      strings.TrimSpace(req.Country),
	}

	for _, field := range []string{addr.FullName, addr.Phone, addr.AddressLine1, addr.City, addr.State, addr.PostalCode, addr.Country} {
		if field == "" {
			return nil, apperr.Validation("Please enter complete address")
		}
	}

	if err := s.addresses.UpsertAddress(ctx, addr); err != nil {
		return nil, apperr.Internal("Error saving address", err)
	}
	return addr, nil
}

// ListUsers returns every account for the admin panel
func (s *AccountService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, apperr.Internal("Error fetching users", err)
	}
	return users, nil
}
