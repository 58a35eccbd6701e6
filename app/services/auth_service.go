package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/printipid/printipid/app/models"
	"github.com/printipid/printipid/pkg/auth"
	"github.com/printipid/printipid/pkg/docstore"
)

// AuthService handles registration, login and profile management.
type AuthService struct {
	users UserStore
}

func NewAuthService(users UserStore) *AuthService {
	return &AuthService{users: users}
}

// Register creates a customer account and returns the user with a signed
// token. Emails are unique.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return models.User{}, "", ErrEmailTaken
	} else if !errors.Is(err, docstore.ErrNotFound) {
		return models.User{}, "", err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, "", fmt.Errorf("services: hash password: %w", err)
	}

	now := time.Now()
	user := models.User{
		ID:           primitive.NewObjectID().Hex(),
		Email:        email,
		Name:         name,
		Role:         models.RoleCustomer,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		return models.User{}, "", err
	}

	token, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return models.User{}, "", err
	}
	return user, token, nil
}

// Login verifies credentials and returns the user with a signed token.
func (s *AuthService) Login(ctx context.Context, email, password string) (models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, docstore.ErrNotFound) {
		return models.User{}, "", ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, "", err
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return models.User{}, "", ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return models.User{}, "", err
	}
	return user, token, nil
}

// EnsureProfile returns the profile for userID, creating a default customer
// profile on first sight. Tokens can outlive profile documents, so reads are
// tolerant of a missing record.
func (s *AuthService) EnsureProfile(ctx context.Context, userID, email, name string) (models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, docstore.ErrNotFound) {
		return models.User{}, err
	}

	now := time.Now()
	user = models.User{
		ID:        userID,
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Name:      name,
		Role:      models.RoleCustomer,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Profile fetches a user by ID.
func (s *AuthService) Profile(ctx context.Context, userID string) (models.User, error) {
	return s.users.FindByID(ctx, userID)
}

// UpdateProfile merges the caller-editable fields into their profile. Role
// and email are never updatable through this path.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, name, phone, address, photoURL string) (models.User, error) {
	fields := bson.M{}
	if name != "" {
		fields["name"] = name
	}
	if phone != "" {
		fields["phone"] = phone
	}
	if address != "" {
		fields["address"] = address
	}
	if photoURL != "" {
		fields["photoUrl"] = photoURL
	}
	if len(fields) > 0 {
		if err := s.users.Update(ctx, userID, fields); err != nil {
			return models.User{}, err
		}
	}
	return s.users.FindByID(ctx, userID)
}

// SetRole changes a user's role (admin operation).
func (s *AuthService) SetRole(ctx context.Context, userID, role string) (models.User, error) {
	if role != models.RoleAdmin && role != models.RoleCustomer {
		return models.User{}, fmt.Errorf("services: unknown role %q", role)
	}
	if err := s.users.Update(ctx, userID, bson.M{"role": role}); err != nil {
		return models.User{}, err
	}
	return s.users.FindByID(ctx, userID)
}

// Users lists every registered user (admin operation).
func (s *AuthService) Users(ctx context.Context) ([]models.User, error) {
	return s.users.All(ctx)
}
