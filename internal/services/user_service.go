package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/healthion/healthion-api/internal/models"
	"gorm.io/gorm"
)

var (
	ErrInvalidInput        = errors.New("auth0 id and email are required")
	ErrUserNotFound        = errors.New("user not found")
	ErrUpstreamUnavailable = errors.New("open wearables unavailable")
	ErrPersistenceFailure  = errors.New("failed to persist user")
)

// WearablesRegistrar is the create-or-find operation on the Open Wearables
// platform. The platform guarantees at most one account per external id.
type WearablesRegistrar interface {
	CreateUser(ctx context.Context, externalID, email string) (*OWUser, error)
}

type UserService struct {
	db *gorm.DB
	ow WearablesRegistrar
}

func NewUserService(db *gorm.DB, ow WearablesRegistrar) *UserService {
	return &UserService{db: db, ow: ow}
}

// GetOrCreateUser maps a verified Auth0 identity to a local user row. The row
// is created on first sight; a drifted email is written back.
func (s *UserService) GetOrCreateUser(ctx context.Context, auth0ID, email string) (*models.User, error) {
	if auth0ID == "" || email == "" {
		return nil, ErrInvalidInput
	}

	var user models.User
	err := s.db.WithContext(ctx).Where("auth0_id = ?", auth0ID).First(&user).Error
	if err == nil {
		if user.Email != email {
			if err := s.db.WithContext(ctx).Model(&user).Update("email", email).Error; err != nil {
				return nil, fmt.Errorf("update email for user %s: %w: %w", user.ID, ErrPersistenceFailure, err)
			}
			user.Email = email
		}
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("look up user by auth0 id: %w: %w", ErrPersistenceFailure, err)
	}

	user = models.User{
		ID:      uuid.New(),
		Auth0ID: auth0ID,
		Email:   email,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, fmt.Errorf("create user for auth0 id %s: %w: %w", auth0ID, ErrPersistenceFailure, err)
	}
	return &user, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("look up user %s: %w: %w", id, ErrPersistenceFailure, err)
	}
	return &user, nil
}

// RegisterWithOpenWearables links the user to an Open Wearables account at
// most once, tolerating concurrent callers.
//
// The fast-path read may be stale; that is fine. The create-or-find call is
// idempotent on the platform side, and the conditional UPDATE below, not any
// lock, decides the single winner. No local state is held while the network
// call is in flight.
func (s *UserService) RegisterWithOpenWearables(ctx context.Context, user *models.User) (*models.User, error) {
	if user.OpenWearablesUserID != nil {
		slog.Info("user already registered with open wearables", "user_id", user.ID)
		return user, nil
	}

	owUser, err := s.ow.CreateUser(ctx, user.Auth0ID, user.Email)
	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			return nil, err
		}
		return nil, fmt.Errorf("create-or-find for user %s: %w: %w", user.ID, ErrUpstreamUnavailable, err)
	}
	owID := owUser.ResolvedID()
	if owID == uuid.Nil {
		// Never link the zero id: the column is set once and a bad link
		// could not be repaired by a retry.
		return nil, fmt.Errorf("create-or-find for user %s returned no account id: %w", user.ID, ErrUpstreamUnavailable)
	}

	// Only link if still unlinked. A single atomic statement, so a lost race
	// is a no-op rather than an overwrite.
	result := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND open_wearables_user_id IS NULL", user.ID).
		Update("open_wearables_user_id", owID)
	if result.Error != nil {
		return nil, fmt.Errorf("link user %s to open wearables: %w: %w", user.ID, ErrPersistenceFailure, result.Error)
	}

	if result.RowsAffected > 0 {
		slog.Info("user registered with open wearables", "user_id", user.ID, "ow_user_id", owID)
	} else {
		slog.Info("user already registered by a concurrent request", "user_id", user.ID)
	}

	// Re-read for the authoritative id, whichever caller won.
	var fresh models.User
	if err := s.db.WithContext(ctx).First(&fresh, "id = ?", user.ID).Error; err != nil {
		return nil, fmt.Errorf("reload user %s: %w: %w", user.ID, ErrPersistenceFailure, err)
	}
	return &fresh, nil
}
