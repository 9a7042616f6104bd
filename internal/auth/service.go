package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SupplierRegistrar creates a supplier profile for a freshly registered
// supplier account. Implemented by the suppliers service; injected here to
// keep the dependency one-directional.
type SupplierRegistrar interface {
	CreateForUser(ctx context.Context, userID uuid.UUID, name, contact, address string) (uuid.UUID, error)
	SupplierIDForUser(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error)
}

// Service provides account and token business logic
type Service struct {
	db          *gorm.DB
	registrar   SupplierRegistrar
	jwtSecret   []byte
	tokenExpiry time.Duration
	logger      *zap.Logger
}

// NewService creates a new auth service and migrates the users table
func NewService(db *gorm.DB, registrar SupplierRegistrar, jwtSecret string, tokenExpiry time.Duration, logger *zap.Logger) (*Service, error) {
	if err := db.AutoMigrate(&User{}); err != nil {
		return nil, fmt.Errorf("failed to migrate users table: %w", err)
	}

	return &Service{
		db:          db,
		registrar:   registrar,
		jwtSecret:   []byte(jwtSecret),
		tokenExpiry: tokenExpiry,
		logger:      logger,
	}, nil
}

// Register creates a supplier account together with its supplier profile
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*User, error) {
	user, err := s.createUser(ctx, req.Email, req.Name, req.Password, RoleSupplier)
	if err != nil {
		return nil, err
	}

	if s.registrar != nil {
		if _, err := s.registrar.CreateForUser(ctx, user.ID, req.Name, req.Contact, req.Address); err != nil {
			return nil, fmt.Errorf("failed to create supplier profile: %w", err)
		}
	}

	s.logger.Info("Supplier account registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	return user, nil
}

// CreateUser creates an account with an explicit role. Admin-only surface.
func (s *Service) CreateUser(ctx context.Context, req *CreateUserRequest) (*User, error) {
	switch req.Role {
	case RoleAdmin, RoleOwner, RoleSupplier:
	default:
		return nil, fmt.Errorf("unknown role: %s", req.Role)
	}

	user, err := s.createUser(ctx, req.Email, req.Name, req.Password, req.Role)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User account created",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))

	return user, nil
}

func (s *Service) createUser(ctx context.Context, email, name, password string, role Role) (*User, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check existing account: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("an account with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &User{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login verifies credentials and issues a signed token
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	var user User
	err := s.db.WithContext(ctx).Where("email = ?", req.Email).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("invalid credentials")
		}
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	if !user.IsActive {
		return nil, fmt.Errorf("account is disabled")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}

	var supplierID *uuid.UUID
	if user.Role == RoleSupplier && s.registrar != nil {
		supplierID, err = s.registrar.SupplierIDForUser(ctx, user.ID)
		if err != nil {
			s.logger.Warn("Failed to resolve supplier profile for login",
				zap.Error(err), zap.String("user_id", user.ID.String()))
		}
	}

	expiresAt := time.Now().Add(s.tokenExpiry)
	claims := &Claims{
		UserID:     user.ID,
		Role:       user.Role,
		SupplierID: supplierID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	s.logger.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))

	return &LoginResponse{Token: token, ExpiresAt: expiresAt, User: &user}, nil
}

// ParseToken validates a signed token and returns its claims
func (s *Service) ParseToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// GetUser retrieves an account by ID
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	var user User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// ChangePassword rotates a user's password after verifying the current one
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, req *ChangePasswordRequest) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return fmt.Errorf("current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.db.WithContext(ctx).Model(user).Update("password_hash", string(hash)).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.Info("Password changed", zap.String("user_id", userID.String()))
	return nil
}
