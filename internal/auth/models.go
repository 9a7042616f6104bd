package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Role determines which parts of the portal a user can reach
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOwner    Role = "owner"
	RoleSupplier Role = "supplier"
)

// User represents a portal account
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	Name         string    `json:"name" gorm:"not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Role         Role      `json:"role" gorm:"not null;index"`
	IsActive     bool      `json:"is_active" gorm:"default:true"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Claims are the JWT claims carried by a portal token. SupplierID is set only
// for supplier accounts so supplier-facing endpoints can scope queries without
// an extra lookup.
type Claims struct {
	UserID     uuid.UUID  `json:"user_id"`
	Role       Role       `json:"role"`
	SupplierID *uuid.UUID `json:"supplier_id,omitempty"`
	jwt.RegisteredClaims
}

// RegisterRequest is the open supplier signup payload
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Contact  string `json:"contact"`
	Address  string `json:"address"`
}

// CreateUserRequest is the admin-facing account creation payload
type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Role     Role   `json:"role" binding:"required"`
}

// LoginRequest is the credential payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the signed token and the authenticated user
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user"`
}

// ChangePasswordRequest is the password rotation payload
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}
