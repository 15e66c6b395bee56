package domain

import (
	"context"
	"time"
)

// User represents the core user model in the application domain.
type User struct {
	ID                string     `json:"id,omitempty" bson:"_id"`
	Email             string     `json:"email" bson:"email"`
	PasswordHash      string     `json:"-" bson:"password"`
	ResetToken        string     `json:"-" bson:"resetToken,omitempty"`
	ResetTokenExpires *time.Time `json:"-" bson:"resetTokenExpires,omitempty"`
	CreatedAt         time.Time  `json:"createdAt" bson:"createdAt"`
}

// UserRepository defines the contract for user data storage operations.
// It lives in the domain because it's a requirement OF the domain, not
// of the database implementation.
//
// SignUp and SignIn return a session token; Authenticate resolves it back
// to the user.
type UserRepository interface {
	SignUp(ctx context.Context, user *User, password string) (string, error)
	SignIn(ctx context.Context, user *User, password string) (string, error)
	Authenticate(ctx context.Context, token string) (*User, error)
	FindUserByEmail(ctx context.Context, email string) (*User, error)
	GenerateResetToken(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) (*User, error)
	Close(ctx context.Context) error
}
