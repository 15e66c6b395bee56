package testutils

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/nfrund/passauth/internal/domain"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// TestUser pairs an account with the password it was created with.
type TestUser struct {
	domain.User
	Password string
	Token    string
}

// UniqueEmail returns an address no other test has used.
func UniqueEmail() string {
	return fmt.Sprintf("it-%s@example.com", uuid.NewString()[:8])
}

// CreateUser signs up a fresh user in repo.
func CreateUser(t *testing.T, repo domain.UserRepository) TestUser {
	t.Helper()

	u := TestUser{User: domain.User{Email: UniqueEmail()}, Password: "secret-password"}
	tok, err := repo.SignUp(context.Background(), &u.User, u.Password)
	if err != nil {
		t.Fatalf("sign up %s: %v", u.Email, err)
	}
	u.Token = tok
	return u
}

// UserRecordID returns a random SurrealDB record id in the user table.
func UserRecordID() *surrealmodels.RecordID {
	id := surrealmodels.NewRecordID("user", uuid.NewString())
	return &id
}
