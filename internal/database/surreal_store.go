package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nfrund/passauth/internal/config"
	"github.com/nfrund/passauth/internal/domain"
	"github.com/nfrund/passauth/internal/token"
	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

const surrealSchema = `
DEFINE TABLE IF NOT EXISTS user SCHEMALESS;
DEFINE INDEX IF NOT EXISTS user_email ON TABLE user FIELDS email UNIQUE;
DEFINE INDEX IF NOT EXISTS user_reset_token ON TABLE user FIELDS resetToken;
`

// surrealUser is the row shape returned by SurrealDB.
type surrealUser struct {
	ID                *surrealmodels.RecordID `json:"id,omitempty"`
	Email             string                  `json:"email"`
	ResetToken        *string                 `json:"resetToken,omitempty"`
	ResetTokenExpires *string                 `json:"resetTokenExpires,omitempty"`
}

func (r *surrealUser) toDomain() *domain.User {
	u := &domain.User{Email: r.Email}
	if r.ID != nil {
		u.ID = r.ID.String()
	}
	return u
}

// NewDB connects to SurrealDB, signs in as the configured system user and
// selects the namespace and database.
func NewDB(ctx context.Context, cfg config.Provider) (*surrealdb.DB, error) {
	db, err := surrealdb.FromEndpointURLString(ctx, cfg.GetDBURL())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to surrealdb: %w", err)
	}

	authData := &surrealdb.Auth{
		Username: cfg.GetDBUser(),
		Password: cfg.GetDBPass(),
	}
	if _, err = db.SignIn(ctx, authData); err != nil {
		db.Close(ctx)
		return nil, fmt.Errorf("failed to sign in: %w", err)
	}

	if err = db.Use(ctx, cfg.GetDBNs(), cfg.GetDBDb()); err != nil {
		db.Close(ctx)
		return nil, fmt.Errorf("failed to use namespace/db: %w", err)
	}

	slog.Info("Successfully signed in to SurrealDB", "ns", cfg.GetDBNs(), "db", cfg.GetDBDb())
	return db, nil
}

// SurrealUserStore stores users in SurrealDB. Password hashing runs inside
// the database with crypto::argon2.
type SurrealUserStore struct {
	db     *surrealdb.DB
	tokens *token.Manager
	ns     string
	dbName string
}

var _ domain.UserRepository = (*SurrealUserStore)(nil)

// NewSurrealUserStore creates the store and ensures the user table and its
// indexes exist.
func NewSurrealUserStore(ctx context.Context, db *surrealdb.DB, tokens *token.Manager, ns, dbName string) (*SurrealUserStore, error) {
	s := &SurrealUserStore{db: db, tokens: tokens, ns: ns, dbName: dbName}
	if err := s.use(ctx); err != nil {
		return nil, err
	}
	if err := Execute(ctx, db, surrealSchema, nil); err != nil {
		return nil, fmt.Errorf("failed to define user schema: %w", err)
	}
	return s, nil
}

// use makes sure the correct namespace and database are selected.
func (s *SurrealUserStore) use(ctx context.Context) error {
	if err := s.db.Use(ctx, s.ns, s.dbName); err != nil {
		return fmt.Errorf("failed to set database scope: %w", err)
	}
	return nil
}

func (s *SurrealUserStore) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	if err := s.use(ctx); err != nil {
		return nil, err
	}
	row, err := QueryOne[surrealUser](ctx, s.db,
		"SELECT id, email FROM user WHERE email = $email",
		map[string]any{"email": NormalizeEmail(email)},
	)
	if err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	if row == nil {
		return nil, nil
	}
	return row.toDomain(), nil
}

func (s *SurrealUserStore) SignUp(ctx context.Context, user *domain.User, plain string) (string, error) {
	if err := s.use(ctx); err != nil {
		return "", err
	}
	row, err := QueryOne[surrealUser](ctx, s.db, `
		CREATE user SET
			email = $email,
			password = crypto::argon2::generate($password),
			createdAt = time::now()
		RETURN id, email`,
		map[string]any{"email": NormalizeEmail(user.Email), "password": plain},
	)
	if err != nil {
		if isUniqueViolation(err) {
			return "", domain.ErrUserAlreadyExists
		}
		return "", fmt.Errorf("failed to create user: %w", err)
	}
	if row == nil {
		return "", errors.New("create returned no user")
	}

	*user = *row.toDomain()
	user.CreatedAt = time.Now().UTC()
	slog.InfoContext(ctx, "Successfully signed up user", "user_id", user.ID)
	return s.tokens.Issue(user.ID, user.Email)
}

func (s *SurrealUserStore) SignIn(ctx context.Context, user *domain.User, plain string) (string, error) {
	existing, err := s.FindUserByEmail(ctx, user.Email)
	if err != nil {
		return "", err
	}
	if existing == nil {
		return "", domain.ErrUserNotFound
	}

	row, err := QueryOne[surrealUser](ctx, s.db,
		"SELECT id, email FROM user WHERE email = $email AND crypto::argon2::compare(password, $password)",
		map[string]any{"email": existing.Email, "password": plain},
	)
	if err != nil {
		return "", fmt.Errorf("failed to verify password: %w", err)
	}
	if row == nil {
		return "", domain.ErrInvalidCredentials
	}

	*user = *row.toDomain()
	return s.tokens.Issue(user.ID, user.Email)
}

// Authenticate validates a session token and returns the associated user.
func (s *SurrealUserStore) Authenticate(ctx context.Context, raw string) (*domain.User, error) {
	claims, err := s.tokens.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidToken, err)
	}
	user, err := s.FindUserByEmail(ctx, claims.Email)
	if err != nil {
		return nil, err
	}
	if user == nil || user.ID != claims.Subject {
		return nil, domain.ErrInvalidToken
	}
	return user, nil
}

// GenerateResetToken stores a fresh reset token on the user. The expiry is
// computed in Go and stored as an RFC3339 string.
func (s *SurrealUserStore) GenerateResetToken(ctx context.Context, email string) (string, error) {
	user, err := s.FindUserByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("error finding user: %w", err)
	}
	if user == nil {
		return "", domain.ErrUserNotFound
	}

	tok, err := generateSecureToken(32)
	if err != nil {
		return "", err
	}
	expires := time.Now().UTC().Add(resetTokenTTL).Format(time.RFC3339)

	err = Execute(ctx, s.db,
		"UPDATE user SET resetToken = $reset_token, resetTokenExpires = $expires WHERE email = $email",
		map[string]any{"email": user.Email, "reset_token": tok, "expires": expires},
	)
	if err != nil {
		return "", fmt.Errorf("failed to update user with reset token: %w", err)
	}
	slog.DebugContext(ctx, "Stored reset token", "user_id", user.ID, "expires", expires)
	return tok, nil
}

// ResetPassword checks the token, sets the new password and clears the token
// in a single statement.
func (s *SurrealUserStore) ResetPassword(ctx context.Context, tok, newPassword string) (*domain.User, error) {
	if tok == "" || newPassword == "" {
		return nil, errors.New("token and password cannot be empty")
	}
	if err := s.use(ctx); err != nil {
		return nil, err
	}

	// "token" is reserved in SurrealQL, hence target_token.
	rows, err := Query[surrealUser](ctx, s.db, `
		UPDATE user SET
			password = crypto::argon2::generate($password),
			resetToken = NONE,
			resetTokenExpires = NONE
		WHERE resetToken = $target_token AND type::datetime(resetTokenExpires) > time::now()
		RETURN id, email`,
		map[string]any{"target_token": tok, "password": newPassword},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to execute password reset: %w", err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrInvalidResetToken
	}

	user := rows[0].toDomain()
	slog.InfoContext(ctx, "Successfully reset password", "user_id", user.ID)
	return user, nil
}

func (s *SurrealUserStore) Close(ctx context.Context) error {
	return s.db.Close(ctx)
}

func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "already exists") || strings.Contains(msg, "already contains")
}
