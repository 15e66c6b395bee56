package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nfrund/passauth/internal/domain"
	"github.com/nfrund/passauth/internal/password"
	"github.com/nfrund/passauth/internal/token"
)

// MemoryUserStore keeps users in process memory. Data is lost on restart.
type MemoryUserStore struct {
	hasher *password.Hasher
	tokens *token.Manager
	now    func() time.Time

	mu      sync.RWMutex
	byID    map[string]*domain.User
	byEmail map[string]string
}

var _ domain.UserRepository = (*MemoryUserStore)(nil)

// NewMemoryUserStore creates an empty store.
func NewMemoryUserStore(hasher *password.Hasher, tokens *token.Manager) *MemoryUserStore {
	return &MemoryUserStore{
		hasher:  hasher,
		tokens:  tokens,
		now:     time.Now,
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]string),
	}
}

func (s *MemoryUserStore) SignUp(ctx context.Context, user *domain.User, plain string) (string, error) {
	email := NormalizeEmail(user.Email)
	hash, err := s.hasher.Hash(plain)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	if _, taken := s.byEmail[email]; taken {
		s.mu.Unlock()
		return "", domain.ErrUserAlreadyExists
	}
	stored := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}
	s.byID[stored.ID] = stored
	s.byEmail[email] = stored.ID
	s.mu.Unlock()

	*user = publicCopy(stored)
	slog.DebugContext(ctx, "Signed up user", "user_id", user.ID)
	return s.tokens.Issue(user.ID, user.Email)
}

func (s *MemoryUserStore) SignIn(ctx context.Context, user *domain.User, plain string) (string, error) {
	s.mu.RLock()
	stored, ok := s.lookupEmail(NormalizeEmail(user.Email))
	var snapshot domain.User
	if ok {
		snapshot = *stored
	}
	s.mu.RUnlock()
	if !ok {
		return "", domain.ErrUserNotFound
	}

	match, err := s.hasher.Verify(plain, snapshot.PasswordHash)
	if err != nil {
		return "", fmt.Errorf("failed to verify password: %w", err)
	}
	if !match {
		return "", domain.ErrInvalidCredentials
	}

	*user = publicCopy(&snapshot)
	return s.tokens.Issue(user.ID, user.Email)
}

func (s *MemoryUserStore) Authenticate(_ context.Context, raw string) (*domain.User, error) {
	claims, err := s.tokens.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidToken, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.byID[claims.Subject]
	if !ok {
		return nil, domain.ErrInvalidToken
	}
	u := publicCopy(stored)
	return &u, nil
}

// FindUserByEmail returns nil, nil when no user has the address.
func (s *MemoryUserStore) FindUserByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.lookupEmail(NormalizeEmail(email))
	if !ok {
		return nil, nil
	}
	u := publicCopy(stored)
	return &u, nil
}

func (s *MemoryUserStore) GenerateResetToken(_ context.Context, email string) (string, error) {
	tok, err := generateSecureToken(32)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.lookupEmail(NormalizeEmail(email))
	if !ok {
		return "", domain.ErrUserNotFound
	}
	expires := s.now().UTC().Add(resetTokenTTL)
	stored.ResetToken = tok
	stored.ResetTokenExpires = &expires
	return tok, nil
}

// ResetPassword consumes a valid reset token and stores the new password.
// A token can be used once.
func (s *MemoryUserStore) ResetPassword(_ context.Context, tok, newPassword string) (*domain.User, error) {
	if tok == "" || newPassword == "" {
		return nil, errors.New("token and password cannot be empty")
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, stored := range s.byID {
		if stored.ResetToken != tok {
			continue
		}
		if stored.ResetTokenExpires == nil || !s.now().Before(*stored.ResetTokenExpires) {
			return nil, domain.ErrInvalidResetToken
		}
		stored.PasswordHash = hash
		stored.ResetToken = ""
		stored.ResetTokenExpires = nil
		u := publicCopy(stored)
		return &u, nil
	}
	return nil, domain.ErrInvalidResetToken
}

func (s *MemoryUserStore) Close(context.Context) error { return nil }

func (s *MemoryUserStore) lookupEmail(email string) (*domain.User, bool) {
	id, ok := s.byEmail[email]
	if !ok {
		return nil, false
	}
	return s.byID[id], true
}

// publicCopy strips secrets before a user leaves the store.
func publicCopy(u *domain.User) domain.User {
	return domain.User{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt}
}
