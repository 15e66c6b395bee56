package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nfrund/passauth/internal/domain"
	"github.com/nfrund/passauth/internal/password"
	"github.com/nfrund/passauth/internal/token"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultUsersCollection is the collection MongoUserStore uses.
const DefaultUsersCollection = "users"

// MongoUserStore stores users in a MongoDB collection with a unique index on
// email.
type MongoUserStore struct {
	client *mongo.Client
	users  *mongo.Collection
	hasher *password.Hasher
	tokens *token.Manager
}

var _ domain.UserRepository = (*MongoUserStore)(nil)

// ConnectMongo opens a client and verifies it with a ping.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}
	return client, nil
}

// NewMongoUserStore creates the store and its indexes.
func NewMongoUserStore(ctx context.Context, client *mongo.Client, dbName string, hasher *password.Hasher, tokens *token.Manager) (*MongoUserStore, error) {
	users := client.Database(dbName).Collection(DefaultUsersCollection)
	_, err := users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "resetToken", Value: 1}}, Options: options.Index().SetSparse(true)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user indexes: %w", err)
	}
	return &MongoUserStore{client: client, users: users, hasher: hasher, tokens: tokens}, nil
}

func (s *MongoUserStore) SignUp(ctx context.Context, user *domain.User, plain string) (string, error) {
	hash, err := s.hasher.Hash(plain)
	if err != nil {
		return "", err
	}
	doc := domain.User{
		ID:           uuid.NewString(),
		Email:        NormalizeEmail(user.Email),
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := s.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", domain.ErrUserAlreadyExists
		}
		return "", fmt.Errorf("failed to insert user: %w", err)
	}

	*user = publicCopy(&doc)
	slog.InfoContext(ctx, "Successfully signed up user", "user_id", user.ID)
	return s.tokens.Issue(user.ID, user.Email)
}

func (s *MongoUserStore) SignIn(ctx context.Context, user *domain.User, plain string) (string, error) {
	stored, err := s.findOne(ctx, bson.M{"email": NormalizeEmail(user.Email)})
	if err != nil {
		return "", err
	}
	if stored == nil {
		return "", domain.ErrUserNotFound
	}

	match, err := s.hasher.Verify(plain, stored.PasswordHash)
	if err != nil {
		return "", fmt.Errorf("failed to verify password: %w", err)
	}
	if !match {
		return "", domain.ErrInvalidCredentials
	}

	*user = publicCopy(stored)
	return s.tokens.Issue(user.ID, user.Email)
}

func (s *MongoUserStore) Authenticate(ctx context.Context, raw string) (*domain.User, error) {
	claims, err := s.tokens.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidToken, err)
	}
	stored, err := s.findOne(ctx, bson.M{"_id": claims.Subject})
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, domain.ErrInvalidToken
	}
	u := publicCopy(stored)
	return &u, nil
}

func (s *MongoUserStore) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	stored, err := s.findOne(ctx, bson.M{"email": NormalizeEmail(email)})
	if err != nil || stored == nil {
		return nil, err
	}
	u := publicCopy(stored)
	return &u, nil
}

func (s *MongoUserStore) GenerateResetToken(ctx context.Context, email string) (string, error) {
	tok, err := generateSecureToken(32)
	if err != nil {
		return "", err
	}
	expires := time.Now().UTC().Add(resetTokenTTL)

	res, err := s.users.UpdateOne(ctx,
		bson.M{"email": NormalizeEmail(email)},
		bson.M{"$set": bson.M{"resetToken": tok, "resetTokenExpires": expires}},
	)
	if err != nil {
		return "", fmt.Errorf("failed to update user with reset token: %w", err)
	}
	if res.MatchedCount == 0 {
		return "", domain.ErrUserNotFound
	}
	return tok, nil
}

// ResetPassword matches the token and expiry and swaps the password in one
// FindOneAndUpdate, so a token cannot be used twice.
func (s *MongoUserStore) ResetPassword(ctx context.Context, tok, newPassword string) (*domain.User, error) {
	if tok == "" || newPassword == "" {
		return nil, errors.New("token and password cannot be empty")
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return nil, err
	}

	var stored domain.User
	err = s.users.FindOneAndUpdate(ctx,
		bson.M{"resetToken": tok, "resetTokenExpires": bson.M{"$gt": time.Now().UTC()}},
		bson.M{
			"$set":   bson.M{"password": hash},
			"$unset": bson.M{"resetToken": "", "resetTokenExpires": ""},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&stored)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrInvalidResetToken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to reset password: %w", err)
	}
	u := publicCopy(&stored)
	return &u, nil
}

func (s *MongoUserStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoUserStore) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var u domain.User
	err := s.users.FindOne(ctx, filter).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	return &u, nil
}
