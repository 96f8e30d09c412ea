package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mist-space/auth-core/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

// ErrDuplicate is returned by Create when the email is already registered.
var ErrDuplicate = errors.New("user already exists")

// Service owns user documents: lookup, creation and password verification.
type Service struct {
	col *mongo.Collection
}

func NewService(db *mongo.Database) *Service {
	return &Service{col: db.Collection("users")}
}

// EnsureIndexes creates the unique email index. Called once at startup.
func (s *Service) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create email index: %w", err)
	}
	return nil
}

// FindByEmail returns the user with the given email, or (nil, nil) when no
// such user exists.
func (s *Service) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.col.FindOne(ctx, bson.M{"email": normalizeEmail(email)}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &u, nil
}

// Create inserts a new user with a bcrypt-hashed password and the default
// customer role. A duplicate email surfaces as ErrDuplicate.
func (s *Service) Create(ctx context.Context, name, email, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	u := models.User{
		Name:      strings.TrimSpace(name),
		Email:     normalizeEmail(email),
		Password:  string(hash),
		Role:      models.RoleCustomer,
		CreatedAt: now,
		UpdatedAt: now,
	}

	res, err := s.col.InsertOne(ctx, &u)
	if mongo.IsDuplicateKeyError(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = id
	}
	return &u, nil
}

// FindByID returns the user with the given id, or (nil, nil) when absent or
// the id is malformed.
func (s *Service) FindByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var u models.User
	err = s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &u, nil
}

// VerifyPassword reports whether the submitted password matches the stored
// bcrypt hash. A mismatch is an ordinary false, never an error.
func (s *Service) VerifyPassword(submitted, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(submitted)) == nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
