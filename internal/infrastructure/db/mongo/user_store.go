package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pyconafrica/registration/internal/core/domain"
)

const usersCollection = "users"

// UserStore implements ports.UserStore on a MongoDB collection. Lowercased
// copies of username and email are stored alongside the originals so that
// case-insensitive lookups can use an index.
type UserStore struct {
	coll *mongo.Collection
}

func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{coll: db.Collection(usersCollection)}
}

type mongoUser struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Username      string             `bson:"username"`
	UsernameLower string             `bson:"username_lower"`
	Email         string             `bson:"email"`
	EmailLower    string             `bson:"email_lower"`
	FirstName     string             `bson:"first_name,omitempty"`
	LastName      string             `bson:"last_name,omitempty"`
	PasswordHash  string             `bson:"password_hash"`
	Role          string             `bson:"role"`
	IsActive      bool               `bson:"is_active"`
	Profile       domain.Profile     `bson:"profile"`
	CreatedAt     int64              `bson:"created_at"`
	UpdatedAt     int64              `bson:"updated_at"`
}

// EnsureIndexes creates the unique username index and the email lookup index.
func (r *UserStore) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "username_lower", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email_lower", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *UserStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, bson.M{"username_lower": strings.ToLower(username)})
}

func (r *UserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, bson.M{"email_lower": strings.ToLower(email)})
}

func (r *UserStore) exists(ctx context.Context, filter bson.M) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return n > 0, nil
}

func (r *UserStore) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoUser{
		Username:      user.Username,
		UsernameLower: strings.ToLower(user.Username),
		Email:         user.Email,
		EmailLower:    strings.ToLower(user.Email),
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		PasswordHash:  user.PasswordHash,
		Role:          user.Role,
		IsActive:      user.IsActive,
		Profile:       user.Profile,
		CreatedAt:     user.CreatedAt.Unix(),
		UpdatedAt:     user.UpdatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return doc.toDomain(), nil
}

func (r *UserStore) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username_lower": strings.ToLower(username)})
}

func (r *UserStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email_lower": strings.ToLower(email)})
}

func (r *UserStore) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	if err := r.coll.FindOne(ctx, filter).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *UserStore) SetActive(ctx context.Context, username string, active bool) error {
	return r.update(ctx, bson.M{"username_lower": strings.ToLower(username)}, bson.M{"is_active": active})
}

func (r *UserStore) UpdateProfile(ctx context.Context, userID string, profile domain.Profile) error {
	filter, err := byID(userID)
	if err != nil {
		return err
	}
	return r.update(ctx, filter, bson.M{"profile": profile})
}

func (r *UserStore) UpdateAccount(ctx context.Context, userID string, update domain.AccountUpdate) error {
	filter, err := byID(userID)
	if err != nil {
		return err
	}
	return r.update(ctx, filter, bson.M{
		"first_name":  update.FirstName,
		"last_name":   update.LastName,
		"email":       update.Email,
		"email_lower": strings.ToLower(update.Email),
	})
}

func (r *UserStore) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	filter, err := byID(userID)
	if err != nil {
		return err
	}
	return r.update(ctx, filter, bson.M{"password_hash": passwordHash})
}

func (r *UserStore) update(ctx context.Context, filter, set bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set["updated_at"] = time.Now().UTC().Unix()
	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func byID(userID string) (bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return bson.M{"_id": oid}, nil
}

func (mu mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:           mu.ID.Hex(),
		Username:     mu.Username,
		Email:        mu.Email,
		FirstName:    mu.FirstName,
		LastName:     mu.LastName,
		PasswordHash: mu.PasswordHash,
		Role:         mu.Role,
		IsActive:     mu.IsActive,
		Profile:      mu.Profile,
		CreatedAt:    unixToTime(mu.CreatedAt),
		UpdatedAt:    unixToTime(mu.UpdatedAt),
	}
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
