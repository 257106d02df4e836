package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tradelog/trading-journal/internal/core/domain"
)

const collectionUserRoles = "user_roles"

type RoleRepository struct {
	col *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *RoleRepository {
	return &RoleRepository{col: db.Collection(collectionUserRoles)}
}

type roleDocument struct {
	UserID    string    `bson:"user_id"`
	Role      string    `bson:"role"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// FindByUserID returns domain.ErrRoleNotFound when the user has no row.
func (r *RoleRepository) FindByUserID(ctx context.Context, userID string) (domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d roleDocument
	if err := r.col.FindOne(ctx, bson.M{"user_id": userID}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", domain.ErrRoleNotFound
		}
		return "", err
	}
	return domain.Role(d.Role), nil
}

// Upsert assigns role to userID, creating the row if needed.
func (r *RoleRepository) Upsert(ctx context.Context, userID string, role domain.Role) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"role":       string(role),
		"updated_at": time.Now().UTC(),
	}}
	_, err := r.col.UpdateOne(ctx, bson.M{"user_id": userID}, update, options.Update().SetUpsert(true))
	return err
}

func (r *RoleRepository) List(ctx context.Context) ([]domain.UserRole, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []roleDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]domain.UserRole, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.UserRole{UserID: d.UserID, Role: domain.Role(d.Role), UpdatedAt: d.UpdatedAt.UTC()})
	}
	return out, nil
}

func (r *RoleRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("user_roles indexes: %w", err)
	}
	return nil
}
