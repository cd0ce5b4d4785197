package db

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"heunets/internal/core/domain"
	"heunets/internal/core/ports"
)

// UserDirectory resolves identities from the users collection. Emails are
// stored lower-cased, so callers normalize before lookup.
type UserDirectory struct {
	users *mongo.Collection
}

var _ ports.UserDirectory = (*UserDirectory)(nil)

func NewUserDirectory(database *mongo.Database) *UserDirectory {
	return &UserDirectory{users: database.Collection(usersCollection)}
}

type userDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	FirstName string             `bson:"firstName"`
	LastName  string             `bson:"lastName"`
	Email     string             `bson:"email"`
	IsActive  bool               `bson:"isActive"`
}

func (d *UserDirectory) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return d.findOne(ctx, bson.M{"email": email})
}

func (d *UserDirectory) FindByID(ctx context.Context, id string) (*domain.User, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.NewValidationError("Invalid user ID")
	}
	return d.findOne(ctx, bson.M{"_id": objectID})
}

func (d *UserDirectory) ListActive(ctx context.Context) ([]domain.User, error) {
	cursor, err := d.users.Find(ctx,
		bson.M{"isActive": true},
		options.Find().SetSort(bson.D{{Key: "firstName", Value: 1}, {Key: "lastName", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []userDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	users := make([]domain.User, 0, len(docs))
	for _, doc := range docs {
		users = append(users, mapUserDocToUser(doc))
	}
	return users, nil
}

func (d *UserDirectory) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var doc userDoc
	if err := d.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrIdentityNotFound
		}
		return nil, err
	}

	user := mapUserDocToUser(doc)
	return &user, nil
}

func mapUserDocToUser(doc userDoc) domain.User {
	return domain.User{
		ID:        doc.ID.Hex(),
		FirstName: doc.FirstName,
		LastName:  doc.LastName,
		Email:     doc.Email,
		IsActive:  doc.IsActive,
	}
}
