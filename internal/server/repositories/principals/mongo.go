package principals

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/coursehub/internal/server/models"
	"github.com/dmitrijs2005/coursehub/internal/server/repositories/mongox"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Collection names. Both carry a unique index on email.
const (
	ColUsers  = "users"
	ColAdmins = "admins"
)

type principalDoc struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	PasswordHash []byte    `bson:"password_hash"`
	FirstName    string    `bson:"first_name"`
	LastName     string    `bson:"last_name"`
	CreatedAt    time.Time `bson:"created_at"`
}

type MongoRepository struct {
	db *mongo.Database
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{db: db}
}

func (r *MongoRepository) col(kind models.Kind) (*mongo.Collection, error) {
	switch kind {
	case models.KindUser:
		return r.db.Collection(ColUsers), nil
	case models.KindAdmin:
		return r.db.Collection(ColAdmins), nil
	default:
		return nil, fmt.Errorf("unknown principal kind %q", kind)
	}
}

func (r *MongoRepository) Create(ctx context.Context, p *models.Principal) (*models.Principal, error) {
	col, err := r.col(p.Kind)
	if err != nil {
		return nil, err
	}

	p.CreatedAt = time.Now().UTC()
	doc := principalDoc{
		ID:           p.ID,
		Email:        p.Email,
		PasswordHash: p.PasswordHash,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		CreatedAt:    p.CreatedAt,
	}
	if _, err := col.InsertOne(ctx, doc); err != nil {
		return nil, mongox.WrapError(err)
	}
	return p, nil
}

func (r *MongoRepository) GetByEmail(ctx context.Context, kind models.Kind, email string) (*models.Principal, error) {
	col, err := r.col(kind)
	if err != nil {
		return nil, err
	}

	doc, err := mongox.FindOne[principalDoc](ctx, col, bson.D{{Key: "email", Value: email}})
	if err != nil {
		return nil, err
	}

	return &models.Principal{
		ID:           doc.ID,
		Kind:         kind,
		Email:        doc.Email,
		PasswordHash: doc.PasswordHash,
		FirstName:    doc.FirstName,
		LastName:     doc.LastName,
		CreatedAt:    doc.CreatedAt,
	}, nil
}
