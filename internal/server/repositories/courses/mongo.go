package courses

import (
	"context"
	"time"

	"github.com/dmitrijs2005/coursehub/internal/server/models"
	"github.com/dmitrijs2005/coursehub/internal/server/repositories/mongox"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const ColCourses = "courses"

type courseDoc struct {
	ID          string    `bson:"_id"`
	Title       string    `bson:"title"`
	Description string    `bson:"description"`
	Price       float64   `bson:"price"`
	ImageURL    string    `bson:"image_url"`
	CreatorID   string    `bson:"creator_id"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func (d courseDoc) model() models.Course {
	return models.Course{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Price:       d.Price,
		ImageURL:    d.ImageURL,
		CreatorID:   d.CreatorID,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{col: db.Collection(ColCourses)}
}

func (r *MongoRepository) Create(ctx context.Context, c *models.Course) (*models.Course, error) {
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now

	doc := courseDoc{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Price:       c.Price,
		ImageURL:    c.ImageURL,
		CreatorID:   c.CreatorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, mongox.WrapError(err)
	}
	return c, nil
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (*models.Course, error) {
	doc, err := mongox.FindOne[courseDoc](ctx, r.col, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return nil, err
	}
	c := doc.model()
	return &c, nil
}

// UpdateIfCreator uses FindOneAndUpdate with the creator in the filter, so the
// ownership check and the write are one server-side operation.
func (r *MongoRepository) UpdateIfCreator(ctx context.Context, id, creatorID string, changes models.CourseChanges) (*models.Course, error) {
	filter := bson.D{{Key: "_id", Value: id}, {Key: "creator_id", Value: creatorID}}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "title", Value: changes.Title},
		{Key: "description", Value: changes.Description},
		{Key: "price", Value: changes.Price},
		{Key: "image_url", Value: changes.ImageURL},
		{Key: "updated_at", Value: time.Now().UTC()},
	}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc courseDoc
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		return nil, mongox.WrapError(err)
	}
	c := doc.model()
	return &c, nil
}

func (r *MongoRepository) ListByCreator(ctx context.Context, creatorID string) ([]models.Course, error) {
	return r.list(ctx, bson.D{{Key: "creator_id", Value: creatorID}})
}

func (r *MongoRepository) ListAll(ctx context.Context) ([]models.Course, error) {
	return r.list(ctx, bson.D{})
}

func (r *MongoRepository) list(ctx context.Context, filter bson.D) ([]models.Course, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	docs, err := mongox.FindMany[courseDoc](ctx, r.col, filter, opts)
	if err != nil {
		return nil, err
	}

	result := make([]models.Course, 0, len(docs))
	for _, d := range docs {
		result = append(result, d.model())
	}
	return result, nil
}
