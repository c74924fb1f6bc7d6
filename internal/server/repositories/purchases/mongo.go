package purchases

import (
	"context"
	"time"

	"github.com/dmitrijs2005/coursehub/internal/server/models"
	"github.com/dmitrijs2005/coursehub/internal/server/repositories/courses"
	"github.com/dmitrijs2005/coursehub/internal/server/repositories/mongox"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// ColPurchases carries a unique compound index on {user_id, course_id}.
const ColPurchases = "purchases"

type purchaseDoc struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"user_id"`
	CourseID  string    `bson:"course_id"`
	CreatedAt time.Time `bson:"created_at"`
}

func (d purchaseDoc) model() models.Purchase {
	return models.Purchase{ID: d.ID, UserID: d.UserID, CourseID: d.CourseID, CreatedAt: d.CreatedAt}
}

type MongoRepository struct {
	col     *mongo.Collection
	courses CourseReader
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{
		col:     db.Collection(ColPurchases),
		courses: courses.NewMongoRepository(db),
	}
}

// Create relies on the unique index: a concurrent duplicate fails with E11000.
func (r *MongoRepository) Create(ctx context.Context, p *models.Purchase) (*models.PurchaseDetails, error) {
	course, err := r.courses.GetByID(ctx, p.CourseID)
	if err != nil {
		return nil, err
	}

	p.CreatedAt = time.Now().UTC()
	doc := purchaseDoc{ID: p.ID, UserID: p.UserID, CourseID: p.CourseID, CreatedAt: p.CreatedAt}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, mongox.WrapError(err)
	}

	return &models.PurchaseDetails{Purchase: *p, Course: *course}, nil
}

func (r *MongoRepository) Find(ctx context.Context, userID, courseID string) (*models.Purchase, error) {
	doc, err := mongox.FindOne[purchaseDoc](ctx, r.col, bson.D{
		{Key: "user_id", Value: userID},
		{Key: "course_id", Value: courseID},
	})
	if err != nil {
		return nil, err
	}
	p := doc.model()
	return &p, nil
}

type purchaseWithCourseDoc struct {
	Purchase purchaseDoc `bson:",inline"`
	Course   struct {
		ID          string    `bson:"_id"`
		Title       string    `bson:"title"`
		Description string    `bson:"description"`
		Price       float64   `bson:"price"`
		ImageURL    string    `bson:"image_url"`
		CreatorID   string    `bson:"creator_id"`
		CreatedAt   time.Time `bson:"created_at"`
		UpdatedAt   time.Time `bson:"updated_at"`
	} `bson:"course"`
}

// ListByUser joins with the courses collection server-side via $lookup.
func (r *MongoRepository) ListByUser(ctx context.Context, userID string) ([]models.PurchaseDetails, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "user_id", Value: userID}}}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: courses.ColCourses},
			{Key: "localField", Value: "course_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "course"},
		}}},
		{{Key: "$unwind", Value: "$course"}},
	}

	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, mongox.WrapError(err)
	}
	defer cursor.Close(ctx)

	var docs []purchaseWithCourseDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, mongox.WrapError(err)
	}

	result := make([]models.PurchaseDetails, 0, len(docs))
	for _, d := range docs {
		c := d.Course
		result = append(result, models.PurchaseDetails{
			Purchase: d.Purchase.model(),
			Course: models.Course{
				ID:          c.ID,
				Title:       c.Title,
				Description: c.Description,
				Price:       c.Price,
				ImageURL:    c.ImageURL,
				CreatorID:   c.CreatorID,
				CreatedAt:   c.CreatedAt,
				UpdatedAt:   c.UpdatedAt,
			},
		})
	}
	return result, nil
}
