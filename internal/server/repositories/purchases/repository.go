// Package purchases is the purchase ledger. Storage guarantees at most one
// purchase per (user, course) pair; callers learn about a duplicate from the
// failed insert, never from a preceding read.
package purchases

import (
	"context"

	"github.com/dmitrijs2005/coursehub/internal/server/models"
)

type Repository interface {
	// Create records p and returns it joined with its course. A duplicate
	// pair yields common.ErrorDuplicate, an unknown course common.ErrorNotFound.
	Create(ctx context.Context, p *models.Purchase) (*models.PurchaseDetails, error)
	// Find returns common.ErrorNotFound when the pair was never purchased.
	Find(ctx context.Context, userID, courseID string) (*models.Purchase, error)
	// ListByUser returns the user's purchases with their courses, newest first.
	ListByUser(ctx context.Context, userID string) ([]models.PurchaseDetails, error)
}

// CourseReader is the slice of the course store the non-SQL drivers need to
// join purchases with courses.
type CourseReader interface {
	GetByID(ctx context.Context, id string) (*models.Course, error)
}
