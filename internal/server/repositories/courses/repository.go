// Package courses stores courses and enforces creator-scoped updates at the
// storage level.
package courses

import (
	"context"

	"github.com/dmitrijs2005/coursehub/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, c *models.Course) (*models.Course, error)
	// GetByID returns common.ErrorNotFound for an unknown id.
	GetByID(ctx context.Context, id string) (*models.Course, error)
	// UpdateIfCreator applies changes only when the course id exists and was
	// created by creatorID, as a single atomic storage operation. Either
	// mismatch yields common.ErrorNotFound.
	UpdateIfCreator(ctx context.Context, id, creatorID string, changes models.CourseChanges) (*models.Course, error)
	ListByCreator(ctx context.Context, creatorID string) ([]models.Course, error)
	ListAll(ctx context.Context) ([]models.Course, error)
}
