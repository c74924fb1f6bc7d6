// Package principals stores user and admin credentials. Each kind lives in
// its own namespace (table or collection) so the same email may exist once
// per kind.
package principals

import (
	"context"

	"github.com/dmitrijs2005/coursehub/internal/server/models"
)

type Repository interface {
	// Create persists p under p.Kind. A second principal with the same email
	// and kind fails with common.ErrorDuplicate.
	Create(ctx context.Context, p *models.Principal) (*models.Principal, error)
	// GetByEmail returns common.ErrorNotFound when no principal of kind has email.
	GetByEmail(ctx context.Context, kind models.Kind, email string) (*models.Principal, error)
}
