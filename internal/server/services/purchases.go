package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/coursehub/internal/common"
	"github.com/dmitrijs2005/coursehub/internal/server/models"
	"github.com/dmitrijs2005/coursehub/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// PurchaseService records purchases. Duplicate detection is left entirely to
// the store's uniqueness guarantee; no lock is held across storage calls.
type PurchaseService struct {
	repomanager repomanager.RepositoryManager
}

func NewPurchaseService(m repomanager.RepositoryManager) *PurchaseService {
	return &PurchaseService{repomanager: m}
}

// Purchase records that userID bought courseID. Concurrent calls for the same
// pair produce exactly one success; the rest fail with
// common.ErrAlreadyPurchased.
func (s *PurchaseService) Purchase(ctx context.Context, userID, courseID string) (*models.PurchaseDetails, error) {
	if _, err := uuid.Parse(courseID); err != nil {
		return nil, common.ErrMalformedID
	}

	if _, err := s.repomanager.Courses().GetByID(ctx, courseID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrCourseNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	details, err := s.repomanager.Purchases().Create(ctx, &models.Purchase{
		ID:       uuid.NewString(),
		UserID:   userID,
		CourseID: courseID,
	})
	switch {
	case err == nil:
		return details, nil
	case errors.Is(err, common.ErrorDuplicate):
		return nil, common.ErrAlreadyPurchased
	case errors.Is(err, common.ErrorNotFound):
		return nil, common.ErrCourseNotFound
	default:
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
}

// ListPurchases returns the user's purchases with their courses, newest first.
func (s *PurchaseService) ListPurchases(ctx context.Context, userID string) ([]models.PurchaseDetails, error) {
	list, err := s.repomanager.Purchases().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return list, nil
}
