package purchases

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/coursehub/internal/common"
	"github.com/dmitrijs2005/coursehub/internal/server/models"
)

type pairKey struct {
	userID   string
	courseID string
}

// MemoryRepository keys purchases by (user, course); insertion happens only
// when the key is absent, under the write lock.
type MemoryRepository struct {
	courses CourseReader

	mu     sync.Mutex
	byPair map[pairKey]models.Purchase
}

func NewMemoryRepository(courses CourseReader) *MemoryRepository {
	return &MemoryRepository{courses: courses, byPair: make(map[pairKey]models.Purchase)}
}

func (r *MemoryRepository) Create(ctx context.Context, p *models.Purchase) (*models.PurchaseDetails, error) {
	course, err := r.courses.GetByID(ctx, p.CourseID)
	if err != nil {
		return nil, err
	}

	key := pairKey{userID: p.UserID, courseID: p.CourseID}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byPair[key]; exists {
		return nil, common.ErrorDuplicate
	}
	p.CreatedAt = time.Now().UTC()
	r.byPair[key] = *p

	return &models.PurchaseDetails{Purchase: *p, Course: *course}, nil
}

func (r *MemoryRepository) Find(ctx context.Context, userID, courseID string) (*models.Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byPair[pairKey{userID: userID, courseID: courseID}]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &p, nil
}

func (r *MemoryRepository) ListByUser(ctx context.Context, userID string) ([]models.PurchaseDetails, error) {
	r.mu.Lock()
	owned := []models.Purchase{}
	for key, p := range r.byPair {
		if key.userID == userID {
			owned = append(owned, p)
		}
	}
	r.mu.Unlock()

	sort.Slice(owned, func(i, j int) bool {
		if owned[i].CreatedAt.Equal(owned[j].CreatedAt) {
			return owned[i].ID > owned[j].ID
		}
		return owned[i].CreatedAt.After(owned[j].CreatedAt)
	})

	result := make([]models.PurchaseDetails, 0, len(owned))
	for _, p := range owned {
		course, err := r.courses.GetByID(ctx, p.CourseID)
		if err != nil {
			return nil, err
		}
		result = append(result, models.PurchaseDetails{Purchase: p, Course: *course})
	}
	return result, nil
}
