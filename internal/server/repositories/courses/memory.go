package courses

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/coursehub/internal/common"
	"github.com/dmitrijs2005/coursehub/internal/server/models"
)

type MemoryRepository struct {
	mu   sync.RWMutex
	byID map[string]models.Course
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: make(map[string]models.Course)}
}

func (r *MemoryRepository) Create(ctx context.Context, c *models.Course) (*models.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[c.ID]; exists {
		return nil, common.ErrorDuplicate
	}
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	r.byID[c.ID] = *c
	return c, nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*models.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &c, nil
}

func (r *MemoryRepository) UpdateIfCreator(ctx context.Context, id, creatorID string, changes models.CourseChanges) (*models.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.byID[id]
	if !ok || c.CreatorID != creatorID {
		return nil, common.ErrorNotFound
	}

	c.Title = changes.Title
	c.Description = changes.Description
	c.Price = changes.Price
	c.ImageURL = changes.ImageURL
	c.UpdatedAt = time.Now().UTC()
	r.byID[id] = c
	return &c, nil
}

func (r *MemoryRepository) ListByCreator(ctx context.Context, creatorID string) ([]models.Course, error) {
	return r.list(func(c models.Course) bool { return c.CreatorID == creatorID }), nil
}

func (r *MemoryRepository) ListAll(ctx context.Context) ([]models.Course, error) {
	return r.list(func(models.Course) bool { return true }), nil
}

func (r *MemoryRepository) list(keep func(models.Course) bool) []models.Course {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []models.Course{}
	for _, c := range r.byID {
		if keep(c) {
			result = append(result, c)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}
