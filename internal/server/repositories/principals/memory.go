package principals

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/coursehub/internal/common"
	"github.com/dmitrijs2005/coursehub/internal/server/models"
)

type memoryKey struct {
	kind  models.Kind
	email string
}

// MemoryRepository keeps principals in process memory. Used for tests and
// the "memory" storage driver.
type MemoryRepository struct {
	mu    sync.RWMutex
	byKey map[memoryKey]models.Principal
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byKey: make(map[memoryKey]models.Principal)}
}

func (r *MemoryRepository) Create(ctx context.Context, p *models.Principal) (*models.Principal, error) {
	key := memoryKey{kind: p.Kind, email: p.Email}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byKey[key]; exists {
		return nil, common.ErrorDuplicate
	}
	p.CreatedAt = time.Now().UTC()
	r.byKey[key] = *p
	return p, nil
}

func (r *MemoryRepository) GetByEmail(ctx context.Context, kind models.Kind, email string) (*models.Principal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byKey[memoryKey{kind: kind, email: email}]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &p, nil
}
