package repomanager

import (
	"context"

	"github.com/dmitrijs2005/coursehub/internal/server/repositories/courses"
	"github.com/dmitrijs2005/coursehub/internal/server/repositories/principals"
	"github.com/dmitrijs2005/coursehub/internal/server/repositories/purchases"
)

// MemoryRepositoryManager keeps everything in process memory. State lives as
// long as the manager.
type MemoryRepositoryManager struct {
	principals *principals.MemoryRepository
	courses    *courses.MemoryRepository
	purchases  *purchases.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	cr := courses.NewMemoryRepository()
	return &MemoryRepositoryManager{
		principals: principals.NewMemoryRepository(),
		courses:    cr,
		purchases:  purchases.NewMemoryRepository(cr),
	}
}

func (m *MemoryRepositoryManager) Migrate(context.Context) error     { return nil }
func (m *MemoryRepositoryManager) Principals() principals.Repository { return m.principals }
func (m *MemoryRepositoryManager) Courses() courses.Repository       { return m.courses }
func (m *MemoryRepositoryManager) Purchases() purchases.Repository   { return m.purchases }
func (m *MemoryRepositoryManager) Close(context.Context) error       { return nil }
