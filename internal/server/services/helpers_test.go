package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/coursehub/internal/server/auth"
	"github.com/dmitrijs2005/coursehub/internal/server/models"
	"github.com/dmitrijs2005/coursehub/internal/server/repositories/courses"
	"github.com/dmitrijs2005/coursehub/internal/server/repositories/principals"
	"github.com/dmitrijs2005/coursehub/internal/server/repositories/purchases"
	"github.com/dmitrijs2005/coursehub/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var errStorage = errors.New("storage down")

func newCodec(t *testing.T) *auth.Codec {
	t.Helper()
	c, err := auth.NewCodec(map[models.Kind][]byte{
		models.KindUser:  []byte("user-secret"),
		models.KindAdmin: []byte("admin-secret"),
	}, time.Hour)
	require.NoError(t, err)
	return c
}

func newHasher(t *testing.T) *auth.Hasher {
	t.Helper()
	h, err := auth.NewHasher(bcrypt.MinCost)
	require.NoError(t, err)
	return h
}

// brokenRepoMgr fails every storage call.
type brokenRepoMgr struct{ repomanager.RepositoryManager }

func (brokenRepoMgr) Principals() principals.Repository { return brokenPrincipals{} }
func (brokenRepoMgr) Courses() courses.Repository       { return brokenCourses{} }
func (brokenRepoMgr) Purchases() purchases.Repository   { return brokenPurchases{} }

type brokenPrincipals struct{}

func (brokenPrincipals) Create(context.Context, *models.Principal) (*models.Principal, error) {
	return nil, errStorage
}
func (brokenPrincipals) GetByEmail(context.Context, models.Kind, string) (*models.Principal, error) {
	return nil, errStorage
}

type brokenCourses struct{}

func (brokenCourses) Create(context.Context, *models.Course) (*models.Course, error) {
	return nil, errStorage
}
func (brokenCourses) GetByID(context.Context, string) (*models.Course, error) { return nil, errStorage }
func (brokenCourses) UpdateIfCreator(context.Context, string, string, models.CourseChanges) (*models.Course, error) {
	return nil, errStorage
}
func (brokenCourses) ListByCreator(context.Context, string) ([]models.Course, error) {
	return nil, errStorage
}
func (brokenCourses) ListAll(context.Context) ([]models.Course, error) { return nil, errStorage }

type brokenPurchases struct{}

func (brokenPurchases) Create(context.Context, *models.Purchase) (*models.PurchaseDetails, error) {
	return nil, errStorage
}
func (brokenPurchases) Find(context.Context, string, string) (*models.Purchase, error) {
	return nil, errStorage
}
func (brokenPurchases) ListByUser(context.Context, string) ([]models.PurchaseDetails, error) {
	return nil, errStorage
}
