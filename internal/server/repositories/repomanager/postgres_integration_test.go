//go:build integration

package repomanager

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/coursehub/internal/common"
	"github.com/dmitrijs2005/coursehub/internal/server/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupPostgres(t *testing.T) *PostgresRepositoryManager {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("coursehub_test"),
		postgres.WithUsername("coursehub"),
		postgres.WithPassword("coursehub"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	m, err := OpenPostgres(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close(ctx) })

	require.NoError(t, m.Migrate(ctx))
	// second run is a no-op
	require.NoError(t, m.Migrate(ctx))

	return m
}

func TestPostgres_ConcurrentPurchasesRecordOne(t *testing.T) {
	m := setupPostgres(t)
	ctx := context.Background()

	admin, err := m.Principals().Create(ctx, &models.Principal{
		ID: uuid.NewString(), Kind: models.KindAdmin, Email: "a@x.com",
		PasswordHash: []byte("h"), FirstName: "A", LastName: "B",
	})
	require.NoError(t, err)

	user, err := m.Principals().Create(ctx, &models.Principal{
		ID: uuid.NewString(), Kind: models.KindUser, Email: "a@x.com",
		PasswordHash: []byte("h"), FirstName: "U", LastName: "V",
	})
	require.NoError(t, err)

	course, err := m.Courses().Create(ctx, &models.Course{
		ID: uuid.NewString(), Title: "Go", Description: "intro", Price: 10,
		ImageURL: "u", CreatorID: admin.ID,
	})
	require.NoError(t, err)

	const n = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		dups      int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.Purchases().Create(ctx, &models.Purchase{
				ID: uuid.NewString(), UserID: user.ID, CourseID: course.ID,
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, common.ErrorDuplicate):
				dups++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, n-1, dups)

	list, err := m.Purchases().ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Go", list[0].Course.Title)

	_, err = m.Purchases().Create(ctx, &models.Purchase{
		ID: uuid.NewString(), UserID: user.ID, CourseID: uuid.NewString(),
	})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestPostgres_UpdateIfCreator(t *testing.T) {
	m := setupPostgres(t)
	ctx := context.Background()

	owner, err := m.Principals().Create(ctx, &models.Principal{
		ID: uuid.NewString(), Kind: models.KindAdmin, Email: "o@x.com",
		PasswordHash: []byte("h"), FirstName: "O", LastName: "W",
	})
	require.NoError(t, err)

	course, err := m.Courses().Create(ctx, &models.Course{
		ID: uuid.NewString(), Title: "Go", Description: "intro", Price: 10, CreatorID: owner.ID,
	})
	require.NoError(t, err)

	changes := models.CourseChanges{Title: "Go 2", Description: "more", Price: 20}

	_, err = m.Courses().UpdateIfCreator(ctx, course.ID, uuid.NewString(), changes)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	updated, err := m.Courses().UpdateIfCreator(ctx, course.ID, owner.ID, changes)
	require.NoError(t, err)
	assert.Equal(t, "Go 2", updated.Title)
	assert.Equal(t, owner.ID, updated.CreatorID)
}
