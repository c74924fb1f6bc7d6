package server

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/coursehub/internal/logging"
	"github.com/dmitrijs2005/coursehub/internal/server/config"
	"github.com/dmitrijs2005/coursehub/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func memoryConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.StorageDriver = config.DriverMemory
	c.EndpointAddrHTTP = "127.0.0.1:0"
	c.BcryptCost = bcrypt.MinCost
	c.ShutdownTimeout = time.Second
	return c
}

func TestNewApp_Memory(t *testing.T) {
	app, err := NewApp(context.Background(), memoryConfig())
	require.NoError(t, err)
	assert.NotNil(t, app.http)
	assert.NotNil(t, app.repomanager)
}

func TestNewApp_RejectsEqualSecrets(t *testing.T) {
	c := memoryConfig()
	c.AdminSecretKey = c.UserSecretKey

	_, err := newApp(context.Background(), c, logging.Nop{}, repomanager.NewMemoryRepositoryManager())
	assert.Error(t, err)
}

func TestNewApp_RejectsBadCost(t *testing.T) {
	c := memoryConfig()
	c.BcryptCost = bcrypt.MaxCost + 1

	_, err := newApp(context.Background(), c, logging.Nop{}, repomanager.NewMemoryRepositoryManager())
	assert.Error(t, err)
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	app, err := newApp(context.Background(), memoryConfig(), logging.Nop{}, repomanager.NewMemoryRepositoryManager())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("app did not stop")
	}
}
