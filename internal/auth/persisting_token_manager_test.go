package auth

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fivetwenty-io/bcapi/pkg/bc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errPersistFailed = errors.New("persist failed")

type recordingPersister struct {
	tokens []string
	err    error
}

func (p *recordingPersister) PersistToken(tenantID, token string, expiresAt time.Time) error {
	p.tokens = append(p.tokens, tenantID+"="+token)

	return p.err
}

func TestPersistingTokenManager_PersistsNewTokens(t *testing.T) {
	t.Parallel()

	var calls int32

	issued := signedToken(t, time.Now().Add(time.Hour))
	server := tokenServer(t, issued, &calls)
	persister := &recordingPersister{}

	manager := NewPersistingTokenManager(&OAuth2Config{
		TokenURL: server.URL,
		TenantID: "tenant-1",
	}, persister, "", time.Time{})

	for i := 0; i < 3; i++ {
		token, err := manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, issued, token)
	}

	assert.Equal(t, []string{"tenant-1=" + issued}, persister.tokens)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestPersistingTokenManager_SeededTokenSkipsExchange(t *testing.T) {
	t.Parallel()

	var calls int32

	server := tokenServer(t, "unused", &calls)
	persister := &recordingPersister{}

	manager := NewPersistingTokenManager(&OAuth2Config{TokenURL: server.URL, TenantID: "tenant-1"},
		persister, "seeded", time.Now().Add(time.Hour))

	token, err := manager.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "seeded", token)
	assert.Empty(t, persister.tokens)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestPersistingTokenManager_PersistFailureIsNotReturned(t *testing.T) {
	t.Parallel()

	var calls int32

	server := tokenServer(t, signedToken(t, time.Now().Add(time.Hour)), &calls)
	persister := &recordingPersister{err: errPersistFailed}

	manager := NewPersistingTokenManager(&OAuth2Config{TokenURL: server.URL, TenantID: "tenant-1"},
		persister, "", time.Time{})

	require.NoError(t, manager.RefreshToken(context.Background()))
	assert.Len(t, persister.tokens, 1)
}

func TestCacheTokenPersister(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cache := bc.NewMemoryCache(10)
	persister := NewCacheTokenPersister(cache, "client-id")

	expiresAt := time.Now().Add(time.Hour)
	require.NoError(t, persister.PersistToken("tenant-1", "shared-token", expiresAt))

	token, loadedExpiry := persister.Load(ctx, "tenant-1")
	assert.Equal(t, "shared-token", token)
	assert.Equal(t, expiresAt.Unix(), loadedExpiry.Unix())

	token, _ = persister.Load(ctx, "tenant-2")
	assert.Empty(t, token)

	require.NoError(t, persister.PersistToken("tenant-3", "almost-gone", time.Now().Add(30*time.Second)))
	token, _ = persister.Load(ctx, "tenant-3")
	assert.Empty(t, token)
}
