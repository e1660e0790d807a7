package middleware_test

import (
	"context"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndrukelly2/state-machine/pkg/adapters/memory"
	"github.com/ndrukelly2/state-machine/pkg/domain"
	"github.com/ndrukelly2/state-machine/pkg/persistence/middleware"
	"github.com/ndrukelly2/state-machine/pkg/ports"
)

func testKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func TestEncryptionRoundTrip(t *testing.T) {
	ctx := context.Background()
	inner := memory.NewStore()
	store := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey: testKey(t),
	})(inner)

	sess := domain.NewSession("PasswordEntryView", map[string]string{"username": "casey@example.com"})
	sess.Stack = []domain.Frame{{Subflow: "accountSetupFlow", Remaining: []string{"AccountCreatedConfirmationView"}}}
	sess.PendingError = "invalid_password"

	require.NoError(t, store.Save(ctx, "s1", sess))

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, sess, loaded)
}

func TestEncryptionHidesPlaintextFromBackingStore(t *testing.T) {
	ctx := context.Background()
	inner := memory.NewStore()
	store := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey: testKey(t),
	})(inner)

	sess := domain.NewSession("PasswordEntryView", map[string]string{"username": "casey@example.com"})
	require.NoError(t, store.Save(ctx, "s1", sess))

	raw, err := inner.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "encrypted", raw.Current)
	assert.Empty(t, raw.Context.Get("username"))
	assert.NotEmpty(t, raw.Context["__encrypted__"])
}

func TestEncryptionKeyRotation(t *testing.T) {
	ctx := context.Background()
	inner := memory.NewStore()
	oldKey := testKey(t)
	newKey := testKey(t)

	oldStore := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: oldKey})(inner)
	sess := domain.NewSession("PasswordEntryView", nil)
	require.NoError(t, oldStore.Save(ctx, "s1", sess))

	// After rotation the old snapshot still decrypts via the fallback key.
	rotated := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})(inner)

	loaded, err := rotated.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "PasswordEntryView", loaded.Current)

	// Without the fallback, decryption fails.
	wrongOnly := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: newKey})(inner)
	_, err = wrongOnly.Load(ctx, "s1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decrypt")
}

func TestEncryptionRejectsPlaintextSnapshots(t *testing.T) {
	ctx := context.Background()
	inner := memory.NewStore()
	require.NoError(t, inner.Save(ctx, "legacy", domain.NewSession("PasswordEntryView", nil)))

	store := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: testKey(t)})(inner)
	_, err := store.Load(ctx, "legacy")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing the encrypted envelope")
}

func TestEncryptionContractThroughMiddleware(t *testing.T) {
	store := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey: testKey(t),
	})(memory.NewStore())
	ports.RunSessionStoreContract(t, store)
}

func TestChainOrder(t *testing.T) {
	ctx := context.Background()
	inner := memory.NewStore()
	key := testKey(t)

	chained := middleware.Chain(
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key}),
	)(inner)

	sess := domain.NewSession("PasswordEntryView", nil)
	require.NoError(t, chained.Save(ctx, "s1", sess))

	loaded, err := chained.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, sess, loaded)
}
