package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndrukelly2/state-machine/pkg/domain"
)

// RunSessionStoreContract runs a suite of tests verifying that a
// SessionStore implementation adheres to the interface contract.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		sess := domain.NewSession("resolver_branch", map[string]string{"Login_Method": "SSO"})
		sess.Stack = []domain.Frame{{Subflow: "accountSetupFlow", Remaining: []string{"AccountCreatedConfirmationView"}}}
		sess.PendingError = "invalid_password"

		err := store.Save(ctx, sessionID, sess)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, sess.Current, loaded.Current)
		assert.Equal(t, "sso", loaded.Context.Get("login_method"))
		assert.Equal(t, sess.Stack, loaded.Stack)
		assert.Equal(t, sess.PendingError, loaded.PendingError)
	})

	t.Run("Snapshot isolation", func(t *testing.T) {
		sess := domain.NewSession("resolver_branch", nil)
		require.NoError(t, store.Save(ctx, sessionID, sess))

		// Mutating the original after Save must not leak into the store.
		sess.Context.Set("resolver_match", "exact")
		sess.Current = "PasswordEntryView"

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "resolver_branch", loaded.Current)
		assert.Empty(t, loaded.Context.Get("resolver_match"))
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sessionID, domain.NewSession("resolver_branch", nil)))

		require.NoError(t, store.Delete(ctx, sessionID))

		_, err := store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, domain.NewSession("resolver_branch", nil))
		_ = store.Save(ctx, id2, domain.NewSession("resolver_branch", nil))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
