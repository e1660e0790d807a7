package session_test

import (
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	statemachine "github.com/ndrukelly2/state-machine"
	"github.com/ndrukelly2/state-machine/pkg/adapters/memory"
	redisstore "github.com/ndrukelly2/state-machine/pkg/adapters/redis"
	"github.com/ndrukelly2/state-machine/pkg/domain"
	"github.com/ndrukelly2/state-machine/pkg/session"
)

func testFlow() *domain.Flow {
	return &domain.Flow{
		Entry: "method_branch",
		States: map[string]domain.State{
			"method_branch": {ID: "method_branch", Kind: domain.KindSwitch, Expression: "method"},
			"PasswordView":  {ID: "PasswordView", Kind: domain.KindView, Interface: "PasswordEntry"},
			"verifyAction":  {ID: "verifyAction", Kind: domain.KindAction},
			"LoggedView":    {ID: "LoggedView", Kind: domain.KindView, Interface: "LoggedIn"},
		},
		Transitions: map[string]map[string]domain.Edge{
			"method_branch": {"password": {Target: "PasswordView"}},
			"PasswordView":  {"submit": {Target: "verifyAction"}},
			"verifyAction": {
				"success": {Target: "LoggedView"},
				"fail":    {Target: "PasswordView", ErrorTag: "invalid_password"},
			},
		},
	}
}

func newManager(t *testing.T) *session.Manager {
	t.Helper()
	eng, err := statemachine.New("", statemachine.WithFlow(testFlow()))
	require.NoError(t, err)
	return session.NewManager(eng, memory.NewStore())
}

func TestManagerStartAndStep(t *testing.T) {
	ctx := context.Background()
	m := newManager(t)

	res, err := m.Start(ctx, "s1", map[string]string{"method": "password"})
	require.NoError(t, err)
	require.NotNil(t, res.Prompt)
	assert.Equal(t, "PasswordView", res.Prompt.StateID)

	// The suspended session must be persisted, not held in memory.
	sess, err := m.Store().Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "PasswordView", sess.Current)

	res, err = m.Step(ctx, "s1", domain.Key("submit"))
	require.NoError(t, err)
	assert.Equal(t, "verifyAction", res.Prompt.StateID)

	res, err = m.Step(ctx, "s1", domain.Key("success"))
	require.NoError(t, err)
	assert.Equal(t, "LoggedView", res.Prompt.StateID)
}

func TestManagerStartDuplicate(t *testing.T) {
	ctx := context.Background()
	m := newManager(t)

	_, err := m.Start(ctx, "s1", map[string]string{"method": "password"})
	require.NoError(t, err)

	_, err = m.Start(ctx, "s1", map[string]string{"method": "password"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestManagerStepMissingSession(t *testing.T) {
	m := newManager(t)

	_, err := m.Step(context.Background(), "nope", nil)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestManagerFatalErrorAbandonsSession(t *testing.T) {
	ctx := context.Background()
	m := newManager(t)

	_, err := m.Start(ctx, "s1", map[string]string{"method": "password"})
	require.NoError(t, err)

	_, err = m.Step(ctx, "s1", domain.Key("dance"))
	require.Error(t, err)
	assert.True(t, domain.IsFatal(err))

	// The broken session is gone; the client must start over.
	_, err = m.Store().Load(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestManagerDeleteAndList(t *testing.T) {
	ctx := context.Background()
	m := newManager(t)

	_, err := m.Start(ctx, "s1", map[string]string{"method": "password"})
	require.NoError(t, err)

	ids, err := m.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, ids, "s1")

	require.NoError(t, m.Delete(ctx, "s1"))

	_, err = m.Step(ctx, "s1", nil)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestManagerSerializesConcurrentSteps(t *testing.T) {
	ctx := context.Background()
	m := newManager(t)

	_, err := m.Start(ctx, "s1", map[string]string{"method": "password"})
	require.NoError(t, err)

	// Probes are side-effect-free, so any interleaving must succeed and
	// leave the session where it was.
	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := m.Step(ctx, "s1", nil)
			assert.NoError(t, err)
			assert.Equal(t, "PasswordView", res.Prompt.StateID)
		}()
	}
	wg.Wait()

	sess, err := m.Store().Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "PasswordView", sess.Current)
}

func TestManagerWithDistributedLocker(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	eng, err := statemachine.New("", statemachine.WithFlow(testFlow()))
	require.NoError(t, err)

	m := session.NewManager(eng, redisstore.NewFromClient(client),
		session.WithLocker(redisstore.NewLocker(client, "test:")),
	)

	res, err := m.Start(ctx, "s1", map[string]string{"method": "password"})
	require.NoError(t, err)
	assert.Equal(t, "PasswordView", res.Prompt.StateID)

	res, err = m.Step(ctx, "s1", domain.Key("submit"))
	require.NoError(t, err)
	assert.Equal(t, "verifyAction", res.Prompt.StateID)
}
