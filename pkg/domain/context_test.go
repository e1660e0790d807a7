package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextNormalizesKeysAndValues(t *testing.T) {
	c := NewContext(map[string]string{"Login_Method": "SSO", "RESOLVER_MATCH": "Exact"})

	assert.Equal(t, "sso", c["login_method"])
	assert.Equal(t, "exact", c["resolver_match"])
}

func TestContextGetNormalizesKey(t *testing.T) {
	c := NewContext(map[string]string{"first_login": "YES"})

	assert.Equal(t, "yes", c.Get("First_Login"))
	assert.Equal(t, "yes", c.Get("first_login"))
	assert.Empty(t, c.Get("unknown"))
}

func TestContextApplyIsIdempotent(t *testing.T) {
	c := NewContext(nil)
	patch := map[string]string{"Tier": "Gold", "first_login": "no"}

	c.Apply(patch)
	first := c.Clone()
	c.Apply(patch)

	assert.Equal(t, first, c)
}

func TestContextApplyOverwrites(t *testing.T) {
	c := NewContext(map[string]string{"first_login": "yes"})
	c.Apply(map[string]string{"First_Login": "NO"})

	assert.Equal(t, "no", c.Get("first_login"))
	assert.Len(t, c, 1)
}

func TestContextCloneIsIndependent(t *testing.T) {
	c := NewContext(map[string]string{"a": "1"})
	clone := c.Clone()
	clone.Set("a", "2")
	clone.Set("b", "3")

	assert.Equal(t, "1", c.Get("a"))
	assert.Empty(t, c.Get("b"))
}
