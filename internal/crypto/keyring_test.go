package crypto

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func env(vals map[string]string) func(string) string {
	return func(k string) string { return vals[k] }
}

func TestSystemKeyring_StoreAndDelete(t *testing.T) {
	keyring.MockInit()
	k := &systemKeyring{getenv: env(nil)}

	_, err := k.GetKey()
	require.ErrorIs(t, err, ErrKeyNotFound)

	assert.Error(t, k.SetKey(""))
	require.NoError(t, k.SetKey("hunter2"))

	key, err := k.GetKey()
	require.NoError(t, err)
	assert.Equal(t, "hunter2", key)
	assert.True(t, k.IsAvailable())

	require.NoError(t, k.DeleteKey())
	assert.ErrorIs(t, k.DeleteKey(), ErrKeyNotFound)
}

func TestSystemKeyring_EnvironmentOverrides(t *testing.T) {
	keyring.MockInit()
	k := &systemKeyring{getenv: env(map[string]string{EnvKey: "from-env"})}
	require.NoError(t, keyring.Set(ServiceName, KeyName, "from-keyring"))

	key, err := k.GetKey()
	require.NoError(t, err)
	assert.Equal(t, "from-env", key)

	err = k.DeleteKey()
	assert.ErrorContains(t, err, EnvKey)

	_, err = keyring.Get(ServiceName, KeyName)
	assert.ErrorIs(t, err, keyring.ErrNotFound)
}

func TestSystemKeyring_Unavailable(t *testing.T) {
	keyring.MockInitWithError(errors.New("no secret service"))
	k := &systemKeyring{getenv: env(nil)}

	assert.False(t, k.IsAvailable())
	assert.ErrorContains(t, k.SetKey("pw"), EnvKey)
	_, err := k.GetKey()
	assert.NotErrorIs(t, err, ErrKeyNotFound)
}
