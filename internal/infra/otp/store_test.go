package otp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_IssueAndVerify(t *testing.T) {
	store := NewStore(time.Minute, time.Minute)
	defer store.Stop()

	token, err := store.Issue("RR2608280001:pickup")
	require.NoError(t, err)
	assert.Len(t, token, 6)

	require.NoError(t, store.Verify("RR2608280001:pickup", token))

	// Код одноразовый
	assert.ErrorIs(t, store.Verify("RR2608280001:pickup", token), ErrTokenMismatch)
}

func TestStore_WrongToken(t *testing.T) {
	store := NewStore(time.Minute, time.Minute)
	defer store.Stop()

	_, err := store.Issue("key")
	require.NoError(t, err)

	assert.ErrorIs(t, store.Verify("key", "000000x"), ErrTokenMismatch)
	assert.ErrorIs(t, store.Verify("unknown", "123456"), ErrTokenMismatch)
}

func TestStore_Expiry(t *testing.T) {
	store := NewStore(10*time.Millisecond, time.Minute)
	defer store.Stop()

	token, err := store.Issue("key")
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)
	assert.ErrorIs(t, store.Verify("key", token), ErrTokenMismatch)
}

func TestStore_ReissueOverwrites(t *testing.T) {
	store := NewStore(time.Minute, time.Minute)
	defer store.Stop()

	first, err := store.Issue("key")
	require.NoError(t, err)
	second, err := store.Issue("key")
	require.NoError(t, err)

	if first != second {
		assert.ErrorIs(t, store.Verify("key", first), ErrTokenMismatch)
	}
	require.NoError(t, store.Verify("key", second))
}
