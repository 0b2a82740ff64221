package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"panelcli/pkg/contracts/domain"
)

func obs(rawID string, wave int) domain.Observation {
	return domain.Observation{
		RawID:  rawID,
		Wave:   wave,
		Values: map[string]domain.Value{"anger": domain.Some(3)},
	}
}

func TestResolveAssignsDenseKeys(t *testing.T) {
	rows := []domain.Observation{
		obs("p7", 1),
		obs("p2", 1),
		obs("p7", 2),
	}

	r, err := Resolve(rows, 0)
	require.NoError(t, err)

	// Two distinct identifiers, two keys; the repeat maps to the same key.
	assert.Equal(t, 2, r.Len())

	k7, ok := r.Key("p7")
	require.True(t, ok)
	k2, ok := r.Key("p2")
	require.True(t, ok)
	assert.Equal(t, 1, k7, "first appearance gets key 1")
	assert.Equal(t, 2, k2)
}

func TestResolveBijection(t *testing.T) {
	rows := []domain.Observation{
		obs("a", 1), obs("b", 1), obs("c", 1),
		obs("a", 2), obs("b", 2),
		obs("a", 3),
	}

	r, err := Resolve(rows, 0)
	require.NoError(t, err)
	require.Equal(t, 3, r.Len())

	// Keys are dense in [1..N] and reverse lookup round-trips.
	seen := make(map[int]bool)
	for _, id := range []string{"a", "b", "c"} {
		key, ok := r.Key(id)
		require.True(t, ok)
		assert.GreaterOrEqual(t, key, 1)
		assert.LessOrEqual(t, key, 3)
		assert.False(t, seen[key], "key %d assigned twice", key)
		seen[key] = true

		raw, ok := r.Raw(key)
		require.True(t, ok)
		assert.Equal(t, id, raw)
	}

	_, ok := r.Raw(0)
	assert.False(t, ok)
	_, ok = r.Raw(4)
	assert.False(t, ok)
}

func TestResolveDeterministic(t *testing.T) {
	rows := []domain.Observation{
		obs("x9", 1), obs("m3", 1), obs("x9", 2), obs("q1", 1),
	}

	first, err := Resolve(rows, 0)
	require.NoError(t, err)
	second, err := Resolve(rows, 0)
	require.NoError(t, err)

	for _, id := range []string{"x9", "m3", "q1"} {
		k1, _ := first.Key(id)
		k2, _ := second.Key(id)
		assert.Equal(t, k1, k2, "identifier %q keyed differently across runs", id)
	}
}

func TestResolveExpectedGuard(t *testing.T) {
	rows := []domain.Observation{
		obs("a", 1), obs("b", 1), obs("c", 1),
	}

	t.Run("within bound", func(t *testing.T) {
		r, err := Resolve(rows, 3)
		require.NoError(t, err)
		assert.Equal(t, 3, r.Len())
	})

	t.Run("exceeded", func(t *testing.T) {
		_, err := Resolve(rows, 2)
		require.Error(t, err)

		var identityErr *IdentityResolutionError
		require.ErrorAs(t, err, &identityErr)
		assert.Equal(t, 2, identityErr.Expected)
		assert.Equal(t, 3, identityErr.Found)
	})

	t.Run("zero disables guard", func(t *testing.T) {
		_, err := Resolve(rows, 0)
		assert.NoError(t, err)
	})
}

func TestApply(t *testing.T) {
	rows := []domain.Observation{
		obs("p7", 1),
		obs("p2", 1),
		obs("p7", 2),
	}

	r, err := Resolve(rows, 0)
	require.NoError(t, err)

	panelRows, err := r.Apply(rows)
	require.NoError(t, err)
	require.Len(t, panelRows, 3)

	assert.Equal(t, 1, panelRows[0].ParticipantKey)
	assert.Equal(t, 2, panelRows[1].ParticipantKey)
	assert.Equal(t, 1, panelRows[2].ParticipantKey)
	assert.Equal(t, 2, panelRows[2].Wave)
	assert.Equal(t, domain.Some(3), panelRows[0].Values["anger"])
}

func TestApplyDoesNotShareValueMaps(t *testing.T) {
	rows := []domain.Observation{obs("p1", 1)}

	r, err := Resolve(rows, 0)
	require.NoError(t, err)

	panelRows, err := r.Apply(rows)
	require.NoError(t, err)

	panelRows[0].Values["anger"] = domain.Missing()
	assert.Equal(t, domain.Some(3), rows[0].Values["anger"], "raw table must stay untouched")
}

func TestApplyUnknownIdentifier(t *testing.T) {
	r, err := Resolve([]domain.Observation{obs("p1", 1)}, 0)
	require.NoError(t, err)

	_, err = r.Apply([]domain.Observation{obs("p2", 1)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "p2")
}
