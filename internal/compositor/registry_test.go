package compositor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRegistrySeedsFixedGlobalsWithoutOutputs(t *testing.T) {
	r := NewRegistry()
	for _, g := range r.Globals() {
		require.NotEqual(t, "wl_output", g.Interface)
		require.Equal(t, -1, g.OutputIndex)
	}
	require.NotEmpty(t, r.Globals())
}

func TestRegistryAddOutputAssignsMonotonicName(t *testing.T) {
	r := NewRegistry()
	before := len(r.Globals())

	g1 := r.AddOutput(0)
	g2 := r.AddOutput(1)

	require.Len(t, r.Globals(), before+2)
	require.Greater(t, g2.Name, g1.Name)
	require.Equal(t, 0, g1.OutputIndex)
	require.Equal(t, 1, g2.OutputIndex)
}

func TestRegistryRemoveOutputDropsOnlyMatchingGlobal(t *testing.T) {
	r := NewRegistry()
	g0 := r.AddOutput(0)
	r.AddOutput(1)

	name, ok := r.RemoveOutput(0)
	require.True(t, ok)
	require.Equal(t, g0.Name, name)

	_, found := r.Find(g0.Name)
	require.False(t, found)

	_, ok = r.RemoveOutput(0)
	require.False(t, ok)
}

func TestResolveVersionReturnsLowerOfRequestedAndServerMax(t *testing.T) {
	require.EqualValues(t, 3, ResolveVersion(5, 3))
	require.EqualValues(t, 5, ResolveVersion(5, 9))
	require.EqualValues(t, 5, ResolveVersion(5, 5))
}

func TestRegistryFindReturnsFalseForUnknownName(t *testing.T) {
	r := NewRegistry()
	_, ok := r.Find(99999)
	require.False(t, ok)
}
