package bitsorg

import (
	"io"
	"log/slog"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modevo/modevo/internal/diag"
	"github.com/modevo/modevo/internal/world"
)

// readyModule builds a manager with its trait resolved against a locked
// schema, skipping the full world setup ceremony.
func readyModule(t *testing.T, length int, rate float64) (*Module, *world.World) {
	t.Helper()
	sink := diag.NewSink(nil, nil)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	w := world.New(logger, sink, 1)

	m := New(w, "org")
	m.length = length
	m.mutRate = rate

	w.Traits().Unlock()
	m.SetupModule()
	require.NoError(t, w.Traits().InstallSchema())
	w.Schema().Lock()
	w.Traits().ResolveBindings()
	require.False(t, sink.HasErrors(), "errors: %v", sink.Errors())
	return m, w
}

func TestMakeProducesConfiguredLength(t *testing.T) {
	m, w := readyModule(t, 16, 0)

	org, err := m.Make(w.Rand())
	require.NoError(t, err)

	bits := BitsOf(m.bits, org)
	assert.Len(t, bits, 16)
	assert.Len(t, m.OrgString(org), 16)
}

func TestMakeIsSeedDeterministic(t *testing.T) {
	m, _ := readyModule(t, 32, 0)

	a, err := m.Make(rand.New(rand.NewSource(5)))
	require.NoError(t, err)
	b, err := m.Make(rand.New(rand.NewSource(5)))
	require.NoError(t, err)

	assert.Equal(t, m.OrgString(a), m.OrgString(b))
}

func TestMutateRateOneFlipsEveryBit(t *testing.T) {
	m, w := readyModule(t, 24, 1.0)

	org, err := m.Make(w.Rand())
	require.NoError(t, err)
	before := BitsOf(m.bits, org)

	flips := m.Mutate(org, w.Rand())
	assert.Equal(t, 24, flips)

	after := BitsOf(m.bits, org)
	require.Len(t, after, 24)
	for i := range after {
		assert.NotEqual(t, before[i], after[i], "bit %d should have flipped", i)
	}
}

func TestMutateRateZeroChangesNothing(t *testing.T) {
	m, w := readyModule(t, 24, 0)

	org, err := m.Make(w.Rand())
	require.NoError(t, err)
	before := BitsOf(m.bits, org)

	flips := m.Mutate(org, w.Rand())
	assert.Zero(t, flips)
	assert.Equal(t, before, BitsOf(m.bits, org))
}

func TestOrgStringRendersBits(t *testing.T) {
	m, w := readyModule(t, 4, 0)
	org, err := m.Make(w.Rand())
	require.NoError(t, err)

	s := m.OrgString(org)
	require.Len(t, s, 4)
	for _, c := range s {
		assert.Contains(t, []rune{'0', '1'}, c)
	}
}

func TestSetupRejectsBadConfig(t *testing.T) {
	cases := []struct {
		name   string
		length int
		rate   float64
		want   string
	}{
		{"negative length", -5, 0.01, "length must not be negative"},
		{"negative rate", 16, -0.1, "mutation_rate must be in [0,1]"},
		{"rate above one", 16, 1.5, "mutation_rate must be in [0,1]"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sink := diag.NewSink(nil, nil)
			logger := slog.New(slog.NewTextHandler(io.Discard, nil))
			w := world.New(logger, sink, 1)

			m := New(w, "org")
			m.length = tc.length
			m.mutRate = tc.rate

			w.Traits().Unlock()
			m.SetupModule()

			require.True(t, sink.HasErrors())
			assert.Contains(t, sink.Errors()[0], tc.want)
		})
	}
}

func TestZeroLengthOrganism(t *testing.T) {
	m, w := readyModule(t, 0, 1.0)
	org, err := m.Make(w.Rand())
	require.NoError(t, err)

	assert.Empty(t, BitsOf(m.bits, org))
	assert.Zero(t, m.Mutate(org, w.Rand()))
	assert.Equal(t, "", m.OrgString(org))
}
