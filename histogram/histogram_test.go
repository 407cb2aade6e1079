package histogram

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleUpdatesWelfordStats(t *testing.T) {
	h := New(2, 10, -1, 1)
	require.NoError(t, h.Sample(0, 0.1))
	require.NoError(t, h.Sample(0, 0.3))
	require.NoError(t, h.Sample(0, -0.2))
	h.Finalise()

	stats, err := h.GetCoefficientMeanStd(0)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.N)
	assert.InDelta(t, (0.1+0.3-0.2)/3, stats.Mean, 1e-12)
	assert.Greater(t, stats.Std, 0.0)
}

func TestSampleOutOfRangeIncrementsOverflow(t *testing.T) {
	h := New(1, 4, 0, 1)
	require.NoError(t, h.Sample(0, 5.0))
	require.NoError(t, h.Sample(0, -5.0))
	assert.Equal(t, 1, h.coeffs[0].over)
	assert.Equal(t, 1, h.coeffs[0].under)
}

func TestAcceptRejectCounters(t *testing.T) {
	h := New(1, 4, 0, 1)
	require.NoError(t, h.ProposeBirth(0))
	require.NoError(t, h.AcceptBirth(0, 0.5))
	require.NoError(t, h.ProposeValue(0))
	require.NoError(t, h.RejectValue(0))

	propose, accept, err := h.AcceptReject(0)
	require.NoError(t, err)
	assert.Equal(t, 2, propose)
	assert.Equal(t, 1, accept)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	h := New(2, 4, 0, 1)
	require.NoError(t, h.Sample(0, 0.25))
	require.NoError(t, h.Sample(1, 0.75))
	h.Finalise()

	var buf bytes.Buffer
	require.NoError(t, h.Save(&buf))

	h2 := New(2, 4, 0, 1)
	require.NoError(t, h2.Load(&buf))

	s0, err := h2.GetCoefficientMeanStd(0)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, s0.Mean, 1e-12)
}
