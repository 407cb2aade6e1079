package history

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rhyshawkins/wavetree/oset"
	"github.com/rhyshawkins/wavetree/wavetree"
)

func seedMultiset() *oset.MultisetIntDouble {
	s := oset.NewMultisetIntDouble()
	_, _ = s.Insert(0, 0, 1.0)
	return s
}

func TestAddStepAndReplay(t *testing.T) {
	ch := New(16)
	seed := seedMultiset()
	ch.Initialise(seed, -100.0, 1.0, 0.0)

	require.NoError(t, ch.AddStep(wavetree.Step{Kind: wavetree.KindBirth, Depth: 1, Index: 1, NewValue: 2.5, Accepted: true}))
	require.NoError(t, ch.AddStep(wavetree.Step{Kind: wavetree.KindValue, Depth: 0, Index: 0, OldValue: 1.0, NewValue: 3.0, Accepted: true}))

	target := oset.NewMultisetIntDouble()
	var seenKinds []wavetree.Kind
	require.NoError(t, ch.Replay(target, func(i int, step wavetree.Step, sv *oset.MultisetIntDouble) error {
		seenKinds = append(seenKinds, step.Kind)
		return nil
	}))

	assert.Equal(t, []wavetree.Kind{wavetree.KindBirth, wavetree.KindValue}, seenKinds)
	v0, err := target.Get(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 3.0, v0)
	v1, err := target.Get(1, 1)
	require.NoError(t, err)
	assert.Equal(t, 2.5, v1)
}

func TestFullReturnsErrorPastCapacity(t *testing.T) {
	ch := New(1)
	ch.Initialise(seedMultiset(), 0, 1, 0)
	require.NoError(t, ch.AddStep(wavetree.Step{Kind: wavetree.KindValue}))
	err := ch.AddStep(wavetree.Step{Kind: wavetree.KindValue})
	require.Error(t, err)
}

func TestWriteReadRoundTrip(t *testing.T) {
	ch := New(16)
	ch.Initialise(seedMultiset(), -42.0, 2.0, 0.1)
	require.NoError(t, ch.AddStep(wavetree.Step{Kind: wavetree.KindBirth, Depth: 1, Index: 1, NewValue: 7.0, Accepted: true}))

	var buf bytes.Buffer
	require.NoError(t, ch.Write(&buf))

	ch2 := New(16)
	require.NoError(t, ch2.Read(&buf))

	assert.Equal(t, ch.NSteps(), ch2.NSteps())
	assert.Equal(t, ch.seedLikelihood, ch2.seedLikelihood)

	target := oset.NewMultisetIntDouble()
	require.NoError(t, ch2.Replay(target, nil))
	v, err := target.Get(1, 1)
	require.NoError(t, err)
	assert.Equal(t, 7.0, v)
}

func TestResetReseedsFromRunning(t *testing.T) {
	ch := New(4)
	ch.Initialise(seedMultiset(), 0, 1, 0)
	require.NoError(t, ch.AddStep(wavetree.Step{Kind: wavetree.KindBirth, Depth: 1, Index: 1, NewValue: 9.0, Likelihood: -5, Temperature: 1, Accepted: true}))

	running := oset.NewMultisetIntDouble()
	require.NoError(t, ch.Replay(running, nil))

	ch.Reset(running)
	assert.Equal(t, 0, ch.NSteps())
	assert.Equal(t, -5.0, ch.seedLikelihood)

	replayed := oset.NewMultisetIntDouble()
	require.NoError(t, ch.Replay(replayed, nil))
	v, err := replayed.Get(1, 1)
	require.NoError(t, err)
	assert.Equal(t, 9.0, v)
}
