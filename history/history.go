// Package history implements ChainHistory, the append-only edit log
// spec §4.5 describes: a fixed-capacity buffer of perturbation
// records, preceded by a separately held seed (a clone of the starting
// active-coefficient set plus its scalars). A ChainHistory can replay a run
// end-to-end against a fresh multiset without needing the original
// wavetree.Tree that produced it.
//
// Grounded on original_source/wavetree/chain_history.c/.h: Go's
// reader/writer interfaces stand in for the C library's
// ch_read_t/ch_write_t callback pointers, and wavetree.Step (tagged by
// its Kind) stands in for the C union of per-kind payload structs.
package history

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/rhyshawkins/wavetree/internal/werr"
	"github.com/rhyshawkins/wavetree/oset"
	"github.com/rhyshawkins/wavetree/wavetree"
)

// ChainHistory is a fixed-capacity append-only log of wavetree.Step
// records, seeded by an Initialise record holding a clone of the
// starting active-coefficient multiset.
type ChainHistory struct {
	capacity int
	seed     *oset.MultisetIntDouble
	seedLikelihood, seedTemperature, seedHierarchical float64
	steps    []wavetree.Step
}

// New creates a ChainHistory with room for capacity steps (not
// counting the seed record).
func New(capacity int) *ChainHistory {
	return &ChainHistory{capacity: capacity, seed: oset.NewMultisetIntDouble()}
}

// Initialise seeds the history from sv, cloning it so later mutation
// of the caller's multiset does not alter the recorded seed.
func (ch *ChainHistory) Initialise(sv *oset.MultisetIntDouble, likelihood, temperature, hierarchical float64) {
	ch.seed = sv.Clone()
	ch.seedLikelihood = likelihood
	ch.seedTemperature = temperature
	ch.seedHierarchical = hierarchical
	ch.steps = ch.steps[:0]
}

// Reset reseeds the history from running, the caller's current live
// S_v, keeping the last known likelihood/temperature/hierarchical
// scalars as the new initialisation and clearing every recorded step.
func (ch *ChainHistory) Reset(running *oset.MultisetIntDouble) {
	likelihood, temperature, hierarchical := ch.seedLikelihood, ch.seedTemperature, ch.seedHierarchical
	if n := len(ch.steps); n > 0 {
		last := ch.steps[n-1]
		likelihood, temperature, hierarchical = last.Likelihood, last.Temperature, last.Hierarchical
	}
	ch.Initialise(running, likelihood, temperature, hierarchical)
}

// NSteps returns the number of recorded (non-seed) steps.
func (ch *ChainHistory) NSteps() int { return len(ch.steps) }

// Full reports whether the history has reached its capacity.
func (ch *ChainHistory) Full() bool { return len(ch.steps) >= ch.capacity }

// AddStep appends step to the log. It does not apply the step to any
// multiset or check it against the seed; steps are only applied by
// Replay. Fails with Full if the history is at capacity.
func (ch *ChainHistory) AddStep(step wavetree.Step) error {
	const op = "history.AddStep"
	if ch.Full() {
		return werr.New(werr.Full, op, nil)
	}
	ch.steps = append(ch.steps, step)
	return nil
}

// ReplayFunc is called once per recorded step during Replay.
// Returning a non-nil error aborts the replay.
type ReplayFunc func(index int, step wavetree.Step, svAfter *oset.MultisetIntDouble) error

// Replay copies the seed multiset into target, then applies every
// recorded step to it in order, invoking cb after each application.
func (ch *ChainHistory) Replay(target *oset.MultisetIntDouble, cb ReplayFunc) error {
	*target = *ch.seed.Clone()
	for i, step := range ch.steps {
		if err := applyStep(target, step); err != nil {
			return err
		}
		if cb != nil {
			if err := cb(i, step, target); err != nil {
				return err
			}
		}
	}
	return nil
}

func applyStep(sv *oset.MultisetIntDouble, step wavetree.Step) error {
	switch step.Kind {
	case wavetree.KindValue:
		return sv.Set(step.Depth, step.Index, step.NewValue)
	case wavetree.KindBirth:
		_, err := sv.Insert(step.Depth, step.Index, step.NewValue)
		return err
	case wavetree.KindDeath:
		_, err := sv.Remove(step.Depth, step.Index)
		return err
	case wavetree.KindMove:
		if _, err := sv.Remove(step.Depth, step.Index); err != nil {
			return err
		}
		_, err := sv.Insert(step.Depth, step.NewIndex, step.NewValue)
		return err
	default:
		return werr.New(werr.BadArg, "history.applyStep", nil)
	}
}

// Write serialises the history in the little-endian binary format of
// spec §6.3: the seed multiset, the seed likelihood/temperature/
// hierarchical scalars, a step count, then one fixed-width record per
// step.
func (ch *ChainHistory) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if err := ch.seed.WriteBinary(bw); err != nil {
		return err
	}
	if err := writeFloats(bw, ch.seedLikelihood, ch.seedTemperature, ch.seedHierarchical); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, int32(len(ch.steps))); err != nil {
		return err
	}
	for _, s := range ch.steps {
		if err := writeStep(bw, s); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Read replaces the history's contents by decoding the format written
// by Write.
func (ch *ChainHistory) Read(r io.Reader) error {
	const op = "history.Read"
	br := bufio.NewReader(r)
	ch.seed = oset.NewMultisetIntDouble()
	if err := ch.seed.ReadBinary(br); err != nil {
		return werr.New(werr.FormatError, op, err)
	}
	var err error
	ch.seedLikelihood, ch.seedTemperature, ch.seedHierarchical, err = readFloats3(br)
	if err != nil {
		return werr.New(werr.FormatError, op, err)
	}
	var n int32
	if err := binary.Read(br, binary.LittleEndian, &n); err != nil {
		return werr.New(werr.FormatError, op, err)
	}
	ch.steps = make([]wavetree.Step, n)
	for i := int32(0); i < n; i++ {
		s, err := readStep(br)
		if err != nil {
			return werr.New(werr.FormatError, op, err)
		}
		ch.steps[i] = s
	}
	return nil
}

func writeFloats(w io.Writer, vs ...float64) error {
	for _, v := range vs {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	return nil
}

func readFloats3(r io.Reader) (a, b, c float64, err error) {
	for _, p := range []*float64{&a, &b, &c} {
		if err = binary.Read(r, binary.LittleEndian, p); err != nil {
			return 0, 0, 0, err
		}
	}
	return a, b, c, nil
}

func writeStep(w io.Writer, s wavetree.Step) error {
	if err := binary.Write(w, binary.LittleEndian, int32(s.Kind)); err != nil {
		return err
	}
	accepted := int32(0)
	if s.Accepted {
		accepted = 1
	}
	if err := binary.Write(w, binary.LittleEndian, accepted); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, int32(s.Depth)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, int32(s.Index)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, int32(s.NewIndex)); err != nil {
		return err
	}
	return writeFloats(w, s.OldValue, s.NewValue, s.Likelihood, s.Temperature, s.Hierarchical)
}

func readStep(r io.Reader) (wavetree.Step, error) {
	var kind, accepted, depth, index, newIndex int32
	for _, p := range []*int32{&kind, &accepted, &depth, &index, &newIndex} {
		if err := binary.Read(r, binary.LittleEndian, p); err != nil {
			return wavetree.Step{}, err
		}
	}
	var oldValue, newValue, likelihood, temperature, hierarchical float64
	for _, p := range []*float64{&oldValue, &newValue, &likelihood, &temperature, &hierarchical} {
		if err := binary.Read(r, binary.LittleEndian, p); err != nil {
			return wavetree.Step{}, err
		}
	}
	return wavetree.Step{
		Kind:         wavetree.Kind(kind),
		Accepted:     accepted != 0,
		Depth:        int(depth),
		Index:        int(index),
		NewIndex:     int(newIndex),
		OldValue:     oldValue,
		NewValue:     newValue,
		Likelihood:   likelihood,
		Temperature:  temperature,
		Hierarchical: hierarchical,
	}, nil
}
