// Package histogram implements CoefficientHistogram, the per-coefficient
// diagnostic accumulator spec §4.6 describes: a binned value
// histogram, Welford running statistics, and birth/death/value
// proposal/acceptance counters, one instance per tree coefficient
// slot. It never sits on the MCMC critical path (a sampler calls it
// purely for post-hoc diagnostics), but it is still part of the core
// library surface.
//
// Grounded on original_source/wavetree/coefficient_histogram.c/.h:
// the C struct-of-arrays indexed by coefficient becomes a slice of
// per-coefficient structs, and the save/load file API becomes
// io.Writer/io.Reader.
package histogram

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/rhyshawkins/wavetree/internal/werr"
)

type coefficient struct {
	vmin, vmax float64
	counts     []int
	under, over int

	rmin, rmax, rmean, m2 float64
	rstd                   float64
	n                      int

	valphaSum  float64
	valphaN    int

	proposeBirth, acceptBirth int
	proposeDeath, acceptDeath int
	proposeValue, acceptValue int
}

// Histogram is a per-coefficient diagnostic accumulator over ncoeff
// coefficient slots, each with its own nbins-wide value histogram.
type Histogram struct {
	nbins int
	gvmin, gvmax float64
	coeffs []coefficient
}

// New creates a Histogram with ncoeff coefficient slots, each
// initialised to the global range [vmin, vmax] with nbins bins.
func New(ncoeff, nbins int, vmin, vmax float64) *Histogram {
	h := &Histogram{nbins: nbins, gvmin: vmin, gvmax: vmax, coeffs: make([]coefficient, ncoeff)}
	for i := range h.coeffs {
		h.resetCoeff(i)
	}
	return h
}

func (h *Histogram) resetCoeff(i int) {
	h.coeffs[i] = coefficient{
		vmin:   h.gvmin,
		vmax:   h.gvmax,
		counts: make([]int, h.nbins),
	}
}

// Reset clears every coefficient's accumulated statistics back to the
// global range.
func (h *Histogram) Reset() {
	for i := range h.coeffs {
		h.resetCoeff(i)
	}
}

// SetRange overrides the histogram bounds for a single coefficient,
// e.g. when a caller knows a tighter prior range than the global
// default.
func (h *Histogram) SetRange(index int, vmin, vmax float64) error {
	c, err := h.at(index)
	if err != nil {
		return err
	}
	c.vmin, c.vmax = vmin, vmax
	return nil
}

func (h *Histogram) at(index int) (*coefficient, error) {
	if index < 0 || index >= len(h.coeffs) {
		return nil, werr.New(werr.BadArg, "histogram.at", nil)
	}
	return &h.coeffs[index], nil
}

// Sample records one observed value for coefficient index: it updates
// the running min/max/mean/M2 (Welford), increments the bin value
// falls into or one of the two overflow counters, and initialises
// [rmin, rmax] from the first observation.
func (h *Histogram) Sample(index int, value float64) error {
	c, err := h.at(index)
	if err != nil {
		return err
	}

	if c.n == 0 {
		c.rmin, c.rmax = value, value
	} else {
		if value < c.rmin {
			c.rmin = value
		}
		if value > c.rmax {
			c.rmax = value
		}
	}
	c.n++
	delta := value - c.rmean
	c.rmean += delta / float64(c.n)
	delta2 := value - c.rmean
	c.m2 += delta * delta2

	if value < c.vmin {
		c.under++
	} else if value >= c.vmax {
		c.over++
	} else {
		width := (c.vmax - c.vmin) / float64(len(c.counts))
		bin := int((value - c.vmin) / width)
		if bin >= len(c.counts) {
			bin = len(c.counts) - 1
		}
		c.counts[bin]++
	}
	return nil
}

// SampleValueAlpha folds a Metropolis-Hastings acceptance ratio alpha
// into the running log(min(1, alpha)) exponent tracked for coefficient
// index (spec's "running log(min(1, alpha)) acceptance exponent").
func (h *Histogram) SampleValueAlpha(index int, alpha float64) error {
	c, err := h.at(index)
	if err != nil {
		return err
	}
	c.valphaSum += math.Log(math.Min(1, alpha))
	c.valphaN++
	return nil
}

// ProposeBirth/AcceptBirth/RejectBirth, ProposeDeath/AcceptDeath, and
// ProposeValue/AcceptValue/RejectValue record per-coefficient proposal
// bookkeeping; AcceptBirth and AcceptValue also sample the accepted
// value (AcceptDeath only counts).

func (h *Histogram) ProposeBirth(index int) error {
	c, err := h.at(index)
	if err != nil {
		return err
	}
	c.proposeBirth++
	return nil
}

func (h *Histogram) AcceptBirth(index int, value float64) error {
	c, err := h.at(index)
	if err != nil {
		return err
	}
	c.acceptBirth++
	return h.Sample(index, value)
}

func (h *Histogram) RejectBirth(index int) error {
	_, err := h.at(index)
	return err
}

func (h *Histogram) ProposeDeath(index int) error {
	c, err := h.at(index)
	if err != nil {
		return err
	}
	c.proposeDeath++
	return nil
}

func (h *Histogram) AcceptDeath(index int) error {
	c, err := h.at(index)
	if err != nil {
		return err
	}
	c.acceptDeath++
	return nil
}

func (h *Histogram) ProposeValue(index int) error {
	c, err := h.at(index)
	if err != nil {
		return err
	}
	c.proposeValue++
	return nil
}

func (h *Histogram) AcceptValue(index int, value float64) error {
	c, err := h.at(index)
	if err != nil {
		return err
	}
	c.acceptValue++
	return h.Sample(index, value)
}

func (h *Histogram) RejectValue(index int) error {
	_, err := h.at(index)
	return err
}

// Finalise converts the accumulated M2 of every coefficient into a
// standard deviation. It must be called before reading Stats.
func (h *Histogram) Finalise() {
	for i := range h.coeffs {
		c := &h.coeffs[i]
		if c.n > 1 {
			c.rstd = math.Sqrt(c.m2 / float64(c.n-1))
		}
	}
}

// Stats is the read-only summary Finalise prepares for one coefficient.
type Stats struct {
	Min, Max, Mean, Std float64
	N                   int
}

// GetCoefficientMeanStd returns the running mean/std for coefficient
// index. Call Finalise first for Std to be populated.
func (h *Histogram) GetCoefficientMeanStd(index int) (Stats, error) {
	c, err := h.at(index)
	if err != nil {
		return Stats{}, err
	}
	return Stats{Min: c.rmin, Max: c.rmax, Mean: c.rmean, Std: c.rstd, N: c.n}, nil
}

// AcceptReject returns the accept/propose counts across birth, death,
// and value moves combined for coefficient index.
func (h *Histogram) AcceptReject(index int) (propose, accept int, err error) {
	c, e := h.at(index)
	if e != nil {
		return 0, 0, e
	}
	propose = c.proposeBirth + c.proposeDeath + c.proposeValue
	accept = c.acceptBirth + c.acceptDeath + c.acceptValue
	return propose, accept, nil
}

// Save writes the full histogram state in little-endian binary form.
func (h *Histogram) Save(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, int32(len(h.coeffs))); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, int32(h.nbins)); err != nil {
		return err
	}
	for i := range h.coeffs {
		c := &h.coeffs[i]
		vals := []float64{c.vmin, c.vmax, c.rmin, c.rmax, c.rmean, c.m2, c.rstd, c.valphaSum}
		for _, v := range vals {
			if err := binary.Write(w, binary.LittleEndian, v); err != nil {
				return err
			}
		}
		ints := []int32{int32(c.under), int32(c.over), int32(c.n), int32(c.valphaN),
			int32(c.proposeBirth), int32(c.acceptBirth),
			int32(c.proposeDeath), int32(c.acceptDeath),
			int32(c.proposeValue), int32(c.acceptValue)}
		for _, v := range ints {
			if err := binary.Write(w, binary.LittleEndian, v); err != nil {
				return err
			}
		}
		for _, cnt := range c.counts {
			if err := binary.Write(w, binary.LittleEndian, int32(cnt)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Load replaces the histogram's contents by decoding the format
// written by Save.
func (h *Histogram) Load(r io.Reader) error {
	const op = "histogram.Load"
	var ncoeff, nbins int32
	if err := binary.Read(r, binary.LittleEndian, &ncoeff); err != nil {
		return werr.New(werr.FormatError, op, err)
	}
	if err := binary.Read(r, binary.LittleEndian, &nbins); err != nil {
		return werr.New(werr.FormatError, op, err)
	}
	h.nbins = int(nbins)
	h.coeffs = make([]coefficient, ncoeff)
	for i := range h.coeffs {
		c := &h.coeffs[i]
		c.counts = make([]int, h.nbins)
		vals := make([]*float64, 8)
		vals[0], vals[1], vals[2], vals[3] = &c.vmin, &c.vmax, &c.rmin, &c.rmax
		vals[4], vals[5], vals[6], vals[7] = &c.rmean, &c.m2, &c.rstd, &c.valphaSum
		for _, p := range vals {
			if err := binary.Read(r, binary.LittleEndian, p); err != nil {
				return werr.New(werr.FormatError, op, err)
			}
		}
		var under, over, n, valphaN, pb, ab, pd, ad, pv, av int32
		ints := []*int32{&under, &over, &n, &valphaN, &pb, &ab, &pd, &ad, &pv, &av}
		for _, p := range ints {
			if err := binary.Read(r, binary.LittleEndian, p); err != nil {
				return werr.New(werr.FormatError, op, err)
			}
		}
		c.under, c.over, c.n, c.valphaN = int(under), int(over), int(n), int(valphaN)
		c.proposeBirth, c.acceptBirth = int(pb), int(ab)
		c.proposeDeath, c.acceptDeath = int(pd), int(ad)
		c.proposeValue, c.acceptValue = int(pv), int(av)
		for b := range c.counts {
			var cnt int32
			if err := binary.Read(r, binary.LittleEndian, &cnt); err != nil {
				return werr.New(werr.FormatError, op, err)
			}
			c.counts[b] = int(cnt)
		}
	}
	return nil
}
