// Package fixtureear is a deterministic synthetic stand-in for the
// BS.1387 FFT ear model: it satisfies earmodel.FFTModel, earmodel.
// ModulationProcessor, and earmodel.LevelAdapter with values derived from a
// plain FFT of caller-supplied sample frames, a fixed weighting curve and a
// fixed-width band grouping rather than a real excitation-pattern
// computation. It exists so the driver and the Orchestrator's
// integration tests have something to run frames through without pulling
// in the actual ear model, which is out of scope here.
package fixtureear

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/cwsl/peaqcore/earmodel"
)

// FrameSize is the fixed analysis window length (BS.1387 uses 2048 for the
// FFT ear model; this fixture follows suit).
const FrameSize = 2048

// BandCount is the fixed critical-band count (BS.1387's Z for the FFT
// model).
const BandCount = 109

// Model is a deterministic earmodel.FFTModel. One instance is shared by a
// reference and a test signal; the per-frame State it hands out carries
// whichever signal's samples were given to Analyze.
type Model struct {
	fft           *fourier.FFT
	internalNoise []float64
}

// New builds a Model with a flat internal-noise floor across bands.
func New() *Model {
	noise := make([]float64, BandCount)
	for k := range noise {
		noise[k] = 1e-6
	}
	return &Model{
		fft:           fourier.NewFFT(FrameSize),
		internalNoise: noise,
	}
}

// frameState is the concrete earmodel.State this Model produces: the
// spectra, excitation and energy flag derived from one frame's samples,
// computed once at Analyze time and reused by every accessor.
type frameState struct {
	powerSpectrum     []float64
	weightedPower     []float64
	excitation        []float64
	energyAboveThresh bool
}

// Analyze runs one frame of time-domain samples (length FrameSize) through
// the fixture's FFT and band grouping, returning an opaque earmodel.State
// for use with the Model's accessors.
func (m *Model) Analyze(samples []float64) earmodel.State {
	if len(samples) != FrameSize {
		panic("fixtureear: Analyze requires len(samples) == FrameSize")
	}

	coeffs := m.fft.Coefficients(nil, samples)
	power := make([]float64, len(coeffs))
	var total float64
	for i, c := range coeffs {
		p := real(c)*real(c) + imag(c)*imag(c)
		power[i] = p
		total += p
	}

	weighted := make([]float64, len(power))
	for i, p := range power {
		weighted[i] = p * outerEarWeight(i, len(power))
	}

	excitation := m.GroupIntoBands(weighted)
	for k := range excitation {
		excitation[k] += m.internalNoise[k]
	}

	return &frameState{
		powerSpectrum:     power,
		weightedPower:     weighted,
		excitation:        excitation,
		energyAboveThresh: total > float64(len(power))*1e-9,
	}
}

// outerEarWeight is a simple monotonically decreasing weighting curve in
// place of BS.1387's measured outer/middle-ear transfer function: real
// enough to make bandwidth- and NMR-style gates behave sensibly, without
// claiming psychoacoustic accuracy.
func outerEarWeight(bin, n int) float64 {
	frac := float64(bin) / float64(n)
	return math.Exp(-2 * frac)
}

// BandCount implements earmodel.Model.
func (m *Model) BandCount() int { return BandCount }

// FrameSize implements earmodel.Model.
func (m *Model) FrameSize() int { return FrameSize }

// InternalNoise implements earmodel.Model.
func (m *Model) InternalNoise(band int) float64 { return m.internalNoise[band] }

// Excitation implements earmodel.Model.
func (m *Model) Excitation(s earmodel.State) []float64 { return s.(*frameState).excitation }

// PowerSpectrum implements earmodel.FFTModel.
func (m *Model) PowerSpectrum(s earmodel.State) []float64 { return s.(*frameState).powerSpectrum }

// WeightedPowerSpectrum implements earmodel.FFTModel.
func (m *Model) WeightedPowerSpectrum(s earmodel.State) []float64 { return s.(*frameState).weightedPower }

// GroupIntoBands implements earmodel.FFTModel: a fixed-width grouping
// (spectrum length / BandCount bins per band) standing in for BS.1387's
// frequency-dependent critical-band boundaries.
func (m *Model) GroupIntoBands(spectrum []float64) []float64 {
	out := make([]float64, BandCount)
	binsPerBand := len(spectrum) / BandCount
	if binsPerBand < 1 {
		binsPerBand = 1
	}
	for k := range out {
		start := k * binsPerBand
		end := start + binsPerBand
		if end > len(spectrum) {
			end = len(spectrum)
		}
		var sum float64
		for _, v := range spectrum[start:end] {
			sum += v
		}
		out[k] = sum
	}
	return out
}

// MaskingDifference implements earmodel.FFTModel with BS.1387's basic-
// version flat 3 dB masking difference, expressed as a linear power ratio.
func (m *Model) MaskingDifference() []float64 {
	out := make([]float64, BandCount)
	for k := range out {
		out[k] = math.Pow(10, 3.0/10)
	}
	return out
}

// IsEnergyThresholdReached implements earmodel.FFTModel.
func (m *Model) IsEnergyThresholdReached(s earmodel.State) bool {
	return s.(*frameState).energyAboveThresh
}

// ModulationTracker is a deterministic earmodel.ModulationProcessor: the
// modulation pattern and average loudness are derived directly from a
// frame's excitation, with no temporal smoothing across frames (the real
// ear model low-pass filters these across frames; that state machine is
// out of scope here).
type ModulationTracker struct {
	excitation []float64
}

// NewModulationTracker builds a tracker from one frame's excitation
// pattern.
func NewModulationTracker(excitation []float64) *ModulationTracker {
	return &ModulationTracker{excitation: excitation}
}

// Modulation implements earmodel.ModulationProcessor with a fixed small
// multiple (0.05) of the square root of each band's excitation, standing in
// for the real temporal
// envelope modulation depth.
func (t *ModulationTracker) Modulation() []float64 {
	out := make([]float64, len(t.excitation))
	for k, e := range t.excitation {
		out[k] = 0.05 * math.Sqrt(e)
	}
	return out
}

// AverageLoudness implements earmodel.ModulationProcessor.
func (t *ModulationTracker) AverageLoudness() []float64 {
	out := make([]float64, len(t.excitation))
	for k, e := range t.excitation {
		out[k] = math.Pow(e, 0.23)
	}
	return out
}

// LevelAdapter is a deterministic earmodel.LevelAdapter: both adapted
// patterns are the frame's own excitation, since the fixture has no
// multi-frame adaptation state to converge.
type LevelAdapter struct {
	excitation []float64
}

// NewLevelAdapter builds a LevelAdapter from one frame's excitation
// pattern, shared by both the reference and test roles.
func NewLevelAdapter(excitation []float64) *LevelAdapter {
	return &LevelAdapter{excitation: excitation}
}

// AdaptedRef implements earmodel.LevelAdapter.
func (l *LevelAdapter) AdaptedRef() []float64 { return l.excitation }

// AdaptedTest implements earmodel.LevelAdapter.
func (l *LevelAdapter) AdaptedTest() []float64 { return l.excitation }
