// Package earmodel defines the interfaces the MOV kernels consume from a
// psychoacoustic ear model. Nothing in this package performs psychoacoustic
// computation itself; it is the boundary between the BS.1387 ear model
// (external, out of scope here) and the MOV kernels in package movs.
package earmodel

// State is an opaque per-channel, per-frame ear-model result. Kernels never
// inspect it directly; they pass it back into Model/FFTModel accessors.
type State interface{}

// Model is the psychoacoustic ear model contract shared by both the FFT and
// filter-bank variants of BS.1387. Z (band count) and the internal noise
// floor are configuration-time constants; Excitation is the only per-frame
// accessor every kernel needs regardless of which ear model produced state.
type Model interface {
	BandCount() int
	FrameSize() int
	InternalNoise(band int) float64
	Excitation(state State) []float64
}

// FFTModel extends Model with the spectral accessors only the FFT-based ear
// model exposes. Bandwidth, NMR, and EHS are FFT-only MOVs and take an
// FFTModel rather than a plain Model so that wiring them against a
// filter-bank ear model is a compile error, not a runtime surprise.
type FFTModel interface {
	Model
	PowerSpectrum(state State) []float64
	WeightedPowerSpectrum(state State) []float64
	GroupIntoBands(spectrum []float64) []float64
	MaskingDifference() []float64
	IsEnergyThresholdReached(state State) bool
}

// ModulationProcessor is one channel's modulation-pattern tracker for the
// current frame. The reference and test signals each get their own
// instance; there is one pair per channel.
type ModulationProcessor interface {
	Modulation() []float64
	AverageLoudness() []float64
}

// LevelAdapter is one channel's BS.1387 §3.4 level/pattern adaptation
// result for the current frame.
type LevelAdapter interface {
	AdaptedRef() []float64
	AdaptedTest() []float64
}
