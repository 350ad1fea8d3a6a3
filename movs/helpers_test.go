package movs

import "github.com/cwsl/peaqcore/earmodel"

const testEpsilon = 1e-6

func approxEqual(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	scale := a
	if scale < 0 {
		scale = -scale
	}
	if b > scale {
		if b < 0 {
			scale = -b
		} else {
			scale = b
		}
	}
	if scale < 1 {
		scale = 1
	}
	return d <= testEpsilon*scale
}

// fakeModProc is a fixed-value earmodel.ModulationProcessor for tests.
type fakeModProc struct {
	modulation      []float64
	averageLoudness []float64
}

func (f fakeModProc) Modulation() []float64      { return f.modulation }
func (f fakeModProc) AverageLoudness() []float64 { return f.averageLoudness }

// fakeLevelAdapter is a fixed-value earmodel.LevelAdapter for tests.
type fakeLevelAdapter struct {
	adaptedRef  []float64
	adaptedTest []float64
}

func (f fakeLevelAdapter) AdaptedRef() []float64  { return f.adaptedRef }
func (f fakeLevelAdapter) AdaptedTest() []float64 { return f.adaptedTest }

// fakeState is the key a fakeEarModel accessor looks its fixture up by.
// Reference and test signals share the same maps, so tests give them
// distinct keys (e.g. 0 for the reference, 1 for the test).
type fakeState int

// fakeEarModel is a table-driven earmodel.FFTModel for tests. Every
// per-state accessor returns the entry of its map for the given
// fakeState; GroupIntoBands ignores its argument and returns groupedBands.
type fakeEarModel struct {
	bandCount         int
	frameSize         int
	internalNoise     []float64
	excitation        map[fakeState][]float64
	powerSpectrum     map[fakeState][]float64
	weightedPower     map[fakeState][]float64
	energyThreshold   map[fakeState]bool
	maskingDifference []float64
	groupedBands      []float64
}

func (m *fakeEarModel) BandCount() int                 { return m.bandCount }
func (m *fakeEarModel) FrameSize() int                  { return m.frameSize }
func (m *fakeEarModel) InternalNoise(band int) float64  { return m.internalNoise[band] }
func (m *fakeEarModel) Excitation(s earmodel.State) []float64 {
	return m.excitation[s.(fakeState)]
}
func (m *fakeEarModel) PowerSpectrum(s earmodel.State) []float64 {
	return m.powerSpectrum[s.(fakeState)]
}
func (m *fakeEarModel) WeightedPowerSpectrum(s earmodel.State) []float64 {
	return m.weightedPower[s.(fakeState)]
}
func (m *fakeEarModel) GroupIntoBands(spectrum []float64) []float64 {
	return m.groupedBands
}
func (m *fakeEarModel) MaskingDifference() []float64 {
	return m.maskingDifference
}
func (m *fakeEarModel) IsEnergyThresholdReached(s earmodel.State) bool {
	return m.energyThreshold[s.(fakeState)]
}

func constantSlice(n int, v float64) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = v
	}
	return s
}
