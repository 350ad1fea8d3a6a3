package movs

import (
	"math"

	"github.com/cwsl/peaqcore/earmodel"
	"github.com/cwsl/peaqcore/movaccum"
)

// NoiseToMaskRatio computes the Noise-to-Mask Ratio MOV and, when movRDF is
// non-nil, the Relative Disturbed Frames MOV. Whether the NMR accumulator
// yields TotalNMRB (mode AVG_LOG, the basic-version wiring) or the
// advanced-only Segmental NMR variant is decided entirely by movNMR's
// configured mode, following [BS1387] section 4.5 step 5; this function
// does not special-case it beyond checking that mode.
func NoiseToMaskRatio(ear earmodel.FFTModel, refState, testState []earmodel.State, movNMR, movRDF *movaccum.Accumulator) {
	bandCount := ear.BandCount()
	maskingDifference := ear.MaskingDifference()

	for c := range refState {
		refWPS := ear.WeightedPowerSpectrum(refState[c])
		testWPS := ear.WeightedPowerSpectrum(testState[c])
		excitationRef := ear.Excitation(refState[c])

		noiseSpectrum := make([]float64, len(refWPS))
		for n := range noiseSpectrum {
			fr, ft := refWPS[n], testWPS[n]
			noiseSpectrum[n] = fr + ft - 2*math.Sqrt(fr*ft)
		}
		noiseInBands := ear.GroupIntoBands(noiseSpectrum)

		var nmr, nmrMax float64
		for k := 0; k < bandCount; k++ {
			mask := excitationRef[k] / maskingDifference[k]
			currNMR := noiseInBands[k] / mask
			nmr += currNMR
			if currNMR > nmrMax {
				nmrMax = currNMR
			}
		}
		nmr /= float64(bandCount)

		if movNMR.Mode() == movaccum.ModeAvgLog {
			movNMR.Accumulate(c, nmr, 1)
		} else {
			movNMR.Accumulate(c, 10*math.Log10(nmr), 1)
		}

		if movRDF != nil {
			disturbed := 0.0
			if nmrMax > onePointFiveDBPowerFactor {
				disturbed = 1.0
			}
			movRDF.Accumulate(c, disturbed, 1)
		}
	}
}
