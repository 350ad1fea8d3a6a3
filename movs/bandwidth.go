package movs

import "github.com/cwsl/peaqcore/movaccum"

// bandwidthZeroThresholdStart/End bound the high-frequency bins (inclusive)
// BS.1387 treats as the "silence floor" reference for the bandwidth test.
const (
	bandwidthZeroThresholdStart = 921
	bandwidthZeroThresholdEnd   = 1023
	bandwidthRefSearchEnd       = 921
	bandwidthRefFloor           = 346
)

// Bandwidth computes BandwidthRefB and BandwidthTestB for every channel
// from the unweighted power spectra. A channel whose reference bandwidth
// does not exceed bandwidthRefFloor contributes nothing that frame; this
// is the gate in [BS1387] section 4.4 step 4, not an error.
func Bandwidth(refPowerSpectrum, testPowerSpectrum [][]float64, movRef, movTest *movaccum.Accumulator) {
	for c := range refPowerSpectrum {
		ref := refPowerSpectrum[c]
		test := testPowerSpectrum[c]

		zeroThreshold := test[bandwidthZeroThresholdStart]
		for n := bandwidthZeroThresholdStart + 1; n <= bandwidthZeroThresholdEnd; n++ {
			if test[n] > zeroThreshold {
				zeroThreshold = test[n]
			}
		}

		bwRef := 0
		for i := bandwidthRefSearchEnd; i >= 1; i-- {
			if ref[i-1] > 10*zeroThreshold {
				bwRef = i
				break
			}
		}
		if bwRef <= bandwidthRefFloor {
			continue
		}

		bwTest := 0
		for i := bwRef; i >= 1; i-- {
			if test[i-1] >= fiveDBPowerFactor*zeroThreshold {
				bwTest = i
				break
			}
		}

		movRef.Accumulate(c, float64(bwRef), 1)
		movTest.Accumulate(c, float64(bwTest), 1)
	}
}
