package movs

import (
	"math"

	"github.com/cwsl/peaqcore/earmodel"
	"github.com/cwsl/peaqcore/movaccum"
)

// detectionStepSize is the BS.1387 polynomial fit for the just-noticeable
// detection step size at loudness level L (dB). The source's magic
// coefficients are the published curve fit, not tunable constants.
func detectionStepSize(l float64) float64 {
	if l <= 0 {
		return 1e30
	}
	return 5.95072*math.Pow(6.39468/l, 1.71332) +
		9.01033e-11*l*l*l*l +
		5.05622e-6*l*l*l -
		0.00102438*l*l +
		0.0550197*l -
		0.198719
}

// DetectionProbability computes ADBB and MFPDB for a frame, following
// [BS1387] section 4.6: MFPD always accumulates; ADB only accumulates when
// the binaural probability of detection exceeds one half.
func DetectionProbability(ear earmodel.Model, refState, testState []earmodel.State, movADB, movMFPD *movaccum.Accumulator) {
	bandCount := ear.BandCount()
	channels := len(refState)

	var binauralProb float64 = 1
	var binauralSteps float64

	for k := 0; k < bandCount; k++ {
		var pBin, qBin float64
		for c := 0; c < channels; c++ {
			erDB := 10 * math.Log10(ear.Excitation(refState[c])[k])
			etDB := 10 * math.Log10(ear.Excitation(testState[c])[k])
			l := 0.3*math.Max(erDB, etDB) + 0.7*etDB
			s := detectionStepSize(l)

			e := erDB - etDB
			b := 6.0
			if erDB > etDB {
				b = 4.0
			}
			pc := 1 - math.Pow(0.5, math.Pow(e/s, b))
			qc := math.Abs(math.Trunc(e)) / s

			if pc > pBin {
				pBin = pc
			}
			if qc > qBin {
				qBin = qc
			}
		}
		binauralProb *= 1 - pBin
		binauralSteps += qBin
	}
	binauralProb = 1 - binauralProb

	movMFPD.Accumulate(0, binauralProb, 1)
	if binauralProb > 0.5 {
		movADB.Accumulate(0, binauralSteps, 1)
	}
}
