package movs

import (
	"math"

	"github.com/cwsl/peaqcore/earmodel"
	"github.com/cwsl/peaqcore/movaccum"
)

// ModulationDifference computes the per-frame modulation-difference MOVs
// for every channel. mov1 is required (RmsModDiffA in the basic-version
// wiring); mov2 and movWin are optional, a nil accumulator skips that
// output entirely, which is how the "advanced" mov2 (AvgModDiff2B) stays an
// additive extension rather than a required parameter.
func ModulationDifference(
	refMod, testMod []earmodel.ModulationProcessor,
	internalNoise func(band int) float64,
	bandCount int,
	mov1, mov2, movWin *movaccum.Accumulator,
) {
	levWt := 1.0
	if mov2 != nil {
		levWt = 100.0
	}

	for c := range refMod {
		modRef := refMod[c].Modulation()
		modTest := testMod[c].Modulation()
		avgLoudRef := refMod[c].AverageLoudness()

		var md1, md2, tempWt float64
		for k := 0; k < bandCount; k++ {
			diff := math.Abs(modRef[k] - modTest[k])
			md1 += diff / (1 + modRef[k])

			w := 0.1
			if modTest[k] >= modRef[k] {
				w = 1.0
			}
			md2 += w * diff / (0.01 + modRef[k])

			noise := internalNoise(k)
			tempWt += avgLoudRef[k] / (avgLoudRef[k] + levWt*math.Pow(noise, 0.3))
		}

		if mov1.Mode() == movaccum.ModeRMS {
			md1 *= 100 / math.Sqrt(float64(bandCount))
		} else {
			md1 *= 100 / float64(bandCount)
		}
		md2 *= 100 / float64(bandCount)

		mov1.Accumulate(c, md1, tempWt)
		if mov2 != nil {
			mov2.Accumulate(c, md2, tempWt)
		}
		if movWin != nil {
			movWin.Accumulate(c, md1, 1)
		}
	}
}
