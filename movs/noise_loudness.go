package movs

import (
	"math"

	"github.com/cwsl/peaqcore/earmodel"
	"github.com/cwsl/peaqcore/movaccum"
)

// calcNoiseLoudness is the shared per-channel noise-loudness formula behind
// RmsNoiseLoud, RmsNoiseLoudAsym, and AvgLinDist. modRef/modTest and
// excRef/excTest play different roles in each of the three call sites (see
// each kernel below); this function only knows the arithmetic.
func calcNoiseLoudness(alpha, thresFac, s0, nlMin float64, internalNoise func(band int) float64, bandCount int, modRef, modTest, excRef, excTest []float64) float64 {
	var nl float64
	for k := 0; k < bandCount; k++ {
		sRef := thresFac*modRef[k] + s0
		sTest := thresFac*modTest[k] + s0
		eT := internalNoise(k)
		beta := math.Exp(-alpha * (excTest[k] - excRef[k]) / excRef[k])
		num := math.Max(sTest*excTest[k]-sRef*excRef[k], 0)
		den := eT + sRef*excRef[k]*beta
		nl += math.Pow(eT/sTest, 0.23) * (math.Pow(1+num/den, 0.23) - 1)
	}
	nl *= 24 / float64(bandCount)
	if nl < nlMin {
		return 0
	}
	return nl
}

// RmsNoiseLoudness computes RmsNoiseLoudB: noise_loudness(1.5, 0.15, 0.5, 0, ...)
// accumulated with weight 1. mov must be configured in RMS mode.
func RmsNoiseLoudness(
	refMod, testMod []earmodel.ModulationProcessor,
	level []earmodel.LevelAdapter,
	internalNoise func(band int) float64,
	bandCount int,
	mov *movaccum.Accumulator,
) {
	for c := range refMod {
		nl := calcNoiseLoudness(1.5, 0.15, 0.5, 0, internalNoise, bandCount,
			refMod[c].Modulation(), testMod[c].Modulation(),
			level[c].AdaptedRef(), level[c].AdaptedTest())
		mov.Accumulate(c, nl, 1)
	}
}

// RmsNoiseLoudnessAsym computes RmsNoiseLoudAsymA: an asymmetric pairing of
// noise-loudness calls (NL, MC) folded with movaccum.ModeRMSAsym. The
// second call swaps which of adaptedRef/adaptedTest plays excRef vs excTest;
// that swap is deliberate, it is the "MC" term of the pair, not a mistake.
// The modulation arguments (modRef, modTest) are never swapped between the
// two calls.
func RmsNoiseLoudnessAsym(
	refMod, testMod []earmodel.ModulationProcessor,
	level []earmodel.LevelAdapter,
	internalNoise func(band int) float64,
	bandCount int,
	mov *movaccum.Accumulator,
) {
	for c := range refMod {
		modRef := refMod[c].Modulation()
		modTest := testMod[c].Modulation()
		adaptedRef := level[c].AdaptedRef()
		adaptedTest := level[c].AdaptedTest()

		nl := calcNoiseLoudness(2.5, 0.3, 1.0, 0.1, internalNoise, bandCount,
			modRef, modTest, adaptedRef, adaptedTest)
		mc := calcNoiseLoudness(1.5, 0.15, 1.0, 0, internalNoise, bandCount,
			modRef, modTest, adaptedTest, adaptedRef)

		mov.Accumulate(c, nl, mc)
	}
}

// AvgLinDist computes AvgLinDistA. Unlike RmsNoiseLoudness and
// RmsNoiseLoudnessAsym above, both "modulation" arguments here are the
// reference's own modulation pattern rather than a ref/test pair; the
// excitation pair is the adapted reference against the ear model's raw
// (unadapted) reference excitation.
func AvgLinDist(
	refMod []earmodel.ModulationProcessor,
	level []earmodel.LevelAdapter,
	ear earmodel.Model,
	refState []earmodel.State,
	internalNoise func(band int) float64,
	bandCount int,
	mov *movaccum.Accumulator,
) {
	for c := range refMod {
		modRef := refMod[c].Modulation()
		adaptedRef := level[c].AdaptedRef()
		excRef := ear.Excitation(refState[c])

		nl := calcNoiseLoudness(1.5, 0.15, 1.0, 0, internalNoise, bandCount,
			modRef, modRef, adaptedRef, excRef)
		mov.Accumulate(c, nl, 1)
	}
}
