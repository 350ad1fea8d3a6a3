package movs

import (
	"math"

	"github.com/cwsl/peaqcore/earmodel"
	"github.com/cwsl/peaqcore/movaccum"
	"github.com/cwsl/peaqcore/xcorr"
)

// ehsWindowScale is the Hann-like window's leading constant, (69) in
// [BS1387].
const ehsWindowScale = 0.81649658092773

// EHS owns the Error Harmonic Structure kernel's process-wide state: the
// correlation kernel's two cached FFT plans and the precomputed window.
// This replaces the reference source's lazily-initialised module-level
// globals with a component the Orchestrator constructs once.
type EHS struct {
	correlator *xcorr.Correlator
	window     [xcorr.MaxLag]float64
}

// NewEHS builds the correlator and precomputes the correlation window.
func NewEHS() *EHS {
	e := &EHS{correlator: xcorr.NewCorrelator()}
	for i := range e.window {
		e.window[i] = ehsWindowScale * (1 - math.Cos(2*math.Pi*float64(i)/float64(xcorr.MaxLag-1))) / float64(xcorr.MaxLag)
	}
	return e
}

// Accumulate computes EHSB for a frame. The frame is skipped only when no
// channel has its reference or test energy threshold flag set; otherwise
// every channel accumulates one value.
func (e *EHS) Accumulate(ear earmodel.FFTModel, refState, testState []earmodel.State, mov *movaccum.Accumulator) {
	gated := false
	for c := range refState {
		if ear.IsEnergyThresholdReached(refState[c]) || ear.IsEnergyThresholdReached(testState[c]) {
			gated = true
			break
		}
	}
	if !gated {
		return
	}

	for c := range refState {
		refWPS := ear.WeightedPowerSpectrum(refState[c])
		testWPS := ear.WeightedPowerSpectrum(testState[c])

		d := make([]float64, 2*xcorr.MaxLag)
		for n := range d {
			fr, ft := refWPS[n], testWPS[n]
			if fr == 0 && ft == 0 {
				d[n] = 0
			} else {
				d[n] = math.Log(ft / fr)
			}
		}

		corr := e.correlator.Autocorrelate(d)
		d0 := corr[0]
		dk := d0

		windowed := make([]float64, xcorr.MaxLag)
		for i := 0; i < xcorr.MaxLag; i++ {
			windowed[i] = corr[i] * e.window[i] / math.Sqrt(d0*dk)
			dk += d[i+xcorr.MaxLag]*d[i+xcorr.MaxLag] - d[i]*d[i]
		}

		mags := e.correlator.CepstralMagnitudes(windowed)

		var ehs, s float64
		s = mags[0]
		for m := 1; m < len(mags); m++ {
			next := mags[m]
			if next > s && next > ehs {
				ehs = next
			}
			s = next
		}

		mov.Accumulate(c, 1000*ehs, 1)
	}
}
