package peaq

import (
	"math"
	"testing"

	"github.com/cwsl/peaqcore/earmodel"
	"github.com/cwsl/peaqcore/internal/fixtureear"
)

func analyzeChannel(ear *fixtureear.Model, samples []float64) (earmodel.State, *fixtureear.ModulationTracker, *fixtureear.LevelAdapter) {
	state := ear.Analyze(samples)
	exc := ear.Excitation(state)
	return state, fixtureear.NewModulationTracker(exc), fixtureear.NewLevelAdapter(exc)
}

// lowToneBin sits well inside the first MaxLag*2 spectrum bins the EHS
// kernel correlates, so its autocorrelation at lag 0 is never left to
// floating-point leakage noise alone.
const lowToneBin = 200

// midToneBin and highToneBin are fixed, shared between ref and test: the
// mid tone gives the bandwidth kernel's reference scan a definite bin past
// its 346-bin floor, and the high tone gives its silence-floor bins
// (921-1023) a definite, clearly nonzero reference value, both standing in
// for what would otherwise be floating-point leakage noise around an
// exact-bin sinusoid's theoretically-zero bins.
const midToneBin = 360
const highToneBin = 950

// sineSamples builds a frame as a varying low-frequency tone (the part
// that actually differs between reference and test across these tests)
// plus the two fixed scaffolding tones above.
func sineSamples(amplitude, phase float64) []float64 {
	out := make([]float64, fixtureear.FrameSize)
	n := float64(fixtureear.FrameSize)
	for i := range out {
		t := float64(i)
		out[i] = amplitude*math.Sin(2*math.Pi*lowToneBin*t/n+phase) +
			0.3*math.Sin(2*math.Pi*midToneBin*t/n) +
			0.05*math.Sin(2*math.Pi*highToneBin*t/n)
	}
	return out
}

func TestOrchestratorIdenticalSignalsYieldZeroDistortionMOVs(t *testing.T) {
	ear := fixtureear.New()
	o := New(1)

	samples := sineSamples(1.0, 0)

	for frame := 0; frame < 3; frame++ {
		refState, refMod, level := analyzeChannel(ear, samples)
		testState, testMod, _ := analyzeChannel(ear, samples)

		o.ProcessFrame(FrameInputs{
			Ear:            ear,
			RefState:       []earmodel.State{refState},
			TestState:      []earmodel.State{testState},
			RefModulation:  []earmodel.ModulationProcessor{refMod},
			TestModulation: []earmodel.ModulationProcessor{testMod},
			Level:          []earmodel.LevelAdapter{level},
		})
	}

	values := o.Values()
	for _, name := range []string{RmsModDiffA, RmsNoiseLoudB, RmsNoiseLoudAsymA, AvgLinDistA} {
		if v := values[name]; v != 0 {
			t.Errorf("%s for identical signals: got %v, want 0", name, v)
		}
	}
	if v := values[BandwidthRefB]; v != values[BandwidthTestB] {
		t.Errorf("identical signals should give equal ref/test bandwidth: ref=%v test=%v", v, values[BandwidthTestB])
	}
}

func TestOrchestratorDistinctSignalsProduceFiniteMOVs(t *testing.T) {
	ear := fixtureear.New()
	o := New(1)

	ref := sineSamples(1.0, 0)
	test := sineSamples(0.6, 0.4)

	for frame := 0; frame < 3; frame++ {
		refState, refMod, level := analyzeChannel(ear, ref)
		testState, testMod, _ := analyzeChannel(ear, test)

		o.ProcessFrame(FrameInputs{
			Ear:            ear,
			RefState:       []earmodel.State{refState},
			TestState:      []earmodel.State{testState},
			RefModulation:  []earmodel.ModulationProcessor{refMod},
			TestModulation: []earmodel.ModulationProcessor{testMod},
			Level:          []earmodel.LevelAdapter{level},
		})
	}

	values := o.Values()
	for name, v := range values {
		if math.IsNaN(v) {
			t.Errorf("%s is NaN for distinct signals: %v", name, v)
		}
	}
}

func TestOrchestratorSetTentativeIsolatesTrialFrame(t *testing.T) {
	ear := fixtureear.New()
	o := New(1)

	samples := sineSamples(1.0, 0)
	refState, refMod, level := analyzeChannel(ear, samples)
	testState, testMod, _ := analyzeChannel(ear, samples)

	o.ProcessFrame(FrameInputs{
		Ear:            ear,
		RefState:       []earmodel.State{refState},
		TestState:      []earmodel.State{testState},
		RefModulation:  []earmodel.ModulationProcessor{refMod},
		TestModulation: []earmodel.ModulationProcessor{testMod},
		Level:          []earmodel.LevelAdapter{level},
	})
	committed := o.Values()

	o.SetTentative(true)
	other := sineSamples(0.2, 2.1)
	otherState, otherMod, otherLevel := analyzeChannel(ear, other)
	o.ProcessFrame(FrameInputs{
		Ear:            ear,
		RefState:       []earmodel.State{refState},
		TestState:      []earmodel.State{otherState},
		RefModulation:  []earmodel.ModulationProcessor{refMod},
		TestModulation: []earmodel.ModulationProcessor{otherMod},
		Level:          []earmodel.LevelAdapter{otherLevel},
	})

	// Values() reads only committed state, so it must be untouched by the
	// trial frame above regardless of whether it is later kept or dropped.
	untouched := o.Values()
	for name, want := range committed {
		if got := untouched[name]; got != want {
			t.Errorf("%s while tentative: got %v, want committed value %v", name, got, want)
		}
	}

	o.SetTentative(true) // re-entering tentative mode discards the trial frame above
	o.SetTentative(false)
	rolledBack := o.Values()
	for name, want := range committed {
		if got := rolledBack[name]; got != want {
			t.Errorf("%s after shadow rollback: got %v, want committed value %v", name, got, want)
		}
	}
}
