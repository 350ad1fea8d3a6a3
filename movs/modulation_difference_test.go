package movs

import (
	"testing"

	"github.com/cwsl/peaqcore/earmodel"
	"github.com/cwsl/peaqcore/movaccum"
)

func TestModulationDifferenceIdenticalSignalsYieldZero(t *testing.T) {
	refMod := []earmodel.ModulationProcessor{fakeModProc{
		modulation:      constantSlice(8, 0.4),
		averageLoudness: constantSlice(8, 1.0),
	}}
	testMod := []earmodel.ModulationProcessor{fakeModProc{
		modulation: constantSlice(8, 0.4),
	}}
	noise := func(int) float64 { return 1.0 }

	mov1 := movaccum.New()
	mov1.SetChannels(1)
	mov1.SetMode(movaccum.ModeRMS)

	ModulationDifference(refMod, testMod, noise, 8, mov1, nil, nil)

	if got := mov1.GetValue(); got != 0 {
		t.Errorf("identical ref/test modulation: got %v, want 0", got)
	}
}

func TestModulationDifferenceScalingDependsOnMode(t *testing.T) {
	buildInputs := func() ([]earmodel.ModulationProcessor, []earmodel.ModulationProcessor, func(int) float64) {
		refMod := []earmodel.ModulationProcessor{fakeModProc{
			modulation:      constantSlice(4, 0.0),
			averageLoudness: constantSlice(4, 1.0),
		}}
		testMod := []earmodel.ModulationProcessor{fakeModProc{
			modulation: constantSlice(4, 1.0),
		}}
		noise := func(int) float64 { return 1.0 }
		return refMod, testMod, noise
	}

	rmsRef, rmsTest, rmsNoise := buildInputs()
	movRMS := movaccum.New()
	movRMS.SetChannels(1)
	movRMS.SetMode(movaccum.ModeRMS)
	ModulationDifference(rmsRef, rmsTest, rmsNoise, 4, movRMS, nil, nil)
	if got, want := movRMS.GetValue(), 200.0; !approxEqual(got, want) {
		t.Errorf("RMS-mode mov1: got %v, want %v", got, want)
	}

	avgRef, avgTest, avgNoise := buildInputs()
	movAVG := movaccum.New()
	movAVG.SetChannels(1)
	movAVG.SetMode(movaccum.ModeAvg)
	ModulationDifference(avgRef, avgTest, avgNoise, 4, movAVG, nil, nil)
	if got, want := movAVG.GetValue(), 100.0; !approxEqual(got, want) {
		t.Errorf("AVG-mode mov1: got %v, want %v", got, want)
	}
}

func TestModulationDifferenceMov2LevWtSwitchesWithPresence(t *testing.T) {
	refMod := []earmodel.ModulationProcessor{fakeModProc{
		modulation:      constantSlice(4, 0.0),
		averageLoudness: constantSlice(4, 1.0),
	}}
	testMod := []earmodel.ModulationProcessor{fakeModProc{
		modulation: constantSlice(4, 1.0),
	}}
	noise := func(int) float64 { return 1.0 }

	mov1 := movaccum.New()
	mov1.SetChannels(1)
	mov1.SetMode(movaccum.ModeAvg)
	mov2 := movaccum.New()
	mov2.SetChannels(1)
	mov2.SetMode(movaccum.ModeAvg)

	ModulationDifference(refMod, testMod, noise, 4, mov1, mov2, nil)

	if got, want := mov2.GetValue(), 10000.0; !approxEqual(got, want) {
		t.Errorf("mov2: got %v, want %v", got, want)
	}
}
