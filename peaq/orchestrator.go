// Package peaq wires the MOV kernels and accumulators of packages movs and
// movaccum into the basic-version PEAQ pipeline of [BS1387]: one
// Orchestrator per (reference, test) pair, fed one frame at a time, read
// once at end of stream.
package peaq

import (
	"github.com/cwsl/peaqcore/earmodel"
	"github.com/cwsl/peaqcore/movaccum"
	"github.com/cwsl/peaqcore/movs"
)

// Names of the twelve basic-version MOVs the Orchestrator exposes. The
// "advanced" mov2 (AvgModDiff2B) and Segmental NMR belong to [BS1387]'s
// advanced filter-bank version and are not wired here.
const (
	RmsModDiffA       = "RmsModDiffA"
	WinModDiff1B      = "WinModDiff1B"
	RmsNoiseLoudB     = "RmsNoiseLoudB"
	RmsNoiseLoudAsymA = "RmsNoiseLoudAsymA"
	AvgLinDistA       = "AvgLinDistA"
	BandwidthRefB     = "BandwidthRefB"
	BandwidthTestB    = "BandwidthTestB"
	TotalNMRB         = "TotalNMRB"
	RelDistFramesB    = "RelDistFramesB"
	ADBB              = "ADBB"
	MFPDB             = "MFPDB"
	EHSB              = "EHSB"
)

// allMOVNames lists every accumulator the Orchestrator owns. Values()
// returns a map, so this order is not carried into its result.
var allMOVNames = []string{
	RmsModDiffA, WinModDiff1B,
	RmsNoiseLoudB, RmsNoiseLoudAsymA, AvgLinDistA,
	BandwidthRefB, BandwidthTestB,
	TotalNMRB, RelDistFramesB,
	ADBB, MFPDB,
	EHSB,
}

// Orchestrator owns one accumulator per basic-version MOV plus the EHS
// kernel's cached FFT plans and window, and drives the per-frame kernel
// calls that feed them.
type Orchestrator struct {
	channels int
	accum    map[string]*movaccum.Accumulator
	ehs      *movs.EHS
}

// New builds an Orchestrator for a comparison with the given channel count.
func New(channels int) *Orchestrator {
	o := &Orchestrator{
		channels: channels,
		accum:    make(map[string]*movaccum.Accumulator, len(allMOVNames)),
		ehs:      movs.NewEHS(),
	}
	for _, name := range allMOVNames {
		a := movaccum.New()
		a.SetChannels(channels)
		a.SetMode(modeFor(name))
		o.accum[name] = a
	}
	return o
}

func modeFor(name string) movaccum.Mode {
	switch name {
	case RmsModDiffA, RmsNoiseLoudB:
		return movaccum.ModeRMS
	case WinModDiff1B:
		return movaccum.ModeAvgWindow
	case RmsNoiseLoudAsymA:
		return movaccum.ModeRMSAsym
	case AvgLinDistA, BandwidthRefB, BandwidthTestB, RelDistFramesB, EHSB:
		return movaccum.ModeAvg
	case TotalNMRB:
		return movaccum.ModeAvgLog
	case ADBB:
		return movaccum.ModeADB
	case MFPDB:
		return movaccum.ModeFilteredMax
	default:
		panic("peaq: unknown MOV name " + name)
	}
}

// FrameInputs bundles one frame's per-channel ear-model outputs. Every
// slice is indexed by channel.
type FrameInputs struct {
	Ear earmodel.FFTModel

	RefState, TestState []earmodel.State

	RefModulation, TestModulation []earmodel.ModulationProcessor
	Level                         []earmodel.LevelAdapter
}

// Channels reports the channel count this Orchestrator was built for.
func (o *Orchestrator) Channels() int { return o.channels }

// ProcessFrame runs every MOV kernel once across all channels for one
// frame.
func (o *Orchestrator) ProcessFrame(f FrameInputs) {
	internalNoise := func(band int) float64 { return f.Ear.InternalNoise(band) }
	bandCount := f.Ear.BandCount()

	movs.ModulationDifference(f.RefModulation, f.TestModulation, internalNoise, bandCount,
		o.accum[RmsModDiffA], nil, o.accum[WinModDiff1B])

	movs.RmsNoiseLoudness(f.RefModulation, f.TestModulation, f.Level, internalNoise, bandCount,
		o.accum[RmsNoiseLoudB])

	movs.RmsNoiseLoudnessAsym(f.RefModulation, f.TestModulation, f.Level, internalNoise, bandCount,
		o.accum[RmsNoiseLoudAsymA])

	movs.AvgLinDist(f.RefModulation, f.Level, f.Ear, f.RefState, internalNoise, bandCount,
		o.accum[AvgLinDistA])

	refPS := perChannelPowerSpectra(f.Ear, f.RefState, f.Ear.PowerSpectrum)
	testPS := perChannelPowerSpectra(f.Ear, f.TestState, f.Ear.PowerSpectrum)
	movs.Bandwidth(refPS, testPS, o.accum[BandwidthRefB], o.accum[BandwidthTestB])

	movs.NoiseToMaskRatio(f.Ear, f.RefState, f.TestState, o.accum[TotalNMRB], o.accum[RelDistFramesB])

	movs.DetectionProbability(f.Ear, f.RefState, f.TestState, o.accum[ADBB], o.accum[MFPDB])

	o.ehs.Accumulate(f.Ear, f.RefState, f.TestState, o.accum[EHSB])
}

func perChannelPowerSpectra(ear earmodel.FFTModel, states []earmodel.State, accessor func(earmodel.State) []float64) [][]float64 {
	out := make([][]float64, len(states))
	for c, s := range states {
		out[c] = accessor(s)
	}
	return out
}

// SetTentative toggles every owned accumulator to (or from) tentative mode
// at once.
func (o *Orchestrator) SetTentative(tentative bool) {
	for _, a := range o.accum {
		a.SetTentative(tentative)
	}
}

// Values returns every MOV's final scalar, keyed by name.
func (o *Orchestrator) Values() map[string]float64 {
	out := make(map[string]float64, len(o.accum))
	for name, a := range o.accum {
		out[name] = a.GetValue()
	}
	return out
}
