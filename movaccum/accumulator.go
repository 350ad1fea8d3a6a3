// Package movaccum implements the BS.1387 Model Output Variable accumulator:
// a small stateful fold of (value, weight) pairs per channel into a single
// scalar, under one of seven reduction modes, with a tentative/shadow
// staging mechanism so a driver can provisionally accumulate frames near a
// silence boundary and later commit or discard them.
package movaccum

import "math"

// Mode selects the per-channel reduction formula and the cross-channel
// aggregation rule. The per-mode formulae are in perChannelValue; the
// cross-channel rule is in Accumulator.GetValue.
type Mode int

const (
	ModeAvg Mode = iota
	ModeAvgLog
	ModeRMS
	ModeRMSAsym
	ModeAvgWindow
	ModeFilteredMax
	ModeADB
)

// windowDepth is the number of prior √-values AVG_WINDOW keeps alongside
// the current sample to form a 4-term sliding average.
const windowDepth = 3

// channelState holds every field any mode might need for one channel. Most
// modes only touch a subset; keeping one struct avoids a mode-indexed type
// switch on every field access.
type channelState struct {
	sumWX float64 // AVG, AVG_LOG, ADB: Σ wᵢxᵢ
	sumW  float64 // AVG, AVG_LOG, ADB: Σ wᵢ

	sumW2X2 float64 // RMS: Σ wᵢ²xᵢ²
	sumW2   float64 // RMS: Σ wᵢ²; RMS_ASYM: Σ wᵢ²
	sumX2   float64 // RMS_ASYM: Σ xᵢ²
	count   int     // RMS_ASYM: N

	fifo    [windowDepth]float64 // AVG_WINDOW: prior √-values, oldest first
	fifoLen int
	sumQuad float64 // AVG_WINDOW: Σ windowed fourth powers
	windows int     // AVG_WINDOW: M, count of valid windows

	y    float64 // FILTERED_MAX: IIR state
	maxY float64 // FILTERED_MAX: running max of y
}

// Accumulator folds per-frame (value, weight) samples for every channel of
// one Model Output Variable into a single scalar, as [BS1387] section 4.1
// defines for each MOV.
type Accumulator struct {
	mode     Mode
	modeSet  bool
	channels int

	committed []channelState
	shadow    []channelState
	tentative bool
}

// New returns an unconfigured Accumulator. SetChannels and SetMode must both
// be called before the first Accumulate.
func New() *Accumulator {
	return &Accumulator{}
}

// SetChannels fixes the channel count and allocates per-channel state. It
// must be called before the first Accumulate.
func (a *Accumulator) SetChannels(channels int) {
	if channels <= 0 {
		panic("movaccum: channel count must be positive")
	}
	a.channels = channels
	a.committed = make([]channelState, channels)
}

// SetMode sets the reduction mode. It must be called before the first
// Accumulate.
func (a *Accumulator) SetMode(mode Mode) {
	a.mode = mode
	a.modeSet = true
}

// Mode reports the configured reduction mode, so callers such as the NMR
// kernel can branch on how their own accumulator will reduce.
func (a *Accumulator) Mode() Mode {
	return a.mode
}

// SetTentative toggles provisional accumulation. Entering tentative mode
// (b == true) resets the shadow from the committed state, discarding any
// previously staged-but-uncommitted samples. Leaving tentative mode
// (b == false) promotes the shadow into the committed state.
func (a *Accumulator) SetTentative(b bool) {
	if b {
		a.shadow = append([]channelState(nil), a.committed...)
		a.tentative = true
		return
	}
	if a.tentative {
		a.committed = a.shadow
		a.shadow = nil
	}
	a.tentative = false
}

// Accumulate folds sample (x, w) into channel c. Calling Accumulate before
// SetChannels/SetMode, or with c out of range, is a contract violation.
func (a *Accumulator) Accumulate(c int, x, w float64) {
	if !a.modeSet || a.committed == nil {
		panic("movaccum: accumulate called before set_channels/set_mode")
	}
	if c < 0 || c >= a.channels {
		panic("movaccum: channel index out of range")
	}
	target := &a.committed[c]
	if a.tentative {
		target = &a.shadow[c]
	}
	accumulateInto(target, a.mode, x, w)
}

func accumulateInto(s *channelState, mode Mode, x, w float64) {
	switch mode {
	case ModeAvg, ModeAvgLog, ModeADB:
		s.sumWX += w * x
		s.sumW += w
	case ModeRMS:
		s.sumW2X2 += w * w * x * x
		s.sumW2 += w * w
	case ModeRMSAsym:
		s.sumX2 += x * x
		s.sumW2 += w * w
		s.count++
	case ModeAvgWindow:
		accumulateWindow(s, x)
	case ModeFilteredMax:
		s.y = 0.9*s.y + 0.1*x
		if s.y > s.maxY {
			s.maxY = s.y
		}
	default:
		panic("movaccum: unknown mode")
	}
}

func accumulateWindow(s *channelState, x float64) {
	sq := math.Sqrt(x)
	if s.fifoLen < windowDepth {
		s.fifo[s.fifoLen] = sq
		s.fifoLen++
		return
	}
	sum := sq
	for _, prior := range s.fifo {
		sum += prior
	}
	avg := sum / 4
	s.sumQuad += avg * avg * avg * avg
	s.windows++
	s.fifo[0], s.fifo[1], s.fifo[2] = s.fifo[1], s.fifo[2], sq
}

// GetValue returns the aggregated scalar across all channels. It never
// mutates state and may be called any number of times.
func (a *Accumulator) GetValue() float64 {
	if a.mode == ModeFilteredMax || a.mode == ModeADB {
		return perChannelValue(&a.committed[0], a.mode)
	}
	var sum float64
	for i := range a.committed {
		sum += perChannelValue(&a.committed[i], a.mode)
	}
	return sum / float64(len(a.committed))
}

func perChannelValue(s *channelState, mode Mode) float64 {
	switch mode {
	case ModeAvg:
		return s.sumWX / s.sumW
	case ModeAvgLog:
		return 10 * math.Log10(s.sumWX/s.sumW)
	case ModeRMS:
		return math.Sqrt(s.sumW2X2 / s.sumW2)
	case ModeRMSAsym:
		return math.Sqrt(s.sumX2/float64(s.count)) + 0.5*math.Sqrt(s.sumW2/float64(s.count))
	case ModeAvgWindow:
		if s.windows == 0 {
			return 0
		}
		return math.Sqrt(s.sumQuad / float64(s.windows))
	case ModeFilteredMax:
		return s.maxY
	case ModeADB:
		switch {
		case s.sumW == 0:
			return 0
		case s.sumWX == 0:
			return -0.5
		default:
			return math.Log10(s.sumWX / s.sumW)
		}
	default:
		panic("movaccum: unknown mode")
	}
}
