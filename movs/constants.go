// Package movs implements the BS.1387 Model Output Variable kernels: eight
// per-frame procedures that read one frame's ear-model outputs for every
// channel and push scalars into one or more movaccum.Accumulator instances.
package movs

// fiveDBPowerFactor is 10^(5/10), the linear-power equivalent of a 5 dB
// threshold used by the Bandwidth kernel.
const fiveDBPowerFactor = 3.16227766016838

// onePointFiveDBPowerFactor is 10^(1.5/10), the linear-power equivalent of
// a 1.5 dB threshold used by the Relative Disturbed Frames test.
const onePointFiveDBPowerFactor = 1.41253754462275
