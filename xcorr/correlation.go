// Package xcorr implements the two real-FFT-based transforms the EHS MOV
// kernel needs: a length-MaxLag autocorrelation-like sequence computed via
// a length-2*MaxLag real FFT, and a length-MaxLag forward real FFT used for
// cepstral peak picking. Both are built on gonum's real-input FFT, the same
// library this codebase's other spectral-analysis tooling uses for exactly
// this "windowed real frame → complex coefficients" shape.
package xcorr

import "gonum.org/v1/gonum/dsp/fourier"

// MaxLag is the fixed EHS autocorrelation length (BS.1387 MAXLAG).
const MaxLag = 256

// Correlator owns the two FFT plans the EHS kernel reuses across frames.
// gonum's *fourier.FFT holds twiddle-factor tables that are expensive to
// rebuild and safe to share across calls, so a Correlator is constructed
// once per MOV subsystem rather than per frame.
type Correlator struct {
	fwd2N *fourier.FFT // length 2*MaxLag, for the autocorrelation trick
	fwdN  *fourier.FFT // length MaxLag, for cepstral peak picking
}

// NewCorrelator allocates both FFT plans.
func NewCorrelator() *Correlator {
	return &Correlator{
		fwd2N: fourier.NewFFT(2 * MaxLag),
		fwdN:  fourier.NewFFT(MaxLag),
	}
}

// Autocorrelate computes c[i] = Σ_{k=0}^{MaxLag-1} d[k]·d[k+i] for
// i in [0, MaxLag), given d of length 2*MaxLag.
//
// This is the frequency-domain trick from BS.1387's reference decoder: FFT
// the full sequence, FFT the sequence with its second half zeroed, form the
// conjugate product (which is circular cross-correlation in the time
// domain), and inverse-FFT. Because the zeroed copy is nonzero only for
// k < MaxLag, every index k+i with i < MaxLag stays below 2*MaxLag and never
// wraps around the circle, so the first MaxLag samples of the circular
// correlation equal the linear correlation above.
func (c *Correlator) Autocorrelate(d []float64) []float64 {
	if len(d) != 2*MaxLag {
		panic("xcorr: Autocorrelate requires len(d) == 2*MaxLag")
	}
	full := c.fwd2N.Coefficients(nil, d)

	halved := make([]float64, 2*MaxLag)
	copy(halved[:MaxLag], d[:MaxLag])
	half := c.fwd2N.Coefficients(nil, halved)

	prod := make([]complex128, len(full))
	for i := range prod {
		f1, f2 := full[i], half[i]
		re := real(f1)*real(f2) + imag(f1)*imag(f2)
		im := real(f2)*imag(f1) - real(f1)*imag(f2)
		prod[i] = complex(re, im) / complex(2*MaxLag, 0)
	}

	inverse := c.fwd2N.Sequence(nil, prod)
	return inverse[:MaxLag]
}

// CepstralMagnitudes forward-transforms a length-MaxLag real sequence,
// zeroes the DC bin's real part (BS.1387's "subtract the mean after
// windowing" convention), and returns the squared magnitudes of the
// MaxLag/2+1 resulting coefficients.
func (c *Correlator) CepstralMagnitudes(windowed []float64) []float64 {
	if len(windowed) != MaxLag {
		panic("xcorr: CepstralMagnitudes requires len(windowed) == MaxLag")
	}
	coeffs := c.fwdN.Coefficients(nil, windowed)
	coeffs[0] = complex(0, imag(coeffs[0]))

	mags := make([]float64, len(coeffs))
	for i, v := range coeffs {
		mags[i] = real(v)*real(v) + imag(v)*imag(v)
	}
	return mags
}
