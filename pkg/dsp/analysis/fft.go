package analysis

import (
	"fmt"
	"math"
)

// WindowFunc represents a window function type
type WindowFunc int

const (
	RectangularWindow WindowFunc = iota
	HannWindow
	BlackmanHarrisWindow
)

// String returns the window name.
func (w WindowFunc) String() string {
	switch w {
	case RectangularWindow:
		return "rectangular"
	case HannWindow:
		return "hann"
	case BlackmanHarrisWindow:
		return "blackman-harris"
	default:
		return fmt.Sprintf("window(%d)", int(w))
	}
}

// FFT is a real-input radix-2 transform with precomputed window coefficients.
// It reuses its buffers, so the returned magnitude slice is only valid until
// the next call to Forward.
type FFT struct {
	size       int
	window     WindowFunc
	windowData []float64
	re         []float64
	im         []float64
	magnitude  []float64
}

// NewFFT creates a transform of the given size, which must be a power of two.
func NewFFT(size int, window WindowFunc) (*FFT, error) {
	if size < 2 || size&(size-1) != 0 {
		return nil, fmt.Errorf("fft size %d is not a power of two", size)
	}

	f := &FFT{
		size:       size,
		window:     window,
		windowData: make([]float64, size),
		re:         make([]float64, size),
		im:         make([]float64, size),
		magnitude:  make([]float64, size/2+1),
	}
	f.calculateWindow()
	return f, nil
}

// Size returns the transform length.
func (f *FFT) Size() int { return f.size }

// Window returns the window function.
func (f *FFT) Window() WindowFunc { return f.window }

func (f *FFT) calculateWindow() {
	n := float64(f.size)

	switch f.window {
	case HannWindow:
		for i := range f.windowData {
			f.windowData[i] = 0.5 * (1.0 - math.Cos(2.0*math.Pi*float64(i)/(n-1.0)))
		}

	case BlackmanHarrisWindow:
		a0, a1, a2, a3 := 0.35875, 0.48829, 0.14128, 0.01168
		for i := range f.windowData {
			x := 2.0 * math.Pi * float64(i) / (n - 1.0)
			f.windowData[i] = a0 - a1*math.Cos(x) + a2*math.Cos(2*x) - a3*math.Cos(3*x)
		}

	default:
		for i := range f.windowData {
			f.windowData[i] = 1.0
		}
	}
}

// Forward windows the input, zero-padding or truncating it to the transform
// size, and returns the magnitude of bins 0..size/2.
func (f *FFT) Forward(input []float64) []float64 {
	n := min(len(input), f.size)
	for i := 0; i < n; i++ {
		f.re[i] = input[i] * f.windowData[i]
	}
	clear(f.re[n:])
	clear(f.im)

	f.transform()

	for i := range f.magnitude {
		f.magnitude[i] = math.Hypot(f.re[i], f.im[i])
	}
	return f.magnitude
}

// transform runs an in-place iterative Cooley-Tukey FFT over re and im.
func (f *FFT) transform() {
	n := f.size
	re, im := f.re, f.im

	// Bit reversal
	j := 0
	for i := 0; i < n; i++ {
		if i < j {
			re[i], re[j] = re[j], re[i]
			im[i], im[j] = im[j], im[i]
		}
		m := n >> 1
		for m >= 1 && j >= m {
			j -= m
			m >>= 1
		}
		j += m
	}

	for stage := 2; stage <= n; stage <<= 1 {
		theta := -2.0 * math.Pi / float64(stage)
		wRe, wIm := math.Cos(theta), math.Sin(theta)
		half := stage / 2

		for k := 0; k < n; k += stage {
			tRe, tIm := 1.0, 0.0
			for j := 0; j < half; j++ {
				i1 := k + j
				i2 := i1 + half

				xRe := tRe*re[i2] - tIm*im[i2]
				xIm := tRe*im[i2] + tIm*re[i2]

				re[i2] = re[i1] - xRe
				im[i2] = im[i1] - xIm
				re[i1] += xRe
				im[i1] += xIm

				tRe, tIm = tRe*wRe-tIm*wIm, tRe*wIm+tIm*wRe
			}
		}
	}
}

// BinFrequency returns the centre frequency of a bin.
func (f *FFT) BinFrequency(bin float64, sampleRate float64) float64 {
	return bin * sampleRate / float64(f.size)
}

// PeakBin returns the index of the largest magnitude in [lo, hi), or -1 when
// the range is empty or silent.
func PeakBin(magnitude []float64, lo, hi int) int {
	lo = max(lo, 0)
	hi = min(hi, len(magnitude))

	peak, best := -1, 0.0
	for i := lo; i < hi; i++ {
		if magnitude[i] > best {
			peak, best = i, magnitude[i]
		}
	}
	return peak
}

// InterpolatePeak refines a peak bin by fitting a parabola through the log
// magnitudes of the bin and its neighbours. The result is a fractional bin.
func InterpolatePeak(magnitude []float64, bin int) float64 {
	if bin <= 0 || bin >= len(magnitude)-1 {
		return float64(bin)
	}

	a, b, c := magnitude[bin-1], magnitude[bin], magnitude[bin+1]
	if a <= 0 || b <= 0 || c <= 0 {
		return float64(bin)
	}
	la, lb, lc := math.Log(a), math.Log(b), math.Log(c)

	denom := la - 2*lb + lc
	if denom == 0 {
		return float64(bin)
	}
	return float64(bin) + 0.5*(la-lc)/denom
}

// MagnitudeDB converts a linear magnitude to decibels with a -120 dB floor.
func MagnitudeDB(mag float64) float64 {
	if mag <= 0 {
		return -120.0
	}
	return math.Max(20.0*math.Log10(mag), -120.0)
}
