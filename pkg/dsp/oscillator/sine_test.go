package oscillator

import (
	"math"
	"testing"
)

func TestSineAt(t *testing.T) {
	s := New(48000)

	tests := []struct {
		name string
		freq float64
		t    uint32
		i    int
		want float64
	}{
		{"origin", 440, 0, 0, 0},
		{"quarter period", 1000, 0, 12, 0.5},
		{"quarter via counter", 1000, 10, 2, 0.5},
		{"half period", 1000, 24, 0, 0},
		{"three quarters", 1000, 36, 0, -0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.At(tt.freq, tt.t, tt.i)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Expected %f, got %f", tt.want, got)
			}
		})
	}
}

func TestRenderMatchesAt(t *testing.T) {
	s := New(44100)
	s.SetTime(1234)

	out64 := make([]float64, 256)
	out32 := make([]float32, 256)
	s.Render64(out64, 440)
	s.Render32(out32, 440)

	for i := range out64 {
		want := s.At(440, 1234, i)
		if out64[i] != want {
			t.Fatalf("Render64[%d] = %v, want %v", i, out64[i], want)
		}
		if out32[i] != float32(want) {
			t.Fatalf("Render32[%d] = %v, want %v", i, out32[i], float32(want))
		}
	}

	if s.Time() != 1234 {
		t.Errorf("Render must not advance the counter, got %d", s.Time())
	}
}

func TestAdvanceWraps(t *testing.T) {
	s := New(48000)
	s.SetTime(math.MaxUint32 - 9)
	s.Advance(20)

	if s.Time() != 10 {
		t.Errorf("Expected counter 10 after wrap, got %d", s.Time())
	}

	s.Reset()
	if s.Time() != 0 {
		t.Errorf("Expected 0 after Reset, got %d", s.Time())
	}
}

func TestRenderAcrossWrapUsesWideIndex(t *testing.T) {
	s := New(48000)
	s.SetTime(math.MaxUint32)

	freq := 100.0
	out := make([]float64, 2)
	s.Render64(out, freq)

	want := s.At(freq, 0, 1<<32)
	if want != math.Sin(2*math.Pi*freq*(float64(math.MaxUint32)+1)/48000)*0.5 {
		t.Fatal("At does not widen the index")
	}
	if out[1] != want {
		t.Errorf("Expected %v for index past 2^32-1, got %v", want, out[1])
	}
}

func TestGainBoundsOutput(t *testing.T) {
	s := New(48000)
	s.SetGain(0.25)

	out := make([]float64, 4800)
	s.Render64(out, 997)

	for i, v := range out {
		if math.Abs(v) > 0.25+1e-12 {
			t.Fatalf("Sample %d = %f exceeds gain", i, v)
		}
	}
	if s.Gain() != 0.25 {
		t.Errorf("Expected gain 0.25, got %f", s.Gain())
	}
}

func TestRenderZeroSampleRate(t *testing.T) {
	s := New(0)
	out := []float32{1, 1, 1}
	s.Render32(out, 440)

	for i, v := range out {
		if v != 0 {
			t.Errorf("Expected silence at %d, got %f", i, v)
		}
	}
}

func BenchmarkRender32(b *testing.B) {
	s := New(48000)
	out := make([]float32, 512)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Render32(out, 440)
		s.Advance(512)
	}
}

func BenchmarkRender64(b *testing.B) {
	s := New(48000)
	out := make([]float64, 512)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Render64(out, 440)
		s.Advance(512)
	}
}
