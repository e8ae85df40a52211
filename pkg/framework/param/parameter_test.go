package param

import (
	"math"
	"sync"
	"testing"

	"github.com/justyntemme/picosine/pkg/clap"
)

func TestAtomicFloat64(t *testing.T) {
	a := NewAtomicFloat64(440)
	if got := a.Load(); got != 440 {
		t.Fatalf("Expected 440, got %g", got)
	}

	if old := a.Swap(30); old != 440 {
		t.Errorf("Expected Swap to return 440, got %g", old)
	}
	if got := a.Load(); got != 30 {
		t.Errorf("Expected 30, got %g", got)
	}

	a.Store(math.Inf(-1))
	if got := a.Load(); !math.IsInf(got, -1) {
		t.Errorf("Expected -Inf to round trip, got %g", got)
	}
}

func TestAtomicFloat64ConcurrentWholeValues(t *testing.T) {
	var a AtomicFloat64
	a.Store(100)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 10000; i++ {
			if i%2 == 0 {
				a.Store(100)
			} else {
				a.Store(1000)
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 10000; i++ {
			if v := a.Load(); v != 100 && v != 1000 {
				t.Errorf("Torn read: %g", v)
				return
			}
		}
	}()
	wg.Wait()
}

func TestParameterValueClamped(t *testing.T) {
	p := New(0, "Frequency").Range(30, 1000).Default(440).Build()

	if got := p.Value(); got != 440 {
		t.Fatalf("Expected default 440, got %g", got)
	}

	tests := []struct {
		in, want float64
	}{
		{500, 500},
		{10, 30},
		{5000, 1000},
		{30, 30},
		{1000, 1000},
		{440.7, 440.7},
		{math.Inf(1), 1000},
		{math.Inf(-1), 30},
		{math.NaN(), 440},
	}
	for _, tt := range tests {
		p.SetValue(tt.in)
		if got := p.Value(); got != tt.want {
			t.Errorf("SetValue(%g): expected %g, got %g", tt.in, tt.want, got)
		}
	}

	p.Reset()
	if got := p.Value(); got != 440 {
		t.Errorf("Expected Reset to restore 440, got %g", got)
	}
}

func TestSteppedValueTruncated(t *testing.T) {
	p := WholeHertzParameter(0, "Frequency", 30, 1000, 440).Build()

	tests := []struct {
		name     string
		in, want float64
	}{
		{"whole", 500, 500},
		{"fraction", 440.7, 440},
		{"just below max", 999.99, 999},
		{"above max", 1000.5, 1000},
		{"below min", 29.9, 30},
		{"nan", math.NaN(), 440},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p.SetValue(tt.in)
			if got := p.Value(); got != tt.want {
				t.Errorf("Expected %g, got %g", tt.want, got)
			}
			if got := p.Constrain(tt.in); got != tt.want {
				t.Errorf("Expected Constrain to give %g, got %g", tt.want, got)
			}
		})
	}
}

func TestClampNaN(t *testing.T) {
	p := New(0, "Level").Range(-1, 1).Default(0.25).Build()
	if got := p.Clamp(math.NaN()); got != 0.25 {
		t.Errorf("Expected default 0.25, got %g", got)
	}
}

func TestParameterInfo(t *testing.T) {
	p := WholeHertzParameter(0, "Frequency", 30, 1000, 440).
		Module("picosine/frequency").
		Flags(clap.ParamIsStepped).
		Build()

	info := p.Info()
	if info.ID != 0 || info.Name != "Frequency" || info.Module != "picosine/frequency" {
		t.Errorf("Unexpected identity in %+v", info)
	}
	if info.MinValue != 30 || info.MaxValue != 1000 || info.DefaultValue != 440 {
		t.Errorf("Unexpected range in %+v", info)
	}
	if info.Flags != clap.ParamIsStepped {
		t.Errorf("Expected only the stepped flag, got %b", info.Flags)
	}
}

func TestNormalize(t *testing.T) {
	p := New(1, "Level").Range(-10, 10).Build()

	if got := p.Normalize(0); got != 0.5 {
		t.Errorf("Expected 0.5, got %g", got)
	}
	if got := p.Normalize(20); got != 1 {
		t.Errorf("Expected clamp to 1, got %g", got)
	}
	if got := p.Denormalize(0.25); got != -5 {
		t.Errorf("Expected -5, got %g", got)
	}

	flat := New(2, "Flat").Range(1, 1).Build()
	if got := flat.Normalize(1); got != 0 {
		t.Errorf("Expected 0 for empty range, got %g", got)
	}
}

func TestFormatAndParse(t *testing.T) {
	p := WholeHertzParameter(0, "Frequency", 30, 1000, 440).Build()

	if got := p.FormatValue(440); got != "440 hz" {
		t.Errorf("Expected '440 hz', got %q", got)
	}
	if got := p.FormatValue(440.9); got != "440 hz" {
		t.Errorf("Expected truncation to '440 hz', got %q", got)
	}

	v, err := p.ParseValue("250 hz")
	if err != nil {
		t.Fatalf("ParseValue error: %v", err)
	}
	if v != 250 {
		t.Errorf("Expected 250, got %g", v)
	}

	v, err = p.ParseValue("5 kHz")
	if err != nil {
		t.Fatalf("ParseValue error: %v", err)
	}
	if v != 1000 {
		t.Errorf("Expected clamp to 1000, got %g", v)
	}

	if _, err := p.ParseValue("loud"); err == nil {
		t.Error("Expected error for non-numeric text")
	}

	parse := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"250.7 hz", 250, false},
		{"0.4405 kHz", 440, false},
		{"999.9", 999, false},
		{"12", 30, false},
		{"nan khz", 0, true},
		{"inf khz", 0, true},
		{"inf", 0, true},
	}
	for _, tt := range parse {
		t.Run(tt.in, func(t *testing.T) {
			got, err := p.ParseValue(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Expected error %v, got %v", tt.wantErr, err)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Expected %g, got %g", tt.want, got)
			}
		})
	}
}

func TestDefaultFormatting(t *testing.T) {
	plain := New(3, "Amount").Range(0, 10).Build()
	if got := plain.FormatValue(2.5); got != "2.50" {
		t.Errorf("Expected '2.50', got %q", got)
	}

	withUnit := New(4, "Time").Range(0, 10).Unit("ms").Build()
	if got := withUnit.FormatValue(2.5); got != "2.50 ms" {
		t.Errorf("Expected '2.50 ms', got %q", got)
	}

	stepped := New(5, "Mode").Range(0, 3).Steps(3).Build()
	if got := stepped.FormatValue(2); got != "2" {
		t.Errorf("Expected '2', got %q", got)
	}
}

func TestBuilderFlags(t *testing.T) {
	p := New(0, "Meter").ReadOnly().Build()
	if p.Flags.Has(clap.ParamIsAutomatable) {
		t.Error("Read-only parameter must not be automatable")
	}
	if !p.Flags.Has(clap.ParamIsReadonly) {
		t.Error("Expected read-only flag")
	}

	p = New(1, "Mode").Stepped().Build()
	if !p.Flags.Has(clap.ParamIsStepped | clap.ParamIsAutomatable) {
		t.Errorf("Expected stepped and automatable flags, got %b", p.Flags)
	}

	p = New(2, "Fixed").Automatable(false).Hidden().Build()
	if p.Flags != clap.ParamIsHidden {
		t.Errorf("Expected only hidden flag, got %b", p.Flags)
	}
}
