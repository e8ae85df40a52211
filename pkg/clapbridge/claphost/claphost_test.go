package claphost

import (
	"errors"
	"math"
	"os"
	"testing"

	"github.com/justyntemme/picosine/internal/picosine"
	"github.com/justyntemme/picosine/pkg/clap"
	"github.com/justyntemme/picosine/pkg/plugin"
)

const (
	testRate  = 48000
	testBlock = 256
)

func TestMain(m *testing.M) {
	plugin.Register(picosine.Plugin{})
	os.Exit(m.Run())
}

func open(t *testing.T) *Host {
	t.Helper()
	h, err := Open("/tmp/PicoSine.clap")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(h.Close)
	return h
}

func create(t *testing.T, h *Host) *Plugin {
	t.Helper()
	p, err := h.Create(picosine.ID)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	t.Cleanup(func() {
		if p.p != nil {
			p.Destroy()
		}
	})
	if !p.Init() {
		t.Fatal("init returned false")
	}
	return p
}

func start(t *testing.T, p *Plugin) {
	t.Helper()
	if !p.Activate(testRate, 1, testBlock) {
		t.Fatal("activate returned false")
	}
	if !p.StartProcessing() {
		t.Fatal("start_processing returned false")
	}
	t.Cleanup(func() {
		if p.p != nil {
			p.StopProcessing()
			p.Deactivate()
		}
	})
}

func expected(freq float64, n int) float64 {
	return math.Sin(2*math.Pi*freq*float64(n)/testRate) * picosine.Gain
}

func TestEntry(t *testing.T) {
	h := open(t)

	if major, _, _ := h.Version(); major != 1 {
		t.Errorf("Expected clap major version 1, got %d", major)
	}
	if !h.HasFactory(clap.PluginFactoryID) {
		t.Error("Expected plugin factory")
	}
	if h.HasFactory("clap.unknown-factory") {
		t.Error("Expected no factory for unknown id")
	}
	if h.Count() != 1 {
		t.Fatalf("Expected 1 plugin, got %d", h.Count())
	}

	d, ok := h.Descriptor(0)
	if !ok {
		t.Fatal("Expected descriptor 0")
	}
	if d.ID != picosine.ID || d.Name != picosine.Name {
		t.Errorf("Expected %s/%s, got %s/%s", picosine.ID, picosine.Name, d.ID, d.Name)
	}
	if d.Vendor != "" || d.URL != "" || d.Version != "" || d.Description != "" {
		t.Errorf("Expected empty optional fields, got %+v", d)
	}
	if len(d.Features) != 2 || d.Features[0] != clap.FeatureSynthesizer || d.Features[1] != clap.FeatureStereo {
		t.Errorf("Expected features [synthesizer stereo], got %v", d.Features)
	}
	if _, ok := h.Descriptor(1); ok {
		t.Error("Expected no descriptor at index 1")
	}
}

func TestEntryRefCount(t *testing.T) {
	outer := open(t)
	inner, err := Open("/tmp/PicoSine.clap")
	if err != nil {
		t.Fatal(err)
	}
	inner.Close()

	if outer.Count() != 1 {
		t.Errorf("Expected descriptors to survive a nested deinit, got %d", outer.Count())
	}
}

func TestCreate(t *testing.T) {
	h := open(t)

	if _, err := h.Create("com.example.unknown"); !errors.Is(err, ErrCreate) {
		t.Errorf("Expected ErrCreate, got %v", err)
	}

	p := create(t, h)
	if d := p.Descriptor(); d.ID != picosine.ID {
		t.Errorf("Expected plugin descriptor %s, got %s", picosine.ID, d.ID)
	}
	for _, id := range []string{clap.ExtAudioPorts, clap.ExtParams} {
		if !p.HasExtension(id) {
			t.Errorf("Expected extension %s", id)
		}
	}
	if p.HasExtension("clap.state") {
		t.Error("Expected no state extension")
	}
}

func TestAudioPorts(t *testing.T) {
	p := create(t, open(t))

	for _, isInput := range []bool{true, false} {
		if n := p.PortCount(isInput); n != 1 {
			t.Errorf("Expected 1 port (input=%v), got %d", isInput, n)
		}

		info, ok := p.PortInfo(0, isInput)
		if !ok {
			t.Fatalf("audio_ports.get(0, %v) returned false", isInput)
		}
		if info.ID != 0 || info.Name != "main" || info.ChannelCount != 2 {
			t.Errorf("Unexpected port %s", info)
		}
		if !info.TypeSet || info.PortType != clap.PortStereo {
			t.Errorf("Expected port type %q, got %s", clap.PortStereo, info)
		}
		if info.Flags&clap.AudioPortIsMain == 0 {
			t.Errorf("Expected main port flag, got %s", info)
		}
	}

	if _, ok := p.PortInfo(1, false); ok {
		t.Error("Expected audio_ports.get(1) to fail")
	}
}

func TestParams(t *testing.T) {
	p := create(t, open(t))

	if p.ParamCount() != 1 {
		t.Fatalf("Expected 1 parameter, got %d", p.ParamCount())
	}
	info, ok := p.ParamInfo(0)
	if !ok {
		t.Fatal("params.get_info(0) returned false")
	}
	if info.ID != picosine.ParamFrequency || info.Name != "Frequency" || info.Module != picosine.FrequencyModule {
		t.Errorf("Unexpected parameter %+v", info)
	}
	if info.MinValue != 30 || info.MaxValue != 1000 || info.DefaultValue != 440 {
		t.Errorf("Expected range 30..1000 default 440, got %+v", info)
	}
	if info.Flags&clap.ParamIsStepped == 0 {
		t.Error("Frequency should be stepped")
	}
	if _, ok := p.ParamInfo(1); ok {
		t.Error("Expected params.get_info(1) to fail")
	}

	if v, ok := p.ParamValue(0); !ok || v != 440 {
		t.Errorf("Expected value 440, got %v (%v)", v, ok)
	}
	if _, ok := p.ParamValue(7); ok {
		t.Error("Expected get_value for unknown id to fail")
	}

	t.Run("ValueToText", func(t *testing.T) {
		tests := []struct {
			value    float64
			capacity int
			want     string
		}{
			{440, 64, "440 hz"},
			{440.9, 64, "440 hz"},
			{1000, 64, "1000 hz"},
			{440, 4, "440"},
		}
		for _, tt := range tests {
			got, ok := p.ValueToText(0, tt.value, tt.capacity)
			if !ok || got != tt.want {
				t.Errorf("Expected %q for %g (cap %d), got %q (%v)", tt.want, tt.value, tt.capacity, got, ok)
			}
		}
	})

	t.Run("TextToValue", func(t *testing.T) {
		tests := []struct {
			text string
			want float64
			ok   bool
		}{
			{"250 hz", 250, true},
			{"250.7", 250, true},
			{"hello", 0, false},
		}
		for _, tt := range tests {
			got, ok := p.TextToValue(0, tt.text)
			if ok != tt.ok || (ok && got != tt.want) {
				t.Errorf("Expected %v (%v) for %q, got %v (%v)", tt.want, tt.ok, tt.text, got, ok)
			}
		}
	})
}

func TestFlush(t *testing.T) {
	p := create(t, open(t))

	tests := []struct {
		name  string
		value float64
		want  float64
	}{
		{"in range", 300, 300},
		{"fraction truncated", 300.9, 300},
		{"above max", 5000, 1000},
		{"nan resets to default", math.NaN(), 440},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p.Flush([]ParamEvent{{ParamID: picosine.ParamFrequency, Value: tt.value}})
			if v, _ := p.ParamValue(0); v != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, v)
			}
		})
	}
}

func TestProcessBeforeStart(t *testing.T) {
	p := create(t, open(t))
	if !p.Activate(testRate, 1, testBlock) {
		t.Fatal("activate returned false")
	}
	defer p.Deactivate()

	res := p.Process(2, Block{Frames: testBlock})
	if res.Status != clap.ProcessError {
		t.Errorf("Expected ProcessError before start_processing, got %v", res.Status)
	}
}

func TestProcess(t *testing.T) {
	tests := []struct {
		name        string
		use64       bool
		nilChannels []int
	}{
		{"float32", false, nil},
		{"float64", true, nil},
		{"float32 null right", false, []int{1}},
		{"float64 null left", true, []int{0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := create(t, open(t))
			start(t, p)

			for block := 0; block < 3; block++ {
				res := p.Process(2, Block{
					Frames:      testBlock,
					SteadyTime:  int64(block * testBlock),
					Use64:       tt.use64,
					NilChannels: tt.nilChannels,
				})
				if res.Status != clap.ProcessContinue {
					t.Fatalf("Expected ProcessContinue, got %v", res.Status)
				}
				checkBlock(t, res, 440, block*testBlock, tt.use64)
				for _, ch := range tt.nilChannels {
					if res.Outputs[ch] != nil {
						t.Errorf("Expected channel %d to stay NULL", ch)
					}
				}
			}
		})
	}
}

func TestProcessParamEvents(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  float64
	}{
		{"whole hertz", 220, 220},
		{"fraction truncated", 220.7, 220},
		{"below min", 1, 30},
		{"nan resets to default", math.NaN(), 440},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := create(t, open(t))
			start(t, p)

			res := p.Process(2, Block{Frames: testBlock, Use64: true})
			checkBlock(t, res, 440, 0, true)

			res = p.Process(2, Block{
				Frames: testBlock,
				Use64:  true,
				Events: []ParamEvent{{ParamID: picosine.ParamFrequency, Value: tt.value}},
			})
			checkBlock(t, res, tt.want, testBlock, true)

			if v, _ := p.ParamValue(0); v != tt.want {
				t.Errorf("Expected value %v, got %v", tt.want, v)
			}
		})
	}
}

func TestProcessAfterReset(t *testing.T) {
	p := create(t, open(t))
	start(t, p)

	p.Process(2, Block{Frames: testBlock})
	p.Reset()

	res := p.Process(2, Block{Frames: testBlock})
	checkBlock(t, res, 440, 0, false)
}

func checkBlock(t *testing.T, res Result, freq float64, offset int, use64 bool) {
	t.Helper()
	for ch, out := range res.Outputs {
		if out == nil {
			continue
		}
		if len(out) != testBlock {
			t.Fatalf("Expected %d frames on channel %d, got %d", testBlock, ch, len(out))
		}
		for i, got := range out {
			want := expected(freq, offset+i)
			if !use64 {
				want = float64(float32(want))
			}
			if got != want {
				t.Fatalf("Expected channel %d sample %d = %v, got %v", ch, offset+i, want, got)
			}
		}
	}
}
