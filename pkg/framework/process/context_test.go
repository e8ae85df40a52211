package process

import (
	"testing"

	"github.com/justyntemme/picosine/pkg/clap"
	"github.com/justyntemme/picosine/pkg/framework/bus"
)

func TestWriteOutputsPrefers64(t *testing.T) {
	ctx := NewContext(8)
	ctx.FramesCount = 4
	ctx.Outputs = []AudioBuffer{
		{
			Data32: [][]float32{make([]float32, 4), make([]float32, 4)},
			Data64: [][]float64{make([]float64, 4), make([]float64, 4)},
		},
		{
			Data32: [][]float32{make([]float32, 4)},
		},
	}

	var calls32, calls64 int
	ctx.WriteOutputs(func(port, ch int, out []float32) {
		calls32++
		if port != 1 {
			t.Errorf("32-bit callback for port %d, expected only port 1", port)
		}
	}, func(port, ch int, out []float64) {
		calls64++
		if port != 0 {
			t.Errorf("64-bit callback for port %d, expected only port 0", port)
		}
	})

	if calls64 != 2 {
		t.Errorf("Expected 2 64-bit channel calls, got %d", calls64)
	}
	if calls32 != 1 {
		t.Errorf("Expected 1 32-bit channel call, got %d", calls32)
	}
}

func TestWriteOutputsSlicesToFrames(t *testing.T) {
	ctx := NewContext(0)
	ctx.FramesCount = 3
	ctx.Outputs = []AudioBuffer{{Data32: [][]float32{make([]float32, 16), nil}}}

	seen := 0
	ctx.WriteOutputs(func(_, ch int, out []float32) {
		seen++
		if len(out) != 3 {
			t.Errorf("Expected 3 frames, got %d", len(out))
		}
	}, func(int, int, []float64) {
		t.Error("Unexpected 64-bit callback")
	})

	if seen != 1 {
		t.Errorf("Expected nil channel to be skipped, got %d calls", seen)
	}
}

func TestClear(t *testing.T) {
	ctx := NewContext(0)
	ctx.FramesCount = 2
	ctx.Outputs = []AudioBuffer{{Data64: [][]float64{{1, 2, 3}}}}

	ctx.Clear()

	got := ctx.Outputs[0].Data64[0]
	if got[0] != 0 || got[1] != 0 {
		t.Errorf("Expected first two frames cleared, got %v", got)
	}
	if got[2] != 3 {
		t.Errorf("Frames past FramesCount must be untouched, got %v", got)
	}
}

func TestParamValueEvents(t *testing.T) {
	ctx := NewContext(4)
	ctx.AddInputEvent(clap.NewParamValue(0, 0, 220))
	ctx.AddInputEvent(clap.Event{EventHeader: clap.EventHeader{Type: clap.EventNoteOn}})
	ctx.AddInputEvent(clap.NewParamValue(10, 3, 1))

	if !ctx.HasInputEvents() {
		t.Fatal("Expected input events")
	}

	var ids []clap.ID
	for _, ev := range ctx.InputEvents {
		if ev.IsParamValue() {
			ids = append(ids, ev.ParamID)
		}
	}
	if len(ids) != 2 || ids[0] != 0 || ids[1] != 3 {
		t.Errorf("Expected param ids [0 3], got %v", ids)
	}

	ctx.PushOutputEvent(clap.NewParamValue(0, 0, 1))
	ctx.ClearEvents()
	if ctx.HasInputEvents() || len(ctx.OutputEvents) != 0 {
		t.Error("Expected both event lists empty after ClearEvents")
	}
	if cap(ctx.InputEvents) != 4 {
		t.Errorf("Expected capacity kept, got %d", cap(ctx.InputEvents))
	}
}

func TestAudioBufferChannels(t *testing.T) {
	b := AudioBuffer{Data32: [][]float32{nil, nil}}
	if b.Is64() || b.Channels() != 2 {
		t.Errorf("Expected 2 32-bit channels, got is64=%v channels=%d", b.Is64(), b.Channels())
	}
	b.Data64 = [][]float64{nil}
	if !b.Is64() || b.Channels() != 1 {
		t.Errorf("Expected 1 64-bit channel, got is64=%v channels=%d", b.Is64(), b.Channels())
	}
}

func TestNewPortContext(t *testing.T) {
	ports := bus.NewBuilder().
		WithStereoInput(0, "in").
		WithStereoOutput(0, "out").
		WithMonoOutput(1, "aux").
		MustBuild()

	ctx := NewPortContext(ports, 16)

	if len(ctx.Inputs) != 1 || len(ctx.Outputs) != 2 {
		t.Fatalf("Expected 1 input and 2 outputs, got %d and %d", len(ctx.Inputs), len(ctx.Outputs))
	}
	if cap(ctx.Outputs[0].Data64) != 2 || cap(ctx.Outputs[1].Data32) != 1 {
		t.Errorf("Channel capacity does not match ports: %d, %d", cap(ctx.Outputs[0].Data64), cap(ctx.Outputs[1].Data32))
	}
	if ctx.Outputs[0].Channels() != 0 {
		t.Error("Buffers should start unbound")
	}
	if cap(ctx.InputEvents) != 16 || ctx.SteadyTime != -1 {
		t.Errorf("Unexpected event capacity %d or steady time %d", cap(ctx.InputEvents), ctx.SteadyTime)
	}
}
