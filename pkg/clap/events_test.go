package clap

import "testing"

func TestNewParamValue(t *testing.T) {
	ev := NewParamValue(12, 0, 440)

	if !ev.IsParamValue() {
		t.Fatal("Expected param value event")
	}
	if ev.Time != 12 {
		t.Errorf("Expected time 12, got %d", ev.Time)
	}
	if ev.NoteID != -1 || ev.PortIndex != -1 || ev.Channel != -1 || ev.Key != -1 {
		t.Errorf("Expected wildcard note/port/channel/key, got %+v", ev)
	}
}

func TestIsParamValueRequiresCoreSpace(t *testing.T) {
	ev := NewParamValue(0, 0, 1)
	ev.SpaceID = 7
	if ev.IsParamValue() {
		t.Error("Event from a foreign space must not be treated as param value")
	}
}

func TestEventListSortStable(t *testing.T) {
	list := EventList{
		NewParamValue(30, 0, 1),
		NewParamValue(10, 0, 2),
		NewParamValue(10, 0, 3),
		NewParamValue(0, 0, 4),
	}

	if list.Sorted() {
		t.Fatal("Expected unsorted list")
	}
	list.Sort()
	if !list.Sorted() {
		t.Fatal("Expected sorted list")
	}

	want := []float64{4, 2, 3, 1}
	for i, ev := range list {
		if ev.Value != want[i] {
			t.Errorf("Event %d: expected value %g, got %g", i, want[i], ev.Value)
		}
	}
}

func TestEventListInRange(t *testing.T) {
	list := EventList{
		NewParamValue(0, 0, 1),
		NewParamValue(64, 0, 2),
		NewParamValue(128, 0, 3),
		NewParamValue(200, 0, 4),
	}

	tests := []struct {
		name       string
		start, end uint32
		want       int
	}{
		{"Whole block", 0, 256, 4},
		{"First half", 0, 128, 2},
		{"Exclusive end", 64, 128, 1},
		{"Empty range", 129, 200, 0},
		{"Past the end", 300, 400, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(list.InRange(tt.start, tt.end)); got != tt.want {
				t.Errorf("Expected %d events, got %d", tt.want, got)
			}
		})
	}
}

func TestProcessStatusString(t *testing.T) {
	if ProcessContinue.String() != "continue" {
		t.Errorf("Expected 'continue', got %s", ProcessContinue.String())
	}
	if ProcessStatus(42).String() != "unknown" {
		t.Errorf("Expected 'unknown', got %s", ProcessStatus(42).String())
	}
}

func TestFlagValuesMatchABI(t *testing.T) {
	// Bit positions are part of the binary contract with hosts.
	if ParamIsStepped != 1 || ParamIsAutomatable != 32 || ParamIsEnum != 65536 {
		t.Error("Param flag values drifted from the CLAP header")
	}
	if AudioPortIsMain != 1 || AudioPortRequiresCommonSampleSize != 8 {
		t.Error("Audio port flag values drifted from the CLAP header")
	}
	if EventParamValue != 5 || EventMIDI2 != 12 {
		t.Error("Event type values drifted from the CLAP header")
	}
}

func TestVersionCompatible(t *testing.T) {
	if !Version.Compatible() {
		t.Error("Own version must be compatible")
	}
	if (VersionInfo{Major: 0, Minor: 9}).Compatible() {
		t.Error("0.x hosts are not ABI compatible")
	}
}
