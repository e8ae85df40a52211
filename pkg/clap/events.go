package clap

import (
	"fmt"
	"sort"
)

// CoreEventSpaceID is the event space of all events defined by the CLAP core.
const CoreEventSpaceID uint16 = 0

// EventType is the type field of clap_event_header_t in the core space.
type EventType uint16

const (
	EventNoteOn EventType = iota
	EventNoteOff
	EventNoteChoke
	EventNoteEnd
	EventNoteExpression
	EventParamValue
	EventParamMod
	EventParamGestureBegin
	EventParamGestureEnd
	EventTransport
	EventMIDI
	EventMIDISysex
	EventMIDI2
)

// Event flags.
const (
	EventIsLive     uint32 = 1 << 0
	EventDontRecord uint32 = 1 << 1
)

// EventHeader mirrors clap_event_header_t without the size field.
type EventHeader struct {
	Time    uint32
	SpaceID uint16
	Type    EventType
	Flags   uint32
}

// Event is a flat copy of one host event. Only header fields are meaningful for
// types the framework does not decode; param value and param mod events fill the
// remaining fields. Keeping it a plain value lets event lists live in
// preallocated slices on the audio thread.
type Event struct {
	EventHeader
	ParamID   ID
	NoteID    int32
	PortIndex int16
	Channel   int16
	Key       int16
	Value     float64
}

// NewParamValue builds a core param value event that applies to all notes.
func NewParamValue(time uint32, id ID, value float64) Event {
	return Event{
		EventHeader: EventHeader{Time: time, SpaceID: CoreEventSpaceID, Type: EventParamValue},
		ParamID:     id,
		NoteID:      -1,
		PortIndex:   -1,
		Channel:     -1,
		Key:         -1,
		Value:       value,
	}
}

// IsParamValue reports whether e is a core param value event.
func (e Event) IsParamValue() bool {
	return e.SpaceID == CoreEventSpaceID && e.Type == EventParamValue
}

func (e Event) String() string {
	if e.IsParamValue() {
		return fmt.Sprintf("ParamValue{id:%d, value:%g, time:%d}", e.ParamID, e.Value, e.Time)
	}
	return fmt.Sprintf("Event{space:%d, type:%d, time:%d}", e.SpaceID, e.Type, e.Time)
}

// EventList is an ordered list of events for one process block.
type EventList []Event

// Sort orders the list by time, keeping insertion order for equal times.
func (l EventList) Sort() {
	sort.SliceStable(l, func(i, j int) bool {
		return l[i].Time < l[j].Time
	})
}

// Sorted reports whether the list is in time order, as the host must deliver it.
func (l EventList) Sorted() bool {
	return sort.SliceIsSorted(l, func(i, j int) bool {
		return l[i].Time < l[j].Time
	})
}

// InRange returns the sub-slice of events with start <= Time < end. The list must
// be sorted.
func (l EventList) InRange(start, end uint32) EventList {
	lo := sort.Search(len(l), func(i int) bool { return l[i].Time >= start })
	hi := sort.Search(len(l), func(i int) bool { return l[i].Time >= end })
	if lo >= hi {
		return nil
	}
	return l[lo:hi]
}
