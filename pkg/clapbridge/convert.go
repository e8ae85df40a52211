package clapbridge

// #include "bridge.h"
import "C"
import (
	"unsafe"

	"github.com/justyntemme/picosine/pkg/clap"
	"github.com/justyntemme/picosine/pkg/framework/process"
	pluginapi "github.com/justyntemme/picosine/pkg/plugin"
)

// bindProcess points ctx at the host's buffers and copies the input events.
// Channel slices view C memory directly and are only valid for this block.
func bindProcess(ctx *process.Context, p *C.clap_process_t) {
	frames := int(p.frames_count)

	ctx.FramesCount = uint32(p.frames_count)
	ctx.SteadyTime = int64(p.steady_time)
	ctx.ClearEvents()
	ctx.Inputs = bindPorts(ctx.Inputs, p.audio_inputs, int(p.audio_inputs_count), frames)
	ctx.Outputs = bindPorts(ctx.Outputs, p.audio_outputs, int(p.audio_outputs_count), frames)
	ctx.InputEvents = appendEvents(ctx.InputEvents, p.in_events)
}

// bindPorts reuses bufs, growing it only when the host passes more ports than
// were configured.
func bindPorts(bufs []process.AudioBuffer, ports *C.clap_audio_buffer_t, count, frames int) []process.AudioBuffer {
	if ports == nil {
		count = 0
	}
	if count <= cap(bufs) {
		bufs = bufs[:count]
	}

	src := unsafe.Slice(ports, count)
	for i := range src {
		if i >= len(bufs) {
			bufs = append(bufs, process.AudioBuffer{})
		}
		dst := &bufs[i]
		port := &src[i]

		dst.Latency = uint32(port.latency)
		dst.ConstantMask = uint64(port.constant_mask)
		dst.Data32 = dst.Data32[:0]
		dst.Data64 = dst.Data64[:0]

		channels := int(port.channel_count)
		if port.data64 != nil {
			for _, ch := range unsafe.Slice(port.data64, channels) {
				if ch == nil {
					dst.Data64 = append(dst.Data64, nil)
					continue
				}
				dst.Data64 = append(dst.Data64, unsafe.Slice((*float64)(unsafe.Pointer(ch)), frames))
			}
		}
		if port.data32 != nil {
			for _, ch := range unsafe.Slice(port.data32, channels) {
				if ch == nil {
					dst.Data32 = append(dst.Data32, nil)
					continue
				}
				dst.Data32 = append(dst.Data32, unsafe.Slice((*float32)(unsafe.Pointer(ch)), frames))
			}
		}
	}
	return bufs
}

// appendEvents copies every event of a host list. Core param value and param
// mod payloads are decoded; other events keep only their header.
func appendEvents(dst clap.EventList, in *C.clap_input_events_t) clap.EventList {
	n := uint32(C.bridge_in_events_size(in))
	for i := uint32(0); i < n; i++ {
		h := C.bridge_in_events_get(in, C.uint32_t(i))
		if h == nil {
			continue
		}

		ev := clap.Event{EventHeader: clap.EventHeader{
			Time:    uint32(h.time),
			SpaceID: uint16(h.space_id),
			Type:    clap.EventType(h._type),
			Flags:   uint32(h.flags),
		}}

		if ev.SpaceID == clap.CoreEventSpaceID {
			switch ev.Type {
			case clap.EventParamValue:
				pv := (*C.clap_event_param_value_t)(unsafe.Pointer(h))
				ev.ParamID = clap.ID(pv.param_id)
				ev.NoteID = int32(pv.note_id)
				ev.PortIndex = int16(pv.port_index)
				ev.Channel = int16(pv.channel)
				ev.Key = int16(pv.key)
				ev.Value = float64(pv.value)
			case clap.EventParamMod:
				pm := (*C.clap_event_param_mod_t)(unsafe.Pointer(h))
				ev.ParamID = clap.ID(pm.param_id)
				ev.NoteID = int32(pm.note_id)
				ev.PortIndex = int16(pm.port_index)
				ev.Channel = int16(pm.channel)
				ev.Key = int16(pm.key)
				ev.Value = float64(pm.amount)
			}
		}
		dst = append(dst, ev)
	}

	if !dst.Sorted() {
		dst.Sort()
	}
	return dst
}

// pushOutputEvents forwards param value events the plugin produced.
func pushOutputEvents(events clap.EventList, out *C.clap_output_events_t) {
	for i := range events {
		ev := &events[i]
		if !ev.IsParamValue() {
			continue
		}
		if !bool(C.bridge_out_events_push_param_value(out, C.uint32_t(ev.Time), C.clap_id(ev.ParamID), C.double(ev.Value))) {
			log.Debug("clap: host rejected output event %s", ev)
			return
		}
	}
}

// flushScratch returns empty event storage for a flush call.
func flushScratch(inst *pluginapi.Instance) clap.EventList {
	if ctx := inst.Context(); ctx != nil {
		ctx.ClearEvents()
		return ctx.InputEvents
	}
	return nil
}

// copyCString writes s into a fixed C buffer, truncated and NUL terminated.
func copyCString(dst *C.char, capacity int, s string) {
	if dst == nil || capacity <= 0 {
		return
	}
	fitCString(unsafe.Slice((*byte)(unsafe.Pointer(dst)), capacity), s)
}

func portType(name string) *C.char {
	switch name {
	case clap.PortStereo:
		return C.bridge_port_type(true)
	case clap.PortMono:
		return C.bridge_port_type(false)
	default:
		return nil
	}
}
