// Package claphost drives the plugin linked into the current process through
// its clap_entry table, making the same C calls a CLAP host makes. All memory
// handed to the plugin is allocated in C.
package claphost

/*
#cgo CFLAGS: -I${SRCDIR}/../../../include
#include <stdlib.h>
#include <string.h>
#include "clap/clap.h"

static const void *host_get_extension(const clap_host_t *h, const char *id) { (void)h; (void)id; return NULL; }
static void host_request(const clap_host_t *h) { (void)h; }

static const clap_host_t host = {
    .clap_version = CLAP_VERSION_INIT,
    .host_data = NULL,
    .name = "claphost",
    .vendor = "picosine",
    .url = "",
    .version = "0.0.0",
    .get_extension = host_get_extension,
    .request_restart = host_request,
    .request_process = host_request,
    .request_callback = host_request,
};

static bool entry_init(const clap_plugin_entry_t *e, const char *path) { return e->init(path); }
static void entry_deinit(const clap_plugin_entry_t *e) { e->deinit(); }
static const clap_plugin_factory_t *entry_factory(const clap_plugin_entry_t *e, const char *id) {
    return (const clap_plugin_factory_t *)e->get_factory(id);
}

static uint32_t factory_count(const clap_plugin_factory_t *f) { return f->get_plugin_count(f); }
static const clap_plugin_descriptor_t *factory_descriptor(const clap_plugin_factory_t *f, uint32_t i) {
    return f->get_plugin_descriptor(f, i);
}
static const clap_plugin_t *factory_create(const clap_plugin_factory_t *f, const char *id) {
    return f->create_plugin(f, &host, id);
}

static bool plugin_init(const clap_plugin_t *p) { return p->init(p); }
static void plugin_destroy(const clap_plugin_t *p) { p->destroy(p); }
static bool plugin_activate(const clap_plugin_t *p, double sr, uint32_t min, uint32_t max) { return p->activate(p, sr, min, max); }
static void plugin_deactivate(const clap_plugin_t *p) { p->deactivate(p); }
static bool plugin_start(const clap_plugin_t *p) { return p->start_processing(p); }
static void plugin_stop(const clap_plugin_t *p) { p->stop_processing(p); }
static void plugin_reset(const clap_plugin_t *p) { p->reset(p); }
static clap_process_status plugin_process(const clap_plugin_t *p, const clap_process_t *proc) { return p->process(p, proc); }
static bool plugin_has_extension(const clap_plugin_t *p, const char *id) { return p->get_extension(p, id) != NULL; }

static const clap_plugin_audio_ports_t *ports_ext(const clap_plugin_t *p) {
    return (const clap_plugin_audio_ports_t *)p->get_extension(p, CLAP_EXT_AUDIO_PORTS);
}
static uint32_t ports_count(const clap_plugin_t *p, bool in) {
    const clap_plugin_audio_ports_t *ext = ports_ext(p);
    return ext ? ext->count(p, in) : 0;
}
static bool ports_get(const clap_plugin_t *p, uint32_t i, bool in, clap_audio_port_info_t *info) {
    const clap_plugin_audio_ports_t *ext = ports_ext(p);
    return ext ? ext->get(p, i, in, info) : false;
}

static const clap_plugin_params_t *params_ext(const clap_plugin_t *p) {
    return (const clap_plugin_params_t *)p->get_extension(p, CLAP_EXT_PARAMS);
}
static uint32_t params_count(const clap_plugin_t *p) {
    const clap_plugin_params_t *ext = params_ext(p);
    return ext ? ext->count(p) : 0;
}
static bool params_info(const clap_plugin_t *p, uint32_t i, clap_param_info_t *info) {
    const clap_plugin_params_t *ext = params_ext(p);
    return ext ? ext->get_info(p, i, info) : false;
}
static bool params_value(const clap_plugin_t *p, clap_id id, double *out) {
    const clap_plugin_params_t *ext = params_ext(p);
    return ext ? ext->get_value(p, id, out) : false;
}
static bool params_to_text(const clap_plugin_t *p, clap_id id, double v, char *buf, uint32_t cap) {
    const clap_plugin_params_t *ext = params_ext(p);
    return ext ? ext->value_to_text(p, id, v, buf, cap) : false;
}
static bool params_from_text(const clap_plugin_t *p, clap_id id, const char *text, double *out) {
    const clap_plugin_params_t *ext = params_ext(p);
    return ext ? ext->text_to_value(p, id, text, out) : false;
}

typedef struct {
    clap_input_events_t list;
    const clap_event_param_value_t *events;
    uint32_t count;
} host_in_events;

static uint32_t in_size(const clap_input_events_t *l) {
    return ((const host_in_events *)l->ctx)->count;
}
static const clap_event_header_t *in_get(const clap_input_events_t *l, uint32_t i) {
    const host_in_events *e = (const host_in_events *)l->ctx;
    return i < e->count ? &e->events[i].header : NULL;
}
static void in_events_init(host_in_events *e, const clap_event_param_value_t *events, uint32_t count) {
    e->list.ctx = e;
    e->list.size = in_size;
    e->list.get = in_get;
    e->events = events;
    e->count = count;
}

typedef struct {
    clap_output_events_t list;
    uint32_t pushed;
} host_out_events;

static bool out_try_push(const clap_output_events_t *l, const clap_event_header_t *ev) {
    (void)ev;
    ((host_out_events *)l->ctx)->pushed++;
    return true;
}
static void out_events_init(host_out_events *o) {
    o->list.ctx = o;
    o->list.try_push = out_try_push;
    o->pushed = 0;
}

static void params_flush(const clap_plugin_t *p, const host_in_events *in, host_out_events *out) {
    const clap_plugin_params_t *ext = params_ext(p);
    if (ext) {
        ext->flush(p, &in->list, &out->list);
    }
}

static void set_param_event(clap_event_param_value_t *evs, uint32_t i, uint32_t time, clap_id id, double value) {
    clap_event_param_value_t *ev = &evs[i];
    memset(ev, 0, sizeof(*ev));
    ev->header.size = sizeof(*ev);
    ev->header.time = time;
    ev->header.space_id = CLAP_CORE_EVENT_SPACE_ID;
    ev->header.type = CLAP_EVENT_PARAM_VALUE;
    ev->param_id = id;
    ev->note_id = -1;
    ev->port_index = -1;
    ev->channel = -1;
    ev->key = -1;
    ev->value = value;
}
*/
import "C"
import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/justyntemme/picosine/pkg/clap"
	"github.com/justyntemme/picosine/pkg/clapbridge"
)

// Errors returned by the host.
var (
	ErrInit    = errors.New("claphost: entry init failed")
	ErrFactory = errors.New("claphost: no plugin factory")
	ErrCreate  = errors.New("claphost: create_plugin returned NULL")
)

// Descriptor is a Go copy of a clap_plugin_descriptor_t.
type Descriptor struct {
	ID          string
	Name        string
	Vendor      string
	URL         string
	ManualURL   string
	SupportURL  string
	Version     string
	Description string
	Features    []string
}

// PortInfo is a Go copy of a clap_audio_port_info_t. TypeSet reports whether
// port_type was non-NULL.
type PortInfo struct {
	ID           clap.ID
	Name         string
	Flags        clap.AudioPortFlags
	ChannelCount uint32
	PortType     string
	TypeSet      bool
	InPlacePair  clap.ID
}

// ParamInfo is a Go copy of a clap_param_info_t.
type ParamInfo struct {
	ID           clap.ID
	Flags        clap.ParamInfoFlags
	Name         string
	Module       string
	MinValue     float64
	MaxValue     float64
	DefaultValue float64
}

// ParamEvent is a core CLAP_EVENT_PARAM_VALUE sent to the plugin.
type ParamEvent struct {
	Time    uint32
	ParamID clap.ID
	Value   float64
}

// Block describes one process call. Channels listed in NilChannels get a NULL
// pointer in the output buffer.
type Block struct {
	Frames      uint32
	SteadyTime  int64
	Use64       bool
	Events      []ParamEvent
	NilChannels []int
}

// Result holds what the plugin wrote. Output channels are widened to float64;
// NULL channels are nil.
type Result struct {
	Status    clap.ProcessStatus
	Outputs   [][]float64
	OutEvents int
}

// Host owns an initialised entry and its plugin factory.
type Host struct {
	entry   *C.clap_plugin_entry_t
	factory *C.clap_plugin_factory_t
}

// Open calls clap_entry.init with path and fetches the plugin factory.
func Open(path string) (*Host, error) {
	h := &Host{entry: (*C.clap_plugin_entry_t)(clapbridge.Entry())}

	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	if !bool(C.entry_init(h.entry, cpath)) {
		return nil, ErrInit
	}

	f := h.factoryByID(clap.PluginFactoryID)
	if f == nil {
		C.entry_deinit(h.entry)
		return nil, ErrFactory
	}
	h.factory = f
	return h, nil
}

// Close calls clap_entry.deinit.
func (h *Host) Close() {
	C.entry_deinit(h.entry)
}

// Version returns the clap_version the entry declares.
func (h *Host) Version() (major, minor, revision uint32) {
	v := h.entry.clap_version
	return uint32(v.major), uint32(v.minor), uint32(v.revision)
}

func (h *Host) factoryByID(id string) *C.clap_plugin_factory_t {
	cid := C.CString(id)
	defer C.free(unsafe.Pointer(cid))
	return C.entry_factory(h.entry, cid)
}

// HasFactory reports whether get_factory(id) is non-NULL.
func (h *Host) HasFactory(id string) bool {
	return h.factoryByID(id) != nil
}

// Count returns get_plugin_count.
func (h *Host) Count() int {
	return int(C.factory_count(h.factory))
}

// Descriptor copies get_plugin_descriptor(index).
func (h *Host) Descriptor(index int) (Descriptor, bool) {
	d := C.factory_descriptor(h.factory, C.uint32_t(index))
	if d == nil {
		return Descriptor{}, false
	}
	return copyDescriptor(d), true
}

func copyDescriptor(d *C.clap_plugin_descriptor_t) Descriptor {
	out := Descriptor{
		ID:          goString(d.id),
		Name:        goString(d.name),
		Vendor:      goString(d.vendor),
		URL:         goString(d.url),
		ManualURL:   goString(d.manual_url),
		SupportURL:  goString(d.support_url),
		Version:     goString(d.version),
		Description: goString(d.description),
	}
	if d.features == nil {
		return out
	}
	base := unsafe.Pointer(d.features)
	step := unsafe.Sizeof((*C.char)(nil))
	for i := uintptr(0); ; i++ {
		f := *(**C.char)(unsafe.Add(base, i*step))
		if f == nil {
			break
		}
		out.Features = append(out.Features, C.GoString(f))
	}
	return out
}

func goString(s *C.char) string {
	if s == nil {
		return ""
	}
	return C.GoString(s)
}

// Plugin is a clap_plugin_t created through the factory.
type Plugin struct {
	p *C.clap_plugin_t
}

// Create calls create_plugin with the host's clap_host_t.
func (h *Host) Create(id string) (*Plugin, error) {
	cid := C.CString(id)
	defer C.free(unsafe.Pointer(cid))

	p := C.factory_create(h.factory, cid)
	if p == nil {
		return nil, ErrCreate
	}
	return &Plugin{p: p}, nil
}

// Descriptor copies the descriptor the plugin points at.
func (p *Plugin) Descriptor() Descriptor {
	return copyDescriptor(p.p.desc)
}

// Init calls init.
func (p *Plugin) Init() bool {
	return bool(C.plugin_init(p.p))
}

// Destroy calls destroy. The plugin must not be used afterwards.
func (p *Plugin) Destroy() {
	C.plugin_destroy(p.p)
	p.p = nil
}

// Activate calls activate.
func (p *Plugin) Activate(sampleRate float64, minFrames, maxFrames uint32) bool {
	return bool(C.plugin_activate(p.p, C.double(sampleRate), C.uint32_t(minFrames), C.uint32_t(maxFrames)))
}

// Deactivate calls deactivate.
func (p *Plugin) Deactivate() {
	C.plugin_deactivate(p.p)
}

// StartProcessing calls start_processing.
func (p *Plugin) StartProcessing() bool {
	return bool(C.plugin_start(p.p))
}

// StopProcessing calls stop_processing.
func (p *Plugin) StopProcessing() {
	C.plugin_stop(p.p)
}

// Reset calls reset.
func (p *Plugin) Reset() {
	C.plugin_reset(p.p)
}

// HasExtension reports whether get_extension(id) is non-NULL.
func (p *Plugin) HasExtension(id string) bool {
	cid := C.CString(id)
	defer C.free(unsafe.Pointer(cid))
	return bool(C.plugin_has_extension(p.p, cid))
}

// PortCount calls audio_ports.count.
func (p *Plugin) PortCount(isInput bool) int {
	return int(C.ports_count(p.p, C.bool(isInput)))
}

// PortInfo calls audio_ports.get.
func (p *Plugin) PortInfo(index int, isInput bool) (PortInfo, bool) {
	info := (*C.clap_audio_port_info_t)(C.calloc(1, C.size_t(unsafe.Sizeof(C.clap_audio_port_info_t{}))))
	defer C.free(unsafe.Pointer(info))

	if !bool(C.ports_get(p.p, C.uint32_t(index), C.bool(isInput), info)) {
		return PortInfo{}, false
	}
	return PortInfo{
		ID:           clap.ID(info.id),
		Name:         C.GoString(&info.name[0]),
		Flags:        clap.AudioPortFlags(info.flags),
		ChannelCount: uint32(info.channel_count),
		PortType:     goString(info.port_type),
		TypeSet:      info.port_type != nil,
		InPlacePair:  clap.ID(info.in_place_pair),
	}, true
}

// ParamCount calls params.count.
func (p *Plugin) ParamCount() int {
	return int(C.params_count(p.p))
}

// ParamInfo calls params.get_info.
func (p *Plugin) ParamInfo(index int) (ParamInfo, bool) {
	info := (*C.clap_param_info_t)(C.calloc(1, C.size_t(unsafe.Sizeof(C.clap_param_info_t{}))))
	defer C.free(unsafe.Pointer(info))

	if !bool(C.params_info(p.p, C.uint32_t(index), info)) {
		return ParamInfo{}, false
	}
	return ParamInfo{
		ID:           clap.ID(info.id),
		Flags:        clap.ParamInfoFlags(info.flags),
		Name:         C.GoString(&info.name[0]),
		Module:       C.GoString(&info.module[0]),
		MinValue:     float64(info.min_value),
		MaxValue:     float64(info.max_value),
		DefaultValue: float64(info.default_value),
	}, true
}

// ParamValue calls params.get_value.
func (p *Plugin) ParamValue(id clap.ID) (float64, bool) {
	out := (*C.double)(C.malloc(C.size_t(unsafe.Sizeof(C.double(0)))))
	defer C.free(unsafe.Pointer(out))

	if !bool(C.params_value(p.p, C.clap_id(id), out)) {
		return 0, false
	}
	return float64(*out), true
}

// ValueToText calls params.value_to_text with a buffer of capacity bytes.
func (p *Plugin) ValueToText(id clap.ID, value float64, capacity int) (string, bool) {
	buf := (*C.char)(C.calloc(C.size_t(capacity+1), 1))
	defer C.free(unsafe.Pointer(buf))

	if !bool(C.params_to_text(p.p, C.clap_id(id), C.double(value), buf, C.uint32_t(capacity))) {
		return "", false
	}
	return C.GoString(buf), true
}

// TextToValue calls params.text_to_value.
func (p *Plugin) TextToValue(id clap.ID, text string) (float64, bool) {
	ctext := C.CString(text)
	defer C.free(unsafe.Pointer(ctext))
	out := (*C.double)(C.malloc(C.size_t(unsafe.Sizeof(C.double(0)))))
	defer C.free(unsafe.Pointer(out))

	if !bool(C.params_from_text(p.p, C.clap_id(id), ctext, out)) {
		return 0, false
	}
	return float64(*out), true
}

// Flush calls params.flush with events and returns the number of output
// events the plugin pushed.
func (p *Plugin) Flush(events []ParamEvent) int {
	in, freeIn := newInEvents(events)
	defer freeIn()
	out := (*C.host_out_events)(C.calloc(1, C.size_t(unsafe.Sizeof(C.host_out_events{}))))
	defer C.free(unsafe.Pointer(out))
	C.out_events_init(out)

	C.params_flush(p.p, in, out)
	return int(out.pushed)
}

func newInEvents(events []ParamEvent) (*C.host_in_events, func()) {
	var evs *C.clap_event_param_value_t
	if n := len(events); n > 0 {
		evs = (*C.clap_event_param_value_t)(C.calloc(C.size_t(n), C.size_t(unsafe.Sizeof(C.clap_event_param_value_t{}))))
		for i, ev := range events {
			C.set_param_event(evs, C.uint32_t(i), C.uint32_t(ev.Time), C.clap_id(ev.ParamID), C.double(ev.Value))
		}
	}
	in := (*C.host_in_events)(C.calloc(1, C.size_t(unsafe.Sizeof(C.host_in_events{}))))
	C.in_events_init(in, evs, C.uint32_t(len(events)))

	return in, func() {
		C.free(unsafe.Pointer(in))
		if evs != nil {
			C.free(unsafe.Pointer(evs))
		}
	}
}

// cBlock is the C memory behind one process call.
type cBlock struct {
	allocs []unsafe.Pointer
}

func (b *cBlock) calloc(n, size uintptr) unsafe.Pointer {
	if n == 0 {
		n = 1
	}
	p := C.calloc(C.size_t(n), C.size_t(size))
	b.allocs = append(b.allocs, p)
	return p
}

func (b *cBlock) free() {
	for _, p := range b.allocs {
		C.free(p)
	}
	b.allocs = nil
}

// audioBuffer allocates a clap_audio_buffer_t with channels channels of
// frames samples. Channels in skip are left NULL.
func (b *cBlock) audioBuffer(channels int, frames uint32, use64 bool, skip []int) *C.clap_audio_buffer_t {
	buf := (*C.clap_audio_buffer_t)(b.calloc(1, unsafe.Sizeof(C.clap_audio_buffer_t{})))
	buf.channel_count = C.uint32_t(channels)

	ptrs := b.calloc(uintptr(channels), unsafe.Sizeof(unsafe.Pointer(nil)))
	list := unsafe.Slice((*unsafe.Pointer)(ptrs), channels)
	sample := unsafe.Sizeof(C.float(0))
	if use64 {
		sample = unsafe.Sizeof(C.double(0))
	}
	for ch := range list {
		if contains(skip, ch) {
			continue
		}
		list[ch] = b.calloc(uintptr(frames), sample)
	}

	if use64 {
		buf.data64 = (**C.double)(ptrs)
	} else {
		buf.data32 = (**C.float)(ptrs)
	}
	return buf
}

func contains(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

// Process builds a clap_process_t with one input and one output port of
// channels channels, calls process and copies the outputs back.
func (p *Plugin) Process(channels int, blk Block) Result {
	var b cBlock
	defer b.free()

	in, freeIn := newInEvents(blk.Events)
	defer freeIn()
	out := (*C.host_out_events)(b.calloc(1, unsafe.Sizeof(C.host_out_events{})))
	C.out_events_init(out)

	proc := (*C.clap_process_t)(b.calloc(1, unsafe.Sizeof(C.clap_process_t{})))
	proc.steady_time = C.int64_t(blk.SteadyTime)
	proc.frames_count = C.uint32_t(blk.Frames)
	proc.audio_inputs = b.audioBuffer(channels, blk.Frames, blk.Use64, nil)
	proc.audio_inputs_count = 1
	proc.audio_outputs = b.audioBuffer(channels, blk.Frames, blk.Use64, blk.NilChannels)
	proc.audio_outputs_count = 1
	proc.in_events = &in.list
	proc.out_events = &out.list

	res := Result{Status: clap.ProcessStatus(C.plugin_process(p.p, proc))}
	res.OutEvents = int(out.pushed)
	res.Outputs = readOutputs(proc.audio_outputs, channels, int(blk.Frames), blk.Use64)
	return res
}

func readOutputs(buf *C.clap_audio_buffer_t, channels, frames int, use64 bool) [][]float64 {
	out := make([][]float64, channels)
	if use64 {
		for ch, data := range unsafe.Slice(buf.data64, channels) {
			if data == nil {
				continue
			}
			out[ch] = make([]float64, frames)
			for i, v := range unsafe.Slice((*float64)(unsafe.Pointer(data)), frames) {
				out[ch][i] = v
			}
		}
		return out
	}
	for ch, data := range unsafe.Slice(buf.data32, channels) {
		if data == nil {
			continue
		}
		out[ch] = make([]float64, frames)
		for i, v := range unsafe.Slice((*float32)(unsafe.Pointer(data)), frames) {
			out[ch][i] = float64(v)
		}
	}
	return out
}

// String formats a port for test failures.
func (i PortInfo) String() string {
	return fmt.Sprintf("%d %q flags=%v channels=%d type=%q pair=%d", i.ID, i.Name, i.Flags, i.ChannelCount, i.PortType, i.InPlacePair)
}
