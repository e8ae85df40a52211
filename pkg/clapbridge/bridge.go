// Package clapbridge exports plugins registered with pkg/plugin through the
// CLAP C ABI. Importing it into a c-shared build defines the clap_entry symbol:
//
//	go build -buildmode=c-shared -o PicoSine.clap ./examples/picosine
//
// C code only ever sees opaque instance handles; every export resolves the
// handle to a *plugin.Instance and recovers panics before returning to the host.
package clapbridge

// #cgo CFLAGS: -I${SRCDIR}/../../include
// #include <stdlib.h>
// #include "bridge.h"
import "C"
import (
	"os"
	"sync"
	"unsafe"

	"github.com/justyntemme/picosine/pkg/framework/debug"
	"github.com/justyntemme/picosine/pkg/framework/plugin"
	pluginapi "github.com/justyntemme/picosine/pkg/plugin"
)

// Environment variables read at entry init.
const (
	EnvLogFile  = "PICOSINE_LOG"
	EnvLogLevel = "PICOSINE_LOG_LEVEL"
)

var (
	mu        sync.Mutex
	initCount int
	log       = debug.Default()
	descs     []descriptor
)

// descriptor pairs a registered plugin's info with its C copy.
type descriptor struct {
	info   plugin.Info
	c      *C.clap_plugin_descriptor_t
	allocs []unsafe.Pointer
}

// recoverPanic is deferred by every export so a Go panic never unwinds into the host.
func recoverPanic(operation string, onPanic func()) {
	if r := recover(); r != nil {
		log.Error("%s: recovered panic: %v", operation, r)
		if onPanic != nil {
			onPanic()
		}
	}
}

// Entry returns the address of the exported clap_entry table, for hosts
// running in the same process.
func Entry() unsafe.Pointer {
	return unsafe.Pointer(&C.clap_entry)
}

func setupLogging() {
	if path := os.Getenv(EnvLogFile); path != "" {
		if l, err := debug.NewFileLogger(path, "picosine", debug.DefaultFlags); err == nil {
			log = l
		} else {
			log.Warn("clap: %v", err)
		}
	}
	if s := os.Getenv(EnvLogLevel); s != "" {
		if level, err := debug.ParseLevel(s); err == nil {
			log.SetLevel(level)
		} else {
			log.Warn("clap: %v", err)
		}
	}
}

func newDescriptor(info plugin.Info) descriptor {
	d := descriptor{info: info}
	cstr := func(s string) *C.char {
		p := C.CString(s)
		d.allocs = append(d.allocs, unsafe.Pointer(p))
		return p
	}

	c := (*C.clap_plugin_descriptor_t)(C.calloc(1, C.size_t(unsafe.Sizeof(C.clap_plugin_descriptor_t{}))))
	d.allocs = append(d.allocs, unsafe.Pointer(c))

	c.clap_version = C.clap_version_t{major: C.CLAP_VERSION_MAJOR, minor: C.CLAP_VERSION_MINOR, revision: C.CLAP_VERSION_REVISION}
	c.id = cstr(info.ID)
	c.name = cstr(info.Name)
	c.vendor = cstr(info.Vendor)
	c.url = cstr(info.URL)
	c.manual_url = cstr(info.ManualURL)
	c.support_url = cstr(info.SupportURL)
	c.version = cstr(info.Version)
	c.description = cstr(info.Description)

	// NULL terminated feature list.
	n := len(info.Features)
	features := C.calloc(C.size_t(n+1), C.size_t(unsafe.Sizeof((*C.char)(nil))))
	d.allocs = append(d.allocs, features)
	list := unsafe.Slice((**C.char)(features), n+1)
	for i, f := range info.Features {
		list[i] = cstr(f)
	}
	list[n] = nil
	c.features = (**C.char)(features)

	d.c = c
	return d
}

func (d *descriptor) free() {
	for _, p := range d.allocs {
		C.free(p)
	}
	d.allocs = nil
	d.c = nil
}

//export GoEntryInit
func GoEntryInit(path *C.char) (ok C.bool) {
	defer recoverPanic("entry init", func() { ok = false })

	mu.Lock()
	defer mu.Unlock()

	initCount++
	if initCount > 1 {
		return true
	}

	setupLogging()
	for _, info := range pluginapi.Descriptors() {
		descs = append(descs, newDescriptor(info))
	}
	log.Info("clap: loaded %s with %d plugin(s)", C.GoString(path), len(descs))
	return true
}

//export GoEntryDeinit
func GoEntryDeinit() {
	defer recoverPanic("entry deinit", nil)

	mu.Lock()
	defer mu.Unlock()

	if initCount == 0 {
		return
	}
	initCount--
	if initCount > 0 {
		return
	}

	for i := range descs {
		descs[i].free()
	}
	descs = nil
	log.Info("clap: unloaded")
	if log != debug.Default() {
		_ = log.Close()
		log = debug.Default()
	}
}

//export GoFactoryCount
func GoFactoryCount() C.uint32_t {
	mu.Lock()
	defer mu.Unlock()
	return C.uint32_t(len(descs))
}

//export GoFactoryDescriptor
func GoFactoryDescriptor(index C.uint32_t) *C.clap_plugin_descriptor_t {
	mu.Lock()
	defer mu.Unlock()

	if int(index) >= len(descs) {
		return nil
	}
	return descs[index].c
}

//export GoFactoryCreate
func GoFactoryCreate(id *C.char, desc **C.clap_plugin_descriptor_t) (handle C.uintptr_t) {
	defer recoverPanic("create plugin", func() { handle = 0 })

	pluginID := C.GoString(id)

	mu.Lock()
	var c *C.clap_plugin_descriptor_t
	for i := range descs {
		if descs[i].info.ID == pluginID {
			c = descs[i].c
			break
		}
	}
	mu.Unlock()

	p, ok := pluginapi.Lookup(pluginID)
	if !ok || c == nil {
		log.Warn("clap: create: unknown plugin %q", pluginID)
		return 0
	}

	inst := pluginapi.NewInstance(p)
	inst.SetLogger(log)
	*desc = c
	return C.uintptr_t(pluginapi.Track(inst))
}
