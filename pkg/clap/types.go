// Package clap holds the Go side of the CLAP plugin ABI: versions, ids, flags,
// process status codes and the event vocabulary. It has no cgo dependency so the
// framework and its tests can use it directly; pkg/clapbridge maps it to C.
package clap

// Version is the CLAP ABI version this module was written against.
var Version = VersionInfo{Major: 1, Minor: 2, Revision: 2}

// VersionInfo mirrors clap_version_t.
type VersionInfo struct {
	Major    uint32
	Minor    uint32
	Revision uint32
}

// Compatible reports whether a host built against v can load this plugin.
// CLAP 0.x releases are not ABI compatible with 1.x.
func (v VersionInfo) Compatible() bool {
	return v.Major >= 1
}

// ID is a CLAP object id (clap_id).
type ID = uint32

// InvalidID is CLAP_INVALID_ID.
const InvalidID ID = ^ID(0)

// Name and path buffer sizes used by the info structs.
const (
	NameSize = 256
	PathSize = 1024
)

// ProcessStatus is the value returned from a process call.
type ProcessStatus int32

const (
	// ProcessError tells the host processing failed; the output is discarded.
	ProcessError ProcessStatus = iota
	// ProcessContinue keeps processing regardless of input.
	ProcessContinue
	// ProcessContinueIfNotQuiet keeps processing while the output is not silent.
	ProcessContinueIfNotQuiet
	// ProcessTail asks the host to keep processing until the tail ends.
	ProcessTail
	// ProcessSleep allows the host to stop calling process until new events arrive.
	ProcessSleep
)

// String returns the status name.
func (s ProcessStatus) String() string {
	switch s {
	case ProcessError:
		return "error"
	case ProcessContinue:
		return "continue"
	case ProcessContinueIfNotQuiet:
		return "continue-if-not-quiet"
	case ProcessTail:
		return "tail"
	case ProcessSleep:
		return "sleep"
	default:
		return "unknown"
	}
}

// Factory and extension identifiers.
const (
	PluginFactoryID = "clap.plugin-factory"
	ExtAudioPorts   = "clap.audio-ports"
	ExtParams       = "clap.params"
)
