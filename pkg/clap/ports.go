package clap

// AudioPortFlags mirrors the CLAP_AUDIO_PORT_* bits.
type AudioPortFlags uint32

const (
	AudioPortIsMain                   AudioPortFlags = 1 << 0
	AudioPortSupports64Bits           AudioPortFlags = 1 << 1
	AudioPortPrefers64Bits            AudioPortFlags = 1 << 2
	AudioPortRequiresCommonSampleSize AudioPortFlags = 1 << 3
)

// Has reports whether all bits in mask are set.
func (f AudioPortFlags) Has(mask AudioPortFlags) bool {
	return f&mask == mask
}

var audioPortFlagNames = []struct {
	flag AudioPortFlags
	name string
}{
	{AudioPortIsMain, "main"},
	{AudioPortSupports64Bits, "64-bit"},
	{AudioPortPrefers64Bits, "prefers 64-bit"},
	{AudioPortRequiresCommonSampleSize, "common sample size"},
}

// Names lists the set flags in bit order.
func (f AudioPortFlags) Names() []string {
	var names []string
	for _, n := range audioPortFlagNames {
		if f.Has(n.flag) {
			names = append(names, n.name)
		}
	}
	return names
}

// Port types.
const (
	PortMono   = "mono"
	PortStereo = "stereo"
)

// AudioPortInfo mirrors clap_audio_port_info_t.
type AudioPortInfo struct {
	ID           ID
	Name         string
	Flags        AudioPortFlags
	ChannelCount uint32
	PortType     string
	InPlacePair  ID
}
