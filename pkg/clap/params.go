package clap

// ParamInfoFlags mirrors the CLAP_PARAM_* bits.
type ParamInfoFlags uint32

const (
	ParamIsStepped               ParamInfoFlags = 1 << 0
	ParamIsPeriodic              ParamInfoFlags = 1 << 1
	ParamIsHidden                ParamInfoFlags = 1 << 2
	ParamIsReadonly              ParamInfoFlags = 1 << 3
	ParamIsBypass                ParamInfoFlags = 1 << 4
	ParamIsAutomatable           ParamInfoFlags = 1 << 5
	ParamIsAutomatablePerNoteID  ParamInfoFlags = 1 << 6
	ParamIsAutomatablePerKey     ParamInfoFlags = 1 << 7
	ParamIsAutomatablePerChannel ParamInfoFlags = 1 << 8
	ParamIsAutomatablePerPort    ParamInfoFlags = 1 << 9
	ParamIsModulatable           ParamInfoFlags = 1 << 10
	ParamIsModulatablePerNoteID  ParamInfoFlags = 1 << 11
	ParamIsModulatablePerKey     ParamInfoFlags = 1 << 12
	ParamIsModulatablePerChannel ParamInfoFlags = 1 << 13
	ParamIsModulatablePerPort    ParamInfoFlags = 1 << 14
	ParamRequiresProcess         ParamInfoFlags = 1 << 15
	ParamIsEnum                  ParamInfoFlags = 1 << 16
)

// Has reports whether all bits in mask are set.
func (f ParamInfoFlags) Has(mask ParamInfoFlags) bool {
	return f&mask == mask
}

var paramFlagNames = [...]string{
	"stepped", "periodic", "hidden", "readonly", "bypass",
	"automatable", "automatable per note id", "automatable per key",
	"automatable per channel", "automatable per port",
	"modulatable", "modulatable per note id", "modulatable per key",
	"modulatable per channel", "modulatable per port",
	"requires process", "enum",
}

// Names lists the set flags in bit order.
func (f ParamInfoFlags) Names() []string {
	var names []string
	for bit, name := range paramFlagNames {
		if f&(1<<bit) != 0 {
			names = append(names, name)
		}
	}
	return names
}

// ParamInfo mirrors clap_param_info_t. Values are plain (not normalized).
type ParamInfo struct {
	ID           ID
	Flags        ParamInfoFlags
	Name         string
	Module       string
	MinValue     float64
	MaxValue     float64
	DefaultValue float64
}
