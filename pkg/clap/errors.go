package clap

// Error is a sentinel error in the plugin ABI layer.
type Error int

const (
	ErrNotImplemented Error = iota + 1
	ErrInvalidArgument
	ErrInvalidIndex
	ErrUnknownParam
	ErrUnknownPlugin
	ErrInvalidState
	ErrNotActive
	ErrAlreadyActive
)

func (e Error) Error() string {
	switch e {
	case ErrNotImplemented:
		return "not implemented"
	case ErrInvalidArgument:
		return "invalid argument"
	case ErrInvalidIndex:
		return "index out of range"
	case ErrUnknownParam:
		return "unknown parameter id"
	case ErrUnknownPlugin:
		return "unknown plugin id"
	case ErrInvalidState:
		return "call not valid in current lifecycle state"
	case ErrNotActive:
		return "plugin is not active"
	case ErrAlreadyActive:
		return "plugin is already active"
	default:
		return "unknown error"
	}
}
