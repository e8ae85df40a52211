// Package bus describes the audio ports a plugin exposes to the host.
package bus

import "github.com/justyntemme/picosine/pkg/clap"

// Direction represents the port direction
type Direction int32

const (
	// DirectionInput represents input ports
	DirectionInput Direction = 0
	// DirectionOutput represents output ports
	DirectionOutput Direction = 1
)

// DirectionOf maps the host's is_input flag to a Direction.
func DirectionOf(isInput bool) Direction {
	if isInput {
		return DirectionInput
	}
	return DirectionOutput
}

func (d Direction) String() string {
	if d == DirectionInput {
		return "input"
	}
	return "output"
}

// Info contains the static description of one audio port
type Info struct {
	ID           uint32
	Name         string
	Direction    Direction
	ChannelCount uint32
	PortType     string // clap.PortMono, clap.PortStereo or "" for custom layouts
	IsMain       bool
	Supports64   bool
	InPlacePair  uint32 // clap.InvalidID when the port cannot process in place
}

// Flags returns the CLAP flag bits for the port.
func (i Info) Flags() clap.AudioPortFlags {
	var f clap.AudioPortFlags
	if i.IsMain {
		f |= clap.AudioPortIsMain
	}
	if i.Supports64 {
		f |= clap.AudioPortSupports64Bits
	}
	return f
}

// PortInfo returns the descriptor reported to the host.
func (i Info) PortInfo() clap.AudioPortInfo {
	return clap.AudioPortInfo{
		ID:           i.ID,
		Name:         i.Name,
		Flags:        i.Flags(),
		ChannelCount: i.ChannelCount,
		PortType:     i.PortType,
		InPlacePair:  i.InPlacePair,
	}
}

// Configuration holds the input and output ports in host-visible order
type Configuration struct {
	inputs  []Info
	outputs []Info
}

// Count returns the number of ports in a direction
func (c *Configuration) Count(direction Direction) uint32 {
	if direction == DirectionInput {
		return uint32(len(c.inputs))
	}
	return uint32(len(c.outputs))
}

// Get returns the port at index in a direction, or nil when out of range
func (c *Configuration) Get(direction Direction, index uint32) *Info {
	ports := c.outputs
	if direction == DirectionInput {
		ports = c.inputs
	}
	if index >= uint32(len(ports)) {
		return nil
	}
	return &ports[index]
}

// Main returns the main port of a direction, or nil
func (c *Configuration) Main(direction Direction) *Info {
	ports := c.outputs
	if direction == DirectionInput {
		ports = c.inputs
	}
	for i := range ports {
		if ports[i].IsMain {
			return &ports[i]
		}
	}
	return nil
}

// TotalChannels returns the channel count summed over a direction
func (c *Configuration) TotalChannels(direction Direction) uint32 {
	ports := c.outputs
	if direction == DirectionInput {
		ports = c.inputs
	}
	var n uint32
	for _, p := range ports {
		n += p.ChannelCount
	}
	return n
}
