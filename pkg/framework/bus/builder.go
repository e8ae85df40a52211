package bus

import (
	"fmt"

	"github.com/justyntemme/picosine/pkg/clap"
)

// maxChannels bounds a single port's channel count.
const maxChannels = 32

// Builder provides a fluent API for building port configurations
type Builder struct {
	config *Configuration
	errors []error
}

// NewBuilder creates a new port configuration builder
func NewBuilder() *Builder {
	return &Builder{
		config: &Configuration{},
	}
}

// WithInput adds an input port. The first input added is the main input.
func (b *Builder) WithInput(id uint32, name string, channels uint32, portType string) *Builder {
	b.config.inputs = append(b.config.inputs, Info{
		ID:           id,
		Name:         name,
		Direction:    DirectionInput,
		ChannelCount: channels,
		PortType:     portType,
		IsMain:       len(b.config.inputs) == 0,
		InPlacePair:  clap.InvalidID,
	})
	return b
}

// WithOutput adds an output port. The first output added is the main output.
func (b *Builder) WithOutput(id uint32, name string, channels uint32, portType string) *Builder {
	b.config.outputs = append(b.config.outputs, Info{
		ID:           id,
		Name:         name,
		Direction:    DirectionOutput,
		ChannelCount: channels,
		PortType:     portType,
		IsMain:       len(b.config.outputs) == 0,
		InPlacePair:  clap.InvalidID,
	})
	return b
}

// WithStereoInput is a convenience method for adding stereo input
func (b *Builder) WithStereoInput(id uint32, name string) *Builder {
	return b.WithInput(id, name, 2, clap.PortStereo)
}

// WithStereoOutput is a convenience method for adding stereo output
func (b *Builder) WithStereoOutput(id uint32, name string) *Builder {
	return b.WithOutput(id, name, 2, clap.PortStereo)
}

// WithMonoOutput is a convenience method for adding mono output
func (b *Builder) WithMonoOutput(id uint32, name string) *Builder {
	return b.WithOutput(id, name, 1, clap.PortMono)
}

// Supports64Bits marks every port added so far as accepting 64-bit buffers.
func (b *Builder) Supports64Bits() *Builder {
	for i := range b.config.inputs {
		b.config.inputs[i].Supports64 = true
	}
	for i := range b.config.outputs {
		b.config.outputs[i].Supports64 = true
	}
	return b
}

// InPlace pairs the input and output ports with the given ids.
func (b *Builder) InPlace(inputID, outputID uint32) *Builder {
	in := b.find(b.config.inputs, inputID)
	out := b.find(b.config.outputs, outputID)
	if in == nil || out == nil {
		b.errors = append(b.errors, fmt.Errorf("in-place pair %d/%d: port not found", inputID, outputID))
		return b
	}
	in.InPlacePair = outputID
	out.InPlacePair = inputID
	return b
}

func (b *Builder) find(ports []Info, id uint32) *Info {
	for i := range ports {
		if ports[i].ID == id {
			return &ports[i]
		}
	}
	return nil
}

// Validate checks if the configuration is valid
func (b *Builder) Validate() error {
	if len(b.errors) > 0 {
		return fmt.Errorf("builder errors: %v", b.errors)
	}

	if b.config.Main(DirectionOutput) == nil {
		return fmt.Errorf("configuration must have a main output port")
	}

	for _, ports := range [][]Info{b.config.inputs, b.config.outputs} {
		seen := make(map[uint32]bool, len(ports))
		for _, p := range ports {
			if p.ChannelCount == 0 {
				return fmt.Errorf("invalid channel count 0 for port %s", p.Name)
			}
			if p.ChannelCount > maxChannels {
				return fmt.Errorf("channel count %d exceeds maximum of %d for port %s", p.ChannelCount, maxChannels, p.Name)
			}
			if p.ID == clap.InvalidID {
				return fmt.Errorf("port %s uses the invalid id", p.Name)
			}
			if seen[p.ID] {
				return fmt.Errorf("duplicate %s port id %d", p.Direction, p.ID)
			}
			seen[p.ID] = true
			if p.PortType == clap.PortStereo && p.ChannelCount != 2 {
				return fmt.Errorf("stereo port %s must have 2 channels, has %d", p.Name, p.ChannelCount)
			}
			if p.PortType == clap.PortMono && p.ChannelCount != 1 {
				return fmt.Errorf("mono port %s must have 1 channel, has %d", p.Name, p.ChannelCount)
			}
		}
	}

	return nil
}

// Build returns the built configuration or an error
func (b *Builder) Build() (*Configuration, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b.config, nil
}

// MustBuild returns the built configuration or panics on error
func (b *Builder) MustBuild() *Configuration {
	config, err := b.Build()
	if err != nil {
		panic(err)
	}
	return config
}
