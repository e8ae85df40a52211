package preview

import (
	"fmt"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/justyntemme/picosine/pkg/host"
)

// Player plays a host through the system audio device.
type Player struct {
	ctx    *oto.Context
	player *oto.Player
	stream *Stream
}

// NewPlayer opens the audio device and starts playback. Only one player may
// exist per process.
func NewPlayer(h *host.Host, buffer time.Duration) (*Player, error) {
	cfg := h.Config()
	op := &oto.NewContextOptions{
		SampleRate:   int(cfg.SampleRate),
		ChannelCount: h.MainOutputChannels(),
		Format:       oto.FormatFloat32LE,
		BufferSize:   buffer,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("open audio device: %w", err)
	}
	<-ready

	stream := NewStream(h)
	player := ctx.NewPlayer(stream)
	player.Play()

	return &Player{ctx: ctx, player: player, stream: stream}, nil
}

// Levels reports the measured output.
func (p *Player) Levels() Levels {
	return p.stream
}

// Err reports a playback error, if any.
func (p *Player) Err() error {
	return p.player.Err()
}

// Close stops playback. The host must only be closed afterwards.
func (p *Player) Close() error {
	p.player.Pause()
	return p.player.Close()
}
