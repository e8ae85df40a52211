package preview

import (
	"encoding/binary"
	"math"

	"github.com/justyntemme/picosine/pkg/host"
)

// Stream is an io.Reader of little-endian float32 interleaved frames pulled
// block by block from a host. The audio device goroutine is its only reader,
// so it is the audio thread; other goroutines talk to the plugin through
// host.SetParam.
type Stream struct {
	*monitor
	h        *host.Host
	channels int
	buf      []float32
	block    []float32
	pos      int
	err      error
}

// NewStream creates a stream over h.
func NewStream(h *host.Host) *Stream {
	cfg := h.Config()
	channels := h.MainOutputChannels()
	return &Stream{
		monitor:  newMonitor(cfg.SampleRate, int(cfg.BlockSize)),
		h:        h,
		channels: channels,
		buf:      make([]float32, int(cfg.BlockSize)*channels),
	}
}

// Read implements io.Reader. It fills p with whole samples only.
func (s *Stream) Read(p []byte) (int, error) {
	n := 0
	for n+4 <= len(p) {
		if s.pos >= len(s.block) {
			if err := s.fill(); err != nil {
				if n > 0 {
					return n, nil
				}
				return 0, err
			}
		}
		binary.LittleEndian.PutUint32(p[n:], math.Float32bits(s.block[s.pos]))
		s.pos++
		n += 4
	}
	return n, nil
}

func (s *Stream) fill() error {
	if s.err != nil {
		return s.err
	}
	if _, err := s.h.Process(s.h.Config().BlockSize); err != nil {
		s.err = err
		return err
	}
	s.block = s.buf[:s.h.Interleave(s.buf)]
	s.pos = 0
	s.observe(s.block, s.channels)
	return nil
}
