package main

import (
	"encoding/binary"

	"github.com/ebitengine/oto/v3"
	"github.com/gordonklaus/portaudio"
)

// audioBackend abstracts the two supported output paths.
type audioBackend interface {
	Start() error
	Close() error
}

// --- portaudio ----------------------------------------------------

type portaudioBackend struct {
	stream *portaudio.Stream
}

func newPortaudioBackend(hz int, generate func([]int16)) (audioBackend, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}
	stream, err := portaudio.OpenDefaultStream(0, 2, float64(hz),
		portaudio.FramesPerBufferUnspecified, func(out []int16) {
			generate(out)
		})
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}
	return &portaudioBackend{stream: stream}, nil
}

func (b *portaudioBackend) Start() error { return b.stream.Start() }

func (b *portaudioBackend) Close() error {
	b.stream.Stop()
	err := b.stream.Close()
	portaudio.Terminate()
	return err
}

// --- oto ----------------------------------------------------------

type otoBackend struct {
	player *oto.Player
}

// otoStream adapts the generate callback to oto's io.Reader pull
// model.
type otoStream struct {
	generate func([]int16)
	buf      []int16
}

func (s *otoStream) Read(p []byte) (int, error) {
	frames := len(p) / 4 // 2 channels x 2 bytes
	if frames == 0 {
		return 0, nil
	}
	if cap(s.buf) < frames*2 {
		s.buf = make([]int16, frames*2)
	}
	s.buf = s.buf[:frames*2]
	s.generate(s.buf)
	for i, v := range s.buf {
		binary.LittleEndian.PutUint16(p[i*2:], uint16(v))
	}
	return frames * 4, nil
}

func newOtoBackend(hz int, generate func([]int16)) (audioBackend, error) {
	op := &oto.NewContextOptions{
		SampleRate:   hz,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready
	player := ctx.NewPlayer(&otoStream{generate: generate})
	player.SetBufferSize(hz / 10 * 4)
	return &otoBackend{player: player}, nil
}

func (b *otoBackend) Start() error {
	b.player.Play()
	return nil
}

func (b *otoBackend) Close() error { return b.player.Close() }
