package seqplayer

import "math"

// Programmatic module building blocks: synthetic waveform samples and
// a small demo song, so the binaries have something to play without a
// file decoder.

// Waveform shapes for NewWaveSample.
const (
	WaveSine = iota
	WaveSquare
	WaveSaw
	WaveTriangle
	WaveNoise
)

// NewWaveSample builds a looping 8-bit sample holding one cycle of
// the given shape.
func NewWaveSample(name string, shape int, cycle int) *Sample {
	if cycle <= 0 {
		cycle = 64
	}
	data := make([]int8, cycle)
	seed := int32(lcgMultiplier)
	for i := range data {
		switch shape {
		case WaveSquare:
			if i < cycle/2 {
				data[i] = 127
			} else {
				data[i] = -128
			}
		case WaveSaw:
			data[i] = int8(i*255/cycle - 128)
		case WaveTriangle:
			half := cycle / 2
			if i < half {
				data[i] = int8(i*255/half - 128)
			} else {
				data[i] = int8(127 - (i-half)*255/half)
			}
		case WaveNoise:
			seed = seed*lcgMultiplier + 1
			data[i] = int8(seed >> 24)
		default:
			data[i] = int8(math.Round(math.Sin(float64(i)*2*math.Pi/float64(cycle)) * 127))
		}
	}
	return &Sample{
		Name:          name,
		Data8:         data,
		BitsPerSample: 8,
		Length:        uint32(cycle),
		Rate:          8363 * uint32(cycle) / 32,
		RepeatLength:  uint32(cycle),
		Flags:         SampleLoop,
		Volume:        255,
	}
}

// NewWaveInstrument wraps a single sample into an instrument with
// sensible defaults.
func NewWaveInstrument(name string, smp *Sample) *Instrument {
	return &Instrument{
		Name:         name,
		Samples:      []*Sample{smp},
		GlobalVolume: 255,
		FadeOut:      1024,
	}
}

// DemoModule builds a small four-channel demo song exercising
// arpeggios, slides and volume effects.
func DemoModule() (*Module, error) {
	lead := NewWaveInstrument("lead", NewWaveSample("saw", WaveSaw, 64))
	bass := NewWaveInstrument("bass", NewWaveSample("square", WaveSquare, 64))
	pad := NewWaveInstrument("pad", NewWaveSample("sine", WaveSine, 64))
	drum := NewWaveInstrument("drum", NewWaveSample("noise", WaveNoise, 256))
	drum.FadeOut = 8192

	ss, err := SubSongFromText([][]string{
		{"C-4 01 000407", "C-2 02 ......", "E-5 03 3140FF", "C-3 04 ......"},
		{"... .. ......", "... .. ......", "... .. ......", "... .. ......"},
		{"E-4 01 000305", "... .. ......", "... .. ......", "C-3 04 ......"},
		{"... .. ......", "C-2 02 2200F0", "... .. ......", "... .. ......"},
		{"G-4 01 ......", "... .. ......", "B-4 03 3240FF", "C-3 04 ......"},
		{"... .. ......", "... .. ......", "... .. ......", "... .. ......"},
		{"C-5 01 010080", "G-2 02 ......", "... .. ......", "C-3 04 ......"},
		{"... .. 020080", "... .. ......", "^^. .. ......", "... .. ......"},
	})
	if err != nil {
		return nil, err
	}
	ss.Title = "demo"

	mod := &Module{
		Title:       "seqplayer demo",
		Instruments: []*Instrument{lead, bass, pad, drum},
		SubSongs:    []*SubSong{ss},
	}
	return mod, nil
}
