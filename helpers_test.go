package seqplayer

import (
	"testing"

	clone "github.com/huandu/go-clone/generic"
)

const testSampleLength = 1000

// testModule is the base fixture; tests clone it before mutating.
var testModule = Module{
	Title: "testmod",
	Instruments: []*Instrument{
		{
			Name:         "testins1",
			GlobalVolume: 255,
			FadeOut:      1024,
			Samples: []*Sample{{
				Name:          "tone1",
				Data8:         make([]int8, testSampleLength),
				BitsPerSample: 8,
				Length:        testSampleLength,
				Rate:          8363,
				Volume:        255,
			}},
		},
		{
			Name:         "testins2",
			GlobalVolume: 255,
			FadeOut:      1024,
			Samples: []*Sample{{
				Name:          "tone2",
				Data8:         make([]int8, testSampleLength),
				BitsPerSample: 8,
				Length:        testSampleLength,
				Rate:          8363,
				Volume:        200,
			}},
		},
	},
}

// countingMixer records engine pushes so tests can assert on the
// channel snapshots without rendering audio.
type countingMixer struct {
	chans     []ChannelSnapshot
	setCalls  int
	vppCalls  int
	geomCalls int
	fltCalls  int
	usPerTick uint32
}

func newCountingMixer(voices int) *countingMixer {
	return &countingMixer{chans: make([]ChannelSnapshot, voices)}
}

func (m *countingMixer) Channels() int { return len(m.chans) }

func (m *countingMixer) GetChannel(ch int, snap *ChannelSnapshot) {
	snap.Position = m.chans[ch].Position
	snap.Flags = snap.Flags&^(SnapPlay|SnapBackwards) | m.chans[ch].Flags&(SnapPlay|SnapBackwards)
}

func (m *countingMixer) SetChannel(ch int, snap *ChannelSnapshot) {
	m.chans[ch] = *snap
	m.setCalls++
}

func (m *countingMixer) SetChannelVolumePanningPitch(ch int, snap *ChannelSnapshot) {
	c := &m.chans[ch]
	c.Volume, c.Panning, c.Rate = snap.Volume, snap.Panning, snap.Rate
	m.vppCalls++
}

func (m *countingMixer) SetChannelPositionRepeatFlags(ch int, snap *ChannelSnapshot) {
	c := &m.chans[ch]
	c.Position = snap.Position
	c.RepeatStart, c.RepeatLength, c.RepeatCount = snap.RepeatStart, snap.RepeatLength, snap.RepeatCount
	c.Flags = snap.Flags
	m.geomCalls++
}

func (m *countingMixer) SetChannelFilter(ch int, snap *ChannelSnapshot) {
	c := &m.chans[ch]
	c.FilterCutoff, c.FilterDamping = snap.FilterCutoff, snap.FilterDamping
	m.fltCalls++
}

func (m *countingMixer) SetTempo(us uint32) { m.usPerTick = us }

func (m *countingMixer) totalSets() int {
	return m.setCalls + m.vppCalls + m.geomCalls + m.fltCalls
}

// newTestPlayer builds a player over a pattern written in the text
// notation, one string per channel per row.
func newTestPlayer(t *testing.T, pattern [][]string) (*Player, *countingMixer) {
	t.Helper()
	mod := clone.Clone(testModule)
	ss, err := SubSongFromText(pattern)
	if err != nil {
		t.Fatalf("could not parse test pattern: %v", err)
	}
	mod.SubSongs = []*SubSong{ss}

	mixer := newCountingMixer(8)
	player, err := NewPlayer(&mod, 0, mixer)
	if err != nil {
		t.Fatalf("could not create test player: %v", err)
	}
	player.Start()
	return player, mixer
}

// advanceToNextRow ticks until the first channel's row changes; on
// return the first tick of the new row has been processed.
func advanceToNextRow(p *Player) {
	old := p.hostChannels[0].row
	for old == p.hostChannels[0].row {
		p.Tick()
	}
}

// tickRow runs exactly one row worth of ticks at the channel tempo.
func tickRow(p *Player) {
	n := int(p.hostChannels[0].tempo)
	for i := 0; i < n; i++ {
		p.Tick()
	}
}

func validateVoice(t *testing.T, v *voice, sample *Sample, freq uint32, volume uint8) {
	t.Helper()
	if v.sample != sample {
		t.Errorf("expected sample %v, got %v", sample, v.sample)
	}
	if v.frequency != freq {
		t.Errorf("expected frequency %d, got %d", freq, v.frequency)
	}
	if v.volume != volume {
		t.Errorf("expected volume %d, got %d", volume, v.volume)
	}
}
