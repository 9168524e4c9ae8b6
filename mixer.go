package seqplayer

// ChannelSnapshot flags.
const (
	SnapPlay      = 0x01
	SnapLoop      = 0x02
	SnapPingPong  = 0x04
	SnapBackwards = 0x08
	SnapSurround  = 0x10
	SnapSynth     = 0x20 // sample data may be swapped mid-note
)

// ChannelSnapshot is the per-voice state the engine pushes to the
// mixer each tick: sample source, playback position and direction,
// output frequency, final volume and panning, and loop geometry.
type ChannelSnapshot struct {
	Position      uint32
	Length        uint32
	Data8         []int8
	Data16        []int16
	BitsPerSample uint8

	Rate    uint32 // output frequency in Hz
	Volume  uint8  // final mixer volume 0..255
	Panning uint8  // 0 = left, 128 = center, 255 = right

	RepeatStart  uint32
	RepeatLength uint32
	RepeatCount  uint32

	Flags uint8

	FilterCutoff  uint16
	FilterDamping uint16
}

// PCM returns the snapshot sample value at position i widened to 16
// bits.
func (cs *ChannelSnapshot) PCM(i uint32) int16 {
	if cs.BitsPerSample == 16 {
		if i < uint32(len(cs.Data16)) {
			return cs.Data16[i]
		}
		return 0
	}
	if i < uint32(len(cs.Data8)) {
		return int16(cs.Data8[i]) << 8
	}
	return 0
}

// Mixer is the downstream sample renderer. The engine calls it
// synchronously from the tick handler; implementations must not call
// back into the engine.
type Mixer interface {
	// Channels reports how many mixer channels (voices) exist.
	Channels() int

	// GetChannel refreshes the snapshot with the mixer's view of the
	// channel, at minimum Position and the play/direction flags.
	GetChannel(ch int, snap *ChannelSnapshot)

	// SetChannel replaces the complete channel state.
	SetChannel(ch int, snap *ChannelSnapshot)

	// SetChannelVolumePanningPitch updates only volume, panning,
	// surround and rate.
	SetChannelVolumePanningPitch(ch int, snap *ChannelSnapshot)

	// SetChannelPositionRepeatFlags updates position, loop geometry
	// and flags without touching the sample pointer.
	SetChannelPositionRepeatFlags(ch int, snap *ChannelSnapshot)

	// SetChannelFilter updates the filter parameters.
	SetChannelFilter(ch int, snap *ChannelSnapshot)

	// SetTempo announces the tick cadence in microseconds per tick.
	SetTempo(usPerTick uint32)
}
