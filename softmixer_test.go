package seqplayer

import "testing"

func staticSnapshot(data []int8, rate uint32) ChannelSnapshot {
	return ChannelSnapshot{
		Data8:         data,
		BitsPerSample: 8,
		Length:        uint32(len(data)),
		Rate:          rate,
		Volume:        255,
		Panning:       128,
		Flags:         SnapPlay,
	}
}

func TestSoftMixerSamplesPerTick(t *testing.T) {
	m := NewSoftMixer(44100, 4, 1)
	m.SetTempo(20000) // 50Hz tick
	if got := m.SamplesPerTick(); got != 882 {
		t.Errorf("expected 882 samples per tick at 50Hz, got %d", got)
	}
}

func TestSoftMixerRendersSample(t *testing.T) {
	m := NewSoftMixer(44100, 1, 1)
	data := make([]int8, 100)
	for i := range data {
		data[i] = 100
	}
	snap := staticSnapshot(data, 44100)
	m.SetChannel(0, &snap)

	out := make([]int16, 32)
	m.mix(out, 16, 0)
	if out[0] == 0 {
		t.Error("expected non-silent output")
	}
	// Center panning mixes both sides near equally; the pan law has
	// one unit of asymmetry.
	diff := int(out[0]) - int(out[1])
	if diff < -100 || diff > 100 {
		t.Errorf("expected near-equal stereo at center pan, got %d/%d", out[0], out[1])
	}
}

func TestSoftMixerPanning(t *testing.T) {
	m := NewSoftMixer(44100, 1, 1)
	data := make([]int8, 100)
	for i := range data {
		data[i] = 100
	}
	snap := staticSnapshot(data, 44100)
	snap.Panning = 0 // hard left
	m.SetChannel(0, &snap)

	out := make([]int16, 8)
	m.mix(out, 4, 0)
	if out[0] == 0 {
		t.Error("expected output on the left")
	}
	if out[1] != 0 {
		t.Errorf("expected silence on the right, got %d", out[1])
	}
}

func TestSoftMixerSurroundInvertsRight(t *testing.T) {
	m := NewSoftMixer(44100, 1, 1)
	data := make([]int8, 100)
	for i := range data {
		data[i] = 100
	}
	snap := staticSnapshot(data, 44100)
	snap.Flags |= SnapSurround
	m.SetChannel(0, &snap)

	out := make([]int16, 8)
	m.mix(out, 4, 0)
	if out[0] <= 0 || out[1] >= 0 {
		t.Errorf("expected phase-inverted right channel, got %d/%d", out[0], out[1])
	}
}

func TestSoftMixerLoopWraps(t *testing.T) {
	m := NewSoftMixer(8000, 1, 1)
	data := make([]int8, 10)
	snap := staticSnapshot(data, 8000)
	snap.RepeatStart = 2
	snap.RepeatLength = 4
	snap.Flags |= SnapLoop
	m.SetChannel(0, &snap)

	out := make([]int16, 64)
	m.mix(out, 32, 0)
	var got ChannelSnapshot
	m.GetChannel(0, &got)
	if got.Flags&SnapPlay == 0 {
		t.Error("a looping voice must keep playing")
	}
	if got.Position < 2 || got.Position >= 6 {
		t.Errorf("expected the position inside the loop [2,6), got %d", got.Position)
	}
}

func TestSoftMixerOneShotStops(t *testing.T) {
	m := NewSoftMixer(8000, 1, 1)
	data := make([]int8, 10)
	snap := staticSnapshot(data, 8000)
	m.SetChannel(0, &snap)

	out := make([]int16, 64)
	m.mix(out, 32, 0)
	var got ChannelSnapshot
	m.GetChannel(0, &got)
	if got.Flags&SnapPlay != 0 {
		t.Error("a one-shot sample must stop at its end")
	}
}

func TestRendererTicksPlayer(t *testing.T) {
	mod, err := DemoModule()
	if err != nil {
		t.Fatal(err)
	}
	mixer := NewSoftMixer(44100, 8, 1)
	player, err := NewPlayer(mod, 0, mixer)
	if err != nil {
		t.Fatal(err)
	}
	player.Start()
	r := NewRenderer(player, mixer)

	out := make([]int16, 44100*2)
	r.GenerateAudio(out) // one second

	if player.PlayTicks() == 0 {
		t.Error("expected the renderer to tick the player")
	}
	nonZero := false
	for _, s := range out {
		if s != 0 {
			nonZero = true
			break
		}
	}
	if !nonZero {
		t.Error("expected the demo module to produce audio")
	}
}

func TestDemoModuleShape(t *testing.T) {
	mod, err := DemoModule()
	if err != nil {
		t.Fatal(err)
	}
	if len(mod.Instruments) != 4 {
		t.Errorf("expected 4 demo instruments, got %d", len(mod.Instruments))
	}
	if len(mod.SubSongs) != 1 || mod.SubSongs[0].Channels != 4 {
		t.Error("expected a single 4-channel sub-song")
	}
	for _, in := range mod.Instruments {
		smp := in.Samples[0]
		if smp.Length == 0 || smp.Flags&SampleLoop == 0 {
			t.Errorf("instrument %s: expected a looping sample", in.Name)
		}
	}
}
