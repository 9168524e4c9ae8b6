package seqplayer

import "testing"

func TestNoteFrequencyOctaves(t *testing.T) {
	base := noteFrequency(48, 0, 8363) // C-4 plays at the sample rate
	if base != 8363 {
		t.Errorf("expected C-4 at 8363Hz, got %d", base)
	}
	up := noteFrequency(60, 0, 8363)
	if up != base*2 {
		t.Errorf("expected one octave up to double, got %d", up)
	}
	down := noteFrequency(36, 0, 8363)
	if down != base/2 {
		t.Errorf("expected one octave down to halve, got %d", down)
	}
}

func TestNoteFrequencySemitone(t *testing.T) {
	c := noteFrequency(48, 0, 8363)
	cs := noteFrequency(49, 0, 8363)
	// One semitone is a ratio of 2^(1/12), about 5.95%.
	lo := uint64(c) * 1058 / 1000
	hi := uint64(c) * 1061 / 1000
	if uint64(cs) < lo || uint64(cs) > hi {
		t.Errorf("semitone ratio out of range: %d -> %d", c, cs)
	}
}

func TestNoteFrequencyFinetune(t *testing.T) {
	c := noteFrequency(48, 0, 8363)
	sharp := noteFrequency(48, 64, 8363) // half way to C#
	flat := noteFrequency(48, -64, 8363)
	if sharp <= c {
		t.Errorf("positive finetune must raise the pitch: %d -> %d", c, sharp)
	}
	if flat >= c {
		t.Errorf("negative finetune must lower the pitch: %d -> %d", c, flat)
	}
	cs := noteFrequency(49, 0, 8363)
	if sharp >= cs {
		t.Errorf("finetune +64 must stay below the next semitone: %d vs %d", sharp, cs)
	}
}

func TestNoteFrequencyZeroRate(t *testing.T) {
	if noteFrequency(48, 0, 0) != 0 {
		t.Error("a zero sample rate must produce frequency 0")
	}
}

func TestLinearSlideLUTEndpoints(t *testing.T) {
	if linearSlideLUT[0] != 1<<24 {
		t.Errorf("expected LUT[0] = 2^24, got %d", linearSlideLUT[0])
	}
	if linearSlideLUT[linearSlideEntries-1] >= 2<<24 {
		t.Error("the LUT must stay below one full octave")
	}
	for i := 1; i < linearSlideEntries; i++ {
		if linearSlideLUT[i] < linearSlideLUT[i-1] {
			t.Fatalf("LUT must be monotonic at %d", i)
		}
	}
}

func TestLinearSlideOctave(t *testing.T) {
	f := uint32(10000)
	if got := linearSlideUp(f, linearSlideEntries); got != 2*f {
		t.Errorf("a slide of 3072 must double the frequency, got %d", got)
	}
	if got := linearSlideDown(2*f, linearSlideEntries); got != f {
		t.Errorf("a down slide of 3072 must halve the frequency, got %d", got)
	}
}

func TestLinearSlideUpDownRoundTrip(t *testing.T) {
	f := uint32(0x01000000)
	up := linearSlideUp(f, 256)
	down := linearSlideDown(up, 256)
	// The nudge rule permits a single unit of drift.
	diff := int64(down) - int64(f)
	if diff < -2 || diff > 2 {
		t.Errorf("round trip drifted by %d", diff)
	}
}

func TestSineLUT(t *testing.T) {
	if sineLUT[0] != 0 || sineLUT[180] != 0 {
		t.Error("sine endpoints must be zero")
	}
	if sineLUT[90] != 32767 {
		t.Errorf("expected sin(90) = 32767, got %d", sineLUT[90])
	}
	if sineLUT[270] != -32767 {
		t.Errorf("expected sin(270) = -32767, got %d", sineLUT[270])
	}
}

func TestSilenceSampleShape(t *testing.T) {
	if silenceSample.Length != 256 || silenceSample.Flags&SampleLoop == 0 {
		t.Error("the silence sample must be a 256 byte loop")
	}
	for _, b := range silenceSample.Data8 {
		if b != 0 {
			t.Fatal("the silence sample must be silent")
		}
	}
}

func TestRandBoundDeterminism(t *testing.T) {
	p1, _ := newTestPlayer(t, [][]string{{"... .. ......"}})
	p2, _ := newTestPlayer(t, [][]string{{"... .. ......"}})
	for i := 0; i < 100; i++ {
		a := p1.randBound(1000)
		b := p2.randBound(1000)
		if a != b {
			t.Fatalf("rng diverged at draw %d: %d vs %d", i, a, b)
		}
		if a >= 1000 {
			t.Fatalf("rng out of bounds: %d", a)
		}
	}
}
