package seqplayer

import "math"

// Fixed-point lookup tables. All runtime playback math is integer
// only; the tables are generated once at package init the same way
// the Amiga trackers shipped them pre-computed.

const (
	// linearSlideEntries spans exactly one octave, so a slide value
	// of 3072 doubles (or halves) the frequency.
	linearSlideEntries = 3072

	// amigaSlideConst converts between frequency and 64-bit Amiga
	// period: period = amigaSlideConst / freq.
	amigaSlideConst = uint64(8363) * 1712 * 4 << 32

	// semitone multiplier table geometry: entry 0 sits one semitone
	// below C so negative finetune can interpolate downwards.
	semitoneEntries = 14
)

var (
	// linearSlideLUT[i] = 2^(i/3072) in 8.24 fixed point.
	linearSlideLUT [linearSlideEntries]uint32

	// semitoneLUT[i] = 2^((i-1)/12) in 16.16 fixed point.
	semitoneLUT [semitoneEntries]uint32

	// sineLUT[deg] = sin(deg) * 32767 for deg in 0..359.
	sineLUT [360]int16

	// silenceSample substitutes for samples with no data so a playing
	// voice keeps valid mixer state.
	silenceSample = &Sample{
		Name:          "silence",
		Data8:         make([]int8, 256),
		BitsPerSample: 8,
		Length:        256,
		Rate:          8363,
		RepeatLength:  256,
		Flags:         SampleLoop,
		Volume:        255,
	}
)

func init() {
	for i := range linearSlideLUT {
		linearSlideLUT[i] = uint32(math.Round(math.Exp2(float64(i)/linearSlideEntries) * (1 << 24)))
	}
	for i := range semitoneLUT {
		semitoneLUT[i] = uint32(math.Round(math.Exp2(float64(i-1)/12) * (1 << 16)))
	}
	for i := range sineLUT {
		sineLUT[i] = int16(math.Round(math.Sin(float64(i)*math.Pi/180) * 32767))
	}
}

// noteFrequency computes the base playback frequency for a note in
// octave*12+semitone form with a signed 1/128-semitone finetune,
// scaled against the sample rate recorded for middle C (octave 4).
func noteFrequency(note int16, finetune int8, rate uint32) uint32 {
	if rate == 0 {
		return 0
	}
	ft := int32(finetune)
	idx := note % 12
	if idx < 0 {
		idx += 12
		note -= 12
	}
	slot := idx + 1
	if ft < 0 {
		// Negative finetune interpolates from one semitone down.
		slot--
		ft += 128
	}
	lo := int64(semitoneLUT[slot])
	hi := int64(semitoneLUT[slot+1])
	mul := lo + (hi-lo)*int64(ft)/128

	oct := int(note)/12 - 4
	freq := int64(rate) * mul >> 16
	switch {
	case oct > 0:
		freq <<= uint(oct)
	case oct < 0:
		freq >>= uint(-oct)
	}
	if freq <= 0 {
		return 0
	}
	if freq > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(freq)
}

// linearSlideUp applies a linear frequency slide of the given amount
// in 1/3072 octave steps. Exact-equal results are nudged up by one to
// guarantee forward progress.
func linearSlideUp(freq uint32, slide uint32) uint32 {
	oct := slide / linearSlideEntries
	frac := slide % linearSlideEntries
	nf := uint64(freq) * uint64(linearSlideLUT[frac]) >> 24
	if oct > 0 {
		if oct >= 32 {
			return math.MaxUint32
		}
		hi := nf >> (64 - oct)
		nf <<= oct
		if hi != 0 {
			return math.MaxUint32
		}
	}
	if nf > math.MaxUint32 {
		nf = math.MaxUint32
	}
	if uint32(nf) == freq && slide != 0 {
		nf++
	}
	return uint32(nf)
}

// linearSlideDown is the descending counterpart of linearSlideUp; it
// floors at 1 and nudges exact-equal results down by one.
func linearSlideDown(freq uint32, slide uint32) uint32 {
	oct := slide / linearSlideEntries
	frac := slide % linearSlideEntries
	var nf uint64
	if frac == 0 {
		if oct >= 32 {
			nf = 0
		} else {
			nf = uint64(freq) >> oct
		}
	} else if oct >= 32 {
		nf = 0
	} else {
		nf = uint64(freq) * uint64(linearSlideLUT[linearSlideEntries-frac]) >> (25 + oct)
	}
	if nf == 0 {
		nf = 1
	}
	if uint32(nf) == freq && slide != 0 && freq > 1 {
		nf--
	}
	return uint32(nf)
}

// amigaSlideUp slides frequency upwards in Amiga period space. The
// period shrinks; the result saturates at 0xFFFFFFFF.
func amigaSlideUp(freq uint32, slide uint32) uint32 {
	if freq == 0 {
		return 0
	}
	period := amigaSlideConst / uint64(freq)
	delta := uint64(slide) << 32
	if period <= delta {
		return math.MaxUint32
	}
	period -= delta
	nf := amigaSlideConst / period
	if nf > math.MaxUint32 {
		return math.MaxUint32
	}
	if uint32(nf) == freq && slide != 0 {
		nf++
	}
	return uint32(nf)
}

// amigaSlideDown slides frequency downwards in Amiga period space,
// flooring at 1.
func amigaSlideDown(freq uint32, slide uint32) uint32 {
	if freq == 0 {
		return 0
	}
	period := amigaSlideConst/uint64(freq) + uint64(slide)<<32
	nf := amigaSlideConst / period
	if nf == 0 {
		nf = 1
	}
	if uint32(nf) == freq && slide != 0 && freq > 1 {
		nf--
	}
	return uint32(nf)
}
