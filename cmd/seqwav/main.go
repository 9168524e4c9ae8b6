// seqwav renders the built-in demo module (or a number of seconds of
// it) to a 16-bit stereo WAV file.
package main

import (
	"flag"
	"log"
	"os"

	wav "github.com/youpy/go-wav"

	"github.com/hmorland/seqplayer"
)

var (
	flagHz      = flag.Int("hz", 44100, "output sample rate")
	flagOut     = flag.String("wav", "out.wav", "output WAV file")
	flagSeconds = flag.Int("seconds", 30, "maximum length to render")
	flagVoices  = flag.Int("voices", 16, "mixer voice count")
	flagBoost   = flag.Uint("boost", 1, "volume boost, an integer between 1 and 4")
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("seqwav: ")
	flag.Parse()

	mod, err := seqplayer.DemoModule()
	if err != nil {
		log.Fatal(err)
	}

	mixer := seqplayer.NewSoftMixer(*flagHz, *flagVoices, *flagBoost)
	player, err := seqplayer.NewPlayer(mod, 0, mixer)
	if err != nil {
		log.Fatal(err)
	}
	player.SetPlayOnce(true)
	player.Start()
	renderer := seqplayer.NewRenderer(player, mixer)

	f, err := os.Create(*flagOut)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	totalFrames := uint32(*flagHz * *flagSeconds)
	ww := wav.NewWriter(f, totalFrames, 2, uint32(*flagHz), 16)

	const chunk = 1024
	buf := make([]int16, chunk*2)
	samples := make([]wav.Sample, chunk)
	var written uint32
	for written < totalFrames && player.IsPlaying() {
		renderer.GenerateAudio(buf)
		for i := 0; i < chunk; i++ {
			samples[i].Values[0] = int(buf[i*2])
			samples[i].Values[1] = int(buf[i*2+1])
		}
		if err := ww.WriteSamples(samples); err != nil {
			log.Fatal(err)
		}
		written += chunk
	}
	log.Printf("wrote %d frames to %s", written, *flagOut)
}
