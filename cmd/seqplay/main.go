// seqplay plays the built-in demo module through portaudio or the
// pure-Go oto backend, with a colored pattern display and keyboard
// transport.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"atomicgo.dev/keyboard"
	"atomicgo.dev/keyboard/keys"
	"github.com/fatih/color"

	"github.com/hmorland/seqplayer"
	"github.com/hmorland/seqplayer/internal/comb"
)

var (
	flagHz      = flag.Int("hz", 44100, "output sample rate")
	flagBoost   = flag.Uint("boost", 1, "volume boost, an integer between 1 and 4")
	flagVoices  = flag.Int("voices", 16, "mixer voice count")
	flagBackend = flag.String("backend", "portaudio", "audio backend: portaudio or oto")
	flagReverb  = flag.Bool("reverb", false, "apply comb filter reverb")
	flagNoUI    = flag.Bool("noui", false, "disable the pattern display")
)

const (
	escape     = "\x1b["
	hideCursor = escape + "?25l"
	showCursor = escape + "?25h"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("seqplay: ")
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
	player.SetPlayOnce(false)
	player.Start()

	renderer := seqplayer.NewRenderer(player, mixer)

	var reverb comb.Reverber = &comb.NoReverb{}
	if *flagReverb {
		reverb = comb.NewCombAdd(*flagHz, 0.4, 120, *flagHz)
	}

	generate := func(out []int16) {
		renderer.GenerateAudio(out)
		reverb.InputSamples(out)
		if n := reverb.GetAudio(out); n < len(out) {
			for i := n; i < len(out); i++ {
				out[i] = 0
			}
		}
	}

	var backend audioBackend
	switch *flagBackend {
	case "oto":
		backend, err = newOtoBackend(*flagHz, generate)
	default:
		backend, err = newPortaudioBackend(*flagHz, generate)
	}
	if err != nil {
		log.Fatal(err)
	}
	defer backend.Close()

	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, syscall.SIGINT)
	go func() {
		<-sigch
		backend.Close()
		fmt.Print(showCursor)
		os.Exit(0)
	}()

	go keyboard.Listen(func(key keys.Key) (bool, error) {
		switch {
		case key.Code == keys.Escape || key.String() == "q":
			player.Stop()
			return true, nil
		case key.String() == " ":
			if player.IsPlaying() {
				player.Stop()
			} else {
				player.Start()
			}
		case key.Code == keys.Left:
			player.SeekTo(0, 0)
		}
		return false, nil
	})

	if err := backend.Start(); err != nil {
		log.Fatal(err)
	}

	if !*flagNoUI {
		fmt.Print(hideCursor)
		fmt.Println(mod.Title)
		defer fmt.Print(showCursor)
	}

	white := color.New(color.FgWhite).SprintFunc()
	cyan := color.New(color.FgCyan).SprintfFunc()

	for player.IsPlaying() && !player.SongEnded() {
		if *flagNoUI {
			time.Sleep(50 * time.Millisecond)
			continue
		}
		pos := player.Position()
		for i := -2; i <= 2; i++ {
			if i == 0 {
				fmt.Print(">>> ")
			} else {
				fmt.Print("    ")
			}
			for ch := range pos {
				nd := player.NoteDataFor(ch, i)
				fmt.Print(white(nd.RowText()))
				if ch < len(pos)-1 {
					fmt.Print(cyan("|"))
				}
			}
			fmt.Println()
		}
		fmt.Printf("%svoices: %2d  time: %6.2fs\n", escape+"K", player.ActiveVoices(),
			float64(player.PlayTime())/1e6)
		fmt.Print(escape + "6F")
		time.Sleep(50 * time.Millisecond)
	}
}
