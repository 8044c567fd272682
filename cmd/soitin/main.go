package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/lsalmela/soitin"
	"github.com/lsalmela/soitin/graph"
	"github.com/lsalmela/soitin/mididrv"
	"github.com/lsalmela/soitin/notation"
	"github.com/lsalmela/soitin/oto"
	"github.com/lsalmela/soitin/player"
	"github.com/lsalmela/soitin/units"
	"github.com/lsalmela/soitin/version"
)

func main() {
	seed := flag.Uint("seed", 5, "Seed for the randomized startup letter bindings.")
	sampleRate := flag.Int("samplerate", 48000, "Sample rate of the audio output.")
	blockSize := flag.Int("blocksize", 512, "Samples processed per block.")
	midiOut := flag.Bool("midi", false, "Forward generated MIDI to the first hardware MIDI output.")
	quiet := flag.Bool("q", false, "Do not print the startup binding listing.")
	versionFlag := flag.Bool("v", false, "Print version.")
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.String())
		os.Exit(0)
	}

	catalog := soitin.NewCatalog()
	units.Register(catalog)
	reg := soitin.NewRegistry(catalog)
	if err := soitin.RandomizeBindings(reg, uint32(*seed)); err != nil {
		fmt.Fprintf(os.Stderr, "could not seed letter bindings: %v\n", err)
		os.Exit(1)
	}

	audioContext, err := oto.NewContext(*sampleRate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not acquire oto AudioContext: %v\n", err)
		os.Exit(1)
	}
	defer audioContext.Close()

	g := graph.New()
	pl := player.New(audioContext.Output(), g, float64(*sampleRate), *blockSize)
	if *midiOut {
		out, err := mididrv.NewOut()
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not open MIDI output: %v\n", err)
		} else {
			pl.SetMIDIOut(out)
		}
	}
	pl.Start()
	defer pl.Close()

	s := &session{
		reg:    reg,
		comp:   notation.NewCompiler(reg, g),
		g:      g,
		player: pl,
		out:    os.Stdout,
	}
	if !*quiet {
		s.printBindingsDetailed()
	}

	if flag.NArg() == 0 {
		s.interactiveMode()
	} else {
		if err := s.fileMode(flag.Arg(0)); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
	}
	fmt.Println("Stopping ...")
}
