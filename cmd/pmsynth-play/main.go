package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cwbudde/algo-pmsynth/internal/cli"
	"github.com/cwbudde/algo-pmsynth/synth"
	"github.com/ebitengine/oto/v3"
)

func main() {
	var sets cli.Assignments
	notesFlag := flag.String("notes", "60,64,67,72", "Comma-separated MIDI notes played in sequence")
	velocity := flag.Int("velocity", 100, "MIDI velocity (1-127)")
	step := flag.Float64("step", 0.5, "Seconds between note starts")
	gate := flag.Float64("gate", 0.4, "Seconds each note is held")
	tail := flag.Float64("tail", 2.0, "Seconds to keep playing after the last NoteOff")
	sampleRate := flag.Int("sample-rate", 48000, "Output sample rate in Hz")
	polyphony := flag.Int("polyphony", 8, "Number of voices")
	bufferMS := flag.Int("buffer-ms", 50, "Device buffer size in milliseconds")
	flag.Var(&sets, "set", "Parameter assignment id=value (repeatable)")
	flag.Parse()

	notes, err := cli.ParseNotes(*notesFlag)
	if err != nil {
		die("invalid -notes: %v", err)
	}
	if *sampleRate <= 0 {
		die("sample-rate must be > 0")
	}
	if *step <= 0 {
		die("step must be > 0")
	}

	store := synth.NewParamStore(synth.DefaultNumLFOs)
	if err := sets.Apply(store); err != nil {
		die("invalid -set: %v", err)
	}
	e := synth.NewEngine(*sampleRate, *polyphony, store)
	events := sequence(notes, *sampleRate, *step, *gate)
	stream := newStreamReader(e, events, *velocity, int64(*tail*float64(*sampleRate)))

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   *sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   time.Duration(*bufferMS) * time.Millisecond,
	})
	if err != nil {
		die("failed to open audio device: %v", err)
	}
	<-ready

	player := ctx.NewPlayer(stream)
	defer player.Close()

	fmt.Printf("Playing %d notes at %d Hz...\n", len(notes), *sampleRate)
	player.Play()
	for player.IsPlaying() {
		time.Sleep(20 * time.Millisecond)
	}
	if err := player.Err(); err != nil {
		die("playback failed: %v", err)
	}
	fmt.Println("Done")
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
