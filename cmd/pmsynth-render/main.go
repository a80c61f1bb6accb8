package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/cwbudde/algo-pmsynth/internal/cli"
	"github.com/cwbudde/algo-pmsynth/internal/wavio"
	"github.com/cwbudde/algo-pmsynth/synth"
)

func main() {
	var sets cli.Assignments
	note := flag.Int("note", 69, "MIDI note number (69 = A4 = 440 Hz)")
	velocity := flag.Int("velocity", 100, "MIDI velocity (1-127)")
	duration := flag.Float64("duration", 2.0, "Duration in seconds (maximum when -decay-dbfs is set)")
	releaseAfter := flag.Float64("release-after", 1.0, "Send NoteOff after this many seconds")
	decayDBFS := flag.Float64("decay-dbfs", math.Inf(1), "Auto-stop when stereo block RMS falls below this dBFS after the release (e.g. -90). Disabled by default")
	decayHoldBlocks := flag.Int("decay-hold-blocks", 6, "Consecutive below-threshold blocks required to stop in auto-decay mode")
	sampleRate := flag.Int("sample-rate", 48000, "Render sample rate in Hz")
	polyphony := flag.Int("polyphony", 8, "Number of voices")
	numLFOs := flag.Int("lfos", synth.DefaultNumLFOs, "Number of LFOs per voice")
	normalize := flag.Float64("normalize", 0, "Normalize the peak to this level (0 disables)")
	listParams := flag.Bool("list-params", false, "Print every parameter id with its range and exit")
	output := flag.String("output", "output.wav", "Output WAV file path")
	flag.Var(&sets, "set", "Parameter assignment id=value (repeatable, comma-separated allowed)")
	flag.Parse()

	store := synth.NewParamStore(*numLFOs)
	if *listParams {
		printParams(store)
		return
	}
	if *sampleRate <= 0 {
		die("sample-rate must be > 0")
	}
	if err := sets.Apply(store); err != nil {
		die("invalid -set: %v", err)
	}

	fmt.Printf("Rendering note %d, velocity %d, for %.2f seconds at %d Hz...\n", *note, *velocity, *duration, *sampleRate)

	e := synth.NewEngine(*sampleRate, *polyphony, store)
	opts := cli.DefaultRenderOptions()
	opts.Note = *note
	opts.Velocity = *velocity
	opts.Duration = *duration
	opts.ReleaseAfter = *releaseAfter
	opts.DecayDBFS = *decayDBFS
	opts.DecayHoldBlocks = *decayHoldBlocks
	samples := cli.RenderNote(e, *sampleRate, opts)

	if *normalize > 0 {
		g := wavio.NormalizePeak(samples, *normalize)
		fmt.Printf("Applied gain %.3f\n", g)
	}
	if err := wavio.WriteStereoInterleavedWAV(*output, samples, *sampleRate); err != nil {
		die("failed to write %s: %v", *output, err)
	}

	frames := len(samples) / 2
	fmt.Printf("Wrote %d frames (%.3fs, peak %.3f) to %s\n", frames, float64(frames)/float64(*sampleRate), wavio.Peak(samples), *output)
}

func printParams(store *synth.ParamStore) {
	for _, id := range store.IDs() {
		d, _ := store.Def(id)
		fmt.Printf("%-24s %10g .. %-10g default %g\n", id, d.Min, d.Max, d.Default)
	}
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
