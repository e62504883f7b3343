// Package main is the production entry point for the GoScope oscilloscope.
//
// GoScope draws the live waveform of every channel of an audio source:
// - A generated test tone, or a WAV, AIFF, MP3 or Ogg Vorbis file
// - Event-driven communication between services and UI
// - Dependency injection for testability
// - MVP pattern for UI decoupling
//
// Build:
//
//	go build -o build/goscope ./cmd
//
// Run:
//
//	./build/goscope -f song.wav
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/integrii/flaggy"

	"github.com/tejashwikalptaru/goscope/internal/adapter/audio/source"
	"github.com/tejashwikalptaru/goscope/internal/app"
	"github.com/tejashwikalptaru/goscope/internal/logger"
)

// AppDesc is shown at the top of the help output.
const AppDesc = "a multi-channel audio oscilloscope"

func main() {
	// Create default configuration
	config := app.DefaultConfig()

	if doFlags(&config) {
		return
	}

	// Create the application with dependency injection
	application, err := app.NewApplication(config)
	chk(err, "failed to create application")

	// Ensure a graceful shutdown
	defer func() {
		if err := application.Shutdown(); err != nil {
			fmt.Fprintf(os.Stderr, "Shutdown error: %v\n", err)
		}
	}()

	// Run application (blocks until the window closed)
	if err := application.Run(); err != nil {
		log.Printf("Application error: %v", err)
	}
}

// doFlags parses the command line into cfg. It reports true when a
// subcommand already did all the work.
func doFlags(cfg *app.Config) bool {
	parser := flaggy.NewParser("goscope")
	parser.Description = AppDesc
	parser.Version = app.GetVersionInfo().String()

	formatsCmd := flaggy.Subcommand{
		Name:        "formats",
		ShortName:   "fm",
		Description: "list the supported audio file extensions",
	}
	parser.AttachSubcommand(&formatsCmd, 1)

	noLoop := !cfg.Loop
	logLevel := cfg.LogLevel.String()

	parser.String(&cfg.SourcePath, "f", "file", "audio file to show (test tone when empty)")
	parser.Int(&cfg.Channels, "ch", "channels", "number of scope channels")
	parser.Int(&cfg.SampleRate, "r", "rate", "test tone sample rate")
	parser.Int(&cfg.BlockSize, "n", "samples", "samples per channel in one frame")
	parser.Float64Slice(&cfg.ToneFrequencies, "tf", "tone", "test tone frequency per channel (repeatable)")
	parser.Float64(&cfg.ToneGain, "g", "gain", "test tone peak amplitude")
	parser.Bool(&noLoop, "nl", "no-loop", "stop at the end of the file instead of looping")
	parser.Int(&cfg.RecentLimit, "rl", "recent", "number of files kept in the Open Recent menu")
	parser.Duration(&cfg.PollInterval, "p", "poll", "render poll interval")
	parser.String(&logLevel, "ll", "log-level", "log level (debug, info, warn, error)")
	parser.String(&cfg.LogFormat, "lf", "log-format", "log format (text, json)")

	chk(parser.Parse(), "failed to parse arguments")

	cfg.Loop = !noLoop

	level, ok := logger.ParseLevel(logLevel)
	if !ok {
		log.Fatalf("unknown log level %q", logLevel)
	}
	cfg.LogLevel = level

	if formatsCmd.Used {
		for _, ext := range source.DefaultRegistry().Extensions() {
			fmt.Printf("- %s\n", ext)
		}
		return true
	}

	return false
}

func chk(err error, wrap string) {
	if err != nil {
		log.Fatalln(wrap+": ", err)
	}
}
