package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gopxl/beep"
	"github.com/nickysemenza/gola"
	"github.com/robmorgan/tempo/audio"
	"github.com/robmorgan/tempo/config"
	"github.com/robmorgan/tempo/fixture"
	"github.com/robmorgan/tempo/logger"
	"github.com/robmorgan/tempo/osctrigger"
	"github.com/robmorgan/tempo/preset"
	"github.com/robmorgan/tempo/rhythm"
	"github.com/robmorgan/tempo/transport"
	"k8s.io/utils/clock"
	clocktesting "k8s.io/utils/clock/testing"
)

type options struct {
	render   string
	length   time.Duration
	preset   string
	bpm      int
	pattern  string
	waveform string
}

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Println("Error creating config:", err)
		os.Exit(1)
	}

	opts := options{}
	flag.StringVar(&cfg.PresetPath, "presets", cfg.PresetPath, "preset library file")
	flag.StringVar(&cfg.OSCAddress, "osc", cfg.OSCAddress, "UDP address for the OSC remote, e.g. 127.0.0.1:9000")
	flag.StringVar(&cfg.OLAAddress, "ola", cfg.OLAAddress, "OLA daemon address for beat lights, e.g. localhost:9010")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	flag.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "log file used while the console is running")
	flag.IntVar(&cfg.SampleRate, "sample-rate", cfg.SampleRate, "audio sample rate")
	flag.StringVar(&opts.waveform, "waveform", string(cfg.Transport.Waveform), "click waveform: square, sine, triangle or sawtooth")
	flag.StringVar(&opts.render, "render", "", "render a click track to this WAV file instead of starting the console")
	flag.DurationVar(&opts.length, "length", 30*time.Second, "length of a rendered click track")
	flag.StringVar(&opts.preset, "preset", "", "preset to render, as folder/name")
	flag.IntVar(&opts.bpm, "bpm", rhythm.DefaultTempo, "tempo of a rendered click track without a preset")
	flag.StringVar(&opts.pattern, "pattern", string(rhythm.DefaultPatternID), "pattern of a rendered click track without a preset")
	flag.Parse()

	cfg.Transport.Waveform = audio.ParseWaveform(opts.waveform)
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		fmt.Println("Invalid log level:", err)
		os.Exit(1)
	}

	if opts.render != "" {
		if err := renderClickTrack(cfg, opts); err != nil {
			fmt.Println("Error rendering click track:", err)
			os.Exit(1)
		}
		return
	}

	if err := Run(context.Background(), cfg); err != nil {
		fmt.Println("Error running program:", err)
		os.Exit(1)
	}
}

// Run starts the console
func Run(ctx context.Context, cfg config.Config) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// the console owns the terminal, so logs go to a file
	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger.SetOutput(logFile)

	logger := logger.GetProjectLogger()
	wg := sync.WaitGroup{}

	logger.Info("Initializing audio output...")
	engine := audio.NewSpeaker(beep.SampleRate(cfg.SampleRate), cfg.AudioBuffer)
	defer engine.Close()

	sink := &programSink{}
	sinks := []transport.VisualSink{sink}

	if cfg.OLAAddress != "" {
		logger.Info("Connecting to OLA...")
		lights, err := startBeatLights(ctx, cfg, &wg)
		if err != nil {
			logger.Errorf("could not start beat lights: %v", err)
		} else {
			sinks = append(sinks, lights)
		}
	}

	tr := transport.New(cfg.Transport, clock.RealClock{}, engine,
		transport.WithVisualSink(transport.MultiSink(sinks...)),
		transport.WithNoticeHandler(sink.Notice),
	)

	store := preset.NewFileStore(cfg.PresetPath)
	lib, err := store.Load()
	if err != nil {
		logger.Errorf("could not load presets: %v", err)
		lib = preset.NewLibrary()
	}
	tr.Add()

	if cfg.OSCAddress != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := osctrigger.ListenAndServe(ctx, cfg.OSCAddress, osctrigger.NewDispatcher(tr)); err != nil {
				logger.Errorf("OSC remote stopped: %v", err)
			}
		}()
	}

	// handle CTRL+C interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	defer signal.Stop(quit)

	p := tea.NewProgram(newModel(cfg, tr, store, lib), tea.WithAltScreen())
	sink.attach(p, ctx.Done())
	go func() {
		select {
		case <-quit:
			p.Quit()
		case <-ctx.Done():
		}
	}()

	err = p.Start()
	logger.Info("shutting down tempo")
	tr.StopAll()
	cancel()
	wg.Wait()
	return err
}

func startBeatLights(ctx context.Context, cfg config.Config, wg *sync.WaitGroup) (*fixture.BeatLights, error) {
	client, err := gola.New(cfg.OLAAddress)
	if err != nil {
		return nil, err
	}

	state := fixture.NewDMXState()
	lights, err := fixture.NewBeatLights(cfg, clock.RealClock{}, state)
	if err != nil {
		client.Close()
		return nil, err
	}

	wg.Add(2)
	go fixture.SendDMXWorker(ctx, client, cfg.DMXTick, state, wg)
	go lights.Run(ctx, cfg.DMXTick, wg)
	return lights, nil
}

// renderClickTrack plays the requested metronomes into a WAV file. The scheduler
// is stepped by the renderer, so its own timers never need to fire.
func renderClickTrack(cfg config.Config, opts options) error {
	logger := logger.GetProjectLogger()

	states, err := renderStates(cfg, opts)
	if err != nil {
		return err
	}

	tl := audio.NewTimeline(beep.SampleRate(cfg.SampleRate))
	tr := transport.New(cfg.Transport, clocktesting.NewFakeClock(time.Now()), tl)
	tr.Replace(states)
	tr.PlayAll()

	f, err := os.Create(opts.render)
	if err != nil {
		return err
	}
	defer f.Close()

	logger.Infof("Rendering %v of %d metronome(s) to %s", opts.length, len(states), opts.render)
	return audio.RenderWAV(f, tl, audio.RenderOptions{
		Length:     opts.length,
		Interval:   cfg.Transport.LookaheadInterval,
		OnInterval: tr.Step,
	})
}

func renderStates(cfg config.Config, opts options) ([]rhythm.State, error) {
	if opts.preset == "" {
		s := rhythm.DefaultState()
		s.TempoBPM = opts.bpm
		s.PatternID = rhythm.PatternID(opts.pattern)
		if _, ok := rhythm.LookupPattern(s.PatternID); !ok {
			return nil, fmt.Errorf("%w: %q", rhythm.ErrUnknownPattern, opts.pattern)
		}
		return []rhythm.State{s}, nil
	}

	lib, err := preset.NewFileStore(cfg.PresetPath).Load()
	if err != nil {
		return nil, err
	}
	folder, name := splitPresetName(opts.preset)
	return lib.Load(folder, name)
}
