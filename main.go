package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/gruntwork-io/go-commons/errors"
	"github.com/robmorgan/pulse/config"
	"github.com/robmorgan/pulse/logger"
	"github.com/robmorgan/pulse/metronome"
	"github.com/robmorgan/pulse/sink"
	"github.com/sirupsen/logrus"
)

var flagBPM = flag.Int("bpm", 120, "tempo in beats per minute (40-300)")
var flagOSC = flag.String("osc", "", "optional host:port to broadcast /pulse/beat OSC messages to")
var flagFreq = flag.Float64("freq", 1100, "click frequency in Hz")
var flagVolume = flag.Float64("vol", 0.8, "click volume (0-1)")
var flagQuiet = flag.Bool("quiet", false, "disable the audible click")

func main() {
	flag.Parse()
	ctx := context.Background()
	Run(ctx)
}

// Run starts the metronome until interrupted.
func Run(ctx context.Context) {
	_, cancel := context.WithCancel(ctx)
	defer cancel()

	// initialize the logger
	logger := logger.GetProjectLogger()

	// initiailze the global config
	logger.Info("Initializing config...")
	cfg, err := config.NewPulseConfig()
	if err != nil {
		panic("error creating config")
	}
	cfg.BPM = *flagBPM
	cfg.OSCAddress = *flagOSC
	cfg.ClickFrequency = *flagFreq
	cfg.ClickVolume = *flagVolume

	// initialize the beat sinks
	logger.Info("Initializing beat sinks...")
	chain, err := buildSinkChain(cfg, *flagQuiet)
	if err != nil {
		logger.Fatalf("error initializing beat sinks. err='%v'", err)
	}
	defer chain.Close()

	logger.Info("Initializing metronome...")
	m := metronome.New(chain, cfg.Tuning)
	if !m.SetBPM(cfg.BPM) {
		logger.Warnf("bpm %d was out of range, clamped to %d", cfg.BPM, m.GetCurrentBPM())
	}

	if !m.StartMetronome() {
		logger.Fatal("could not start the metronome")
	}
	logger.Infof("Beating at %d bpm (%dms interval). CTRL+C to stop.", m.GetCurrentBPM(), m.GetBeatInterval())

	// handle CTRL+C interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)

	<-quit
	m.StopMetronome()

	stats := m.GetTimingStats()
	logger.WithFields(logrus.Fields{
		"beats":          stats.BeatCount,
		"avg_error_ms":   stats.AverageError,
		"avg_latency_ms": stats.AverageLatency,
	}).Info("shutting down pulse")
	cancel()
}

// buildSinkChain assembles the ordered fallback chain: click, then OSC
// when configured, then the log sink so a beat always lands somewhere.
func buildSinkChain(cfg config.PulseConfig, quiet bool) (*sink.Chain, error) {
	log := logger.GetProjectLogger()

	var sinks []sink.Sink
	if !quiet {
		click, err := sink.NewClickSink(cfg.ClickFrequency, cfg.ClickVolume)
		if err != nil {
			log.Errorf("could not open the speaker, continuing without audio: %v", err)
		} else {
			sinks = append(sinks, click)
		}
	}
	if cfg.OSCAddress != "" {
		oscSink, err := sink.NewOSCSink(cfg.OSCAddress)
		if err != nil {
			return nil, errors.WithStackTrace(err)
		}
		sinks = append(sinks, oscSink)
	}
	sinks = append(sinks, sink.NewLogSink())

	return sink.NewChain(sinks...), nil
}
