package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/robmorgan/pulse/metronome"
	"github.com/robmorgan/pulse/scheduler"
)

var flagBPM = flag.Int("bpm", 120, "starting tempo in beats per minute")

var p *tea.Program

func main() {
	flag.Parse()

	beats := make(chan int64, 16)
	m := metronome.New(newBeatChannelSink(beats), scheduler.DefaultTuning())
	m.SetBPM(*flagBPM)

	p = tea.NewProgram(newModel(m))

	// forward beats into the UI loop
	go func() {
		for n := range beats {
			p.Send(beatMsg{count: n})
		}
	}()

	if err := p.Start(); err != nil {
		fmt.Println("Error running program:", err)
		os.Exit(1)
	}
	m.StopMetronome()
}

// beatChannelSink hands each beat to the UI without blocking the
// scheduling goroutine.
type beatChannelSink struct {
	ch    chan int64
	count int64
}

func newBeatChannelSink(ch chan int64) *beatChannelSink {
	return &beatChannelSink{ch: ch}
}

func (s *beatChannelSink) PlayBeat() error {
	s.count++
	select {
	case s.ch <- s.count:
	default:
	}
	return nil
}

func (s *beatChannelSink) Healthy() bool { return true }

func (s *beatChannelSink) Close() error {
	close(s.ch)
	return nil
}
