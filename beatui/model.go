package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fogleman/ease"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/robmorgan/pulse/metronome"
)

const flashFPS = 30

var (
	bpmStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

var (
	downbeatColor = colorful.Color{R: 1.0, G: 0.27, B: 0.23}
	beatColor     = colorful.Color{R: 1.0, G: 0.78, B: 0.16}
	idleColor     = colorful.Color{R: 0.25, G: 0.25, B: 0.25}
)

type model struct {
	m         *metronome.Metronome
	beatCount int64
	lastBeat  time.Time
	quitting  bool
}

type beatMsg struct {
	count int64
}

type frameMsg time.Time

func frameCmd() tea.Cmd {
	return tea.Tick(time.Second/flashFPS, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func newModel(m *metronome.Metronome) model {
	return model{m: m}
}

func (mdl model) Init() tea.Cmd {
	return frameCmd()
}

func (mdl model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			mdl.quitting = true
			return mdl, tea.Quit
		case " ", "space":
			mdl.m.TogglePlayback()
		case "up":
			mdl.m.SetBPM(mdl.m.GetCurrentBPM() + 1)
		case "down":
			mdl.m.SetBPM(mdl.m.GetCurrentBPM() - 1)
		case "k":
			mdl.m.SetBPM(mdl.m.GetCurrentBPM() + 10)
		case "j":
			mdl.m.SetBPM(mdl.m.GetCurrentBPM() - 10)
		}
		return mdl, nil
	case beatMsg:
		mdl.beatCount = msg.count
		mdl.lastBeat = time.Now()
		return mdl, nil
	case frameMsg:
		return mdl, frameCmd()
	}
	return mdl, nil
}

func (mdl model) View() string {
	if mdl.quitting {
		return "bye!\n"
	}

	flash := lipgloss.NewStyle().Foreground(lipgloss.Color(mdl.flashColor())).Render("●")
	status := "stopped"
	if mdl.m.IsPlaying() {
		status = "playing"
	}

	s := fmt.Sprintf("\n  %s  %s %s\n\n",
		flash,
		bpmStyle.Render(fmt.Sprintf("%d BPM", mdl.m.GetCurrentBPM())),
		statusStyle.Render("("+status+")"))
	s += fmt.Sprintf("  beat %d\n\n", mdl.beatCount)
	s += helpStyle.Render("  space: play/stop | up/down: +/-1 bpm | k/j: +/-10 bpm | q: quit")
	return s + "\n"
}

// flashColor fades the beat flash back to the idle grey over one beat
// interval, with the downbeat accented every fourth beat.
func (mdl model) flashColor() string {
	interval := time.Duration(mdl.m.GetBeatInterval()) * time.Millisecond
	elapsed := time.Since(mdl.lastBeat)

	t := 1.0
	if interval > 0 && elapsed < interval && !mdl.lastBeat.IsZero() {
		t = ease.OutQuad(float64(elapsed) / float64(interval))
	}

	accent := beatColor
	if mdl.beatCount%4 == 1 {
		accent = downbeatColor
	}
	return accent.BlendLuv(idleColor, t).Hex()
}
