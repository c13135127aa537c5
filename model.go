package main

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/robmorgan/tempo/config"
	"github.com/robmorgan/tempo/effect"
	"github.com/robmorgan/tempo/preset"
	"github.com/robmorgan/tempo/rhythm"
	"github.com/robmorgan/tempo/transport"
)

// maxNotices is how many notices the console keeps on screen.
const maxNotices = 4

type prompt int

const (
	promptNone prompt = iota
	promptTempo
	promptMainPitch
	promptOffbeatPitch
	promptSave
	promptLoad
)

func (p prompt) label() string {
	switch p {
	case promptTempo:
		return "Tempo (BPM)"
	case promptMainPitch:
		return "Main pitch (Hz)"
	case promptOffbeatPitch:
		return "Offbeat pitch (Hz)"
	case promptSave:
		return "Save preset as [folder/]name"
	case promptLoad:
		return "Load preset [folder/]name"
	default:
		return ""
	}
}

// beatFlash is the most recent highlight of a metronome.
type beatFlash struct {
	beat     int
	voice    rhythm.Voice
	sounding bool
	flash    effect.Flash
}

type model struct {
	cfg   config.Config
	tr    *transport.Transport
	store preset.Store
	lib   *preset.Library

	selected int
	lit      map[int]beatFlash
	lastTap  map[int]rhythm.Evaluation
	notices  []string

	prompt   prompt
	input    textinput.Model
	accuracy progress.Model

	now      time.Time
	quitting bool
}

func newModel(cfg config.Config, tr *transport.Transport, store preset.Store, lib *preset.Library) model {
	ti := textinput.New()
	ti.CharLimit = 64

	bar := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(30),
		progress.WithoutPercentage(),
	)

	return model{
		cfg:      cfg,
		tr:       tr,
		store:    store,
		lib:      lib,
		lit:      make(map[int]beatFlash),
		lastTap:  make(map[int]rhythm.Evaluation),
		input:    ti,
		accuracy: bar,
		now:      time.Now(),
	}
}

func (m model) Init() tea.Cmd {
	return tickCmd()
}

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*25, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// selectedMetronome returns the metronome under the cursor, if any.
func (m model) selectedMetronome() *rhythm.Metronome {
	all := m.tr.Metronomes()
	if len(all) == 0 {
		return nil
	}
	idx := m.selected
	if idx >= len(all) {
		idx = len(all) - 1
	}
	return all[idx]
}

func (m *model) notify(msg string) {
	m.notices = append(m.notices, msg)
	if len(m.notices) > maxNotices {
		m.notices = m.notices[len(m.notices)-maxNotices:]
	}
}

// splitPresetName splits "folder/name", defaulting to the default folder.
func splitPresetName(s string) (string, string) {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, "/"); i >= 0 {
		return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:])
	}
	return preset.DefaultFolder, s
}
