package main

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/robmorgan/tempo/effect"
	"github.com/robmorgan/tempo/logger"
	"github.com/robmorgan/tempo/rhythm"
	"github.com/sirupsen/logrus"
)

// volumeStep is the change in percent for one volume key press.
const volumeStep = 10

var offbeatMuteKeys = []string{"!", "@", "#", "$", "%", "^", "&", "*", "("}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.prompt != promptNone {
			return m.updatePrompt(msg)
		}
		return m.updateKey(msg)
	case tickMsg:
		m.now = time.Time(msg)
		return m, tickCmd()
	case highlightMsg:
		m.lit[msg.MetronomeID] = beatFlash{
			beat:     msg.Beat,
			voice:    msg.Voice,
			sounding: msg.Sounding,
			flash:    effect.NewFlash(time.Now(), m.cfg.FlashDuration, m.cfg.FlashCurve),
		}
	case clearMsg:
		delete(m.lit, int(msg))
	case noticeMsg:
		m.notify(fmt.Sprint(msg.Message, errSuffix(msg.Err)))
	case tea.WindowSizeMsg:
		m.accuracy.Width = min(40, max(10, msg.Width/3))
	}
	return m, nil
}

func errSuffix(err error) string {
	if err == nil {
		return ""
	}
	return ": " + err.Error()
}

func (m model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
		return m, nil
	case "down", "j":
		if m.selected < len(m.tr.Metronomes())-1 {
			m.selected++
		}
		return m, nil
	case "a":
		met := m.tr.Add()
		m.selected = len(m.tr.Metronomes()) - 1
		m.notify(fmt.Sprintf("Added metronome %d", met.ID()))
		return m, nil
	case "p":
		m.tr.PlayAll()
		return m, nil
	case "s":
		m.tr.StopAll()
		return m, nil
	case "w":
		return m.openPrompt(promptSave, "")
	case "l":
		return m.openPrompt(promptLoad, "")
	}

	met := m.selectedMetronome()
	if met == nil {
		return m, nil
	}

	switch key {
	case " ":
		if _, err := m.tr.Toggle(met.ID()); err != nil {
			m.notify(err.Error())
		}
	case "x":
		if err := m.tr.Remove(met.ID()); err != nil {
			m.notify(err.Error())
		}
		delete(m.lit, met.ID())
		delete(m.lastTap, met.ID())
		if n := len(m.tr.Metronomes()); m.selected >= n && n > 0 {
			m.selected = n - 1
		}
	case "enter", ".":
		m.tap(met.ID())
	case "[":
		met.NudgeTempo(-1)
	case "]":
		met.NudgeTempo(1)
	case "{":
		met.NudgeTempo(-10)
	case "}":
		met.NudgeTempo(10)
	case "t":
		return m.openPrompt(promptTempo, fmt.Sprint(met.GetTempo()))
	case "h":
		return m.openPrompt(promptMainPitch, formatHz(met.GetPitch(rhythm.VoiceMain)))
	case "H":
		return m.openPrompt(promptOffbeatPitch, formatHz(met.GetPitch(rhythm.VoiceOffbeat)))
	case "n":
		if err := met.SetPattern(rhythm.NextPatternID(met.GetPattern().ID)); err != nil {
			m.notify(err.Error())
		}
	case "m":
		met.SetMultiplier(rhythm.VoiceMain, met.GetMultiplier(rhythm.VoiceMain)+1)
	case "M":
		met.SetMultiplier(rhythm.VoiceMain, met.GetMultiplier(rhythm.VoiceMain)-1)
	case "o":
		met.SetMultiplier(rhythm.VoiceOffbeat, met.GetMultiplier(rhythm.VoiceOffbeat)+1)
	case "O":
		met.SetMultiplier(rhythm.VoiceOffbeat, met.GetMultiplier(rhythm.VoiceOffbeat)-1)
	case "f":
		met.ToggleOffbeatPhase()
	case "c":
		met.ToggleAccent()
	case "v":
		nudgeVolume(met, rhythm.VoiceMain, volumeStep)
	case "V":
		nudgeVolume(met, rhythm.VoiceMain, -volumeStep)
	case "b":
		nudgeVolume(met, rhythm.VoiceOffbeat, volumeStep)
	case "B":
		nudgeVolume(met, rhythm.VoiceOffbeat, -volumeStep)
	case "tab":
		met.SetVisualMode(met.GetVisualMode().Next())
	case "g":
		met.SetPracticeFilter(met.PracticeStats().Filter.Next())
	case "y":
		met.SetComboPolicy(nextComboPolicy(met.PracticeStats().Policy))
	case "r":
		met.ResetPractice()
		delete(m.lastTap, met.ID())
	default:
		if beat, ok := muteKey(key, rhythm.VoiceMain); ok {
			met.ToggleMute(rhythm.VoiceMain, beat)
		} else if beat, ok := muteKey(key, rhythm.VoiceOffbeat); ok {
			met.ToggleMute(rhythm.VoiceOffbeat, beat)
		}
	}
	return m, nil
}

func (m *model) tap(id int) {
	eval, ok, err := m.tr.Tap(id)
	if err != nil {
		m.notify(err.Error())
		return
	}
	if ok {
		m.lastTap[id] = eval
	}
}

func (m model) openPrompt(p prompt, value string) (tea.Model, tea.Cmd) {
	m.prompt = p
	m.input.Placeholder = p.label()
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
	return m, nil
}

func (m model) closePrompt() model {
	m.prompt = promptNone
	m.input.Blur()
	m.input.Reset()
	return m
}

func (m model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "esc":
		return m.closePrompt(), nil
	case "enter":
		p, value := m.prompt, m.input.Value()
		m = m.closePrompt()
		m.submit(p, value)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit applies a completed prompt. Bad numeric input leaves the value unchanged.
func (m *model) submit(p prompt, value string) {
	switch p {
	case promptSave:
		m.savePreset(value)
		return
	case promptLoad:
		m.loadPreset(value)
		return
	}

	met := m.selectedMetronome()
	if met == nil {
		return
	}
	switch p {
	case promptTempo:
		met.ParseTempo(value)
	case promptMainPitch:
		met.ParsePitch(rhythm.VoiceMain, value)
	case promptOffbeatPitch:
		met.ParsePitch(rhythm.VoiceOffbeat, value)
	}
}

func (m *model) savePreset(value string) {
	logger := logger.GetProjectLogger()

	folder, name := splitPresetName(value)
	if err := m.lib.Save(folder, name, m.tr.States(), time.Now()); err != nil {
		m.notify(fmt.Sprintf("Could not save preset: %v", err))
		return
	}
	if err := m.store.Save(m.lib); err != nil {
		logger.Errorf("error writing preset library: %v", err)
		m.notify(fmt.Sprintf("Could not write presets: %v", err))
		return
	}
	logger.WithFields(logrus.Fields{"folder": folder, "preset": name}).Info("Preset saved")
	m.notify(fmt.Sprintf("Saved %s/%s", folder, name))
}

func (m *model) loadPreset(value string) {
	folder, name := splitPresetName(value)
	states, err := m.lib.Load(folder, name)
	if err != nil {
		m.notify(fmt.Sprintf("Could not load preset: %v", err))
		return
	}
	m.tr.Replace(states)
	m.selected = 0
	m.lit = make(map[int]beatFlash)
	m.lastTap = make(map[int]rhythm.Evaluation)
	m.notify(fmt.Sprintf("Loaded %s/%s", folder, name))
}

func nudgeVolume(met *rhythm.Metronome, v rhythm.Voice, delta float64) {
	percent := math.Round(met.GetVolume(v) * 100)
	met.SetVolume(v, percent+delta)
}

func nextComboPolicy(p rhythm.ComboPolicy) rhythm.ComboPolicy {
	switch p {
	case rhythm.ComboAll:
		return rhythm.ComboGreatOrBetter
	case rhythm.ComboGreatOrBetter:
		return rhythm.ComboExcellentOnly
	case rhythm.ComboExcellentOnly:
		return rhythm.ComboDisabled
	default:
		return rhythm.ComboAll
	}
}

// muteKey maps 1-9 to main beats and shift+1-9 to offbeats.
func muteKey(key string, v rhythm.Voice) (int, bool) {
	if v == rhythm.VoiceOffbeat {
		for i, k := range offbeatMuteKeys {
			if k == key {
				return i, true
			}
		}
		return 0, false
	}
	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		return int(key[0] - '1'), true
	}
	return 0, false
}

func formatHz(hz float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.3f", hz), "0"), ".")
}
