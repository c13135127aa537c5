package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/robmorgan/tempo/rhythm"
	"github.com/robmorgan/tempo/utils"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Margin(1, 0)
	dimStyle      = helpStyle.Copy().UnsetMargins()
	noticeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	appStyle      = lipgloss.NewStyle().Margin(1, 2, 0, 2)

	downbeatColor = utils.GetRGBFromString("red")
	beatColor     = utils.GetRGBFromString("blue")
	offbeatColor  = utils.GetRGBFromString("amber")
)

const helpText = `(space) play/stop  (p/s) play/stop all  (a/x) add/remove  (↑/↓) select
([ ] { }) tempo  (t) type tempo  (n) pattern  (m/M o/O) multipliers  (f) offbeat phase  (c) accent
(v/V b/B) volume  (h/H) pitch  (1-9 / shift+1-9) mute  (tab) visual mode
(enter/.) tap  (g) practice voices  (y) combo rule  (r) reset practice  (w/l) save/load preset  (q) quit`

func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("tempo"))
	b.WriteString("\n\n")

	snaps := m.tr.Snapshot()
	if len(snaps) == 0 {
		b.WriteString(dimStyle.Render("No metronomes. Press a to add one."))
		b.WriteString("\n")
	}
	for i, s := range snaps {
		b.WriteString(m.renderMetronome(s, i == m.selected))
		b.WriteString("\n")
	}

	if m.prompt != promptNone {
		b.WriteString(fmt.Sprintf("%s: %s\n", m.prompt.label(), m.input.View()))
	}
	for _, n := range m.notices {
		b.WriteString(noticeStyle.Render(n))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render(helpText))

	if m.quitting {
		b.WriteString("\n")
	}
	return appStyle.Render(b.String())
}

func (m model) renderMetronome(s rhythm.Snapshot, selected bool) string {
	st := s.State

	marker := "  "
	header := fmt.Sprintf("#%d  %d BPM  %s", s.ID, st.TempoBPM, s.Pattern.Name)
	if selected {
		marker = "> "
		header = selectedStyle.Render(header)
	}
	state := "stopped"
	if s.Playing {
		state = "playing"
	}

	lines := []string{
		marker + header + "  " + dimStyle.Render(state),
		"    " + m.renderBeats(s),
		"    " + dimStyle.Render(fmt.Sprintf(
			"x%d/x%d  phase:%s  accent:%s  vol %d%%/%d%%  pitch %sHz/%sHz  show:%s",
			st.MainMultiplier, st.OffbeatMultiplier,
			onOff(st.OffbeatPhaseEnabled), onOff(st.AccentEnabled),
			percent(st.MainVolume), percent(st.OffbeatVolume),
			formatHz(st.MainPitchHz), formatHz(st.OffbeatPitchHz),
			st.VisualMode,
		)),
		"    " + m.renderPractice(s),
	}
	return strings.Join(lines, "\n") + "\n"
}

// renderBeats draws one dot per pulse. The lit dot fades with its flash, muted
// pulses are crossed out and silent pulses are hollow.
func (m model) renderBeats(s rhythm.Snapshot) string {
	muted := make(map[int]bool, len(s.MutedBeats))
	for _, b := range s.MutedBeats {
		muted[b] = true
	}
	offMuted := make(map[int]bool, len(s.MutedOffbeats))
	for _, b := range s.MutedOffbeats {
		offMuted[b] = true
	}

	lit, hasLit := m.lit[s.ID]
	dots := make([]string, 0, s.Pattern.BeatCount)
	for i := 0; i < s.Pattern.BeatCount; i++ {
		glyph := "●"
		switch {
		case !s.Pattern.Sounds(i):
			glyph = "○"
		case muted[i] && offMuted[i]:
			glyph = "×"
		case muted[i] || offMuted[i]:
			glyph = "◐"
		}

		level := 0.0
		if hasLit && s.Playing && lit.beat == i {
			level = lit.flash.Level(m.now)
		}
		dots = append(dots, lipgloss.NewStyle().
			Foreground(lipgloss.Color(dotColor(i, lit.voice, level).Hex())).
			Render(glyph))
	}
	return strings.Join(dots, " ")
}

// dotColor fades from grey to the beat colour as level rises.
func dotColor(beat int, v rhythm.Voice, level float64) colorful.Color {
	base := colorful.Color{R: 0.35, G: 0.35, B: 0.35}
	target := beatColor
	switch {
	case v == rhythm.VoiceOffbeat:
		target = offbeatColor
	case beat == 0:
		target = downbeatColor
	}
	return base.BlendRgb(target, utils.Clamp(level, 0, 1))
}

func (m model) renderPractice(s rhythm.Snapshot) string {
	p := s.Practice
	c := p.Counts
	line := fmt.Sprintf("E:%d G:%d N:%d M:%d  combo %d (max %d)  [%s, %s] ",
		c.Excellent, c.Great, c.Nice, c.Miss, p.Combo, p.MaxCombo, p.Filter, p.Policy)
	line = dimStyle.Render(line) + m.accuracy.ViewAs(c.Accuracy())
	line += fmt.Sprintf(" %d%%", int(c.Accuracy()*100+0.5))
	if eval, ok := m.lastTap[s.ID]; ok {
		line += fmt.Sprintf("  %s %+.0fms", eval.Rating, eval.Offset*1000)
	}
	return line
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func percent(v float64) int {
	return int(v*100 + 0.5)
}
