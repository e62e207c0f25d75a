// Package ui provides the interactive conversion form for measure.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/measure/internal/history"
	"github.com/charmbracelet/measure/internal/session"
	"github.com/charmbracelet/measure/internal/tts"
	"github.com/charmbracelet/measure/internal/ttypes"
	te "github.com/muesli/termenv"
)

const (
	statusMessageTimeout = time.Second * 3 // how long to show status messages like "copied!"
	ellipsis             = "…"
)

// writeClipboard is replaced in tests.
var writeClipboard = func(s string) error {
	te.Copy(s)
	return clipboard.WriteAll(s)
}

// NewProgram returns a new Tea program. announcer and player may be nil when
// speech is off or no audio device is available.
func NewProgram(cfg Config, announcer *tts.Announcer, player ttypes.AudioPlayer) *tea.Program {
	log.Debug("starting measure", "alt_screen", cfg.AltScreen, "engine", cfg.Engine)

	var opts []tea.ProgramOption
	if cfg.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	m := newModel(cfg, session.Start(), announcer, player)
	return tea.NewProgram(m, opts...)
}

// state is the form's place in the conversion flow.
type state int

const (
	stateSelectingCategory state = iota
	stateConfiguringUnits
	stateConverted
)

func (s state) String() string {
	return map[state]string{
		stateSelectingCategory: "selecting category",
		stateConfiguringUnits:  "configuring units",
		stateConverted:         "converted",
	}[s]
}

// statusMessageTimeoutMsg clears the status message it was scheduled for.
type statusMessageTimeoutMsg struct{ seq int }

// Common stuff we'll need to access in all views.
type commonModel struct {
	cfg    Config
	width  int
	height int
}

type model struct {
	common *commonModel
	state  state
	form   form

	session   *session.Session
	announcer *tts.Announcer
	player    ttypes.AudioPlayer

	// result is the sentence of the last successful submit
	result string

	// seq increases with every submit; announcements for older
	// submits are dropped
	seq          int
	playSeq      int
	speech       speechState
	speechErr    error
	announcement *tts.Announcement
	spinner      spinner.Model

	keys     keyMap
	help     help.Model
	showHelp bool
	helpView string

	statusMessage    string
	statusMessageSeq int

	quitting bool
}

func newModel(cfg Config, s *session.Session, announcer *tts.Announcer, player ttypes.AudioPlayer) model {
	if cfg.GlamourStyle == "" || cfg.GlamourStyle == styles.AutoStyle {
		if te.HasDarkBackground() {
			cfg.GlamourStyle = styles.DarkStyle
		} else {
			cfg.GlamourStyle = styles.LightStyle
		}
	}
	if cfg.Engine == "" && announcer != nil {
		cfg.Engine = announcer.Engine().Name
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(fuchsia)

	m := model{
		common:    &commonModel{cfg: cfg},
		state:     stateSelectingCategory,
		form:      newForm(),
		session:   s,
		announcer: announcer,
		player:    player,
		spinner:   sp,
		keys:      newKeyMap(),
		help:      help.New(),
	}
	if announcer == nil {
		m.speech = speechDisabled
	}
	return m
}

func (m model) Init() tea.Cmd {
	return tea.SetWindowTitle("measure")
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.common.width = msg.Width
		m.common.height = msg.Height
		m.help.Width = msg.Width
		if m.showHelp {
			m.helpView = renderHelp(m.common.cfg.GlamourStyle, msg.Width)
		}

	case announcedMsg:
		m.handleAnnounced(msg)

	case playbackTickMsg:
		return m, m.handlePlaybackTick(msg)

	case spinner.TickMsg:
		if m.speech != speechSynthesizing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case statusMessageTimeoutMsg:
		if msg.seq == m.statusMessageSeq {
			m.statusMessage = ""
		}
	}

	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quit()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		if m.showHelp {
			m.helpView = renderHelp(m.common.cfg.GlamourStyle, m.common.width)
		}
		return m, nil

	case m.showHelp:
		// any other key closes the help page
		m.showHelp = false
		return m, nil

	case key.Matches(msg, m.keys.Next):
		m.form.nextField()
		m.leaveCategorySelection()
		return m, nil

	case key.Matches(msg, m.keys.Prev):
		m.form.prevField()
		m.leaveCategorySelection()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		return m.submit()

	case key.Matches(msg, m.keys.Play):
		return m, m.play()

	case key.Matches(msg, m.keys.Stop):
		m.stop()
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		return m, m.copyResult()
	}

	if m.form.focus == fieldValue {
		var cmd tea.Cmd
		before := m.form.value.Value()
		m.form.value, cmd = m.form.value.Update(msg)
		if m.form.value.Value() != before {
			m.state = stateConfiguringUnits
		}
		return m, cmd
	}

	delta := 0
	switch {
	case key.Matches(msg, m.keys.Left):
		delta = -1
	case key.Matches(msg, m.keys.Right):
		delta = 1
	default:
		return m, nil
	}

	if m.form.cycle(delta) {
		log.Debug("category changed", "category", m.form.Category())
		m.result = ""
	}
	m.state = stateConfiguringUnits
	return m, nil
}

// leaveCategorySelection advances the flow once focus moves past the
// category selector for the first time.
func (m *model) leaveCategorySelection() {
	if m.state == stateSelectingCategory && m.form.focus != fieldCategory {
		m.state = stateConfiguringUnits
	}
}

// submit validates, converts, records and renders the result, then hands
// the sentence to the announcer.
func (m model) submit() (tea.Model, tea.Cmd) {
	if m.form.value.Err != nil {
		log.Debug("submit rejected", "error", m.form.value.Err)
		return m, nil
	}
	value, err := m.form.Value()
	if err != nil {
		m.form.value.Err = err
		return m, nil
	}

	c := m.form.Category()
	record := history.NewRecord(c, value, m.form.FromUnit(), m.form.ToUnit())
	m.session.Record(record)
	m.result = record.Sentence()
	m.state = stateConverted
	m.seq++
	log.Debug("converted", "session", m.session.ID, "seq", m.seq, "category", c, "result", record.String())

	if m.announcer == nil || m.speech == speechDisabled {
		return m, nil
	}
	if m.speech == speechPlaying {
		m.stop()
	}
	m.speech = speechSynthesizing
	m.speechErr = nil
	m.announcement = nil
	return m, tea.Batch(m.spinner.Tick, announceCmd(m.announcer, m.seq, m.result))
}

func (m *model) copyResult() tea.Cmd {
	if m.result == "" {
		return nil
	}
	if err := writeClipboard(m.result); err != nil {
		log.Warn("copy failed", "error", err)
		return m.showStatusMessage("copy failed")
	}
	return m.showStatusMessage("copied!")
}

func (m *model) showStatusMessage(s string) tea.Cmd {
	m.statusMessage = s
	m.statusMessageSeq++
	seq := m.statusMessageSeq
	return tea.Tick(statusMessageTimeout, func(time.Time) tea.Msg {
		return statusMessageTimeoutMsg{seq: seq}
	})
}

// quit stops audio and ends the session, discarding its history.
func (m *model) quit() {
	m.quitting = true
	if m.player != nil {
		if err := m.player.Stop(); err != nil {
			log.Warn("stopping playback on quit", "error", err)
		}
	}
	m.session.End()
}

func (m model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return m.helpView
	}

	formBox := formBoxStyle.Render(m.form.view())
	historyBox := historyBoxStyle.
		Height(lipgloss.Height(formBox) - 2).
		Render(historyView(m.session.History, historyPanelWidth))

	var b strings.Builder
	fmt.Fprintln(&b, lipgloss.JoinHorizontal(lipgloss.Top, formBox, " ", historyBox))
	fmt.Fprintln(&b)

	if m.result != "" {
		fmt.Fprintln(&b, successStyle.Render(m.result))
	} else {
		fmt.Fprintln(&b, subtleStyle.Render("Press enter to convert."))
	}
	fmt.Fprintln(&b, m.audioStatusView())
	fmt.Fprintln(&b)

	if m.statusMessage != "" {
		fmt.Fprintln(&b, statusMessageStyle(m.statusMessage))
	}
	fmt.Fprint(&b, m.help.View(m.keys))

	return indent(b.String(), 1)
}
