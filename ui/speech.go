package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/measure/internal/tts"
	"github.com/dustin/go-humanize"
)

const playbackPollInterval = 200 * time.Millisecond

// speechState is what the audio status line reports.
type speechState int

const (
	speechIdle speechState = iota
	speechDisabled
	speechSynthesizing
	speechReady
	speechPlaying
	speechFailed
)

// announcedMsg carries the result of a synthesis. seq identifies the submit
// that requested it.
type announcedMsg struct {
	seq          int
	announcement *tts.Announcement
	err          error
}

type playbackTickMsg struct{ seq int }

// announceCmd synthesizes text in the background.
func announceCmd(a *tts.Announcer, seq int, text string) tea.Cmd {
	return func() tea.Msg {
		ann, err := a.Announce(context.Background(), text)
		return announcedMsg{seq: seq, announcement: ann, err: err}
	}
}

func playbackTick(seq int) tea.Cmd {
	return tea.Tick(playbackPollInterval, func(time.Time) tea.Msg {
		return playbackTickMsg{seq: seq}
	})
}

// handleAnnounced applies a synthesis result unless a newer submit has
// superseded it.
func (m *model) handleAnnounced(msg announcedMsg) {
	if msg.seq != m.seq {
		log.Debug("ignoring stale announcement", "seq", msg.seq, "current", m.seq)
		return
	}
	if msg.err != nil {
		m.speechErr = msg.err
		m.announcement = nil
		m.speech = speechFailed
		var te *tts.TTSError
		if errors.As(msg.err, &te) && te.IsFatal() {
			log.Warn("disabling speech for this session", "error", msg.err)
			m.speech = speechDisabled
		}
		return
	}
	m.speech = speechReady
	m.speechErr = nil
	m.announcement = msg.announcement
}

// play starts the last announcement. Playback only ever starts here.
func (m *model) play() tea.Cmd {
	if m.announcement == nil || m.speech == speechSynthesizing {
		return nil
	}
	if m.player == nil {
		m.speech = speechFailed
		m.speechErr = tts.NewTTSError(tts.ErrorCodeAudioDevice, "no audio device", nil)
		return nil
	}
	if err := m.player.Play(m.announcement.Audio); err != nil {
		log.Warn("playback failed", "error", err)
		m.speech = speechFailed
		m.speechErr = tts.NewTTSError(tts.ErrorCodeAudioFailure, "playback failed", err)
		return nil
	}
	m.speech = speechPlaying
	m.playSeq++
	return playbackTick(m.playSeq)
}

func (m *model) stop() {
	if m.player == nil || m.speech != speechPlaying {
		return
	}
	if err := m.player.Stop(); err != nil {
		log.Warn("stopping playback", "error", err)
	}
	m.speech = speechReady
}

func (m *model) handlePlaybackTick(msg playbackTickMsg) tea.Cmd {
	if msg.seq != m.playSeq || m.speech != speechPlaying {
		return nil
	}
	if m.player.IsPlaying() {
		return playbackTick(msg.seq)
	}
	m.speech = speechReady
	return nil
}

// audioStatusView renders the line under the result.
func (m model) audioStatusView() string {
	sep := subtleStyle.Render(" │ ")
	engine := lipgloss.NewStyle().Foreground(accent).Bold(true).
		Render("🔊 " + strings.ToUpper(m.common.cfg.Engine))

	var status string
	switch m.speech {
	case speechDisabled:
		if m.speechErr != nil {
			return subtleStyle.Render("🔇 speech off: ") + errorStyle.Render(m.speechErr.Error())
		}
		return subtleStyle.Render("🔇 speech off")
	case speechIdle:
		status = subtleStyle.Render("waiting for a conversion")
	case speechSynthesizing:
		status = m.spinner.View() + " synthesizing…"
	case speechReady:
		a := m.announcement
		status = fmt.Sprintf("■ ready %s %s %s %s",
			humanize.Bytes(uint64(len(a.Audio))), //nolint:gosec
			subtleStyle.Render("·"),
			formatDuration(a.Duration),
			subtleStyle.Render("(ctrl+p to play)"))
	case speechPlaying:
		status = playingStyle.Render(fmt.Sprintf("▶ %s / %s",
			formatDuration(m.player.GetPosition()),
			formatDuration(m.announcement.Duration)))
	case speechFailed:
		status = errorStyle.Render(fmt.Sprintf("⚠ audio unavailable: %v", m.speechErr))
	}
	return engine + sep + status
}

func formatDuration(d time.Duration) string {
	d = d.Round(100 * time.Millisecond)
	return fmt.Sprintf("%d:%04.1f", int(d.Minutes()), (d % time.Minute).Seconds())
}
