package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/measure/internal/convert"
	"github.com/charmbracelet/measure/internal/history"
	"github.com/charmbracelet/measure/internal/tts"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	say bool

	convertCmd = &cobra.Command{
		Use:   "convert VALUE FROM TO",
		Short: "Convert a single value and print the result",
		Long: paragraph(fmt.Sprintf("\n%s a value between two units of the same kind. "+
			"Units are %s, %s or %s.",
			keyword("Convert"),
			unitList(convert.Length), unitList(convert.Weight), unitList(convert.Temperature))),
		Example: paragraph("measure convert 5 miles kilometers\nmeasure convert --say 100 celsius fahrenheit\nmeasure convert -- -40 celsius fahrenheit"),
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			sentence, err := runConvert(cmd.OutOrStdout(), args)
			if err != nil {
				return err
			}
			if say {
				if err := speak(cmd.Context(), sentence); err != nil {
					log.Warn("speech failed", "error", err)
					fmt.Fprintln(cmd.ErrOrStderr(), "audio unavailable:", err)
				}
			}
			return nil
		},
	}
)

var errUnitMismatch = errors.New("units are of different kinds")

func unitList(c convert.Category) string {
	units := c.Units()
	s := ""
	for i, u := range units {
		switch {
		case i == 0:
		case i == len(units)-1:
			s += " and "
		default:
			s += ", "
		}
		s += u
	}
	return fmt.Sprintf("%s (%s)", c, s)
}

// parseConversion turns command line arguments into a validated record.
func parseConversion(args []string) (history.Record, error) {
	value, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return history.Record{}, fmt.Errorf("invalid value %q: %w", args[0], err)
	}
	from, fc, err := convert.ParseUnit(args[1])
	if err != nil {
		return history.Record{}, err
	}
	to, tc, err := convert.ParseUnit(args[2])
	if err != nil {
		return history.Record{}, err
	}
	if fc != tc {
		return history.Record{}, fmt.Errorf("%w: %s is a %s unit, %s is a %s unit", errUnitMismatch, from, fc, to, tc)
	}
	if err := fc.Validate(value); err != nil {
		return history.Record{}, err
	}
	return history.NewRecord(fc, value, from, to), nil
}

// runConvert prints the sentence for args to w, colored when w is a terminal.
func runConvert(w io.Writer, args []string) (string, error) {
	r, err := parseConversion(args)
	if err != nil {
		return "", err
	}
	sentence := r.Sentence()
	log.Debug("converted", "category", r.Category, "result", r.String())

	out := sentence
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		o := termenv.NewOutput(f)
		out = o.String(sentence).Foreground(o.Color("#04B575")).Bold().String()
	}
	if _, err := fmt.Fprintln(w, out); err != nil {
		return "", fmt.Errorf("unable to write to writer: %w", err)
	}
	return sentence, nil
}

// speak synthesizes sentence and blocks until playback ends.
func speak(ctx context.Context, sentence string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	announcer, player, err := newSpeech(ttsConfig)
	if err != nil {
		return err
	}
	if announcer == nil {
		return tts.ErrSpeechDisabled
	}
	if player == nil {
		return tts.NewTTSError(tts.ErrorCodeAudioDevice, "no audio device", nil)
	}
	defer player.Close() //nolint:errcheck

	ann, err := announcer.Announce(ctx, sentence)
	if err != nil {
		return err
	}
	if err := player.Play(ann.Audio); err != nil {
		return tts.NewTTSError(tts.ErrorCodeAudioFailure, "playback failed", err)
	}
	return player.Wait(ctx)
}

func init() {
	convertCmd.Flags().BoolVar(&say, "say", false, "speak the result")
}
