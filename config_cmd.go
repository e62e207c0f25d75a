package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/x/editor"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// skipValidation marks commands that run without a resolved speech config.
const skipValidation = "skip-validation"

// envKeyReplacer maps nested keys to environment names, so tts.gtts.language
// is read from MEASURE_TTS_GTTS_LANGUAGE.
var envKeyReplacer = strings.NewReplacer(".", "_")

const defaultConfig = `# Speech settings. Every conversion is announced after the result is shown;
# press ctrl+p in the TUI to play it.
tts:
  # engine: gtts (online), piper (offline), mock (silent) or none
  engine: "gtts"
  # maximum time to wait for a single synthesis
  timeout: "10s"
  # speech tempo (0.5 to 2.0)
  speed: 1.0
  # playback volume (0.0 to 1.0)
  volume: 1.0

  gtts:
    # language code of the announcement
    language: "en"
    slow: false
    requests_per_minute: 50
    # temp_dir: "/tmp"

  piper:
    # model: "~/.local/share/piper/en_US-lessac-medium.onnx"
    # config: "~/.local/share/piper/en_US-lessac-medium.onnx.json"
`

var configCmd = &cobra.Command{
	Use:         "config",
	Hidden:      false,
	Short:       "Edit the measure config file",
	Long:        paragraph(fmt.Sprintf("\n%s the measure config file. We’ll use EDITOR to determine which editor to use. If the config file doesn't exist, it will be created.", keyword("Edit"))),
	Example:     paragraph("measure config\nmeasure config --config path/to/config.yml"),
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipValidation: "true"},
	RunE: func(*cobra.Command, []string) error {
		if err := ensureConfigFile(); err != nil {
			return err
		}

		c, err := editor.Cmd("Measure", configFile)
		if err != nil {
			return fmt.Errorf("unable to set config file: %w", err)
		}
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		if err := c.Run(); err != nil {
			return fmt.Errorf("unable to run command: %w", err)
		}

		fmt.Println("Wrote config file to:", configFile)
		return nil
	},
}

func ensureConfigFile() error {
	if configFile == "" {
		configFile = viper.GetViper().ConfigFileUsed()
		if err := os.MkdirAll(filepath.Dir(configFile), 0o755); err != nil { //nolint:gosec
			return fmt.Errorf("could not write configuration file: %w", err)
		}
	}

	if ext := path.Ext(configFile); ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("'%s' is not a supported configuration type: use '%s' or '%s'", ext, ".yaml", ".yml")
	}

	if _, err := os.Stat(configFile); errors.Is(err, fs.ErrNotExist) {
		// File doesn't exist yet, create all necessary directories and
		// write the default config file
		if err := os.MkdirAll(filepath.Dir(configFile), 0o700); err != nil {
			return fmt.Errorf("unable create directory: %w", err)
		}

		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("unable to create config file: %w", err)
		}
		defer func() { _ = f.Close() }()

		if _, err := f.WriteString(defaultConfig); err != nil {
			return fmt.Errorf("unable to write config file: %w", err)
		}
	} else if err != nil { // some other error occurred
		return fmt.Errorf("unable to stat config file: %w", err)
	}
	return nil
}
