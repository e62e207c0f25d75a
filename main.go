// Package main provides the entry point for the measure CLI application.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/measure/internal/audio"
	"github.com/charmbracelet/measure/internal/tts"
	"github.com/charmbracelet/measure/internal/ttypes"
	"github.com/charmbracelet/measure/ui"
	"github.com/mitchellh/go-homedir"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string
	ttsEngine  string
	ttsTimeout time.Duration
	ttsConfig  tts.Config

	rootCmd = &cobra.Command{
		Use:   "measure",
		Short: "Convert length, weight and temperature, out loud",
		Long: paragraph(
			fmt.Sprintf("\nConvert %s in the terminal and hear the result.", keyword("length, weight and temperature")),
		),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOptions(cmd)
		},
		RunE: func(*cobra.Command, []string) error {
			return runTUI()
		},
	}
)

func expandPath(path string) string {
	if path == "" {
		return path
	}
	p, err := homedir.Expand(path)
	if err != nil {
		return path
	}
	return os.ExpandEnv(p)
}

// validateOptions resolves the speech configuration from flags, environment
// and config file, in that order of precedence.
func validateOptions(cmd *cobra.Command) error {
	if cmd.Flags().Changed("config") {
		viper.SetConfigFile(expandPath(configFile))
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("unable to read config file %s: %w", configFile, err)
		}
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
	}
	if cmd.Annotations[skipValidation] == "true" {
		return nil
	}

	cfg := tts.DefaultConfig()

	engine, err := tts.ValidateEngineSelection(viper.GetString("tts.engine"), tts.Config{})
	if err != nil {
		return fmt.Errorf("speech validation failed: %w", err)
	}
	cfg.Engine = engine

	cfg.Timeout = viper.GetDuration("tts.timeout")
	if cmd.Flags().Changed("timeout") {
		cfg.Timeout = ttsTimeout
	}
	cfg.Speed = viper.GetFloat64("tts.speed")
	cfg.Volume = viper.GetFloat64("tts.volume")
	cfg.GTTS.Language = viper.GetString("tts.gtts.language")
	cfg.GTTS.Slow = viper.GetBool("tts.gtts.slow")
	cfg.GTTS.RequestsPerMinute = viper.GetInt("tts.gtts.requests_per_minute")
	cfg.GTTS.TempDir = expandPath(viper.GetString("tts.gtts.temp_dir"))
	cfg.Piper.ModelPath = expandPath(viper.GetString("tts.piper.model"))
	cfg.Piper.ConfigPath = expandPath(viper.GetString("tts.piper.config"))

	if err := validateTTSConfig(cfg); err != nil {
		return fmt.Errorf("speech config validation failed: %w", err)
	}

	ttsConfig = cfg
	return nil
}

// validateTTSConfig checks values the engines cannot check themselves.
func validateTTSConfig(cfg tts.Config) error {
	if err := tts.ValidateConfig(cfg); err != nil {
		return err
	}
	if cfg.Timeout == 0 {
		return errors.New("tts.timeout must be greater than zero")
	}

	lang := cfg.GTTS.Language
	if cfg.Engine == ttypes.EngineGoogle && (len(lang) < 2 || len(lang) > 5) {
		return fmt.Errorf("tts.gtts.language must be 2-5 characters, got %q", lang)
	}

	if cfg.Engine == ttypes.EnginePiper {
		if cfg.Piper.ModelPath == "" {
			return errors.New("tts.piper.model is required for the piper engine")
		}
		if _, err := os.Stat(cfg.Piper.ModelPath); err != nil {
			return fmt.Errorf("piper model file does not exist: %s", cfg.Piper.ModelPath)
		}
	}
	return nil
}

// newSpeech builds the announcer and the audio player. Either may be nil:
// speech can be off, and a missing audio device only disables playback.
func newSpeech(cfg tts.Config) (*tts.Announcer, *audio.Player, error) {
	announcer, err := tts.NewAnnouncerFromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	if announcer == nil {
		return nil, nil, nil
	}

	player, err := audio.NewPlayer(audio.ConfigFor(announcer.Engine()))
	if err != nil {
		log.Warn("audio device unavailable, playback disabled", "error", err)
		return announcer, nil, nil
	}
	if err := player.SetVolume(cfg.Volume); err != nil {
		log.Warn("ignoring volume", "error", err)
	}
	return announcer, player, nil
}

func runTUI() error {
	// Read environment to get debugging stuff
	cfg, err := env.ParseAs[ui.Config]()
	if err != nil {
		return fmt.Errorf("error parsing config: %v", err)
	}
	if _, ok := styles.DefaultStyles[cfg.GlamourStyle]; !ok && cfg.GlamourStyle != styles.AutoStyle {
		cfg.GlamourStyle = styles.AutoStyle
	}
	cfg.Engine = string(ttsConfig.Engine)

	announcer, player, err := newSpeech(ttsConfig)
	if err != nil {
		return fmt.Errorf("unable to start speech: %w", err)
	}

	var p ttypes.AudioPlayer
	if player != nil {
		p = player
		defer player.Close() //nolint:errcheck
	}

	// Run Bubble Tea program
	if _, err := ui.NewProgram(cfg, announcer, p).Run(); err != nil {
		return fmt.Errorf("unable to run tui program: %w", err)
	}
	return nil
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.PersistentFlags().StringVar(&ttsEngine, "tts", "", "speech engine: gtts, piper, mock or none")
	rootCmd.PersistentFlags().DurationVar(&ttsTimeout, "timeout", tts.DefaultTimeout, "maximum time to wait for speech synthesis")

	// Config bindings
	_ = viper.BindPFlag("tts.engine", rootCmd.PersistentFlags().Lookup("tts"))
	_ = viper.BindPFlag("tts.timeout", rootCmd.PersistentFlags().Lookup("timeout"))

	viper.SetDefault("tts.engine", string(ttypes.EngineGoogle))
	viper.SetDefault("tts.timeout", tts.DefaultTimeout)
	viper.SetDefault("tts.speed", 1.0)
	viper.SetDefault("tts.volume", 1.0)
	viper.SetDefault("tts.gtts.language", tts.DefaultLanguage)
	viper.SetDefault("tts.gtts.slow", false)
	viper.SetDefault("tts.gtts.requests_per_minute", 50)
	viper.SetDefault("tts.piper.model", "")
	viper.SetDefault("tts.piper.config", "")
	viper.SetDefault("tts.gtts.temp_dir", "")

	rootCmd.AddCommand(configCmd, convertCmd, manCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "measure")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not load find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "measure")}, dirs...)
	}

	if c := os.Getenv("MEASURE_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("measure")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("measure")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], "measure.yml")
	}
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
		return
	}
	viper.SetConfigFile(configFile)
}
