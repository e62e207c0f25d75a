package ui

// Config contains TUI-specific configuration.
type Config struct {
	GlamourStyle string `env:"GLAMOUR_STYLE" envDefault:"auto"`

	// Engine is shown in the audio status line.
	Engine string

	// For debugging the UI
	AltScreen bool `env:"MEASURE_ALT_SCREEN" envDefault:"true"`
}
