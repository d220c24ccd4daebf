package store

// Config holds configuration for the dataset store.
type Config struct {
	// Path is the location of the persisted dataset document.
	Path string `mapstructure:"path" default:"data/dataset.json"`
}
