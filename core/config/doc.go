// Package config provides configuration management for the tracker.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Log: logging level and format
//   - Store: dataset document path
//   - Wiki: primary source URLs, timeout, and retry budget
//   - Fallback: lookup-service credential, endpoint, and model
//   - Render: template/output paths and focus country
//   - Server: preview HTTP server settings
//
// Every field carries a 'default' struct tag; environment variables map
// onto nested keys with underscores (FALLBACK_API_KEY -> fallback.api_key).
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Store.Path)
package config
