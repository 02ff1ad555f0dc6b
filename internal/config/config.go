package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`

	// HistoryLimit bounds each room's in-memory log and the history sent on join.
	HistoryLimit int `mapstructure:"history_limit" yaml:"history_limit"`
	// ClientBuffer bounds each client's outbound event queue.
	ClientBuffer int `mapstructure:"client_buffer" yaml:"client_buffer"`
	// MessageRateLimit caps inbound frames per connection per minute. 0 disables it.
	MessageRateLimit int `mapstructure:"message_rate_limit" yaml:"message_rate_limit"`
	// DatabasePath points at the SQLite message archive. Empty runs in memory only.
	DatabasePath string `mapstructure:"database_path" yaml:"database_path"`
	// DefaultRooms seeds the room catalog so clients have somewhere to land.
	DefaultRooms []string `mapstructure:"default_rooms" yaml:"default_rooms"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		HistoryLimit:      50,
		ClientBuffer:      32,
		MessageRateLimit:  120,
		DatabasePath:      "",
		DefaultRooms:      []string{"general", "tech", "random"},
	}
}
