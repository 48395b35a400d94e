package track

import (
	"io"
	"time"

	"github.com/penwyp/go-tt/internal/core/session"
)

// Config controls the foreground tracking loop
type Config struct {
	HeartbeatInterval time.Duration // how often liveness is written
	RefreshInterval   time.Duration // clock redraw rate
	StopTimeout       time.Duration // budget for the final stop after an interrupt

	ShowClock bool      // draw the big clock when Output is a terminal
	Keyboard  bool      // read q/Esc/Ctrl+C from stdin when it is a terminal
	Output    io.Writer // defaults to os.Stdout
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		HeartbeatInterval: session.DefaultHeartbeatInterval,
		RefreshInterval:   time.Second,
		StopTimeout:       5 * time.Second,
		ShowClock:         true,
		Keyboard:          true,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.HeartbeatInterval <= 0 {
		c.HeartbeatInterval = def.HeartbeatInterval
	}
	if c.RefreshInterval <= 0 {
		c.RefreshInterval = def.RefreshInterval
	}
	if c.StopTimeout <= 0 {
		c.StopTimeout = def.StopTimeout
	}
	return c
}
