package session

import (
	"os"
	"time"

	"github.com/penwyp/go-tt/internal/core/model"
)

// SystemProbe inspects real processes on this machine
type SystemProbe struct {
	host string
}

// NewSystemProbe resolves the hostname once
func NewSystemProbe() *SystemProbe {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	return &SystemProbe{host: host}
}

func (p *SystemProbe) Host() string {
	return p.host
}

// CurrentOwner describes this process. startedAt separates it from a
// later process that happens to reuse the pid.
func CurrentOwner(probe ProcessProbe, startedAt time.Time) model.Owner {
	return model.Owner{
		PID:       os.Getpid(),
		Host:      probe.Host(),
		StartedAt: startedAt.Truncate(time.Second),
	}
}
