package radarsim

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/banshee-data/radard/internal/messages"
	"github.com/banshee-data/radard/internal/timeutil"
)

// FixtureTransport replays a newline-delimited JSON fixture of
// messages.RadarData frames at a fixed cadence, for local development
// and testing without a real radar attached.
type FixtureTransport struct {
	frames chan messages.RadarData
	done   chan struct{}
	file   *os.File
}

// NewFixtureTransport opens path (one JSON-encoded messages.RadarData
// per line) and starts replaying frames at the given period using clock.
func NewFixtureTransport(path string, period time.Duration, clock timeutil.Clock) (*FixtureTransport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("radarsim: opening fixture: %w", err)
	}

	t := &FixtureTransport{
		frames: make(chan messages.RadarData),
		done:   make(chan struct{}),
		file:   f,
	}

	ticker := clock.NewTicker(period)
	go t.run(ticker)
	return t, nil
}

func (t *FixtureTransport) run(ticker timeutil.Ticker) {
	defer close(t.frames)
	defer t.file.Close()
	defer ticker.Stop()

	scanner := bufio.NewScanner(t.file)

	for scanner.Scan() {
		select {
		case <-t.done:
			return
		case <-ticker.C():
		}

		var frame messages.RadarData
		if err := json.Unmarshal(scanner.Bytes(), &frame); err != nil {
			continue // malformed fixture line: treated as transport noise, not fatal
		}

		select {
		case t.frames <- frame:
		case <-t.done:
			return
		}
	}
}

// Frames returns the channel of decoded radar frames.
func (t *FixtureTransport) Frames() <-chan messages.RadarData { return t.frames }

// Close stops replay and releases the fixture file.
func (t *FixtureTransport) Close() error {
	close(t.done)
	return nil
}
