package radarsim

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/banshee-data/radard/internal/messages"
	"go.bug.st/serial"
)

// SerialTransport reads newline-delimited radar frames from a real
// serial port using a placeholder line protocol:
//
//	id,dRel,yRel,vRel,measured;id,dRel,yRel,vRel,measured;...
//
// This is a development stand-in, not the vendor radar protocol, which
// remains an out-of-scope external collaborator per spec.md §1.
type SerialTransport struct {
	port   serial.Port
	frames chan messages.RadarData
	done   chan struct{}
}

// NewSerialTransport opens portName at baudRate and starts decoding
// frames from it.
func NewSerialTransport(portName string, baudRate int) (*SerialTransport, error) {
	port, err := serial.Open(portName, &serial.Mode{BaudRate: baudRate})
	if err != nil {
		return nil, fmt.Errorf("radarsim: opening serial port %q: %w", portName, err)
	}

	t := &SerialTransport{
		port:   port,
		frames: make(chan messages.RadarData),
		done:   make(chan struct{}),
	}
	go t.run()
	return t, nil
}

func (t *SerialTransport) run() {
	defer close(t.frames)

	scanner := bufio.NewScanner(t.port)
	for scanner.Scan() {
		frame, err := decodeLine(scanner.Text())
		if err != nil {
			frame = messages.RadarData{Errors: []string{err.Error()}}
		}

		select {
		case t.frames <- frame:
		case <-t.done:
			return
		}
	}
}

func decodeLine(line string) (messages.RadarData, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return messages.RadarData{}, nil
	}

	var points []messages.RadarPoint
	for _, rec := range strings.Split(line, ";") {
		if rec == "" {
			continue
		}
		fields := strings.Split(rec, ",")
		if len(fields) != 5 {
			return messages.RadarData{}, fmt.Errorf("radarsim: malformed record %q", rec)
		}

		id, err := strconv.ParseInt(fields[0], 10, 32)
		if err != nil {
			return messages.RadarData{}, fmt.Errorf("radarsim: bad track id in %q: %w", rec, err)
		}
		dRel, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return messages.RadarData{}, fmt.Errorf("radarsim: bad dRel in %q: %w", rec, err)
		}
		yRel, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return messages.RadarData{}, fmt.Errorf("radarsim: bad yRel in %q: %w", rec, err)
		}
		vRel, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return messages.RadarData{}, fmt.Errorf("radarsim: bad vRel in %q: %w", rec, err)
		}
		measured, err := strconv.ParseBool(fields[4])
		if err != nil {
			return messages.RadarData{}, fmt.Errorf("radarsim: bad measured flag in %q: %w", rec, err)
		}

		points = append(points, messages.RadarPoint{
			TrackID:  int32(id),
			DRel:     dRel,
			YRel:     yRel,
			VRel:     vRel,
			Measured: measured,
		})
	}

	return messages.RadarData{Points: points}, nil
}

// Frames returns the channel of decoded radar frames.
func (t *SerialTransport) Frames() <-chan messages.RadarData { return t.frames }

// Close stops decoding and closes the serial port.
func (t *SerialTransport) Close() error {
	close(t.done)
	return t.port.Close()
}
