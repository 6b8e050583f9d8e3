// Package strokes reads pointer-event scripts and replays them against an editor.
package strokes

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/user/maskpaint/pkg/pointer"
	"github.com/user/maskpaint/pkg/ports"
)

// EventType names a pointer or editor event in a script.
type EventType string

const (
	Down  EventType = "down"
	Move  EventType = "move"
	Up    EventType = "up"
	Leave EventType = "leave"
	Enter EventType = "enter"
	Clear EventType = "clear"
)

// ErrUnknownEvent is returned for an event type not listed above.
var ErrUnknownEvent = errors.New("strokes: unknown event type")

// Event is one scripted input. X and Y are page coordinates and only matter
// for down and move.
type Event struct {
	Type EventType `yaml:"type"`
	X    float64   `yaml:"x"`
	Y    float64   `yaml:"y"`
}

// Script is a recorded editing session.
//
//	box: {left: 0, top: 0, width: 512, height: 256}
//	prompt: a red balloon
//	events:
//	  - {type: down, x: 100, y: 100}
//	  - {type: move, x: 200, y: 100}
//	  - {type: up}
type Script struct {
	// Box is where the canvas sat on the page. When nil, the canvas is
	// assumed to be shown at its intrinsic size at the page origin.
	Box    *pointer.Box `yaml:"box"`
	Prompt string       `yaml:"prompt"`
	Events []Event      `yaml:"events"`
}

// Parse decodes and validates a YAML script.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse stroke script: %w", err)
	}
	for i, ev := range s.Events {
		switch ev.Type {
		case Down, Move, Up, Leave, Enter, Clear:
		default:
			return nil, fmt.Errorf("%w %q at event %d", ErrUnknownEvent, ev.Type, i)
		}
	}
	return &s, nil
}

// Load reads and parses the script at path.
func Load(fs ports.FileSystem, path string) (*Script, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stroke script: %w", err)
	}
	return Parse(data)
}

// Target receives replayed events. *editor.Editor satisfies it.
type Target interface {
	PointerDown(p pointer.PagePoint, box pointer.Box)
	PointerMove(p pointer.PagePoint, box pointer.Box)
	PointerUp() error
	PointerLeave()
	PointerEnter()
	Clear() error
}

// Replay feeds the script's events to t in order. fallback is used when the
// script has no box.
func (s *Script) Replay(t Target, fallback pointer.Box) error {
	box := fallback
	if s.Box != nil {
		box = *s.Box
	}
	for i, ev := range s.Events {
		p := pointer.PagePoint{X: ev.X, Y: ev.Y}
		var err error
		switch ev.Type {
		case Down:
			t.PointerDown(p, box)
		case Move:
			t.PointerMove(p, box)
		case Up:
			err = t.PointerUp()
		case Leave:
			t.PointerLeave()
		case Enter:
			t.PointerEnter()
		case Clear:
			err = t.Clear()
		default:
			err = ErrUnknownEvent
		}
		if err != nil {
			return fmt.Errorf("event %d (%s): %w", i, ev.Type, err)
		}
	}
	return nil
}
