package alerts

import (
	"fmt"

	"github.com/fatih/color"
)

// Level represents the severity of an alert.
type Level int

const (
	// LevelError indicates a failure or error condition.
	LevelError Level = iota
	// LevelWarning indicates a potential issue or important notice.
	LevelWarning
	// LevelInfo indicates general informational messages.
	LevelInfo
	// LevelSuccess indicates successful completion of an operation.
	LevelSuccess
)

// String returns the string representation of the alert level.
func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarning:
		return "warning"
	case LevelInfo:
		return "info"
	case LevelSuccess:
		return "success"
	default:
		return fmt.Sprintf("unknown(%d)", l)
	}
}

// Icon returns the symbol printed in front of the message.
func (l Level) Icon() string {
	switch l {
	case LevelError:
		return "✗"
	case LevelWarning:
		return "!"
	case LevelInfo:
		return "i"
	case LevelSuccess:
		return "✓"
	default:
		return "?"
	}
}

// Paint colors s for the level regardless of terminal detection.
func (l Level) Paint(s string) string {
	var c *color.Color
	switch l {
	case LevelError:
		c = color.New(color.FgRed)
	case LevelWarning:
		c = color.New(color.FgYellow)
	case LevelInfo:
		c = color.New(color.FgCyan)
	case LevelSuccess:
		c = color.New(color.FgGreen)
	default:
		return s
	}
	c.EnableColor()
	return c.Sprint(s)
}
