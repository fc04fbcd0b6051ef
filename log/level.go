package log

import "github.com/ttacon/chalk"

// Level is the severity tag printed in front of every message
type Level int

// Levels, lowest first
const (
	LevelTrace Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "trace"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelFatal:
		return "fatal"
	}
	return "unknown"
}

// Color returns the console color of the level tag
func (l Level) Color() chalk.Color {
	switch l {
	case LevelTrace:
		return chalk.Green
	case LevelInfo:
		return chalk.Cyan
	case LevelWarn:
		return chalk.Yellow
	default:
		return chalk.Red
	}
}

// Tag renders the colored "[level]" prefix
func (l Level) Tag() string {
	return "[" + l.Color().Color(l.String()) + "]"
}
