package logger

import "go.uber.org/zap/zapcore"

// Verbosity level constants for CLI flag counts.
//
// These levels control what categories of output are shown:
//
//	0 (none)  results, warnings, errors
//	1 (-v)    + per-stage progress, plugin status
//	2 (-vv)   + mapping rule evaluation, dedupe scores, timing
//	3 (-vvv)  + raw source payloads, HTTP request/response detail
const (
	VerbosityUser  = 0
	VerbosityInfo  = 1
	VerbosityDebug = 2
	VerbosityTrace = 3
)

// VerbosityToLevel maps verbosity flags (-v, -vv, etc.) to zap log levels
func VerbosityToLevel(verbosity int) zapcore.Level {
	switch verbosity {
	case VerbosityUser:
		return zapcore.WarnLevel
	case VerbosityInfo:
		return zapcore.InfoLevel
	default:
		// zap has no levels finer than debug; -vvv is tracked separately
		return zapcore.DebugLevel
	}
}

// ShouldLogTrace returns true for verbosity >= 3 (-vvv).
// Use this before dumping raw payloads or full HTTP bodies.
func ShouldLogTrace(verbosity int) bool {
	return verbosity >= VerbosityTrace
}

// LevelName returns a human-readable name for a verbosity level
func LevelName(verbosity int) string {
	switch verbosity {
	case VerbosityUser:
		return "User"
	case VerbosityInfo:
		return "Info (-v)"
	case VerbosityDebug:
		return "Debug (-vv)"
	default:
		return "Trace (-vvv)"
	}
}
