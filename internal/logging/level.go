package logging

import "log/slog"

// LevelTrace is below Debug and enables per-keystroke prompt logging.
const LevelTrace = slog.Level(-8)

// LevelFromVerbosity maps a -v count to a level:
// 0 → Warn, 1 → Info, 2 → Debug, 3+ → Trace.
func LevelFromVerbosity(v int) slog.Level {
	switch {
	case v <= 0:
		return slog.LevelWarn
	case v == 1:
		return slog.LevelInfo
	case v == 2:
		return slog.LevelDebug
	default:
		return LevelTrace
	}
}

// ParseFormat validates a --log-format value.
func ParseFormat(s string) (Format, bool) {
	switch Format(s) {
	case FormatText, "":
		return FormatText, true
	case FormatJSON:
		return FormatJSON, true
	default:
		return "", false
	}
}
