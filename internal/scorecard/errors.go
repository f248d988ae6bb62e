package scorecard

import "fmt"

// ConfigError is a fatal configuration problem: a bad workbook,
// missing required sheet or column, duplicate team, or conflicting
// flags. It aborts the run, unlike per-team and per-ticket failures
// which only warn.
type ConfigError struct {
	Msg string
	Err error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration error: %s: %v", e.Msg, e.Err)
	}
	return "configuration error: " + e.Msg
}

func (e *ConfigError) Unwrap() error { return e.Err }

// configErrorf builds a ConfigError with a formatted message.
func configErrorf(format string, args ...interface{}) *ConfigError {
	return &ConfigError{Msg: fmt.Sprintf(format, args...)}
}
