package logging

import (
	"fmt"
	"log/slog"
)

// RestyLogger is the logger interface go-resty accepts in SetLogger.
type RestyLogger interface {
	Errorf(format string, v ...any)
	Warnf(format string, v ...any)
	Debugf(format string, v ...any)
}

type restyAdapter slog.Logger

// Resty routes resty's printf-style logging into logger.
func Resty(logger *slog.Logger) RestyLogger {
	return (*restyAdapter)(Child(logger, "resty"))
}

func (l *restyAdapter) Errorf(format string, v ...any) {
	(*slog.Logger)(l).Error(sprintf(format, v))
}

func (l *restyAdapter) Warnf(format string, v ...any) {
	(*slog.Logger)(l).Warn(sprintf(format, v))
}

func (l *restyAdapter) Debugf(format string, v ...any) {
	(*slog.Logger)(l).Debug(sprintf(format, v))
}

func sprintf(format string, v []any) string {
	if len(v) == 0 {
		return format
	}
	return fmt.Sprintf(format, v...)
}
