package core

// Logger is any leveled logger.
// Error-level (and up) calls may additionally ship the error and context args
// to an external reporting service.
type Logger interface {
	Enable(enabled bool)
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
