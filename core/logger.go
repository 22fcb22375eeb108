package core

// Logger is any leveled logger the app can report to.
//
// Implementations may inspect args for a student.Student value and tag the
// report with the acting student's identity.
type Logger interface {
	Enable(enabled bool)
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
