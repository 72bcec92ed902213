package restart

import "os"

// Logger defines the logging interface for restart operations.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// SelfExec restarts the agent by re-executing its own binary with the
// original arguments and environment.
type SelfExec struct {
	log Logger
}

// NewSelfExec creates a restarter. A nil logger is replaced with a
// no-op.
func NewSelfExec(log Logger) *SelfExec {
	if log == nil {
		log = noopLogger{}
	}
	return &SelfExec{log: log}
}

// Restart replaces the process and does not return.
//
// If the re-exec itself fails the process exits non-zero instead, so
// a service supervisor still brings up a fresh instance.
func (r *SelfExec) Restart() {
	r.log.Warn("restarting process", "pid", os.Getpid(), "args", os.Args)

	if err := reexec(); err != nil {
		r.log.Error("re-exec failed, exiting for supervisor restart", "error", err)
		os.Exit(1)
	}
}
