package context

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/agentstation/ipamctl"
	"github.com/agentstation/ipamctl/internal/cmd/alerts"
)

// MockContext provides a mock implementation of Context for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default/zero value.
//
// Example Usage:
//
//	mock := &context.MockContext{
//	    ClientFunc: func(...ipamctl.Option) (ipamctl.Client, error) {
//	        return ipamctl.New(ipamctl.WithAPI(store))
//	    },
//	    OutputFormatFunc: func() string { return "json" },
//	}
//	cmd := ensure.NewCommand(mock)
type MockContext struct {
	ClientFunc       func(opts ...ipamctl.Option) (ipamctl.Client, error)
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	Writer           io.Writer
	AlertWriter      alerts.Writer
	Check            bool
	VersionFunc      func() string
	CommitFunc       func() string
	DateFunc         func() string
	BuiltByFunc      func() string
}

// Client returns a client using the mock function or nil.
func (m *MockContext) Client(opts ...ipamctl.Option) (ipamctl.Client, error) {
	if m.ClientFunc != nil {
		return m.ClientFunc(opts...)
	}
	return nil, nil
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *MockContext) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns output format using the mock function or "json".
func (m *MockContext) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "json"
}

// Out returns Writer or stdout.
func (m *MockContext) Out() io.Writer {
	if m.Writer != nil {
		return m.Writer
	}
	return os.Stdout
}

// Alerts returns AlertWriter or a writer that discards.
func (m *MockContext) Alerts() alerts.Writer {
	if m.AlertWriter != nil {
		return m.AlertWriter
	}
	return alerts.DiscardWriter
}

// CheckMode returns Check.
func (m *MockContext) CheckMode() bool {
	return m.Check
}

// Version returns version using the mock function or "dev".
func (m *MockContext) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *MockContext) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *MockContext) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builtBy using the mock function or "test".
func (m *MockContext) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "test"
}

// Ensure MockContext implements Context at compile time.
var _ Context = (*MockContext)(nil)
