package main

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MyCarrier-DevOps/permalink-open/cmd"
	"github.com/MyCarrier-DevOps/permalink-open/internal/domain"
)

// recordingLogger records the messages it receives.
type recordingLogger struct {
	mu       sync.Mutex
	messages []string
}

func (l *recordingLogger) record(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, msg)
}

func (l *recordingLogger) Info(_ context.Context, msg string, _ map[string]any)  { l.record(msg) }
func (l *recordingLogger) Debug(_ context.Context, msg string, _ map[string]any) { l.record(msg) }
func (l *recordingLogger) Warn(_ context.Context, msg string, _ map[string]any)  { l.record(msg) }
func (l *recordingLogger) Error(_ context.Context, msg string, _ error, _ map[string]any) {
	l.record(msg)
}

func TestNewDependencies_AllFactoriesSet(t *testing.T) {
	var stdout, stderr bytes.Buffer
	deps := newDependencies(func() cmd.Logger { return &recordingLogger{} }, &stdout, &stderr)

	require.NotNil(t, deps)
	assert.NotNil(t, deps.LoggerFactory)
	assert.NotNil(t, deps.ConfigLoader)
	assert.NotNil(t, deps.WorkspaceFactory)
	assert.NotNil(t, deps.OpenerFactory)
	assert.Same(t, &stdout, deps.Stdout)
	assert.Same(t, &stderr, deps.Stderr)
}

func TestNewDependencies_LoggerBuiltOnDemand(t *testing.T) {
	calls := 0
	log := &recordingLogger{}
	deps := newDependencies(func() cmd.Logger {
		calls++
		return log
	}, &bytes.Buffer{}, &bytes.Buffer{})

	assert.Zero(t, calls, "wiring must not build the logger")
	assert.Same(t, log, deps.LoggerFactory())
	assert.Equal(t, 1, calls)
}

func TestNewDependencies_FactoriesUseGivenLogger(t *testing.T) {
	var stdout, stderr bytes.Buffer
	deps := newDependencies(func() cmd.Logger { return &recordingLogger{} }, &stdout, &stderr)
	cfg := &cmd.AppConfig{Remote: "origin", ContextLines: 3}
	log := &recordingLogger{}

	ws, err := deps.WorkspaceFactory(t.TempDir(), cfg, log)
	require.NoError(t, err)
	assert.False(t, ws.IsVersionControlContextActive(context.Background()))

	opener := deps.OpenerFactory(ws, cfg, log)
	require.NotNil(t, opener)

	// A temp dir is not a repository; a valid blob link reaches the active repo check.
	outcome, err := opener.Execute(context.Background(), "https://github.com/acme/widgets/blob/main/src/foo.go#L10")

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeDiagnostic, outcome.Kind)
	assert.Equal(t, domain.NoActiveRepositoryMessage, outcome.Message)
	assert.Contains(t, stderr.String(), domain.NoActiveRepositoryMessage)

	assert.Contains(t, log.messages, "no version control context")
	assert.Contains(t, log.messages, "directory is not inside a git repository")
	assert.Contains(t, log.messages, "captured resolution input")
	assert.Contains(t, log.messages, "link resolved")
}

func TestNewAppLogger(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_APP_NAME", "")

	assert.NotNil(t, newAppLogger())
}
