package editor

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MyCarrier-DevOps/permalink-open/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Debug(_ context.Context, _ string, _ map[string]interface{}) {}

// recordingRunner captures the process the opener would start.
type recordingRunner struct {
	name  string
	args  []string
	calls int
	err   error
}

func (r *recordingRunner) run(_ context.Context, name string, args ...string) error {
	r.calls++
	r.name = name
	r.args = args
	return r.err
}

func linkAt(start int) *domain.LinkContext {
	link := &domain.LinkContext{Kind: domain.LinkKindBlob, TreeIsh: "main/src/foo.go"}
	if start > 0 {
		link.Lines = &domain.LineRange{Start: start, End: start + 2}
	}
	return link
}

func TestOpener_OpenFileAt_NoEditorPrintsLocation(t *testing.T) {
	tests := []struct {
		name string
		link *domain.LinkContext
		want string
	}{
		{name: "with line", link: linkAt(42), want: "/repo/src/foo.go:42\n"},
		{name: "without line", link: linkAt(0), want: "/repo/src/foo.go\n"},
		{name: "nil link", link: nil, want: "/repo/src/foo.go\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			runner := &recordingRunner{}
			opener := NewOpenerWithRunner("  ", &buf, runner.run, nopLogger{})

			err := opener.OpenFileAt(context.Background(), "/repo/src/foo.go", tt.link)

			require.NoError(t, err)
			assert.Equal(t, tt.want, buf.String())
			assert.Zero(t, runner.calls)
		})
	}
}

func TestOpener_OpenFileAt_LaunchesEditor(t *testing.T) {
	tests := []struct {
		name     string
		editor   string
		link     *domain.LinkContext
		wantName string
		wantArgs []string
	}{
		{
			name:     "single word editor",
			editor:   "vim",
			link:     linkAt(7),
			wantName: "vim",
			wantArgs: []string{"+7", "/repo/src/foo.go"},
		},
		{
			name:     "editor with flags",
			editor:   "emacsclient -n",
			link:     linkAt(12),
			wantName: "emacsclient",
			wantArgs: []string{"-n", "+12", "/repo/src/foo.go"},
		},
		{
			name:     "goto flag takes file:line",
			editor:   "code -g",
			link:     linkAt(12),
			wantName: "code",
			wantArgs: []string{"-g", "/repo/src/foo.go:12"},
		},
		{
			name:     "long goto flag with wait",
			editor:   "code --wait --goto",
			link:     linkAt(3),
			wantName: "code",
			wantArgs: []string{"--wait", "--goto", "/repo/src/foo.go:3"},
		},
		{
			name:     "goto flag without line passes the bare path",
			editor:   "code -g",
			link:     linkAt(0),
			wantName: "code",
			wantArgs: []string{"-g", "/repo/src/foo.go"},
		},
		{
			name:     "no line omits the position",
			editor:   "nano",
			link:     linkAt(0),
			wantName: "nano",
			wantArgs: []string{"/repo/src/foo.go"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			runner := &recordingRunner{}
			opener := NewOpenerWithRunner(tt.editor, &buf, runner.run, nopLogger{})

			err := opener.OpenFileAt(context.Background(), "/repo/src/foo.go", tt.link)

			require.NoError(t, err)
			assert.Equal(t, 1, runner.calls)
			assert.Equal(t, tt.wantName, runner.name)
			assert.Equal(t, tt.wantArgs, runner.args)
			assert.Empty(t, buf.String())
		})
	}
}

func TestOpener_OpenFileAt_EditorFailure(t *testing.T) {
	runner := &recordingRunner{err: errors.New("exit status 1")}
	opener := NewOpenerWithRunner("vim", &bytes.Buffer{}, runner.run, nopLogger{})

	err := opener.OpenFileAt(context.Background(), "/repo/src/foo.go", linkAt(1))

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEditorFailed)
	assert.Contains(t, err.Error(), "vim")
	assert.Contains(t, err.Error(), "exit status 1")
}

func TestOpener_OpenFileAt_EditorArgsNotShared(t *testing.T) {
	runner := &recordingRunner{}
	opener := NewOpenerWithRunner("emacsclient -n", &bytes.Buffer{}, runner.run, nopLogger{})

	require.NoError(t, opener.OpenFileAt(context.Background(), "/a.go", linkAt(1)))
	require.NoError(t, opener.OpenFileAt(context.Background(), "/b.go", linkAt(2)))

	assert.Equal(t, []string{"-n", "+2", "/b.go"}, runner.args)
}

func TestNewOpener(t *testing.T) {
	opener := NewOpener("vim", &bytes.Buffer{}, nopLogger{})

	require.NotNil(t, opener)
	assert.Equal(t, "vim", opener.editor)
	assert.NotNil(t, opener.run)
}
