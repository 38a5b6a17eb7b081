package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer is a bytes.Buffer safe for the concurrent writes of a running
// command and the reads of the test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitFor(t *testing.T, b *syncBuffer, substr string) {
	t.Helper()
	require.Eventually(t, func() bool {
		return strings.Contains(b.String(), substr)
	}, 10*time.Second, 20*time.Millisecond, "timed out waiting for %q", substr)
}

func TestGenerate_WatchRegeneratesAfterCommit(t *testing.T) {
	w := newWorkspace(t, true)
	w.fixtureHistory()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cmd := NewRootCmd()
	var stdout, stderr syncBuffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"--plain", "generate", "--since-tag", "v1.0.0", "--watch"})

	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	waitFor(t, &stderr, "Watching for new commits")
	assert.Contains(t, stdout.String(), "- add search")

	w.commit("feat: live reload")
	waitFor(t, &stdout, "- live reload")

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("generate --watch did not stop after cancel")
	}
}
