// internal/browser/session_test.go
package browser

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/pagepilot/internal/config"
	"github.com/xkilldash9x/pagepilot/internal/pacing"
)

func newTestSession(t *testing.T) (*Session, *int) {
	t.Helper()
	cfg := newMockConfig()
	logger := zaptest.NewLogger(t)
	pacer := pacing.New(config.PacingConfig{}, logger)

	closeCount := 0
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	sess, err := NewSession(ctx, cancel, cfg, pacer, logger, func() { closeCount++ })
	require.NoError(t, err)
	return sess, &closeCount
}

func TestSessionCloseIsIdempotent(t *testing.T) {
	sess, closeCount := newTestSession(t)

	assert.False(t, sess.Closed())
	require.NoError(t, sess.Close(context.Background()))
	assert.True(t, sess.Closed())
	assert.Equal(t, 1, *closeCount)

	// A second close must be a no-op.
	require.NoError(t, sess.Close(context.Background()))
	assert.Equal(t, 1, *closeCount, "onClose must fire exactly once")
}

func TestSubmissionGuardIsOneShot(t *testing.T) {
	sess, _ := newTestSession(t)

	assert.False(t, sess.Submitted())
	assert.True(t, sess.TryMarkSubmitted(), "first transition must succeed")
	assert.True(t, sess.Submitted())

	// Permanent for the session lifetime.
	assert.False(t, sess.TryMarkSubmitted())
	assert.False(t, sess.TryMarkSubmitted())
	assert.True(t, sess.Submitted())
}

func TestSessionHasStableID(t *testing.T) {
	sess, _ := newTestSession(t)
	id := sess.ID()
	assert.NotEmpty(t, id)
	assert.Equal(t, id, sess.ID())
}

func TestCombineContext(t *testing.T) {
	t.Run("cancel via secondary", func(t *testing.T) {
		primary := context.Background()
		secondary, cancelSecondary := context.WithCancel(context.Background())

		combined, cancel := CombineContext(primary, secondary)
		defer cancel()

		select {
		case <-combined.Done():
			t.Fatal("combined context should not be done yet")
		default:
		}

		cancelSecondary()
		select {
		case <-combined.Done():
		case <-time.After(time.Second):
			t.Fatal("combined context was not canceled by the secondary context")
		}
	})

	t.Run("cancel via primary", func(t *testing.T) {
		primary, cancelPrimary := context.WithCancel(context.Background())
		combined, cancel := CombineContext(primary, context.Background())
		defer cancel()

		cancelPrimary()
		select {
		case <-combined.Done():
		case <-time.After(time.Second):
			t.Fatal("combined context was not canceled by the primary context")
		}
	})
}

func TestPageSummaryClamp(t *testing.T) {
	summary := PageSummary{Title: "Big Page"}
	for i := 0; i < 25; i++ {
		summary.Headings = append(summary.Headings, "heading")
	}
	for i := 0; i < 99; i++ {
		summary.Clickables = append(summary.Clickables, Clickable{Text: "link"})
		summary.Inputs = append(summary.Inputs, Input{Type: "text"})
	}

	summary.clamp()

	assert.Len(t, summary.Headings, MaxHeadings)
	assert.Len(t, summary.Clickables, MaxClickables)
	assert.Len(t, summary.Inputs, MaxInputs)
}

func TestPageSummaryClampPreservesOrder(t *testing.T) {
	summary := PageSummary{}
	for i := 0; i < 15; i++ {
		summary.Headings = append(summary.Headings, string(rune('a'+i)))
	}
	summary.clamp()
	want := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
	assert.Empty(t, cmp.Diff(want, summary.Headings))
}

func TestAcquireReusesLiveSession(t *testing.T) {
	sess, _ := newTestSession(t)
	m := NewManager(zaptest.NewLogger(t), newMockConfig())
	m.session = sess

	got, err := m.Acquire(context.Background())
	require.NoError(t, err)
	assert.Same(t, sess, got, "a second acquire must return the same session")

	again, err := m.Acquire(context.Background())
	require.NoError(t, err)
	assert.Same(t, got, again)
}

func TestBuildAllocatorOptions(t *testing.T) {
	cfg := newMockConfig()
	cfg.browser.Args = []string{"--lang=en-US", "--mute-audio"}
	m := NewManager(zaptest.NewLogger(t), cfg)

	opts := m.buildAllocatorOptions()
	assert.NotEmpty(t, opts)
}
