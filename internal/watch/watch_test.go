package watch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdullah-qal/butterworth-filter-designer/internal/design"
	"github.com/abdullah-qal/butterworth-filter-designer/internal/diff"
)

// syncBuffer is a bytes.Buffer safe for the watcher goroutine and the test.
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

func buildDesign(t *testing.T, order int, z0 float64) *design.Design {
	t.Helper()

	d, err := design.Build(context.Background(), order, design.Options{ReferenceImpedance: z0})
	require.NoError(t, err)

	return d
}

func writeTable(t *testing.T) string {
	t.Helper()

	p := filepath.Join(t.TempDir(), "table.yaml")
	require.NoError(t, os.WriteFile(p, []byte("name: custom\norders:\n  1: [2.0, 1.0]\n"), 0o644))

	return p
}

// ---------------------------------------------------------------------------
// Debouncer
// ---------------------------------------------------------------------------

func TestDebouncer_SingleEvent(t *testing.T) {
	var callCount atomic.Int32
	var lastPaths atomic.Value

	d := NewDebouncer(50*time.Millisecond, nil, func(paths []string) {
		callCount.Add(1)
		lastPaths.Store(paths)
	})
	defer d.Stop()

	d.Trigger("a.yaml")

	// Wait for debounce to fire.
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(1), callCount.Load())
	assert.Equal(t, []string{"a.yaml"}, lastPaths.Load())
}

func TestDebouncer_MultipleEventsCoalesced(t *testing.T) {
	var callCount atomic.Int32
	var lastPaths atomic.Value

	d := NewDebouncer(100*time.Millisecond, nil, func(paths []string) {
		callCount.Add(1)
		lastPaths.Store(paths)
	})
	defer d.Stop()

	// Fire 10 rapid events: should coalesce into 1.
	for i := 0; i < 10; i++ {
		d.Trigger("table.yaml")
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(1), callCount.Load())
	assert.Equal(t, []string{"table.yaml"}, lastPaths.Load())
}

func TestDebouncer_CollectsDistinctPaths(t *testing.T) {
	var lastPaths atomic.Value

	d := NewDebouncer(50*time.Millisecond, nil, func(paths []string) {
		lastPaths.Store(paths)
	})
	defer d.Stop()

	d.Trigger("table.yaml")
	time.Sleep(10 * time.Millisecond)
	d.Trigger(".butterworth.yaml")
	time.Sleep(10 * time.Millisecond)
	d.Trigger("table.yaml")

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, []string{".butterworth.yaml", "table.yaml"}, lastPaths.Load())
}

func TestDebouncer_PendingResetAfterFire(t *testing.T) {
	var lastPaths atomic.Value

	d := NewDebouncer(30*time.Millisecond, nil, func(paths []string) {
		lastPaths.Store(paths)
	})
	defer d.Stop()

	d.Trigger("first.yaml")
	time.Sleep(100 * time.Millisecond)

	d.Trigger("second.yaml")
	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, []string{"second.yaml"}, lastPaths.Load())
}

func TestDebouncer_Stop(t *testing.T) {
	var callCount atomic.Int32

	d := NewDebouncer(50*time.Millisecond, nil, func(_ []string) {
		callCount.Add(1)
	})

	d.Trigger("a.yaml")
	d.Stop()

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(0), callCount.Load())
}

func TestDebouncer_RecoversPanic(t *testing.T) {
	var logs syncBuffer

	d := NewDebouncer(10*time.Millisecond, slog.New(slog.NewTextHandler(&logs, nil)), func(_ []string) {
		panic("boom")
	})
	defer d.Stop()

	d.Trigger("a.yaml")
	time.Sleep(100 * time.Millisecond)

	assert.Contains(t, logs.String(), "debouncer callback panicked")
}

// ---------------------------------------------------------------------------
// ChangeSummary
// ---------------------------------------------------------------------------

func TestChangeSummary(t *testing.T) {
	tests := []struct {
		name    string
		changes []diff.Change
		want    string
	}{
		{
			name:    "no changes",
			changes: nil,
			want:    "no design changes",
		},
		{
			name: "sections only",
			changes: []diff.Change{
				{Field: "physical[0]", Old: "Line(100.0000)", New: "Line(150.0000)"},
				{Field: "physical[1]", Old: "Line(100.0000)", New: "Line(150.0000)"},
			},
			want: "~2 section(s) changed",
		},
		{
			name: "mixed",
			changes: []diff.Change{
				{Field: "pivot", Old: "0", New: "1"},
				{Field: "goodness", Old: "16.2500", New: "12.0000"},
				{Field: "physical[2]", Old: "Line(25.0000)", New: "Line(30.0000)"},
			},
			want: "pivot 0 → 1, goodness 16.2500 → 12.0000, ~1 section(s) changed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ChangeSummary(tt.changes))
		})
	}
}

// ---------------------------------------------------------------------------
// isRelevant
// ---------------------------------------------------------------------------

func TestIsRelevant(t *testing.T) {
	tests := []struct {
		name string
		path string
		op   fsnotify.Op
		want bool
	}{
		{"yaml write", "table.yaml", fsnotify.Write, true},
		{"create event", "new.yaml", fsnotify.Create, true},
		{"remove event", "old.yaml", fsnotify.Remove, true},
		{"rename event", "renamed.yaml", fsnotify.Rename, true},
		{"hidden config", ".butterworth.yaml", fsnotify.Write, true},
		{"swap file", "file.swp", fsnotify.Write, false},
		{"backup tilde", "file~", fsnotify.Write, false},
		{"emacs hash", "#file#", fsnotify.Write, false},
		{"zero op", "file.yaml", 0, false},
		{"chmod only", "file.yaml", fsnotify.Chmod, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := fsnotify.Event{Name: tt.path, Op: tt.op}
			assert.Equal(t, tt.want, isRelevant(event))
		})
	}
}

// ---------------------------------------------------------------------------
// resolve
// ---------------------------------------------------------------------------

func TestResolve_DeduplicatesDirectories(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.yaml")
	b := filepath.Join(dir, "b.yaml")
	require.NoError(t, os.WriteFile(a, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("x"), 0o644))

	targets, dirs, err := resolve([]string{a, b})
	require.NoError(t, err)

	assert.Equal(t, []string{dir}, dirs)
	assert.True(t, targets[a])
	assert.True(t, targets[b])
}

func TestResolve_MissingFile(t *testing.T) {
	_, _, err := resolve([]string{filepath.Join(t.TempDir(), "missing.yaml")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "watching file")
}

// ---------------------------------------------------------------------------
// runner
// ---------------------------------------------------------------------------

func TestRunner_ReportsChanges(t *testing.T) {
	var out bytes.Buffer

	designs := []*design.Design{buildDesign(t, 3, 50), buildDesign(t, 3, 75)}
	calls := 0

	r := &runner{
		opts: Options{Out: &out},
		runFn: func(context.Context) (*RunResult, error) {
			d := designs[calls]
			calls++

			return &RunResult{Design: d, OutputPath: "design.yaml"}, nil
		},
	}

	r.run(context.Background(), "(initial)")
	assert.Contains(t, out.String(), "OK (order 3, pivot 0, goodness 16.2500)")
	assert.Contains(t, out.String(), "wrote design.yaml")
	assert.NotContains(t, out.String(), "design:")

	r.run(context.Background(), "table.yaml")
	assert.Contains(t, out.String(), "design: referenceImpedance 50.0000 → 75.0000, ~5 section(s) changed")
}

func TestRunner_ErrorKeepsPrevious(t *testing.T) {
	var out bytes.Buffer

	prev := buildDesign(t, 3, 50)
	r := &runner{
		opts: Options{Out: &out},
		prev: prev,
		runFn: func(context.Context) (*RunResult, error) {
			return nil, fmt.Errorf("bad table")
		},
	}

	r.run(context.Background(), "table.yaml")

	assert.Contains(t, out.String(), "table.yaml → ERROR: bad table")
	assert.Same(t, prev, r.prev)
}

// ---------------------------------------------------------------------------
// Run (integration)
// ---------------------------------------------------------------------------

func TestRun_GracefulShutdown(t *testing.T) {
	table := writeTable(t)

	ctx, cancel := context.WithCancel(context.Background())

	var runCount atomic.Int32

	opts := DefaultOptions()
	opts.Files = []string{table}
	opts.Debounce = 50 * time.Millisecond
	opts.Out = io.Discard

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, opts, func(_ context.Context) (*RunResult, error) {
			runCount.Add(1)
			return &RunResult{}, nil
		})
	}()

	// Let initial run complete.
	time.Sleep(200 * time.Millisecond)
	assert.GreaterOrEqual(t, runCount.Load(), int32(1))

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not shut down in time")
	}
}

func TestRun_FileChangeTriggersRebuild(t *testing.T) {
	table := writeTable(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runCount atomic.Int32

	out := &syncBuffer{}

	opts := DefaultOptions()
	opts.Files = []string{table}
	opts.Debounce = 50 * time.Millisecond
	opts.Out = out

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, opts, func(_ context.Context) (*RunResult, error) {
			runCount.Add(1)
			return &RunResult{}, nil
		})
	}()

	time.Sleep(200 * time.Millisecond)
	initialRuns := runCount.Load()

	require.NoError(t, os.WriteFile(table, []byte("name: custom\norders:\n  1: [3.0, 1.0]\n"), 0o644))

	time.Sleep(300 * time.Millisecond)
	assert.Greater(t, runCount.Load(), initialRuns, "file change should trigger rebuild")
	assert.Contains(t, out.String(), table)

	cancel()
	<-done
}

func TestRun_SiblingFileIgnored(t *testing.T) {
	table := writeTable(t)
	sibling := filepath.Join(filepath.Dir(table), "notes.txt")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runCount atomic.Int32

	opts := DefaultOptions()
	opts.Files = []string{table}
	opts.Debounce = 50 * time.Millisecond
	opts.Out = io.Discard

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, opts, func(_ context.Context) (*RunResult, error) {
			runCount.Add(1)
			return &RunResult{}, nil
		})
	}()

	time.Sleep(200 * time.Millisecond)
	initialRuns := runCount.Load()

	require.NoError(t, os.WriteFile(sibling, []byte("unrelated"), 0o644))

	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, initialRuns, runCount.Load())

	cancel()
	<-done
}

// ---------------------------------------------------------------------------
// DefaultOptions
// ---------------------------------------------------------------------------

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, 300*time.Millisecond, opts.Debounce)
	assert.Empty(t, opts.Files)
	assert.NotNil(t, opts.Logger)
	assert.NotNil(t, opts.Out)
}

// ---------------------------------------------------------------------------
// Run error paths
// ---------------------------------------------------------------------------

func TestRun_NoFiles(t *testing.T) {
	opts := DefaultOptions()
	opts.Out = io.Discard

	err := Run(context.Background(), opts, func(_ context.Context) (*RunResult, error) {
		return &RunResult{}, nil
	})
	assert.ErrorIs(t, err, ErrNothingToWatch)
}

func TestRun_MissingFile(t *testing.T) {
	opts := DefaultOptions()
	opts.Files = []string{filepath.Join(t.TempDir(), "missing.yaml")}
	opts.Out = io.Discard

	err := Run(context.Background(), opts, func(_ context.Context) (*RunResult, error) {
		return &RunResult{}, nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "watching file")
}

func TestRun_RunFuncError(t *testing.T) {
	table := writeTable(t)

	ctx, cancel := context.WithCancel(context.Background())

	opts := DefaultOptions()
	opts.Files = []string{table}
	opts.Debounce = 50 * time.Millisecond
	opts.Out = io.Discard

	var callCount atomic.Int32

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, opts, func(_ context.Context) (*RunResult, error) {
			callCount.Add(1)
			return nil, fmt.Errorf("pipeline error")
		})
	}()

	// Initial run will produce an error, but watcher continues.
	time.Sleep(200 * time.Millisecond)
	assert.GreaterOrEqual(t, callCount.Load(), int32(1))

	cancel()
	<-done
}
