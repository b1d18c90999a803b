package errorbot_test

import (
	"net/http"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rise-and-shine/errorbot/observability/errorbot"
)

// recorder is a Handler that remembers every value it receives.
type recorder struct {
	mu     sync.Mutex
	values []any
	stacks [][]byte
}

func (r *recorder) HandleException(value any, stack []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, value)
	r.stacks = append(r.stacks, stack)
}

func (r *recorder) calls() []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]any(nil), r.values...)
}

func stubExit(t *testing.T) *[]int {
	t.Helper()

	var (
		mu    sync.Mutex
		codes []int
	)
	restore := errorbot.SetExit(func(code int) {
		mu.Lock()
		defer mu.Unlock()
		codes = append(codes, code)
	})
	t.Cleanup(restore)
	t.Cleanup(func() { errorbot.Install(nil) })
	return &codes
}

func TestInstall_LastWriterWins(t *testing.T) {
	t.Cleanup(func() { errorbot.Install(nil) })

	first, second := &recorder{}, &recorder{}
	errorbot.Install(first)
	errorbot.Install(second)

	assert.Same(t, second, errorbot.Installed())

	errorbot.Install(nil)
	assert.IsType(t, errorbot.HandlerFunc(nil), errorbot.Installed())
}

func TestInit_InstallsReporter(t *testing.T) {
	t.Cleanup(func() { errorbot.Install(nil) })

	a := newHarness(t, http.StatusOK, `{"success": true}`)
	b := newHarness(t, http.StatusOK, `{"success": true}`)

	a.rep.Init()
	assert.Same(t, a.rep, errorbot.Installed())

	b.rep.Init()
	assert.Same(t, b.rep, errorbot.Installed())

	a.rep.Init()
	assert.Same(t, a.rep, errorbot.Installed())
}

func TestRecover_DispatchesAndExits(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		wantCode int
	}{
		{name: "panic", value: "boom", wantCode: 2},
		{name: "interrupt", value: os.Interrupt, wantCode: 130},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			codes := stubExit(t)
			rec := &recorder{}
			errorbot.Install(rec)

			func() {
				defer errorbot.Recover()
				panic(tc.value)
			}()

			assert.Equal(t, []any{tc.value}, rec.calls())
			assert.NotEmpty(t, rec.stacks[0])
			assert.Equal(t, []int{tc.wantCode}, *codes)
		})
	}
}

func TestRecover_NoPanic(t *testing.T) {
	codes := stubExit(t)
	rec := &recorder{}
	errorbot.Install(rec)

	func() {
		defer errorbot.Recover()
	}()

	assert.Empty(t, rec.calls())
	assert.Empty(t, *codes)
}

func TestRecover_ReportsThroughInstalledReporter(t *testing.T) {
	codes := stubExit(t)
	h := newHarness(t, http.StatusOK, `{"success": true}`)
	h.rep.Init()

	func() {
		defer errorbot.Recover()
		var m map[string]int
		m["x"] = 1
	}()

	require.EqualValues(t, 1, h.bot.hits.Load())
	assert.Equal(t, "Unhandled exception: assignment to entry in nil map", h.bot.report(0).Message)
	assert.Equal(t, []int{2}, *codes)
}

func TestGo(t *testing.T) {
	exited := make(chan int, 1)
	t.Cleanup(errorbot.SetExit(func(code int) { exited <- code }))
	t.Cleanup(func() { errorbot.Install(nil) })

	rec := &recorder{}
	errorbot.Install(rec)

	errorbot.Go(func() {
		panic("worker crashed")
	})

	select {
	case code := <-exited:
		assert.Equal(t, 2, code)
		assert.Equal(t, []any{"worker crashed"}, rec.calls())
	case <-time.After(5 * time.Second):
		t.Fatal("panic in goroutine was not dispatched")
	}
}
