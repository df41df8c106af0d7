package library

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) fire(q string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, q)
}

func (r *recorder) get() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func TestDebouncer_BurstFiresOnce(t *testing.T) {
	rec := &recorder{}
	d := NewDebouncer(30*time.Millisecond, rec.fire)
	defer d.Stop()

	for _, q := range []string{"h", "ha", "hal", "half"} {
		d.Edit(q)
		time.Sleep(5 * time.Millisecond)
	}
	assert.True(t, d.Pending())

	require.Eventually(t, func() bool { return len(rec.get()) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, []string{"half"}, rec.get())
	assert.False(t, d.Pending())
	assert.Equal(t, "half", d.Query())
}

func TestDebouncer_SeparateBursts(t *testing.T) {
	rec := &recorder{}
	d := NewDebouncer(20*time.Millisecond, rec.fire)
	defer d.Stop()

	d.Edit("a")
	require.Eventually(t, func() bool { return len(rec.get()) == 1 }, time.Second, 5*time.Millisecond)
	d.Edit("b")
	require.Eventually(t, func() bool { return len(rec.get()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"a", "b"}, rec.get())
}

func TestDebouncer_ClearCancelsPending(t *testing.T) {
	rec := &recorder{}
	d := NewDebouncer(30*time.Millisecond, rec.fire)
	defer d.Stop()

	d.Edit("zelda")
	d.Clear()
	assert.Equal(t, []string{""}, rec.get(), "clear fires immediately")

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, []string{""}, rec.get())
	assert.Equal(t, "", d.Query())
}

func TestDebouncer_StopDropsEdits(t *testing.T) {
	rec := &recorder{}
	d := NewDebouncer(10*time.Millisecond, rec.fire)

	d.Edit("x")
	d.Stop()
	d.Edit("y")
	d.Clear()

	time.Sleep(40 * time.Millisecond)
	assert.Empty(t, rec.get())
}
