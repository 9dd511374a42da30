package watcher_test

import (
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/weld/internal/adapters/watcher"
)

type batches struct {
	mu  sync.Mutex
	got [][]string
}

func (b *batches) record(paths []string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.got = append(b.got, paths)
}

func (b *batches) all() [][]string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([][]string(nil), b.got...)
}

func TestDebouncer_CoalescesBurst(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		rec := &batches{}
		d := watcher.NewDebouncer(100*time.Millisecond, rec.record)

		d.Add("/p/app/b.rb")
		d.Add("/p/app/a.rb")
		d.Add("/p/app/b.rb")

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		assert.Equal(t, [][]string{{"/p/app/a.rb", "/p/app/b.rb"}}, rec.all())
	})
}

func TestDebouncer_AddRestartsWindow(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		rec := &batches{}
		d := watcher.NewDebouncer(100*time.Millisecond, rec.record)

		d.Add("/p/a.rb")
		time.Sleep(80 * time.Millisecond)
		d.Add("/p/b.rb")
		time.Sleep(80 * time.Millisecond)
		synctest.Wait()
		assert.Empty(t, rec.all())

		time.Sleep(40 * time.Millisecond)
		synctest.Wait()
		assert.Equal(t, [][]string{{"/p/a.rb", "/p/b.rb"}}, rec.all())
	})
}

func TestDebouncer_Flush(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		rec := &batches{}
		d := watcher.NewDebouncer(time.Hour, rec.record)

		d.Flush()
		assert.Empty(t, rec.all(), "nothing pending")

		d.Add("/p/a.rb")
		d.Flush()
		assert.Equal(t, [][]string{{"/p/a.rb"}}, rec.all())

		// The cancelled timer never delivers a second batch.
		time.Sleep(2 * time.Hour)
		synctest.Wait()
		assert.Len(t, rec.all(), 1)
	})
}

func TestDebouncer_Stop(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		rec := &batches{}
		d := watcher.NewDebouncer(100*time.Millisecond, rec.record)

		d.Add("/p/a.rb")
		d.Stop()
		time.Sleep(time.Second)
		synctest.Wait()
		assert.Empty(t, rec.all())
	})
}

func TestDebouncer_BatchesDoNotOverlap(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var (
			mu      sync.Mutex
			running int
			maxSeen int
			calls   int
		)
		d := watcher.NewDebouncer(10*time.Millisecond, func([]string) {
			mu.Lock()
			running++
			maxSeen = max(maxSeen, running)
			calls++
			mu.Unlock()

			time.Sleep(100 * time.Millisecond)

			mu.Lock()
			running--
			mu.Unlock()
		})

		d.Add("/p/a.rb")
		time.Sleep(20 * time.Millisecond)
		d.Add("/p/b.rb")
		time.Sleep(time.Second)
		synctest.Wait()

		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, 2, calls)
		assert.Equal(t, 1, maxSeen)
	})
}

func TestDebouncer_NilCallback(t *testing.T) {
	synctest.Test(t, func(_ *testing.T) {
		d := watcher.NewDebouncer(10*time.Millisecond, nil)
		d.Add("/p/a.rb")
		time.Sleep(20 * time.Millisecond)
		synctest.Wait()
		d.Flush()
	})
}
