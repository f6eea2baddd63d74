package baseworker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	t.Run(`паника одного запуска не останавливает задачу`, func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		var runs atomic.Int32
		w := NewInstance("PanicTestWorker", 5*time.Millisecond, 5*time.Millisecond)
		go w.Run(ctx, func(ctx context.Context) {
			if runs.Add(1) == 1 {
				panic("первый запуск упал")
			}
		})
		require.Eventually(t, func() bool {
			return runs.Load() >= 2
		}, 2*time.Second, 10*time.Millisecond)
	})

	t.Run(`отмена контекста останавливает цикл`, func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		var runs atomic.Int32
		w := NewInstance("StopTestWorker", 5*time.Millisecond, 5*time.Millisecond)
		go w.Run(ctx, func(ctx context.Context) {
			runs.Add(1)
		})
		require.Eventually(t, func() bool {
			return runs.Load() >= 1
		}, 2*time.Second, 10*time.Millisecond)
		cancel()
		time.Sleep(50 * time.Millisecond)
		stopped := runs.Load()
		time.Sleep(50 * time.Millisecond)
		require.Equal(t, stopped, runs.Load())
	})
}
