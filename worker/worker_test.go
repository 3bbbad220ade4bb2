package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestOrchestratorStartSuccess(t *testing.T) {
	r := require.New(t)

	o := NewOrchestrator(func(ctx context.Context, name string) (*Thread, error) {
		return NewThread(name, nil), nil
	})

	r.NoError(o.Start(context.Background(), 3, StartOptions{}))
	r.Len(o.Threads(), 3)

	o.Shutdown(true)
}

func TestOrchestratorStartFailureAbortsAll(t *testing.T) {
	r := require.New(t)

	boom := errors.New("boom")
	o := NewOrchestrator(func(ctx context.Context, name string) (*Thread, error) {
		if name == "worker-1" {
			return nil, boom
		}
		return NewThread(name, nil), nil
	})

	err := o.Start(context.Background(), 3, StartOptions{})
	r.ErrorIs(err, boom)
	r.Empty(o.Threads())
}

func TestOrchestratorReloadSwapsThreads(t *testing.T) {
	r := require.New(t)

	o := NewOrchestrator(func(ctx context.Context, name string) (*Thread, error) {
		return NewThread(name, nil), nil
	})
	r.NoError(o.Start(context.Background(), 2, StartOptions{}))

	first := o.Threads()

	r.NoError(o.Reload(context.Background()))
	second := o.Threads()

	r.Len(second, 2)
	r.NotSame(first[0], second[0])

	o.Shutdown(true)
}

func TestThreadPostRunsOnReactor(t *testing.T) {
	r := require.New(t)

	th := NewThread("t", nil)
	r.NoError(th.Start(context.Background()))

	done := make(chan struct{})
	th.Post(func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("posted task never ran")
	}

	th.Stop(true, nil)
	th.Wait()
}
