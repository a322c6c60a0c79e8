package trace

import (
	"context"
	"strconv"
	"sync"
	"time"
)

// StartHeartbeat emits a heartbeat event every interval until the returned
// stop func is called. A run that keeps beating without closing spans is
// stuck. stop waits for the goroutine and may be called more than once.
func StartHeartbeat(ctx context.Context, interval time.Duration) (stop func()) {
	st := stateOf(ctx)
	if st.tracer.Level() == LevelOff || interval <= 0 {
		return func() {}
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		tick := time.NewTicker(interval)
		defer tick.Stop()
		for n := 1; ; n++ {
			select {
			case <-done:
				return
			case now := <-tick.C:
				st.tracer.Emit(&Event{
					Time:   now,
					Seq:    NextSeq(),
					Kind:   KindHeartbeat,
					Scope:  ScopeRun,
					Lane:   1,
					Name:   "heartbeat",
					Detail: "#" + strconv.Itoa(n),
				})
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
		wg.Wait()
	}
}
