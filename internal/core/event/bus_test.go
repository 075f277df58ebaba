package event_test

import (
	"testing"

	"github.com/loomwork/loom/internal/core/event"
)

type ping struct{ n int }
type pong struct{ s string }

func TestEmitDeferredUntilSwap(t *testing.T) {
	b := event.NewBus()
	var got []int
	event.Subscribe(b, func(p ping) { got = append(got, p.n) })

	event.Emit(b, ping{1})
	event.Emit(b, ping{2})

	b.DispatchAll()
	if len(got) != 0 {
		t.Fatal("events delivered before buffer swap")
	}

	b.SwapBuffers()
	b.DispatchAll()
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("delivered %v, want [1 2] in emission order", got)
	}

	// Next swap clears the delivered batch.
	b.SwapBuffers()
	b.DispatchAll()
	if len(got) != 2 {
		t.Error("events redelivered on second dispatch")
	}
}

func TestSubscribeByType(t *testing.T) {
	b := event.NewBus()
	var pings, pongs int
	event.Subscribe(b, func(ping) { pings++ })
	event.Subscribe(b, func(pong) { pongs++ })

	event.Emit(b, ping{})
	event.Emit(b, pong{})
	event.Emit(b, pong{})

	if b.Pending() != 3 {
		t.Errorf("pending = %d, want 3", b.Pending())
	}
	b.SwapBuffers()
	b.DispatchAll()

	if pings != 1 || pongs != 2 {
		t.Errorf("handlers saw pings=%d pongs=%d, want 1 and 2", pings, pongs)
	}
}

func TestMultipleHandlersSameType(t *testing.T) {
	b := event.NewBus()
	calls := 0
	event.Subscribe(b, func(ping) { calls++ })
	event.Subscribe(b, func(ping) { calls++ })

	event.Emit(b, ping{})
	b.SwapBuffers()
	b.DispatchAll()

	if calls != 2 {
		t.Errorf("each handler must see the event once, calls=%d", calls)
	}
}
