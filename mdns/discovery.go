package mdns

import "time"

// DiscoverySubscription is the handle returned by Engine.Discover. Calling
// Cancel stops the ticker; it is safe to call more than once.
type DiscoverySubscription struct {
	cancel chan struct{}
	once   chan struct{}
}

// Cancel stops the subscription's ticker. The ticker goroutine waits on the
// cancellation channel in the same select as its tick, so it exits as soon
// as it is next scheduled rather than waiting for the next tick; a tick
// that fires at the same moment as Cancel may still deliver its name once.
func (s *DiscoverySubscription) Cancel() {
	select {
	case <-s.once:
		// already canceled
	default:
		close(s.once)
		close(s.cancel)
	}
}

// discover starts a ticker that enqueues name onto ch every interval, until
// the returned subscription is canceled.
func discover(ch chan<- string, name string, interval time.Duration) *DiscoverySubscription {
	sub := &DiscoverySubscription{
		cancel: make(chan struct{}),
		once:   make(chan struct{}),
	}

	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-sub.cancel:
				return
			case <-t.C:
				select {
				case <-sub.cancel:
					return
				case ch <- name:
				}
			}
		}
	}()

	return sub
}
