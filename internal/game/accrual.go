/*
Package game
File: accrual.go
Description:
    The idle accrual scheduler: a 100ms passive-income tick, a 1s
    persistence flush, offline reconciliation on load, and the
    background/foreground visibility transitions. Start launches the
    ticker goroutines; Stop tears them down and flushes one last time, so
    no timer keeps mutating state after the session is done.
*/

package game

import (
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/duskworks/nightfall-idle/internal/clock"
	"github.com/duskworks/nightfall-idle/internal/save"
)

const (
	tickInterval = 100 * time.Millisecond
	saveInterval = 1 * time.Second
)

// Scheduler drives the session's time-based behavior. Construct with
// NewScheduler, then Start; Stop is idempotent per instance and must be
// called before the process exits to persist the final state.
type Scheduler struct {
	session *Session
	codec   *save.Codec
	clk     clock.Clock

	// OnSync, if set, receives a snapshot after every live tick and
	// offline grant. Wired to the websocket hub broadcast in main.
	OnSync func(Snapshot)

	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewScheduler wires a scheduler to the session it drives.
func NewScheduler(session *Session, codec *save.Codec, clk clock.Clock) *Scheduler {
	return &Scheduler{
		session: session,
		codec:   codec,
		clk:     clk,
		done:    make(chan struct{}),
	}
}

// ReconcileOnLoad grants capped offline earnings against the persisted
// save time and publishes the welcome-back notice. Call once, after the
// session is hydrated and before Start.
func (s *Scheduler) ReconcileOnLoad(refMillis int64) {
	granted := s.session.ReconcileOffline(refMillis)
	if granted <= 0 {
		return
	}

	// Flush immediately: the grant consumes the gap, so the reference
	// time must move forward before any other reconciliation reads it.
	s.flush()

	amount := FormatAmount(granted)
	s.session.SetOfflineNotice(fmt.Sprintf("Welcome back! +%s suns", amount))
	log.Printf("OFFLINE: granted %s suns for time away", amount)

	if s.OnSync != nil {
		s.OnSync(s.session.Snapshot())
	}
}

// Start launches the tick and save loops.
func (s *Scheduler) Start() {
	s.wg.Add(2)
	go s.tickLoop()
	go s.saveLoop()
}

// Stop cancels the periodic tasks and performs a final flush.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
		s.wg.Wait()
		s.flush()
	})
}

// SetVisibility handles the page-hide / page-show hooks from the client.
// Going hidden flushes immediately so the reconciliation reference time
// is accurate; coming back grants the capped catch-up for the gap.
func (s *Scheduler) SetVisibility(visible bool) Snapshot {
	if visible {
		granted := s.session.ReconcileOffline(s.session.LastSaveMillis())
		if granted > 0 {
			log.Printf("OFFLINE: granted %s suns while backgrounded", FormatAmount(granted))
		}
	}
	s.flush()
	return s.session.Snapshot()
}

func (s *Scheduler) tickLoop() {
	defer s.wg.Done()
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			snap := s.session.Accrue(tickInterval.Seconds())
			if s.OnSync != nil {
				s.OnSync(snap)
			}
		case <-s.done:
			return
		}
	}
}

func (s *Scheduler) saveLoop() {
	defer s.wg.Done()
	ticker := time.NewTicker(saveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.flush()
		case <-s.done:
			return
		}
	}
}

// flush persists the current state. Storage failures are logged and
// otherwise ignored; persistence is fire-and-forget off the hot path.
func (s *Scheduler) flush() {
	if err := s.codec.Save(s.session.PersistentState()); err != nil {
		log.Printf("SAVE: flush failed: %v", err)
	}
}

// FormatAmount renders a sun amount the way the shop displays it:
// one decimal with a K/M/B suffix, plain floor below a thousand.
func FormatAmount(n float64) string {
	switch {
	case n >= 1e9:
		return fmt.Sprintf("%.1fB", n/1e9)
	case n >= 1e6:
		return fmt.Sprintf("%.1fM", n/1e6)
	case n >= 1e3:
		return fmt.Sprintf("%.1fK", n/1e3)
	default:
		return fmt.Sprintf("%d", int64(math.Floor(n)))
	}
}
