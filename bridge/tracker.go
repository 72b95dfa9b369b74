package bridge

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"golunesbridge/bridgeapi"
	"golunesbridge/types"
)

// Tracker owns the lifecycle of tracked bridge transactions. Exactly one
// session exists per transaction id; restarting an id cancels the previous
// session before the new one begins.
type Tracker struct {
	api         bridgeapi.Client
	store       Store
	interval    time.Duration
	maxDuration time.Duration // 0 keeps a session alive until a terminal status
	usePush     bool

	startMu  sync.Mutex
	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	id         string
	cancel     context.CancelFunc
	done       chan struct{}
	lastStatus types.TxStatus
	attempts   int
	inCallback int32 // 1 while the session goroutine is inside onUpdate
}

// Handle is the cancellable task returned by StartTracking; ownership and
// cancellation are structural, not closure flags.
type Handle struct {
	tracker *Tracker
	s       *session
}

func (h *Handle) Stop() {
	h.tracker.stopSession(h.s)
}

// Done is closed when the session ends for any reason.
func (h *Handle) Done() <-chan struct{} {
	return h.s.done
}

type OnUpdate func(*types.BridgeTransaction)

func NewTracker(api bridgeapi.Client, store Store, interval, maxDuration time.Duration, usePush bool) *Tracker {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Tracker{
		api:         api,
		store:       store,
		interval:    interval,
		maxDuration: maxDuration,
		usePush:     usePush,
		sessions:    make(map[string]*session),
	}
}

// StartTracking begins observing one transaction id. The first fetch is
// immediate, then the loop runs at the configured interval; onUpdate fires
// with every observed record whether or not the status changed. The session
// stops itself the moment a terminal status is seen.
func (t *Tracker) StartTracking(id string, onUpdate OnUpdate) *Handle {
	t.startMu.Lock()
	defer t.startMu.Unlock()

	t.mu.Lock()
	old := t.sessions[id]
	t.mu.Unlock()
	if old != nil {
		t.stopSession(old)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &session{
		id:     id,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	t.mu.Lock()
	t.sessions[id] = s
	t.mu.Unlock()

	go t.run(ctx, s, onUpdate)

	return &Handle{tracker: t, s: s}
}

// StopTracking cancels the active session for id, if any. Safe to call at
// any time, including while a fetch is in flight; a fetch that resolves
// after cancellation is discarded without invoking onUpdate.
func (t *Tracker) StopTracking(id string) {
	t.mu.Lock()
	s := t.sessions[id]
	t.mu.Unlock()
	if s != nil {
		t.stopSession(s)
	}
}

// StopAll cancels every active session. Owners must call this on teardown;
// a leaked timer is a defect.
func (t *Tracker) StopAll() {
	t.mu.Lock()
	active := make([]*session, 0, len(t.sessions))
	for _, s := range t.sessions {
		active = append(active, s)
	}
	t.mu.Unlock()

	for _, s := range active {
		t.stopSession(s)
	}
}

func (t *Tracker) IsTracking(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.sessions[id]
	return ok
}

func (t *Tracker) stopSession(s *session) {
	s.cancel()
	if atomic.LoadInt32(&s.inCallback) == 1 {
		// stop issued from inside this session's own onUpdate; the loop
		// re-checks the context as soon as the callback returns, so waiting
		// on done here would deadlock
		return
	}
	<-s.done
}

func (t *Tracker) unregister(s *session) {
	t.mu.Lock()
	if t.sessions[s.id] == s {
		delete(t.sessions, s.id)
	}
	t.mu.Unlock()
}

func (t *Tracker) run(ctx context.Context, s *session, onUpdate OnUpdate) {
	defer close(s.done)
	defer t.unregister(s)

	var giveUp <-chan time.Time
	if t.maxDuration > 0 {
		timer := time.NewTimer(t.maxDuration)
		defer timer.Stop()
		giveUp = timer.C
	}

	if t.usePush {
		if ps, ok := t.api.(bridgeapi.PushSubscriber); ok {
			if t.runPush(ctx, ps, s, onUpdate, giveUp) {
				return
			}
			if ctx.Err() != nil {
				return
			}
			// push channel went away, fall back to polling
		}
	}

	t.runPoll(ctx, s, onUpdate, giveUp)
}

func (t *Tracker) runPoll(ctx context.Context, s *session, onUpdate OnUpdate, giveUp <-chan time.Time) {
	// immediate first fetch so the caller is not left waiting a full
	// interval for the initial state
	if t.poll(ctx, s, onUpdate) {
		return
	}

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-giveUp:
			log.Printf("giving up on tx %s after %s without a terminal status", s.id, t.maxDuration)
			return
		case <-ticker.C:
			if t.poll(ctx, s, onUpdate) {
				return
			}
		}
	}
}

// runPush consumes the push channel as a pure replacement for the poll
// cadence. Returns true when the session is finished, false to fall back
// to polling.
func (t *Tracker) runPush(ctx context.Context, ps bridgeapi.PushSubscriber, s *session, onUpdate OnUpdate, giveUp <-chan time.Time) bool {
	updates, stop, err := ps.SubscribeTransaction(ctx, s.id)
	if err != nil {
		log.Printf("push channel unavailable for tx %s, polling instead: %s", s.id, err.Error())
		return false
	}
	defer stop()

	// still fetch once up front, the stream only carries future changes
	if t.poll(ctx, s, onUpdate) {
		return true
	}

	for {
		select {
		case <-ctx.Done():
			return true
		case <-giveUp:
			log.Printf("giving up on tx %s after %s without a terminal status", s.id, t.maxDuration)
			return true
		case record, ok := <-updates:
			if !ok {
				return false
			}
			if ctx.Err() != nil {
				return true
			}
			if t.observe(s, record, onUpdate) {
				return true
			}
		}
	}
}

// poll fetches the record once. A failed fetch is logged and the loop keeps
// going; only a terminal status or cancellation ends a session. Returns
// true when the session should end.
func (t *Tracker) poll(ctx context.Context, s *session, onUpdate OnUpdate) bool {
	s.attempts++

	record, err := t.api.GetTransaction(ctx, s.id)
	if err != nil {
		if ctx.Err() != nil {
			return true
		}
		log.Printf("error fetching tx %s (attempt %d), will retry: %s", s.id, s.attempts, err.Error())
		return false
	}
	if ctx.Err() != nil {
		// canceled while the fetch was in flight, discard the result
		return true
	}

	return t.observe(s, record, onUpdate)
}

func (t *Tracker) observe(s *session, record *types.BridgeTransaction, onUpdate OnUpdate) bool {
	prev := s.lastStatus
	s.lastStatus = record.Status

	record.MarkTerminal(time.Now())

	if t.store != nil {
		if prev == "" {
			// the mirror was written at creation with status pending
			prev = types.StatusPending
		}
		if record.Status != prev {
			if err := t.store.ChangeTransactionStatus(record, prev); err != nil {
				log.Printf("error updating mirrored tx %s: %s", record.ID, err.Error())
			}
		}
	}

	atomic.StoreInt32(&s.inCallback, 1)
	onUpdate(record)
	atomic.StoreInt32(&s.inCallback, 0)
	return record.Status.Terminal()
}
