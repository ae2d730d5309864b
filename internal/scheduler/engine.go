// Package scheduler runs one-shot wall-clock alerts for the TUI: conflict
// banner expiry and reminder-window wakeups. Alerts are keyed; scheduling
// a key again supersedes the pending alert, so at most one alert per key
// is ever live.
package scheduler

import (
	"container/heap"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var ErrInvalidTriggerTime = errors.New("scheduler: invalid trigger time")

type AlertKind string

const (
	// AlertConflictExpiry clears the transient due-time conflict banner.
	AlertConflictExpiry AlertKind = "conflict_expiry"
	// AlertReminderCheck wakes the app to re-evaluate the reminder pane.
	AlertReminderCheck AlertKind = "reminder_check"
)

type Alert struct {
	Kind      AlertKind
	Key       string
	TriggerAt time.Time
	Seq       uint64
}

type queueItem struct {
	alert Alert
}

type alertQueue []queueItem

func (q alertQueue) Len() int { return len(q) }

func (q alertQueue) Less(i, j int) bool {
	return q[i].alert.TriggerAt.Before(q[j].alert.TriggerAt)
}

func (q alertQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
}

func (q *alertQueue) Push(x any) {
	*q = append(*q, x.(queueItem))
}

func (q *alertQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[0 : n-1]
	return item
}

type Engine struct {
	mu      sync.Mutex
	queue   alertQueue
	latest  map[string]uint64
	nextSeq uint64
	out     chan Alert
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	dropped uint64
}

func NewEngine(bufferSize int) *Engine {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Engine{
		queue:  make(alertQueue, 0),
		latest: make(map[string]uint64),
		out:    make(chan Alert, bufferSize),
		wakeup: make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

func (e *Engine) C() <-chan Alert {
	return e.out
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	e.started = true
	heap.Init(&e.queue)
	go e.loop()
}

func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.started || e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	e.mu.Unlock()
	<-e.doneCh
}

// Schedule queues an alert and returns its sequence number. A later
// Schedule with the same kind and key cancels the earlier alert.
func (e *Engine) Schedule(kind AlertKind, key string, at time.Time) (uint64, error) {
	if at.IsZero() {
		return 0, ErrInvalidTriggerTime
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return 0, errors.New("scheduler: engine stopped")
	}

	e.nextSeq++
	alert := Alert{Kind: kind, Key: key, TriggerAt: at, Seq: e.nextSeq}
	e.latest[alertID(kind, key)] = alert.Seq
	heap.Push(&e.queue, queueItem{alert: alert})
	e.signalWakeup()
	return alert.Seq, nil
}

// Cancel drops any pending alert for the kind/key pair.
func (e *Engine) Cancel(kind AlertKind, key string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.latest, alertID(kind, key))
}

func (e *Engine) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
}

func (e *Engine) loop() {
	defer close(e.doneCh)
	defer close(e.out)

	var timer *time.Timer
	for {
		next, hasNext := e.peek()
		if !hasNext {
			select {
			case <-e.wakeup:
				continue
			case <-e.stopCh:
				return
			}
		}

		wait := time.Until(next.TriggerAt)
		if wait < 0 {
			wait = 0
		}
		timer = resetTimer(timer, wait)

		select {
		case <-timer.C:
			due := e.popDue(time.Now())
			for _, alert := range due {
				select {
				case e.out <- alert:
				default:
					atomic.AddUint64(&e.dropped, 1)
				}
			}
		case <-e.wakeup:
			continue
		case <-e.stopCh:
			if timer != nil {
				stopTimer(timer)
			}
			return
		}
	}
}

func (e *Engine) signalWakeup() {
	select {
	case e.wakeup <- struct{}{}:
	default:
	}
}

func (e *Engine) peek() (Alert, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.queue) == 0 {
		return Alert{}, false
	}
	return e.queue[0].alert, true
}

// popDue removes every alert due by now, discarding alerts superseded by
// a newer Schedule or removed by Cancel.
func (e *Engine) popDue(now time.Time) []Alert {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Alert, 0)
	for len(e.queue) > 0 {
		next := e.queue[0].alert
		if next.TriggerAt.After(now) {
			break
		}
		item := heap.Pop(&e.queue).(queueItem)
		alert := item.alert
		if e.latest[alertID(alert.Kind, alert.Key)] != alert.Seq {
			continue
		}
		delete(e.latest, alertID(alert.Kind, alert.Key))
		out = append(out, alert)
	}
	return out
}

func alertID(kind AlertKind, key string) string {
	return string(kind) + "/" + key
}

func resetTimer(timer *time.Timer, d time.Duration) *time.Timer {
	if timer == nil {
		return time.NewTimer(d)
	}
	stopTimer(timer)
	timer.Reset(d)
	return timer
}

func stopTimer(timer *time.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}
