// Package search drives a geocoder from keystrokes. It debounces input,
// tags every request with an epoch, and only applies the response of the
// latest request.
//
// An Orchestrator is owned by a single goroutine (the UI loop). The only
// methods that may run elsewhere are Fetch and Due.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"locsearch/internal/debounce"
	"locsearch/internal/domain"
	"locsearch/internal/eventbus"
	"locsearch/internal/geocode"
	"locsearch/internal/selection"
)

// DefaultDelay is the quiet interval before a query is sent.
const DefaultDelay = 300 * time.Millisecond

// Options configures an Orchestrator.
type Options struct {
	Client geocode.Client
	Bus    eventbus.EventBus
	Logger *slog.Logger

	// Delay is the debounce interval. Zero means DefaultDelay.
	Delay time.Duration
	// RequestTimeout bounds each geocoder call. Zero means no bound.
	RequestTimeout time.Duration
	// Policy selects the ArrowUp behaviour when nothing is active.
	Policy selection.Policy

	// Dispatch receives debounced queries. It runs on the timer goroutine
	// and must hand the query back to the owner, which then calls Begin.
	// When nil, queries are queued on Due and the owner runs them.
	Dispatch func(query string)
	// OnSelect is called once per commit.
	OnSelect func(domain.Location)

	// DebounceOptions are passed to the debouncer, e.g. a manual clock.
	DebounceOptions []debounce.Option
	// Now overrides the wall clock used for latency reporting.
	Now func() time.Time
}

// Orchestrator owns query, results, loading flag and selection index.
type Orchestrator struct {
	state    State
	client   geocode.Client
	bus      eventbus.EventBus
	logger   *slog.Logger
	policy   selection.Policy
	timeout  time.Duration
	onSelect func(domain.Location)
	now      func() time.Time

	debouncer *debounce.Debouncer[string]
	due       chan string
	epoch     uint64
	cancel    context.CancelFunc
	closed    bool
}

// New creates an orchestrator in the empty initial state.
func New(opts Options) *Orchestrator {
	o := &Orchestrator{
		state:    initialState(),
		client:   opts.Client,
		bus:      opts.Bus,
		logger:   opts.Logger,
		policy:   opts.Policy,
		timeout:  opts.RequestTimeout,
		onSelect: opts.OnSelect,
		now:      opts.Now,
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.now == nil {
		o.now = time.Now
	}

	delay := opts.Delay
	if delay <= 0 {
		delay = DefaultDelay
	}
	dispatch := opts.Dispatch
	if dispatch == nil {
		o.due = make(chan string, 1)
		dispatch = o.enqueue
	}
	o.debouncer = debounce.New(dispatch, delay, opts.DebounceOptions...)
	return o
}

// enqueue keeps only the newest due query.
func (o *Orchestrator) enqueue(query string) {
	for {
		select {
		case o.due <- query:
			return
		default:
		}
		select {
		case <-o.due:
		default:
		}
	}
}

// Due delivers debounced queries when no Dispatch was configured. The owner
// receives from it and calls Run. It is nil when Dispatch is set.
func (o *Orchestrator) Due() <-chan string { return o.due }

// RunDue runs the queued query, if any, and reports whether there was one.
func (o *Orchestrator) RunDue() bool {
	select {
	case query := <-o.due:
		o.Run(query)
		return true
	default:
		return false
	}
}

// Snapshot returns a copy of the current state.
func (o *Orchestrator) Snapshot() State {
	s := o.state
	s.Results = append([]domain.SearchResult(nil), o.state.Results...)
	return s
}

// Query returns the current input text.
func (o *Orchestrator) Query() string { return o.state.Query }

// Results returns the current result list. Callers must not modify it.
func (o *Orchestrator) Results() []domain.SearchResult { return o.state.Results }

// Loading reports whether the latest request is outstanding.
func (o *Orchestrator) Loading() bool { return o.state.Loading }

// Selection returns the active index, or selection.None.
func (o *Orchestrator) Selection() int { return o.state.Selection }

// Epoch returns the current epoch.
func (o *Orchestrator) Epoch() uint64 { return o.epoch }

// Expanded reports whether the result list is open.
func (o *Orchestrator) Expanded() bool { return len(o.state.Results) > 0 }

// ActiveDescendant names the active row, or "" when none is active.
func (o *Orchestrator) ActiveDescendant() string {
	if o.state.Selection < 0 || o.state.Selection >= len(o.state.Results) {
		return ""
	}
	return fmt.Sprintf("result-%d", o.state.Selection)
}

// Active returns the highlighted result, if any.
func (o *Orchestrator) Active() (domain.SearchResult, bool) {
	i := o.state.Selection
	if i < 0 || i >= len(o.state.Results) {
		return domain.SearchResult{}, false
	}
	return o.state.Results[i], true
}

// OnInput records a keystroke and schedules a search for text.
func (o *Orchestrator) OnInput(text string) {
	if o.closed {
		return
	}
	o.state.Query = text
	o.state.Selection = selection.None
	o.debouncer.Call(text)
}

// Begin starts a search for text. It returns false when no request should
// be sent: the query is blank (results are cleared instead) or the
// orchestrator is closed.
func (o *Orchestrator) Begin(text string) (Request, bool) {
	if o.closed {
		return Request{}, false
	}

	o.supersede()

	if strings.TrimSpace(text) == "" {
		o.state.Results = nil
		o.state.Loading = false
		o.state.Selection = selection.None
		o.publish(domain.SearchSkippedEvent{Query: text})
		return Request{}, false
	}

	ctx := context.Background()
	var cancel context.CancelFunc
	if o.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	o.cancel = cancel

	req := Request{
		ID:      uuid.NewString(),
		Epoch:   o.epoch,
		Query:   text,
		Started: o.now(),
		ctx:     ctx,
	}
	o.state.Loading = true

	o.logger.Debug("search issued", "query", text, "epoch", req.Epoch, "request_id", req.ID)
	o.publish(domain.QueryIssuedEvent{Epoch: req.Epoch, Query: text, RequestID: req.ID})
	return req, true
}

// Fetch calls the geocoder for req. It does not touch orchestrator state
// and may run on any goroutine.
func (o *Orchestrator) Fetch(req Request) Response {
	ctx := req.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	if o.client == nil {
		return Response{Request: req, Err: fmt.Errorf("no geocoding client configured")}
	}
	results, err := o.client.Search(ctx, req.Query)
	return Response{Request: req, Results: results, Err: err}
}

// Apply installs resp if it answers the latest request. Stale responses
// and responses arriving after Close are dropped. It reports whether the
// state changed.
func (o *Orchestrator) Apply(resp Response) bool {
	req := resp.Request
	if o.closed || req.Epoch != o.epoch {
		o.logger.Debug("stale response discarded", "query", req.Query, "epoch", req.Epoch, "current", o.epoch, "request_id", req.ID)
		o.publish(domain.StaleResponseDiscardedEvent{Epoch: req.Epoch, Current: o.epoch, Query: req.Query})
		return false
	}

	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
	elapsed := o.now().Sub(req.Started)
	o.state.Loading = false
	o.state.Selection = selection.None

	if resp.Err != nil {
		o.state.Results = nil
		o.logger.Warn("geocoding failed", "query", req.Query, "epoch", req.Epoch, "request_id", req.ID, "err", resp.Err)
		o.publish(domain.SearchFailedEvent{Epoch: req.Epoch, Query: req.Query, Err: resp.Err, Elapsed: elapsed})
		return true
	}

	o.state.Results = resp.Results
	o.logger.Debug("results applied", "query", req.Query, "epoch", req.Epoch, "count", len(resp.Results))
	o.publish(domain.ResultsAppliedEvent{Epoch: req.Epoch, Query: req.Query, Count: len(resp.Results), Elapsed: elapsed})
	return true
}

// Run performs Begin, Fetch and Apply in sequence on the calling goroutine.
func (o *Orchestrator) Run(text string) {
	req, ok := o.Begin(text)
	if !ok {
		return
	}
	o.Apply(o.Fetch(req))
}

// HandleKey applies a navigation key and performs its effect.
// It reports whether the key was consumed.
func (o *Orchestrator) HandleKey(key selection.Key) bool {
	if o.closed || key == selection.KeyNone {
		return false
	}
	count := len(o.state.Results)
	if count == 0 {
		return false
	}

	tr := selection.Step(o.state.Selection, count, key, o.policy)
	switch tr.Effect {
	case selection.EffectCommit:
		o.state.Selection = tr.Index
		o.Commit(o.state.Results[tr.Index])
	case selection.EffectDismiss:
		o.Dismiss()
	default:
		o.state.Selection = tr.Index
	}
	return true
}

// Click activates the row at index and commits it immediately.
func (o *Orchestrator) Click(index int) bool {
	if o.closed || index < 0 || index >= len(o.state.Results) {
		return false
	}
	o.state.Selection = index
	o.Commit(o.state.Results[index])
	return true
}

// Commit forwards result to the selection callback and resets the widget
// to its empty initial state.
func (o *Orchestrator) Commit(result domain.SearchResult) {
	if o.closed {
		return
	}
	if o.onSelect != nil {
		o.onSelect(result)
	}
	o.logger.Info("location selected", "display_name", result.DisplayName, "place_id", result.PlaceID)
	o.publish(domain.LocationSelectedEvent{Location: result})

	o.debouncer.Cancel()
	o.supersede()
	o.state = initialState()
}

// Dismiss closes the result list without committing. The query is kept.
func (o *Orchestrator) Dismiss() {
	if o.closed {
		return
	}
	o.debouncer.Cancel()
	o.supersede()
	o.state.Results = nil
	o.state.Loading = false
	o.state.Selection = selection.None
	o.publish(domain.ResultsDismissedEvent{})
}

// Close tears the orchestrator down. Pending timers are stopped, the
// in-flight request is cancelled and later responses are ignored.
func (o *Orchestrator) Close() {
	if o.closed {
		return
	}
	o.debouncer.Stop()
	o.supersede()
	o.state.Loading = false
	o.closed = true
}

// supersede invalidates every outstanding request.
func (o *Orchestrator) supersede() {
	o.epoch++
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
}

func (o *Orchestrator) publish(e domain.DomainEvent) {
	if o.bus != nil {
		o.bus.Publish(e)
	}
}
