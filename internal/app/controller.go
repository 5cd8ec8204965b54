package app

import (
	"context"
	"strings"
	"sync"
	"time"
)

// SessionController owns the active session and drives the turn
// protocol: append outbound, exchange with the service, append the
// reply, merge analytics, and watch for finalization. One controller
// manages one session at a time; submissions are serialized, fetches
// may overlap and are applied in issue order.
type SessionController struct {
	cfg    Config
	client *Client
	log    *Logger

	// sendMu serializes SubmitTurn so two submissions can never race a
	// pair of sends. A second caller queues behind the first.
	sendMu sync.Mutex

	mu         sync.Mutex
	session    *Session
	transcript *TranscriptStore
	snapshot   AnalyticsSnapshot
	watcher    *FinalizationWatcher
	fetchSeq   uint64
	appliedSeq uint64
}

func NewSessionController(cfg Config, client *Client, log *Logger) *SessionController {
	return &SessionController{
		cfg:        cfg,
		client:     client,
		log:        log,
		session:    NewSession(),
		transcript: NewTranscriptStore(),
		snapshot:   NewAnalyticsSnapshot(),
		watcher:    NewFinalizationWatcher(),
	}
}

// TurnResult is the outcome of one successful exchange.
type TurnResult struct {
	Outbound  Turn
	Reply     Turn
	Metrics   *AdvancedMetrics
	Snapshot  AnalyticsSnapshot
	TurnCount int

	// FinalizeDue asks the caller to schedule a delayed finalization
	// confirmation; RefreshSuggested asks for an intelligence fetch.
	FinalizeDue      bool
	RefreshSuggested bool
}

// RefreshResult is the outcome of an intelligence refresh. Final is
// non-nil when the fetch confirmed finalization and the output had not
// been displayed before.
type RefreshResult struct {
	Snapshot AnalyticsSnapshot
	Final    *FinalOutput
}

func (c *SessionController) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.ID
}

func (c *SessionController) TurnCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.TurnCount
}

func (c *SessionController) Snapshot() AnalyticsSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot
}

func (c *SessionController) History() []Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transcript.History()
}

func (c *SessionController) WatchState() WatchState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.watcher.State()
}

// Health probes the remote service.
func (c *SessionController) Health(ctx context.Context) error {
	return c.client.Health(ctx)
}

// ConfirmDelay is how long the caller should wait before a scheduled
// finalization confirmation.
func (c *SessionController) ConfirmDelay() time.Duration {
	return time.Duration(c.cfg.ConfirmDelayMS) * time.Millisecond
}

func (c *SessionController) ConfirmRetries() int {
	return c.cfg.ConfirmRetries
}

// SubmitTurn runs one full exchange. Empty text after trimming is
// rejected before anything is stored or sent. On a failed send the
// outbound turn stays in the transcript, the turn counter does not
// move, and the error surfaces to the caller as transient.
func (c *SessionController) SubmitTurn(ctx context.Context, text string) (*TurnResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &ValidationError{Field: "text", Reason: "message is empty"}
	}

	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	c.mu.Lock()
	sid := c.session.ID
	history := c.transcript.History()
	outbound := Turn{Sender: SenderCounterpart, Text: text, Timestamp: time.Now()}
	c.transcript.Append(outbound)
	c.mu.Unlock()

	meta := Metadata{Channel: c.cfg.Channel, Language: c.cfg.Language, Locale: c.cfg.Locale}
	reply, err := c.client.SendTurn(ctx, sid, outbound, history, meta)
	if err != nil {
		c.log.Error("send turn failed", map[string]interface{}{"session": sid, "error": err.Error()})
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session.ID != sid {
		// Session replaced mid-flight; the reply belongs to a dead one.
		c.log.Warn("discarding reply for replaced session", map[string]interface{}{"session": sid})
		return nil, ErrStaleSession
	}

	inbound := Turn{Sender: SenderSystem, Text: reply.Reply, Timestamp: time.Now()}
	c.transcript.Append(inbound)
	c.snapshot = MergeAnalytics(c.snapshot, reply.Metrics)
	c.session.TurnCount++

	res := &TurnResult{
		Outbound:         outbound,
		Reply:            inbound,
		Metrics:          reply.Metrics,
		Snapshot:         c.snapshot,
		TurnCount:        c.session.TurnCount,
		FinalizeDue:      c.session.TurnCount >= c.cfg.FinalizeAfter && c.watcher.State() == WatchActive,
		RefreshSuggested: ShouldRefreshIntelligence(c.snapshot),
	}
	c.log.Info("turn completed", map[string]interface{}{
		"session": sid,
		"turns":   c.session.TurnCount,
		"risk":    c.snapshot.RiskScore,
	})
	return res, nil
}

// RefreshIntelligence pulls the full session snapshot and merges the
// intelligence detail. Responses are applied in issue order: a slow
// response for an older fetch never overwrites a newer merge, and a
// response for a replaced session is dropped.
func (c *SessionController) RefreshIntelligence(ctx context.Context) (*RefreshResult, error) {
	seq, sid := c.beginFetch()

	snap, err := c.client.FetchSession(ctx, sid)
	if err != nil {
		c.log.Warn("intelligence refresh failed", map[string]interface{}{"session": sid, "error": err.Error()})
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session.ID != sid {
		return nil, ErrStaleSession
	}
	if seq <= c.appliedSeq {
		return nil, ErrSupersededFetch
	}
	c.appliedSeq = seq
	c.snapshot.Intelligence = MergeIntelligence(c.snapshot.Intelligence, snap.Intelligence)

	res := &RefreshResult{Snapshot: c.snapshot}
	if snap.Finalized {
		c.session.Finalized = true
		res.Final, _ = c.watcher.Confirm(snap.FinalOutput)
	}
	return res, nil
}

// beginFetch allocates the issue-order sequence number for one session
// fetch. Every fetch that merges intelligence goes through here so the
// apply-order check in all paths shares one counter.
func (c *SessionController) beginFetch() (uint64, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetchSeq++
	return c.fetchSeq, c.session.ID
}

// ConfirmFinalization fetches the session state looking for a final
// output, re-polling up to attempts times with the configured delay in
// between. It returns the output exactly once per session; confirmed
// repeats and not-yet-finalized outcomes both return nil.
func (c *SessionController) ConfirmFinalization(ctx context.Context, attempts int) (*FinalOutput, error) {
	if attempts <= 0 {
		attempts = 1
	}
	c.mu.Lock()
	sid := c.session.ID
	c.mu.Unlock()

	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil, &TransportError{Op: "session", Err: ctx.Err()}
			case <-time.After(c.ConfirmDelay()):
			}
		}

		seq, cur := c.beginFetch()
		if cur != sid {
			return nil, ErrStaleSession
		}

		snap, err := c.client.FetchSession(ctx, sid)
		if err != nil {
			c.log.Warn("finalization check failed", map[string]interface{}{"session": sid, "error": err.Error()})
			return nil, err
		}

		c.mu.Lock()
		if c.session.ID != sid {
			c.mu.Unlock()
			return nil, ErrStaleSession
		}
		// A confirmation fetch overlaps refresh fetches; only the
		// newest applied response may replace intelligence.
		if seq > c.appliedSeq {
			c.appliedSeq = seq
			c.snapshot.Intelligence = MergeIntelligence(c.snapshot.Intelligence, snap.Intelligence)
		}
		if snap.Finalized && snap.FinalOutput != nil {
			c.session.Finalized = true
			out, first := c.watcher.Confirm(snap.FinalOutput)
			c.mu.Unlock()
			if first {
				c.log.Info("session finalized", map[string]interface{}{"session": sid})
			}
			return out, nil
		}
		c.mu.Unlock()
	}
	return nil, nil
}

// StartNewSession discards the transcript, analytics, and watcher state
// wholesale and replaces the session identity. The caller is expected
// to have confirmed the action with the operator first.
func (c *SessionController) StartNewSession() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	old := c.session.ID
	c.session = NewSession()
	c.transcript = NewTranscriptStore()
	c.snapshot = NewAnalyticsSnapshot()
	c.watcher.Reset()
	c.appliedSeq = c.fetchSeq
	c.log.Info("new session", map[string]interface{}{"previous": old, "session": c.session.ID})
	return c.session.ID
}

// ExportSnapshot fetches the full session document and writes it
// pretty-printed to a file named from the session handle. Session state
// is untouched either way.
func (c *SessionController) ExportSnapshot(ctx context.Context) (string, error) {
	c.mu.Lock()
	sid := c.session.ID
	c.mu.Unlock()

	raw, err := c.client.ExportSession(ctx, sid)
	if err != nil {
		return "", err
	}
	path, err := WriteSnapshot(c.cfg.ExportDir, sid, raw)
	if err != nil {
		return "", err
	}
	c.log.Info("session exported", map[string]interface{}{"session": sid, "path": path})
	return path, nil
}
