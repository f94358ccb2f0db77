package timeline

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"chat-simulator/internal/models"
	"chat-simulator/internal/observability"
	"chat-simulator/internal/store"
	"chat-simulator/internal/transport"
)

// ErrNoSession is returned when an operation requires an active identity.
var ErrNoSession = errors.New("no active identity")

// State is the controller's position in the per-session lifecycle.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateIdle
	StateSimulatedTyping
	StateDelivering
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateIdle:
		return "idle"
	case StateSimulatedTyping:
		return "simulated_typing"
	case StateDelivering:
		return "delivering"
	default:
		return "unknown"
	}
}

// Notifier receives new-message notifications for the unfocused client.
type Notifier interface {
	MessageReceived(ctx context.Context, senderName, text string)
}

// AudioEmitter plays best-effort sound cues.
type AudioEmitter interface {
	PlaySendCue(ctx context.Context)
	PlayReceiveCue(ctx context.Context)
}

// Controller owns the authoritative message list and typing state for the
// active identity session. It drives the scripted participant turns, merges
// user sends with simulated arrivals in first-acknowledged-first-appended
// order, and mirrors every mutation into the persistent store.
//
// Every pending timer and in-flight transport completion carries the session
// token it was created under; completions for a superseded session are
// discarded without touching state.
type Controller struct {
	transport transport.Transport
	kv        store.KV
	clock     Clock
	script    []Turn
	notifier  Notifier
	audio     AudioEmitter
	onChange  func(models.Snapshot)

	// sendMu serializes user sends so that two rapid sends append in call
	// order even though each blocks on its own transport round trip.
	sendMu sync.Mutex

	mu            sync.Mutex
	session       uint64
	identity      string
	state         State
	messages      []models.Message
	typingUser    string
	localTyping   bool
	sendsInFlight int
	focused       bool
	cursor        int

	turnTimer       Timer
	deliverTimer    Timer
	typingIdleTimer Timer
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock replaces the wall clock, letting tests advance virtual time.
func WithClock(clock Clock) Option {
	return func(c *Controller) { c.clock = clock }
}

// WithScript replaces the default simulated-turn script.
func WithScript(script []Turn) Option {
	return func(c *Controller) { c.script = script }
}

// WithOnChange registers the snapshot subscriber invoked after every state
// change. Used by the websocket hub.
func WithOnChange(fn func(models.Snapshot)) Option {
	return func(c *Controller) { c.onChange = fn }
}

// WithNotifier wires the notification emitter.
func WithNotifier(n Notifier) Option {
	return func(c *Controller) { c.notifier = n }
}

// WithAudio wires the sound-cue emitter.
func WithAudio(a AudioEmitter) Option {
	return func(c *Controller) { c.audio = a }
}

// New builds a Controller in the Uninitialized state.
func New(tr transport.Transport, kv store.KV, opts ...Option) *Controller {
	c := &Controller{
		transport: tr,
		kv:        kv,
		clock:     SystemClock(),
		script:    DefaultScript(),
		state:     StateUninitialized,
		focused:   true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetIdentity starts a fresh session for name, cancelling everything that
// belongs to the previous one. A blank name tears the controller down to
// Uninitialized. Re-entrant: pending timers and in-flight completions of the
// old session become no-ops via the session token.
func (c *Controller) SetIdentity(ctx context.Context, name string) {
	name = strings.TrimSpace(name)

	c.mu.Lock()
	c.session++
	token := c.session
	c.cancelTimersLocked()
	c.identity = name
	c.messages = nil
	c.typingUser = ""
	c.localTyping = false
	c.sendsInFlight = 0
	c.cursor = 0

	if name == "" {
		c.state = StateUninitialized
		c.persistIdentityLocked(ctx)
		c.persistMessagesLocked(ctx)
		c.mu.Unlock()
		c.notifyChange()
		return
	}

	c.state = StateLoading
	c.persistIdentityLocked(ctx)
	c.mu.Unlock()

	observability.IncSessionStarted()
	c.notifyChange()
	go c.load(token)
}

// load fetches the initial snapshot and arms the first scripted turn.
func (c *Controller) load(token uint64) {
	records, err := c.transport.FetchAll(context.Background())

	c.mu.Lock()
	if token != c.session {
		c.mu.Unlock()
		return
	}
	c.state = StateIdle
	if err != nil {
		// The session keeps going with an empty list; the turn loop still
		// runs on its normal timer.
		log.Printf("initial fetch failed: %v", err)
		observability.IncTransportFailure("fetch_all")
	} else {
		for _, rec := range records {
			c.acceptLocked(rec)
		}
		c.persistMessagesLocked(context.Background())
	}
	c.armTurnLocked(token)
	c.mu.Unlock()
	c.notifyChange()
}

// SendUserMessage appends a message authored by the local identity. Blank or
// whitespace-only input is a silent no-op. Sends are serialized: a second
// call blocks until the first append resolves, preserving call order in the
// timeline regardless of transport timing.
func (c *Controller) SendUserMessage(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	c.mu.Lock()
	if c.identity == "" {
		c.mu.Unlock()
		return ErrNoSession
	}
	token := c.session
	identity := c.identity
	c.sendsInFlight++
	c.clearLocalTypingLocked()
	c.mu.Unlock()
	c.notifyChange()

	if c.audio != nil {
		c.audio.PlaySendCue(ctx)
	}

	// sendMu stays held through the mutation below so the append-then-mutate
	// sequence of one send cannot interleave with the next.
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	rec, err := c.transport.Append(ctx, identity, text)

	c.mu.Lock()
	if token != c.session {
		// Identity changed mid-flight; the result belongs to a dead session.
		c.mu.Unlock()
		return nil
	}
	c.sendsInFlight--
	if err != nil {
		log.Printf("send failed: %v", err)
		observability.IncTransportFailure("append")
	} else {
		c.acceptLocked(rec)
		c.persistMessagesLocked(ctx)
		observability.IncMessageAppended("user")
	}
	c.mu.Unlock()
	c.notifyChange()
	return err
}

// SetLocalTyping records whether the local user has non-blank input pending.
// The flag auto-clears after TypingIdleWindow unless refreshed, and is
// cleared immediately by a send or an explicit false.
func (c *Controller) SetLocalTyping(typing bool) {
	c.mu.Lock()
	if c.identity == "" {
		c.mu.Unlock()
		return
	}
	token := c.session
	if !typing {
		c.clearLocalTypingLocked()
		c.mu.Unlock()
		c.notifyChange()
		return
	}
	c.localTyping = true
	if c.typingIdleTimer != nil {
		c.typingIdleTimer.Stop()
	}
	c.typingIdleTimer = c.clock.AfterFunc(TypingIdleWindow, func() {
		c.expireLocalTyping(token)
	})
	c.mu.Unlock()
	c.notifyChange()
}

func (c *Controller) expireLocalTyping(token uint64) {
	c.mu.Lock()
	if token != c.session || !c.localTyping {
		c.mu.Unlock()
		return
	}
	c.clearLocalTypingLocked()
	c.mu.Unlock()
	c.notifyChange()
}

// SetFocused records whether the client tab is focused. Notifications are
// only emitted while unfocused.
func (c *Controller) SetFocused(focused bool) {
	c.mu.Lock()
	c.focused = focused
	c.mu.Unlock()
}

// Snapshot returns the full presentation contract for the current session.
func (c *Controller) Snapshot() models.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	msgs := make([]models.Message, len(c.messages))
	copy(msgs, c.messages)
	return models.Snapshot{
		Identity:    c.identity,
		State:       c.state.String(),
		Messages:    msgs,
		TypingUser:  c.typingUser,
		LocalTyping: c.localTyping,
		Sending:     c.sendsInFlight > 0,
	}
}

// Close cancels all pending work. Any in-flight completion becomes a no-op.
func (c *Controller) Close() {
	c.mu.Lock()
	c.session++
	c.cancelTimersLocked()
	// In-flight sends bail at the token check without decrementing, so the
	// counter must be cleared here or Sending sticks forever.
	c.sendsInFlight = 0
	c.mu.Unlock()
}

// armTurnLocked schedules the next scripted turn, or nothing once the script
// is exhausted.
func (c *Controller) armTurnLocked(token uint64) {
	if c.cursor >= len(c.script) {
		return
	}
	c.turnTimer = c.clock.AfterFunc(TurnInterval, func() {
		c.beginTurn(token)
	})
}

// beginTurn marks the scripted participant as typing and arms delivery.
func (c *Controller) beginTurn(token uint64) {
	c.mu.Lock()
	if token != c.session || c.cursor >= len(c.script) {
		c.mu.Unlock()
		return
	}
	turn := c.script[c.cursor]
	c.typingUser = turn.Author
	c.state = StateSimulatedTyping
	observability.IncTurnStarted()
	c.deliverTimer = c.clock.AfterFunc(TypingDuration, func() {
		c.deliverTurn(token)
	})
	c.mu.Unlock()
	c.notifyChange()
}

// deliverTurn issues the transport append for the current turn and merges the
// result. A failed turn clears its indicator and the loop continues on its
// normal timer.
func (c *Controller) deliverTurn(token uint64) {
	c.mu.Lock()
	if token != c.session || c.cursor >= len(c.script) {
		c.mu.Unlock()
		return
	}
	turn := c.script[c.cursor]
	c.cursor++
	c.state = StateDelivering
	c.mu.Unlock()
	c.notifyChange()

	ctx := context.Background()
	rec, err := c.transport.Append(ctx, turn.Author, turn.Text)

	c.mu.Lock()
	if token != c.session {
		c.mu.Unlock()
		return
	}
	c.typingUser = ""
	c.state = StateIdle
	var accepted *models.Message
	if err != nil {
		log.Printf("simulated turn for %s failed: %v", turn.Author, err)
		observability.IncTransportFailure("append")
	} else {
		msg := c.acceptLocked(rec)
		c.persistMessagesLocked(ctx)
		observability.IncMessageAppended("simulated")
		accepted = &msg
	}
	focused := c.focused
	c.armTurnLocked(token)
	c.mu.Unlock()
	c.notifyChange()

	if accepted == nil {
		return
	}
	if c.audio != nil {
		c.audio.PlayReceiveCue(ctx)
	}
	if c.notifier != nil && !focused {
		c.notifier.MessageReceived(ctx, accepted.SenderName, accepted.Text)
	}
}

// acceptLocked converts a transport record into an authoritative message.
// The sender side is fixed here, once, against the active identity.
func (c *Controller) acceptLocked(rec transport.Record) models.Message {
	sender := models.SenderRemote
	if rec.Author == c.identity {
		sender = models.SenderLocal
	}
	msg := models.Message{
		ID:         rec.ID,
		Text:       rec.Text,
		Sender:     sender,
		SenderName: rec.Author,
		Timestamp:  c.clock.Now(),
	}
	c.messages = append(c.messages, msg)
	return msg
}

func (c *Controller) clearLocalTypingLocked() {
	c.localTyping = false
	if c.typingIdleTimer != nil {
		c.typingIdleTimer.Stop()
		c.typingIdleTimer = nil
	}
}

func (c *Controller) cancelTimersLocked() {
	if c.turnTimer != nil {
		c.turnTimer.Stop()
		c.turnTimer = nil
	}
	if c.deliverTimer != nil {
		c.deliverTimer.Stop()
		c.deliverTimer = nil
	}
	if c.typingIdleTimer != nil {
		c.typingIdleTimer.Stop()
		c.typingIdleTimer = nil
	}
}

func (c *Controller) persistMessagesLocked(ctx context.Context) {
	if c.kv == nil {
		return
	}
	msgs := make([]models.Message, len(c.messages))
	copy(msgs, c.messages)
	if err := c.kv.WriteJSON(ctx, store.KeyMessages, msgs); err != nil {
		log.Printf("persist messages failed: %v", err)
	}
}

func (c *Controller) persistIdentityLocked(ctx context.Context) {
	if c.kv == nil {
		return
	}
	if err := c.kv.WriteJSON(ctx, store.KeyUserName, c.identity); err != nil {
		log.Printf("persist identity failed: %v", err)
	}
}

func (c *Controller) notifyChange() {
	if c.onChange == nil {
		return
	}
	c.onChange(c.Snapshot())
}
