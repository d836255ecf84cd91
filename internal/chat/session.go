// Package chat keeps the transcript of a support conversation with the backend bot.
package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"resumeassist/internal/errors"
)

// Defaults used when no option overrides them
const (
	DefaultGreeting  = "Hi! How can I assist you with your resume?"
	DefaultErrorText = "Error: Unable to connect to AI."
)

// Sender identifies who wrote a message
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message is one immutable transcript entry
type Message struct {
	ID     string    `json:"id"`
	Text   string    `json:"text"`
	Sender Sender    `json:"sender"`
	SentAt time.Time `json:"sentAt"`
}

// EventKind tells subscribers what changed
type EventKind int

const (
	MessageAppended EventKind = iota
	TypingChanged
)

// Event is delivered to subscribers on every session change
type Event struct {
	Kind    EventKind
	Message Message // set for MessageAppended
	Typing  bool    // set for TypingChanged
}

// Replier sends one message to the bot and returns its answer
type Replier interface {
	Reply(ctx context.Context, message string) (string, error)
}

// Recorder counts chat round-trips
type Recorder interface {
	RecordChatMessage(ctx context.Context, success bool)
}

// Option configures a Session
type Option func(*Session)

// WithGreeting sets the first bot message; an empty greeting disables it
func WithGreeting(greeting string) Option {
	return func(s *Session) {
		s.greeting = greeting
	}
}

// WithErrorText sets the bot message appended when a round-trip fails
func WithErrorText(text string) Option {
	return func(s *Session) {
		s.errorText = text
	}
}

// WithLogger sets the session logger
func WithLogger(l *errors.Logger) Option {
	return func(s *Session) {
		s.logger = l
	}
}

// WithRecorder sets the metrics recorder
func WithRecorder(r Recorder) Option {
	return func(s *Session) {
		s.recorder = r
	}
}

// WithClock overrides time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// Session is an append-only chat transcript with a typing indicator.
// At most one round-trip is outstanding at a time.
type Session struct {
	replier   Replier
	recorder  Recorder
	logger    *errors.Logger
	greeting  string
	errorText string
	now       func() time.Time

	mu          sync.Mutex
	transcript  []Message
	typing      bool
	subscribers map[int]func(Event)
	nextID      int
	queue       []queuedEvent
	delivering  bool
}

type queuedEvent struct {
	ev   Event
	subs []func(Event)
}

// NewSession starts a session, seeded with the greeting
func NewSession(replier Replier, opts ...Option) *Session {
	s := &Session{
		replier:     replier,
		greeting:    DefaultGreeting,
		errorText:   DefaultErrorText,
		now:         time.Now,
		subscribers: make(map[int]func(Event)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = errors.NewNopLogger()
	}
	if s.errorText == "" {
		s.errorText = DefaultErrorText
	}

	if s.greeting != "" {
		s.transcript = append(s.transcript, s.newMessage(s.greeting, SenderBot))
	}
	return s
}

// SendMessage appends the user's message, waits for the bot and appends its
// reply, or the fixed error text when the backend cannot be reached. Blank
// text, or a send while a reply is outstanding, is ignored and reports false.
// Transport and server errors never reach the caller.
func (s *Session) SendMessage(ctx context.Context, text string) (Message, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, false
	}

	s.mu.Lock()
	if s.typing {
		s.mu.Unlock()
		return Message{}, false
	}
	userMsg := s.newMessage(text, SenderUser)
	s.transcript = append(s.transcript, userMsg)
	s.typing = true
	s.emitLocked(
		Event{Kind: MessageAppended, Message: userMsg},
		Event{Kind: TypingChanged, Typing: true})

	reply, err := s.replier.Reply(ctx, text)
	if err != nil {
		s.logger.LogError(err, "Chat round-trip failed")
		reply = s.errorText
	}
	if s.recorder != nil {
		s.recorder.RecordChatMessage(ctx, err == nil)
	}

	s.mu.Lock()
	botMsg := s.newMessage(reply, SenderBot)
	s.transcript = append(s.transcript, botMsg)
	s.typing = false
	s.emitLocked(
		Event{Kind: MessageAppended, Message: botMsg},
		Event{Kind: TypingChanged, Typing: false})

	return botMsg, true
}

// Transcript returns a copy of the messages in insertion order
func (s *Session) Transcript() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// IsTyping reports whether a bot reply is outstanding
func (s *Session) IsTyping() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.typing
}

// Subscribe registers fn for session events and returns a func removing it
func (s *Session) Subscribe(fn func(Event)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

func (s *Session) newMessage(text string, sender Sender) Message {
	return Message{
		ID:     uuid.NewString(),
		Text:   text,
		Sender: sender,
		SentAt: s.now(),
	}
}

// emitLocked queues events for the current subscribers and delivers them
// after releasing s.mu, which must be held. One goroutine drains the queue at
// a time so subscribers see events in the order the session changed.
func (s *Session) emitLocked(events ...Event) {
	subs := make([]func(Event), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	for _, ev := range events {
		s.queue = append(s.queue, queuedEvent{ev: ev, subs: subs})
	}
	if s.delivering {
		s.mu.Unlock()
		return
	}
	s.delivering = true
	s.mu.Unlock()

	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.delivering = false
			s.mu.Unlock()
			return
		}
		next := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		for _, fn := range next.subs {
			fn(next.ev)
		}
	}
}
