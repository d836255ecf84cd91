// Package submission runs one user action against the backend at a time and
// keeps the latest outcome for the view layer.
package submission

import (
	"context"
	stderrors "errors"
	"sync"

	"resumeassist/internal/errors"
)

// ErrSubmissionPending is returned when Submit is called while a previous
// submission has not settled. The call has no other effect.
var ErrSubmissionPending = stderrors.New("submission already in progress")

// State is the lifecycle position of a controller's current result
type State int

const (
	Idle State = iota
	Pending
	Success
	Failure
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Success:
		return "success"
	case Failure:
		return "failure"
	default:
		return "unknown"
	}
}

// Result is the current outcome of a controller. Payload is set only on
// Success; Err and Message only on Failure.
type Result[T any] struct {
	State   State
	Payload *T
	Err     *errors.AppError
	Message string
}

// Operation performs the remote call for one submission
type Operation[Req, Resp any] func(ctx context.Context, req Req) (*Resp, error)

// Validator reports whether a request carries every required input
type Validator[Req any] func(req Req) bool

// Listener receives every state transition
type Listener[T any] func(Result[T])

// Messages are the static user-visible texts of a flow
type Messages struct {
	Validation string
	Failure    string
}

// Tracker instruments a submission's remote call
type Tracker interface {
	TrackSubmission(ctx context.Context, flow string, fn func(context.Context) error) error
}

type options struct {
	tracker Tracker
	logger  *errors.Logger
}

// Option configures a Controller
type Option func(*options)

// WithTracker sets the tracker wrapping each remote call
func WithTracker(t Tracker) Option {
	return func(o *options) {
		o.tracker = t
	}
}

// WithLogger sets the logger used for failed submissions
func WithLogger(l *errors.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// Controller enforces at most one in-flight submission and exposes the
// latest result. It is safe for concurrent use.
type Controller[Req, Resp any] struct {
	name     string
	op       Operation[Req, Resp]
	validate Validator[Req]
	messages Messages
	tracker  Tracker
	logger   *errors.Logger

	mu         sync.Mutex
	result     Result[Resp]
	listeners  map[int]Listener[Resp]
	nextID     int
	queue      []delivery[Resp]
	delivering bool
}

// delivery is one transition waiting to reach the listeners registered when
// it happened
type delivery[T any] struct {
	res       Result[T]
	listeners []Listener[T]
}

// NewController creates an Idle controller for one flow
func NewController[Req, Resp any](name string, op Operation[Req, Resp], validate Validator[Req], messages Messages, opts ...Option) *Controller[Req, Resp] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = errors.NewNopLogger()
	}

	return &Controller[Req, Resp]{
		name:      name,
		op:        op,
		validate:  validate,
		messages:  messages,
		tracker:   o.tracker,
		logger:    o.logger,
		listeners: make(map[int]Listener[Resp]),
	}
}

// Name returns the flow name
func (c *Controller[Req, Resp]) Name() string {
	return c.name
}

// Submit validates req and, if complete, performs exactly one remote call.
// It blocks until the call settles and returns the resulting state. While a
// submission is pending, further calls return ErrSubmissionPending and the
// pending result.
func (c *Controller[Req, Resp]) Submit(ctx context.Context, req Req) (Result[Resp], error) {
	c.mu.Lock()
	if c.result.State == Pending {
		current := c.result
		c.mu.Unlock()
		return current, ErrSubmissionPending
	}

	if c.validate != nil && !c.validate(req) {
		res := Result[Resp]{
			State:   Failure,
			Err:     errors.NewValidationError(errors.ErrCodeMissingInput, c.messages.Validation, nil),
			Message: c.messages.Validation,
		}
		c.transitionLocked(res)
		return res, nil
	}

	pending := Result[Resp]{State: Pending}
	c.transitionLocked(pending)

	payload, err := c.run(ctx, req)
	res := c.settle(payload, err)

	c.mu.Lock()
	c.transitionLocked(res)

	return res, nil
}

func (c *Controller[Req, Resp]) run(ctx context.Context, req Req) (*Resp, error) {
	var payload *Resp
	call := func(ctx context.Context) error {
		var err error
		payload, err = c.op(ctx, req)
		return err
	}

	var err error
	if c.tracker != nil {
		err = c.tracker.TrackSubmission(ctx, c.name, call)
	} else {
		err = call(ctx)
	}
	return payload, err
}

func (c *Controller[Req, Resp]) settle(payload *Resp, err error) Result[Resp] {
	if err == nil && payload == nil {
		err = errors.NewServerError(errors.ErrCodeInvalidResponse, "Backend returned an empty response", nil)
	}
	if err == nil {
		return Result[Resp]{State: Success, Payload: payload}
	}

	appErr, ok := errors.AsAppError(err)
	if !ok {
		appErr = errors.NewTransportError(errors.ErrCodeRequestFailed, "Backend request failed", err)
	}

	message := c.messages.Failure
	if appErr.Type == errors.ErrorTypeValidation {
		message = c.messages.Validation
	}

	c.logger.LogError(appErr, "Submission failed", "flow", c.name)

	return Result[Resp]{State: Failure, Err: appErr, Message: message}
}

// Reset returns the controller to Idle and discards the last result. It is
// ignored while a submission is pending and reports whether it took effect.
func (c *Controller[Req, Resp]) Reset() bool {
	c.mu.Lock()
	if c.result.State == Pending {
		c.mu.Unlock()
		return false
	}
	idle := Result[Resp]{State: Idle}
	c.transitionLocked(idle)
	return true
}

// Result returns the current result
func (c *Controller[Req, Resp]) Result() Result[Resp] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// IsPending reports whether a submission is in flight
func (c *Controller[Req, Resp]) IsPending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result.State == Pending
}

// Subscribe registers a listener for state transitions and returns a func
// that removes it
func (c *Controller[Req, Resp]) Subscribe(l Listener[Resp]) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = l
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

// transitionLocked stores res and delivers it to listeners after releasing
// c.mu, which must be held. Deliveries are queued so listeners see
// transitions in the order they happened even with concurrent callers; the
// goroutine that finds the queue idle drains it, including transitions made
// by other goroutines or by listeners themselves.
func (c *Controller[Req, Resp]) transitionLocked(res Result[Resp]) {
	c.result = res
	listeners := make([]Listener[Resp], 0, len(c.listeners))
	for _, l := range c.listeners {
		listeners = append(listeners, l)
	}
	c.queue = append(c.queue, delivery[Resp]{res: res, listeners: listeners})
	if c.delivering {
		c.mu.Unlock()
		return
	}
	c.delivering = true
	c.mu.Unlock()

	for {
		c.mu.Lock()
		if len(c.queue) == 0 {
			c.delivering = false
			c.mu.Unlock()
			return
		}
		next := c.queue[0]
		c.queue = c.queue[1:]
		c.mu.Unlock()

		notify(next.listeners, next.res)
	}
}

func notify[T any](listeners []Listener[T], res Result[T]) {
	for _, l := range listeners {
		l(res)
	}
}
