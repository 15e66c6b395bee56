package authform

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Session is what a successful login or signup hands back.
type Session struct {
	UserID string
	Email  string
	Token  string
}

// Actions are the account operations the form dispatches to.
type Actions interface {
	LoginWithPassword(ctx context.Context, email, password string) (Session, error)
	CreateUser(ctx context.Context, email, password string) (Session, error)
	SendResetPasswordEmail(ctx context.Context, email string) error
}

// FormState is the transient message state of one form instance.
type FormState struct {
	ServerError   string
	ServerSuccess string
}

// Outcome classifies how a submission ended.
type Outcome int

const (
	// Pending is only seen before an asynchronous submission settles.
	Pending Outcome = iota
	// Aborted means OnBefore refused the submission.
	Aborted
	// Rejected means client-side validation failed.
	Rejected
	Succeeded
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Pending:
		return "pending"
	case Aborted:
		return "aborted"
	case Rejected:
		return "rejected"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result reports a settled submission for the presentation layer.
type Result struct {
	Mode        Mode
	Outcome     Outcome
	Err         error
	FieldErrors []FieldError
	// Credentials holds the validated input; empty unless validation passed.
	Credentials Credentials
	Session     Session
	State       FormState
}

// Config configures a Controller.
type Config struct {
	Mode         Mode
	Disabled     bool
	OnModeChange func(Mode)
	Hooks        Hooks
	Actions      Actions
	Validator    Validator
}

// Controller drives one password form instance.
type Controller struct {
	actions      Actions
	hooks        Hooks
	validator    Validator
	onModeChange func(Mode)

	mu       sync.Mutex
	mode     Mode
	disabled bool
	state    FormState
}

// NewController validates cfg and fills in defaults.
func NewController(cfg Config) (*Controller, error) {
	if cfg.Mode == "" {
		return nil, errors.New("authform: mode is required")
	}
	if cfg.OnModeChange == nil {
		return nil, errors.New("authform: OnModeChange is required")
	}
	if cfg.Actions == nil {
		return nil, errors.New("authform: actions are required")
	}
	if cfg.Hooks == nil {
		cfg.Hooks = NoopHooks{}
	}
	if cfg.Validator == nil {
		cfg.Validator = NewValidator()
	}
	return &Controller{
		actions:      cfg.Actions,
		hooks:        cfg.Hooks,
		validator:    cfg.Validator,
		onModeChange: cfg.OnModeChange,
		mode:         cfg.Mode,
		disabled:     cfg.Disabled,
	}, nil
}

// Mode returns the active mode.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// View returns the display metadata for the active mode.
func (c *Controller) View() (ViewConfig, bool) {
	return View(c.Mode())
}

// State returns a copy of the current message state.
func (c *Controller) State() FormState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Disabled reports the caller-managed disabled flag of the submit control.
func (c *Controller) Disabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disabled
}

// SetDisabled updates the disabled flag. The controller never sets it itself.
func (c *Controller) SetDisabled(disabled bool) {
	c.mu.Lock()
	c.disabled = disabled
	c.mu.Unlock()
}

// ChangeMode clears the message state and hands target to OnModeChange.
func (c *Controller) ChangeMode(target Mode) {
	c.mu.Lock()
	c.state = FormState{}
	c.mode = target
	c.mu.Unlock()

	c.onModeChange(target)
}

// Submit runs one submission to completion. Action failures are converted
// into FormState and hook calls; Submit never returns them as panics.
func (c *Controller) Submit(ctx context.Context, values Values) Result {
	mode := c.Mode()
	res := Result{Mode: mode}

	if err := c.hooks.OnBefore(ctx); err != nil {
		res.Outcome = Aborted
		res.Err = fmt.Errorf("%w: %w", ErrAborted, err)
		res.State = c.State()
		return res
	}

	c.setState(FormState{})

	view, known := View(mode)
	creds, err := c.validator.Validate(view.Fields, values)
	if err != nil {
		var verr *ValidationError
		if !errors.As(err, &verr) {
			verr = &ValidationError{Errors: []FieldError{{Message: ErrorMessage(err)}}}
		}
		c.hooks.OnClientError(ctx, verr)
		res.Outcome = Rejected
		res.Err = verr
		res.FieldErrors = verr.Errors
		res.State = c.State()
		return res
	}
	res.Credentials = creds

	strat, ok := strategies[mode]
	if !known || !ok {
		c.hooks.OnServerError(ctx, ErrUnknownView)
		res.Outcome = Failed
		res.Err = ErrUnknownView
		res.State = c.State()
		return res
	}

	session, err := strat.dispatch(ctx, c.actions, creds)
	if err != nil {
		c.setState(FormState{ServerError: ErrorMessage(err)})
		c.hooks.OnServerError(ctx, err)
		res.Outcome = Failed
		res.Err = err
		res.State = c.State()
		return res
	}

	if msg := strat.successMessage; msg != "" {
		c.setState(FormState{ServerSuccess: msg})
	}
	strat.succeed(ctx, c.hooks, session, creds)

	res.Outcome = Succeeded
	res.Session = session
	res.State = c.State()
	return res
}

// SubmitAsync starts Submit on its own goroutine and returns at once. The
// channel yields exactly one Result. Overlapping submissions are not
// serialized: whichever settles last owns the FormState.
func (c *Controller) SubmitAsync(ctx context.Context, values Values) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		out <- c.Submit(ctx, values)
		close(out)
	}()
	return out
}

func (c *Controller) setState(s FormState) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}
