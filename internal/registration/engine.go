// Package registration implements the subname registration wizard: a small
// state machine that owns the mint flow from label entry through on-chain
// confirmation and the optional primary-name step. All blockchain and
// indexer work is delegated to injected collaborators; the engine only
// enforces ordering, guards and failure semantics.
package registration

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/subnamehq/subctl/internal/ens"
)

const defaultDebounce = 200 * time.Millisecond

// Engine owns a State and exposes the only operations that may mutate it.
// Safe for use from the UI goroutine plus the goroutines that complete
// collaborator calls.
type Engine struct {
	listing    Listing
	owner      string
	oracle     AvailabilityOracle
	executor   MintExecutor
	primary    PrimaryNameSetter
	classifier *Classifier
	debounce   time.Duration
	onChange   func(State)

	mu              sync.Mutex
	state           State
	checkGen        uint64
	checkTimer      *time.Timer
	mintInFlight    bool
	primaryInFlight bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithDebounce overrides the availability-check quiescence window.
// Zero issues checks immediately (used by tests).
func WithDebounce(d time.Duration) Option {
	return func(e *Engine) { e.debounce = d }
}

// WithClassifier replaces the revert-reason classifier.
func WithClassifier(c *Classifier) Option {
	return func(e *Engine) { e.classifier = c }
}

// WithOnChange registers a listener invoked with a state snapshot after
// every transition. Called outside the engine lock.
func WithOnChange(fn func(State)) Option {
	return func(e *Engine) { e.onChange = fn }
}

// New creates an engine for one wizard session.
func New(listing Listing, owner string, oracle AvailabilityOracle, executor MintExecutor, primary PrimaryNameSetter, opts ...Option) *Engine {
	e := &Engine{
		listing:    listing,
		owner:      owner,
		oracle:     oracle,
		executor:   executor,
		primary:    primary,
		classifier: DefaultClassifier(),
		debounce:   defaultDebounce,
		state:      State{Step: StepStart, ExpiryYears: 1},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Listing returns the immutable listing configuration.
func (e *Engine) Listing() Listing { return e.listing }

// Owner returns the minting account address.
func (e *Engine) Owner() string { return e.owner }

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// FullName returns label.parent for the current label.
func (e *Engine) FullName() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Label + "." + e.listing.ParentName
}

// UpdateLabel handles a keystroke-level label change. Candidates containing
// a separator or failing normalization are rejected silently: the label and
// the rest of the state stay untouched. An accepted non-empty label starts a
// debounced availability check; only the newest issued check may resolve
// into state.
func (e *Engine) UpdateLabel(candidate string) {
	candidate = strings.ToLower(candidate)
	if strings.Contains(candidate, ".") {
		return
	}
	normalized, err := ens.NormalizeLabel(candidate)
	if err != nil {
		return
	}

	e.mu.Lock()
	if e.state.Step != StepStart {
		e.mu.Unlock()
		return
	}
	e.state.Label = normalized
	e.checkGen++
	gen := e.checkGen
	if e.checkTimer != nil {
		e.checkTimer.Stop()
		e.checkTimer = nil
	}

	if normalized == "" {
		e.state.Availability = Availability{}
		snap := e.state
		e.mu.Unlock()
		e.notify(snap)
		return
	}

	e.state.Availability = Availability{Checking: true}
	label := normalized
	if e.debounce > 0 {
		e.checkTimer = time.AfterFunc(e.debounce, func() { e.runCheck(gen, label) })
	} else {
		go e.runCheck(gen, label)
	}
	snap := e.state
	e.mu.Unlock()
	e.notify(snap)
}

// runCheck queries the oracle and applies the result if this check is still
// the newest one. An oracle failure counts as unavailable.
func (e *Engine) runCheck(gen uint64, label string) {
	available, err := e.oracle.CheckAvailable(context.Background(), label)
	if err != nil {
		available = false
	}

	e.mu.Lock()
	if gen != e.checkGen || e.state.Step != StepStart {
		e.mu.Unlock()
		return
	}
	e.state.Availability = Availability{Available: available}
	snap := e.state
	e.mu.Unlock()
	e.notify(snap)
}

// SubmitMint runs the mint flow: build parameters, execute, await
// confirmation. It blocks until the flow settles, so callers drive it from
// their own goroutine. Returns false when the current state forbids
// submitting (wrong step, empty label, check pending, unavailable name, or
// a mint already in flight) — in that case nothing is mutated.
//
// Every failure returns the wizard to StepStart. A wallet rejection aborts
// silently; anything else is classified into a user-facing MintError.
func (e *Engine) SubmitMint(ctx context.Context) bool {
	e.mu.Lock()
	ok := e.state.Step == StepStart &&
		e.state.Label != "" &&
		!e.state.Availability.Checking &&
		e.state.Availability.Available &&
		!e.mintInFlight
	if !ok {
		e.mu.Unlock()
		return false
	}
	e.mintInFlight = true
	e.state.MintError = ""
	req := MintRequest{
		Label:       e.state.Label,
		ParentName:  e.listing.ParentName,
		Owner:       e.owner,
		ExpiryYears: e.state.ExpiryYears,
		Texts:       e.mintTexts(),
	}
	e.mu.Unlock()

	err := e.runMint(ctx, req)

	e.mu.Lock()
	e.mintInFlight = false
	if err != nil {
		e.state.Step = StepStart
		e.state.TxHash = ""
		if kind := e.classifier.Classify(err); kind != KindUserRejected {
			e.state.MintError = kind.Message()
		}
	}
	snap := e.state
	e.mu.Unlock()
	e.notify(snap)
	return true
}

func (e *Engine) runMint(ctx context.Context, req MintRequest) error {
	params, err := e.executor.BuildParameters(ctx, req)
	if err != nil {
		return err
	}
	hash, err := e.executor.Execute(ctx, params)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.state.TxHash = hash
	e.state.Step = StepSubmitted
	snap := e.state
	e.mu.Unlock()
	e.notify(snap)

	if err := e.executor.AwaitConfirmation(ctx, hash); err != nil {
		return err
	}

	e.mu.Lock()
	e.state.Step = StepAwaitingPrimary
	snap = e.state
	e.mu.Unlock()
	e.notify(snap)
	return nil
}

// mintTexts assembles the text records attached at mint time.
func (e *Engine) mintTexts() []TextRecord {
	var texts []TextRecord
	if e.listing.DefaultAvatarURI != "" {
		texts = append(texts, TextRecord{Key: "avatar", Value: e.listing.DefaultAvatarURI})
	}
	return texts
}

// SetPrimaryName submits the reverse-registrar transaction for the minted
// name. Valid only while awaiting the primary choice. Failure leaves the
// step unchanged and records a transient notice so the user may retry or
// skip.
func (e *Engine) SetPrimaryName(ctx context.Context) bool {
	e.mu.Lock()
	if e.state.Step != StepAwaitingPrimary || e.primaryInFlight {
		e.mu.Unlock()
		return false
	}
	e.primaryInFlight = true
	fullName := e.state.Label + "." + e.listing.ParentName
	e.mu.Unlock()

	_, err := e.primary.SetPrimaryName(ctx, fullName)

	e.mu.Lock()
	e.primaryInFlight = false
	if err != nil {
		e.state.Notice = "Could not set primary name: " + err.Error()
	} else {
		e.state.Step = StepComplete
		e.state.Notice = "Primary name set to " + fullName
	}
	snap := e.state
	e.mu.Unlock()
	e.notify(snap)
	return true
}

// SkipOrFinish resets the wizard back to the start. Reachable from
// StepAwaitingPrimary and StepComplete so the wizard can never get stuck.
func (e *Engine) SkipOrFinish() bool {
	e.mu.Lock()
	if e.state.Step != StepAwaitingPrimary && e.state.Step != StepComplete {
		e.mu.Unlock()
		return false
	}
	e.checkGen++ // orphan any in-flight availability check
	e.state = State{Step: StepStart, ExpiryYears: e.state.ExpiryYears}
	snap := e.state
	e.mu.Unlock()
	e.notify(snap)
	return true
}

// DismissError clears the mint error. Valid only at the start step with a
// non-empty error.
func (e *Engine) DismissError() bool {
	e.mu.Lock()
	if e.state.Step != StepStart || e.state.MintError == "" {
		e.mu.Unlock()
		return false
	}
	e.state.MintError = ""
	snap := e.state
	e.mu.Unlock()
	e.notify(snap)
	return true
}

// ClearNotice drops the transient notice once the UI has shown it.
func (e *Engine) ClearNotice() {
	e.mu.Lock()
	e.state.Notice = ""
	e.mu.Unlock()
}

// IncExpiryYears bumps the rental duration. Only meaningful for rental
// listings, only adjustable before submitting.
func (e *Engine) IncExpiryYears() {
	e.mu.Lock()
	if e.state.Step == StepStart {
		e.state.ExpiryYears++
	}
	e.mu.Unlock()
}

// DecExpiryYears lowers the rental duration, floored at one year.
func (e *Engine) DecExpiryYears() {
	e.mu.Lock()
	if e.state.Step == StepStart && e.state.ExpiryYears > 1 {
		e.state.ExpiryYears--
	}
	e.mu.Unlock()
}

func (e *Engine) notify(s State) {
	if e.onChange != nil {
		e.onChange(s)
	}
}
