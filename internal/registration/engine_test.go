package registration

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fakes ---

type oracleCall struct {
	label string
	reply chan bool
}

// channelOracle hands every CheckAvailable call to the test, which answers
// through the reply channel. Lets tests control resolution order.
type channelOracle struct {
	calls chan oracleCall
}

func newChannelOracle() *channelOracle {
	return &channelOracle{calls: make(chan oracleCall, 16)}
}

func (o *channelOracle) CheckAvailable(ctx context.Context, label string) (bool, error) {
	reply := make(chan bool)
	o.calls <- oracleCall{label: label, reply: reply}
	return <-reply, nil
}

// staticOracle answers immediately from a fixed table.
type staticOracle struct {
	mu        sync.Mutex
	available map[string]bool
	err       error
	labels    []string
}

func (o *staticOracle) CheckAvailable(ctx context.Context, label string) (bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.labels = append(o.labels, label)
	if o.err != nil {
		return false, o.err
	}
	return o.available[label], nil
}

type fakeExecutor struct {
	mu         sync.Mutex
	buildErr   error
	execErr    error
	confirmErr error
	hash       string

	execStarted chan struct{}
	execRelease chan struct{}

	lastReq MintRequest
}

func newFakeExecutor() *fakeExecutor {
	return &fakeExecutor{hash: "0xdeadbeef"}
}

func (f *fakeExecutor) BuildParameters(ctx context.Context, req MintRequest) (*MintParams, error) {
	f.mu.Lock()
	f.lastReq = req
	f.mu.Unlock()
	if f.buildErr != nil {
		return nil, f.buildErr
	}
	return &MintParams{Request: req, To: "0xc0ffee"}, nil
}

func (f *fakeExecutor) Execute(ctx context.Context, params *MintParams) (string, error) {
	if f.execStarted != nil {
		close(f.execStarted)
	}
	if f.execRelease != nil {
		<-f.execRelease
	}
	if f.execErr != nil {
		return "", f.execErr
	}
	return f.hash, nil
}

func (f *fakeExecutor) AwaitConfirmation(ctx context.Context, txHash string) error {
	return f.confirmErr
}

type fakePrimary struct {
	mu    sync.Mutex
	err   error
	names []string
}

func (f *fakePrimary) SetPrimaryName(ctx context.Context, fullName string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.names = append(f.names, fullName)
	if f.err != nil {
		return "", f.err
	}
	return "0xfeed", nil
}

// --- helpers ---

func testListing() Listing {
	return Listing{ParentName: "noun.eth", ChainID: 1, Rental: true}
}

func newTestEngine(oracle AvailabilityOracle, exec MintExecutor, prim PrimaryNameSetter, opts ...Option) *Engine {
	opts = append([]Option{WithDebounce(0)}, opts...)
	return New(testListing(), "0xOwner", oracle, exec, prim, opts...)
}

func waitUntil(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

// readyEngine returns an engine with label set and availability resolved,
// ready to submit.
func readyEngine(t *testing.T, exec MintExecutor, prim PrimaryNameSetter) *Engine {
	t.Helper()
	oracle := &staticOracle{available: map[string]bool{"alice": true}}
	e := newTestEngine(oracle, exec, prim)
	e.UpdateLabel("alice")
	waitUntil(t, func() bool {
		s := e.Snapshot()
		return !s.Availability.Checking && s.Availability.Available
	})
	return e
}

// --- construction ---

func TestNewEngineInitialState(t *testing.T) {
	e := newTestEngine(&staticOracle{}, newFakeExecutor(), &fakePrimary{})
	s := e.Snapshot()
	assert.Equal(t, StepStart, s.Step)
	assert.Equal(t, 1, s.ExpiryYears)
	assert.Empty(t, s.Label)
	assert.Equal(t, Availability{}, s.Availability)
}

func TestListingAndOwnerAccessors(t *testing.T) {
	e := newTestEngine(&staticOracle{}, newFakeExecutor(), &fakePrimary{})
	assert.Equal(t, "noun.eth", e.Listing().ParentName)
	assert.Equal(t, "0xOwner", e.Owner())
}

func TestFullName(t *testing.T) {
	e := readyEngine(t, newFakeExecutor(), &fakePrimary{})
	assert.Equal(t, "alice.noun.eth", e.FullName())
}

// --- label updates ---

func TestUpdateLabelLowercases(t *testing.T) {
	e := readyEngine(t, newFakeExecutor(), &fakePrimary{})
	assert.Equal(t, "alice", e.Snapshot().Label)

	oracle := &staticOracle{available: map[string]bool{"bob": true}}
	e2 := newTestEngine(oracle, newFakeExecutor(), &fakePrimary{})
	e2.UpdateLabel("BoB")
	waitUntil(t, func() bool { return !e2.Snapshot().Availability.Checking })
	assert.Equal(t, "bob", e2.Snapshot().Label)
}

func TestUpdateLabelRejectsSeparator(t *testing.T) {
	e := readyEngine(t, newFakeExecutor(), &fakePrimary{})
	before := e.Snapshot()

	e.UpdateLabel("alice.eth")

	assert.Equal(t, before, e.Snapshot(), "rejected input must not change state")
}

func TestUpdateLabelRejectsInvalid(t *testing.T) {
	e := readyEngine(t, newFakeExecutor(), &fakePrimary{})
	before := e.Snapshot()

	e.UpdateLabel("bad label")

	assert.Equal(t, before, e.Snapshot())
}

func TestUpdateLabelEmptyClearsAvailability(t *testing.T) {
	e := readyEngine(t, newFakeExecutor(), &fakePrimary{})

	e.UpdateLabel("")

	s := e.Snapshot()
	assert.Empty(t, s.Label)
	assert.Equal(t, Availability{}, s.Availability)
}

func TestUpdateLabelMarksChecking(t *testing.T) {
	oracle := newChannelOracle()
	e := newTestEngine(oracle, newFakeExecutor(), &fakePrimary{})

	e.UpdateLabel("alice")
	assert.True(t, e.Snapshot().Availability.Checking)

	call := <-oracle.calls
	assert.Equal(t, "alice", call.label)
	call.reply <- true

	waitUntil(t, func() bool { return !e.Snapshot().Availability.Checking })
	assert.True(t, e.Snapshot().Availability.Available)
}

func TestUpdateLabelIgnoredAfterStart(t *testing.T) {
	exec := newFakeExecutor()
	e := readyEngine(t, exec, &fakePrimary{})
	require.True(t, e.SubmitMint(context.Background()))
	require.Equal(t, StepAwaitingPrimary, e.Snapshot().Step)

	e.UpdateLabel("other")
	assert.Equal(t, "alice", e.Snapshot().Label)
}

func TestStaleCheckResultDropped(t *testing.T) {
	oracle := newChannelOracle()
	e := newTestEngine(oracle, newFakeExecutor(), &fakePrimary{})

	e.UpdateLabel("aa")
	first := <-oracle.calls

	e.UpdateLabel("aab")
	second := <-oracle.calls
	require.Equal(t, "aab", second.label)

	// Newest check resolves first.
	second.reply <- true
	waitUntil(t, func() bool { return e.Snapshot().Availability.Available })

	// The stale result must not overwrite the newer one.
	first.reply <- false
	time.Sleep(20 * time.Millisecond)

	s := e.Snapshot()
	assert.Equal(t, "aab", s.Label)
	assert.True(t, s.Availability.Available)
	assert.False(t, s.Availability.Checking)
}

func TestOracleErrorReadsUnavailable(t *testing.T) {
	oracle := &staticOracle{err: errors.New("indexer down")}
	e := newTestEngine(oracle, newFakeExecutor(), &fakePrimary{})

	e.UpdateLabel("alice")
	waitUntil(t, func() bool { return !e.Snapshot().Availability.Checking })

	assert.False(t, e.Snapshot().Availability.Available)
}

func TestDebouncedCheckCoalesces(t *testing.T) {
	oracle := &staticOracle{available: map[string]bool{"abc": true}}
	e := New(testListing(), "0xOwner", oracle, newFakeExecutor(), &fakePrimary{},
		WithDebounce(30*time.Millisecond))

	// Three keystrokes in quick succession: only the final label should be
	// queried.
	e.UpdateLabel("a")
	e.UpdateLabel("ab")
	e.UpdateLabel("abc")

	waitUntil(t, func() bool { return !e.Snapshot().Availability.Checking })

	oracle.mu.Lock()
	defer oracle.mu.Unlock()
	assert.Equal(t, []string{"abc"}, oracle.labels)
}

// --- mint submission ---

func TestSubmitMintRefusedWithoutLabel(t *testing.T) {
	e := newTestEngine(&staticOracle{}, newFakeExecutor(), &fakePrimary{})
	assert.False(t, e.SubmitMint(context.Background()))
}

func TestSubmitMintRefusedWhileChecking(t *testing.T) {
	oracle := newChannelOracle()
	e := newTestEngine(oracle, newFakeExecutor(), &fakePrimary{})

	e.UpdateLabel("alice")
	require.True(t, e.Snapshot().Availability.Checking)

	assert.False(t, e.SubmitMint(context.Background()))

	(<-oracle.calls).reply <- true
}

func TestSubmitMintRefusedWhenUnavailable(t *testing.T) {
	oracle := &staticOracle{available: map[string]bool{}}
	e := newTestEngine(oracle, newFakeExecutor(), &fakePrimary{})

	e.UpdateLabel("taken")
	waitUntil(t, func() bool { return !e.Snapshot().Availability.Checking })

	assert.False(t, e.SubmitMint(context.Background()))
	assert.Equal(t, StepStart, e.Snapshot().Step)
}

func TestSubmitMintHappyPath(t *testing.T) {
	exec := newFakeExecutor()
	var (
		mu    sync.Mutex
		steps []Step
	)
	oracle := &staticOracle{available: map[string]bool{"alice": true}}
	e := newTestEngine(oracle, exec, &fakePrimary{}, WithOnChange(func(s State) {
		mu.Lock()
		steps = append(steps, s.Step)
		mu.Unlock()
	}))
	e.UpdateLabel("alice")
	waitUntil(t, func() bool { return e.Snapshot().Availability.Available })

	require.True(t, e.SubmitMint(context.Background()))

	s := e.Snapshot()
	assert.Equal(t, StepAwaitingPrimary, s.Step)
	assert.Equal(t, "0xdeadbeef", s.TxHash)
	assert.Empty(t, s.MintError)

	// The submitted step must have been observable between start and
	// awaiting-primary.
	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, steps, StepSubmitted)

	exec.mu.Lock()
	defer exec.mu.Unlock()
	assert.Equal(t, "alice", exec.lastReq.Label)
	assert.Equal(t, "noun.eth", exec.lastReq.ParentName)
	assert.Equal(t, "0xOwner", exec.lastReq.Owner)
	assert.Equal(t, 1, exec.lastReq.ExpiryYears)
}

func TestSubmitMintAttachesDefaultAvatar(t *testing.T) {
	exec := newFakeExecutor()
	oracle := &staticOracle{available: map[string]bool{"alice": true}}
	listing := testListing()
	listing.DefaultAvatarURI = "ipfs://avatar"
	e := New(listing, "0xOwner", oracle, exec, &fakePrimary{}, WithDebounce(0))

	e.UpdateLabel("alice")
	waitUntil(t, func() bool { return e.Snapshot().Availability.Available })
	require.True(t, e.SubmitMint(context.Background()))

	exec.mu.Lock()
	defer exec.mu.Unlock()
	require.Len(t, exec.lastReq.Texts, 1)
	assert.Equal(t, TextRecord{Key: "avatar", Value: "ipfs://avatar"}, exec.lastReq.Texts[0])
}

func TestSubmitMintBuildFailure(t *testing.T) {
	exec := newFakeExecutor()
	exec.buildErr = fmt.Errorf("quote: %w", ErrInsufficientFunds)
	e := readyEngine(t, exec, &fakePrimary{})

	require.True(t, e.SubmitMint(context.Background()))

	s := e.Snapshot()
	assert.Equal(t, StepStart, s.Step)
	assert.Equal(t, "Insufficient balance", s.MintError)
	assert.Empty(t, s.TxHash)
}

func TestSubmitMintRevertClassified(t *testing.T) {
	exec := newFakeExecutor()
	exec.execErr = errors.New("execution reverted: SUBNAME_RESERVED")
	e := readyEngine(t, exec, &fakePrimary{})

	require.True(t, e.SubmitMint(context.Background()))

	s := e.Snapshot()
	assert.Equal(t, StepStart, s.Step)
	assert.Equal(t, "Subname is reserved", s.MintError)
}

func TestSubmitMintUnknownFailure(t *testing.T) {
	exec := newFakeExecutor()
	exec.execErr = errors.New("boom")
	e := readyEngine(t, exec, &fakePrimary{})

	require.True(t, e.SubmitMint(context.Background()))
	assert.Equal(t, "Unknown error occurred", e.Snapshot().MintError)
}

func TestSubmitMintUserRejectedIsSilent(t *testing.T) {
	exec := newFakeExecutor()
	exec.execErr = fmt.Errorf("signing: %w", ErrUserRejected)
	e := readyEngine(t, exec, &fakePrimary{})
	before := e.Snapshot()

	require.True(t, e.SubmitMint(context.Background()))

	// A rejection aborts without any visible error.
	s := e.Snapshot()
	assert.Equal(t, before, s)
}

func TestSubmitMintConfirmationFailure(t *testing.T) {
	exec := newFakeExecutor()
	exec.confirmErr = errors.New("not mined within 5m0s")
	e := readyEngine(t, exec, &fakePrimary{})

	require.True(t, e.SubmitMint(context.Background()))

	s := e.Snapshot()
	assert.Equal(t, StepStart, s.Step)
	assert.Empty(t, s.TxHash, "hash of a failed mint must not linger")
	assert.Equal(t, "Unknown error occurred", s.MintError)
}

func TestSubmitMintBlocksConcurrentSubmit(t *testing.T) {
	exec := newFakeExecutor()
	exec.execStarted = make(chan struct{})
	exec.execRelease = make(chan struct{})
	e := readyEngine(t, exec, &fakePrimary{})

	done := make(chan bool)
	go func() { done <- e.SubmitMint(context.Background()) }()

	<-exec.execStarted
	assert.False(t, e.SubmitMint(context.Background()), "second submit while one is in flight")

	close(exec.execRelease)
	assert.True(t, <-done)
	assert.Equal(t, StepAwaitingPrimary, e.Snapshot().Step)
}

func TestSubmitMintClearsPreviousError(t *testing.T) {
	exec := newFakeExecutor()
	exec.execErr = errors.New("execution reverted: SUBNAME_TAKEN")
	e := readyEngine(t, exec, &fakePrimary{})

	require.True(t, e.SubmitMint(context.Background()))
	require.Equal(t, "Subname is already taken", e.Snapshot().MintError)

	exec.execErr = nil
	require.True(t, e.SubmitMint(context.Background()))

	s := e.Snapshot()
	assert.Equal(t, StepAwaitingPrimary, s.Step)
	assert.Empty(t, s.MintError)
}

// --- primary name ---

func TestSetPrimaryNameSuccess(t *testing.T) {
	prim := &fakePrimary{}
	e := readyEngine(t, newFakeExecutor(), prim)
	require.True(t, e.SubmitMint(context.Background()))

	require.True(t, e.SetPrimaryName(context.Background()))

	s := e.Snapshot()
	assert.Equal(t, StepComplete, s.Step)
	assert.Equal(t, "Primary name set to alice.noun.eth", s.Notice)

	prim.mu.Lock()
	defer prim.mu.Unlock()
	assert.Equal(t, []string{"alice.noun.eth"}, prim.names)
}

func TestSetPrimaryNameFailureKeepsStep(t *testing.T) {
	prim := &fakePrimary{err: errors.New("registrar unreachable")}
	e := readyEngine(t, newFakeExecutor(), prim)
	require.True(t, e.SubmitMint(context.Background()))

	require.True(t, e.SetPrimaryName(context.Background()))

	s := e.Snapshot()
	assert.Equal(t, StepAwaitingPrimary, s.Step, "failure must allow retry or skip")
	assert.Equal(t, "Could not set primary name: registrar unreachable", s.Notice)

	// Retry after the transient failure clears.
	prim.mu.Lock()
	prim.err = nil
	prim.mu.Unlock()
	require.True(t, e.SetPrimaryName(context.Background()))
	assert.Equal(t, StepComplete, e.Snapshot().Step)
}

func TestSetPrimaryNameWrongStep(t *testing.T) {
	e := readyEngine(t, newFakeExecutor(), &fakePrimary{})
	assert.False(t, e.SetPrimaryName(context.Background()))
}

// --- reset and housekeeping ---

func TestSkipOrFinishFromAwaitingPrimary(t *testing.T) {
	e := readyEngine(t, newFakeExecutor(), &fakePrimary{})
	e.IncExpiryYears()
	e.IncExpiryYears()
	require.True(t, e.SubmitMint(context.Background()))

	require.True(t, e.SkipOrFinish())

	s := e.Snapshot()
	assert.Equal(t, StepStart, s.Step)
	assert.Empty(t, s.Label)
	assert.Empty(t, s.TxHash)
	assert.Equal(t, Availability{}, s.Availability)
	assert.Equal(t, 3, s.ExpiryYears, "duration choice survives the reset")
}

func TestSkipOrFinishFromComplete(t *testing.T) {
	e := readyEngine(t, newFakeExecutor(), &fakePrimary{})
	require.True(t, e.SubmitMint(context.Background()))
	require.True(t, e.SetPrimaryName(context.Background()))

	assert.True(t, e.SkipOrFinish())
	assert.Equal(t, StepStart, e.Snapshot().Step)
}

func TestSkipOrFinishWrongStep(t *testing.T) {
	e := newTestEngine(&staticOracle{}, newFakeExecutor(), &fakePrimary{})
	assert.False(t, e.SkipOrFinish())
}

func TestDismissError(t *testing.T) {
	exec := newFakeExecutor()
	exec.execErr = errors.New("execution reverted: LISTING_EXPIRED")
	e := readyEngine(t, exec, &fakePrimary{})
	require.True(t, e.SubmitMint(context.Background()))
	require.Equal(t, "Listing has expired", e.Snapshot().MintError)

	assert.True(t, e.DismissError())
	assert.Empty(t, e.Snapshot().MintError)

	// Nothing left to dismiss.
	assert.False(t, e.DismissError())
}

func TestClearNotice(t *testing.T) {
	e := readyEngine(t, newFakeExecutor(), &fakePrimary{})
	require.True(t, e.SubmitMint(context.Background()))
	require.True(t, e.SetPrimaryName(context.Background()))
	require.NotEmpty(t, e.Snapshot().Notice)

	e.ClearNotice()
	assert.Empty(t, e.Snapshot().Notice)
}

func TestExpiryYearsBounds(t *testing.T) {
	e := newTestEngine(&staticOracle{}, newFakeExecutor(), &fakePrimary{})

	e.DecExpiryYears()
	assert.Equal(t, 1, e.Snapshot().ExpiryYears, "floored at one year")

	e.IncExpiryYears()
	e.IncExpiryYears()
	assert.Equal(t, 3, e.Snapshot().ExpiryYears)

	e.DecExpiryYears()
	assert.Equal(t, 2, e.Snapshot().ExpiryYears)
}

func TestExpiryYearsFrozenAfterStart(t *testing.T) {
	e := readyEngine(t, newFakeExecutor(), &fakePrimary{})
	require.True(t, e.SubmitMint(context.Background()))

	e.IncExpiryYears()
	e.DecExpiryYears()
	assert.Equal(t, 1, e.Snapshot().ExpiryYears)
}

func TestOnChangeReceivesSnapshots(t *testing.T) {
	var (
		mu     sync.Mutex
		states []State
	)
	oracle := &staticOracle{available: map[string]bool{"alice": true}}
	e := newTestEngine(oracle, newFakeExecutor(), &fakePrimary{},
		WithOnChange(func(s State) {
			mu.Lock()
			states = append(states, s)
			mu.Unlock()
		}))

	e.UpdateLabel("alice")
	waitUntil(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(states) >= 2
	})

	mu.Lock()
	defer mu.Unlock()
	assert.True(t, states[0].Availability.Checking)
	assert.True(t, states[len(states)-1].Availability.Available)
}
