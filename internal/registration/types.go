package registration

import (
	"context"
	"math/big"
)

// Step is the wizard's position in the registration flow.
type Step int

const (
	StepStart Step = iota
	StepSubmitted
	StepAwaitingPrimary
	StepComplete
)

// String returns the step name.
func (s Step) String() string {
	switch s {
	case StepStart:
		return "start"
	case StepSubmitted:
		return "submitted"
	case StepAwaitingPrimary:
		return "awaiting-primary"
	case StepComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Availability reports the result of the latest label availability check.
// A fresh check always resets Available to false before resolving.
type Availability struct {
	Checking  bool
	Available bool
}

// State is a snapshot of the wizard. It is mutated only by the engine's
// transition methods.
type State struct {
	Step         Step
	Label        string
	Availability Availability
	MintError    string
	TxHash       string
	ExpiryYears  int
	Notice       string // transient, e.g. primary-name outcome
}

// Listing describes what is being minted: the parent domain, the chain it is
// listed on, and the economic model. Immutable once the engine is built.
type Listing struct {
	ParentName       string
	ChainID          int64
	Rental           bool // time-limited rental vs permanent ownership
	Testnet          bool
	DefaultAvatarURI string
}

// TextRecord is a single text record set at mint time.
type TextRecord struct {
	Key   string
	Value string
}

// MintRequest carries everything needed to build mint parameters.
type MintRequest struct {
	Label       string
	ParentName  string
	Owner       string
	ExpiryYears int
	Texts       []TextRecord
}

// MintParams is a prepared, ready-to-sign mint transaction.
type MintParams struct {
	Request  MintRequest
	To       string // mint controller address
	Calldata []byte
	Value    *big.Int // mint fee in wei, zero for free mints
}

// AvailabilityOracle reports whether a label can still be minted under the
// configured parent name.
type AvailabilityOracle interface {
	CheckAvailable(ctx context.Context, label string) (bool, error)
}

// MintExecutor is the three-phase mint contract: parameter building is
// separated from execution so the UI can show a distinct "waiting for
// wallet" phase, and confirmation is separated from submission so the tx
// hash is observable while the chain catches up.
type MintExecutor interface {
	BuildParameters(ctx context.Context, req MintRequest) (*MintParams, error)
	Execute(ctx context.Context, params *MintParams) (string, error)
	AwaitConfirmation(ctx context.Context, txHash string) error
}

// PrimaryNameSetter submits a reverse-registrar setName transaction and
// blocks until it is final (two confirmations).
type PrimaryNameSetter interface {
	SetPrimaryName(ctx context.Context, fullName string) (string, error)
}
