package registration

import (
	"errors"
	"strings"
)

// Sentinel errors collaborators may return. Execute implementations should
// wrap these so errors.Is works; raw revert strings are matched as a fallback.
var (
	ErrUserRejected      = errors.New("user rejected signing")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Kind categorizes a failed mint attempt.
type Kind int

const (
	KindUnknown Kind = iota
	KindUserRejected
	KindInsufficientFunds
	KindNameTaken
	KindNameReserved
	KindNotWhitelisted
	KindNotTokenOwner
	KindVerificationRequired
	KindListingExpired
)

// Message returns the user-facing text for the kind.
func (k Kind) Message() string {
	switch k {
	case KindInsufficientFunds:
		return "Insufficient balance"
	case KindNameTaken:
		return "Subname is already taken"
	case KindNameReserved:
		return "Subname is reserved"
	case KindNotWhitelisted:
		return "You are not whitelisted"
	case KindNotTokenOwner:
		return "You don't have enough tokens for minting"
	case KindVerificationRequired:
		return "Verification required"
	case KindListingExpired:
		return "Listing has expired"
	case KindUserRejected:
		return ""
	default:
		return "Unknown error occurred"
	}
}

// Classifier maps failure causes to Kinds via a replaceable table of
// revert-reason substrings.
type Classifier struct {
	rules []rule
}

type rule struct {
	substr string
	kind   Kind
}

// DefaultClassifier returns the classifier for the known mint-controller
// revert reasons plus common node error strings.
func DefaultClassifier() *Classifier {
	return &Classifier{rules: []rule{
		{"SUBNAME_TAKEN", KindNameTaken},
		{"SUBNAME_RESERVED", KindNameReserved},
		{"MINTER_NOT_WHITELISTED", KindNotWhitelisted},
		{"MINTER_NOT_TOKEN_OWNER", KindNotTokenOwner},
		{"VERIFIED_MINTER_ADDRESS_REQUIRED", KindVerificationRequired},
		{"LISTING_EXPIRED", KindListingExpired},
		{"denied transaction signatur", KindUserRejected},
		{"insufficient funds for", KindInsufficientFunds},
	}}
}

// WithRule returns a copy of the classifier with an extra substring rule.
func (c *Classifier) WithRule(substr string, kind Kind) *Classifier {
	out := &Classifier{rules: make([]rule, len(c.rules), len(c.rules)+1)}
	copy(out.rules, c.rules)
	out.rules = append(out.rules, rule{substr, kind})
	return out
}

// Classify determines the Kind of err. Sentinels take precedence over
// substring matching.
func (c *Classifier) Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	if errors.Is(err, ErrUserRejected) {
		return KindUserRejected
	}
	if errors.Is(err, ErrInsufficientFunds) {
		return KindInsufficientFunds
	}
	msg := err.Error()
	for _, r := range c.rules {
		if strings.Contains(msg, r.substr) {
			return r.kind
		}
	}
	return KindUnknown
}
