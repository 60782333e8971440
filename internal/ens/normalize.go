package ens

import (
	"errors"
	"strings"

	"golang.org/x/net/idna"
)

// Errors returned by NormalizeLabel.
var (
	ErrLabelSeparator = errors.New("label must not contain a separator")
	ErrLabelInvalid   = errors.New("label failed normalization")
)

// labelProfile is a UTS-46 lookup profile: case-folds, maps compatibility
// characters and rejects disallowed code points, without the length limits
// that DNS registration profiles impose (ENS labels are not DNS labels).
var labelProfile = idna.New(
	idna.MapForLookup(),
	idna.StrictDomainName(false),
	idna.Transitional(false),
)

// NormalizeLabel canonicalizes a single subname label the way ENS clients
// normalize names before hashing. The empty string is valid (an empty
// input field). A label containing "." or failing UTS-46 processing is
// rejected.
func NormalizeLabel(label string) (string, error) {
	if label == "" {
		return "", nil
	}
	if strings.Contains(label, ".") {
		return "", ErrLabelSeparator
	}
	out, err := labelProfile.ToUnicode(label)
	if err != nil {
		return "", errors.Join(ErrLabelInvalid, err)
	}
	if out == "" || strings.ContainsAny(out, ". \t\n") {
		return "", ErrLabelInvalid
	}
	return out, nil
}
