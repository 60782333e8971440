package records

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsKnownKey(t *testing.T) {
	assert.True(t, IsKnownKey("avatar"))
	assert.True(t, IsKnownKey("com.twitter"))
	assert.True(t, IsKnownKey("org.telegram"))
	assert.False(t, IsKnownKey("com.myspace"))
	assert.False(t, IsKnownKey(""))
}

func TestKnownTextsSocialSplit(t *testing.T) {
	socials := 0
	for _, kt := range KnownTexts {
		assert.NotEmpty(t, kt.Key)
		assert.NotEmpty(t, kt.Label)
		if kt.Social {
			socials++
		}
	}
	assert.Equal(t, 4, socials)
}

func TestDiffNoChanges(t *testing.T) {
	current := map[string]string{"avatar": "ipfs://x", "url": "https://a"}
	desired := map[string]string{"avatar": "ipfs://x", "url": "https://a"}
	assert.Empty(t, Diff(current, desired))
}

func TestDiffChangedValue(t *testing.T) {
	current := map[string]string{"avatar": "ipfs://old"}
	desired := map[string]string{"avatar": "ipfs://new"}
	assert.Equal(t, map[string]string{"avatar": "ipfs://new"}, Diff(current, desired))
}

func TestDiffNewKey(t *testing.T) {
	current := map[string]string{}
	desired := map[string]string{"url": "https://a"}
	assert.Equal(t, map[string]string{"url": "https://a"}, Diff(current, desired))
}

func TestDiffClearExistingKey(t *testing.T) {
	// Emptying a set record is a real change: the resolver must write "".
	current := map[string]string{"url": "https://a"}
	desired := map[string]string{"url": ""}
	assert.Equal(t, map[string]string{"url": ""}, Diff(current, desired))
}

func TestDiffSkipsEmptyForUnsetKey(t *testing.T) {
	// Writing "" over a record that never existed is a no-op.
	current := map[string]string{}
	desired := map[string]string{"url": ""}
	assert.Empty(t, Diff(current, desired))
}

func TestDiffIgnoresKeysMissingFromDesired(t *testing.T) {
	// Only desired keys are considered; others are left alone.
	current := map[string]string{"avatar": "ipfs://x"}
	desired := map[string]string{"url": "https://a"}
	assert.Equal(t, map[string]string{"url": "https://a"}, Diff(current, desired))
}
