// Package records manages text records on minted subnames.
package records

// KnownText describes a text record key the UI knows how to present.
type KnownText struct {
	Key         string
	Label       string
	Social      bool
	Placeholder string
}

// KnownTexts is the set of record keys shown by default, in display order.
var KnownTexts = []KnownText{
	{Key: "name", Label: "Nickname", Placeholder: "ex. John Wick"},
	{Key: "avatar", Label: "Avatar", Placeholder: "your avatar url"},
	{Key: "url", Label: "Website", Placeholder: "ex. https://example.org"},
	{Key: "description", Label: "Short Bio", Placeholder: "ex. I mint names"},
	{Key: "mail", Label: "Email", Placeholder: "ex. me@example.org"},
	{Key: "location", Label: "Location", Placeholder: "ex. Japan/Tokyo"},
	{Key: "com.twitter", Label: "Twitter", Social: true, Placeholder: "ex. johndoe"},
	{Key: "com.github", Label: "Github", Social: true, Placeholder: "ex. johndoe"},
	{Key: "com.discord", Label: "Discord", Social: true, Placeholder: "ex. johndoe"},
	{Key: "org.telegram", Label: "Telegram", Social: true, Placeholder: "ex. @johndoe"},
}

// IsKnownKey reports whether key is one of the known record keys.
func IsKnownKey(key string) bool {
	for _, t := range KnownTexts {
		if t.Key == key {
			return true
		}
	}
	return false
}

// Diff returns the records in desired that differ from current — the set a
// resolver update must write. Empty desired values for keys absent from
// current are skipped.
func Diff(current, desired map[string]string) map[string]string {
	out := make(map[string]string)
	for key, value := range desired {
		existing, has := current[key]
		if has && existing == value {
			continue
		}
		if !has && value == "" {
			continue
		}
		out[key] = value
	}
	return out
}
