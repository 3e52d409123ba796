package textnorm

import (
	"strings"
	"unicode"
)

// DescriptionKeyLen is how many characters of a description participate in
// the duplicate-identity tuple. Longer descriptions are compared only up to
// this prefix.
const DescriptionKeyLen = 50

// TruncateDescription returns the description prefix used for dedup keys.
// Truncation counts runes, matching the character semantics of the
// storage-level duplicate-identity index.
func TruncateDescription(desc string) string {
	runes := []rune(desc)
	if len(runes) <= DescriptionKeyLen {
		return desc
	}
	return string(runes[:DescriptionKeyLen])
}

// NormalizeEntity lower-cases a store/person name and strips punctuation and
// whitespace so near-identical spellings collapse to one consistency group.
func NormalizeEntity(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// PersonFromUPI extracts the person identity from a UPI-style payment handle
// by discarding the bank-suffix after the last '@'. Returns an empty string
// when the handle has no usable local part.
func PersonFromUPI(handle string) string {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return ""
	}
	at := strings.LastIndex(handle, "@")
	if at <= 0 {
		return ""
	}
	return handle[:at]
}

// IdentityKey builds the normalized entity identity for a transaction:
// store name first, then the person extracted from the UPI handle, then the
// raw handle itself. Empty when no entity information exists.
func IdentityKey(store, personName, upiID string) string {
	if key := NormalizeEntity(store); key != "" {
		return key
	}
	if person := PersonFromUPI(upiID); person != "" {
		if key := NormalizeEntity(person); key != "" {
			return key
		}
	}
	if key := NormalizeEntity(personName); key != "" {
		return key
	}
	return NormalizeEntity(upiID)
}
