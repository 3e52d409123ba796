package textnorm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateDescription(t *testing.T) {
	short := "UPI payment"
	assert.Equal(t, short, TruncateDescription(short))

	exact := strings.Repeat("a", DescriptionKeyLen)
	assert.Equal(t, exact, TruncateDescription(exact))

	long := strings.Repeat("a", DescriptionKeyLen) + "tail"
	assert.Equal(t, exact, TruncateDescription(long))
}

func TestTruncateDescription_CountsRunes(t *testing.T) {
	// 50 multibyte runes exceed 50 bytes but stay within the key length.
	fifty := strings.Repeat("é", DescriptionKeyLen)
	assert.Equal(t, fifty, TruncateDescription(fifty))

	// The 50th rune survives truncation intact, never split mid-encoding.
	assert.Equal(t, fifty, TruncateDescription(fifty+"tail"))

	mixed := strings.Repeat("a", DescriptionKeyLen-1) + "é" + "tail"
	assert.Equal(t, strings.Repeat("a", DescriptionKeyLen-1)+"é", TruncateDescription(mixed))
}

func TestNormalizeEntity(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Amazon", "amazon"},
		{"  AMAZON  ", "amazon"},
		{"Amazon.in Pvt. Ltd", "amazoninpvtltd"},
		{"D-Mart #42", "dmart42"},
		{"---", ""},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeEntity(tc.in), "input %q", tc.in)
	}
}

func TestPersonFromUPI(t *testing.T) {
	assert.Equal(t, "ravi.kumar", PersonFromUPI("ravi.kumar@okhdfc"))
	// Last '@' wins for handles with one embedded.
	assert.Equal(t, "shop@city", PersonFromUPI("shop@city@ybl"))
	assert.Equal(t, "", PersonFromUPI("@okhdfc"))
	assert.Equal(t, "", PersonFromUPI("nohandle"))
	assert.Equal(t, "", PersonFromUPI("  "))
}

func TestIdentityKey_Priority(t *testing.T) {
	// Store wins over everything.
	assert.Equal(t, "amazon", IdentityKey("Amazon", "Ravi Kumar", "ravi@okhdfc"))

	// Without a store, UPI local part beats the person name.
	assert.Equal(t, "ravi", IdentityKey("", "Ravi Kumar", "ravi@okhdfc"))

	// Person name when the UPI handle has no local part.
	assert.Equal(t, "ravikumar", IdentityKey("", "Ravi Kumar", "@okhdfc"))

	// Raw handle as the last resort.
	assert.Equal(t, "merchant12345", IdentityKey("", "", "merchant12345"))

	assert.Equal(t, "", IdentityKey("", "", ""))
}
