package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"punctuated", "123.456.789-09", "12345678909"},
		{"spaces", " 123 456 789 09 ", "12345678909"},
		{"short", "42", "00000000042"},
		{"empty", "", "00000000000"},
		{"non numeric", "abc-def", "00000000000"},
		{"already clean", "98765432100", "98765432100"},
		{"overlong kept as is", "123456789012", "123456789012"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.in))
		})
	}
}

func TestNormalizeAlwaysAtLeastElevenChars(t *testing.T) {
	for _, in := range []string{"", "1", "99", "abc", "123.456", "12345678909"} {
		assert.GreaterOrEqual(t, len(Normalize(in)), Width, "input %q", in)
	}
}

func TestLastDigits(t *testing.T) {
	assert.Equal(t, "8909", LastDigits("123.456.789-09", 4))
	assert.Equal(t, "0042", LastDigits("42", 4))
	assert.Equal(t, "00000000000", LastDigits("", 99))
}

func TestKeyDeterministic(t *testing.T) {
	h := NewHasher("pepper")
	first := h.Key("123.456.789-09")
	assert.Equal(t, first, h.Key("12345678909"), "same cleaned value must hash identically")
	assert.Len(t, first, 64)
}

func TestKeySaltSensitive(t *testing.T) {
	assert.NotEqual(t, NewHasher("a").Key("12345678909"), NewHasher("b").Key("12345678909"))
}

func TestKeyCollapsesNonNumericInput(t *testing.T) {
	h := NewHasher("salt")
	assert.Equal(t, h.Key(""), h.Key("..."), "all non-digit inputs collapse to the zero key")
}
