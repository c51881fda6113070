package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "centro", "centro"},
		{"accents and trailing space", "Médellín ", "medellin"},
		{"mixed case", "BOGOTA Norte", "bogota norte"},
		{"collapses whitespace", "  San   José \t Sur ", "san jose sur"},
		{"tilde", "Peñalosa", "penalosa"},
		{"only spaces", "   ", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Key(tc.in))
		})
	}
}

func TestKeyIdempotent(t *testing.T) {
	inputs := []string{"Médellín ", "  CALI  centro ", "Bodega Principal", "ñÑ"}
	for _, in := range inputs {
		once := Key(in)
		assert.Equal(t, once, Key(once), "Key must be idempotent for %q", in)
	}
}

func TestKeyAccentCaseInsensitive(t *testing.T) {
	assert.Equal(t, Key("medellin"), Key("Médellín "))
	assert.Equal(t, Key("JOSÉ maría"), Key("jose  MARIA"))
}

func TestCode(t *testing.T) {
	assert.Equal(t, "JGL-001", Code(" jgl-001 "))
	assert.Equal(t, "", Code("  "))
}
