package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	for _, tt := range []struct {
		input    string
		expected string
	}{
		{"  Stekt   fisk\n\tmed remouladsås ", "Stekt fisk med remouladsås"},
		// non-breaking spaces become plain ones so "N kr" amounts keep
		// their word boundaries
		{"Lunchbuffé 125 kr", "Lunchbuffé 125 kr"},
		{"Tidig lunch 10-11 109 kr", "Tidig lunch 10-11 109 kr"},
		{"Pannbiff", "Pannbiff"},
		{"", ""},
	} {
		require.Equal(t, tt.expected, CleanText(tt.input))
	}
}

func TestNormalizeName(t *testing.T) {
	require.Equal(t, "takeaway", NormalizeName(" Take Away\n"))
	require.Equal(t, "lunchbuffé", NormalizeName("Lunchbuffé"))
	require.Equal(t, "10-11", NormalizeName("10 - 11"))
}

func TestMatchName(t *testing.T) {
	matchers := []string{"pensionär"}
	require.True(t, MatchName("Pensionärspris 110 kr", matchers))
	require.True(t, MatchName("PENSIONÄR", matchers))
	require.False(t, MatchName("Lunchbuffé 125 kr", matchers))
}
