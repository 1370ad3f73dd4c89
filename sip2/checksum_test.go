package sip2

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeChecksum(t *testing.T) {
	require := require.New(t)

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "login request",
			text: "9300CNlibrarian@test.com|CO123456|CPselfcheck_location|AY1AZ",
			want: "EAEE",
		},
		{
			name: "sc status request",
			text: "9900802.00AY1AZ",
			want: "FCA0",
		},
		{
			name: "request sc resend",
			text: "96AZ",
			want: "FEF6",
		},
		{
			name: "login response",
			text: "941AY1AZ",
			want: "FDFC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(tt.want, ComputeChecksum(tt.text))
		})
	}
}

func TestHasChecksumTrailer(t *testing.T) {
	require := require.New(t)

	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{name: "login with trailer", raw: "941AY1AZFDFC", want: true},
		{name: "resend request", raw: "96AZFEF6", want: true},
		{name: "corrupted digits still count as a trailer", raw: "941AY1AZ0000", want: true},
		{name: "no trailer at all", raw: "9300CNselfcheck|COselfcheck|", want: false},
		{name: "non-hex tail", raw: "9900802.00AY1AZZZZZ", want: false},
		{name: "too short", raw: "AZ12", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(tt.want, HasChecksumTrailer(tt.raw), tt.raw)
		})
	}
}

func TestVerifyChecksum(t *testing.T) {
	require := require.New(t)

	t.Run("valid messages", func(t *testing.T) {
		valid := []string{
			"9300CNlibrarian@test.com|CO123456|CPselfcheck_location|AY1AZEAEE",
			"9900802.00AY1AZFCA0",
			"97AZFEF5",
		}
		for _, raw := range valid {
			require.True(VerifyChecksum(raw), raw)
		}
	})

	t.Run("corrupted checksum digits", func(t *testing.T) {
		require.False(VerifyChecksum("9900802.00AY1AZFCA1"))
	})

	t.Run("corrupted body", func(t *testing.T) {
		require.False(VerifyChecksum("9901802.00AY1AZFCA0"))
	})

	t.Run("non-hex checksum", func(t *testing.T) {
		require.False(VerifyChecksum("9900802.00AY1AZZZZZ"))
	})

	t.Run("too short", func(t *testing.T) {
		require.False(VerifyChecksum("AZFCA0"))
		// a bare resend request is the only message allowed at 8 characters
		require.True(VerifyChecksum("97AZFEF5"))
		require.False(VerifyChecksum("99AZFCA0"))
	})
}
