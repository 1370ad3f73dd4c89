package sip2

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFixedFieldPad(t *testing.T) {
	require := require.New(t)

	tests := []struct {
		name  string
		field FixedField
		value string
		want  string
	}{
		{
			name:  "right pad with spaces",
			field: FixedField{Length: 4},
			value: "ab",
			want:  "ab  ",
		},
		{
			name:  "left pad with zeros",
			field: FixedField{Length: 4, Fill: '0', PadLeft: true},
			value: "7",
			want:  "0007",
		},
		{
			name:  "truncate overlong value",
			field: FixedField{Length: 3},
			value: "abcdef",
			want:  "abc",
		},
		{
			name:  "exact fit",
			field: FixedField{Length: 3},
			value: "abc",
			want:  "abc",
		},
		{
			name:  "empty value",
			field: FixedField{Length: 2, Fill: '0', PadLeft: true},
			value: "",
			want:  "00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(tt.want, tt.field.pad(tt.value))
		})
	}
}

func TestVarFieldPad(t *testing.T) {
	require := require.New(t)

	unbounded := VarField{}
	require.Equal("anything goes", unbounded.pad("anything goes"))

	bounded := VarField{Length: 4}
	require.Equal("ab  ", bounded.pad("ab"))
	require.Equal("abcd", bounded.pad("abcdef"))
}

func TestRegistryLookups(t *testing.T) {
	require := require.New(t)

	registry := DefaultRegistry()

	f, err := registry.Fixed("transaction_date")
	require.NoError(err)
	require.Equal(18, f.Length)

	v, err := registry.Var("patron_id")
	require.NoError(err)
	require.Equal("AA", v.Tag)

	byTag, err := registry.VarByTag("AA")
	require.NoError(err)
	require.Equal(v, byTag)

	_, err = registry.Fixed("no_such_field")
	require.ErrorIs(err, ErrUnknownField)

	_, err = registry.VarByTag("!!")
	require.ErrorIs(err, ErrUnknownField)
}

func TestRegistryDuplicateTag(t *testing.T) {
	require := require.New(t)

	_, err := NewRegistry(nil, []*VarField{
		{Name: "a", Tag: "AA"},
		{Name: "b", Tag: "AA"},
	})
	require.ErrorIs(err, ErrDuplicateFieldTag)
}

func TestTransforms(t *testing.T) {
	require := require.New(t)

	t.Run("yes/no", func(t *testing.T) {
		require.Equal("Y", YesNo(true))
		require.Equal("N", YesNo(false))
		require.Equal("U", YesNo("U"))
		require.Equal("N", YesNo(nil))
	})

	t.Run("one/zero", func(t *testing.T) {
		require.Equal("1", OneZero(true))
		require.Equal("0", OneZero(false))
		require.Equal("0", OneZero(nil))
	})

	t.Run("sip date", func(t *testing.T) {
		when := time.Date(2023, 10, 10, 12, 0, 5, 0, time.UTC)
		require.Equal("20231010    120005", SIPDate(when))
		require.Equal("20231010    120005", SIPDate("20231010    120005"))
	})

	t.Run("language code", func(t *testing.T) {
		require.Equal("001", LanguageCode("eng"))
		require.Equal("002", LanguageCode("fre"))
		require.Equal("123", LanguageCode("123"))
		require.Equal(LanguageUnknown, LanguageCode("klingon"))
		require.Equal(LanguageUnknown, LanguageCode(nil))
	})
}

func TestPatronStatus(t *testing.T) {
	require := require.New(t)

	var status PatronStatus
	require.Equal("              ", status.String())
	require.Len(status.String(), 14)

	status.Set(ChargePrivilegesDenied)
	status.Set(CardReportedLost)
	require.True(status.Has(ChargePrivilegesDenied))
	require.True(status.Has(CardReportedLost))
	require.False(status.Has(HoldPrivilegesDenied))
	require.Equal("Y   Y         ", status.String())
}

func TestCodeResolvers(t *testing.T) {
	require := require.New(t)

	require.Equal("03", CirculationStatus("available"))
	require.Equal("04", CirculationStatus("charged"))
	require.Equal("07", CirculationStatus("07"))
	require.Equal(CirculationStatusOther, CirculationStatus("who knows"))

	require.Equal("02", SecurityMarker("tattle_tape", "00"))
	require.Equal("01", SecurityMarker("none", "00"))
	require.Equal("00", SecurityMarker("", "00"))
	require.Equal("03", SecurityMarker("03", "00"))

	require.Equal("001", MediaType("book"))
	require.Equal("010", MediaType("010"))
	require.Equal(MediaTypeOther, MediaType("papyrus"))
}
