package patient

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	require.Equal(t, "Anna Maria", NormalizeName("  Anna   Maria "))
	require.Equal(t, "", NormalizeName("   "))
	// NFC: "e" followed by a combining acute composes to a single rune.
	require.Equal(t, "é", NormalizeName("é"))
}

func TestSameIdentity(t *testing.T) {
	p := New("Anna", "Nowak", time.Date(1990, 5, 12, 0, 0, 0, 0, time.UTC))

	require.True(t, p.SameIdentity("anna", "NOWAK", time.Date(1990, 5, 12, 0, 0, 0, 0, time.UTC)))
	require.True(t, p.SameIdentity("Anna", "Nowak", time.Date(1990, 5, 12, 10, 30, 0, 0, time.UTC)),
		"birth dates compare by calendar day")
	require.False(t, p.SameIdentity("Anna", "Kowalska", time.Date(1990, 5, 12, 0, 0, 0, 0, time.UTC)))
}

func TestCreateDTO_Ok(t *testing.T) {
	dto := &CreateDTO{FirstName: "  Anna ", LastName: "Nowak", DateOfBirth: "1990-05-12"}
	errs, ok := dto.Ok()
	require.True(t, ok, "unexpected errors: %v", errs)
	require.Equal(t, "Anna", dto.FirstName)

	dto = &CreateDTO{FirstName: "", LastName: "Nowak", DateOfBirth: "1990-05-12"}
	errs, ok = dto.Ok()
	require.False(t, ok)
	require.Contains(t, errs, "FirstName")

	dto = &CreateDTO{FirstName: "Anna", LastName: "Nowak", DateOfBirth: "12.05.1990"}
	errs, ok = dto.Ok()
	require.False(t, ok)
	require.Contains(t, errs, "DateOfBirth")
}

func TestCreateDTO_DateOfBirthRange(t *testing.T) {
	future := time.Now().UTC().AddDate(1, 0, 0).Format("2006-01-02")
	dto := &CreateDTO{FirstName: "Anna", LastName: "Nowak", DateOfBirth: future}
	errs, ok := dto.Ok()
	require.False(t, ok)
	require.Contains(t, errs, "DateOfBirth")

	dto = &CreateDTO{FirstName: "Anna", LastName: "Nowak", DateOfBirth: "1850-01-01"}
	errs, ok = dto.Ok()
	require.False(t, ok)
	require.Contains(t, errs, "DateOfBirth")
}
