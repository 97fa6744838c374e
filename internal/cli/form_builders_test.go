package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trygginn/trygginn/internal/domain"
)

func TestParseDate(t *testing.T) {
	want := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)
	for _, in := range []string{"2025-03-10", "10.3.2025", " 2025-03-10 ", "March 10, 2025"} {
		got, err := parseDate(in)
		require.NoError(t, err, in)
		require.NotNil(t, got, in)
		assert.True(t, want.Equal(*got), "%q parsed as %s", in, got)
	}

	got, err := parseDate("  ")
	require.NoError(t, err)
	assert.Nil(t, got, "blank means no date")

	_, err = parseDate("snart")
	assert.EqualError(t, err, `ugyldig dato "snart"`)
}

func TestParseDateTime(t *testing.T) {
	want := time.Date(2025, 3, 14, 10, 0, 0, 0, time.Local)
	for _, in := range []string{"2025-03-14 10:00", "14.3.2025 10:00"} {
		got, err := parseDateTime(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(*got), in)
	}

	_, err := parseDateTime("kl ti")
	assert.Error(t, err)
}

func TestValidators(t *testing.T) {
	assert.NoError(t, validateEmail("kari@example.no"))
	assert.EqualError(t, validateEmail(" "), "e-post må fylles ut")
	assert.EqualError(t, validateEmail("kari"), "ugyldig e-postadresse")

	assert.EqualError(t, validateRequired("Navn")(""), "Navn må fylles ut")
	assert.NoError(t, validateRequired("Navn")("Kari"))

	assert.NoError(t, validateOptionalCount(""))
	assert.NoError(t, validateOptionalCount("5"))
	assert.Error(t, validateOptionalCount("-1"))
	assert.Error(t, validateOptionalCount("fem"))
}

func TestCheckInInput_Form(t *testing.T) {
	in := checkInInput{
		option:      "holiday",
		holidayFrom: "2025-07-01",
		holidayTo:   "14.7.2025",
		holidayNote: "  Hytta ",
		pickupNote:  "Bestemor",
	}
	form := in.form()
	require.NotNil(t, form.HolidayFrom)
	require.NotNil(t, form.HolidayTo)
	assert.Equal(t, 14, form.HolidayTo.Day())
	assert.Equal(t, "Hytta", form.HolidayNote)
	assert.Nil(t, form.PickupDate, "no day to fall back on")
	assert.Nil(t, form.AbsenceDate)
}

func TestCheckInInput_BlankPickupDateIsToday(t *testing.T) {
	in := checkInInput{option: "present", pickupNote: " Bestemor ", today: testNow}

	form := in.form()
	require.NotNil(t, form.PickupDate)
	assert.True(t, domain.SameDay(testNow, *form.PickupDate))
	assert.Equal(t, 0, form.PickupDate.Hour())
	assert.Equal(t, "Bestemor", form.PickupNote)

	in.pickupNote = ""
	assert.Nil(t, in.form().PickupDate, "no note, no plan")

	in.pickupNote, in.pickupDate = "Morfar", "2025-03-12"
	assert.Equal(t, 12, in.form().PickupDate.Day())
}
