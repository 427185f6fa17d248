package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePhone(t *testing.T) {
	tests := []struct {
		phone string
		valid bool
	}{
		{"+628111111111", true},
		{"+62 811-1111-111", true},
		{"(0811) 1111 111", true},
		{"08111111111", true},
		{"0012345", false},
		{"8111111111", true},
		{"+0123", false},
		{"call me", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.valid, ValidatePhone(tt.phone), tt.phone)
	}
	assert.Equal(t, "+628111111111", NormalizePhone(" +62 (811) 1111-111 "))
}

func TestNormalizeLocalPhone(t *testing.T) {
	assert.Equal(t, "+6281234567890", NormalizePhone("0812-3456-7890"))
	assert.Equal(t, "8111111111", NormalizePhone("8111111111"))

	SetPhoneCountryCode("+60")
	assert.Equal(t, "+60123456789", NormalizePhone("012-345 6789"))

	SetPhoneCountryCode("")
	assert.Equal(t, "08111111111", NormalizePhone("0811 1111 111"))
	assert.False(t, ValidatePhone("0811 1111 111"))

	SetPhoneCountryCode("62")
}

func TestParseDates(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("2024-02-30")
	assert.Error(t, err)

	m, err := ParseMonth("2024-03")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), m)

	jakarta := time.FixedZone("WIB", 7*3600)
	late := time.Date(2024, 3, 15, 23, 30, 0, 0, jakarta)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), CalendarDate(late))
}
