package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDates(t *testing.T) {
	d := time.Date(2024, time.March, 2, 23, 10, 0, 0, time.UTC)
	assert.Equal(t, "2 March 2024", ReturnFormDate(d))
	assert.Equal(t, "2024-03-02", FilterDate(d, "-"))
	assert.Equal(t, "2024/03/02", FilterDate(d, "/"))
	assert.Equal(t, "2024-03-02 23:10:00", DateTime(d))
}

func TestDiffDays(t *testing.T) {
	a := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 9, DiffDays(a, a.AddDate(0, 0, -9)))
	assert.Equal(t, 0, DiffDays(a, a.Add(-23*time.Hour)))
	assert.Equal(t, -1, DiffDays(a, a.Add(time.Hour)))
}

func TestMoney(t *testing.T) {
	got := Money(1234, "usd")
	assert.Contains(t, got, "USD")
	assert.Contains(t, got, "12.34")

	assert.Equal(t, "12.34", Money(1234, "??"))
}
