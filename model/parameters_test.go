package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnumerateParameters_RespectsProductStartDates(t *testing.T) {
	now := time.Date(2019, time.June, 15, 0, 0, 0, 0, time.UTC)
	for _, combo := range EnumerateParameters(now) {
		switch combo.Product.ID {
		case "MOD11A2.006":
			assert.False(t, combo.Year == 2000 && combo.Month < 3,
				"Terra combination before March 2000: %v", combo)
		case "MYD11A2.006":
			assert.False(t, combo.Year < 2002, "Aqua combination before 2002: %v", combo)
			assert.False(t, combo.Year == 2002 && combo.Month < 7,
				"Aqua combination before July 2002: %v", combo)
		default:
			t.Fatalf("unexpected product %v", combo.Product.ID)
		}
	}
}

func TestEnumerateParameters_ExcludesCurrentAndFutureMonths(t *testing.T) {
	now := time.Date(2019, time.June, 15, 0, 0, 0, 0, time.UTC)
	for _, combo := range EnumerateParameters(now) {
		assert.True(t, combo.Year <= 2019, "combination in a future year: %v", combo)
		if combo.Year == 2019 {
			assert.True(t, combo.Month < 6, "combination at or after the current month: %v", combo)
		}
	}
}

func TestEnumerateParameters_UsesActualCurrentYear(t *testing.T) {
	// The exclusion window must track the provided clock, not a fixed year
	earlier := EnumerateParameters(time.Date(2018, time.March, 1, 0, 0, 0, 0, time.UTC))
	later := EnumerateParameters(time.Date(2020, time.March, 1, 0, 0, 0, 0, time.UTC))
	assert.Greater(t, len(later), len(earlier))
	for _, combo := range earlier {
		assert.False(t, combo.Year == 2018 && combo.Month >= 3, "stale window: %v", combo)
	}
}

func TestEnumerateParameters_Deterministic(t *testing.T) {
	now := time.Date(2019, time.June, 15, 0, 0, 0, 0, time.UTC)
	first := EnumerateParameters(now)
	second := EnumerateParameters(now)
	assert.Equal(t, first, second)
}

func TestEnumerateParameters_BothSelectorsPresent(t *testing.T) {
	now := time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)
	combos := EnumerateParameters(now)
	// March-December 2000, Terra only, day and night
	assert.Len(t, combos, 10*2)
	assert.Equal(t, Day, combos[0].DayNight)
	assert.Equal(t, Night, combos[1].DayNight)
}
