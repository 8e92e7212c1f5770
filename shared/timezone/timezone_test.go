package timezone_test

import (
	"testing"
	"time"

	"innkeep/shared/timezone"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocation(t *testing.T) {
	loc := timezone.Location()
	require.NotNil(t, loc)

	assert.Equal(t, loc, timezone.Now().Location())
	assert.Equal(t, loc, timezone.ToAppTime(time.Now().UTC()).Location())
}

func TestToday(t *testing.T) {
	today := timezone.Today()

	assert.Equal(t, time.UTC, today.Location())
	assert.Zero(t, today.Hour())
	assert.Equal(t, timezone.Now().Format(time.DateOnly), today.Format(time.DateOnly))
}

func TestParseAndFormat(t *testing.T) {
	parsed, err := timezone.Parse(time.DateOnly, "2026-02-14")
	require.NoError(t, err)
	assert.Equal(t, timezone.Location(), parsed.Location())
	assert.Equal(t, "2026-02-14", timezone.Format(parsed, time.DateOnly))

	_, err = timezone.Parse(time.DateOnly, "14-02-2026")
	assert.Error(t, err)
}

func TestUse(t *testing.T) {
	defer timezone.Use(nil)

	tokyo := time.FixedZone("JST", 9*60*60)
	timezone.Use(tokyo)

	assert.Equal(t, tokyo, timezone.Location())

	// 2026-02-14 20:00 UTC is already the 15th in Tokyo.
	late := time.Date(2026, 2, 14, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-02-15", timezone.Format(late, time.DateOnly))

	timezone.Use(nil)
	assert.NotEqual(t, tokyo, timezone.Location())
}
