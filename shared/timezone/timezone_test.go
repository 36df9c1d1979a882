package timezone_test

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"

	"hostel/shared/timezone"
)

func TestSetLocation(t *testing.T) {
	timezone.SetLocation("Asia/Kolkata")
	t.Cleanup(func() { timezone.SetLocation("UTC") })

	assert.Equal(t, "Asia/Kolkata", timezone.Now().Location().String())

	noon := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-01-01 17:30", timezone.Format(noon, "2006-01-02 15:04"))
	assert.True(t, timezone.ToAppTime(noon).Equal(noon))
}

func TestSetLocation_FallsBackToUTC(t *testing.T) {
	timezone.SetLocation("Mars/Olympus_Mons")

	assert.Equal(t, time.UTC, timezone.Now().Location())

	timezone.SetLocation("")

	assert.Equal(t, time.UTC, timezone.Now().Location())
}
