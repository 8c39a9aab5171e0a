package views

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	// DayFormat is the date layout used in view counter keys.
	DayFormat = "20060102"
	// RetentionDays is how long daily counters live before Redis expires them.
	RetentionDays = 30
	// HoursPerDay converts retention days to a TTL.
	HoursPerDay = 24
)

func dayKey(contentID uuid.UUID, day time.Time) string {
	return fmt.Sprintf("views:%s:%s", contentID, day.UTC().Format(DayFormat))
}
