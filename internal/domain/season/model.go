package season

import "time"

// Season is one edition of the competition; leagues and rounds hang off it.
type Season struct {
	ID       string
	Name     string
	StartsAt time.Time
	EndsAt   time.Time
	Active   bool
}
