package domain

import "time"

type AnnouncementKind string

const (
	AnnouncementOpening  AnnouncementKind = "opening"
	AnnouncementFinal    AnnouncementKind = "final"
	AnnouncementDelivery AnnouncementKind = "delivery"
)

// Announcement is the structured content handed to an Announcer, which
// decides how to render it for its platform.
type Announcement struct {
	Kind        AnnouncementKind
	Date        string
	MenuTotals  MenuCounts
	Voters      int
	CloseHour   int
	GeneratedAt time.Time
}
