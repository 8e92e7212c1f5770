package ical

import (
	"time"

	ics "github.com/arran4/golang-ical"
)

const productID = "-//innkeep//Room Calendar//EN"

// ExportEvent is one occupied stay, End exclusive.
type ExportEvent struct {
	UID         string
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
}

// Render serializes stays as all-day events of a published calendar.
func Render(name, tz string, stamp time.Time, events []ExportEvent) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	cal.SetXWRCalName(name)
	cal.SetXWRTimezone(tz)

	for _, e := range events {
		vevent := cal.AddEvent(e.UID)
		vevent.SetDtStampTime(stamp)
		vevent.SetAllDayStartAt(e.Start)
		vevent.SetAllDayEndAt(e.End)
		vevent.SetSummary(e.Summary)

		if e.Description != "" {
			vevent.SetDescription(e.Description)
		}
	}

	return cal.Serialize()
}
