package aggregator

import (
	"insider-features/internal/record"
	"insider-features/internal/session"
)

// AggregateDevices records off-hours removable device activity. Activity
// inside office hours is not a risk signal and leaves the store untouched.
// Only Connect events are checked against the user's primary device; a user
// with no baseline is never flagged as sharing.
func AggregateDevices(c *Context, devices []record.Device) {
	for _, d := range devices {
		if !c.Policy.OfficeHours.OffHours(d.Time) {
			continue
		}
		shared := false
		if d.Activity == record.ActivityConnect {
			if primary, ok := c.PrimaryOf(StreamDevice, d.Base); ok {
				shared = d.PC != primary
			}
		}
		c.appendEntry(d.User, d.Date(), session.DeviceSession{
			Time:     d.Time,
			Activity: string(d.Activity),
			Shared:   shared,
		})
	}
}
