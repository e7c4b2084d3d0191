package aggregator

import "insider-features/internal/record"

// AggregateLogons touches the day bucket of every logon record and counts
// Logon activity outside office hours. Logoff records only create buckets.
func AggregateLogons(c *Context, logons []record.Logon) {
	for _, l := range logons {
		date := l.Date()
		c.Store.Ensure(l.User, date)
		if l.Activity != record.ActivityLogon {
			continue
		}
		if c.Policy.OfficeHours.OffHours(l.Time) {
			c.Store.IncOffHours(l.User, date)
			c.Stats.OffHoursLogons.Inc()
		}
	}
}
