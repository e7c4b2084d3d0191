package summary

import (
	"time"

	"insider-features/internal/policy"
	"insider-features/internal/record"
)

// LogonDays builds one row per user and calendar day from logon and logoff
// records. A day with only Logoff events still yields a row, with zero counts
// and nil offsets.
func LogonDays(logons []record.Logon, hours policy.OfficeHours) []LogonDay {
	groups := record.GroupByUserDay(logons, func(l record.Logon) record.Base { return l.Base })
	rows := make([]LogonDay, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, summarizeLogonDay(g, hours))
	}
	return rows
}

func summarizeLogonDay(g record.Group[record.Logon], hours policy.OfficeHours) LogonDay {
	row := LogonDay{User: g.User, Date: g.Date}

	var (
		first, lastLogon, lastLogoff record.Clock
		haveLogon, haveLogoff        bool
		early, late                  []float64
		offHoursTimes                []time.Time
	)
	devices := make(map[string]struct{})
	offHoursDevices := make(map[string]struct{})

	for _, l := range g.Items {
		devices[l.PC] = struct{}{}
		c := l.Clock()

		switch l.Activity {
		case record.ActivityLogoff:
			if !haveLogoff || c > lastLogoff {
				lastLogoff = c
			}
			haveLogoff = true
			continue
		case record.ActivityLogon:
		default:
			continue
		}

		row.LogonCount++
		if !haveLogon || c < first {
			first = c
		}
		if !haveLogon || c > lastLogon {
			lastLogon = c
		}
		haveLogon = true

		switch {
		case hours.Before(c):
			early = append(early, time.Duration(hours.Start-c).Minutes())
		case hours.After(c):
			late = append(late, time.Duration(c-hours.End).Minutes())
		default:
			continue
		}
		offHoursTimes = append(offHoursTimes, l.Time)
		offHoursDevices[l.PC] = struct{}{}
	}

	if haveLogon {
		last := lastLogon
		if haveLogoff {
			last = lastLogoff
		}
		row.MinutesFirstLoginVsOfficeStart = ptr(time.Duration(first - hours.Start).Minutes())
		row.MinutesLastLogoffVsOfficeEnd = ptr(time.Duration(last - hours.End).Minutes())
	}

	row.AvgMinutesEarlyLogin = mean(early)
	row.AvgMinutesLateLogin = mean(late)
	row.OffHoursLogonCount = len(early) + len(late)
	row.DistinctDeviceCount = len(devices)
	row.OffHoursDistinctDeviceCount = len(offHoursDevices)
	row.AvgOffHoursSessionGapMinutes = meanGapMinutes(offHoursTimes)
	return row
}
