package summary

import (
	"insider-features/internal/record"
	"insider-features/internal/session"
)

// EmailDays reduces the EmailSession entries of every bucket. Buckets holding
// no email (for instance ones created by the logon stage) yield no row.
func EmailDays(store *session.Store) []EmailDay {
	var rows []EmailDay
	store.Each(func(user string, date record.Date, day *session.Day) {
		row, ok := reduceEmailDay(user, date, day)
		if ok {
			rows = append(rows, row)
		}
	})
	return rows
}

func reduceEmailDay(user string, date record.Date, day *session.Day) (EmailDay, bool) {
	row := EmailDay{User: user, Date: date}
	var sessions int
	var totalSize int64
	for _, e := range day.Entries {
		s, ok := e.(session.EmailSession)
		if !ok {
			continue
		}
		sessions++
		row.EmailsOutsideOrg += s.OutsideOrg
		row.EmailsInsideOrg += s.InsideOrg
		row.TotalRecipients += s.TotalRecipients
		row.TotalAttachments += s.Attachments
		totalSize += s.SizeBytes
		if s.Malicious {
			row.MaliciousCount++
		}
	}
	if sessions == 0 {
		return EmailDay{}, false
	}
	row.AvgEmailSizeBytes = float64(totalSize) / float64(sessions)
	return row, true
}
