package summary

import "insider-features/contracts/events"

func (r LogonDay) Payload() events.LogonDayPayload {
	return events.LogonDayPayload{
		User:                           r.User,
		Date:                           string(r.Date),
		MinutesFirstLoginVsOfficeStart: r.MinutesFirstLoginVsOfficeStart,
		MinutesLastLogoffVsOfficeEnd:   r.MinutesLastLogoffVsOfficeEnd,
		AvgMinutesEarlyLogin:           r.AvgMinutesEarlyLogin,
		AvgMinutesLateLogin:            r.AvgMinutesLateLogin,
		LogonCount:                     r.LogonCount,
		OffHoursLogonCount:             r.OffHoursLogonCount,
		DistinctDeviceCount:            r.DistinctDeviceCount,
		OffHoursDistinctDeviceCount:    r.OffHoursDistinctDeviceCount,
		AvgOffHoursSessionGapMinutes:   r.AvgOffHoursSessionGapMinutes,
	}
}

func (r EmailDay) Payload() events.EmailDayPayload {
	return events.EmailDayPayload{
		User:              r.User,
		Date:              string(r.Date),
		EmailsOutsideOrg:  r.EmailsOutsideOrg,
		EmailsInsideOrg:   r.EmailsInsideOrg,
		TotalRecipients:   r.TotalRecipients,
		TotalAttachments:  r.TotalAttachments,
		AvgEmailSizeBytes: r.AvgEmailSizeBytes,
		MaliciousCount:    r.MaliciousCount,
	}
}

func (r HttpDay) Payload() events.HttpDayPayload {
	return events.HttpDayPayload{
		User:                r.User,
		Date:                string(r.Date),
		WikileaksVisitCount: r.WikileaksVisitCount,
		JobSearchScore:      r.JobSearchScore,
		KeyloggerScore:      r.KeyloggerScore,
	}
}

// Rows collects every row of a run as contract payloads, logon rows first.
func Rows(logon []LogonDay, email []EmailDay, http []HttpDay) []events.FeatureRow {
	out := make([]events.FeatureRow, 0, len(logon)+len(email)+len(http))
	for _, r := range logon {
		out = append(out, r.Payload())
	}
	for _, r := range email {
		out = append(out, r.Payload())
	}
	for _, r := range http {
		out = append(out, r.Payload())
	}
	return out
}
