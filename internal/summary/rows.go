// Package summary reduces per-event records and session entries into one
// fixed-schema feature row per user and day.
package summary

import "insider-features/internal/record"

// LogonDay offsets are nil when the day has no Logon event.
type LogonDay struct {
	User                           string      `json:"user"`
	Date                           record.Date `json:"date"`
	MinutesFirstLoginVsOfficeStart *float64    `json:"diff_start_first_login"`
	MinutesLastLogoffVsOfficeEnd   *float64    `json:"diff_end_last_logoff"`
	AvgMinutesEarlyLogin           float64     `json:"avg_minutes_early_login"`
	AvgMinutesLateLogin            float64     `json:"avg_minutes_late_login"`
	LogonCount                     int         `json:"no_of_logon"`
	OffHoursLogonCount             int         `json:"no_of_logon_off_hours"`
	DistinctDeviceCount            int         `json:"no_of_computers"`
	OffHoursDistinctDeviceCount    int         `json:"no_of_computers_off_hours"`
	AvgOffHoursSessionGapMinutes   float64     `json:"avg_session_gap_off_hours"`
}

type EmailDay struct {
	User              string      `json:"user"`
	Date              record.Date `json:"date"`
	EmailsOutsideOrg  int         `json:"emails_outside_organization"`
	EmailsInsideOrg   int         `json:"emails_inside_organization"`
	TotalRecipients   int         `json:"total_recipients"`
	TotalAttachments  int         `json:"number_of_attachments"`
	AvgEmailSizeBytes float64     `json:"average_email_size"`
	MaliciousCount    int         `json:"malicious_count"`
}

type HttpDay struct {
	User                string      `json:"user"`
	Date                record.Date `json:"date"`
	WikileaksVisitCount int         `json:"wikileaks_count"`
	JobSearchScore      float64     `json:"job_search_score"`
	KeyloggerScore      float64     `json:"keylogger_score"`
}
