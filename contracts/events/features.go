package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const (
	DomainLogonDay = "logon_day"
	DomainEmailDay = "email_day"
	DomainHttpDay  = "http_day"

	EventTypeFeatureRow = "feature_row"
)

// FeatureRow is a daily feature row that knows its owner and day.
type FeatureRow interface {
	Domain() string
	Owner() (user, date string)
	Validate() error
}

// NewEnvelope wraps a feature row. runID ties every row of one extraction
// run together.
func NewEnvelope(row FeatureRow, runID string, now time.Time) (Envelope, error) {
	if err := row.Validate(); err != nil {
		return Envelope{}, fmt.Errorf("invalid %s payload: %w", row.Domain(), err)
	}
	data, err := json.Marshal(row)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s payload: %w", row.Domain(), err)
	}
	user, date := row.Owner()
	return Envelope{
		SpecVersion: SpecVersionV1,
		Domain:      row.Domain(),
		EventType:   EventTypeFeatureRow,
		Source:      SourceFeatureExtractor,
		Timestamp:   now.UTC(),
		Correlation: map[string]string{
			CorrelationRunID: runID,
			CorrelationUser:  user,
			CorrelationDate:  date,
		},
		Payload: data,
	}, nil
}

type LogonDayPayload struct {
	User                           string   `json:"user"`
	Date                           string   `json:"date"`
	MinutesFirstLoginVsOfficeStart *float64 `json:"diff_start_first_login"`
	MinutesLastLogoffVsOfficeEnd   *float64 `json:"diff_end_last_logoff"`
	AvgMinutesEarlyLogin           float64  `json:"avg_minutes_early_login"`
	AvgMinutesLateLogin            float64  `json:"avg_minutes_late_login"`
	LogonCount                     int      `json:"no_of_logon"`
	OffHoursLogonCount             int      `json:"no_of_logon_off_hours"`
	DistinctDeviceCount            int      `json:"no_of_computers"`
	OffHoursDistinctDeviceCount    int      `json:"no_of_computers_off_hours"`
	AvgOffHoursSessionGapMinutes   float64  `json:"avg_session_gap_off_hours"`
}

func (p LogonDayPayload) Domain() string          { return DomainLogonDay }
func (p LogonDayPayload) Owner() (string, string) { return p.User, p.Date }

func (p LogonDayPayload) Validate() error {
	if err := validateOwner(p.User, p.Date); err != nil {
		return err
	}
	if p.OffHoursLogonCount > p.LogonCount {
		return errors.New("no_of_logon_off_hours exceeds no_of_logon")
	}
	if p.LogonCount == 0 && (p.MinutesFirstLoginVsOfficeStart != nil || p.MinutesLastLogoffVsOfficeEnd != nil) {
		return errors.New("offsets must be null on a day without logon")
	}
	return nil
}

type EmailDayPayload struct {
	User              string  `json:"user"`
	Date              string  `json:"date"`
	EmailsOutsideOrg  int     `json:"emails_outside_organization"`
	EmailsInsideOrg   int     `json:"emails_inside_organization"`
	TotalRecipients   int     `json:"total_recipients"`
	TotalAttachments  int     `json:"number_of_attachments"`
	AvgEmailSizeBytes float64 `json:"average_email_size"`
	MaliciousCount    int     `json:"malicious_count"`
}

func (p EmailDayPayload) Domain() string          { return DomainEmailDay }
func (p EmailDayPayload) Owner() (string, string) { return p.User, p.Date }

func (p EmailDayPayload) Validate() error {
	if err := validateOwner(p.User, p.Date); err != nil {
		return err
	}
	if p.EmailsInsideOrg+p.EmailsOutsideOrg > p.TotalRecipients {
		return errors.New("inside and outside recipients exceed total_recipients")
	}
	return nil
}

type HttpDayPayload struct {
	User                string  `json:"user"`
	Date                string  `json:"date"`
	WikileaksVisitCount int     `json:"wikileaks_count"`
	JobSearchScore      float64 `json:"job_search_score"`
	KeyloggerScore      float64 `json:"keylogger_score"`
}

func (p HttpDayPayload) Domain() string          { return DomainHttpDay }
func (p HttpDayPayload) Owner() (string, string) { return p.User, p.Date }

func (p HttpDayPayload) Validate() error {
	return validateOwner(p.User, p.Date)
}

func validateOwner(user, date string) error {
	if user == "" {
		return errors.New("user must be set")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("date must be YYYY-MM-DD: %w", err)
	}
	return nil
}

func (e Envelope) LogonDayPayload() (LogonDayPayload, error) {
	var payload LogonDayPayload
	err := e.decode(DomainLogonDay, &payload)
	return payload, err
}

func (e Envelope) EmailDayPayload() (EmailDayPayload, error) {
	var payload EmailDayPayload
	err := e.decode(DomainEmailDay, &payload)
	return payload, err
}

func (e Envelope) HttpDayPayload() (HttpDayPayload, error) {
	var payload HttpDayPayload
	err := e.decode(DomainHttpDay, &payload)
	return payload, err
}

func (e Envelope) decode(domain string, target FeatureRow) error {
	if e.Domain != domain {
		return fmt.Errorf("expected domain %q, got %q", domain, e.Domain)
	}
	if err := e.PayloadInto(target); err != nil {
		return err
	}
	if err := target.Validate(); err != nil {
		return fmt.Errorf("invalid %s payload: %w", domain, err)
	}
	return nil
}
