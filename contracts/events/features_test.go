package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnvelope_LogonDay(t *testing.T) {
	start := -60.0
	row := LogonDayPayload{User: "ABC0001", Date: "2010-01-04", MinutesFirstLoginVsOfficeStart: &start, LogonCount: 2, OffHoursLogonCount: 1}
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.FixedZone("CEST", 7200))

	env, err := NewEnvelope(row, "run-1", now)
	require.NoError(t, err)
	assert.Equal(t, DomainLogonDay, env.Domain)
	assert.Equal(t, EventTypeFeatureRow, env.EventType)
	assert.Equal(t, "ABC0001", env.Key())
	assert.Equal(t, "run-1", env.Correlation[CorrelationRunID])
	assert.Equal(t, time.UTC, env.Timestamp.Location())

	raw, err := json.Marshal(env)
	require.NoError(t, err)
	parsed, err := ParseEnvelope(raw)
	require.NoError(t, err)

	got, err := parsed.LogonDayPayload()
	require.NoError(t, err)
	assert.Equal(t, row, got)
	assert.Nil(t, got.MinutesLastLogoffVsOfficeEnd)

	_, err = parsed.EmailDayPayload()
	assert.Error(t, err, "domain mismatch")
}

func TestPayloadValidate(t *testing.T) {
	offset := 1.0
	tests := []struct {
		name    string
		row     FeatureRow
		wantErr bool
	}{
		{"http ok", HttpDayPayload{User: "A", Date: "2010-01-04"}, false},
		{"missing user", HttpDayPayload{Date: "2010-01-04"}, true},
		{"bad date", EmailDayPayload{User: "A", Date: "01/04/2010"}, true},
		{"recipient overflow", EmailDayPayload{User: "A", Date: "2010-01-04", EmailsInsideOrg: 2, EmailsOutsideOrg: 1, TotalRecipients: 2}, true},
		{"off-hours overflow", LogonDayPayload{User: "A", Date: "2010-01-04", LogonCount: 1, OffHoursLogonCount: 2}, true},
		{"offset without logon", LogonDayPayload{User: "A", Date: "2010-01-04", MinutesLastLogoffVsOfficeEnd: &offset}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.row.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				_, envErr := NewEnvelope(tt.row, "run", time.Now())
				assert.Error(t, envErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestParseEnvelope_Invalid(t *testing.T) {
	_, err := ParseEnvelope([]byte(`{"spec_version":"1.0","domain":"http_day"}`))
	assert.Error(t, err)

	_, err = ParseEnvelope([]byte(`not json`))
	assert.Error(t, err)
}
