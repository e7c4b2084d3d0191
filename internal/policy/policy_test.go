package policy

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insider-features/internal/record"
)

func clock(h, m, s int) record.Clock {
	return record.Clock(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(s)*time.Second)
}

func TestOfficeHours_InclusiveBoundaries(t *testing.T) {
	o := DefaultOfficeHours()

	tests := []struct {
		name   string
		clock  record.Clock
		within bool
		before bool
		after  bool
	}{
		{"early morning", clock(7, 59, 59), false, true, false},
		{"start", clock(8, 0, 0), true, false, false},
		{"noon", clock(12, 0, 0), true, false, false},
		{"end", clock(19, 0, 0), true, false, false},
		{"just after end", clock(19, 0, 1), false, false, true},
		{"midnight", clock(0, 0, 0), false, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.within, o.Within(tt.clock))
			assert.Equal(t, tt.before, o.Before(tt.clock))
			assert.Equal(t, tt.after, o.After(tt.clock))
			assert.Equal(t, tt.within, !(o.Before(tt.clock) || o.After(tt.clock)))
		})
	}
}

func TestParse_Overrides(t *testing.T) {
	p, err := Parse([]byte(`
office_hours:
  start: "09:00"
  end: "17:30"
organization_domain: example.org
lexicons:
  job_search: [resume, career, linkedin]
  keylogger: [keylogger, keystroke]
`))
	require.NoError(t, err)

	assert.Equal(t, clock(9, 0, 0), p.OfficeHours.Start)
	assert.Equal(t, clock(17, 30, 0), p.OfficeHours.End)
	assert.Equal(t, "example.org", p.OrganizationDomain)
	assert.Equal(t, DefaultWikileaksMarker, p.WikileaksMarker)
	assert.Equal(t, []string{"resume", "career", "linkedin"}, p.Lexicons.JobSearch)
	assert.Equal(t, []string{"keylogger", "keystroke"}, p.Lexicons.Keylogger)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("office_hours:\n  start: noon\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("office_hours:\n  start: \"18:00\"\n  end: \"08:00\"\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("office_hours: [1, 2"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("organization_domain: corp.local\n"), 0o644))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "corp.local", p.OrganizationDomain)
	assert.Equal(t, DefaultOfficeHours(), p.OfficeHours)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
