// Package policy holds the anomaly policy every stream agrees on: the office
// hours window, the organisation mail domain and the text lexicons.
package policy

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"insider-features/internal/record"
)

const (
	DefaultOrganizationDomain = "dtaa.com"
	DefaultWikileaksMarker    = "wikileaks.org"
)

// OfficeHours is an inclusive window: a clock equal to Start or End is inside.
type OfficeHours struct {
	Start record.Clock
	End   record.Clock
}

func DefaultOfficeHours() OfficeHours {
	return OfficeHours{
		Start: record.Clock(8 * time.Hour),
		End:   record.Clock(19 * time.Hour),
	}
}

func (o OfficeHours) Within(c record.Clock) bool {
	return c >= o.Start && c <= o.End
}

func (o OfficeHours) Before(c record.Clock) bool {
	return c < o.Start
}

func (o OfficeHours) After(c record.Clock) bool {
	return c > o.End
}

func (o OfficeHours) OffHours(t time.Time) bool {
	return !o.Within(record.ClockOf(t))
}

type Lexicons struct {
	JobSearch []string `yaml:"job_search"`
	Keylogger []string `yaml:"keylogger"`
}

type Policy struct {
	OfficeHours        OfficeHours
	OrganizationDomain string
	WikileaksMarker    string
	Lexicons           Lexicons
}

func Default() Policy {
	return Policy{
		OfficeHours:        DefaultOfficeHours(),
		OrganizationDomain: DefaultOrganizationDomain,
		WikileaksMarker:    DefaultWikileaksMarker,
	}
}

type fileFormat struct {
	OfficeHours struct {
		Start string `yaml:"start"`
		End   string `yaml:"end"`
	} `yaml:"office_hours"`
	OrganizationDomain string   `yaml:"organization_domain"`
	WikileaksMarker    string   `yaml:"wikileaks_marker"`
	Lexicons           Lexicons `yaml:"lexicons"`
}

// Load reads a YAML policy file. Missing keys keep their defaults.
func Load(path string) (Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("read policy file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (Policy, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Policy{}, fmt.Errorf("unmarshal policy: %w", err)
	}

	p := Default()
	if f.OfficeHours.Start != "" {
		c, err := record.ParseClock(f.OfficeHours.Start)
		if err != nil {
			return Policy{}, fmt.Errorf("office_hours.start: %w", err)
		}
		p.OfficeHours.Start = c
	}
	if f.OfficeHours.End != "" {
		c, err := record.ParseClock(f.OfficeHours.End)
		if err != nil {
			return Policy{}, fmt.Errorf("office_hours.end: %w", err)
		}
		p.OfficeHours.End = c
	}
	if p.OfficeHours.End < p.OfficeHours.Start {
		return Policy{}, fmt.Errorf("office hours end %s before start %s", p.OfficeHours.End, p.OfficeHours.Start)
	}
	if d := strings.TrimSpace(f.OrganizationDomain); d != "" {
		p.OrganizationDomain = d
	}
	if m := strings.TrimSpace(f.WikileaksMarker); m != "" {
		p.WikileaksMarker = m
	}
	p.Lexicons = f.Lexicons
	return p, nil
}
