package aggregator

import (
	"strings"

	"github.com/pkg/errors"

	"insider-features/internal/record"
	"insider-features/internal/session"
)

type Recipients struct {
	Inside  int
	Outside int
	Total   int
}

// TallyRecipients splits each ';'-delimited field and classifies every
// address by domain. Empty fields are absent columns. An address without a
// domain counts toward Total but toward neither side; it is returned in
// malformed.
func TallyRecipients(orgDomain string, fields ...string) (r Recipients, malformed []string) {
	for _, field := range fields {
		if strings.TrimSpace(field) == "" {
			continue
		}
		for _, addr := range strings.Split(field, ";") {
			addr = strings.TrimSpace(addr)
			if addr == "" {
				continue
			}
			r.Total++
			at := strings.LastIndexByte(addr, '@')
			if at < 0 || at == len(addr)-1 {
				malformed = append(malformed, addr)
				continue
			}
			if strings.EqualFold(addr[at+1:], orgDomain) {
				r.Inside++
			} else {
				r.Outside++
			}
		}
	}
	return r, malformed
}

// AggregateEmails records every sent email. A message is malicious when it is
// sent inside office hours, or from a device other than the sender's primary
// one. Either condition alone is enough.
func AggregateEmails(c *Context, emails []record.Email) {
	for _, e := range emails {
		malicious := c.Policy.OfficeHours.Within(e.Clock())
		if primary, ok := c.PrimaryOf(StreamEmail, e.Base); ok && e.PC != primary {
			malicious = true
		}

		r, malformed := TallyRecipients(c.Policy.OrganizationDomain, e.To, e.CC, e.BCC)
		for _, addr := range malformed {
			c.Diagnostics.Add(Diagnostic{
				Stream: StreamEmail,
				Row:    e.Index,
				User:   e.User,
				Err:    errors.Wrapf(record.ErrMalformedAddressList, "address %q", addr),
			})
		}

		c.appendEntry(e.User, e.Date(), session.EmailSession{
			Time:            e.Time,
			OutsideOrg:      r.Outside,
			InsideOrg:       r.Inside,
			TotalRecipients: r.Total,
			Attachments:     e.Attachments,
			SizeBytes:       e.Size,
			Malicious:       malicious,
		})
	}
}
