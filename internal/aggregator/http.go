package aggregator

import (
	"strings"

	"insider-features/internal/policy"
	"insider-features/internal/record"
	"insider-features/internal/summary"
	"insider-features/internal/textscore"
)

// HttpScorers carries the two text risk signals. With no lexicon configured
// both are the same generic TF-IDF and report identical values.
type HttpScorers struct {
	JobSearch textscore.Scorer
	Keylogger textscore.Scorer
}

func NewHttpScorers(lex policy.Lexicons) HttpScorers {
	return HttpScorers{
		JobSearch: textscore.For(lex.JobSearch),
		Keylogger: textscore.For(lex.Keylogger),
	}
}

// AggregateHttp scores each user-day of browsing. The wikileaks marker is a
// case-sensitive substring match on the URL.
func AggregateHttp(c *Context, visits []record.Http, scorers HttpScorers) []summary.HttpDay {
	groups := record.GroupByUserDay(visits, func(h record.Http) record.Base { return h.Base })
	rows := make([]summary.HttpDay, 0, len(groups))
	for _, g := range groups {
		row := summary.HttpDay{User: g.User, Date: g.Date}
		docs := make([]string, 0, len(g.Items))
		for _, h := range g.Items {
			if strings.Contains(h.URL, c.Policy.WikileaksMarker) {
				row.WikileaksVisitCount++
			}
			docs = append(docs, h.Content)
		}
		row.JobSearchScore = scorers.JobSearch.FitAndScore(docs)
		row.KeyloggerScore = scorers.Keylogger.FitAndScore(docs)
		rows = append(rows, row)
	}
	return rows
}
