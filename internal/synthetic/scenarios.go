package synthetic

import (
	"fmt"
	"strings"
	"time"

	"insider-features/internal/record"
)

var (
	jobSearchTerms = []string{"resume", "career", "job", "salary", "interview", "hiring", "recruiter"}
	keyloggerTerms = []string{"keylogger", "keystroke", "capture", "stealth", "spyware", "logging"}
)

// RunNormalDayScenario is an ordinary office day on the employee's own PC.
func (g *Generator) RunNormalDayScenario(e Employee, day time.Time, colleagues []Employee) {
	start := g.at(day, 8*60, 10*60)
	end := g.at(day, 16*60, 18*60+59)
	g.logon(e, e.PC, start, record.ActivityLogon)

	for i := 0; i < g.faker.Number(0, 3); i++ {
		to := []string{g.colleague(e, colleagues)}
		var cc []string
		if g.faker.Bool() {
			cc = append(cc, g.colleague(e, colleagues))
		}
		g.email(e, e.PC, g.at(day, 10*60, 16*60), to, cc, nil, g.faker.Number(0, 2), g.words(g.faker.Number(5, 30)))
	}

	for i := 0; i < g.faker.Number(1, 4); i++ {
		g.visit(e, e.PC, g.at(day, 10*60, 16*60), "http://"+g.faker.DomainName()+"/"+g.faker.Word(), g.words(g.faker.Number(4, 12)))
	}

	g.logon(e, e.PC, end, record.ActivityLogoff)
}

// RunAfterHoursExfiltrationScenario comes back at night, plugs in a thumb
// drive and copies documents and a tool.
func (g *Generator) RunAfterHoursExfiltrationScenario(e Employee, day time.Time) {
	t := g.at(day, 21*60, 23*60)
	g.logon(e, e.PC, t, record.ActivityLogon)
	g.device(e, e.PC, t.Add(2*time.Minute), record.ActivityConnect)
	for i := 0; i < g.faker.Number(2, 5); i++ {
		name := fmt.Sprintf("%s.%s", strings.ToUpper(g.faker.LetterN(8)), g.faker.RandomString([]string{"doc", "exe", "pdf", "txt"}))
		g.file(e, e.PC, t.Add(time.Duration(5+i)*time.Minute), name, g.words(g.faker.Number(10, 60)))
	}
	g.device(e, e.PC, t.Add(20*time.Minute), record.ActivityDisconnect)
	g.logon(e, e.PC, t.Add(25*time.Minute), record.ActivityLogoff)
}

// RunJobSearchScenario browses job boards during the day.
func (g *Generator) RunJobSearchScenario(e Employee, day time.Time) {
	for i := 0; i < g.faker.Number(2, 6); i++ {
		content := make([]string, 0, 8)
		for range 8 {
			content = append(content, g.faker.RandomString(jobSearchTerms))
		}
		g.visit(e, e.PC, g.at(day, 11*60, 15*60), "http://"+g.faker.RandomString([]string{"monster.com", "careerbuilder.com", "indeed.com"})+"/jobs", strings.Join(content, " "))
	}
}

// RunLeakScenario reads about keyloggers, visits wikileaks and mails
// material outside the organisation from a colleague's machine.
func (g *Generator) RunLeakScenario(e Employee, day time.Time, colleagues []Employee) {
	for range g.faker.Number(1, 3) {
		g.visit(e, e.PC, g.at(day, 19*60+5, 22*60), "http://wikileaks.org/"+g.faker.Word(), g.words(6))
	}
	content := make([]string, 0, 6)
	for range 6 {
		content = append(content, g.faker.RandomString(keyloggerTerms))
	}
	g.visit(e, e.PC, g.at(day, 12*60, 14*60), "http://"+g.faker.DomainName()+"/download", strings.Join(content, " "))

	other := colleagues[g.faker.Number(0, len(colleagues)-1)].PC
	g.email(e, other, g.at(day, 20*60, 23*60), []string{g.external()}, nil, []string{g.external()}, g.faker.Number(1, 4), g.words(40))
}

// RunForeignDeviceScenario logs on early to somebody else's PC and connects a
// removable drive there.
func (g *Generator) RunForeignDeviceScenario(e Employee, day time.Time) {
	pc := fmt.Sprintf("PC-%04d", g.faker.Number(0, 9999))
	t := g.at(day, 5*60, 7*60+30)
	g.logon(e, pc, t, record.ActivityLogon)
	g.device(e, pc, t.Add(3*time.Minute), record.ActivityConnect)
	g.file(e, pc, t.Add(6*time.Minute), "setup.exe", g.words(12))
	g.device(e, pc, t.Add(15*time.Minute), record.ActivityDisconnect)
	g.logon(e, pc, t.Add(20*time.Minute), record.ActivityLogoff)
}
