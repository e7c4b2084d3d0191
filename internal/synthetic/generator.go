package synthetic

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"

	"insider-features/internal/record"
)

// Columns of each generated table, in CERT r4.2 order.
var (
	LogonColumns  = []string{record.ColumnID, record.ColumnDate, record.ColumnUser, record.ColumnPC, record.ColumnActivity}
	DeviceColumns = LogonColumns
	FileColumns   = []string{record.ColumnID, record.ColumnDate, record.ColumnUser, record.ColumnPC, record.ColumnFilename, record.ColumnContent}
	EmailColumns  = []string{record.ColumnID, record.ColumnDate, record.ColumnUser, record.ColumnPC, record.ColumnTo, record.ColumnCC, record.ColumnBCC, record.ColumnFrom, record.ColumnSize, record.ColumnAttachments, record.ColumnContent}
	HttpColumns   = []string{record.ColumnID, record.ColumnDate, record.ColumnUser, record.ColumnPC, record.ColumnURL, record.ColumnContent}
)

var idNamespace = uuid.MustParse("6f1c7d64-3a43-4d55-9a55-2b1f2c8f0c11")

type Config struct {
	Users     int
	Insiders  int
	Days      int
	Start     time.Time
	OrgDomain string
}

func DefaultConfig() Config {
	return Config{
		Users:     20,
		Insiders:  2,
		Days:      5,
		Start:     time.Date(2010, 1, 4, 0, 0, 0, 0, time.UTC),
		OrgDomain: "dtaa.com",
	}
}

// Dataset holds the five generated tables.
type Dataset struct {
	Employees []Employee
	Logon     []record.Row
	Device    []record.Row
	File      []record.Row
	Email     []record.Row
	Http      []record.Row
}

type Generator struct {
	faker  *gofakeit.Faker
	config Config
	data   *Dataset
	serial int
}

func NewGenerator(seed uint64, config Config) *Generator {
	return &Generator{faker: gofakeit.New(seed), config: config}
}

func (g *Generator) Generate() Dataset {
	g.data = &Dataset{}
	g.serial = 0

	employees := NewEmployeeService(g.faker, g.config.OrgDomain).CreateMore(g.config.Users)
	for i := 0; i < g.config.Insiders && i < len(employees); i++ {
		employees[len(employees)-1-i].Insider = true
	}
	g.data.Employees = employees

	for d := 0; d < g.config.Days; d++ {
		day := g.config.Start.AddDate(0, 0, d)
		for _, e := range employees {
			g.RunNormalDayScenario(e, day, employees)
			if e.Insider {
				g.runInsiderScenario(e, day, employees)
			}
		}
	}
	return *g.data
}

func (g *Generator) runInsiderScenario(e Employee, day time.Time, colleagues []Employee) {
	switch g.faker.Number(0, 3) {
	case 0:
		g.RunAfterHoursExfiltrationScenario(e, day)
	case 1:
		g.RunJobSearchScenario(e, day)
	case 2:
		g.RunLeakScenario(e, day, colleagues)
	default:
		g.RunForeignDeviceScenario(e, day)
	}
}

func (g *Generator) nextID(stream string) string {
	g.serial++
	id := uuid.NewSHA1(idNamespace, []byte(stream+"/"+strconv.Itoa(g.serial)))
	return "{" + strings.ToUpper(id.String()) + "}"
}

func (g *Generator) at(day time.Time, fromMinute, toMinute int) time.Time {
	return day.Add(time.Duration(g.faker.Number(fromMinute*60, toMinute*60)) * time.Second)
}

func (g *Generator) row(stream string, t time.Time, e Employee, pc string, fields map[string]string) record.MapRow {
	r := record.MapRow{
		record.ColumnID:   g.nextID(stream),
		record.ColumnDate: t.Format(record.Layout),
		record.ColumnUser: e.ID,
		record.ColumnPC:   pc,
	}
	for k, v := range fields {
		r[k] = v
	}
	return r
}

func (g *Generator) logon(e Employee, pc string, t time.Time, activity record.Activity) {
	g.data.Logon = append(g.data.Logon, g.row("logon", t, e, pc, map[string]string{record.ColumnActivity: string(activity)}))
}

func (g *Generator) device(e Employee, pc string, t time.Time, activity record.Activity) {
	g.data.Device = append(g.data.Device, g.row("device", t, e, pc, map[string]string{record.ColumnActivity: string(activity)}))
}

func (g *Generator) file(e Employee, pc string, t time.Time, name, content string) {
	g.data.File = append(g.data.File, g.row("file", t, e, pc, map[string]string{
		record.ColumnFilename: name,
		record.ColumnContent:  content,
	}))
}

func (g *Generator) email(e Employee, pc string, t time.Time, to, cc, bcc []string, attachments int, content string) {
	g.data.Email = append(g.data.Email, g.row("email", t, e, pc, map[string]string{
		record.ColumnTo:          strings.Join(to, ";"),
		record.ColumnCC:          strings.Join(cc, ";"),
		record.ColumnBCC:         strings.Join(bcc, ";"),
		record.ColumnFrom:        e.Email,
		record.ColumnSize:        strconv.Itoa(len(content) * 40),
		record.ColumnAttachments: strconv.Itoa(attachments),
		record.ColumnContent:     content,
	}))
}

func (g *Generator) visit(e Employee, pc string, t time.Time, url, content string) {
	g.data.Http = append(g.data.Http, g.row("http", t, e, pc, map[string]string{
		record.ColumnURL:     url,
		record.ColumnContent: content,
	}))
}

func (g *Generator) words(n int) string {
	w := make([]string, n)
	for i := range w {
		w[i] = g.faker.Word()
	}
	return strings.Join(w, " ")
}

func (g *Generator) colleague(e Employee, colleagues []Employee) string {
	for range 4 {
		c := colleagues[g.faker.Number(0, len(colleagues)-1)]
		if c.ID != e.ID {
			return c.Email
		}
	}
	return fmt.Sprintf("team@%s", g.config.OrgDomain)
}

func (g *Generator) external() string {
	return fmt.Sprintf("%s@%s", strings.ToLower(g.faker.Username()), g.faker.DomainName())
}
