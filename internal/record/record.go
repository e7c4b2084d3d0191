package record

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Row is the only view the core needs of a tabular record.
type Row interface {
	Get(column string) (string, bool)
}

// MapRow is a Row backed by a plain map. Handy for tests and for callers
// that already hold decoded records.
type MapRow map[string]string

func (r MapRow) Get(column string) (string, bool) {
	v, ok := r[column]
	return v, ok
}

type Activity string

const (
	ActivityLogon      Activity = "Logon"
	ActivityLogoff     Activity = "Logoff"
	ActivityConnect    Activity = "Connect"
	ActivityDisconnect Activity = "Disconnect"
)

const (
	ColumnID          = "id"
	ColumnDate        = "date"
	ColumnUser        = "user"
	ColumnPC          = "pc"
	ColumnActivity    = "activity"
	ColumnFilename    = "filename"
	ColumnContent     = "content"
	ColumnTo          = "to"
	ColumnCC          = "cc"
	ColumnBCC         = "bcc"
	ColumnFrom        = "from"
	ColumnSize        = "size"
	ColumnAttachments = "attachments"
	ColumnURL         = "url"
)

// Base holds the fields common to every stream. Index is the position of the
// row in its source table and is only used for diagnostics.
type Base struct {
	Index int
	User  string
	PC    string
	Time  time.Time
}

func (b Base) Date() Date {
	return DateOf(b.Time)
}

func (b Base) Clock() Clock {
	return ClockOf(b.Time)
}

type Logon struct {
	Base
	Activity Activity
}

type Device struct {
	Base
	Activity Activity
}

type File struct {
	Base
	Filename string
	Content  string
}

// Email keeps the recipient columns raw; an empty field means the column was
// absent for that message.
type Email struct {
	Base
	To          string
	CC          string
	BCC         string
	Attachments int
	Size        int64
}

type Http struct {
	Base
	URL     string
	Content string
}

// Parser turns rows into typed records.
type Parser struct {
	times *TimeParser
}

func NewParser(times *TimeParser) *Parser {
	if times == nil {
		times = NewTimeParser(0, time.UTC)
	}
	return &Parser{times: times}
}

func (p *Parser) base(index int, row Row) (Base, error) {
	user, ok := get(row, ColumnUser)
	if !ok {
		return Base{}, errors.Wrapf(ErrMissingField, "row %d: %s", index, ColumnUser)
	}
	raw, _ := get(row, ColumnDate)
	t, err := p.times.Parse(raw)
	if err != nil {
		return Base{}, errors.Wrapf(err, "row %d", index)
	}
	pc, _ := get(row, ColumnPC)
	return Base{Index: index, User: user, PC: pc, Time: t}, nil
}

func (p *Parser) Logon(index int, row Row) (Logon, error) {
	b, err := p.base(index, row)
	if err != nil {
		return Logon{}, err
	}
	activity, _ := get(row, ColumnActivity)
	return Logon{Base: b, Activity: Activity(activity)}, nil
}

func (p *Parser) Device(index int, row Row) (Device, error) {
	b, err := p.base(index, row)
	if err != nil {
		return Device{}, err
	}
	activity, _ := get(row, ColumnActivity)
	return Device{Base: b, Activity: Activity(activity)}, nil
}

func (p *Parser) File(index int, row Row) (File, error) {
	b, err := p.base(index, row)
	if err != nil {
		return File{}, err
	}
	name, ok := get(row, ColumnFilename)
	if !ok {
		return File{}, errors.Wrapf(ErrMissingField, "row %d: %s", index, ColumnFilename)
	}
	content, _ := row.Get(ColumnContent)
	return File{Base: b, Filename: name, Content: content}, nil
}

func (p *Parser) Email(index int, row Row) (Email, error) {
	b, err := p.base(index, row)
	if err != nil {
		return Email{}, err
	}
	attachments, err := atoi(row, ColumnAttachments)
	if err != nil {
		return Email{}, errors.Wrapf(err, "row %d", index)
	}
	size, err := atoi(row, ColumnSize)
	if err != nil {
		return Email{}, errors.Wrapf(err, "row %d", index)
	}
	to, _ := get(row, ColumnTo)
	cc, _ := get(row, ColumnCC)
	bcc, _ := get(row, ColumnBCC)
	return Email{
		Base:        b,
		To:          to,
		CC:          cc,
		BCC:         bcc,
		Attachments: int(attachments),
		Size:        size,
	}, nil
}

func (p *Parser) Http(index int, row Row) (Http, error) {
	b, err := p.base(index, row)
	if err != nil {
		return Http{}, err
	}
	url, _ := get(row, ColumnURL)
	content, _ := row.Get(ColumnContent)
	return Http{Base: b, URL: url, Content: content}, nil
}

// get treats blank cells the same as missing columns.
func get(row Row, column string) (string, bool) {
	v, ok := row.Get(column)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

// atoi reads a non-negative count. Float notation is accepted only for whole
// numbers ("3.0", "1e3"); fractions, NaN, infinities, negatives and values
// beyond int64 are malformed.
func atoi(row Row, column string) (int64, error) {
	raw, ok := get(row, column)
	if !ok {
		return 0, nil
	}
	malformed := errors.Wrapf(ErrMalformedField, "%s %q", column, raw)
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || f >= math.MaxInt64 {
			return 0, malformed
		}
		n = int64(f)
	}
	if n < 0 {
		return 0, malformed
	}
	return n, nil
}
