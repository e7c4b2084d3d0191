package record

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_Logon(t *testing.T) {
	p := NewParser(nil)

	rec, err := p.Logon(3, MapRow{
		"id":       "{X1D9-S0ES98JV-5357PWMI}",
		"date":     "01/02/2010 06:49:00",
		"user":     "NGF0157",
		"pc":       "PC-6056",
		"activity": "Logon",
	})
	require.NoError(t, err)

	assert.Equal(t, 3, rec.Index)
	assert.Equal(t, "NGF0157", rec.User)
	assert.Equal(t, "PC-6056", rec.PC)
	assert.Equal(t, ActivityLogon, rec.Activity)
	assert.Equal(t, Date("2010-01-02"), rec.Date())
	assert.Equal(t, "06:49:00", rec.Clock().String())
}

func TestParser_MalformedTimestamp(t *testing.T) {
	p := NewParser(nil)

	tests := []struct {
		name string
		date string
	}{
		{"empty", ""},
		{"blank", "   "},
		{"garbage", "yesterday"},
		{"day first", "31/01/2010 10:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Logon(0, MapRow{"date": tt.date, "user": "u", "pc": "pc", "activity": "Logon"})
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedTimestamp))
			assert.Equal(t, ErrMalformedTimestamp, Kind(err))
		})
	}
}

func TestParser_MissingDateColumn(t *testing.T) {
	_, err := NewParser(nil).Device(0, MapRow{"user": "u", "pc": "pc", "activity": "Connect"})
	assert.ErrorIs(t, err, ErrMalformedTimestamp)
}

func TestParser_MissingUser(t *testing.T) {
	_, err := NewParser(nil).Logon(0, MapRow{"date": "01/02/2010 06:49:00", "pc": "pc"})
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestParser_RFC3339Fallback(t *testing.T) {
	rec, err := NewParser(nil).Http(0, MapRow{
		"date": "2010-01-02T21:15:00Z",
		"user": "u",
		"pc":   "pc",
		"url":  "http://wikileaks.org/x",
	})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2010, 1, 2, 21, 15, 0, 0, time.UTC), rec.Time)
}

func TestParser_Email(t *testing.T) {
	p := NewParser(nil)

	rec, err := p.Email(0, MapRow{
		"date":        "01/04/2010 12:00:00",
		"user":        "u",
		"pc":          "pc",
		"to":          "a@dtaa.com;b@gmail.com",
		"cc":          "",
		"attachments": "2",
		"size":        "29942",
	})
	require.NoError(t, err)
	assert.Equal(t, "a@dtaa.com;b@gmail.com", rec.To)
	assert.Empty(t, rec.CC)
	assert.Empty(t, rec.BCC)
	assert.Equal(t, 2, rec.Attachments)
	assert.Equal(t, int64(29942), rec.Size)

	_, err = p.Email(1, MapRow{"date": "01/04/2010 12:00:00", "user": "u", "size": "big"})
	assert.ErrorIs(t, err, ErrMalformedField)
}

func TestParser_EmailNumericFields(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{raw: "", want: 0},
		{raw: "42", want: 42},
		{raw: "3.0", want: 3},
		{raw: "1e3", want: 1000},
		{raw: "2.9", wantErr: true},
		{raw: "-500", wantErr: true},
		{raw: "-1.0", wantErr: true},
		{raw: "NaN", wantErr: true},
		{raw: "Inf", wantErr: true},
		{raw: "-Inf", wantErr: true},
		{raw: "1e300", wantErr: true},
		{raw: "99999999999999999999", wantErr: true},
	}
	p := NewParser(nil)
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			for _, column := range []string{ColumnSize, ColumnAttachments} {
				rec, err := p.Email(0, MapRow{"date": "01/04/2010 12:00:00", "user": "u", column: tt.raw})
				if tt.wantErr {
					assert.ErrorIs(t, err, ErrMalformedField, column)
					continue
				}
				require.NoError(t, err, column)
				if column == ColumnSize {
					assert.Equal(t, tt.want, rec.Size)
				} else {
					assert.Equal(t, int(tt.want), rec.Attachments)
				}
			}
		})
	}
}

func TestParser_FileRequiresFilename(t *testing.T) {
	_, err := NewParser(nil).File(0, MapRow{"date": "01/04/2010 12:00:00", "user": "u"})
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestTimeParser_Cache(t *testing.T) {
	tp := NewTimeParser(2, time.UTC)

	first, err := tp.Parse("01/02/2010 06:49:00")
	require.NoError(t, err)
	second, err := tp.Parse("01/02/2010 06:49:00")
	require.NoError(t, err)
	assert.True(t, first.Equal(second))
	assert.Equal(t, 1, tp.cache.Len())
}

func TestParseClock(t *testing.T) {
	c, err := ParseClock("08:00")
	require.NoError(t, err)
	assert.Equal(t, 480.0, c.Minutes())

	c, err = ParseClock("19:00:30")
	require.NoError(t, err)
	assert.Equal(t, "19:00:30", c.String())

	_, err = ParseClock("late")
	assert.ErrorIs(t, err, ErrMalformedField)
}

func TestKind_Foreign(t *testing.T) {
	assert.Nil(t, Kind(errors.New("boom")))
}
