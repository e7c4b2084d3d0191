package table

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insider-features/internal/record"
)

func TestRead(t *testing.T) {
	input := "id,date,user,pc,activity\n" +
		"{X1},01/02/2010 06:49:00,NGF0157,PC-6056,Logon\n" +
		"{X2},01/02/2010 07:10:00,NGF0157,PC-6056\n"

	rows, err := Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	user, ok := rows[0].Get("user")
	assert.True(t, ok)
	assert.Equal(t, "NGF0157", user)

	activity, ok := rows[0].Get(" Activity ")
	assert.True(t, ok)
	assert.Equal(t, "Logon", activity)

	_, ok = rows[1].Get("activity")
	assert.False(t, ok, "short line")

	_, ok = rows[0].Get("url")
	assert.False(t, ok, "unknown column")
}

func TestRead_QuotedContent(t *testing.T) {
	input := "id,date,user,pc,url,content\n" +
		`{H1},01/02/2010 07:10:00,AAA0001,PC-1,http://a.com,"job, resume ""career"""` + "\n"

	rows, err := Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	content, _ := rows[0].Get("content")
	assert.Equal(t, `job, resume "career"`, content)
}

func TestRead_Empty(t *testing.T) {
	rows, err := Read(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRead_ByteOrderMark(t *testing.T) {
	rows, err := Read(strings.NewReader("\ufeffid,user\n1,A\n"))
	require.NoError(t, err)
	id, ok := rows[0].Get("id")
	assert.True(t, ok)
	assert.Equal(t, "1", id)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logon.csv")
	require.NoError(t, os.WriteFile(path, []byte("user,pc\nA,PC-1\nB,PC-2\n"), 0o644))

	rows, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestWriteThenRead(t *testing.T) {
	var buf bytes.Buffer
	in := []record.Row{
		record.MapRow{"user": "A", "pc": "PC-1", "content": "a, b"},
		record.MapRow{"user": "B"},
	}
	require.NoError(t, Write(&buf, []string{"user", "pc", "content"}, in))

	out, err := Read(&buf)
	require.NoError(t, err)
	require.Len(t, out, 2)
	content, _ := out[0].Get("content")
	assert.Equal(t, "a, b", content)
	pc, ok := out[1].Get("pc")
	assert.True(t, ok)
	assert.Empty(t, pc)
}
