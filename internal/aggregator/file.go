package aggregator

import (
	"strings"

	"insider-features/internal/record"
	"insider-features/internal/session"
)

// ClassifyFile maps the extension after the last dot to a file type. The
// comparison is exact: "EXE" is Other.
func ClassifyFile(name string) session.FileType {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return session.FileOther
	}
	switch name[i+1:] {
	case "exe":
		return session.FileExe
	case "doc":
		return session.FileDoc
	}
	return session.FileOther
}

// WordCount is the number of space characters plus one.
func WordCount(content string) int {
	return strings.Count(content, " ") + 1
}

// AggregateFiles records off-hours file copies.
func AggregateFiles(c *Context, files []record.File) {
	for _, f := range files {
		if !c.Policy.OfficeHours.OffHours(f.Time) {
			continue
		}
		c.appendEntry(f.User, f.Date(), session.FileSession{
			Time:      f.Time,
			FileType:  ClassifyFile(f.Filename),
			SizeBytes: len(f.Content),
			WordCount: WordCount(f.Content),
		})
	}
}
