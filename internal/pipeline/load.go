package pipeline

import (
	"fmt"

	"insider-features/internal/record"
	"insider-features/internal/table"
)

// Sources names the CSV file of each stream. An empty path leaves the stream
// empty.
type Sources struct {
	Logon  string
	Device string
	File   string
	Email  string
	Http   string
}

func Load(src Sources) (Dataset, error) {
	var data Dataset
	for _, f := range []struct {
		path string
		into *[]record.Row
	}{
		{src.Logon, &data.Logon},
		{src.Device, &data.Device},
		{src.File, &data.File},
		{src.Email, &data.Email},
		{src.Http, &data.Http},
	} {
		if f.path == "" {
			continue
		}
		rows, err := table.Load(f.path)
		if err != nil {
			return Dataset{}, fmt.Errorf("load dataset: %w", err)
		}
		*f.into = rows
	}
	return data, nil
}
