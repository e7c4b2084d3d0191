package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"insider-features/internal/env"
	"insider-features/internal/record"
	"insider-features/internal/synthetic"
	"insider-features/internal/table"
)

type Flags struct {
	Dir      string
	Seed     uint64
	Users    int
	Insiders int
	Days     int
	Start    string
	Domain   string
}

func parseFlags() Flags {
	var f Flags
	flag.StringVar(&f.Dir, "dir", env.GetEnvString("DATA_DIR", "data"), "output directory")
	flag.Uint64Var(&f.Seed, "seed", uint64(env.GetEnvInt("GENERATOR_SEED", 123)), "random seed")
	flag.IntVar(&f.Users, "users", env.GetEnvInt("GENERATOR_USERS", 20), "number of employees")
	flag.IntVar(&f.Insiders, "insiders", env.GetEnvInt("GENERATOR_INSIDERS", 2), "employees acting as insiders")
	flag.IntVar(&f.Days, "days", env.GetEnvInt("GENERATOR_DAYS", 5), "days of activity")
	flag.StringVar(&f.Start, "start", "2010-01-04", "first day (YYYY-MM-DD)")
	flag.StringVar(&f.Domain, "domain", "dtaa.com", "organisation mail domain")
	flag.Parse()
	return f
}

func main() {
	godotenv.Load(".env")
	flags := parseFlags()

	start, err := time.Parse("2006-01-02", flags.Start)
	if err != nil {
		log.Fatalf("Invalid start day: %v", err)
	}

	data := synthetic.NewGenerator(flags.Seed, synthetic.Config{
		Users:     flags.Users,
		Insiders:  flags.Insiders,
		Days:      flags.Days,
		Start:     start,
		OrgDomain: flags.Domain,
	}).Generate()

	if err := os.MkdirAll(flags.Dir, 0o755); err != nil {
		log.Fatalf("Could not create %s: %v", flags.Dir, err)
	}

	for _, t := range []struct {
		name    string
		columns []string
		rows    []record.Row
	}{
		{"logon.csv", synthetic.LogonColumns, data.Logon},
		{"device.csv", synthetic.DeviceColumns, data.Device},
		{"file.csv", synthetic.FileColumns, data.File},
		{"email.csv", synthetic.EmailColumns, data.Email},
		{"http.csv", synthetic.HttpColumns, data.Http},
	} {
		if err := writeTable(filepath.Join(flags.Dir, t.name), t.columns, t.rows); err != nil {
			log.Fatalf("Error writing %s: %v", t.name, err)
		}
		log.Printf("Wrote %d rows to %s", len(t.rows), t.name)
	}

	for _, e := range data.Employees {
		if e.Insider {
			fmt.Printf("insider: %s (%s)\n", e.ID, e.PC)
		}
	}
}

func writeTable(path string, columns []string, rows []record.Row) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := table.Write(f, columns, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
