package processor

import (
	"insider-features/internal/aggregator"
	"insider-features/internal/record"
	"insider-features/internal/summary"
)

// LogonHandler resolves the primary device map and buckets every logon. It
// keeps the parsed records for the daily summarizer.
type LogonHandler struct {
	Parser *record.Parser
	Logons []record.Logon
}

func (h *LogonHandler) Stream() string { return aggregator.StreamLogon }

func (h *LogonHandler) Handle(c *aggregator.Context, rows []record.Row) error {
	h.Logons = aggregator.Parse(c, aggregator.StreamLogon, rows, h.Parser.Logon)
	c.Primary = aggregator.ResolvePrimaryDevices(h.Logons)
	aggregator.AggregateLogons(c, h.Logons)
	c.Logger.Info("Logon stage done", "records", len(h.Logons), "users", len(c.Primary))
	return nil
}

type DeviceHandler struct {
	Parser *record.Parser
}

func (h *DeviceHandler) Stream() string { return aggregator.StreamDevice }

func (h *DeviceHandler) Handle(c *aggregator.Context, rows []record.Row) error {
	devices := aggregator.Parse(c, aggregator.StreamDevice, rows, h.Parser.Device)
	aggregator.AggregateDevices(c, devices)
	c.Logger.Info("Device stage done", "records", len(devices))
	return nil
}

type FileHandler struct {
	Parser *record.Parser
}

func (h *FileHandler) Stream() string { return aggregator.StreamFile }

func (h *FileHandler) Handle(c *aggregator.Context, rows []record.Row) error {
	files := aggregator.Parse(c, aggregator.StreamFile, rows, h.Parser.File)
	aggregator.AggregateFiles(c, files)
	c.Logger.Info("File stage done", "records", len(files))
	return nil
}

type EmailHandler struct {
	Parser *record.Parser
}

func (h *EmailHandler) Stream() string { return aggregator.StreamEmail }

func (h *EmailHandler) Handle(c *aggregator.Context, rows []record.Row) error {
	emails := aggregator.Parse(c, aggregator.StreamEmail, rows, h.Parser.Email)
	aggregator.AggregateEmails(c, emails)
	c.Logger.Info("Email stage done", "records", len(emails))
	return nil
}

// HttpHandler writes nothing to the store; its rows come out in Days.
type HttpHandler struct {
	Parser  *record.Parser
	Scorers aggregator.HttpScorers
	Days    []summary.HttpDay
}

func (h *HttpHandler) Stream() string { return aggregator.StreamHttp }

func (h *HttpHandler) Handle(c *aggregator.Context, rows []record.Row) error {
	visits := aggregator.Parse(c, aggregator.StreamHttp, rows, h.Parser.Http)
	h.Days = aggregator.AggregateHttp(c, visits, h.Scorers)
	c.Logger.Info("Http stage done", "records", len(visits), "days", len(h.Days))
	return nil
}
