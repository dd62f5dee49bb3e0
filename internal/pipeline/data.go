package pipeline

import "time"

// IngestStats is the terminal summary of one ingest run. Counters are
// derived from pipeline state after termination; the recorder never
// accumulates them.
type IngestStats struct {
	processed int
	skipped   int
	unmapped  int
	errors    int
	queued    int
}

func (s IngestStats) GetProcessed() int {
	return s.processed
}

func (s IngestStats) GetSkipped() int {
	return s.skipped
}

func (s IngestStats) GetUnmapped() int {
	return s.unmapped
}

func (s IngestStats) GetErrors() int {
	return s.errors
}

func (s IngestStats) GetQueued() int {
	return s.queued
}

// IngestExecution is the result of one ingest run, mail or scrape.
// ReportPath is empty when no unmapped-sender report was written.
type IngestExecution struct {
	stats      IngestStats
	reportPath string
}

func (e *IngestExecution) GetStats() IngestStats {
	return e.stats
}

func (e *IngestExecution) GetReportPath() string {
	return e.reportPath
}

// unmappedEntry holds what the unmapped-sender report prints per message.
type unmappedEntry struct {
	from    string
	subject string
	date    time.Time
}
