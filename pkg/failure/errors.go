package failure

type Severity int

// pipeline control flow
const (
	SeverityFatal Severity = iota
	SeverityRecoverable
)

// ClassifiedError is the error contract shared by every pipeline stage.
// The pipeline uses Severity to decide whether a failure aborts the run
// or only the current newsletter.
type ClassifiedError interface {
	error
	Severity() Severity
}
