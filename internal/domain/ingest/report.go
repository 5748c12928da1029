// Package ingest holds the outcome types of a catalog import.
package ingest

// Rejection is a source row that was not imported.
type Rejection struct {
	line int
	id   string
	err  error
}

// NewRejection records that the row at line (1-based, header included) was skipped.
func NewRejection(line int, id string, err error) Rejection {
	return Rejection{line: line, id: id, err: err}
}

// Line returns the source line of the row.
func (r Rejection) Line() int { return r.line }

// ID returns the row's record id, if it had one.
func (r Rejection) ID() string { return r.id }

// Err returns the reason the row was skipped.
func (r Rejection) Err() error { return r.err }

// Report summarizes one import run.
type Report struct {
	Rows     int
	Imported int
	Batches  int
	Rejected []Rejection
}

// Skipped returns the number of rejected rows.
func (r Report) Skipped() int { return len(r.Rejected) }
