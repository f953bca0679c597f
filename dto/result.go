package dto

// SourceImage is one uploaded file. It is only ever read; working buffers
// are derived copies.
type SourceImage struct {
	Data     []byte
	MimeType string
	Filename string
}

// ConversionResult is the output of a single conversion. MetBudget reports
// whether a requested byte budget was actually reached; without a budget it
// is trivially true.
type ConversionResult struct {
	Data      []byte
	MimeType  string
	Filename  string
	MetBudget bool
}

// FileResult records the per-file outcome inside a batch. A non-nil Err
// means the file was skipped and has no archive entry.
type FileResult struct {
	Filename string
	Err      error
}

// BatchOutcome is the aggregate batch result: the finalized archive plus one
// FileResult per submitted file, in input order.
type BatchOutcome struct {
	Archive []byte
	Files   []FileResult
}

// Failed counts the files that were skipped.
func (b *BatchOutcome) Failed() int {
	n := 0
	for _, f := range b.Files {
		if f.Err != nil {
			n++
		}
	}
	return n
}

// ErrorResponse is the JSON error body returned by the HTTP layer.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	TraceID string `json:"trace_id,omitempty"`
}
