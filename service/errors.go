package service

import "fmt"

// ErrorKind classifies a pipeline failure so the handler can pick the
// response status deterministically.
type ErrorKind int

const (
	// KindInput covers bad uploads and unparseable statements.
	KindInput ErrorKind = iota
	// KindConfig covers server-side misconfiguration: missing template,
	// missing model credential.
	KindConfig
	// KindUpstream covers failures of the hosted model call.
	KindUpstream
)

// PipelineError wraps a stage failure with its classification.
type PipelineError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

func inputErr(op string, err error) *PipelineError {
	return &PipelineError{Kind: KindInput, Op: op, Err: err}
}

func configErr(op string, err error) *PipelineError {
	return &PipelineError{Kind: KindConfig, Op: op, Err: err}
}

func upstreamErr(op string, err error) *PipelineError {
	return &PipelineError{Kind: KindUpstream, Op: op, Err: err}
}
