package models

import "time"

type SubmissionState string

const (
	SubmissionStateOpen      SubmissionState = "open"
	SubmissionStateSubmitted SubmissionState = "submitted"
)

type PillarSubmission struct {
	PillarKey   string          `json:"pillar_key"`
	State       SubmissionState `json:"state"`
	Locked      bool            `json:"locked"`
	SubmittedAt *time.Time      `json:"submitted_at,omitempty"`
}

// Outcome is the classified result of a lock transition request.
type Outcome int

const (
	OutcomeFailure Outcome = iota
	OutcomeSuccess
	OutcomeAlreadyDone
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeAlreadyDone:
		return "already_done"
	default:
		return "failure"
	}
}

// Locks reports whether the outcome moves a submission to its terminal state.
func (o Outcome) Locks() bool {
	return o == OutcomeSuccess || o == OutcomeAlreadyDone
}
