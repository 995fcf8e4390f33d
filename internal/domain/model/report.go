package model

import (
	"time"

	"github.com/google/uuid"
)

// Draft is a report that is still being filled in by its author.
type Draft struct {
	ScammerIdentity string `json:"scammer"`
	Description     string `json:"description"`
	Amount          string `json:"amount"`
	ProofLink       string `json:"proof_link"`
}

func (d Draft) Complete() bool {
	return d.ScammerIdentity != "" && d.Description != "" && d.Amount != "" && d.ProofLink != ""
}

// PendingReport is a completed draft waiting for the moderator.
type PendingReport struct {
	ID          uuid.UUID `json:"id"`
	ReporterID  int64     `json:"reporter_id"`
	Draft       Draft     `json:"draft"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type ReportEvent struct {
	Type            string    `json:"type"`
	ReportID        uuid.UUID `json:"report_id"`
	ReporterID      int64     `json:"reporter_id"`
	ScammerIdentity string    `json:"scammer,omitempty"`
	Amount          string    `json:"amount,omitempty"`
	ActorID         int64     `json:"actor_id,omitempty"`
	OccurredAt      time.Time `json:"occurred_at"`
}
