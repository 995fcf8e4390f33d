package enums

// Step is the position of a user inside the report form.
type Step string

const (
	StepAwaitingUsername    Step = "AWAITING_USERNAME"
	StepAwaitingDescription Step = "AWAITING_DESCRIPTION"
	StepAwaitingAmount      Step = "AWAITING_AMOUNT"
	StepAwaitingProofLink   Step = "AWAITING_PROOF_LINK"
)

// Next returns the step that follows s. The last step has no successor.
func (s Step) Next() (Step, bool) {
	switch s {
	case StepAwaitingUsername:
		return StepAwaitingDescription, true
	case StepAwaitingDescription:
		return StepAwaitingAmount, true
	case StepAwaitingAmount:
		return StepAwaitingProofLink, true
	default:
		return "", false
	}
}
