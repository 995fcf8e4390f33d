package ui

import "github.com/Anujpy12345/Scam-exposer-bot-render/internal/domain/enums"

const (
	StartPrompt       = "Welcome to Scammer Report Bot! 👮\n\nStep 1: Send the Scammer's @Username (or name):"
	DescriptionPrompt = "Step 2: Describe the scam incident in detail:"
	AmountPrompt      = "Step 3: Enter the Scammed Amount:"
	ProofLinkPrompt   = "Step 4: Send the Proof Link (Telegram channel/msg link):"
	InvalidProofLink  = "❌ Invalid link! Send a valid URL (https://... or t.me/...)"

	SubmittedAck    = "✅ Report submitted! Waiting for Admin review."
	SubmitFailed    = "⚠️ Could not submit your report right now. Send /start to try again."
	CancelledNotice = "Report cancelled. Send /start to begin a new one."
	ApprovedNotice  = "✅ Your report was approved and posted!"
	RejectedNotice  = "❌ Your report was rejected by Admin."

	ReportNotFoundAlert = "Error: Report data not found in memory."
	NotAllowedAlert     = "Only the moderator can decide on reports."
	PublishFailedAlert  = "Channel post failed; the report is still pending. Check the bot permissions and tap Accept again."
	DecisionFailedAlert = "Decision failed, try again."
	UnknownActionAlert  = "Unknown action"

	BroadcastUsage = "Usage: /broadcast <message>"

	ViewProofsButton     = "🔍 View Proofs"
	ChannelProofsButton  = "🖼️ View Proofs"
	ReportedByButton     = "👤 Reported By"
	ApproveButton        = "✅ Accept"
	RejectButton         = "❌ Reject"
	approvedStatusSuffix = "✅ Status: Approved"
	rejectedStatusSuffix = "❌ Status: Rejected"
)

// PromptFor returns the question asked while the user is at step.
func PromptFor(step enums.Step) string {
	switch step {
	case enums.StepAwaitingUsername:
		return StartPrompt
	case enums.StepAwaitingDescription:
		return DescriptionPrompt
	case enums.StepAwaitingAmount:
		return AmountPrompt
	case enums.StepAwaitingProofLink:
		return ProofLinkPrompt
	default:
		return ""
	}
}
