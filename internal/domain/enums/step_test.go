package enums

import "testing"

func TestStepOrder(t *testing.T) {
	order := []Step{
		StepAwaitingUsername,
		StepAwaitingDescription,
		StepAwaitingAmount,
		StepAwaitingProofLink,
	}

	for i := 0; i < len(order)-1; i++ {
		next, ok := order[i].Next()
		if !ok || next != order[i+1] {
			t.Fatalf("unexpected successor of %s: %s (ok=%v)", order[i], next, ok)
		}
	}

	if _, ok := StepAwaitingProofLink.Next(); ok {
		t.Fatal("proof link step must be the last one")
	}
}

func TestParseDecisionAction(t *testing.T) {
	if got, ok := ParseDecisionAction("Approve"); !ok || got != DecisionApprove {
		t.Fatalf("unexpected approve parse: %q %v", got, ok)
	}
	if got, ok := ParseDecisionAction("reject"); !ok || got != DecisionReject {
		t.Fatalf("unexpected reject parse: %q %v", got, ok)
	}
	if _, ok := ParseDecisionAction("ban"); ok {
		t.Fatal("expected unknown action to fail")
	}
}
