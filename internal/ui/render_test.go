package ui

import (
	"strings"
	"testing"

	"github.com/Anujpy12345/Scam-exposer-bot-render/internal/domain/enums"
	"github.com/Anujpy12345/Scam-exposer-bot-render/internal/domain/model"
)

func TestRenderModeratorCard(t *testing.T) {
	report := model.PendingReport{
		ReporterID: 42,
		Draft: model.Draft{
			ScammerIdentity: "@scammer_1",
			Description:     "lost money",
			Amount:          "500",
			ProofLink:       "https://t.me/proof/1",
		},
	}

	text := RenderModeratorCard(report)

	required := []string{
		"New Scam Report Submitted",
		"[User Link](tg://user?id=42)",
		"🕵️ *Scammer:* @scammer\\_1",
		"💰 *Amount:* 500",
		"📝 *Info:* lost money",
	}
	for _, token := range required {
		if !strings.Contains(text, token) {
			t.Fatalf("expected card to contain %q; got:\n%s", token, text)
		}
	}
}

func TestRenderChannelPost(t *testing.T) {
	report := model.PendingReport{
		ReporterID: 7,
		Draft: model.Draft{
			ScammerIdentity: "bad*guy",
			Description:     "fake escrow",
			Amount:          "1000 USDT",
			ProofLink:       "t.me/proofs/9",
		},
	}

	text := RenderChannelPost(report)
	if !strings.Contains(text, "SCAMMER ALERT") {
		t.Fatalf("missing alert header:\n%s", text)
	}
	if !strings.Contains(text, "bad\\*guy") {
		t.Fatalf("expected markdown-escaped scammer identity:\n%s", text)
	}
	if !strings.Contains(text, "1000 USDT") || !strings.Contains(text, "fake escrow") {
		t.Fatalf("missing report fields:\n%s", text)
	}
}

func TestWithStatus(t *testing.T) {
	if got := WithStatus("card", enums.DecisionApprove); got != "card\n\n✅ Status: Approved" {
		t.Fatalf("unexpected approved text: %q", got)
	}
	if got := WithStatus("card", enums.DecisionReject); got != "card\n\n❌ Status: Rejected" {
		t.Fatalf("unexpected rejected text: %q", got)
	}
	if got := WithStatus("", enums.DecisionReject); got != "❌ Status: Rejected" {
		t.Fatalf("unexpected text for empty card: %q", got)
	}
}

func TestPromptFor(t *testing.T) {
	if PromptFor(enums.StepAwaitingAmount) != AmountPrompt {
		t.Fatal("unexpected amount prompt")
	}
	if PromptFor(enums.Step("unknown")) != "" {
		t.Fatal("expected empty prompt for unknown step")
	}
}

func TestProofURL(t *testing.T) {
	cases := map[string]string{
		"t.me/proofs/9":         "https://t.me/proofs/9",
		"https://t.me/proofs/9": "https://t.me/proofs/9",
		"http://example.com":    "http://example.com",
	}
	for in, want := range cases {
		if got := ProofURL(in); got != want {
			t.Fatalf("ProofURL(%q) = %q, want %q", in, got, want)
		}
	}
}
