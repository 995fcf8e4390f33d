package ui

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Anujpy12345/Scam-exposer-bot-render/internal/domain/enums"
	"github.com/Anujpy12345/Scam-exposer-bot-render/internal/domain/model"
)

const channelRule = "➖➖➖➖➖➖➖➖➖➖➖➖➖➖"

func ReporterLink(userID int64) string {
	return fmt.Sprintf("tg://user?id=%d", userID)
}

// RenderModeratorCard renders the Markdown card sent to the moderator.
func RenderModeratorCard(report model.PendingReport) string {
	lines := []string{
		"📩 *New Scam Report Submitted*",
		"",
		fmt.Sprintf("👤 *Reporter:* [User Link](%s)", ReporterLink(report.ReporterID)),
		"🕵️ *Scammer:* " + escape(report.Draft.ScammerIdentity),
		"💰 *Amount:* " + escape(report.Draft.Amount),
		"📝 *Info:* " + escape(report.Draft.Description),
	}
	return strings.Join(lines, "\n")
}

// RenderModeratorCardWithLink is the card used when the proof link cannot be
// attached as a URL button.
func RenderModeratorCardWithLink(report model.PendingReport) string {
	return RenderModeratorCard(report) + "\n📎 *Proofs:* " + escape(report.Draft.ProofLink)
}

// RenderChannelPost renders the public alert for an approved report.
func RenderChannelPost(report model.PendingReport) string {
	lines := []string{
		channelRule,
		"🚨 *SCAMMER ALERT*",
		channelRule,
		"",
		"🕵️ *Scammer:* " + escape(report.Draft.ScammerIdentity),
		"💰 *Scammed Amount:* " + escape(report.Draft.Amount),
		"📝 *Details:* " + escape(report.Draft.Description),
	}
	return strings.Join(lines, "\n")
}

// WithStatus appends the decision status to the moderator card text.
func WithStatus(text string, action enums.DecisionAction) string {
	suffix := rejectedStatusSuffix
	if action == enums.DecisionApprove {
		suffix = approvedStatusSuffix
	}
	if strings.TrimSpace(text) == "" {
		return suffix
	}
	return text + "\n\n" + suffix
}

func RenderStats(total int) string {
	return fmt.Sprintf("📊 Total Users: %d", total)
}

func RenderBroadcastResult(sent int) string {
	return fmt.Sprintf("📢 Broadcast sent to %d users.", sent)
}

func escape(value string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, value)
}

// ProofURL makes a proof link usable as a button target; Telegram refuses
// button URLs without a scheme.
func ProofURL(link string) string {
	if strings.HasPrefix(link, "t.me") {
		return "https://" + link
	}
	return link
}
