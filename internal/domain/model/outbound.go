package model

// Button is an inline action. Exactly one of URL or Data is set.
type Button struct {
	Text string
	URL  string
	Data string
}

// OutboundMessage targets either a chat id or a channel handle such as "@name".
type OutboundMessage struct {
	ChatID   int64
	Channel  string
	Text     string
	Markdown bool
	Buttons  [][]Button
}

type MessageRef struct {
	ChatID    int64
	MessageID int
}
