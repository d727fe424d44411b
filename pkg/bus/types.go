package bus

// InboundMessage is a classified platform message as seen by consumers of
// the bus. ChatID carries the routing prefix (private:, group:, guild:,
// direct:) that Send understands on the way back.
type InboundMessage struct {
	Channel     string            `json:"channel"`
	MessageType string            `json:"message_type"`
	MessageID   string            `json:"message_id"`
	SenderID    string            `json:"sender_id"`
	ChatID      string            `json:"chat_id"`
	Content     string            `json:"content"`
	Media       []string          `json:"media,omitempty"`
	SessionKey  string            `json:"session_key"`
	Timestamp   float64           `json:"timestamp"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type OutboundMessage struct {
	Channel string `json:"channel"`
	ChatID  string `json:"chat_id"`
	Content string `json:"content"`
	// ReplyTo is the id of the message being answered, used for passive replies.
	ReplyTo  string            `json:"reply_to,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}
