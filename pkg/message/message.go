package message

// Type is the origin discriminant stored on every message event.
type Type string

const (
	TypePrivate Type = "private"
	TypeGroup   Type = "group"
	TypeDirect  Type = "direct"
	TypeGuild   Type = "guild"
)

// PermissionNormal is the role every sender holds.
const PermissionNormal = "normal"

type Sender struct {
	UserID      string   `json:"user_id"`
	UserName    string   `json:"user_name"`
	Permissions []string `json:"permissions"`
	UserOpenID  string   `json:"user_openid,omitempty"`
}

// Message holds the canonical fields shared by every message event.
// MessageID mirrors ID for callers that still read message_id.
type Message struct {
	ID          string   `json:"id"`
	MessageID   string   `json:"message_id"`
	UserID      string   `json:"user_id,omitempty"`
	GroupID     string   `json:"group_id,omitempty"`
	GroupName   string   `json:"group_name,omitempty"`
	GuildID     string   `json:"guild_id,omitempty"`
	GuildName   string   `json:"guild_name,omitempty"`
	ChannelID   string   `json:"channel_id,omitempty"`
	ChannelName string   `json:"channel_name,omitempty"`
	Content     Elements `json:"message"`
	RawMessage  string   `json:"raw_message"`
	Sender      Sender   `json:"sender"`
	Timestamp   float64  `json:"timestamp"`
	MessageType Type     `json:"message_type"`
}

// Clone deep-copies the slices so the result can be handed out freely.
func (m Message) Clone() Message {
	m.Content = m.Content.Clone()
	if m.Sender.Permissions != nil {
		m.Sender.Permissions = append([]string(nil), m.Sender.Permissions...)
	}
	return m
}
