package event

import (
	"context"

	"github.com/zhaopengme/qqevents/pkg/message"
)

// ReactionType selects the emoji namespace of a reaction.
type ReactionType int

const (
	ReactionSystem ReactionType = 1
	ReactionEmoji  ReactionType = 2
)

func (t ReactionType) Valid() bool {
	return t == ReactionSystem || t == ReactionEmoji
}

type SendResult struct {
	ID string
}

type Announce struct {
	GuildID   string
	ChannelID string
	MessageID string
}

type PinsRecord struct {
	GuildID    string
	ChannelID  string
	MessageIDs []string
}

// Bot is the transport events delegate their capabilities to. Each call
// blocks until the platform answers or ctx is done.
type Bot interface {
	SendPrivateMessage(ctx context.Context, userID string, content message.Sendable, source MessageEvent) (*SendResult, error)
	SendGroupMessage(ctx context.Context, groupID string, content message.Sendable, source MessageEvent) (*SendResult, error)
	SendDirectMessage(ctx context.Context, guildID string, content message.Sendable, source MessageEvent) (*SendResult, error)
	SendGuildMessage(ctx context.Context, channelID string, content message.Sendable, source MessageEvent) (*SendResult, error)

	RecallDirectMessage(ctx context.Context, guildID, messageID string, hideTip bool) error
	RecallGuildMessage(ctx context.Context, channelID, messageID string, hideTip bool) error

	SetChannelAnnounce(ctx context.Context, guildID, channelID, messageID string) (*Announce, error)
	PinChannelMessage(ctx context.Context, channelID, messageID string) (*PinsRecord, error)

	ReactionGuildMessage(ctx context.Context, channelID, messageID string, reactionType ReactionType, emojiID string) error
	DeleteGuildMessageReaction(ctx context.Context, channelID, messageID string, reactionType ReactionType, emojiID string) error
	GetGuildMessageReactionMembers(ctx context.Context, channelID, messageID string, reactionType ReactionType, emojiID string) ([]string, error)
}
