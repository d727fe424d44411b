package event

import (
	"context"
	"fmt"

	"github.com/zhaopengme/qqevents/pkg/message"
)

// MessageEvent is implemented by the four message event variants only.
type MessageEvent interface {
	MessageType() message.Type
	// Message returns a copy of the canonical fields.
	Message() message.Message
	// Reply sends content back to the origin of the event. With quote set
	// the triggering message is referenced.
	Reply(ctx context.Context, content message.Sendable, quote bool) (*SendResult, error)

	sealed()
}

// Recaller is implemented by events whose triggering message can be withdrawn.
type Recaller interface {
	MessageEvent
	Recall(ctx context.Context, hideTip bool) error
}

// GuildActions is the capability set only guild channel messages expose.
type GuildActions interface {
	Recaller
	AsAnnounce(ctx context.Context) (*Announce, error)
	Pin(ctx context.Context) (*PinsRecord, error)
	Reaction(ctx context.Context, reactionType ReactionType, emojiID string) error
	DeleteReaction(ctx context.Context, reactionType ReactionType, emojiID string) error
	GetReactionMembers(ctx context.Context, reactionType ReactionType, emojiID string) ([]string, error)
}

var (
	_ MessageEvent = (*PrivateMessageEvent)(nil)
	_ MessageEvent = (*GroupMessageEvent)(nil)
	_ Recaller     = (*DirectMessageEvent)(nil)
	_ GuildActions = (*GuildMessageEvent)(nil)
)

// baseEvent carries the state shared by all variants. Fields are unexported
// so an event cannot be changed once built.
type baseEvent struct {
	bot Bot
	msg message.Message
}

func (e *baseEvent) sealed() {}

func (e *baseEvent) MessageType() message.Type { return e.msg.MessageType }

func (e *baseEvent) Message() message.Message { return e.msg.Clone() }

func (e *baseEvent) ID() string { return e.msg.ID }

func (e *baseEvent) MessageID() string { return e.msg.MessageID }

func (e *baseEvent) UserID() string { return e.msg.UserID }

func (e *baseEvent) RawMessage() string { return e.msg.RawMessage }

func (e *baseEvent) Timestamp() float64 { return e.msg.Timestamp }

func (e *baseEvent) Sender() message.Sender { return e.msg.Clone().Sender }

func (e *baseEvent) Content() message.Elements { return e.msg.Content.Clone() }

func (e *baseEvent) quoted(content message.Sendable, quote bool) message.Sendable {
	if !quote {
		return content
	}
	out := make(message.Sendable, 0, len(content)+1)
	out = append(out, message.Reply(e.msg.ID))
	return append(out, content...)
}

type PrivateMessageEvent struct {
	baseEvent
}

func (e *PrivateMessageEvent) Reply(ctx context.Context, content message.Sendable, quote bool) (*SendResult, error) {
	return e.bot.SendPrivateMessage(ctx, e.msg.UserID, e.quoted(content, quote), e)
}

type GroupMessageEvent struct {
	baseEvent
}

func (e *GroupMessageEvent) GroupID() string   { return e.msg.GroupID }
func (e *GroupMessageEvent) GroupName() string { return e.msg.GroupName }

func (e *GroupMessageEvent) Reply(ctx context.Context, content message.Sendable, quote bool) (*SendResult, error) {
	return e.bot.SendGroupMessage(ctx, e.msg.GroupID, e.quoted(content, quote), e)
}

type DirectMessageEvent struct {
	baseEvent
}

func (e *DirectMessageEvent) GuildID() string   { return e.msg.GuildID }
func (e *DirectMessageEvent) ChannelID() string { return e.msg.ChannelID }

func (e *DirectMessageEvent) Reply(ctx context.Context, content message.Sendable, quote bool) (*SendResult, error) {
	return e.bot.SendDirectMessage(ctx, e.msg.GuildID, e.quoted(content, quote), e)
}

// Recall withdraws the triggering direct message.
func (e *DirectMessageEvent) Recall(ctx context.Context, hideTip bool) error {
	return e.bot.RecallDirectMessage(ctx, e.msg.GuildID, e.msg.MessageID, hideTip)
}

type GuildMessageEvent struct {
	baseEvent
}

func (e *GuildMessageEvent) GuildID() string     { return e.msg.GuildID }
func (e *GuildMessageEvent) GuildName() string   { return e.msg.GuildName }
func (e *GuildMessageEvent) ChannelID() string   { return e.msg.ChannelID }
func (e *GuildMessageEvent) ChannelName() string { return e.msg.ChannelName }

func (e *GuildMessageEvent) Reply(ctx context.Context, content message.Sendable, quote bool) (*SendResult, error) {
	return e.bot.SendGuildMessage(ctx, e.msg.ChannelID, e.quoted(content, quote), e)
}

// Recall withdraws the triggering channel message.
func (e *GuildMessageEvent) Recall(ctx context.Context, hideTip bool) error {
	return e.bot.RecallGuildMessage(ctx, e.msg.ChannelID, e.msg.MessageID, hideTip)
}

// AsAnnounce promotes the triggering message to a channel announcement.
func (e *GuildMessageEvent) AsAnnounce(ctx context.Context) (*Announce, error) {
	return e.bot.SetChannelAnnounce(ctx, e.msg.GuildID, e.msg.ChannelID, e.msg.ID)
}

func (e *GuildMessageEvent) Pin(ctx context.Context) (*PinsRecord, error) {
	return e.bot.PinChannelMessage(ctx, e.msg.ChannelID, e.msg.ID)
}

func (e *GuildMessageEvent) Reaction(ctx context.Context, reactionType ReactionType, emojiID string) error {
	if err := checkReaction(reactionType, emojiID); err != nil {
		return err
	}
	return e.bot.ReactionGuildMessage(ctx, e.msg.ChannelID, e.msg.MessageID, reactionType, emojiID)
}

func (e *GuildMessageEvent) DeleteReaction(ctx context.Context, reactionType ReactionType, emojiID string) error {
	if err := checkReaction(reactionType, emojiID); err != nil {
		return err
	}
	return e.bot.DeleteGuildMessageReaction(ctx, e.msg.ChannelID, e.msg.MessageID, reactionType, emojiID)
}

// GetReactionMembers lists the ids of users who reacted with the emoji.
func (e *GuildMessageEvent) GetReactionMembers(ctx context.Context, reactionType ReactionType, emojiID string) ([]string, error) {
	if err := checkReaction(reactionType, emojiID); err != nil {
		return nil, err
	}
	return e.bot.GetGuildMessageReactionMembers(ctx, e.msg.ChannelID, e.msg.MessageID, reactionType, emojiID)
}

func checkReaction(reactionType ReactionType, emojiID string) error {
	if !reactionType.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidReactionType, reactionType)
	}
	if emojiID == "" {
		return fmt.Errorf("%w: empty emoji id", ErrInvalidReactionType)
	}
	return nil
}
