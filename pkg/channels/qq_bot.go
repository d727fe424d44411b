package channels

import (
	"context"
	"fmt"
	"strconv"

	"github.com/tencent-connect/botgo/dto"
	"github.com/tencent-connect/botgo/openapi/options"

	"github.com/zhaopengme/qqevents/pkg/event"
	"github.com/zhaopengme/qqevents/pkg/message"
)

// The methods below implement event.Bot on top of the QQ OpenAPI. Errors are
// wrapped with the operation name and never retried.

func (c *QQChannel) SendPrivateMessage(ctx context.Context, userID string, content message.Sendable, source event.MessageEvent) (*event.SendResult, error) {
	return c.post(ctx, message.TypePrivate, userID, content, sourceID(source))
}

func (c *QQChannel) SendGroupMessage(ctx context.Context, groupID string, content message.Sendable, source event.MessageEvent) (*event.SendResult, error) {
	return c.post(ctx, message.TypeGroup, groupID, content, sourceID(source))
}

func (c *QQChannel) SendDirectMessage(ctx context.Context, guildID string, content message.Sendable, source event.MessageEvent) (*event.SendResult, error) {
	return c.post(ctx, message.TypeDirect, guildID, content, sourceID(source))
}

func (c *QQChannel) SendGuildMessage(ctx context.Context, channelID string, content message.Sendable, source event.MessageEvent) (*event.SendResult, error) {
	return c.post(ctx, message.TypeGuild, channelID, content, sourceID(source))
}

func (c *QQChannel) post(ctx context.Context, kind message.Type, target string, content message.Sendable, replyTo string) (*event.SendResult, error) {
	if c.api == nil {
		return nil, fmt.Errorf("QQ bot not started")
	}

	msg := buildMessageToCreate(content, replyTo)

	var (
		resp *dto.Message
		err  error
	)
	switch kind {
	case message.TypePrivate:
		resp, err = c.api.PostC2CMessage(ctx, target, msg)
	case message.TypeGroup:
		resp, err = c.api.PostGroupMessage(ctx, target, msg)
	case message.TypeDirect:
		resp, err = c.api.PostDirectMessage(ctx, &dto.DirectMessage{GuildID: target}, msg)
	case message.TypeGuild:
		resp, err = c.api.PostMessage(ctx, target, msg)
	default:
		return nil, fmt.Errorf("unsupported message type %q", kind)
	}
	if err != nil {
		return nil, fmt.Errorf("send %s message to %s: %w", kind, target, err)
	}

	result := &event.SendResult{}
	if resp != nil {
		result.ID = resp.ID
	}
	return result, nil
}

func (c *QQChannel) RecallDirectMessage(ctx context.Context, guildID, messageID string, hideTip bool) error {
	if c.api == nil {
		return fmt.Errorf("QQ bot not started")
	}
	if err := c.api.RetractDMMessage(ctx, guildID, messageID, retractOptions(hideTip)...); err != nil {
		return fmt.Errorf("recall direct message %s: %w", messageID, err)
	}
	return nil
}

func (c *QQChannel) RecallGuildMessage(ctx context.Context, channelID, messageID string, hideTip bool) error {
	if c.api == nil {
		return fmt.Errorf("QQ bot not started")
	}
	if err := c.api.RetractMessage(ctx, channelID, messageID, retractOptions(hideTip)...); err != nil {
		return fmt.Errorf("recall channel message %s: %w", messageID, err)
	}
	return nil
}

func (c *QQChannel) SetChannelAnnounce(ctx context.Context, guildID, channelID, messageID string) (*event.Announce, error) {
	if c.api == nil {
		return nil, fmt.Errorf("QQ bot not started")
	}
	resp, err := c.api.CreateGuildAnnounces(ctx, guildID, &dto.GuildAnnouncesToCreate{
		ChannelID: channelID,
		MessageID: messageID,
	})
	if err != nil {
		return nil, fmt.Errorf("set announce %s: %w", messageID, err)
	}
	return &event.Announce{
		GuildID:   resp.GuildID,
		ChannelID: resp.ChannelID,
		MessageID: resp.MessageID,
	}, nil
}

func (c *QQChannel) PinChannelMessage(ctx context.Context, channelID, messageID string) (*event.PinsRecord, error) {
	if c.api == nil {
		return nil, fmt.Errorf("QQ bot not started")
	}
	resp, err := c.api.AddPins(ctx, channelID, messageID)
	if err != nil {
		return nil, fmt.Errorf("pin message %s: %w", messageID, err)
	}
	return &event.PinsRecord{
		GuildID:    resp.GuildID,
		ChannelID:  resp.ChannelID,
		MessageIDs: resp.MessageIDs,
	}, nil
}

func (c *QQChannel) ReactionGuildMessage(ctx context.Context, channelID, messageID string, reactionType event.ReactionType, emojiID string) error {
	if c.api == nil {
		return fmt.Errorf("QQ bot not started")
	}
	if err := c.api.CreateMessageReaction(ctx, channelID, messageID, toEmoji(reactionType, emojiID)); err != nil {
		return fmt.Errorf("add reaction to %s: %w", messageID, err)
	}
	return nil
}

func (c *QQChannel) DeleteGuildMessageReaction(ctx context.Context, channelID, messageID string, reactionType event.ReactionType, emojiID string) error {
	if c.api == nil {
		return fmt.Errorf("QQ bot not started")
	}
	if err := c.api.DeleteOwnMessageReaction(ctx, channelID, messageID, toEmoji(reactionType, emojiID)); err != nil {
		return fmt.Errorf("delete reaction on %s: %w", messageID, err)
	}
	return nil
}

// GetGuildMessageReactionMembers follows the paging cookie until the
// platform reports the end of the list.
func (c *QQChannel) GetGuildMessageReactionMembers(ctx context.Context, channelID, messageID string, reactionType event.ReactionType, emojiID string) ([]string, error) {
	if c.api == nil {
		return nil, fmt.Errorf("QQ bot not started")
	}

	pageSize := c.config.ReactionPageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	emoji := toEmoji(reactionType, emojiID)
	pager := &dto.MessageReactionPager{Limit: strconv.Itoa(pageSize)}

	var members []string
	for {
		page, err := c.api.GetMessageReactionUsers(ctx, channelID, messageID, emoji, pager)
		if err != nil {
			return nil, fmt.Errorf("list reaction users on %s: %w", messageID, err)
		}
		for _, u := range page.Users {
			if u != nil {
				members = append(members, u.ID)
			}
		}
		if page.IsEnd || page.Cookie == "" || len(page.Users) == 0 {
			return members, nil
		}
		pager.Cookie = page.Cookie
	}
}

func buildMessageToCreate(content message.Sendable, replyTo string) *dto.MessageToCreate {
	msg := &dto.MessageToCreate{
		Content: content.String(),
		MsgID:   replyTo,
	}
	if id := content.QuotedID(); id != "" {
		msg.MessageReference = &dto.MessageReference{
			MessageID:             id,
			IgnoreGetMessageError: true,
		}
	}
	if media, ok := content.FirstMedia(); ok && media.Type == message.SegmentImage {
		msg.Image = media.URL
	}
	return msg
}

func retractOptions(hideTip bool) []options.Option {
	if hideTip {
		return []options.Option{options.WithHideTip()}
	}
	return nil
}

func toEmoji(reactionType event.ReactionType, emojiID string) dto.Emoji {
	return dto.Emoji{ID: emojiID, Type: int(reactionType)}
}

func sourceID(source event.MessageEvent) string {
	if source == nil {
		return ""
	}
	return source.Message().ID
}
