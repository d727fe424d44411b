package event

import (
	"context"
	"sync"

	"github.com/zhaopengme/qqevents/pkg/message"
)

type botCall struct {
	Method       string
	Target       string
	MessageID    string
	Content      message.Sendable
	Source       MessageEvent
	HideTip      bool
	ReactionType ReactionType
	EmojiID      string
	GuildID      string
}

type fakeBot struct {
	mu    sync.Mutex
	calls []botCall
	err   error
}

func (b *fakeBot) record(c botCall) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, c)
}

func (b *fakeBot) last() botCall {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.calls) == 0 {
		return botCall{}
	}
	return b.calls[len(b.calls)-1]
}

func (b *fakeBot) send(method, target string, content message.Sendable, source MessageEvent) (*SendResult, error) {
	b.record(botCall{Method: method, Target: target, Content: content, Source: source})
	if b.err != nil {
		return nil, b.err
	}
	return &SendResult{ID: "reply-1"}, nil
}

func (b *fakeBot) SendPrivateMessage(_ context.Context, userID string, content message.Sendable, source MessageEvent) (*SendResult, error) {
	return b.send("SendPrivateMessage", userID, content, source)
}

func (b *fakeBot) SendGroupMessage(_ context.Context, groupID string, content message.Sendable, source MessageEvent) (*SendResult, error) {
	return b.send("SendGroupMessage", groupID, content, source)
}

func (b *fakeBot) SendDirectMessage(_ context.Context, guildID string, content message.Sendable, source MessageEvent) (*SendResult, error) {
	return b.send("SendDirectMessage", guildID, content, source)
}

func (b *fakeBot) SendGuildMessage(_ context.Context, channelID string, content message.Sendable, source MessageEvent) (*SendResult, error) {
	return b.send("SendGuildMessage", channelID, content, source)
}

func (b *fakeBot) RecallDirectMessage(_ context.Context, guildID, messageID string, hideTip bool) error {
	b.record(botCall{Method: "RecallDirectMessage", Target: guildID, MessageID: messageID, HideTip: hideTip})
	return b.err
}

func (b *fakeBot) RecallGuildMessage(_ context.Context, channelID, messageID string, hideTip bool) error {
	b.record(botCall{Method: "RecallGuildMessage", Target: channelID, MessageID: messageID, HideTip: hideTip})
	return b.err
}

func (b *fakeBot) SetChannelAnnounce(_ context.Context, guildID, channelID, messageID string) (*Announce, error) {
	b.record(botCall{Method: "SetChannelAnnounce", Target: channelID, GuildID: guildID, MessageID: messageID})
	if b.err != nil {
		return nil, b.err
	}
	return &Announce{GuildID: guildID, ChannelID: channelID, MessageID: messageID}, nil
}

func (b *fakeBot) PinChannelMessage(_ context.Context, channelID, messageID string) (*PinsRecord, error) {
	b.record(botCall{Method: "PinChannelMessage", Target: channelID, MessageID: messageID})
	if b.err != nil {
		return nil, b.err
	}
	return &PinsRecord{ChannelID: channelID, MessageIDs: []string{messageID}}, nil
}

func (b *fakeBot) ReactionGuildMessage(_ context.Context, channelID, messageID string, reactionType ReactionType, emojiID string) error {
	b.record(botCall{Method: "ReactionGuildMessage", Target: channelID, MessageID: messageID, ReactionType: reactionType, EmojiID: emojiID})
	return b.err
}

func (b *fakeBot) DeleteGuildMessageReaction(_ context.Context, channelID, messageID string, reactionType ReactionType, emojiID string) error {
	b.record(botCall{Method: "DeleteGuildMessageReaction", Target: channelID, MessageID: messageID, ReactionType: reactionType, EmojiID: emojiID})
	return b.err
}

func (b *fakeBot) GetGuildMessageReactionMembers(_ context.Context, channelID, messageID string, reactionType ReactionType, emojiID string) ([]string, error) {
	b.record(botCall{Method: "GetGuildMessageReactionMembers", Target: channelID, MessageID: messageID, ReactionType: reactionType, EmojiID: emojiID})
	if b.err != nil {
		return nil, b.err
	}
	return []string{"U1", "U2"}, nil
}
