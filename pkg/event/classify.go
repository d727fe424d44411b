package event

import (
	"fmt"

	"github.com/zhaopengme/qqevents/pkg/message"
)

// Event kinds accepted by Classify.
const (
	KindPrivate = "message.private"
	KindGroup   = "message.group"
	KindGuild   = "message.guild"
	KindDirect  = "message.direct"
)

// LogFunc receives one informational line per classified event.
type LogFunc func(msg string)

// ContentParser turns a message body into structured content and a brief.
type ContentParser func(content string, attachments []message.Attachment) (message.Elements, string)

type options struct {
	selfID string
	log    LogFunc
	parse  ContentParser
}

type Option func(*options)

// WithSelfID sets the bot user id whose mention tokens are stripped.
func WithSelfID(id string) Option {
	return func(o *options) { o.selfID = id }
}

func WithLogger(fn LogFunc) Option {
	return func(o *options) { o.log = fn }
}

// WithContentParser replaces message.Parse. A nil parser is ignored.
func WithContentParser(fn ContentParser) Option {
	return func(o *options) {
		if fn != nil {
			o.parse = fn
		}
	}
}

type builder struct {
	msgType  message.Type
	validate func(p *Payload) error
	fill     func(m *message.Message, p *Payload)
	build    func(base baseEvent) MessageEvent
	describe func(m *message.Message) string
}

var builders = map[string]builder{
	KindPrivate: {
		msgType:  message.TypePrivate,
		validate: func(*Payload) error { return nil },
		fill:     func(*message.Message, *Payload) {},
		build:    func(b baseEvent) MessageEvent { return &PrivateMessageEvent{b} },
		describe: func(m *message.Message) string { return fmt.Sprintf("User(%s)", m.UserID) },
	},
	KindGroup: {
		msgType:  message.TypeGroup,
		validate: func(p *Payload) error { return requireField("group_id", p.groupID()) },
		fill: func(m *message.Message, p *Payload) {
			m.GroupID = p.groupID()
			m.GroupName = p.GroupName
		},
		build:    func(b baseEvent) MessageEvent { return &GroupMessageEvent{b} },
		describe: func(m *message.Message) string { return fmt.Sprintf("Group(%s)", m.GroupID) },
	},
	KindGuild: {
		msgType: message.TypeGuild,
		validate: func(p *Payload) error {
			if err := requireField("guild_id", p.GuildID); err != nil {
				return err
			}
			return requireField("channel_id", p.ChannelID)
		},
		fill: func(m *message.Message, p *Payload) {
			m.GuildID = p.GuildID
			m.GuildName = p.GuildName
			m.ChannelID = p.ChannelID
			m.ChannelName = p.ChannelName
		},
		build: func(b baseEvent) MessageEvent { return &GuildMessageEvent{b} },
		describe: func(m *message.Message) string {
			return fmt.Sprintf("Guild(%s)Channel(%s)", m.GuildID, m.ChannelID)
		},
	},
	KindDirect: {
		msgType:  message.TypeDirect,
		validate: func(p *Payload) error { return requireField("guild_id", p.GuildID) },
		fill: func(m *message.Message, p *Payload) {
			m.GuildID = p.GuildID
			m.ChannelID = p.ChannelID
		},
		build:    func(b baseEvent) MessageEvent { return &DirectMessageEvent{b} },
		describe: func(m *message.Message) string { return fmt.Sprintf("Direct(%s)", m.GuildID) },
	},
}

func requireField(field, value string) error {
	if value == "" {
		return fmt.Errorf("%w: missing %s", ErrMalformedPayload, field)
	}
	return nil
}

// Classify builds the message event matching kind from a raw payload. The
// payload is only read; the returned event shares no memory with it.
func Classify(bot Bot, kind string, payload *Payload, opts ...Option) (MessageEvent, error) {
	o := options{parse: message.Parse}
	for _, opt := range opts {
		opt(&o)
	}

	b, ok := builders[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnrecognizedEventKind, kind)
	}

	if payload == nil {
		return nil, fmt.Errorf("%w: nil payload", ErrMalformedPayload)
	}
	if err := requireField("id", payload.ID); err != nil {
		return nil, err
	}
	if payload.Author == nil {
		return nil, fmt.Errorf("%w: missing author", ErrMalformedPayload)
	}
	if err := requireField("author.id", payload.Author.ID); err != nil {
		return nil, err
	}
	if err := b.validate(payload); err != nil {
		return nil, err
	}

	ts, err := ParseTimestamp(payload.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	body := message.StripSelfMentions(payload.Content, o.selfID)
	content, brief := o.parse(body, payload.Attachments)

	msg := message.Message{
		ID:         payload.ID,
		MessageID:  payload.ID,
		UserID:     payload.Author.ID,
		Content:    content.Clone(),
		RawMessage: brief,
		Sender: message.Sender{
			UserID:      payload.Author.ID,
			UserName:    payload.Author.Username,
			Permissions: payload.permissions(),
			UserOpenID:  payload.openID(),
		},
		Timestamp:   ts,
		MessageType: b.msgType,
	}
	b.fill(&msg, payload)

	ev := b.build(baseEvent{bot: bot, msg: msg})
	o.emit(fmt.Sprintf("recv from %s: %s", b.describe(&msg), brief))
	return ev, nil
}

// emit never lets a failing log hook abort classification.
func (o *options) emit(line string) {
	if o.log == nil {
		return
	}
	defer func() { _ = recover() }()
	o.log(line)
}
