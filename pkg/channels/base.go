package channels

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/zhaopengme/qqevents/pkg/bus"
)

type Channel interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Send(ctx context.Context, msg bus.OutboundMessage) error
	IsRunning() bool
	IsAllowed(senderID string) bool
}

type BaseChannel struct {
	config    any
	bus       bus.Broker
	running   atomic.Bool
	name      string
	allowList []string
}

func NewBaseChannel(name string, config any, b bus.Broker, allowList []string) *BaseChannel {
	return &BaseChannel{
		config:    config,
		bus:       b,
		name:      name,
		allowList: allowList,
	}
}

func (c *BaseChannel) Name() string {
	return c.name
}

func (c *BaseChannel) IsRunning() bool {
	return c.running.Load()
}

// IsAllowed reports whether senderID passes the allow list. An empty list
// allows everyone; entries may carry a leading "@".
func (c *BaseChannel) IsAllowed(senderID string) bool {
	if len(c.allowList) == 0 {
		return true
	}

	for _, allowed := range c.allowList {
		if senderID == allowed || senderID == strings.TrimPrefix(allowed, "@") {
			return true
		}
	}

	return false
}

// HandleMessage publishes an inbound message to the bus, filling the session
// key. Messages without a bus are dropped silently.
func (c *BaseChannel) HandleMessage(ctx context.Context, msg bus.InboundMessage) error {
	if c.bus == nil {
		return nil
	}

	msg.Channel = c.name
	if msg.SessionKey == "" {
		msg.SessionKey = BuildSessionKey(c.name, msg.ChatID, msg.MessageID)
	}

	return c.bus.PublishInbound(ctx, msg)
}

func (c *BaseChannel) setRunning(running bool) {
	c.running.Store(running)
}

// BuildSessionKey joins channel, chat and message id. A random id stands in
// for a missing message id.
func BuildSessionKey(channel, chatID, messageID string) string {
	id := messageID
	if id == "" {
		id = uuid.New().String()
	}
	return channel + ":" + chatID + ":" + id
}
