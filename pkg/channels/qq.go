package channels

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/tencent-connect/botgo"
	"github.com/tencent-connect/botgo/dto"
	botevent "github.com/tencent-connect/botgo/event"
	"github.com/tencent-connect/botgo/openapi"
	"github.com/tencent-connect/botgo/token"
	"golang.org/x/oauth2"

	"github.com/zhaopengme/qqevents/pkg/bus"
	"github.com/zhaopengme/qqevents/pkg/config"
	"github.com/zhaopengme/qqevents/pkg/event"
	"github.com/zhaopengme/qqevents/pkg/logger"
	"github.com/zhaopengme/qqevents/pkg/message"
)

// EventHandler receives every classified message event.
type EventHandler func(ctx context.Context, ev event.MessageEvent)

type QQChannel struct {
	*BaseChannel
	config         config.QQConfig
	api            openapi.OpenAPI
	tokenSource    oauth2.TokenSource
	ctx            context.Context
	cancel         context.CancelFunc
	sessionManager botgo.SessionManager
	selfID         string

	handlers   []EventHandler
	handlersMu sync.RWMutex

	dedup     map[string]struct{}
	dedupRing []string
	dedupIdx  int
	mu        sync.Mutex
}

var (
	_ Channel   = (*QQChannel)(nil)
	_ event.Bot = (*QQChannel)(nil)
)

func NewQQChannel(cfg config.QQConfig, messageBus bus.Broker) (*QQChannel, error) {
	base := NewBaseChannel("qq", cfg, messageBus, cfg.AllowFrom)

	dedupSize := cfg.DedupSize
	if dedupSize <= 0 {
		dedupSize = 1024
	}

	return &QQChannel{
		BaseChannel: base,
		config:      cfg,
		ctx:         context.Background(),
		dedup:       make(map[string]struct{}, dedupSize),
		dedupRing:   make([]string, dedupSize),
	}, nil
}

// OnMessage registers a handler for classified events. Handlers run in the
// order they were added, on the goroutine that delivered the event.
func (c *QQChannel) OnMessage(h EventHandler) {
	c.handlersMu.Lock()
	defer c.handlersMu.Unlock()
	c.handlers = append(c.handlers, h)
}

func (c *QQChannel) Start(ctx context.Context) error {
	if c.config.AppID == "" || c.config.AppSecret == "" {
		return fmt.Errorf("QQ app_id and app_secret not configured")
	}

	logger.InfoCF("qq", "Starting QQ bot (WebSocket mode)", map[string]interface{}{
		"sandbox": c.config.Sandbox,
	})

	credentials := &token.QQBotCredentials{
		AppID:     c.config.AppID,
		AppSecret: c.config.AppSecret,
	}
	c.tokenSource = token.NewQQBotTokenSource(credentials)

	c.ctx, c.cancel = context.WithCancel(ctx)

	if err := token.StartRefreshAccessToken(c.ctx, c.tokenSource); err != nil {
		return fmt.Errorf("failed to start token refresh: %w", err)
	}

	timeout := time.Duration(c.config.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if c.config.Sandbox {
		c.api = botgo.NewSandboxOpenAPI(c.config.AppID, c.tokenSource).WithTimeout(timeout)
	} else {
		c.api = botgo.NewOpenAPI(c.config.AppID, c.tokenSource).WithTimeout(timeout)
	}

	c.fetchSelfID()

	intent := botevent.RegisterHandlers(
		c.handleC2CMessage(),
		c.handleGroupATMessage(),
		c.handleATMessage(),
		c.handleDirectMessage(),
	)

	wsInfo, err := c.api.WS(c.ctx, nil, "")
	if err != nil {
		return fmt.Errorf("failed to get websocket info: %w", err)
	}

	logger.InfoCF("qq", "Got WebSocket info", map[string]interface{}{
		"shards": wsInfo.Shards,
	})

	c.sessionManager = botgo.NewSessionManager()

	go func() {
		if err := c.sessionManager.Start(wsInfo, c.tokenSource, &intent); err != nil {
			logger.ErrorCF("qq", "WebSocket session error", map[string]interface{}{
				"error": err.Error(),
			})
			c.setRunning(false)
		}
	}()

	c.setRunning(true)
	logger.InfoC("qq", "QQ bot started successfully")

	return nil
}

func (c *QQChannel) Stop(ctx context.Context) error {
	logger.InfoC("qq", "Stopping QQ bot")
	c.setRunning(false)

	if c.cancel != nil {
		c.cancel()
	}

	return nil
}

func (c *QQChannel) fetchSelfID() {
	me, err := c.api.Me(c.ctx)
	if err != nil {
		logger.WarnCF("qq", "Failed to fetch bot profile, mentions will not be stripped", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	c.selfID = me.ID
	logger.InfoCF("qq", "Bot self ID retrieved", map[string]interface{}{
		"self_id":  me.ID,
		"username": me.Username,
	})
}

// Send routes an outbound bus message by its chat id prefix.
func (c *QQChannel) Send(ctx context.Context, msg bus.OutboundMessage) error {
	if !c.IsRunning() {
		return fmt.Errorf("QQ bot not running")
	}

	kind, target, err := parseChatID(msg.ChatID)
	if err != nil {
		return err
	}

	content := message.NewSendable(message.Text(msg.Content))
	if _, err := c.post(ctx, kind, target, content, msg.ReplyTo); err != nil {
		logger.ErrorCF("qq", "Failed to send message", map[string]interface{}{
			"chat_id": msg.ChatID,
			"error":   err.Error(),
		})
		return err
	}
	return nil
}

func (c *QQChannel) handleC2CMessage() botevent.C2CMessageEventHandler {
	return func(payload *dto.WSPayload, _ *dto.WSC2CMessageData) error {
		return c.dispatch(event.KindPrivate, payload)
	}
}

func (c *QQChannel) handleGroupATMessage() botevent.GroupATMessageEventHandler {
	return func(payload *dto.WSPayload, _ *dto.WSGroupATMessageData) error {
		return c.dispatch(event.KindGroup, payload)
	}
}

func (c *QQChannel) handleATMessage() botevent.ATMessageEventHandler {
	return func(payload *dto.WSPayload, _ *dto.WSATMessageData) error {
		return c.dispatch(event.KindGuild, payload)
	}
}

func (c *QQChannel) handleDirectMessage() botevent.DirectMessageEventHandler {
	return func(payload *dto.WSPayload, _ *dto.WSDirectMessageData) error {
		return c.dispatch(event.KindDirect, payload)
	}
}

// dispatch decodes the "d" object of the raw frame. The SDK's typed data
// drops user_openid, member_openid and group_openid, so it is not used.
func (c *QQChannel) dispatch(kind string, frame *dto.WSPayload) error {
	if frame == nil || len(frame.RawMessage) == 0 {
		logger.WarnCF("qq", "Empty event frame", map[string]interface{}{
			"kind": kind,
		})
		return nil
	}

	var payload event.Payload
	if err := botevent.ParseData(frame.RawMessage, &payload); err != nil {
		logger.WarnCF("qq", "Failed to decode event payload", map[string]interface{}{
			"kind":  kind,
			"error": err.Error(),
		})
		return nil
	}

	c.handlePayload(c.ctx, kind, &payload)
	return nil
}

// handlePayload classifies one inbound payload and fans the event out. It
// returns the event, or nil when the payload was dropped.
func (c *QQChannel) handlePayload(ctx context.Context, kind string, payload *event.Payload) event.MessageEvent {
	if c.isDuplicate(payload.ID) {
		logger.DebugCF("qq", "Duplicate message, skipping", map[string]interface{}{
			"message_id": payload.ID,
		})
		return nil
	}

	if payload.Author != nil && !c.IsAllowed(payload.Author.ID) {
		logger.DebugCF("qq", "Message rejected by allowlist", map[string]interface{}{
			"user_id": payload.Author.ID,
		})
		return nil
	}

	ev, err := event.Classify(c, kind, payload,
		event.WithSelfID(c.selfID),
		event.WithLogger(func(line string) { logger.InfoC("qq", line) }),
	)
	if err != nil {
		logger.WarnCF("qq", "Failed to classify event", map[string]interface{}{
			"kind":       kind,
			"message_id": payload.ID,
			"error":      err.Error(),
		})
		return nil
	}

	c.handlersMu.RLock()
	handlers := append([]EventHandler(nil), c.handlers...)
	c.handlersMu.RUnlock()
	for _, h := range handlers {
		h(ctx, ev)
	}

	if err := c.HandleMessage(ctx, toInbound(ev)); err != nil {
		logger.WarnCF("qq", "Failed to publish inbound message", map[string]interface{}{
			"message_id": payload.ID,
			"error":      err.Error(),
		})
	}

	return ev
}

// toInbound flattens an event into a bus message.
func toInbound(ev event.MessageEvent) bus.InboundMessage {
	m := ev.Message()

	metadata := map[string]string{
		"message_id": m.ID,
		"peer_kind":  string(m.MessageType),
	}
	if m.Sender.UserName != "" {
		metadata["sender_name"] = m.Sender.UserName
	}
	if m.Sender.UserOpenID != "" {
		metadata["user_openid"] = m.Sender.UserOpenID
	}

	var chatID string
	switch ev.(type) {
	case *event.PrivateMessageEvent:
		chatID = "private:" + m.UserID
		metadata["peer_id"] = m.UserID
	case *event.GroupMessageEvent:
		chatID = "group:" + m.GroupID
		metadata["peer_id"] = m.GroupID
		metadata["group_id"] = m.GroupID
	case *event.GuildMessageEvent:
		chatID = "guild:" + m.ChannelID
		metadata["peer_id"] = m.ChannelID
		metadata["guild_id"] = m.GuildID
		metadata["channel_id"] = m.ChannelID
	case *event.DirectMessageEvent:
		chatID = "direct:" + m.GuildID
		metadata["peer_id"] = m.GuildID
		metadata["guild_id"] = m.GuildID
		metadata["channel_id"] = m.ChannelID
	}

	var media []string
	for _, seg := range m.Content {
		if seg.URL != "" {
			media = append(media, seg.URL)
		}
	}

	return bus.InboundMessage{
		MessageType: string(m.MessageType),
		MessageID:   m.ID,
		SenderID:    m.UserID,
		ChatID:      chatID,
		Content:     m.RawMessage,
		Media:       media,
		Timestamp:   m.Timestamp,
		Metadata:    metadata,
	}
}

// parseChatID splits "kind:target" as produced by toInbound.
func parseChatID(chatID string) (message.Type, string, error) {
	prefix, target, ok := strings.Cut(chatID, ":")
	if !ok || target == "" {
		return "", "", fmt.Errorf("invalid QQ chat id: %q", chatID)
	}
	switch t := message.Type(prefix); t {
	case message.TypePrivate, message.TypeGroup, message.TypeGuild, message.TypeDirect:
		return t, target, nil
	default:
		return "", "", fmt.Errorf("invalid QQ chat id: %q", chatID)
	}
}

func (c *QQChannel) isDuplicate(messageID string) bool {
	if messageID == "" {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.dedup[messageID]; exists {
		return true
	}

	if old := c.dedupRing[c.dedupIdx]; old != "" {
		delete(c.dedup, old)
	}
	c.dedupRing[c.dedupIdx] = messageID
	c.dedup[messageID] = struct{}{}
	c.dedupIdx = (c.dedupIdx + 1) % len(c.dedupRing)

	return false
}
