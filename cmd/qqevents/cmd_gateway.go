package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/zhaopengme/qqevents/pkg/bus"
	"github.com/zhaopengme/qqevents/pkg/channels"
	"github.com/zhaopengme/qqevents/pkg/config"
	"github.com/zhaopengme/qqevents/pkg/event"
	"github.com/zhaopengme/qqevents/pkg/logger"
	"github.com/zhaopengme/qqevents/pkg/message"
)

func gatewayCmd() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	logger.SetOutput(os.Stderr, cfg.Log.JSON)
	logger.SetLevel(logger.ParseLevel(cfg.Log.Level))

	if !cfg.Channels.QQ.Enabled {
		fmt.Println("QQ channel is disabled, set channels.qq.enabled to true")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runGateway(ctx, cfg); err != nil {
		fmt.Printf("Gateway error: %v\n", err)
		os.Exit(1)
	}
}

func runGateway(ctx context.Context, cfg *config.Config) error {
	msgBus := bus.NewMessageBus()
	defer msgBus.Close()

	qq, err := channels.NewQQChannel(cfg.Channels.QQ, msgBus)
	if err != nil {
		return err
	}
	qq.OnMessage(handlePing)

	if err := qq.Start(ctx); err != nil {
		return err
	}
	defer qq.Stop(context.Background())

	go forwardOutbound(ctx, msgBus, qq)

	for {
		msg, ok := msgBus.ConsumeInbound(ctx)
		if !ok {
			logger.InfoC("gateway", "Shutting down")
			return nil
		}
		logger.DebugCF("gateway", "Inbound message", map[string]interface{}{
			"chat_id":     msg.ChatID,
			"sender_id":   msg.SenderID,
			"session_key": msg.SessionKey,
		})
	}
}

func forwardOutbound(ctx context.Context, msgBus bus.Subscriber, ch channels.Channel) {
	for {
		msg, ok := msgBus.SubscribeOutbound(ctx)
		if !ok {
			return
		}
		if err := ch.Send(ctx, msg); err != nil {
			logger.ErrorCF("gateway", "Outbound delivery failed", map[string]interface{}{
				"chat_id": msg.ChatID,
				"error":   err.Error(),
			})
		}
	}
}

// handlePing answers "ping" with a quoted "pong" so a deployment can be
// checked end to end.
func handlePing(ctx context.Context, ev event.MessageEvent) {
	if !strings.EqualFold(ev.Message().RawMessage, "ping") {
		return
	}
	go func() {
		_, err := ev.Reply(ctx, message.NewSendable(message.Text("pong")), true)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.WarnCF("gateway", "Ping reply failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()
}
