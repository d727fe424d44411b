package bus

import "context"

type Publisher interface {
	PublishInbound(context.Context, InboundMessage) error
	PublishOutbound(context.Context, OutboundMessage) error
}

type Subscriber interface {
	ConsumeInbound(context.Context) (InboundMessage, bool)
	SubscribeOutbound(context.Context) (OutboundMessage, bool)
}

type Broker interface {
	Publisher
	Subscriber
	Close()
}
