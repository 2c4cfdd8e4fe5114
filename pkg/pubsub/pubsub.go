package pubsub

import (
	"context"
	"time"
)

// Pack is a single message delivered through a topic.
type Pack struct {
	Key []byte
	Msg []byte
}

type Publisher interface {
	Publish(context.Context, string, *Pack) error
	Stop(ctx context.Context) error
}

type SubscribeHandler func(context.Context, *Pack, time.Time)

type Subscriber interface {
	Subscribe(ctx context.Context)
	Stop(ctx context.Context) error
}
