package message

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// NewPubSub builds the in-process Pub/Sub carrying payment outcome events.
// The whole reconciliation state is memory-resident by design, so the
// transport is too; nothing here survives a restart.
func NewPubSub(logger watermill.LoggerAdapter) *gochannel.GoChannel {
	return gochannel.NewGoChannel(gochannel.Config{}, logger)
}
