package tasks

import (
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const channelQueueBuffer = 64

var _ Queue = &ChannelQueue{}

// ChannelQueue is an in-process queue for the memory store. Messages
// published before the router subscribes, or pending at shutdown, are lost.
type ChannelQueue struct {
	once   sync.Once
	pubSub *gochannel.GoChannel
}

func NewChannelQueue() *ChannelQueue {
	return &ChannelQueue{}
}

// get lazily creates the shared pub/sub; publisher and subscribers must be the same instance.
func (q *ChannelQueue) get(logger watermill.LoggerAdapter) *gochannel.GoChannel {
	q.once.Do(func() {
		q.pubSub = gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: channelQueueBuffer},
			logger,
		)
	})
	return q.pubSub
}

func (q *ChannelQueue) NewPublisher(logger watermill.LoggerAdapter) (message.Publisher, error) {
	return q.get(logger), nil
}

func (q *ChannelQueue) NewSubscriber(logger watermill.LoggerAdapter) (message.Subscriber, error) {
	return q.get(logger), nil
}

func (q *ChannelQueue) Close() error {
	if q.pubSub == nil {
		return nil
	}
	return q.pubSub.Close()
}
