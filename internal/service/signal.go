package service

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

// envelope carries a published frame between nodes.
type envelope struct {
	Origin string `msgpack:"o"`
	Topic  string `msgpack:"t"`
	Frame  []byte `msgpack:"f"`
}

func encodeEnvelope(env envelope) ([]byte, error) {
	return msgpack.Marshal(env)
}

func decodeEnvelope(data []byte) (envelope, error) {
	var env envelope
	err := msgpack.Unmarshal(data, &env)
	return env, err
}

// LocalDeliverer hands a frame to the sessions of this node.
type LocalDeliverer interface {
	DeliverLocal(ctx context.Context, topic string, frame []byte) int
}

// SignalService relays published frames over redis pub/sub so that a
// session connected to another node still receives them.
type SignalService struct {
	rdb     *redis.Client
	channel string
	nodeID  string
}

func NewSignalService(redisClient *redis.Client, channel string, nodeID string) *SignalService {
	return &SignalService{
		rdb:     redisClient,
		channel: channel,
		nodeID:  nodeID,
	}
}

func (s *SignalService) Forward(ctx context.Context, topic string, frame []byte) error {
	data, err := encodeEnvelope(envelope{Origin: s.nodeID, Topic: topic, Frame: frame})
	if err != nil {
		return errors.Wrap(err, "encode envelope")
	}

	err = s.rdb.Publish(ctx, s.channel, data).Err()
	if err != nil {
		return errors.Wrap(err, "redis publish")
	}

	return nil
}

// Run consumes frames relayed by other nodes until ctx is cancelled.
func (s *SignalService) Run(ctx context.Context, local LocalDeliverer) error {
	sub := s.rdb.Subscribe(ctx, s.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return errors.Wrap(err, "redis subscribe")
	}

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			s.handle(ctx, local, []byte(msg.Payload))
		}
	}
}

func (s *SignalService) handle(ctx context.Context, local LocalDeliverer, data []byte) {
	env, err := decodeEnvelope(data)
	if err != nil {
		slog.ErrorContext(
			ctx, "Malformed relay envelope",
			slog.String("error", err.Error()),
			slog.String("module", "signal"),
		)
		return
	}

	if env.Origin == s.nodeID {
		return
	}

	local.DeliverLocal(ctx, env.Topic, env.Frame)
}
