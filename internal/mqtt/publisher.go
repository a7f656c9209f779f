package mqtt

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/scheerer/ambient-lights/internal/color"
)

// Publisher sends each new canonical color, retained, to <prefix>/canonical.
type Publisher struct {
	client Client
	topic  string

	last    color.Color
	hasLast bool
}

func NewPublisher(client Client, prefix string) *Publisher {
	return &Publisher{
		client: client,
		topic:  CanonicalTopic(prefix),
	}
}

func CanonicalTopic(prefix string) string {
	prefix = strings.TrimSuffix(prefix, "/")
	if prefix == "" {
		return "canonical"
	}
	return prefix + "/canonical"
}

func (p *Publisher) Record(_ context.Context, c color.Color, _ time.Time) error {
	if p.hasLast && p.last == c {
		return nil
	}
	if err := p.client.Publish(p.topic, 1, true, []byte(c.String())); err != nil {
		return err
	}
	logger.With(zap.String("topic", p.topic), zap.Stringer("color", c)).Debug("Published canonical color")
	p.last, p.hasLast = c, true
	return nil
}

func (p *Publisher) Close() error {
	p.client.Disconnect()
	return nil
}
