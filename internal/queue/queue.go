// Package queue hands broadcast jobs from the HTTP layer to the campaign
// runner. The memory driver is the default single-process path; the amqp
// driver moves the same payloads through RabbitMQ.
package queue

import "fmt"

// Queue is a topic-based job queue. Subscribers for a topic consume
// payloads serially, in publish order.
type Queue interface {
	Publish(topic string, payload []byte) error
	Subscribe(topic string, handler func(payload []byte) error) error
	Close() error
}

// Config selects a driver.
type Config struct {
	Driver string
	URL    string // amqp driver
}

// Open builds the configured driver.
func Open(cfg Config) (Queue, error) {
	switch cfg.Driver {
	case "", "memory":
		return NewMemoryQueue(), nil
	case "amqp":
		return DialAMQP(cfg.URL)
	default:
		return nil, fmt.Errorf("unknown queue driver %q", cfg.Driver)
	}
}
