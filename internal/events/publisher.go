package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const exchange = "taskerhub.events"

// Routing keys for lifecycle events consumed by external push/email workers.
const (
	KeyBookingStatus      = "booking.status"
	KeyApplicationDecided = "job.application"
)

// Publisher emits lifecycle events to RabbitMQ. It is best-effort: when the
// broker is not configured or a publish fails, the parent operation proceeds
// and the failure is only logged.
type Publisher struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewPublisher connects to the broker. An empty URL disables publishing.
func NewPublisher(url string) *Publisher {
	if url == "" {
		return &Publisher{}
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		log.Printf("[EVENTS] rabbitmq dial failed, events disabled: %v", err)
		return &Publisher{}
	}
	ch, err := conn.Channel()
	if err != nil {
		log.Printf("[EVENTS] rabbitmq channel failed, events disabled: %v", err)
		_ = conn.Close()
		return &Publisher{}
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		log.Printf("[EVENTS] declare exchange failed, events disabled: %v", err)
		_ = ch.Close()
		_ = conn.Close()
		return &Publisher{}
	}
	return &Publisher{conn: conn, ch: ch}
}

// Publish emits one event. Safe on a disabled publisher and on a nil receiver.
func (p *Publisher) Publish(key string, payload any) {
	if p == nil || p.ch == nil {
		return
	}
	b, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[EVENTS] marshal %s failed: %v", key, err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := p.ch.PublishWithContext(ctx, exchange, key, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        b,
	}); err != nil {
		log.Printf("[EVENTS] publish %s failed: %v", key, err)
	}
}

func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

// BookingStatusEvent is published after a booking status transition commits.
type BookingStatusEvent struct {
	BookingID  int64   `json:"booking_id"`
	CustomerID int64   `json:"customer_id"`
	TaskerID   int64   `json:"tasker_id"`
	Status     string  `json:"status"`
	Amount     float64 `json:"amount,omitempty"`
	Fee        float64 `json:"fee,omitempty"`
}

// ApplicationDecidedEvent is published after an application accept/reject commits.
type ApplicationDecidedEvent struct {
	JobID         int64  `json:"job_id"`
	ApplicationID int64  `json:"application_id"`
	TaskerID      int64  `json:"tasker_id"`
	Decision      string `json:"decision"`
}
