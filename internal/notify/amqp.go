package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
)

const DefaultExchange = "session_updates"

// AMQP publishes updates to a RabbitMQ exchange with routing key
// "session.<id>".
type AMQP struct {
	conn     *amqp.Connection
	exchange string
}

func DialAMQP(url, exchange string) (*AMQP, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("error connecting to RabbitMQ: %w", err)
	}
	if exchange == "" {
		exchange = DefaultExchange
	}
	return &AMQP{conn: conn, exchange: exchange}, nil
}

func (a *AMQP) Notify(_ context.Context, u Update) error {
	ch, err := a.conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	body, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("marshal update: %w", err)
	}

	return ch.Publish(
		a.exchange,
		RoutingKey(u),
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

func (a *AMQP) Close() error {
	return a.conn.Close()
}

func RoutingKey(u Update) string {
	return fmt.Sprintf("session.%s", u.SessionID)
}
