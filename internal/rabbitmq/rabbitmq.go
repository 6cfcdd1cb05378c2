package rabbitmq

import (
	"context"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	POST_CREATED_QUEUE      = "post-created"
	USER_INFO_UPDATED_QUEUE = "user-info-updated"
)

type Broker interface {
	Publish(ctx context.Context, queue string, body []byte) error
	Consume(queue string) (<-chan amqp.Delivery, error)
}

type MQConn struct {
	conn *amqp.Connection
	ch   *amqp.Channel
	mu   sync.Mutex
}

func New(url string) (*MQConn, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	return &MQConn{
		conn: conn,
		ch:   ch,
	}, nil
}

func (mq *MQConn) declare(queue string) error {
	_, err := mq.ch.QueueDeclare(queue, true, false, false, false, nil)
	return err
}

func (mq *MQConn) Publish(ctx context.Context, queue string, body []byte) error {
	mq.mu.Lock()
	defer mq.mu.Unlock()

	if err := mq.declare(queue); err != nil {
		return err
	}

	return mq.ch.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}

func (mq *MQConn) Consume(queue string) (<-chan amqp.Delivery, error) {
	mq.mu.Lock()
	defer mq.mu.Unlock()

	if err := mq.declare(queue); err != nil {
		return nil, err
	}

	return mq.ch.Consume(queue, "", false, false, false, false, nil)
}

func (mq *MQConn) Close() error {
	if err := mq.ch.Close(); err != nil {
		return err
	}
	return mq.conn.Close()
}
