package rabbitmq

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	COMMENT_REMOVED_QUEUE  = "comments.removed"
	COMMENT_UPDATED_QUEUE  = "comments.updated"
	USER_UPDATED_QUEUE     = "users.updated"
	ITEM_PUBLISHED_QUEUE   = "items.published"
	ITEM_UNPUBLISHED_QUEUE = "items.unpublished"
)

type MQConn struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

func New(connString string) (*MQConn, error) {
	conn, err := amqp.Dial(connString)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	return &MQConn{
		conn: conn,
		ch:   ch,
	}, nil
}

func (m *MQConn) PublishJSON(ctx context.Context, queue string, v interface{}) error {
	if _, err := m.ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return err
	}

	body, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return m.ch.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
}

func (m *MQConn) Consume(queue string) (<-chan amqp.Delivery, error) {
	if _, err := m.ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return nil, err
	}

	return m.ch.Consume(queue, "", true, false, false, false, nil)
}

func (m *MQConn) Close() error {
	if err := m.ch.Close(); err != nil {
		return err
	}
	return m.conn.Close()
}
