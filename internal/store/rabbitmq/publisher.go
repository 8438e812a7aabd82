package rabbitmq

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/suPer8Hu/health-chat/internal/chat"
)

const EventTurnPersisted = "turn.persisted"

// Publisher announces persisted chat turns on a durable queue.
type Publisher struct {
	mu    sync.Mutex
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
}

// TurnEvent is the JSON body of a turn.persisted message.
type TurnEvent struct {
	Event          string    `json:"event"`
	ID             uint64    `json:"id"`
	UserID         string    `json:"user_id"`
	Message        string    `json:"message"`
	Response       string    `json:"response"`
	UserConditions string    `json:"user_conditions"`
	CreatedAt      time.Time `json:"created_at"`
}

func NewTurnEvent(t chat.ChatTurn) TurnEvent {
	return TurnEvent{
		Event:          EventTurnPersisted,
		ID:             t.ID,
		UserID:         t.UserID,
		Message:        t.Message,
		Response:       t.Response,
		UserConditions: t.UserConditions,
		CreatedAt:      t.CreatedAt,
	}
}

func NewPublisher(url, queue string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	if _, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false,
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	return &Publisher{conn: conn, ch: ch, queue: queue}, nil
}

func (p *Publisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

func (p *Publisher) PublishTurn(ctx context.Context, turn chat.ChatTurn) error {
	body, err := json.Marshal(NewTurnEvent(turn))
	if err != nil {
		return err
	}

	cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.PublishWithContext(cctx,
		"",      // default exchange
		p.queue, // routing key = queue
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Type:         EventTurnPersisted,
			MessageId:    strconv.FormatUint(turn.ID, 10),
			Body:         body,
			Timestamp:    time.Now(),
		},
	)
}
