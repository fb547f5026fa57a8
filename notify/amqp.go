package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// AMQPSink 把事件发布到 RabbitMQ fanout 交换机，供其他进程订阅
type AMQPSink struct {
	mu       sync.Mutex
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
}

// NewAMQPSink 连接 RabbitMQ 并声明持久化的 fanout 交换机
func NewAMQPSink(url, exchange string) (*AMQPSink, error) {
	if exchange == "" {
		exchange = "finlogix." + Topic
	}

	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange, // name
		"fanout", // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &AMQPSink{conn: conn, channel: channel, exchange: exchange}, nil
}

// Deliver 实现 Sink，每条消息 5 秒超时
func (s *AMQPSink) Deliver(ctx context.Context, ev Event) error {
	body, err := ev.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// amqp091 的 Channel 不支持并发发布
	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.channel.PublishWithContext(
		ctx,
		s.exchange, // exchange
		Topic,      // routing key，fanout 下仅作标记
		false,      // mandatory
		false,      // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Type:         string(ev.Event),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish event: %w", err)
	}

	slog.DebugContext(ctx, "已发布交易事件", "event", ev.Event, "user_id", ev.UserID, "exchange", s.exchange)
	return nil
}

// Close 关闭通道和连接
func (s *AMQPSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.channel != nil {
		s.channel.Close()
	}
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}
