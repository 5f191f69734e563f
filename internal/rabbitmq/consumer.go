package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/codevault/internal/lib/sl"
)

// Handler обрабатывает тело сообщения. Ошибка возвращает сообщение в очередь.
type Handler func(ctx context.Context, body []byte) error

const maxInFlight = 10

// Consumer запущенный потребитель очереди.
type Consumer struct {
	done chan struct{}
}

// Wait блокируется, пока цикл чтения не остановится и все начатые обработчики не вернут управление.
// Канал можно закрывать только после Wait.
func (c *Consumer) Wait() {
	<-c.done
}

// ConsumerMessage запускает потребителя очереди queueName.
//
// Сообщение, на котором обработчик вернул ошибку, возвращается в очередь один раз.
// Повторная неудача отбрасывает его.
func ConsumerMessage(ctx context.Context, log *slog.Logger, ch *amqp.Channel, queueName string, handler Handler) (*Consumer, error) {
	const op = "rabbitmq.ConsumerMessage"
	delivery, err := ch.Consume(
		queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log = log.With(slog.String("op", op), slog.String("queue", queueName))
	return consume(ctx, log, delivery, handler), nil
}

func consume(ctx context.Context, log *slog.Logger, delivery <-chan amqp.Delivery, handler Handler) *Consumer {
	c := &Consumer{done: make(chan struct{})}
	sem := make(chan struct{}, maxInFlight)
	var wg sync.WaitGroup

	go func() {
		defer close(c.done)
		defer wg.Wait()
		for {
			select {
			case d, ok := <-delivery:
				if !ok {
					log.Info("delivery channel closed")
					return
				}
				select {
				case sem <- struct{}{}:
				case <-ctx.Done():
					// не взятое в работу сообщение отдаём обратно брокеру
					if err := d.Nack(false, true); err != nil {
						log.Error("failed to nack message", sl.Err(err))
					}
					return
				}
				wg.Add(1)
				go func(d amqp.Delivery) {
					defer wg.Done()
					defer func() { <-sem }()
					handle(ctx, log, d, handler)
				}(d)
			case <-ctx.Done():
				return
			}
		}
	}()
	return c
}

func handle(ctx context.Context, log *slog.Logger, d amqp.Delivery, handler Handler) {
	if err := handler(ctx, d.Body); err != nil {
		requeue := !d.Redelivered
		log.Error("handler failed",
			slog.String("routing_key", d.RoutingKey),
			slog.Bool("requeue", requeue),
			sl.Err(err))
		if nackErr := d.Nack(false, requeue); nackErr != nil {
			log.Error("failed to nack message", sl.Err(nackErr))
		}
		return
	}
	if ackErr := d.Ack(false); ackErr != nil {
		log.Error("failed to ack message", sl.Err(ackErr))
	}
}
