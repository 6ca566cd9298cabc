package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"hatchery/config"
	"hatchery/models"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// RabbitMQService handles RabbitMQ connection and consumption of tank readings
type RabbitMQService struct {
	config    *config.Config
	conn      *amqp.Connection
	channel   *amqp.Channel
	logger    *zap.Logger
	reconnect chan bool
	isClosing atomic.Bool
}

// NewRabbitMQService creates a new RabbitMQ service instance
func NewRabbitMQService(cfg *config.Config, logger *zap.Logger) (*RabbitMQService, error) {
	service := &RabbitMQService{
		config:    cfg,
		logger:    logger,
		reconnect: make(chan bool, 1),
	}

	if err := service.connect(); err != nil {
		return nil, err
	}

	return service, nil
}

// connect establishes connection to RabbitMQ and declares exchange and queue
func (r *RabbitMQService) connect() error {
	var err error

	r.logger.Info("Connecting to RabbitMQ", zap.String("url", r.config.RabbitMQURL))

	maxRetries := 5
	for attempt := 1; attempt <= maxRetries; attempt++ {
		r.conn, err = amqp.Dial(r.config.RabbitMQURL)
		if err == nil {
			break
		}

		r.logger.Warn("Failed to connect to RabbitMQ",
			zap.Int("attempt", attempt),
			zap.Int("max_retries", maxRetries),
			zap.Error(err))

		if attempt < maxRetries {
			time.Sleep(time.Duration(attempt) * 2 * time.Second)
		}
	}

	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ after %d attempts: %w", maxRetries, err)
	}

	r.logger.Info("Connected to RabbitMQ successfully")

	r.channel, err = r.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}

	err = r.channel.Qos(
		10,    // prefetch count
		0,     // prefetch size
		false, // global
	)
	if err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	err = r.channel.ExchangeDeclare(
		r.config.RabbitMQExchange, // name
		"direct",                  // type
		true,                      // durable
		false,                     // auto-deleted
		false,                     // internal
		false,                     // no-wait
		nil,                       // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	queue, err := r.channel.QueueDeclare(
		r.config.RabbitMQQueue, // name
		true,                   // durable
		false,                  // delete when unused
		false,                  // exclusive
		false,                  // no-wait
		nil,                    // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	r.logger.Info("Queue declared", zap.String("queue", queue.Name))

	// Bind to the service exchange and to amq.topic, where the broker's MQTT
	// plugin delivers probe messages
	for _, exchange := range []string{r.config.RabbitMQExchange, "amq.topic"} {
		err = r.channel.QueueBind(
			queue.Name,             // queue name
			r.config.RabbitMQQueue, // routing key
			exchange,               // exchange
			false,                  // no-wait
			nil,                    // arguments
		)
		if err != nil {
			return fmt.Errorf("failed to bind queue to %s: %w", exchange, err)
		}

		r.logger.Info("Queue bound to exchange",
			zap.String("queue", queue.Name),
			zap.String("exchange", exchange),
			zap.String("routing_key", r.config.RabbitMQQueue))
	}

	go r.handleReconnect(r.conn)

	return nil
}

// handleReconnect handles automatic reconnection when connection is lost
func (r *RabbitMQService) handleReconnect(conn *amqp.Connection) {
	closeErr := <-conn.NotifyClose(make(chan *amqp.Error, 1))
	if r.isClosing.Load() {
		r.logger.Info("RabbitMQ connection closed gracefully")
		return
	}

	r.logger.Error("RabbitMQ connection lost", zap.Error(closeErr))

	for !r.isClosing.Load() {
		r.logger.Info("Attempting to reconnect to RabbitMQ...")
		err := r.connect()
		if err == nil {
			r.logger.Info("Successfully reconnected to RabbitMQ")
			select {
			case r.reconnect <- true:
			default:
			}
			return
		}

		r.logger.Error("Failed to reconnect", zap.Error(err))
		time.Sleep(5 * time.Second)
	}
}

// Consume starts consuming tank readings until ctx is cancelled
func (r *RabbitMQService) Consume(ctx context.Context, readings chan<- *models.TankReadingMessage) error {
	for {
		msgs, err := r.channel.Consume(
			r.config.RabbitMQQueue, // queue
			"hatchery-monitor",     // consumer tag
			false,                  // auto-ack (false = manual ack)
			false,                  // exclusive
			false,                  // no-local
			false,                  // no-wait
			nil,                    // args
		)
		if err != nil {
			return fmt.Errorf("failed to register consumer: %w", err)
		}

		r.logger.Info("Started consuming messages from RabbitMQ",
			zap.String("queue", r.config.RabbitMQQueue))

	consumeLoop:
		for {
			select {
			case <-ctx.Done():
				r.logger.Info("Stopping RabbitMQ consumer")
				return nil

			case <-r.reconnect:
				r.logger.Info("Reconnection detected, restarting consumer")
				break consumeLoop

			case msg, ok := <-msgs:
				if !ok {
					r.logger.Warn("Message channel closed")
					select {
					case <-ctx.Done():
						return nil
					case <-r.reconnect:
					}
					break consumeLoop
				}

				if err := r.processMessage(ctx, msg, readings); err != nil {
					r.logger.Error("Failed to process message",
						zap.Error(err),
						zap.String("message_id", msg.MessageId))

					// a body that cannot be decoded will never succeed
					msg.Nack(false, !isDecodeError(err))
				} else {
					msg.Ack(false)
				}
			}
		}
	}
}

type decodeError struct {
	err error
}

func (e *decodeError) Error() string { return e.err.Error() }
func (e *decodeError) Unwrap() error { return e.err }

func isDecodeError(err error) bool {
	var de *decodeError
	return errors.As(err, &de)
}

// decodeReadingMessage parses and validates a probe message body
func decodeReadingMessage(body []byte) (*models.TankReadingMessage, error) {
	var msg models.TankReadingMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, &decodeError{fmt.Errorf("failed to unmarshal message: %w", err)}
	}

	if msg.DeviceID == "" {
		return nil, &decodeError{fmt.Errorf("invalid tank reading: missing device_id")}
	}
	profile, ok := models.SpeciesForTank(msg.TankID)
	if !ok {
		return nil, &decodeError{fmt.Errorf("invalid tank reading: tank %d: %w", msg.TankID, ErrUnknownTank)}
	}
	if msg.Species == "" {
		msg.Species = profile.Name
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	return &msg, nil
}

// processMessage decodes and forwards a reading to the channel
func (r *RabbitMQService) processMessage(ctx context.Context, msg amqp.Delivery, readings chan<- *models.TankReadingMessage) error {
	reading, err := decodeReadingMessage(msg.Body)
	if err != nil {
		return err
	}

	r.logger.Debug("Received tank reading from RabbitMQ",
		zap.String("device_id", reading.DeviceID),
		zap.Int("tank_id", reading.TankID),
		zap.Float64("temperature", reading.Temperature),
		zap.Float64("dissolved_oxygen", reading.DissolvedOxygen),
		zap.Float64("soil_moisture", reading.SoilMoisture),
		zap.Time("timestamp", reading.Timestamp))

	select {
	case readings <- reading:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(5 * time.Second):
		return fmt.Errorf("timeout sending to processing channel")
	}
}

// Close gracefully closes RabbitMQ connection
func (r *RabbitMQService) Close() error {
	r.isClosing.Store(true)

	r.logger.Info("Closing RabbitMQ connection")

	if r.channel != nil {
		if err := r.channel.Close(); err != nil {
			r.logger.Error("Error closing channel", zap.Error(err))
		}
	}

	if r.conn != nil {
		if err := r.conn.Close(); err != nil {
			r.logger.Error("Error closing connection", zap.Error(err))
			return err
		}
	}

	r.logger.Info("RabbitMQ connection closed")
	return nil
}

// Publish publishes a tank reading to the service exchange
func (r *RabbitMQService) Publish(ctx context.Context, reading *models.TankReadingMessage) error {
	body, err := json.Marshal(reading)
	if err != nil {
		return fmt.Errorf("failed to marshal tank reading: %w", err)
	}

	err = r.channel.PublishWithContext(ctx,
		r.config.RabbitMQExchange, // exchange
		r.config.RabbitMQQueue,    // routing key
		false,                     // mandatory
		false,                     // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    uuid.New().String(),
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	r.logger.Debug("Published tank reading to RabbitMQ",
		zap.String("device_id", reading.DeviceID),
		zap.Int("tank_id", reading.TankID))

	return nil
}
