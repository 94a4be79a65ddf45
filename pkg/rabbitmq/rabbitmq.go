package rabbitmq

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/streadway/amqp"
)

const contactQueue = "contact_queue"

// Client holds the RabbitMQ connection and channel used to hand contact form
// submissions to the mail delivery worker.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

// ContactMessage is the payload queued for each contact form submission.
type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// NewClient connects to RabbitMQ, opens a channel, and declares the contact
// queue upfront.
func NewClient(cfg Config) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		contactQueue, // name
		true,         // durable (persists messages across broker restarts)
		false,        // delete when unused
		false,        // exclusive
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare %s: %w", contactQueue, err)
	}

	log.Println("RabbitMQ client connected and contact_queue declared.")

	return &Client{conn: conn, channel: ch}, nil
}

// Close closes the RabbitMQ connection and channel.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred during RabbitMQ client close: %v", errs)
	}
	return nil
}

// PublishContactMessage queues a contact form submission for delivery.
func (c *Client) PublishContactMessage(msg ContactMessage) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal contact message: %w", err)
	}

	err = c.channel.Publish(
		"",           // exchange: default exchange
		contactQueue, // routing key: the queue name
		false,        // mandatory
		false,        // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

// ConsumeContactMessages starts a goroutine that feeds queued contact
// submissions to messageHandler. Failed messages are nacked and requeued;
// successful ones are acked.
func (c *Client) ConsumeContactMessages(messageHandler func(msg ContactMessage) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	msgs, err := c.channel.Consume(
		contactQueue, // queue
		"",           // consumer tag
		false,        // auto-ack: false, acknowledge manually
		false,        // exclusive
		false,        // no-local
		false,        // no-wait
		nil,          // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	go func() {
		for d := range msgs {
			var msg ContactMessage
			if err := json.Unmarshal(d.Body, &msg); err != nil {
				log.Printf("Discarding malformed contact message %d: %v", d.DeliveryTag, err)
				if ackErr := d.Ack(false); ackErr != nil {
					log.Printf("Error acking message %d: %v", d.DeliveryTag, ackErr)
				}
				continue
			}
			if err := messageHandler(msg); err != nil {
				log.Printf("Error processing contact message %d: %v", d.DeliveryTag, err)
				if requeueErr := d.Nack(false, true); requeueErr != nil {
					log.Printf("Error nacking message %d: %v", d.DeliveryTag, requeueErr)
				}
				continue
			}
			if ackErr := d.Ack(false); ackErr != nil {
				log.Printf("Error acking message %d: %v", d.DeliveryTag, ackErr)
			}
		}
	}()

	return nil
}
