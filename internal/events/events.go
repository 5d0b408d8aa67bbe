// Package events publishes logbook changes to an MQTT broker.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
)

type Type string

const (
	ServiceAdded        Type = "service.added"
	ServiceUpdated      Type = "service.updated"
	ServiceDeleted      Type = "service.deleted"
	CarUpdated          Type = "car.updated"
	MileageRaised       Type = "car.mileage_raised"
	SubscriptionChanged Type = "subscription.changed"
)

// Event is one change to a user's logbook.
type Event struct {
	Type      Type      `json:"type"`
	Username  string    `json:"username"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data,omitempty"`
}

// Publisher delivers events. Delivery is best effort: callers log failures
// and carry on.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Noop drops every event.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }

// MQTTPublisher sends events as JSON to <prefix>/<username>/<type>.
type MQTTPublisher struct {
	client  mqtt.Client
	prefix  string
	qos     byte
	timeout time.Duration
	logger  *log.Logger
}

// MQTTOptions configures ConnectMQTT.
type MQTTOptions struct {
	Broker      string
	ClientID    string
	TopicPrefix string
	QoS         byte
	Timeout     time.Duration
}

// ConnectMQTT connects to the broker and returns a publisher for it.
func ConnectMQTT(opts MQTTOptions, logger *log.Logger) (*MQTTPublisher, error) {
	if logger == nil {
		logger = log.StandardLogger()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	clientOpts := mqtt.NewClientOptions().
		AddBroker(opts.Broker).
		SetClientID(opts.ClientID).
		SetConnectTimeout(opts.Timeout).
		SetAutoReconnect(true).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			logger.WithError(err).Warn("MQTT connection lost")
		})

	client := mqtt.NewClient(clientOpts)
	token := client.Connect()
	if !token.WaitTimeout(opts.Timeout) {
		return nil, fmt.Errorf("mqtt connect to %s: timed out", opts.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect to %s: %w", opts.Broker, err)
	}
	logger.WithField("broker", opts.Broker).Info("Connected to MQTT broker")
	return NewMQTTPublisher(client, opts.TopicPrefix, opts.QoS, opts.Timeout, logger), nil
}

func NewMQTTPublisher(client mqtt.Client, prefix string, qos byte, timeout time.Duration, logger *log.Logger) *MQTTPublisher {
	if prefix == "" {
		prefix = "carlog"
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &MQTTPublisher{client: client, prefix: prefix, qos: qos, timeout: timeout, logger: logger}
}

// Topic returns the topic an event is published on.
func (p *MQTTPublisher) Topic(e Event) string {
	return fmt.Sprintf("%s/%s/%s", p.prefix, e.Username, e.Type)
}

func (p *MQTTPublisher) Publish(ctx context.Context, e Event) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	token := p.client.Publish(p.Topic(e), p.qos, false, payload)
	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(p.timeout):
		return fmt.Errorf("publish %s: timed out", e.Type)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", e.Type, err)
	}
	p.logger.WithFields(log.Fields{
		"topic":    p.Topic(e),
		"username": e.Username,
	}).Debug("Published event")
	return nil
}

// Close disconnects, waiting up to 250ms for in-flight messages.
func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}
