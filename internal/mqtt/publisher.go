// Package mqtt publishes weather alerts to an MQTT broker.
package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

var (
	errNotConnected = errors.New("mqtt client not connected")
	errStopped      = errors.New("client stopped")
)

const publishTimeout = 5 * time.Second

// Options configures the publisher.
type Options struct {
	Broker      string // e.g. tcp://localhost:1883
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string
}

// AlertMessage is the payload published for each alert.
type AlertMessage struct {
	Location    weather.Location `json:"location"`
	Alert       weather.Alert    `json:"alert"`
	PublishedAt time.Time        `json:"publishedAt"`
}

// Publisher implements weather.AlertPublisher on top of paho.
type Publisher struct {
	client    mqtt.Client
	prefix    string
	logger    *slog.Logger
	mu        sync.RWMutex
	connected bool

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewPublisher configures, but does not connect, a publisher.
func NewPublisher(o Options, logger *slog.Logger) *Publisher {
	p := &Publisher{
		prefix: strings.TrimRight(o.TopicPrefix, "/"),
		logger: logger,
		stopCh: make(chan struct{}),
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(o.Broker)
	opts.SetClientID(o.ClientID)
	if o.Username != "" {
		opts.SetUsername(o.Username)
		opts.SetPassword(o.Password)
	}

	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetMaxReconnectInterval(60 * time.Second)
	opts.SetKeepAlive(30 * time.Second)
	opts.SetPingTimeout(10 * time.Second)

	opts.SetOnConnectHandler(func(_ mqtt.Client) {
		p.setConnected(true)
		logger.Info("mqtt connected", slog.String("broker", o.Broker))
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		p.setConnected(false)
		logger.Warn("mqtt connection lost", slog.Any("error", err))
	})

	p.client = mqtt.NewClient(opts)
	return p
}

// Connect waits for the initial connection while respecting ctx and Close.
func (p *Publisher) Connect(ctx context.Context) error {
	select {
	case <-p.stopCh:
		return errStopped
	default:
	}
	if p.IsConnected() {
		return nil
	}

	token := p.client.Connect()
	const poll = 200 * time.Millisecond
	for {
		if token.WaitTimeout(poll) {
			if err := token.Error(); err != nil {
				return fmt.Errorf("mqtt connect: %w", err)
			}
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.stopCh:
			return errStopped
		default:
		}
	}
}

// Topic returns the topic alerts for loc are published on.
func (p *Publisher) Topic(loc weather.Location) string {
	slug := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '/', '+', '#':
			return '-'
		}
		return r
	}, loc.Key())
	if p.prefix == "" {
		return slug
	}
	return p.prefix + "/" + slug
}

// PublishAlerts publishes every alert as a separate QoS 1 message.
func (p *Publisher) PublishAlerts(ctx context.Context, loc weather.Location, alerts []weather.Alert) error {
	if len(alerts) == 0 {
		return nil
	}
	if !p.IsConnected() {
		return errNotConnected
	}

	topic := p.Topic(loc)
	for _, a := range alerts {
		if err := ctx.Err(); err != nil {
			return err
		}

		data, err := json.Marshal(AlertMessage{Location: loc, Alert: a, PublishedAt: time.Now().UTC()})
		if err != nil {
			return fmt.Errorf("marshal alert: %w", err)
		}

		token := p.client.Publish(topic, 1, false, data)
		if !token.WaitTimeout(publishTimeout) {
			return fmt.Errorf("publish timeout for topic %s", topic)
		}
		if err := token.Error(); err != nil {
			p.logger.Error("failed to publish alert", slog.String("topic", topic), slog.Any("error", err))
			return fmt.Errorf("publish alert: %w", err)
		}
		p.logger.Debug("published alert", slog.String("topic", topic), slog.String("id", a.ID),
			slog.String("type", string(a.Type)))
	}
	return nil
}

// IsConnected reports whether the broker connection is up.
func (p *Publisher) IsConnected() bool {
	p.mu.RLock()
	connected := p.connected
	p.mu.RUnlock()
	return connected && p.client.IsConnected()
}

// Close disconnects from the broker. It is safe to call more than once.
func (p *Publisher) Close() {
	p.stopOnce.Do(func() { close(p.stopCh) })
	if p.client != nil {
		p.client.Disconnect(250)
	}
	p.setConnected(false)
	p.logger.Info("mqtt disconnected")
}

func (p *Publisher) setConnected(v bool) {
	p.mu.Lock()
	p.connected = v
	p.mu.Unlock()
}

// LogPublisher is used when no broker is configured; it only logs alerts.
type LogPublisher struct {
	Logger *slog.Logger
}

func (l LogPublisher) PublishAlerts(_ context.Context, loc weather.Location, alerts []weather.Alert) error {
	for _, a := range alerts {
		l.Logger.Info("weather alert", slog.String("location", loc.Name), slog.String("type", string(a.Type)),
			slog.String("severity", string(a.Severity)), slog.String("title", a.Title))
	}
	return nil
}
