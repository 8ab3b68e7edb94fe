// Package telemetry feeds pressure readings from an MQTT broker into the
// monitoring service.
package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	mqtt "github.com/eclipse/paho.mqtt.golang"

	ic "irrigation_controller"
	"irrigation_controller/internal/logger"
	"irrigation_controller/internal/service"
)

const (
	connectMaxElapsed = 30 * time.Second
	connectMaxRetries = 5
	disconnectQuiesce = 250 // ms
)

var ErrEmptyReading = errors.New("reading carries neither waterPressure nor operationMode")

// StatusUpdater is the part of the monitoring service the feed drives.
type StatusUpdater interface {
	UpdateStatus(ctx context.Context, p service.StatusParams) (ic.SystemStatus, error)
}

// Reading is one sensor message.
type Reading struct {
	WaterPressure *float64 `json:"waterPressure"`
	OperationMode *string  `json:"operationMode,omitempty"`
}

// Decode parses a payload into a partial status update.
func Decode(payload []byte) (service.StatusParams, error) {
	var r Reading
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&r); err != nil {
		return service.StatusParams{}, fmt.Errorf("decode reading: %w", err)
	}
	if r.WaterPressure == nil && r.OperationMode == nil {
		return service.StatusParams{}, ErrEmptyReading
	}
	return service.StatusParams{WaterPressure: r.WaterPressure, OperationMode: r.OperationMode}, nil
}

type BrokerConfig struct {
	Broker   string
	ClientID string
	Username string
	Password string
}

// Connect dials the broker, retrying with exponential backoff. The client is
// disconnected when ctx is cancelled.
func Connect(ctx context.Context, cfg BrokerConfig, log *logger.Logger) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	opts.SetUsername(cfg.Username)
	opts.SetPassword(cfg.Password)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		log.Warnw("mqtt_connection_lost", "broker", cfg.Broker, "error", err)
	})

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = connectMaxElapsed

	var client mqtt.Client
	err := backoff.Retry(func() error {
		client = mqtt.NewClient(opts)
		token := client.Connect()
		if token.Wait() && token.Error() != nil {
			log.Warnw("mqtt_connect_failed", "broker", cfg.Broker, "error", token.Error())
			return token.Error()
		}
		return nil
	}, backoff.WithContext(backoff.WithMaxRetries(bo, connectMaxRetries-1), ctx))
	if err != nil {
		return nil, fmt.Errorf("connect mqtt %s: %w", cfg.Broker, err)
	}
	log.Infow("mqtt_connected", "broker", cfg.Broker)

	go func() {
		<-ctx.Done()
		client.Disconnect(disconnectQuiesce)
		log.Infow("mqtt_disconnected", "broker", cfg.Broker)
	}()
	return client, nil
}

// Feed subscribes to a topic and applies every valid reading.
type Feed struct {
	client  mqtt.Client
	topic   string
	qos     byte
	updater StatusUpdater
	log     *logger.Logger
}

func NewFeed(client mqtt.Client, topic string, qos byte, updater StatusUpdater, log *logger.Logger) *Feed {
	return &Feed{client: client, topic: topic, qos: qos, updater: updater, log: log}
}

// Run subscribes and blocks until ctx is done.
func (f *Feed) Run(ctx context.Context) error {
	token := f.client.Subscribe(f.topic, f.qos, func(_ mqtt.Client, m mqtt.Message) {
		if err := f.Handle(ctx, m.Payload()); err != nil {
			f.log.Warnw("telemetry_reading_dropped", "topic", m.Topic(), "error", err)
		}
	})
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("subscribe %s: %w", f.topic, token.Error())
	}
	f.log.Infow("telemetry_subscribed", "topic", f.topic, "qos", f.qos)

	<-ctx.Done()
	f.client.Unsubscribe(f.topic).Wait()
	return nil
}

// Handle applies one payload. Malformed or rejected readings return an error
// and leave the state untouched.
func (f *Feed) Handle(ctx context.Context, payload []byte) error {
	params, err := Decode(payload)
	if err != nil {
		return err
	}
	status, err := f.updater.UpdateStatus(ctx, params)
	if err != nil {
		return fmt.Errorf("apply reading: %w", err)
	}
	f.log.Debugw("telemetry_reading_applied", "water_pressure", status.WaterPressure, "mode", status.OperationMode)
	return nil
}
