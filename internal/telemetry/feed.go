// Package telemetry wires the live-update channel into the device registry.
// The transport delivers whole Device or Position objects; this layer decodes
// them and applies each message atomically through the registry's single
// write entry points, in arrival order. Out-of-order correction beyond the
// registry's fix-time guard is the transport's responsibility.
package telemetry

import (
	"encoding/json"
	"errors"
	"sync"

	"fleettrack/internal/config"
	"fleettrack/internal/model"
	"fleettrack/internal/registry"
	pkgmqtt "fleettrack/pkg/mqtt"

	"go.uber.org/zap"
)

// Feed consumes device and position pushes from the MQTT broker.
type Feed struct {
	cfg      *config.TelemetryConfig
	client   *pkgmqtt.Client
	registry *registry.Store

	mu      sync.Mutex
	started bool
}

func NewFeed(cfg *config.TelemetryConfig, reg *registry.Store) (*Feed, error) {
	if cfg == nil || cfg.Broker == "" {
		return nil, errors.New("telemetry broker is not configured")
	}
	client := pkgmqtt.NewClient(&pkgmqtt.Config{
		Broker:               cfg.Broker,
		ClientID:             cfg.ClientID,
		Username:             cfg.Username,
		Password:             cfg.Password,
		KeepAlive:            cfg.KeepAlive,
		ConnectTimeout:       cfg.ConnectTimeout,
		MaxReconnectInterval: cfg.MaxReconnectInterval,
	})
	return &Feed{cfg: cfg, client: client, registry: reg}, nil
}

// Start connects and subscribes to the device and position topics. Calling
// Start on a running feed is a no-op.
func (f *Feed) Start() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.started {
		return nil
	}

	if err := f.client.Connect(); err != nil {
		return err
	}

	if f.cfg.DeviceTopic != "" {
		if err := f.client.Subscribe(f.cfg.DeviceTopic, f.cfg.QoS, f.handleDevice); err != nil {
			return err
		}
	}
	if f.cfg.PositionTopic != "" {
		if err := f.client.Subscribe(f.cfg.PositionTopic, f.cfg.QoS, f.handlePosition); err != nil {
			return err
		}
	}

	f.started = true
	return nil
}

func (f *Feed) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.started {
		return
	}
	f.client.Disconnect()
	f.started = false
}

func (f *Feed) handleDevice(topic string, payload []byte) {
	var device model.Device
	if err := json.Unmarshal(payload, &device); err != nil {
		zap.L().Warn("Dropping malformed device push",
			zap.String("topic", topic),
			zap.Error(err),
		)
		return
	}
	if device.ID == 0 {
		zap.L().Warn("Dropping device push without id", zap.String("topic", topic))
		return
	}
	f.registry.UpsertDevice(device)
}

func (f *Feed) handlePosition(topic string, payload []byte) {
	var position model.Position
	if err := json.Unmarshal(payload, &position); err != nil {
		zap.L().Warn("Dropping malformed position push",
			zap.String("topic", topic),
			zap.Error(err),
		)
		return
	}
	if position.DeviceID == 0 {
		zap.L().Warn("Dropping position push without device id", zap.String("topic", topic))
		return
	}
	f.registry.UpsertPosition(position)
}
