package mqtt

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"devicesim/internal/domain"
	"devicesim/internal/pool"
)

// TelemetryPublisher periodically publishes PoolStats snapshots to MQTT;
// it publishes no per-device snapshots. It is adapted from a per-entity
// Home-Assistant publisher into a simple interval-driven telemetry sink:
// there is no discovery handshake to run since nothing here is a Home
// Assistant entity.
type TelemetryPublisher struct {
	client   *Client
	pool     devicePoolView
	interval time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// devicePoolView is the narrow slice of *pool.LazyDevicePool the publisher
// needs, kept as an interface so it can be exercised without a live pool
// in tests.
type devicePoolView interface {
	GetStats() domain.PoolStats
}

// NewTelemetryPublisher creates a new telemetry publisher. interval
// defaults to 10s if zero.
func NewTelemetryPublisher(client *Client, devicePool *pool.LazyDevicePool, interval time.Duration) *TelemetryPublisher {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &TelemetryPublisher{
		client:   client,
		pool:     devicePool,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start launches the periodic publish loop.
func (p *TelemetryPublisher) Start() {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-p.ctx.Done():
				return
			case <-ticker.C:
				p.publishStats()
			}
		}
	}()
}

// Stop halts the publish loop and waits for it to exit.
func (p *TelemetryPublisher) Stop() {
	p.cancel()
	p.wg.Wait()
}

func (p *TelemetryPublisher) publishStats() {
	if !p.client.IsConnected() {
		return
	}
	stats := p.pool.GetStats()
	topic := fmt.Sprintf("%s/pool/stats", p.client.topicPrefix)
	if err := p.client.Publish(topic, stats, false); err != nil {
		log.Printf("[ERROR] mqtt: failed to publish pool stats: %v", err)
	}
}
