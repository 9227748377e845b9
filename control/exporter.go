// control/exporter.go
// Author: momentics <momentics@gmail.com>
//
// Prometheus bridge for lane and pool telemetry. Collectors are registered
// once; components push observations at lifecycle edges.

package control

import (
	"errors"
	"fmt"

	prom "github.com/prometheus/client_golang/prometheus"
)

// Exporter adapts hioload-core telemetry to Prometheus collectors.
type Exporter struct {
	itemsProcessedTotal *prom.CounterVec
	handlerPanicsTotal  *prom.CounterVec
	submitRejectedTotal *prom.CounterVec
	queueDepth          *prom.GaugeVec
	arenaCapacityBytes  *prom.GaugeVec
	arenaBlocks         *prom.GaugeVec
}

// NewExporter creates and registers collectors under namespace, using the
// default registerer when reg is nil. Re-registration of identical
// collectors is tolerated so multiple components can share one namespace.
func NewExporter(namespace string, reg prom.Registerer) (*Exporter, error) {
	if namespace == "" {
		namespace = "hioload"
	}
	if reg == nil {
		reg = prom.DefaultRegisterer
	}

	processedVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "lane_items_processed_total",
		Help:      "Total number of items handled by a lane.",
	}, []string{"lane"})
	panicsVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "lane_handler_panics_total",
		Help:      "Total number of recovered handler panics.",
	}, []string{"lane"})
	rejectedVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "lane_submit_rejected_total",
		Help:      "Total number of submissions rejected after shutdown.",
	}, []string{"lane"})
	depthVec := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "lane_queue_depth",
		Help:      "Current work queue depth.",
	}, []string{"lane"})
	capacityVec := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "arena_capacity_bytes",
		Help:      "Total bytes backing a scratch arena.",
	}, []string{"lane"})
	blocksVec := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "arena_blocks",
		Help:      "Number of blocks in a scratch arena.",
	}, []string{"lane"})

	var err error
	if processedVec, err = registerCollector(reg, processedVec); err != nil {
		return nil, err
	}
	if panicsVec, err = registerCollector(reg, panicsVec); err != nil {
		return nil, err
	}
	if rejectedVec, err = registerCollector(reg, rejectedVec); err != nil {
		return nil, err
	}
	if depthVec, err = registerCollector(reg, depthVec); err != nil {
		return nil, err
	}
	if capacityVec, err = registerCollector(reg, capacityVec); err != nil {
		return nil, err
	}
	if blocksVec, err = registerCollector(reg, blocksVec); err != nil {
		return nil, err
	}

	return &Exporter{
		itemsProcessedTotal: processedVec,
		handlerPanicsTotal:  panicsVec,
		submitRejectedTotal: rejectedVec,
		queueDepth:          depthVec,
		arenaCapacityBytes:  capacityVec,
		arenaBlocks:         blocksVec,
	}, nil
}

// RecordProcessed counts one handled item.
func (e *Exporter) RecordProcessed(lane string) {
	if e == nil {
		return
	}
	e.itemsProcessedTotal.WithLabelValues(lane).Inc()
}

// RecordPanic counts one recovered handler panic.
func (e *Exporter) RecordPanic(lane string) {
	if e == nil {
		return
	}
	e.handlerPanicsTotal.WithLabelValues(lane).Inc()
}

// RecordRejected counts one submission rejected after shutdown.
func (e *Exporter) RecordRejected(lane string) {
	if e == nil {
		return
	}
	e.submitRejectedTotal.WithLabelValues(lane).Inc()
}

// RecordQueueDepth records the current queue depth.
func (e *Exporter) RecordQueueDepth(lane string, depth int) {
	if e == nil {
		return
	}
	e.queueDepth.WithLabelValues(lane).Set(float64(depth))
}

// RecordArena records scratch arena capacity and block count.
func (e *Exporter) RecordArena(lane string, capacityBytes, blocks int) {
	if e == nil {
		return
	}
	e.arenaCapacityBytes.WithLabelValues(lane).Set(float64(capacityBytes))
	e.arenaBlocks.WithLabelValues(lane).Set(float64(blocks))
}

func registerCollector[T prom.Collector](reg prom.Registerer, collector T) (T, error) {
	err := reg.Register(collector)
	if err == nil {
		return collector, nil
	}

	var alreadyRegisteredErr prom.AlreadyRegisteredError
	if errors.As(err, &alreadyRegisteredErr) {
		existing, ok := alreadyRegisteredErr.ExistingCollector.(T)
		if !ok {
			return collector, fmt.Errorf("collector type mismatch for %T", collector)
		}
		return existing, nil
	}

	return collector, err
}
