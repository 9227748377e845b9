// control/control.go
// Author: momentics <momentics@gmail.com>
//
// Controller binds the config store, metrics registry and debug probes into
// the api.Control contract.

package control

import "github.com/momentics/hioload-core/api"

// Controller implements api.Control over the package's stores.
type Controller struct {
	config  *ConfigStore
	metrics *MetricsRegistry
	probes  *DebugProbes
}

var _ api.Control = (*Controller)(nil)

// NewController creates a controller with empty stores.
func NewController() *Controller {
	return &Controller{
		config:  NewConfigStore(),
		metrics: NewMetricsRegistry(),
		probes:  NewDebugProbes(),
	}
}

// GetConfig returns a config snapshot.
func (c *Controller) GetConfig() map[string]any {
	return c.config.GetSnapshot()
}

// SetConfig merges cfg and triggers reload listeners.
func (c *Controller) SetConfig(cfg map[string]any) error {
	c.config.SetConfig(cfg)
	return nil
}

// Stats returns a metrics snapshot including registered sources.
func (c *Controller) Stats() map[string]any {
	return c.metrics.GetSnapshot()
}

// OnReload registers a config reload listener.
func (c *Controller) OnReload(fn func()) {
	c.config.OnReload(fn)
}

// RegisterDebugProbe inserts a named debug hook.
func (c *Controller) RegisterDebugProbe(name string, fn func() any) {
	c.probes.RegisterProbe(name, fn)
}

// UnregisterDebugProbe removes a named debug hook.
func (c *Controller) UnregisterDebugProbe(name string) {
	c.probes.UnregisterProbe(name)
}

// DumpDebug pulls every live probe.
func (c *Controller) DumpDebug() map[string]any {
	return c.probes.DumpState()
}

// Config exposes the underlying store for typed reads.
func (c *Controller) Config() *ConfigStore { return c.config }

// Metrics exposes the underlying registry for source registration.
func (c *Controller) Metrics() *MetricsRegistry { return c.metrics }

// Probes exposes the debug probe registry.
func (c *Controller) Probes() *DebugProbes { return c.probes }
