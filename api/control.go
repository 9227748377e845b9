// File: api/control.go
// Package api defines Control interface.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// Control manages dynamic config, runtime metrics and debug introspection
// for lanes and pools. Components attach probes while they run and detach
// them at shutdown; DumpDebug pulls every probe still live.
type Control interface {
	GetConfig() map[string]any
	SetConfig(cfg map[string]any) error
	Stats() map[string]any
	OnReload(fn func())
	RegisterDebugProbe(name string, fn func() any)
	UnregisterDebugProbe(name string)
	DumpDebug() map[string]any
}
