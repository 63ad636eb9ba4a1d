package brokermap

import (
	"sync"

	"github.com/funkygao/golib/sync2"
)

// ConfigState tracks how far an entity has gone through its lazy
// configuration lifecycle. Once configured, an entity never goes back to
// ConfigUnconfigured: refreshes cycle Configured -> Configuring -> Configured.
type ConfigState int32

const (
	ConfigUnconfigured ConfigState = iota
	ConfigConfiguring
	ConfigConfigured
)

func (s ConfigState) String() string {
	switch s {
	case ConfigUnconfigured:
		return "unconfigured"
	case ConfigConfiguring:
		return "configuring"
	case ConfigConfigured:
		return "configured"
	}
	return "unknown"
}

// lazyConfig defers an entity's first population until first access.
// The mutex serializes configuration passes: concurrent first-time callers
// block until the single in-flight pass completes, then observe its result
// without refetching. A failed pass restores the pre-attempt state.
//
// ever latches on the first successful pass and never clears. It is what
// ensureConfigured fast-paths on: once an entity has been populated, readers
// trust the in-place updated values and a refresh in flight only excludes
// them for the in-memory apply, never for its fetch.
type lazyConfig struct {
	mu    sync.Mutex
	state sync2.AtomicInt32
	ever  sync2.AtomicInt32
}

func (this *lazyConfig) State() ConfigState {
	return ConfigState(this.state.Get())
}

func (this *lazyConfig) Configured() bool {
	return this.State() == ConfigConfigured
}

func (this *lazyConfig) everConfigured() bool {
	return this.ever.Get() == 1
}

// ensureConfigured runs fn at most once, on the first access of a never
// populated entity.
func (this *lazyConfig) ensureConfigured(fn func() error) error {
	if this.everConfigured() {
		return nil
	}

	this.mu.Lock()
	defer this.mu.Unlock()

	if this.everConfigured() {
		// lost the race, somebody else configured while we waited
		return nil
	}

	return this.runConfigure(fn)
}

// reconfigure runs fn unconditionally. It is the watch-triggered refresh
// path and the manual Refresh path.
func (this *lazyConfig) reconfigure(fn func() error) error {
	this.mu.Lock()
	defer this.mu.Unlock()

	return this.runConfigure(fn)
}

func (this *lazyConfig) runConfigure(fn func() error) error {
	prev := this.state.Get()
	this.state.Set(int32(ConfigConfiguring))
	if err := fn(); err != nil {
		this.state.Set(prev)
		return err
	}

	this.state.Set(int32(ConfigConfigured))
	this.ever.Set(1)
	return nil
}
