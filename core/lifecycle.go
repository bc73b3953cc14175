package core

import (
	"context"
	"fmt"
	"sync"
)

// ReadyPriority is the host ready event priority the controller binds at, so
// the plugin initializes before other extensions.
const ReadyPriority = 0

// Controller owns the single Plugin instance of a process. The first
// GetInstance call builds and starts it; later calls return the same
// instance without running startup again.
type Controller struct {
	config  Config
	options []Option

	mu       sync.Mutex
	instance *Plugin
	report   StartupReport
	started  bool
}

func NewController(cfg Config, opts ...Option) *Controller {
	return &Controller{
		config:  cfg,
		options: append([]Option(nil), opts...),
	}
}

func (c *Controller) GetInstance(ctx context.Context) (*Plugin, error) {
	if c == nil {
		return nil, fmt.Errorf("core: controller is nil")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return c.instance, nil
	}

	plugin, err := NewPlugin(c.config, c.options...)
	if err != nil {
		return nil, err
	}
	report, err := plugin.Start(ctx)
	c.instance = plugin
	c.report = report
	c.started = true
	return plugin, err
}

// Instance returns the started plugin, or nil before the first GetInstance.
func (c *Controller) Instance() *Plugin {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.instance
}

func (c *Controller) StartupReport() StartupReport {
	if c == nil {
		return StartupReport{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.report
}

// Bind registers plugin startup on the host ready event. When opts do not
// name a host, the bound host is used for gateway registration.
func (c *Controller) Bind(host Host) error {
	if c == nil {
		return fmt.Errorf("core: controller is nil")
	}
	if host == nil {
		return fmt.Errorf("core: host is required")
	}
	c.mu.Lock()
	c.options = append([]Option{WithHost(host)}, c.options...)
	c.mu.Unlock()

	host.OnReady(ReadyPriority, func(ctx context.Context) error {
		_, err := c.GetInstance(ctx)
		return err
	})
	return nil
}
