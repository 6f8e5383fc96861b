package client

import (
	"context"

	"github.com/kbukum/apikit/component"
)

// Component wraps a Client with lifecycle management. Use this when the
// client is part of a managed application.
type Component struct {
	client *Client
	config Config
}

// compile-time assertions
var _ component.Component = (*Component)(nil)
var _ component.Describable = (*Component)(nil)

// NewComponent creates a client component. The client is created lazily
// in Start().
func NewComponent(cfg Config) *Component {
	return &Component{config: cfg}
}

// Name returns the component name.
func (c *Component) Name() string {
	name := c.config.Name
	if name == "" {
		name = "apiclient"
	}
	return name
}

// Start constructs the client, validating the configuration.
func (c *Component) Start(_ context.Context) error {
	cl, err := New(c.config)
	if err != nil {
		return err
	}
	c.client = cl
	return nil
}

// Stop closes the client and releases resources.
func (c *Component) Stop(_ context.Context) error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Health reports whether the client has been started.
func (c *Component) Health(_ context.Context) component.Health {
	status := component.StatusHealthy
	message := ""
	if c.client == nil {
		status = component.StatusUnhealthy
		message = "not started"
	}
	return component.Health{
		Name:    c.Name(),
		Status:  status,
		Message: message,
	}
}

// Describe returns the component description for startup summaries.
func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    c.Name(),
		Type:    "api-client",
		Details: c.config.BaseURL,
	}
}

// Client returns the underlying client. Must be called after Start().
func (c *Component) Client() *Client {
	return c.client
}
