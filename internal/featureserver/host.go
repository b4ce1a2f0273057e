package featureserver

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/labstack/echo/v4"
)

// Host is the plugin registry assembled once at startup.
type Host struct {
	log       *slog.Logger
	providers []Provider
	outputs   []Output
}

// NewHost creates an empty host.
func NewHost(log *slog.Logger) *Host {
	if log == nil {
		log = slog.Default()
	}
	return &Host{log: log}
}

// RegisterProvider adds a data provider.
func (h *Host) RegisterProvider(p Provider) error {
	if p == nil {
		return fmt.Errorf("register provider: nil provider")
	}
	name, err := pluginName(p.Name())
	if err != nil {
		return fmt.Errorf("register provider: %w", err)
	}
	for _, existing := range h.providers {
		if existing.Name() == name {
			return fmt.Errorf("register provider: %q already registered", name)
		}
	}
	h.providers = append(h.providers, p)
	h.log.Debug("Registered provider", "provider", name)
	return nil
}

// RegisterOutput adds an output plugin.
func (h *Host) RegisterOutput(o Output) error {
	if o == nil {
		return fmt.Errorf("register output: nil output")
	}
	name, err := pluginName(o.Name())
	if err != nil {
		return fmt.Errorf("register output: %w", err)
	}
	for _, existing := range h.outputs {
		if existing.Name() == name {
			return fmt.Errorf("register output: %q already registered", name)
		}
	}
	h.outputs = append(h.outputs, o)
	h.log.Debug("Registered output", "output", name, "routes", len(o.Routes()))
	return nil
}

// RegisterRoutes mounts every output route under every provider namespace.
func (h *Host) RegisterRoutes(s *echo.Echo) {
	for _, p := range h.providers {
		group := s.Group("/" + p.Name())
		for _, o := range h.outputs {
			for _, route := range o.Routes() {
				group.Add(route.Method, route.Path, route.Handler(p))
				h.log.Debug("Mounted route",
					"method", route.Method,
					"path", "/"+p.Name()+route.Path,
					"provider", p.Name(),
					"output", o.Name(),
				)
			}
		}
	}
}

// Providers returns registered provider names in registration order.
func (h *Host) Providers() []string {
	names := make([]string, 0, len(h.providers))
	for _, p := range h.providers {
		names = append(names, p.Name())
	}
	return names
}

// Outputs returns registered output names in registration order.
func (h *Host) Outputs() []string {
	names := make([]string, 0, len(h.outputs))
	for _, o := range h.outputs {
		names = append(names, o.Name())
	}
	return names
}

func pluginName(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("empty name")
	}
	if name != strings.TrimSpace(name) || strings.ContainsAny(name, "/ ") {
		return "", fmt.Errorf("name %q must be a single path segment", name)
	}
	return name, nil
}
