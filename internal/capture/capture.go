// Package capture opens microphone devices through the miniaudio backend
// and delivers interleaved sample blocks as normalized float64 slices.
package capture

import (
	"fmt"
	"strings"

	"github.com/gen2brain/malgo"
	"github.com/sirupsen/logrus"
)

// Device identifies one capture device as enumerated by the backend.
type Device struct {
	Index   int
	ID      malgo.DeviceID
	Name    string
	Default bool
}

// String renders the device the way device lists print it.
func (d Device) String() string {
	if d.Default {
		return fmt.Sprintf("%d: %s (default)", d.Index, d.Name)
	}
	return fmt.Sprintf("%d: %s", d.Index, d.Name)
}

// Context owns the miniaudio context shared by device enumeration and
// open streams. Close it after every stream has been closed.
type Context struct {
	ctx *malgo.AllocatedContext
	log *logrus.Logger
}

// NewContext initializes the backend and routes its internal messages
// to the debug log.
func NewContext(log *logrus.Logger) (*Context, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {
		log.Debugf("miniaudio: %s", strings.TrimSpace(message))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize audio backend: %w", err)
	}
	return &Context{ctx: ctx, log: log}, nil
}

// Devices enumerates the capture devices known to the backend.
func (c *Context) Devices() ([]Device, error) {
	infos, err := c.ctx.Devices(malgo.Capture)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate capture devices: %w", err)
	}

	devices := make([]Device, 0, len(infos))
	for i, info := range infos {
		devices = append(devices, Device{
			Index:   i,
			ID:      info.ID,
			Name:    strings.TrimRight(info.Name(), "\x00"),
			Default: info.IsDefault != 0,
		})
	}
	return devices, nil
}

// Close releases the backend context.
func (c *Context) Close() error {
	if c.ctx == nil {
		return nil
	}
	err := c.ctx.Uninit()
	c.ctx.Free()
	c.ctx = nil
	if err != nil {
		return fmt.Errorf("failed to release audio backend: %w", err)
	}
	return nil
}
