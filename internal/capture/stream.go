package capture

import (
	"fmt"
	"sync/atomic"

	"github.com/gen2brain/malgo"
)

// Config describes how a capture stream is opened.
type Config struct {
	Device     *Device // nil selects the backend default
	Format     Format
	SampleRate uint32
	Channels   uint32
}

// Stream is a running capture device. Blocks arrive on the backend's
// own thread, so the block callback must not assume the caller's
// goroutine.
type Stream struct {
	device  *malgo.Device
	closing atomic.Bool
}

// Open starts capturing and hands every decoded block to onBlock. The
// block slice is reused between calls; callers that need to keep the
// samples must copy them.
func (c *Context) Open(cfg Config, onBlock func(block []float64)) (*Stream, error) {
	native, err := cfg.Format.native()
	if err != nil {
		return nil, err
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = native
	deviceConfig.Capture.Channels = cfg.Channels
	deviceConfig.SampleRate = cfg.SampleRate
	deviceConfig.Alsa.NoMMap = 1
	if cfg.Device != nil {
		id := cfg.Device.ID
		deviceConfig.Capture.DeviceID = id.Pointer()
	}

	s := &Stream{}
	var scratch []float64
	callbacks := malgo.DeviceCallbacks{
		Data: func(_, input []byte, _ uint32) {
			scratch = cfg.Format.decode(scratch, input)
			onBlock(scratch)
		},
		Stop: func() {
			if !s.closing.Load() {
				c.log.Warn("capture device stopped unexpectedly")
			}
		},
	}

	device, err := malgo.InitDevice(c.ctx.Context, deviceConfig, callbacks)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture device: %w", err)
	}
	if err := device.Start(); err != nil {
		device.Uninit()
		return nil, fmt.Errorf("failed to start capture device: %w", err)
	}

	s.device = device
	return s, nil
}

// Close stops the device and releases it.
func (s *Stream) Close() {
	if s.device == nil {
		return
	}
	s.closing.Store(true)
	s.device.Uninit()
	s.device = nil
}
