package liveapi

import (
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
)

// AudioDevice represents an audio device
type AudioDevice struct {
	ID                int
	Name              string
	MaxInputChannels  int
	MaxOutputChannels int
	DefaultSampleRate float64
	IsDefault         bool
	IsInput           bool
	IsOutput          bool
	HostAPI           string
}

// DeviceManager enumerates and validates audio devices
type DeviceManager struct {
	mu      sync.RWMutex
	devices []AudioDevice
	logger  *Logger
}

func NewDeviceManager() *DeviceManager {
	return &DeviceManager{
		devices: make([]AudioDevice, 0),
		logger:  GetGlobalLogger().WithComponent("DeviceManager"),
	}
}

// Initialize starts PortAudio and loads the device list
func (dm *DeviceManager) Initialize() error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if err := portaudio.Initialize(); err != nil {
		dm.logger.WithError(err).Error("Failed to initialize PortAudio")
		return WrapError(err, ErrCodeAudioDevice)
	}
	if err := dm.refreshDevices(); err != nil {
		return WrapError(err, ErrCodeAudioDevice)
	}
	dm.logger.WithField("device_count", len(dm.devices)).Debug("Device manager initialized")
	return nil
}

// Cleanup terminates PortAudio
func (dm *DeviceManager) Cleanup() {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if err := portaudio.Terminate(); err != nil {
		dm.logger.WithError(err).Error("Failed to terminate PortAudio")
	}
}

func (dm *DeviceManager) refreshDevices() error {
	dm.devices = make([]AudioDevice, 0)

	defaultInput, err := portaudio.DefaultInputDevice()
	if err != nil {
		dm.logger.WithError(err).Warn("No default input device")
	}
	defaultOutput, err := portaudio.DefaultOutputDevice()
	if err != nil {
		dm.logger.WithError(err).Warn("No default output device")
	}

	devices, err := portaudio.Devices()
	if err != nil {
		return err
	}

	for i, dev := range devices {
		hostAPIName := "Unknown"
		if dev.HostApi != nil {
			hostAPIName = dev.HostApi.Name
		}

		device := AudioDevice{
			ID:                i,
			Name:              dev.Name,
			MaxInputChannels:  dev.MaxInputChannels,
			MaxOutputChannels: dev.MaxOutputChannels,
			DefaultSampleRate: dev.DefaultSampleRate,
			IsInput:           dev.MaxInputChannels > 0,
			IsOutput:          dev.MaxOutputChannels > 0,
			HostAPI:           hostAPIName,
		}
		if (defaultInput != nil && dev == defaultInput) || (defaultOutput != nil && dev == defaultOutput) {
			device.IsDefault = true
		}
		dm.devices = append(dm.devices, device)
	}
	return nil
}

// Devices returns a copy of all available audio devices
func (dm *DeviceManager) Devices() []AudioDevice {
	dm.mu.RLock()
	defer dm.mu.RUnlock()

	devices := make([]AudioDevice, len(dm.devices))
	copy(devices, dm.devices)
	return devices
}

// InputDevices returns all input-capable devices
func (dm *DeviceManager) InputDevices() []AudioDevice {
	dm.mu.RLock()
	defer dm.mu.RUnlock()

	inputs := make([]AudioDevice, 0)
	for _, device := range dm.devices {
		if device.IsInput {
			inputs = append(inputs, device)
		}
	}
	return inputs
}

// OutputDevices returns all output-capable devices
func (dm *DeviceManager) OutputDevices() []AudioDevice {
	dm.mu.RLock()
	defer dm.mu.RUnlock()

	outputs := make([]AudioDevice, 0)
	for _, device := range dm.devices {
		if device.IsOutput {
			outputs = append(outputs, device)
		}
	}
	return outputs
}

// DeviceByID returns a device by its ID
func (dm *DeviceManager) DeviceByID(id int) (*AudioDevice, error) {
	dm.mu.RLock()
	defer dm.mu.RUnlock()

	for _, device := range dm.devices {
		if device.ID == id {
			return &device, nil
		}
	}
	return nil, fmt.Errorf("device with ID %d not found", id)
}

// ValidateDevice checks that a device can serve the given direction,
// channel count, and roughly the requested sample rate.
func (dm *DeviceManager) ValidateDevice(deviceID int, isInput bool, channels int, sampleRate float64) error {
	device, err := dm.DeviceByID(deviceID)
	if err != nil {
		return err
	}

	if isInput {
		if !device.IsInput {
			return fmt.Errorf("device '%s' is not an input device", device.Name)
		}
		if device.MaxInputChannels < channels {
			return fmt.Errorf("device '%s' supports max %d input channels, requested %d",
				device.Name, device.MaxInputChannels, channels)
		}
	} else {
		if !device.IsOutput {
			return fmt.Errorf("device '%s' is not an output device", device.Name)
		}
		if device.MaxOutputChannels < channels {
			return fmt.Errorf("device '%s' supports max %d output channels, requested %d",
				device.Name, device.MaxOutputChannels, channels)
		}
	}

	if sampleRate > 0 && device.DefaultSampleRate > 0 {
		ratio := sampleRate / device.DefaultSampleRate
		if ratio < 0.5 || ratio > 2.0 {
			dm.logger.WithField("device_name", device.Name).
				Warnf("Requested %.0f Hz differs a lot from device default %.0f Hz",
					sampleRate, device.DefaultSampleRate)
		}
	}
	return nil
}

// DeviceInfo returns formatted device information
func (dm *DeviceManager) DeviceInfo(deviceID int) (string, error) {
	device, err := dm.DeviceByID(deviceID)
	if err != nil {
		return "", err
	}

	capabilities := ""
	if device.IsInput && device.IsOutput {
		capabilities = "Input/Output"
	} else if device.IsInput {
		capabilities = "Input"
	} else if device.IsOutput {
		capabilities = "Output"
	} else {
		capabilities = "None"
	}

	info := fmt.Sprintf("Device: %s\n", device.Name)
	info += fmt.Sprintf("  ID: %d\n", device.ID)
	info += fmt.Sprintf("  Host API: %s\n", device.HostAPI)
	info += fmt.Sprintf("  Input Channels: %d\n", device.MaxInputChannels)
	info += fmt.Sprintf("  Output Channels: %d\n", device.MaxOutputChannels)
	info += fmt.Sprintf("  Default Sample Rate: %.1f Hz\n", device.DefaultSampleRate)
	info += fmt.Sprintf("  Is Default: %v\n", device.IsDefault)
	info += fmt.Sprintf("  Capabilities: %s\n", capabilities)
	return info, nil
}

// ListAudioDevices is a convenience wrapper: initialize, list, terminate.
func ListAudioDevices() ([]AudioDevice, error) {
	dm := NewDeviceManager()
	if err := dm.Initialize(); err != nil {
		return nil, err
	}
	defer dm.Cleanup()
	return dm.Devices(), nil
}
