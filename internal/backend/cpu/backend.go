// Package cpu implements the pure-Go CPU backend for tensor operations.
package cpu

import (
	"github.com/loom-ml/loom/internal/tensor"
)

// CPUBackend implements tensor operations on CPU in pure Go.
type CPUBackend struct {
	device tensor.Device
}

// New creates a new CPU backend.
func New() *CPUBackend {
	return &CPUBackend{
		device: tensor.CPU,
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}
