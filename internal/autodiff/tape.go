package autodiff

import (
	"github.com/loom-ml/loom/internal/autodiff/ops"
	"github.com/loom-ml/loom/internal/tensor"
)

// GradientTape collects the operations of a forward pass in execution
// order. Walking them in reverse with the chain rule yields the gradient
// of the recorded computation.
//
// Usage:
//
//	tape := NewGradientTape()
//	tape.StartRecording()
//	// forward pass through the recording backend
//	grads := tape.Backward(seed, backend)
type GradientTape struct {
	operations []ops.Operation
	recording  bool
}

// NewGradientTape returns an empty tape with recording off.
func NewGradientTape() *GradientTape {
	return &GradientTape{
		operations: make([]ops.Operation, 0, 64),
	}
}

// StartRecording makes Record start accepting operations.
func (t *GradientTape) StartRecording() {
	t.recording = true
}

// StopRecording makes Record drop operations again.
func (t *GradientTape) StopRecording() {
	t.recording = false
}

// IsRecording reports whether operations are currently being collected.
func (t *GradientTape) IsRecording() bool {
	return t.recording
}

// Record appends op to the tape when recording, and is a no-op otherwise.
func (t *GradientTape) Record(op ops.Operation) {
	if t.recording {
		t.operations = append(t.operations, op)
	}
}

// Clear drops all recorded operations without touching the recording flag.
func (t *GradientTape) Clear() {
	t.operations = t.operations[:0]
}

// NumOps returns how many operations the tape holds.
func (t *GradientTape) NumOps() int {
	return len(t.operations)
}

// Backward propagates outputGrad from the last recorded operation back to
// every tensor on the tape. Ops whose output never received a gradient are
// skipped; tensors consumed more than once have their gradients summed.
// Recording is suspended for the duration so the gradient math itself does
// not land on the tape.
//
// The returned map is keyed by the forward pass's RawTensor identities.
func (t *GradientTape) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) map[*tensor.RawTensor]*tensor.RawTensor {
	grads := make(map[*tensor.RawTensor]*tensor.RawTensor)
	if len(t.operations) == 0 {
		return grads
	}

	wasRecording := t.recording
	t.recording = false
	defer func() {
		t.recording = wasRecording
	}()

	grads[t.operations[len(t.operations)-1].Output()] = outputGrad

	for i := len(t.operations) - 1; i >= 0; i-- {
		op := t.operations[i]

		opOutputGrad, ok := grads[op.Output()]
		if !ok {
			continue
		}

		inputGrads := op.Backward(opOutputGrad, backend)
		for j, input := range op.Inputs() {
			if j >= len(inputGrads) || inputGrads[j] == nil {
				continue
			}
			if existing, found := grads[input]; found {
				grads[input] = backend.Add(existing, inputGrads[j])
			} else {
				grads[input] = inputGrads[j]
			}
		}
	}

	return grads
}
