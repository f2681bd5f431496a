package autodiff

import (
	"fmt"

	"github.com/loom-ml/loom/internal/tensor"
)

// BackwardCapable is satisfied by backends that carry a gradient tape.
// It lets Backward stay generic over the wrapped backend type.
type BackwardCapable interface {
	tensor.Backend
	GetTape() *GradientTape
}

// GetTape exposes the tape for the BackwardCapable interface.
func (b *AutodiffBackend[B]) GetTape() *GradientTape {
	return b.tape
}

// Backward runs the backward pass starting from t, seeding its gradient
// with ones. For a scalar loss this yields dLoss/dInput for every tensor
// on the tape; for a non-scalar t the result is the gradient of sum(t).
//
// Panics when nothing was recorded, which almost always means recording
// was never started.
//
// Example:
//
//	backend := autodiff.New(cpu.New())
//	backend.Tape().StartRecording()
//	x := tensor.Ones[float32](tensor.Shape{2}, backend)
//	y := x.Mul(x)
//	grads := autodiff.Backward(y, backend)
//	dx := grads[x.Raw()]
func Backward[T tensor.DType, B BackwardCapable](t *tensor.Tensor[T, B], backend B) map[*tensor.RawTensor]*tensor.RawTensor {
	tape := backend.GetTape()

	if tape.NumOps() == 0 {
		panic("backward: no operations recorded (did you forget to call Tape().StartRecording()?)")
	}

	seed, err := tensor.NewRaw(t.Shape(), t.DType(), backend.Device())
	if err != nil {
		panic(fmt.Sprintf("backward: failed to create output gradient: %v", err))
	}

	switch t.DType() {
	case tensor.Float32:
		data := seed.AsFloat32()
		for i := range data {
			data[i] = 1
		}
	case tensor.Float64:
		data := seed.AsFloat64()
		for i := range data {
			data[i] = 1
		}
	default:
		panic(fmt.Sprintf("backward: unsupported dtype %s", t.DType()))
	}

	return tape.Backward(seed, backend)
}
