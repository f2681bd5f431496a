package autodiff_test

import (
	"math"
	"testing"

	"github.com/loom-ml/loom/internal/autodiff"
	"github.com/loom-ml/loom/internal/backend/cpu"
	"github.com/loom-ml/loom/internal/tensor"
)

type testBackend = *autodiff.AutodiffBackend[*cpu.CPUBackend]

func newBackend() testBackend {
	return autodiff.New(cpu.New())
}

func fromSlice(t *testing.T, data []float32, shape tensor.Shape, b testBackend) *tensor.Tensor[float32, testBackend] {
	t.Helper()
	tr, err := tensor.FromSlice(data, shape, b)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	return tr
}

func assertGradEqual(t *testing.T, grads map[*tensor.RawTensor]*tensor.RawTensor, x *tensor.RawTensor, want []float32, msg string) {
	t.Helper()
	grad, ok := grads[x]
	if !ok {
		t.Fatalf("%s: no gradient for tensor", msg)
	}
	got := grad.AsFloat32()
	if len(got) != len(want) {
		t.Fatalf("%s: gradient has %d elements, want %d", msg, len(got), len(want))
	}
	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > 1e-5 {
			t.Errorf("%s: grad[%d] = %v, want %v", msg, i, got[i], want[i])
		}
	}
}

func TestAutodiffBackend_Name(t *testing.T) {
	backend := newBackend()
	expected := "Autodiff(CPU)"
	if backend.Name() != expected {
		t.Errorf("Name() = %s, want %s", backend.Name(), expected)
	}
}

func TestAutodiffBackend_Device(t *testing.T) {
	backend := newBackend()
	if backend.Device() != tensor.CPU {
		t.Errorf("Device() = %v, want %v", backend.Device(), tensor.CPU)
	}
}

func TestTape_Recording(t *testing.T) {
	backend := newBackend()
	tape := backend.Tape()

	if tape.IsRecording() {
		t.Error("Tape should not be recording initially")
	}

	tape.StartRecording()
	if !tape.IsRecording() {
		t.Error("Tape should be recording after StartRecording()")
	}

	tape.StopRecording()
	if tape.IsRecording() {
		t.Error("Tape should not be recording after StopRecording()")
	}
}

func TestTape_Clear(t *testing.T) {
	backend := newBackend()
	tape := backend.Tape()
	tape.StartRecording()

	a := fromSlice(t, []float32{1, 2}, tensor.Shape{2}, backend)
	b := fromSlice(t, []float32{3, 4}, tensor.Shape{2}, backend)
	a.Add(b)

	if tape.NumOps() == 0 {
		t.Error("Tape should have recorded operations")
	}

	tape.Clear()
	if tape.NumOps() != 0 {
		t.Errorf("Tape should be empty after Clear(), has %d ops", tape.NumOps())
	}
}

func TestTape_NotRecordingSkipsOps(t *testing.T) {
	backend := newBackend()

	a := fromSlice(t, []float32{1, 2}, tensor.Shape{2}, backend)
	b := fromSlice(t, []float32{3, 4}, tensor.Shape{2}, backend)
	a.Add(b)

	if backend.Tape().NumOps() != 0 {
		t.Errorf("Tape recorded %d ops while stopped, want 0", backend.Tape().NumOps())
	}
}

func TestBackward_PanicsWithoutOps(t *testing.T) {
	backend := newBackend()

	x := fromSlice(t, []float32{1, 2}, tensor.Shape{2}, backend)

	defer func() {
		if r := recover(); r == nil {
			t.Error("Backward with empty tape should panic")
		}
	}()
	autodiff.Backward(x, backend)
}

func TestBackward_Square(t *testing.T) {
	backend := newBackend()
	backend.Tape().StartRecording()

	// y = x * x, dy/dx = 2x
	x := fromSlice(t, []float32{1, 2, 3}, tensor.Shape{3}, backend)
	y := x.Mul(x)

	grads := autodiff.Backward(y, backend)
	assertGradEqual(t, grads, x.Raw(), []float32{2, 4, 6}, "d(x*x)/dx")
}

func TestBackward_AddSub(t *testing.T) {
	backend := newBackend()
	backend.Tape().StartRecording()

	a := fromSlice(t, []float32{1, 2}, tensor.Shape{2}, backend)
	b := fromSlice(t, []float32{3, 4}, tensor.Shape{2}, backend)
	y := a.Add(b).Sub(b)

	grads := autodiff.Backward(y, backend)
	assertGradEqual(t, grads, a.Raw(), []float32{1, 1}, "d(a+b-b)/da")
	// b appears once with +1 and once with -1.
	assertGradEqual(t, grads, b.Raw(), []float32{0, 0}, "d(a+b-b)/db")
}

func TestBackward_BroadcastReducesGrad(t *testing.T) {
	backend := newBackend()
	backend.Tape().StartRecording()

	// Bias [1, 3] broadcast over two rows: its gradient sums over rows.
	x := fromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, backend)
	bias := fromSlice(t, []float32{10, 20, 30}, tensor.Shape{1, 3}, backend)
	y := x.Add(bias)

	grads := autodiff.Backward(y, backend)
	assertGradEqual(t, grads, bias.Raw(), []float32{2, 2, 2}, "broadcast bias grad")
	assertGradEqual(t, grads, x.Raw(), []float32{1, 1, 1, 1, 1, 1}, "broadcast input grad")
}

func TestBackward_Div(t *testing.T) {
	backend := newBackend()
	backend.Tape().StartRecording()

	a := fromSlice(t, []float32{6, 8}, tensor.Shape{2}, backend)
	b := fromSlice(t, []float32{2, 4}, tensor.Shape{2}, backend)
	y := a.Div(b)

	grads := autodiff.Backward(y, backend)
	// d(a/b)/da = 1/b
	assertGradEqual(t, grads, a.Raw(), []float32{0.5, 0.25}, "d(a/b)/da")
	// d(a/b)/db = -a/b²
	assertGradEqual(t, grads, b.Raw(), []float32{-1.5, -0.5}, "d(a/b)/db")
}

func TestBackward_MatMul(t *testing.T) {
	backend := newBackend()
	backend.Tape().StartRecording()

	a := fromSlice(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2}, backend)
	b := fromSlice(t, []float32{5, 6, 7, 8}, tensor.Shape{2, 2}, backend)
	y := a.MatMul(b)

	grads := autodiff.Backward(y, backend)
	// dY/dA = grad @ Bᵀ with grad of ones: rows are [5+6, 7+8] = [11, 15]
	assertGradEqual(t, grads, a.Raw(), []float32{11, 15, 11, 15}, "d(AB)/dA")
	// dY/dB = Aᵀ @ grad: rows are [1+3, 1+3], [2+4, 2+4]
	assertGradEqual(t, grads, b.Raw(), []float32{4, 4, 6, 6}, "d(AB)/dB")
}

func TestBackward_BatchMatMul(t *testing.T) {
	backend := newBackend()
	backend.Tape().StartRecording()

	a := fromSlice(t, []float32{1, 2, 3, 4}, tensor.Shape{1, 2, 2}, backend)
	b := fromSlice(t, []float32{5, 6, 7, 8}, tensor.Shape{1, 2, 2}, backend)
	y := a.BatchMatMul(b)

	grads := autodiff.Backward(y, backend)
	assertGradEqual(t, grads, a.Raw(), []float32{11, 15, 11, 15}, "batched d(AB)/dA")
	assertGradEqual(t, grads, b.Raw(), []float32{4, 4, 6, 6}, "batched d(AB)/dB")
}

func TestBackward_ScalarOps(t *testing.T) {
	t.Run("MulScalar", func(t *testing.T) {
		b := newBackend()
		b.Tape().StartRecording()
		x := fromSlice(t, []float32{1, 2}, tensor.Shape{2}, b)
		y := x.MulScalar(3)
		grads := autodiff.Backward(y, b)
		assertGradEqual(t, grads, x.Raw(), []float32{3, 3}, "d(3x)/dx")
	})

	t.Run("DivScalar", func(t *testing.T) {
		b := newBackend()
		b.Tape().StartRecording()
		x := fromSlice(t, []float32{1, 2}, tensor.Shape{2}, b)
		y := x.DivScalar(4)
		grads := autodiff.Backward(y, b)
		assertGradEqual(t, grads, x.Raw(), []float32{0.25, 0.25}, "d(x/4)/dx")
	})

	t.Run("AddScalar", func(t *testing.T) {
		b := newBackend()
		b.Tape().StartRecording()
		x := fromSlice(t, []float32{1, 2}, tensor.Shape{2}, b)
		y := x.AddScalar(10)
		grads := autodiff.Backward(y, b)
		assertGradEqual(t, grads, x.Raw(), []float32{1, 1}, "d(x+10)/dx")
	})
}

func TestBackward_Exp(t *testing.T) {
	backend := newBackend()
	backend.Tape().StartRecording()

	x := fromSlice(t, []float32{0, 1}, tensor.Shape{2}, backend)
	y := x.Exp()

	grads := autodiff.Backward(y, backend)
	// d(eˣ)/dx = eˣ
	assertGradEqual(t, grads, x.Raw(), []float32{1, float32(math.E)}, "d(exp x)/dx")
}

func TestBackward_Sqrt(t *testing.T) {
	backend := newBackend()
	backend.Tape().StartRecording()

	x := fromSlice(t, []float32{4, 16}, tensor.Shape{2}, backend)
	y := x.Sqrt()

	grads := autodiff.Backward(y, backend)
	// d(√x)/dx = 1/(2√x)
	assertGradEqual(t, grads, x.Raw(), []float32{0.25, 0.125}, "d(sqrt x)/dx")
}

func TestBackward_Sum(t *testing.T) {
	backend := newBackend()
	backend.Tape().StartRecording()

	x := fromSlice(t, []float32{1, 2, 3}, tensor.Shape{3}, backend)
	y := x.Sum()

	grads := autodiff.Backward(y, backend)
	assertGradEqual(t, grads, x.Raw(), []float32{1, 1, 1}, "d(sum x)/dx")
}

func TestBackward_ReshapeTranspose(t *testing.T) {
	backend := newBackend()
	backend.Tape().StartRecording()

	x := fromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, backend)
	y := x.Reshape(3, 2).Transpose(1, 0).MulScalar(2)

	grads := autodiff.Backward(y, backend)
	grad, ok := grads[x.Raw()]
	if !ok {
		t.Fatal("no gradient flowed through reshape and transpose")
	}
	if !grad.Shape().Equal(tensor.Shape{2, 3}) {
		t.Fatalf("gradient shape = %v, want original [2 3]", grad.Shape())
	}
	assertGradEqual(t, grads, x.Raw(), []float32{2, 2, 2, 2, 2, 2}, "reshape/transpose grad")
}

func TestBackward_Softmax(t *testing.T) {
	backend := newBackend()
	backend.Tape().StartRecording()

	x := fromSlice(t, []float32{1, 2, 3, 0, 0, 0}, tensor.Shape{2, 3}, backend)
	v := fromSlice(t, []float32{1, 0, 0, 0, 1, 0}, tensor.Shape{2, 3}, backend)
	y := x.Softmax(-1).Mul(v)

	grads := autodiff.Backward(y, backend)
	grad, ok := grads[x.Raw()]
	if !ok {
		t.Fatal("no gradient for softmax input")
	}

	// Softmax gradients sum to zero along the softmax dim for any
	// upstream gradient: shifting all logits equally changes nothing.
	data := grad.AsFloat32()
	for row := 0; row < 2; row++ {
		sum := float32(0)
		for j := 0; j < 3; j++ {
			sum += data[row*3+j]
		}
		if math.Abs(float64(sum)) > 1e-5 {
			t.Errorf("softmax grad row %d sums to %v, want 0", row, sum)
		}
	}
}

func TestBackward_MaskedFill(t *testing.T) {
	backend := newBackend()
	backend.Tape().StartRecording()

	x := fromSlice(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2}, backend)
	mask := fromSlice(t, []float32{1, 0, 0, 1}, tensor.Shape{2, 2}, backend)
	y := x.MaskedFill(mask, -1e9)

	grads := autodiff.Backward(y, backend)
	// Masked positions get a constant, so no gradient flows there.
	assertGradEqual(t, grads, x.Raw(), []float32{1, 0, 0, 1}, "masked fill grad gating")

	if _, ok := grads[mask.Raw()]; ok {
		t.Error("mask is a constant and should have no gradient")
	}
}

func TestBackward_Cat(t *testing.T) {
	backend := newBackend()
	backend.Tape().StartRecording()

	a := fromSlice(t, []float32{1, 2}, tensor.Shape{1, 2}, backend)
	b := fromSlice(t, []float32{3, 4}, tensor.Shape{1, 2}, backend)
	y := tensor.Cat([]*tensor.Tensor[float32, testBackend]{a, b}, 0).MulScalar(3)

	grads := autodiff.Backward(y, backend)
	assertGradEqual(t, grads, a.Raw(), []float32{3, 3}, "cat grad slice a")
	assertGradEqual(t, grads, b.Raw(), []float32{3, 3}, "cat grad slice b")
}

func TestBackward_GradAccumulation(t *testing.T) {
	backend := newBackend()
	backend.Tape().StartRecording()

	// x used twice: gradients from both paths accumulate.
	x := fromSlice(t, []float32{1, 2}, tensor.Shape{2}, backend)
	y := x.Add(x)

	grads := autodiff.Backward(y, backend)
	assertGradEqual(t, grads, x.Raw(), []float32{2, 2}, "d(x+x)/dx")
}

func TestBackward_ChainedOps(t *testing.T) {
	backend := newBackend()
	backend.Tape().StartRecording()

	// y = (2x + 1)², dy/dx = 2 * (2x + 1) * 2 = 8x + 4
	x := fromSlice(t, []float32{1, 2}, tensor.Shape{2}, backend)
	inner := x.MulScalar(2).AddScalar(1)
	y := inner.Mul(inner)

	grads := autodiff.Backward(y, backend)
	assertGradEqual(t, grads, x.Raw(), []float32{12, 20}, "chain rule grad")
}
