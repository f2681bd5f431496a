package tensor

import (
	"math"
	"testing"
)

func fromSliceOrFail(t *testing.T, data []float32, shape Shape, b *MockBackend) *Tensor[float32, *MockBackend] {
	t.Helper()
	tr, err := FromSlice(data, shape, b)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	return tr
}

func TestTensor_Add(t *testing.T) {
	backend := NewMockBackend()

	a := fromSliceOrFail(t, []float32{1, 2, 3, 4}, Shape{2, 2}, backend)
	b := fromSliceOrFail(t, []float32{10, 20, 30, 40}, Shape{2, 2}, backend)

	c := a.Add(b)

	want := []float32{11, 22, 33, 44}
	for i, w := range want {
		assertEqualFloat32(t, w, c.Data()[i], "Add result")
	}
}

func TestTensor_Add_Broadcast(t *testing.T) {
	backend := NewMockBackend()

	a := fromSliceOrFail(t, []float32{1, 2, 3, 4, 5, 6}, Shape{2, 3}, backend)
	b := fromSliceOrFail(t, []float32{10, 20, 30}, Shape{1, 3}, backend)

	c := a.Add(b)

	assertEqualShape(t, Shape{2, 3}, c.Shape(), "broadcast Add shape")
	want := []float32{11, 22, 33, 14, 25, 36}
	for i, w := range want {
		assertEqualFloat32(t, w, c.Data()[i], "broadcast Add result")
	}
}

func TestTensor_SubMulDiv(t *testing.T) {
	backend := NewMockBackend()

	a := fromSliceOrFail(t, []float32{10, 20, 30}, Shape{3}, backend)
	b := fromSliceOrFail(t, []float32{2, 4, 5}, Shape{3}, backend)

	sub := a.Sub(b)
	mul := a.Mul(b)
	div := a.Div(b)

	wantSub := []float32{8, 16, 25}
	wantMul := []float32{20, 80, 150}
	wantDiv := []float32{5, 5, 6}
	for i := range wantSub {
		assertEqualFloat32(t, wantSub[i], sub.Data()[i], "Sub result")
		assertEqualFloat32(t, wantMul[i], mul.Data()[i], "Mul result")
		assertEqualFloat32(t, wantDiv[i], div.Data()[i], "Div result")
	}
}

func TestTensor_MatMul(t *testing.T) {
	backend := NewMockBackend()

	// [[1, 2], [3, 4]] @ [[5, 6], [7, 8]] = [[19, 22], [43, 50]]
	a := fromSliceOrFail(t, []float32{1, 2, 3, 4}, Shape{2, 2}, backend)
	b := fromSliceOrFail(t, []float32{5, 6, 7, 8}, Shape{2, 2}, backend)

	c := a.MatMul(b)

	want := []float32{19, 22, 43, 50}
	for i, w := range want {
		assertEqualFloat32(t, w, c.Data()[i], "MatMul result")
	}
}

func TestTensor_BatchMatMul(t *testing.T) {
	backend := NewMockBackend()

	// Two independent 2x2 matmuls stacked in a batch.
	a := fromSliceOrFail(t, []float32{
		1, 2, 3, 4, // batch 0
		1, 0, 0, 1, // batch 1: identity
	}, Shape{2, 2, 2}, backend)
	b := fromSliceOrFail(t, []float32{
		5, 6, 7, 8,
		9, 8, 7, 6,
	}, Shape{2, 2, 2}, backend)

	c := a.BatchMatMul(b)

	assertEqualShape(t, Shape{2, 2, 2}, c.Shape(), "BatchMatMul shape")
	want := []float32{19, 22, 43, 50, 9, 8, 7, 6}
	for i, w := range want {
		assertEqualFloat32(t, w, c.Data()[i], "BatchMatMul result")
	}
}

func TestTensor_Reshape(t *testing.T) {
	backend := NewMockBackend()

	a := fromSliceOrFail(t, []float32{1, 2, 3, 4, 5, 6}, Shape{2, 3}, backend)
	b := a.Reshape(3, 2)

	assertEqualShape(t, Shape{3, 2}, b.Shape(), "Reshape shape")
	for i := range a.Data() {
		assertEqualFloat32(t, a.Data()[i], b.Data()[i], "Reshape preserves data order")
	}
}

func TestTensor_Transpose2D(t *testing.T) {
	backend := NewMockBackend()

	a := fromSliceOrFail(t, []float32{1, 2, 3, 4, 5, 6}, Shape{2, 3}, backend)
	b := a.T()

	assertEqualShape(t, Shape{3, 2}, b.Shape(), "Transpose shape")
	assertEqualFloat32(t, 1, b.At(0, 0), "transposed (0,0)")
	assertEqualFloat32(t, 4, b.At(0, 1), "transposed (0,1)")
	assertEqualFloat32(t, 2, b.At(1, 0), "transposed (1,0)")
	assertEqualFloat32(t, 6, b.At(2, 1), "transposed (2,1)")
}

func TestTensor_Transpose4D(t *testing.T) {
	backend := NewMockBackend()

	// [batch=1, seq=2, heads=2, head_dim=2] -> [batch, heads, seq, head_dim]
	a := fromSliceOrFail(t, []float32{1, 2, 3, 4, 5, 6, 7, 8}, Shape{1, 2, 2, 2}, backend)
	b := a.Transpose(0, 2, 1, 3)

	assertEqualShape(t, Shape{1, 2, 2, 2}, b.Shape(), "4D transpose shape")
	assertEqualFloat32(t, a.At(0, 1, 0, 1), b.At(0, 0, 1, 1), "4D transpose element")
	assertEqualFloat32(t, a.At(0, 0, 1, 0), b.At(0, 1, 0, 0), "4D transpose element")

	// Transposing back restores the original layout.
	c := b.Transpose(0, 2, 1, 3)
	for i := range a.Data() {
		assertEqualFloat32(t, a.Data()[i], c.Data()[i], "round-trip transpose")
	}
}

func TestTensor_ScalarOps(t *testing.T) {
	backend := NewMockBackend()

	a := fromSliceOrFail(t, []float32{2, 4, 8}, Shape{3}, backend)

	mul := a.MulScalar(3)
	add := a.AddScalar(1)
	sub := a.SubScalar(2)
	div := a.DivScalar(2)

	wantMul := []float32{6, 12, 24}
	wantAdd := []float32{3, 5, 9}
	wantSub := []float32{0, 2, 6}
	wantDiv := []float32{1, 2, 4}
	for i := range wantMul {
		assertEqualFloat32(t, wantMul[i], mul.Data()[i], "MulScalar")
		assertEqualFloat32(t, wantAdd[i], add.Data()[i], "AddScalar")
		assertEqualFloat32(t, wantSub[i], sub.Data()[i], "SubScalar")
		assertEqualFloat32(t, wantDiv[i], div.Data()[i], "DivScalar")
	}
}

func TestTensor_ExpSqrt(t *testing.T) {
	backend := NewMockBackend()

	a := fromSliceOrFail(t, []float32{0, 1, 4}, Shape{3}, backend)

	exp := a.Exp()
	assertEqualFloat32(t, 1, exp.Data()[0], "Exp(0)")
	if math.Abs(float64(exp.Data()[1])-math.E) > 1e-5 {
		t.Errorf("Exp(1) = %v, want e", exp.Data()[1])
	}

	sqrt := a.Sqrt()
	want := []float32{0, 1, 2}
	for i, w := range want {
		assertEqualFloat32(t, w, sqrt.Data()[i], "Sqrt")
	}
}

func TestTensor_Softmax(t *testing.T) {
	backend := NewMockBackend()

	a := fromSliceOrFail(t, []float32{1, 2, 3, 1, 1, 1}, Shape{2, 3}, backend)
	s := a.Softmax(-1)

	assertEqualShape(t, Shape{2, 3}, s.Shape(), "Softmax shape")

	// Each row sums to 1
	data := s.Data()
	for row := 0; row < 2; row++ {
		sum := float32(0)
		for j := 0; j < 3; j++ {
			sum += data[row*3+j]
		}
		assertEqualFloat32(t, 1, sum, "softmax row sum")
	}

	// Uniform logits yield uniform probabilities
	for j := 0; j < 3; j++ {
		if math.Abs(float64(data[3+j])-1.0/3.0) > 1e-6 {
			t.Errorf("uniform softmax[%d] = %v, want 1/3", j, data[3+j])
		}
	}

	// Larger logit gets larger probability
	if !(data[2] > data[1] && data[1] > data[0]) {
		t.Errorf("softmax ordering violated: %v", data[:3])
	}
}

func TestTensor_MaskedFill(t *testing.T) {
	backend := NewMockBackend()

	a := fromSliceOrFail(t, []float32{1, 2, 3, 4}, Shape{2, 2}, backend)
	mask := fromSliceOrFail(t, []float32{1, 0, 0, 1}, Shape{2, 2}, backend)

	b := a.MaskedFill(mask, -1e9)

	want := []float32{1, -1e9, -1e9, 4}
	for i, w := range want {
		assertEqualFloat32(t, w, b.Data()[i], "MaskedFill result")
	}
}

func TestTensor_MaskedFill_Broadcast(t *testing.T) {
	backend := NewMockBackend()

	// Mask [1, 2] broadcasts over rows of [2, 2].
	a := fromSliceOrFail(t, []float32{1, 2, 3, 4}, Shape{2, 2}, backend)
	mask := fromSliceOrFail(t, []float32{1, 0}, Shape{1, 2}, backend)

	b := a.MaskedFill(mask, -1e9)

	want := []float32{1, -1e9, 3, -1e9}
	for i, w := range want {
		assertEqualFloat32(t, w, b.Data()[i], "broadcast MaskedFill result")
	}
}

func TestTensor_Sum(t *testing.T) {
	backend := NewMockBackend()

	a := fromSliceOrFail(t, []float32{1, 2, 3, 4}, Shape{2, 2}, backend)
	s := a.Sum()

	assertEqualShape(t, Shape{}, s.Shape(), "Sum shape")
	assertEqualFloat32(t, 10, s.Item(), "Sum value")
}

func TestCat(t *testing.T) {
	backend := NewMockBackend()

	a := fromSliceOrFail(t, []float32{1, 2, 3, 4}, Shape{2, 2}, backend)
	b := fromSliceOrFail(t, []float32{5, 6}, Shape{1, 2}, backend)

	c := Cat([]*Tensor[float32, *MockBackend]{a, b}, 0)

	assertEqualShape(t, Shape{3, 2}, c.Shape(), "Cat shape")
	want := []float32{1, 2, 3, 4, 5, 6}
	for i, w := range want {
		assertEqualFloat32(t, w, c.Data()[i], "Cat result")
	}
}

func TestCat_InnerDim(t *testing.T) {
	backend := NewMockBackend()

	// Concatenating along the sequence dim of [batch, heads, seq, dim]
	// is the KV cache access pattern.
	a := fromSliceOrFail(t, []float32{1, 2, 3, 4}, Shape{1, 1, 1, 4}, backend)
	b := fromSliceOrFail(t, []float32{5, 6, 7, 8}, Shape{1, 1, 1, 4}, backend)

	c := Cat([]*Tensor[float32, *MockBackend]{a, b}, 2)

	assertEqualShape(t, Shape{1, 1, 2, 4}, c.Shape(), "Cat seq dim shape")
	want := []float32{1, 2, 3, 4, 5, 6, 7, 8}
	for i, w := range want {
		assertEqualFloat32(t, w, c.Data()[i], "Cat seq dim result")
	}
}
