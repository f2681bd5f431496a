package tensor

import (
	"math"
	"testing"
)

// Test helpers

func assertEqualFloat32(t *testing.T, expected, actual float32, msg string) {
	t.Helper()
	if math.Abs(float64(expected-actual)) > 1e-6 {
		t.Errorf("%s: expected %v, got %v", msg, expected, actual)
	}
}

func assertEqualShape(t *testing.T, expected, actual Shape, msg string) {
	t.Helper()
	if !expected.Equal(actual) {
		t.Errorf("%s: expected shape %v, got %v", msg, expected, actual)
	}
}

// DType Tests

func TestDataTypeSize(t *testing.T) {
	tests := []struct {
		dtype DataType
		size  int
	}{
		{Float32, 4},
		{Float64, 8},
	}

	for _, tt := range tests {
		if got := tt.dtype.Size(); got != tt.size {
			t.Errorf("%s.Size() = %d, want %d", tt.dtype, got, tt.size)
		}
	}
}

func TestDataTypeString(t *testing.T) {
	if got := Float32.String(); got != "float32" {
		t.Errorf("Float32.String() = %q, want %q", got, "float32")
	}
	if got := Float64.String(); got != "float64" {
		t.Errorf("Float64.String() = %q, want %q", got, "float64")
	}
}

func TestInferDataType(t *testing.T) {
	if dt := inferDataType(float32(0)); dt != Float32 {
		t.Errorf("inferDataType(float32) = %v, want Float32", dt)
	}
	if dt := inferDataType(float64(0)); dt != Float64 {
		t.Errorf("inferDataType(float64) = %v, want Float64", dt)
	}
}

// RawTensor Tests

func TestNewRaw(t *testing.T) {
	raw, err := NewRaw(Shape{2, 3}, Float32, CPU)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}

	assertEqualShape(t, Shape{2, 3}, raw.Shape(), "NewRaw shape")
	if raw.DType() != Float32 {
		t.Errorf("DType() = %v, want Float32", raw.DType())
	}
	if raw.NumElements() != 6 {
		t.Errorf("NumElements() = %d, want 6", raw.NumElements())
	}
	if raw.ByteSize() != 24 {
		t.Errorf("ByteSize() = %d, want 24", raw.ByteSize())
	}

	// Fresh tensors are zero-initialized
	for i, v := range raw.AsFloat32() {
		if v != 0 {
			t.Errorf("element %d = %v, want 0", i, v)
		}
	}
}

func TestNewRaw_InvalidShape(t *testing.T) {
	if _, err := NewRaw(Shape{2, 0}, Float32, CPU); err == nil {
		t.Error("NewRaw with zero dim should return error")
	}
	if _, err := NewRaw(Shape{-1}, Float32, CPU); err == nil {
		t.Error("NewRaw with negative dim should return error")
	}
}

func TestRawTensor_Clone(t *testing.T) {
	raw, err := NewRaw(Shape{4}, Float32, CPU)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}

	data := raw.AsFloat32()
	data[0] = 1.5
	data[3] = -2.0

	clone := raw.Clone()
	cloneData := clone.AsFloat32()

	assertEqualFloat32(t, 1.5, cloneData[0], "clone element 0")
	assertEqualFloat32(t, -2.0, cloneData[3], "clone element 3")

	// Clone shares the buffer via reference counting, so neither side is
	// unique afterwards. Backends check IsUnique before mutating in place.
	if raw.IsUnique() {
		t.Error("original should not be unique after Clone")
	}
	if clone.IsUnique() {
		t.Error("clone should not be unique")
	}

	// Writes through either typed view land in the shared buffer.
	cloneData[0] = 99
	assertEqualFloat32(t, 99, data[0], "original view after write through clone")
}

func TestRawTensor_ForceNonUnique(t *testing.T) {
	raw, err := NewRaw(Shape{2}, Float32, CPU)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}

	if !raw.IsUnique() {
		t.Fatal("fresh tensor should be unique")
	}

	restore := raw.ForceNonUnique()
	if raw.IsUnique() {
		t.Error("tensor should not be unique while forced")
	}

	restore()
	if !raw.IsUnique() {
		t.Error("tensor should be unique again after restore")
	}
}

// Tensor Tests

func TestFromSlice(t *testing.T) {
	backend := NewMockBackend()

	data := []float32{1, 2, 3, 4, 5, 6}
	tr, err := FromSlice(data, Shape{2, 3}, backend)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}

	assertEqualShape(t, Shape{2, 3}, tr.Shape(), "FromSlice shape")
	if tr.DType() != Float32 {
		t.Errorf("DType() = %v, want Float32", tr.DType())
	}

	got := tr.Data()
	for i, want := range data {
		assertEqualFloat32(t, want, got[i], "FromSlice data")
	}
}

func TestFromSlice_SizeMismatch(t *testing.T) {
	backend := NewMockBackend()

	if _, err := FromSlice([]float32{1, 2, 3}, Shape{2, 3}, backend); err == nil {
		t.Error("FromSlice with mismatched size should return error")
	}
}

func TestFromSlice_Float64(t *testing.T) {
	backend := NewMockBackend()

	tr, err := FromSlice([]float64{1.5, 2.5}, Shape{2}, backend)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	if tr.DType() != Float64 {
		t.Errorf("DType() = %v, want Float64", tr.DType())
	}
	if tr.At(1) != 2.5 {
		t.Errorf("At(1) = %v, want 2.5", tr.At(1))
	}
}

func TestTensor_AtSet(t *testing.T) {
	backend := NewMockBackend()

	tr, err := FromSlice([]float32{1, 2, 3, 4, 5, 6}, Shape{2, 3}, backend)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}

	assertEqualFloat32(t, 1, tr.At(0, 0), "At(0,0)")
	assertEqualFloat32(t, 6, tr.At(1, 2), "At(1,2)")

	tr.Set(42, 1, 1)
	assertEqualFloat32(t, 42, tr.At(1, 1), "At(1,1) after Set")
}

func TestTensor_Item(t *testing.T) {
	backend := NewMockBackend()

	// Item accepts only rank-0 tensors, the shape Sum produces.
	tr, err := FromSlice([]float32{3.5}, Shape{}, backend)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	assertEqualFloat32(t, 3.5, tr.Item(), "Item()")

	rank1, err := FromSlice([]float32{3.5}, Shape{1}, backend)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	defer func() {
		if r := recover(); r == nil {
			t.Error("Item on a rank-1 tensor should panic")
		}
	}()
	rank1.Item()
}

func TestTensor_Clone(t *testing.T) {
	backend := NewMockBackend()

	tr, err := FromSlice([]float32{1, 2, 3, 4}, Shape{2, 2}, backend)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}

	clone := tr.Clone()
	clone.Set(99, 0, 0)

	assertEqualFloat32(t, 1, tr.At(0, 0), "original after clone mutation")
	assertEqualFloat32(t, 99, clone.At(0, 0), "clone after mutation")
}

func TestTensor_Grad(t *testing.T) {
	backend := NewMockBackend()

	tr, err := FromSlice([]float32{1, 2}, Shape{2}, backend)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}

	if tr.Grad() != nil {
		t.Error("fresh tensor should have nil gradient")
	}

	grad := Ones[float32](Shape{2}, backend)
	tr.SetGrad(grad)

	if tr.Grad() == nil {
		t.Fatal("Grad() should return the set gradient")
	}
	assertEqualFloat32(t, 1, tr.Grad().At(0), "gradient value")
}

// Creation Tests

func TestZeros(t *testing.T) {
	backend := NewMockBackend()

	tr := Zeros[float32](Shape{2, 3}, backend)
	assertEqualShape(t, Shape{2, 3}, tr.Shape(), "Zeros shape")
	for i, v := range tr.Data() {
		if v != 0 {
			t.Errorf("element %d = %v, want 0", i, v)
		}
	}
}

func TestOnes(t *testing.T) {
	backend := NewMockBackend()

	tr := Ones[float32](Shape{3}, backend)
	for i, v := range tr.Data() {
		if v != 1 {
			t.Errorf("element %d = %v, want 1", i, v)
		}
	}
}

func TestFull(t *testing.T) {
	backend := NewMockBackend()

	tr := Full(Shape{2, 2}, float32(-1e9), backend)
	for i, v := range tr.Data() {
		if v != -1e9 {
			t.Errorf("element %d = %v, want -1e9", i, v)
		}
	}
}

func TestRandn(t *testing.T) {
	backend := NewMockBackend()

	tr := Randn[float32](Shape{100}, backend)
	assertEqualShape(t, Shape{100}, tr.Shape(), "Randn shape")

	// Not all values should be identical
	data := tr.Data()
	allSame := true
	for _, v := range data[1:] {
		if v != data[0] {
			allSame = false
			break
		}
	}
	if allSame {
		t.Error("Randn produced identical values")
	}
}

func TestRand(t *testing.T) {
	backend := NewMockBackend()

	tr := Rand[float32](Shape{50}, backend)
	for i, v := range tr.Data() {
		if v < 0 || v >= 1 {
			t.Errorf("element %d = %v, want value in [0, 1)", i, v)
		}
	}
}
