package tensor

import (
	"fmt"
	"math"
)

// Verify that MockBackend implements Backend.
var _ Backend = (*MockBackend)(nil)

// MockBackend is a simple backend for testing.
// It implements all operations naively for correctness verification.
type MockBackend struct{}

// NewMockBackend creates a new MockBackend.
func NewMockBackend() *MockBackend {
	return &MockBackend{}
}

// Name returns the backend name.
func (m *MockBackend) Name() string {
	return "mock"
}

// Device returns the device type.
func (m *MockBackend) Device() Device {
	return CPU
}

// Add performs element-wise addition with broadcasting.
func (m *MockBackend) Add(a, b *RawTensor) *RawTensor {
	return m.elementWise(a, b, func(x, y float64) float64 { return x + y })
}

// Sub performs element-wise subtraction with broadcasting.
func (m *MockBackend) Sub(a, b *RawTensor) *RawTensor {
	return m.elementWise(a, b, func(x, y float64) float64 { return x - y })
}

// Mul performs element-wise multiplication with broadcasting.
func (m *MockBackend) Mul(a, b *RawTensor) *RawTensor {
	return m.elementWise(a, b, func(x, y float64) float64 { return x * y })
}

// Div performs element-wise division with broadcasting.
func (m *MockBackend) Div(a, b *RawTensor) *RawTensor {
	return m.elementWise(a, b, func(x, y float64) float64 { return x / y })
}

// elementWise performs element-wise operations with broadcasting.
func (m *MockBackend) elementWise(a, b *RawTensor, op func(float64, float64) float64) *RawTensor {
	outShape, _, err := BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(err)
	}

	result, err := NewRaw(outShape, a.DType(), m.Device())
	if err != nil {
		panic(err)
	}

	aData := m.toFloat64Slice(a)
	bData := m.toFloat64Slice(b)
	resultData := make([]float64, outShape.NumElements())

	for i := range resultData {
		aIdx := m.broadcastIndex(i, outShape, a.Shape())
		bIdx := m.broadcastIndex(i, outShape, b.Shape())
		resultData[i] = op(aData[aIdx], bData[bIdx])
	}

	m.fromFloat64Slice(resultData, result)
	return result
}

// MatMul performs matrix multiplication.
func (m *MockBackend) MatMul(a, b *RawTensor) *RawTensor {
	aShape := a.Shape()
	bShape := b.Shape()

	if len(aShape) != 2 || len(bShape) != 2 {
		panic("MatMul only supports 2D tensors in mock backend")
	}
	if aShape[1] != bShape[0] {
		panic(fmt.Sprintf("incompatible shapes for MatMul: %v @ %v", aShape, bShape))
	}

	M, K := aShape[0], aShape[1]
	N := bShape[1]

	result, err := NewRaw(Shape{M, N}, a.DType(), m.Device())
	if err != nil {
		panic(err)
	}

	aData := m.toFloat64Slice(a)
	bData := m.toFloat64Slice(b)
	resultData := make([]float64, M*N)

	for i := 0; i < M; i++ {
		for j := 0; j < N; j++ {
			sum := 0.0
			for k := 0; k < K; k++ {
				sum += aData[i*K+k] * bData[k*N+j]
			}
			resultData[i*N+j] = sum
		}
	}

	m.fromFloat64Slice(resultData, result)
	return result
}

// BatchMatMul performs batched matrix multiplication over the last two dims.
func (m *MockBackend) BatchMatMul(a, b *RawTensor) *RawTensor {
	aShape := a.Shape()
	bShape := b.Shape()
	ndim := len(aShape)

	if ndim < 3 || len(bShape) != ndim {
		panic("BatchMatMul requires tensors of equal rank >= 3 in mock backend")
	}
	if aShape[ndim-1] != bShape[ndim-2] {
		panic(fmt.Sprintf("incompatible shapes for BatchMatMul: %v @ %v", aShape, bShape))
	}

	M, K := aShape[ndim-2], aShape[ndim-1]
	N := bShape[ndim-1]

	batches := 1
	for i := 0; i < ndim-2; i++ {
		if aShape[i] != bShape[i] {
			panic(fmt.Sprintf("batch dims must match: %v vs %v", aShape, bShape))
		}
		batches *= aShape[i]
	}

	outShape := aShape.Clone()
	outShape[ndim-1] = N

	result, err := NewRaw(outShape, a.DType(), m.Device())
	if err != nil {
		panic(err)
	}

	aData := m.toFloat64Slice(a)
	bData := m.toFloat64Slice(b)
	resultData := make([]float64, outShape.NumElements())

	for batch := 0; batch < batches; batch++ {
		aOff := batch * M * K
		bOff := batch * K * N
		outOff := batch * M * N
		for i := 0; i < M; i++ {
			for j := 0; j < N; j++ {
				sum := 0.0
				for k := 0; k < K; k++ {
					sum += aData[aOff+i*K+k] * bData[bOff+k*N+j]
				}
				resultData[outOff+i*N+j] = sum
			}
		}
	}

	m.fromFloat64Slice(resultData, result)
	return result
}

// Reshape changes tensor shape.
func (m *MockBackend) Reshape(t *RawTensor, newShape Shape) *RawTensor {
	if err := newShape.Validate(); err != nil {
		panic(err)
	}
	if t.NumElements() != newShape.NumElements() {
		panic(fmt.Sprintf("cannot reshape tensor with %d elements to shape %v (%d elements)",
			t.NumElements(), newShape, newShape.NumElements()))
	}

	result, err := NewRaw(newShape, t.DType(), m.Device())
	if err != nil {
		panic(err)
	}

	copy(result.Data(), t.Data())
	return result
}

// Transpose transposes tensor dimensions.
func (m *MockBackend) Transpose(t *RawTensor, axes ...int) *RawTensor {
	shape := t.Shape()

	// Default: reverse all dimensions
	if len(axes) == 0 {
		axes = make([]int, len(shape))
		for i := range axes {
			axes[i] = len(shape) - 1 - i
		}
	}
	if len(axes) != len(shape) {
		panic(fmt.Sprintf("axes length %d doesn't match tensor dimensions %d", len(axes), len(shape)))
	}

	newShape := make(Shape, len(shape))
	for i, axis := range axes {
		if axis < 0 || axis >= len(shape) {
			panic(fmt.Sprintf("axis %d out of bounds for tensor with %d dimensions", axis, len(shape)))
		}
		newShape[i] = shape[axis]
	}

	result, err := NewRaw(newShape, t.DType(), m.Device())
	if err != nil {
		panic(err)
	}

	tData := m.toFloat64Slice(t)
	resultData := make([]float64, t.NumElements())

	oldStrides := shape.ComputeStrides()
	newStrides := newShape.ComputeStrides()

	for i := 0; i < t.NumElements(); i++ {
		// Convert flat index to multi-dimensional indices
		indices := make([]int, len(shape))
		temp := i
		for j := 0; j < len(shape); j++ {
			indices[j] = temp / oldStrides[j]
			temp %= oldStrides[j]
		}

		// Permute indices and convert back to flat index
		newIdx := 0
		for j, axis := range axes {
			newIdx += indices[axis] * newStrides[j]
		}

		resultData[newIdx] = tData[i]
	}

	m.fromFloat64Slice(resultData, result)
	return result
}

// MulScalar multiplies each element by a scalar.
func (m *MockBackend) MulScalar(x *RawTensor, scalar any) *RawTensor {
	return m.scalarWise(x, scalar, func(v, s float64) float64 { return v * s })
}

// AddScalar adds a scalar to each element.
func (m *MockBackend) AddScalar(x *RawTensor, scalar any) *RawTensor {
	return m.scalarWise(x, scalar, func(v, s float64) float64 { return v + s })
}

// SubScalar subtracts a scalar from each element.
func (m *MockBackend) SubScalar(x *RawTensor, scalar any) *RawTensor {
	return m.scalarWise(x, scalar, func(v, s float64) float64 { return v - s })
}

// DivScalar divides each element by a scalar.
func (m *MockBackend) DivScalar(x *RawTensor, scalar any) *RawTensor {
	return m.scalarWise(x, scalar, func(v, s float64) float64 { return v / s })
}

func (m *MockBackend) scalarWise(x *RawTensor, scalar any, op func(float64, float64) float64) *RawTensor {
	var s float64
	switch v := scalar.(type) {
	case float32:
		s = float64(v)
	case float64:
		s = v
	default:
		panic(fmt.Sprintf("unsupported scalar type: %T", scalar))
	}
	return m.mapUnary(x, func(v float64) float64 { return op(v, s) })
}

// Exp computes element-wise exponential.
func (m *MockBackend) Exp(x *RawTensor) *RawTensor {
	return m.mapUnary(x, math.Exp)
}

// Sqrt computes element-wise square root.
func (m *MockBackend) Sqrt(x *RawTensor) *RawTensor {
	return m.mapUnary(x, math.Sqrt)
}

func (m *MockBackend) mapUnary(x *RawTensor, op func(float64) float64) *RawTensor {
	result, err := NewRaw(x.Shape(), x.DType(), m.Device())
	if err != nil {
		panic(err)
	}

	data := m.toFloat64Slice(x)
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = op(v)
	}

	m.fromFloat64Slice(out, result)
	return result
}

// Softmax applies softmax along the given dimension.
func (m *MockBackend) Softmax(x *RawTensor, dim int) *RawTensor {
	shape := x.Shape()
	ndim := len(shape)
	if dim < 0 {
		dim = ndim + dim
	}

	result, err := NewRaw(shape, x.DType(), m.Device())
	if err != nil {
		panic(err)
	}

	strides := shape.ComputeStrides()
	dimSize := shape[dim]
	dimStride := strides[dim]

	numRows := shape.NumElements() / dimSize
	data := m.toFloat64Slice(x)
	out := make([]float64, len(data))

	for row := 0; row < numRows; row++ {
		baseIdx := 0
		remaining := row
		for i := 0; i < ndim; i++ {
			if i == dim {
				continue
			}
			coord := remaining % shape[i]
			remaining /= shape[i]
			baseIdx += coord * strides[i]
		}

		maxVal := math.Inf(-1)
		for i := 0; i < dimSize; i++ {
			if v := data[baseIdx+i*dimStride]; v > maxVal {
				maxVal = v
			}
		}

		sum := 0.0
		for i := 0; i < dimSize; i++ {
			idx := baseIdx + i*dimStride
			out[idx] = math.Exp(data[idx] - maxVal)
			sum += out[idx]
		}
		for i := 0; i < dimSize; i++ {
			out[baseIdx+i*dimStride] /= sum
		}
	}

	m.fromFloat64Slice(out, result)
	return result
}

// MaskedFill fills positions where the mask is zero with value.
func (m *MockBackend) MaskedFill(x, mask *RawTensor, value float64) *RawTensor {
	result, err := NewRaw(x.Shape(), x.DType(), m.Device())
	if err != nil {
		panic(err)
	}

	data := m.toFloat64Slice(x)
	maskData := m.toFloat64Slice(mask)
	out := make([]float64, len(data))

	for i := range data {
		maskIdx := m.broadcastIndex(i, x.Shape(), mask.Shape())
		if maskData[maskIdx] == 0 {
			out[i] = value
		} else {
			out[i] = data[i]
		}
	}

	m.fromFloat64Slice(out, result)
	return result
}

// Sum reduces to a scalar tensor.
func (m *MockBackend) Sum(x *RawTensor) *RawTensor {
	result, err := NewRaw(Shape{}, x.DType(), m.Device())
	if err != nil {
		panic(err)
	}

	sum := 0.0
	for _, v := range m.toFloat64Slice(x) {
		sum += v
	}

	m.fromFloat64Slice([]float64{sum}, result)
	return result
}

// Cat concatenates tensors along a dimension.
func (m *MockBackend) Cat(tensors []*RawTensor, dim int) *RawTensor {
	if len(tensors) == 0 {
		panic("Cat: no tensors")
	}

	first := tensors[0]
	ndim := len(first.Shape())
	if dim < 0 {
		dim = ndim + dim
	}

	catSize := 0
	for _, t := range tensors {
		catSize += t.Shape()[dim]
	}

	outShape := first.Shape().Clone()
	outShape[dim] = catSize

	result, err := NewRaw(outShape, first.DType(), m.Device())
	if err != nil {
		panic(err)
	}

	outerSize := 1
	for d := 0; d < dim; d++ {
		outerSize *= first.Shape()[d]
	}
	innerSize := 1
	for d := dim + 1; d < ndim; d++ {
		innerSize *= first.Shape()[d]
	}

	out := make([]float64, outShape.NumElements())
	dstOffset := 0
	for outer := 0; outer < outerSize; outer++ {
		for _, t := range tensors {
			blockSize := t.Shape()[dim] * innerSize
			data := m.toFloat64Slice(t)
			copy(out[dstOffset:dstOffset+blockSize], data[outer*blockSize:(outer+1)*blockSize])
			dstOffset += blockSize
		}
	}

	m.fromFloat64Slice(out, result)
	return result
}

// Helper functions

func (m *MockBackend) toFloat64Slice(t *RawTensor) []float64 {
	switch t.DType() {
	case Float32:
		src := t.AsFloat32()
		dst := make([]float64, len(src))
		for i, v := range src {
			dst[i] = float64(v)
		}
		return dst
	case Float64:
		return t.AsFloat64()
	default:
		panic(fmt.Sprintf("unsupported dtype: %s", t.DType()))
	}
}

func (m *MockBackend) fromFloat64Slice(src []float64, t *RawTensor) {
	switch t.DType() {
	case Float32:
		dst := t.AsFloat32()
		for i, v := range src {
			dst[i] = float32(v)
		}
	case Float64:
		copy(t.AsFloat64(), src)
	}
}

func (m *MockBackend) broadcastIndex(flatIdx int, outShape, inShape Shape) int {
	outStrides := outShape.ComputeStrides()
	indices := make([]int, len(outShape))

	temp := flatIdx
	for i := 0; i < len(outShape); i++ {
		indices[i] = temp / outStrides[i]
		temp %= outStrides[i]
	}

	inStrides := inShape.ComputeStrides()
	inIdx := 0

	offset := len(outShape) - len(inShape)
	for i := 0; i < len(inShape); i++ {
		outDimIdx := indices[offset+i]
		// If input dimension is 1, always use index 0 (broadcasting)
		if inShape[i] == 1 {
			outDimIdx = 0
		}
		inIdx += outDimIdx * inStrides[i]
	}

	return inIdx
}
