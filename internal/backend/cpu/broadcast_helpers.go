package cpu

import (
	"github.com/loom-ml/loom/internal/tensor"
)

// broadcastStrides maps an operand's shape onto an output shape, returning
// one stride per output dimension. Dimensions the operand repeats along
// (size 1, or missing on the left) get stride 0, so walking the output
// coordinates with these strides revisits the same source elements.
func broadcastStrides(inShape, outShape tensor.Shape) []int {
	outDim := len(outShape)
	inDim := len(inShape)
	pad := outDim - inDim

	inStrides := inShape.ComputeStrides()
	strides := make([]int, outDim)

	for i := range strides {
		src := i - pad
		if src < 0 || inShape[src] == 1 {
			continue // repeated dimension, stride stays 0
		}
		strides[i] = inStrides[src]
	}

	return strides
}

// sourceIndex translates a flat output index into the flat index of the
// source element that feeds it, by decomposing the output index into
// coordinates and re-accumulating them with the source's broadcast strides.
func sourceIndex(outIdx int, outStrides, srcStrides []int) int {
	idx := 0
	for i := range outStrides {
		coord := outIdx / outStrides[i]
		outIdx %= outStrides[i]
		idx += coord * srcStrides[i]
	}
	return idx
}
