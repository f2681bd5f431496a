package tensor

// Cat joins tensors along dim, which may be negative to count from the
// right. All inputs must agree on every other dimension. The KV cache uses
// this to grow its key and value tensors along the sequence dimension.
func Cat[T DType, B Backend](tensors []*Tensor[T, B], dim int) *Tensor[T, B] {
	if len(tensors) == 0 {
		panic("cat: at least one tensor required")
	}
	if len(tensors) == 1 {
		return tensors[0].Clone()
	}

	backend := tensors[0].backend
	raws := make([]*RawTensor, len(tensors))
	for i, t := range tensors {
		raws[i] = t.raw
	}

	return New[T, B](backend.Cat(raws, dim), backend)
}
