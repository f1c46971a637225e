package tensor

import "fmt"

// BroadcastShapes implements NumPy-style broadcasting rules.
//
// Shapes are compared element-wise from right to left; dimensions are
// compatible if they are equal or one of them is 1, and missing dimensions
// are treated as 1.
//
// Examples:
//
//	(3, 1) + (3, 5) → (3, 5)
//	(5)    + (3, 5) → (3, 5)
//	(3, 4) + (3, 5) → error
func BroadcastShapes(a, b Shape) (Shape, error) {
	maxLen := max(len(a), len(b))
	result := make(Shape, maxLen)

	for i := 0; i < maxLen; i++ {
		aDim, bDim := 1, 1
		if idx := len(a) - 1 - i; idx >= 0 {
			aDim = a[idx]
		}
		if idx := len(b) - 1 - i; idx >= 0 {
			bDim = b[idx]
		}

		switch {
		case aDim == bDim:
			result[maxLen-1-i] = aDim
		case aDim == 1:
			result[maxLen-1-i] = bDim
		case bDim == 1:
			result[maxLen-1-i] = aDim
		default:
			return nil, fmt.Errorf("shapes not compatible for broadcasting: %v vs %v (dimension %d: %d vs %d)",
				a, b, maxLen-1-i, aDim, bDim)
		}
	}

	return result, nil
}

// broadcastStrides returns the strides of shape viewed as out, right-aligned,
// with stride 0 on broadcast (size-1 or missing) dimensions.
func broadcastStrides(shape, out Shape) []int {
	strides := shape.Strides()
	result := make([]int, len(out))
	offset := len(out) - len(shape)
	for i := range out {
		src := i - offset
		if src < 0 || shape[src] == 1 && out[i] > 1 {
			result[i] = 0
		} else {
			result[i] = strides[src]
		}
	}
	return result
}

// ZipBroadcast invokes fn once per element of out, passing the flat output
// index together with the flat indices into a and b under broadcasting.
// Both a and b must be broadcastable to out.
func ZipBroadcast(out, a, b Shape, fn func(i, ia, ib int)) {
	strideA := broadcastStrides(a, out)
	strideB := broadcastStrides(b, out)

	n := out.NumElements()
	counters := make([]int, len(out))
	ia, ib := 0, 0
	for i := 0; i < n; i++ {
		fn(i, ia, ib)

		for d := len(out) - 1; d >= 0; d-- {
			counters[d]++
			ia += strideA[d]
			ib += strideB[d]
			if counters[d] < out[d] {
				break
			}
			counters[d] = 0
			ia -= strideA[d] * out[d]
			ib -= strideB[d] * out[d]
		}
	}
}

// ReduceInto adds src (shaped srcShape) into dst (shaped dstShape), summing
// over the axes along which dst was broadcast to srcShape. This restores the
// original operand shape of a gradient contribution after a broadcast
// forward op.
func ReduceInto(dst *Buffer, src *Buffer) {
	if dst.shape.Equal(src.shape) {
		for i, v := range src.data {
			dst.data[i] += v
		}
		return
	}

	strides := broadcastStrides(dst.shape, src.shape)
	counters := make([]int, len(src.shape))
	di := 0
	for i := 0; i < len(src.data); i++ {
		dst.data[di] += src.data[i]

		for d := len(src.shape) - 1; d >= 0; d-- {
			counters[d]++
			di += strides[d]
			if counters[d] < src.shape[d] {
				break
			}
			counters[d] = 0
			di -= strides[d] * src.shape[d]
		}
	}
}
