package tensor

// Zeros creates a tensor filled with zeros.
//
// Example:
//
//	backend := cpu.New()
//	t := tensor.Zeros[float32](Shape{3, 4}, backend)
func Zeros[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	var dummy T
	dtype := inferDataType(dummy)

	raw, err := NewRaw(shape, dtype, b.Device())
	if err != nil {
		panic(err) // Shape validation should prevent this
	}

	// Data is already zero-initialized by make()
	return New[T, B](raw, b)
}

// Ones creates a tensor filled with ones.
func Ones[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return Full(shape, T(1), b)
}

// Full creates a tensor filled with a specific value.
//
// Example:
//
//	t := tensor.Full(Shape{3, 3}, float32(0.5), backend)
func Full[T DType, B Backend](shape Shape, value T, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	data := t.Data()
	for i := range data {
		data[i] = value
	}
	return t
}

// Eye creates an n×n identity matrix.
//
// Example:
//
//	t := tensor.Eye[float32](3, backend)
func Eye[T DType, B Backend](n int, b B) *Tensor[T, B] {
	t := Zeros[T, B](Shape{n, n}, b)
	for i := 0; i < n; i++ {
		t.Set(T(1), i, i)
	}
	return t
}

// Basis creates a length-n one-hot vector with a 1 at index i.
// Used to seed reverse-mode passes when extracting Jacobian rows.
func Basis[T DType, B Backend](n, i int, b B) *Tensor[T, B] {
	t := Zeros[T, B](Shape{n}, b)
	t.Set(T(1), i)
	return t
}

// Arange creates a length-n vector with values 0, 1, ..., n-1.
func Arange[T DType, B Backend](n int, b B) *Tensor[T, B] {
	t := Zeros[T, B](Shape{n}, b)
	data := t.Data()
	for i := range data {
		data[i] = T(i)
	}
	return t
}

// OneHot encodes integer class indices as one-hot vectors over a vocabulary,
// appending a trailing axis of size vocab. Indices outside [0, vocab) leave
// their row all-zero.
func OneHot[T DType, B Backend](indices *Tensor[int32, B], vocab int, b B) *Tensor[T, B] {
	inShape := indices.Shape()
	outShape := make(Shape, 0, len(inShape)+1)
	outShape = append(outShape, inShape...)
	outShape = append(outShape, vocab)

	t := Zeros[T, B](outShape, b)
	data := t.Data()
	for i, idx := range indices.Data() {
		if idx >= 0 && int(idx) < vocab {
			data[i*vocab+int(idx)] = T(1)
		}
	}
	return t
}
