package cpu

import (
	"math"
	"testing"

	"github.com/Nicholas-Lee-Bateman-282787728/reverse-engineering-neural-networks/internal/tensor"
)

func mustFromSlice[T tensor.DType](t *testing.T, data []T, shape tensor.Shape, b *Backend) *tensor.Tensor[T, *Backend] {
	t.Helper()
	ten, err := tensor.FromSlice(data, shape, b)
	if err != nil {
		t.Fatalf("FromSlice: %v", err)
	}
	return ten
}

func assertData[T tensor.DType](t *testing.T, got, want []T, msg string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: length %d, want %d", msg, len(got), len(want))
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("%s: data[%d] = %v, want %v", msg, i, got[i], want[i])
		}
	}
}

func assertClose(t *testing.T, got, want, tol float64, msg string) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s: got %v, want %v", msg, got, want)
	}
}

func mustPanic(t *testing.T, msg string, f func()) {
	t.Helper()
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("%s: expected panic", msg)
		}
	}()
	f()
}

func TestAdd(t *testing.T) {
	b := New()
	x := mustFromSlice(t, []float64{1, 2, 3, 4}, tensor.Shape{2, 2}, b)
	y := mustFromSlice(t, []float64{10, 20, 30, 40}, tensor.Shape{2, 2}, b)

	z := x.Add(y)
	assertData(t, z.Data(), []float64{11, 22, 33, 44}, "add")
}

func TestAddBroadcast(t *testing.T) {
	b := New()
	x := mustFromSlice(t, []float64{1, 2, 3}, tensor.Shape{3}, b)
	y := mustFromSlice(t, []float64{10, 20}, tensor.Shape{2, 1}, b)

	z := tensor.New[float64](b.Add(y.Raw(), x.Raw()), b)
	if !z.Shape().Equal(tensor.Shape{2, 3}) {
		t.Fatalf("broadcast shape = %v, want [2 3]", z.Shape())
	}
	assertData(t, z.Data(), []float64{11, 12, 13, 21, 22, 23}, "broadcast add")
}

func TestBinaryInplaceWhenUnique(t *testing.T) {
	b := New()
	x := mustFromSlice(t, []float32{1, 2}, tensor.Shape{2}, b)
	y := mustFromSlice(t, []float32{3, 4}, tensor.Shape{2}, b)

	// x's buffer is unique, so the backend may write into it.
	out := b.Add(x.Raw(), y.Raw())
	if out != x.Raw() {
		t.Error("unique input should be reused for the result")
	}

	// A shared buffer must not be overwritten.
	z := mustFromSlice(t, []float32{5, 6}, tensor.Shape{2}, b)
	clone := z.Clone()
	out = b.Add(z.Raw(), y.Raw())
	if out == z.Raw() {
		t.Error("shared input must not be modified inplace")
	}
	assertData(t, clone.Data(), []float32{5, 6}, "clone preserved")
}

func TestBinaryMismatches(t *testing.T) {
	b := New()
	f32 := tensor.Zeros[float32](tensor.Shape{2}, b)
	f64 := tensor.Zeros[float64](tensor.Shape{2}, b)
	bad := tensor.Zeros[float32](tensor.Shape{3, 4}, b)

	mustPanic(t, "dtype mismatch", func() { b.Add(f32.Raw(), f64.Raw()) })
	mustPanic(t, "incompatible shapes", func() { b.Add(f32.Raw(), bad.Raw()) })
}

func TestSubMulDiv(t *testing.T) {
	b := New()
	x := mustFromSlice(t, []float64{8, 6, 4}, tensor.Shape{3}, b)
	y := mustFromSlice(t, []float64{2, 3, 4}, tensor.Shape{3}, b)

	assertData(t, x.Clone().Sub(y).Data(), []float64{6, 3, 0}, "sub")
	assertData(t, x.Clone().Mul(y).Data(), []float64{16, 18, 16}, "mul")
	assertData(t, x.Clone().Div(y).Data(), []float64{4, 2, 1}, "div")
}

func TestMatMul(t *testing.T) {
	b := New()
	x := mustFromSlice(t, []float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, b)
	y := mustFromSlice(t, []float64{7, 8, 9, 10, 11, 12}, tensor.Shape{3, 2}, b)

	z := x.MatMul(y)
	if !z.Shape().Equal(tensor.Shape{2, 2}) {
		t.Fatalf("matmul shape = %v, want [2 2]", z.Shape())
	}
	assertData(t, z.Data(), []float64{58, 64, 139, 154}, "matmul")
}

func TestMatMulFloat32(t *testing.T) {
	b := New()
	x := mustFromSlice(t, []float32{1, 0, 0, 1}, tensor.Shape{2, 2}, b)
	y := mustFromSlice(t, []float32{3, 4, 5, 6}, tensor.Shape{2, 2}, b)

	assertData(t, x.MatMul(y).Data(), []float32{3, 4, 5, 6}, "identity matmul")
}

func TestMatMulInt32(t *testing.T) {
	b := New()
	x := mustFromSlice(t, []int32{1, 2, 3, 4}, tensor.Shape{2, 2}, b)
	y := mustFromSlice(t, []int32{5, 6, 7, 8}, tensor.Shape{2, 2}, b)

	assertData(t, x.MatMul(y).Data(), []int32{19, 22, 43, 50}, "int32 matmul")
}

func TestMatMulShapeMismatch(t *testing.T) {
	b := New()
	x := tensor.Zeros[float64](tensor.Shape{2, 3}, b)
	y := tensor.Zeros[float64](tensor.Shape{4, 2}, b)
	vec := tensor.Zeros[float64](tensor.Shape{3}, b)

	mustPanic(t, "inner dims", func() { x.MatMul(y) })
	mustPanic(t, "non-2D", func() { x.MatMul(vec) })
}

func TestMatMulZeroRows(t *testing.T) {
	b := New()
	x := tensor.Zeros[float64](tensor.Shape{0, 3}, b)
	y := tensor.Zeros[float64](tensor.Shape{3, 5}, b)

	z := x.MatMul(y)
	if !z.Shape().Equal(tensor.Shape{0, 5}) {
		t.Errorf("shape = %v, want [0 5]", z.Shape())
	}
}

func TestReshape(t *testing.T) {
	b := New()
	x := mustFromSlice(t, []float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, b)

	y := x.Reshape(3, 2)
	if !y.Shape().Equal(tensor.Shape{3, 2}) {
		t.Fatalf("shape = %v, want [3 2]", y.Shape())
	}
	assertData(t, y.Data(), []float64{1, 2, 3, 4, 5, 6}, "reshape keeps order")

	mustPanic(t, "element count", func() { x.Reshape(4, 2) })
}

func TestTranspose2D(t *testing.T) {
	b := New()
	x := mustFromSlice(t, []float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, b)

	y := x.T()
	if !y.Shape().Equal(tensor.Shape{3, 2}) {
		t.Fatalf("shape = %v, want [3 2]", y.Shape())
	}
	assertData(t, y.Data(), []float64{1, 4, 2, 5, 3, 6}, "transpose")
}

func TestTransposePermutation(t *testing.T) {
	b := New()
	x := mustFromSlice(t, []float64{0, 1, 2, 3, 4, 5, 6, 7}, tensor.Shape{2, 2, 2}, b)

	y := x.Transpose(2, 0, 1)
	if !y.Shape().Equal(tensor.Shape{2, 2, 2}) {
		t.Fatalf("shape = %v", y.Shape())
	}
	// y[i][j][k] = x[j][k][i]
	assertData(t, y.Data(), []float64{0, 2, 4, 6, 1, 3, 5, 7}, "permute")

	mustPanic(t, "bad permutation", func() { x.Transpose(0, 0, 1) })
}

func TestCatChunkRoundTrip(t *testing.T) {
	b := New()
	x := mustFromSlice(t, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, tensor.Shape{2, 3, 2}, b)

	parts := x.Chunk(3, 1)
	if len(parts) != 3 {
		t.Fatalf("got %d chunks, want 3", len(parts))
	}
	for i, p := range parts {
		if !p.Shape().Equal(tensor.Shape{2, 1, 2}) {
			t.Errorf("chunk %d shape = %v, want [2 1 2]", i, p.Shape())
		}
	}
	assertData(t, parts[0].Data(), []float64{1, 2, 7, 8}, "first chunk")

	back := tensor.Cat(parts, 1)
	assertData(t, back.Data(), x.Data(), "cat undoes chunk")
}

func TestCatNegativeDim(t *testing.T) {
	b := New()
	x := mustFromSlice(t, []float64{1, 2}, tensor.Shape{2, 1}, b)
	y := mustFromSlice(t, []float64{3, 4}, tensor.Shape{2, 1}, b)

	z := tensor.Cat([]*tensor.Tensor[float64, *Backend]{x, y}, -1)
	if !z.Shape().Equal(tensor.Shape{2, 2}) {
		t.Fatalf("shape = %v, want [2 2]", z.Shape())
	}
	assertData(t, z.Data(), []float64{1, 3, 2, 4}, "cat dim -1")
}

func TestChunkIndivisible(t *testing.T) {
	b := New()
	x := tensor.Zeros[float64](tensor.Shape{2, 5}, b)
	mustPanic(t, "indivisible chunk", func() { x.Chunk(2, 1) })
}

func TestUnsqueezeSqueeze(t *testing.T) {
	b := New()
	x := mustFromSlice(t, []float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, b)

	y := x.Unsqueeze(1)
	if !y.Shape().Equal(tensor.Shape{2, 1, 3}) {
		t.Fatalf("unsqueeze shape = %v, want [2 1 3]", y.Shape())
	}

	z := y.Squeeze(1)
	if !z.Shape().Equal(tensor.Shape{2, 3}) {
		t.Fatalf("squeeze shape = %v, want [2 3]", z.Shape())
	}
	assertData(t, z.Data(), x.Data(), "roundtrip data")

	tail := x.Unsqueeze(-1)
	if !tail.Shape().Equal(tensor.Shape{2, 3, 1}) {
		t.Fatalf("unsqueeze -1 shape = %v, want [2 3 1]", tail.Shape())
	}

	mustPanic(t, "squeeze non-1 dim", func() { x.Squeeze(0) })
}

func TestSum(t *testing.T) {
	b := New()
	x := mustFromSlice(t, []float64{1, 2, 3, 4}, tensor.Shape{2, 2}, b)

	s := x.Sum()
	if len(s.Shape()) != 0 {
		t.Fatalf("sum shape = %v, want scalar", s.Shape())
	}
	assertClose(t, s.Item(), 10, 1e-12, "total sum")
}

func TestSumDim(t *testing.T) {
	b := New()
	x := mustFromSlice(t, []float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, b)

	rows := x.SumDim(1, false)
	if !rows.Shape().Equal(tensor.Shape{2}) {
		t.Fatalf("shape = %v, want [2]", rows.Shape())
	}
	assertData(t, rows.Data(), []float64{6, 15}, "sum dim 1")

	cols := x.SumDim(0, true)
	if !cols.Shape().Equal(tensor.Shape{1, 3}) {
		t.Fatalf("shape = %v, want [1 3]", cols.Shape())
	}
	assertData(t, cols.Data(), []float64{5, 7, 9}, "sum dim 0 keepDim")

	neg := x.SumDim(-1, false)
	assertData(t, neg.Data(), []float64{6, 15}, "sum dim -1")
}

func TestScalarOps(t *testing.T) {
	b := New()
	x := mustFromSlice(t, []float64{1, 2, 3}, tensor.Shape{3}, b)

	assertData(t, x.MulScalar(2).Data(), []float64{2, 4, 6}, "mulScalar")
	assertData(t, x.AddScalar(10).Data(), []float64{11, 12, 13}, "addScalar")
	assertData(t, x.SubScalar(1).Data(), []float64{0, 1, 2}, "subScalar")
	assertData(t, x.DivScalar(2).Data(), []float64{0.5, 1, 1.5}, "divScalar")
}

func TestScalarTypeMismatch(t *testing.T) {
	b := New()
	x := tensor.Zeros[float32](tensor.Shape{2}, b)
	mustPanic(t, "scalar type", func() { b.MulScalar(x.Raw(), float64(2)) })
}

func TestMathOps(t *testing.T) {
	b := New()
	x := mustFromSlice(t, []float64{0, 1, -1}, tensor.Shape{3}, b)

	exp := x.Exp().Data()
	assertClose(t, exp[0], 1, 1e-12, "exp(0)")
	assertClose(t, exp[1], math.E, 1e-12, "exp(1)")

	tanh := x.Tanh().Data()
	assertClose(t, tanh[0], 0, 1e-12, "tanh(0)")
	assertClose(t, tanh[1], math.Tanh(1), 1e-12, "tanh(1)")

	sig := x.Sigmoid().Data()
	assertClose(t, sig[0], 0.5, 1e-12, "sigmoid(0)")
	assertClose(t, sig[1]+sig[2], 1, 1e-12, "sigmoid symmetry")

	ints := tensor.Zeros[int32](tensor.Shape{2}, b)
	mustPanic(t, "int tanh", func() { b.Tanh(ints.Raw()) })
}

func TestCreationHelpers(t *testing.T) {
	b := New()

	eye := tensor.Eye[float64](3, b)
	assertData(t, eye.Data(), []float64{1, 0, 0, 0, 1, 0, 0, 0, 1}, "eye")

	basis := tensor.Basis[float64](4, 2, b)
	assertData(t, basis.Data(), []float64{0, 0, 1, 0}, "basis")

	ar := tensor.Arange[float32](4, b)
	assertData(t, ar.Data(), []float32{0, 1, 2, 3}, "arange")

	full := tensor.Full(tensor.Shape{2, 2}, float32(0.5), b)
	assertData(t, full.Data(), []float32{0.5, 0.5, 0.5, 0.5}, "full")
}

func TestOneHot(t *testing.T) {
	b := New()
	idx := mustFromSlice(t, []int32{0, 2, 5}, tensor.Shape{3}, b)

	oh := tensor.OneHot[float64](idx, 4, b)
	if !oh.Shape().Equal(tensor.Shape{3, 4}) {
		t.Fatalf("shape = %v, want [3 4]", oh.Shape())
	}
	// Index 5 is outside the vocabulary; its row stays zero.
	assertData(t, oh.Data(), []float64{
		1, 0, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 0,
	}, "one-hot rows")
}

func TestAtSet(t *testing.T) {
	b := New()
	x := tensor.Zeros[float64](tensor.Shape{2, 3}, b)

	x.Set(7, 1, 2)
	if got := x.At(1, 2); got != 7 {
		t.Errorf("At(1,2) = %v, want 7", got)
	}

	mustPanic(t, "out of bounds", func() { x.At(2, 0) })
	mustPanic(t, "wrong arity", func() { x.At(1) })
}

func TestFromSliceLengthMismatch(t *testing.T) {
	b := New()
	if _, err := tensor.FromSlice([]float64{1, 2, 3}, tensor.Shape{2, 2}, b); err == nil {
		t.Error("expected error for mismatched length")
	}
}

func TestBackendMetadata(t *testing.T) {
	b := New()
	if b.Name() != "CPU" {
		t.Errorf("Name() = %q, want CPU", b.Name())
	}
	if b.Device() != tensor.CPU {
		t.Errorf("Device() = %v, want CPU", b.Device())
	}
}
