package autodiff_test

import (
	"math"
	"testing"

	"github.com/Nicholas-Lee-Bateman-282787728/reverse-engineering-neural-networks/internal/autodiff"
	"github.com/Nicholas-Lee-Bateman-282787728/reverse-engineering-neural-networks/internal/backend/cpu"
	"github.com/Nicholas-Lee-Bateman-282787728/reverse-engineering-neural-networks/internal/tensor"
)

// TestAutodiff_Name tests the Name method.
func TestAutodiff_Name(t *testing.T) {
	backend := autodiff.New(cpu.New())
	expected := "Autodiff(CPU)"
	if backend.Name() != expected {
		t.Errorf("Name() = %s, want %s", backend.Name(), expected)
	}
}

// TestAutodiff_Device tests the Device method.
func TestAutodiff_Device(t *testing.T) {
	backend := autodiff.New(cpu.New())
	if backend.Device() != tensor.CPU {
		t.Errorf("Device() = %v, want %v", backend.Device(), tensor.CPU)
	}
}

// TestTape_Recording tests tape recording on/off.
func TestTape_Recording(t *testing.T) {
	backend := autodiff.New(cpu.New())
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

// TestTape_Clear tests that Clear drops operations but preserves recording state.
func TestTape_Clear(t *testing.T) {
	backend := autodiff.New(cpu.New())
	tape := backend.Tape()

	tape.StartRecording()

	a, _ := tensor.FromSlice([]float32{1, 2}, tensor.Shape{2}, backend)
	b, _ := tensor.FromSlice([]float32{3, 4}, tensor.Shape{2}, backend)
	backend.Add(a.Raw(), b.Raw())

	if tape.NumOps() == 0 {
		t.Error("Tape should have recorded operations")
	}

	tape.Clear()

	if tape.NumOps() != 0 {
		t.Errorf("Tape should be empty after Clear(), got %d ops", tape.NumOps())
	}
	if !tape.IsRecording() {
		t.Error("Tape should still be recording after Clear()")
	}
}

// TestTape_NotRecordingByDefault tests that ops are not recorded before StartRecording.
func TestTape_NotRecordingByDefault(t *testing.T) {
	backend := autodiff.New(cpu.New())

	a, _ := tensor.FromSlice([]float32{1, 2}, tensor.Shape{2}, backend)
	b, _ := tensor.FromSlice([]float32{3, 4}, tensor.Shape{2}, backend)
	backend.Add(a.Raw(), b.Raw())

	if backend.Tape().NumOps() != 0 {
		t.Errorf("Expected 0 operations recorded, got %d", backend.Tape().NumOps())
	}
}

// TestBackward_Square tests d(x*x)/dx = 2x.
func TestBackward_Square(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	x, _ := tensor.FromSlice([]float32{3}, tensor.Shape{1}, backend)
	y := x.Mul(x)

	grads := autodiff.Backward(y, backend)

	got := grads[x.Raw()].AsFloat32()[0]
	if math.Abs(float64(got-6)) > 1e-5 {
		t.Errorf("d(x*x)/dx at x=3: got %f, want 6", got)
	}
}

// TestBackward_AddSub tests gradients of addition and subtraction.
func TestBackward_AddSub(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	a, _ := tensor.FromSlice([]float32{1, 2}, tensor.Shape{2}, backend)
	b, _ := tensor.FromSlice([]float32{3, 4}, tensor.Shape{2}, backend)
	c, _ := tensor.FromSlice([]float32{5, 6}, tensor.Shape{2}, backend)

	// y = a + b - c
	y := a.Add(b).Sub(c)
	grads := autodiff.Backward(y.Sum(), backend)

	for i, v := range grads[a.Raw()].AsFloat32() {
		if v != 1 {
			t.Errorf("grad a[%d] = %f, want 1", i, v)
		}
	}
	for i, v := range grads[c.Raw()].AsFloat32() {
		if v != -1 {
			t.Errorf("grad c[%d] = %f, want -1", i, v)
		}
	}
}

// TestBackward_Div tests d(a/b)/da = 1/b and d(a/b)/db = -a/b².
func TestBackward_Div(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	a, _ := tensor.FromSlice([]float32{6}, tensor.Shape{1}, backend)
	b, _ := tensor.FromSlice([]float32{2}, tensor.Shape{1}, backend)

	y := a.Div(b)
	grads := autodiff.Backward(y, backend)

	gradA := grads[a.Raw()].AsFloat32()[0]
	gradB := grads[b.Raw()].AsFloat32()[0]

	if math.Abs(float64(gradA-0.5)) > 1e-6 {
		t.Errorf("d(a/b)/da = %f, want 0.5", gradA)
	}
	if math.Abs(float64(gradB+1.5)) > 1e-6 {
		t.Errorf("d(a/b)/db = %f, want -1.5", gradB)
	}
}

// TestBackward_MatMul tests gradients of matrix multiplication.
func TestBackward_MatMul(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	a, _ := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2}, backend)
	b, _ := tensor.FromSlice([]float32{5, 6, 7, 8}, tensor.Shape{2, 2}, backend)

	y := a.MatMul(b)
	grads := autodiff.Backward(y.Sum(), backend)

	// dL/dA = G @ Bᵀ with G = ones: rows are [5+6, 7+8] = [11, 15]
	wantA := []float32{11, 15, 11, 15}
	gotA := grads[a.Raw()].AsFloat32()
	for i := range wantA {
		if math.Abs(float64(gotA[i]-wantA[i])) > 1e-5 {
			t.Errorf("grad a[%d] = %f, want %f", i, gotA[i], wantA[i])
		}
	}

	// dL/dB = Aᵀ @ G: rows are [1+3, 1+3], [2+4, 2+4]
	wantB := []float32{4, 4, 6, 6}
	gotB := grads[b.Raw()].AsFloat32()
	for i := range wantB {
		if math.Abs(float64(gotB[i]-wantB[i])) > 1e-5 {
			t.Errorf("grad b[%d] = %f, want %f", i, gotB[i], wantB[i])
		}
	}
}

// adTensor is shorthand for a float64 tensor on the autodiff CPU backend.
type adTensor = *tensor.Tensor[float64, *autodiff.Autodiff[*cpu.Backend]]

// TestBackward_Activations tests tanh, sigmoid and exp gradients at a point.
func TestBackward_Activations(t *testing.T) {
	const x0 = 0.5

	cases := []struct {
		name  string
		apply func(x adTensor) adTensor
		want  float64
	}{
		{"tanh", func(x adTensor) adTensor { return x.Tanh() }, 1 - math.Tanh(x0)*math.Tanh(x0)},
		{"sigmoid", func(x adTensor) adTensor { return x.Sigmoid() }, sigmoid(x0) * (1 - sigmoid(x0))},
		{"exp", func(x adTensor) adTensor { return x.Exp() }, math.Exp(x0)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			backend := autodiff.New(cpu.New())
			backend.Tape().StartRecording()

			x, _ := tensor.FromSlice([]float64{x0}, tensor.Shape{1}, backend)
			y := tc.apply(x)

			grads := autodiff.Backward(y, backend)
			got := grads[x.Raw()].AsFloat64()[0]
			if math.Abs(got-tc.want) > 1e-12 {
				t.Errorf("d%s/dx at %v = %v, want %v", tc.name, x0, got, tc.want)
			}
		})
	}
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// TestBackward_ScalarOps tests gradients through scalar arithmetic.
func TestBackward_ScalarOps(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	x, _ := tensor.FromSlice([]float32{2}, tensor.Shape{1}, backend)

	// y = ((x * 3) + 1 - 4) / 2, dy/dx = 1.5
	y := x.MulScalar(3).AddScalar(1).SubScalar(4).DivScalar(2)
	grads := autodiff.Backward(y, backend)

	got := grads[x.Raw()].AsFloat32()[0]
	if math.Abs(float64(got-1.5)) > 1e-6 {
		t.Errorf("dy/dx = %f, want 1.5", got)
	}
}

// TestBackward_Broadcast tests that gradients of broadcast operands are
// reduced back to the operand's shape.
func TestBackward_Broadcast(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	a, _ := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, backend)
	bias, _ := tensor.FromSlice([]float32{10, 20, 30}, tensor.Shape{3}, backend)

	y := a.Add(bias)
	grads := autodiff.Backward(y.Sum(), backend)

	gradBias := grads[bias.Raw()]
	if !gradBias.Shape().Equal(tensor.Shape{3}) {
		t.Fatalf("bias grad shape = %v, want [3]", gradBias.Shape())
	}
	// Each bias element feeds 2 rows
	for i, v := range gradBias.AsFloat32() {
		if v != 2 {
			t.Errorf("bias grad[%d] = %f, want 2", i, v)
		}
	}
}

// TestBackward_SumDim tests gradients through dimension reduction.
func TestBackward_SumDim(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	x, _ := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, backend)

	y := x.SumDim(1, false) // [2]
	grads := autodiff.Backward(y.Sum(), backend)

	gradX := grads[x.Raw()]
	if !gradX.Shape().Equal(tensor.Shape{2, 3}) {
		t.Fatalf("grad shape = %v, want [2 3]", gradX.Shape())
	}
	for i, v := range gradX.AsFloat32() {
		if v != 1 {
			t.Errorf("grad[%d] = %f, want 1", i, v)
		}
	}
}

// TestBackward_ChunkCat tests the multi-output Chunk path and Cat backward.
func TestBackward_ChunkCat(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	x, _ := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{1, 4}, backend)

	parts := x.Chunk(2, -1) // two [1,2] halves
	// y = 2*left + right: left grad 2, right grad 1
	y := tensor.Cat([]*tensor.Tensor[float32, *autodiff.Autodiff[*cpu.Backend]]{
		parts[0].MulScalar(2), parts[1],
	}, -1)

	grads := autodiff.Backward(y.Sum(), backend)

	want := []float32{2, 2, 1, 1}
	got := grads[x.Raw()].AsFloat32()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("grad[%d] = %f, want %f", i, got[i], want[i])
		}
	}
}

// TestBackward_ChunkPartialUse tests that unused chunks contribute zero gradient.
func TestBackward_ChunkPartialUse(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	x, _ := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{1, 4}, backend)

	parts := x.Chunk(2, -1)
	y := parts[0].MulScalar(3) // second chunk unused

	grads := autodiff.Backward(y.Sum(), backend)

	want := []float32{3, 3, 0, 0}
	got := grads[x.Raw()].AsFloat32()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("grad[%d] = %f, want %f", i, got[i], want[i])
		}
	}
}

// TestBackward_ReshapeTranspose tests that shape ops pass gradients through.
func TestBackward_ReshapeTranspose(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	x, _ := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, backend)

	y := x.T().Reshape(6).MulScalar(2)
	grads := autodiff.Backward(y.Sum(), backend)

	gradX := grads[x.Raw()]
	if !gradX.Shape().Equal(tensor.Shape{2, 3}) {
		t.Fatalf("grad shape = %v, want [2 3]", gradX.Shape())
	}
	for i, v := range gradX.AsFloat32() {
		if v != 2 {
			t.Errorf("grad[%d] = %f, want 2", i, v)
		}
	}
}

// TestBackward_Accumulation tests gradient accumulation when a tensor feeds
// multiple operations.
func TestBackward_Accumulation(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	x, _ := tensor.FromSlice([]float32{2}, tensor.Shape{1}, backend)

	// y = x*x + 3x, dy/dx = 2x + 3 = 7
	y := x.Mul(x).Add(x.MulScalar(3))
	grads := autodiff.Backward(y, backend)

	got := grads[x.Raw()].AsFloat32()[0]
	if math.Abs(float64(got-7)) > 1e-5 {
		t.Errorf("dy/dx = %f, want 7", got)
	}
}

// TestBackwardFrom_BasisSeed tests seeding the backward pass with a basis
// vector at an intermediate output. This is the mechanism Jacobian rows are
// built from.
func TestBackwardFrom_BasisSeed(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	x, _ := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{1, 3}, backend)
	w, _ := tensor.FromSlice([]float32{
		1, 0, 2,
		0, 1, 0,
		3, 0, 1,
	}, tensor.Shape{3, 3}, backend)

	y := x.MatMul(w) // [1,3]
	backend.Tape().StopRecording()

	// Row i of dy/dx is wᵀ row i, i.e. column i of w.
	for i := 0; i < 3; i++ {
		seed := tensor.Basis[float32](3, i, backend).Reshape(1, 3)
		grads := autodiff.BackwardFrom(y, seed, backend)

		got := grads[x.Raw()].AsFloat32()
		for j := 0; j < 3; j++ {
			want := w.At(j, i)
			if math.Abs(float64(got[j]-want)) > 1e-5 {
				t.Errorf("row %d: dy_%d/dx_%d = %f, want %f", i, i, j, got[j], want)
			}
		}
	}
}

// TestBackwardFrom_ShapeMismatchPanics tests the seed shape guard.
func TestBackwardFrom_ShapeMismatchPanics(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	x, _ := tensor.FromSlice([]float32{1, 2}, tensor.Shape{2}, backend)
	y := x.MulScalar(2)

	seed := tensor.Ones[float32](tensor.Shape{3}, backend)

	defer func() {
		if recover() == nil {
			t.Error("Expected panic for mismatched seed shape")
		}
	}()
	autodiff.BackwardFrom(y, seed, backend)
}

// TestBackward_NoOpsPanics tests that Backward panics on an empty tape.
func TestBackward_NoOpsPanics(t *testing.T) {
	backend := autodiff.New(cpu.New())

	x, _ := tensor.FromSlice([]float32{1}, tensor.Shape{1}, backend)

	defer func() {
		if recover() == nil {
			t.Error("Expected panic for empty tape")
		}
	}()
	autodiff.Backward(x, backend)
}

// TestBackward_RepeatedReplay tests that one recorded tape supports several
// backward passes with different seeds.
func TestBackward_RepeatedReplay(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	x, _ := tensor.FromSlice([]float32{1, 2}, tensor.Shape{2}, backend)
	y := x.Mul(x) // dy_i/dx_i = 2x_i

	nOps := backend.Tape().NumOps()

	for i := 0; i < 2; i++ {
		seed := tensor.Basis[float32](2, i, backend)
		grads := autodiff.BackwardFrom(y, seed, backend)

		got := grads[x.Raw()].AsFloat32()
		want := 2 * x.At(i)
		if math.Abs(float64(got[i]-want)) > 1e-5 {
			t.Errorf("replay %d: grad = %f, want %f", i, got[i], want)
		}
	}

	if backend.Tape().NumOps() != nOps {
		t.Errorf("Backward extended the tape: %d ops, want %d", backend.Tape().NumOps(), nOps)
	}
}
