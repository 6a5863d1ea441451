package rnn

import (
	"fmt"
	"math/cmplx"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/Nicholas-Lee-Bateman-282787728/reverse-engineering-neural-networks/internal/tensor"
)

// Spectrum returns the eigenvalues of a recurrent Jacobian, sorted by
// decreasing modulus. The leading eigenvalue's modulus governs how
// perturbations grow or shrink under the linearized dynamics.
func Spectrum[T tensor.Float, B tensor.Backend](jac *tensor.Tensor[T, B]) ([]complex128, error) {
	s := jac.Shape()
	if len(s) != 2 || s[0] != s[1] {
		return nil, fmt.Errorf("%w: jacobian shape %v, want square matrix", ErrShapeMismatch, s)
	}

	n := s[0]
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			m.Set(i, j, float64(jac.At(i, j)))
		}
	}

	var eig mat.Eigen
	if ok := eig.Factorize(m, mat.EigenNone); !ok {
		return nil, fmt.Errorf("rnn: eigendecomposition did not converge")
	}
	values := eig.Values(nil)

	sort.Slice(values, func(i, j int) bool {
		return cmplx.Abs(values[i]) > cmplx.Abs(values[j])
	})
	return values, nil
}

// SpectralRadius returns the modulus of the leading eigenvalue of a
// recurrent Jacobian.
func SpectralRadius[T tensor.Float, B tensor.Backend](jac *tensor.Tensor[T, B]) (float64, error) {
	values, err := Spectrum(jac)
	if err != nil {
		return 0, err
	}
	if len(values) == 0 {
		return 0, nil
	}
	return cmplx.Abs(values[0]), nil
}
