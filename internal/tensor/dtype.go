// Package tensor provides the dense numeric arrays that recurrent cells,
// Jacobian computations and dataset pipelines are built on.
package tensor

// DType is a constraint for supported tensor element types.
// Float types carry cell states and parameters; Int32 carries token ids.
type DType interface {
	~float32 | ~float64 | ~int32
}

// Float constrains to the floating-point element types.
type Float interface {
	~float32 | ~float64
}

// DataType is the runtime type tag of a tensor.
type DataType int

// Supported data types.
const (
	Float32 DataType = iota
	Float64
	Int32
)

// Size returns the byte size of one element.
func (dt DataType) Size() int {
	switch dt {
	case Float32, Int32:
		return 4
	case Float64:
		return 8
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Int32:
		return "int32"
	default:
		return "unknown"
	}
}

// inferDataType maps a generic element type T to its runtime tag.
func inferDataType[T DType](dummy T) DataType {
	switch any(dummy).(type) {
	case float32:
		return Float32
	case float64:
		return Float64
	case int32:
		return Int32
	default:
		panic("unsupported type")
	}
}
