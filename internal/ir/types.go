package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// Type is a sealed interface over the value types the IR supports.
// Only TensorType and ScalarType implement it.
type Type interface {
	irType() // Sealed - only these types implement it

	// IsTensor reports whether the type is a tensor-like value type,
	// i.e. one that bufferization lowers onto a memory buffer.
	IsTensor() bool

	// String renders the type in its textual form (e.g. "tensor<4x8xf32>").
	String() string
}

// TensorType is an immutable, copy-on-write tensor value type.
// The zero-length shape denotes a rank-0 tensor.
type TensorType struct {
	Shape []int64
	Elem  string // element type name, e.g. "f32", "i64"
}

func (TensorType) irType() {}

// IsTensor always returns true for TensorType.
func (TensorType) IsTensor() bool { return true }

// String renders the type as tensor<DIMxDIMx...xELEM>.
func (t TensorType) String() string {
	var b strings.Builder
	b.WriteString("tensor<")
	for _, d := range t.Shape {
		b.WriteString(strconv.FormatInt(d, 10))
		b.WriteByte('x')
	}
	b.WriteString(t.Elem)
	b.WriteByte('>')
	return b.String()
}

// ScalarType is a non-tensor value type (index, element scalars).
// Scalar values are irrelevant to buffer assignment.
type ScalarType struct {
	Name string // e.g. "f32", "i64", "index"
}

func (ScalarType) irType() {}

// IsTensor always returns false for ScalarType.
func (ScalarType) IsTensor() bool { return false }

// String returns the scalar type name.
func (t ScalarType) String() string { return t.Name }

// ParseType parses the textual form of a type.
//
// Accepted forms:
//
//	tensor<4x8xf32>  - ranked tensor
//	tensor<f32>      - rank-0 tensor
//	f32, i64, index  - scalars
func ParseType(s string) (Type, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty type")
	}

	if !strings.HasPrefix(s, "tensor<") {
		if strings.ContainsAny(s, "<> ") {
			return nil, fmt.Errorf("invalid type %q", s)
		}
		return ScalarType{Name: s}, nil
	}

	if !strings.HasSuffix(s, ">") {
		return nil, fmt.Errorf("invalid tensor type %q: missing closing '>'", s)
	}
	body := s[len("tensor<") : len(s)-1]
	if body == "" {
		return nil, fmt.Errorf("invalid tensor type %q: empty body", s)
	}

	parts := strings.Split(body, "x")
	elem := parts[len(parts)-1]
	if elem == "" {
		return nil, fmt.Errorf("invalid tensor type %q: missing element type", s)
	}

	var shape []int64
	for _, p := range parts[:len(parts)-1] {
		d, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid tensor type %q: bad dimension %q", s, p)
		}
		if d < 0 {
			return nil, fmt.Errorf("invalid tensor type %q: negative dimension %d", s, d)
		}
		shape = append(shape, d)
	}

	return TensorType{Shape: shape, Elem: elem}, nil
}
