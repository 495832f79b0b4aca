// pkg/physics/vector_test.go
package physics

import (
	"math"
	"testing"
)

func TestVector3_Add(t *testing.T) {
	tests := []struct {
		name     string
		v1       Vector3
		v2       Vector3
		expected Vector3
	}{
		{
			name:     "positive_vectors",
			v1:       Vector3{X: 3, Y: 4, Z: 5},
			v2:       Vector3{X: 1, Y: 2, Z: 3},
			expected: Vector3{X: 4, Y: 6, Z: 8},
		},
		{
			name:     "negative_vectors",
			v1:       Vector3{X: -3, Y: -4, Z: -5},
			v2:       Vector3{X: -1, Y: -2, Z: -3},
			expected: Vector3{X: -4, Y: -6, Z: -8},
		},
		{
			name:     "mixed_signs",
			v1:       Vector3{X: 5, Y: -3, Z: 2},
			v2:       Vector3{X: -2, Y: 7, Z: -2},
			expected: Vector3{X: 3, Y: 4, Z: 0},
		},
		{
			name:     "zero_vector",
			v1:       Vector3{},
			v2:       Vector3{X: 5, Y: -3, Z: 1},
			expected: Vector3{X: 5, Y: -3, Z: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.v1.Add(tt.v2)
			if result != tt.expected {
				t.Errorf("Add() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestVector3_Sub(t *testing.T) {
	tests := []struct {
		name     string
		v1       Vector3
		v2       Vector3
		expected Vector3
	}{
		{
			name:     "positive_result",
			v1:       Vector3{X: 5, Y: 7, Z: 9},
			v2:       Vector3{X: 2, Y: 3, Z: 4},
			expected: Vector3{X: 3, Y: 4, Z: 5},
		},
		{
			name:     "negative_result",
			v1:       Vector3{X: 2, Y: 3, Z: 4},
			v2:       Vector3{X: 5, Y: 7, Z: 9},
			expected: Vector3{X: -3, Y: -4, Z: -5},
		},
		{
			name:     "same_vectors",
			v1:       Vector3{X: 4, Y: 6, Z: 8},
			v2:       Vector3{X: 4, Y: 6, Z: 8},
			expected: Vector3{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.v1.Sub(tt.v2)
			if result != tt.expected {
				t.Errorf("Sub() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestVector3_Scale(t *testing.T) {
	tests := []struct {
		name     string
		vector   Vector3
		factor   float64
		expected Vector3
	}{
		{
			name:     "positive_scale",
			vector:   Vector3{X: 3, Y: 4, Z: 5},
			factor:   2,
			expected: Vector3{X: 6, Y: 8, Z: 10},
		},
		{
			name:     "negative_scale",
			vector:   Vector3{X: 3, Y: 4, Z: 5},
			factor:   -2,
			expected: Vector3{X: -6, Y: -8, Z: -10},
		},
		{
			name:     "zero_scale",
			vector:   Vector3{X: 3, Y: 4, Z: 5},
			factor:   0,
			expected: Vector3{},
		},
		{
			name:     "fractional_scale",
			vector:   Vector3{X: 4, Y: 8, Z: 2},
			factor:   0.5,
			expected: Vector3{X: 2, Y: 4, Z: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.vector.Scale(tt.factor)
			if result != tt.expected {
				t.Errorf("Scale() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestVector3_Length(t *testing.T) {
	tests := []struct {
		name     string
		vector   Vector3
		expected float64
	}{
		{
			name:     "unit_vector_x",
			vector:   Vector3{X: 1},
			expected: 1,
		},
		{
			name:     "unit_vector_z",
			vector:   Vector3{Z: 1},
			expected: 1,
		},
		{
			name:     "zero_vector",
			vector:   Vector3{},
			expected: 0,
		},
		{
			name:     "pythagorean_quadruple",
			vector:   Vector3{X: 2, Y: 3, Z: 6},
			expected: 7,
		},
		{
			name:     "negative_components",
			vector:   Vector3{X: -2, Y: -3, Z: -6},
			expected: 7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.vector.Length()
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("Length() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestVector3_LengthSquared(t *testing.T) {
	tests := []struct {
		name     string
		vector   Vector3
		expected float64
	}{
		{
			name:     "unit_vector",
			vector:   Vector3{X: 1},
			expected: 1,
		},
		{
			name:     "zero_vector",
			vector:   Vector3{},
			expected: 0,
		},
		{
			name:     "pythagorean_quadruple",
			vector:   Vector3{X: 2, Y: 3, Z: 6},
			expected: 49,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.vector.LengthSquared()
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("LengthSquared() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestVector3_Normalize(t *testing.T) {
	t.Run("unit_vector_unchanged", func(t *testing.T) {
		result := Vector3{X: 1}.Normalize()
		expected := Vector3{X: 1}
		if result.Distance(expected) > 1e-9 {
			t.Errorf("Normalize() = %v, expected %v", result, expected)
		}
	})

	t.Run("regular_vector", func(t *testing.T) {
		result := Vector3{X: 2, Y: 3, Z: 6}.Normalize()

		length := result.Length()
		if math.Abs(length-1) > 1e-9 {
			t.Errorf("Normalized vector length = %v, expected 1", length)
		}

		expected := Vector3{X: 2.0 / 7.0, Y: 3.0 / 7.0, Z: 6.0 / 7.0}
		if result.Distance(expected) > 1e-9 {
			t.Errorf("Normalize() = %v, expected %v", result, expected)
		}
	})

	t.Run("zero_vector_yields_zero", func(t *testing.T) {
		result := Vector3{}.Normalize()
		if result != (Vector3{}) {
			t.Errorf("Normalize() on zero vector = %v, expected zero vector", result)
		}
	})

	t.Run("near_zero_vector_yields_zero", func(t *testing.T) {
		// Below the 1e-8 threshold normalization must not divide by the
		// near-zero magnitude.
		result := Vector3{X: 1e-10, Y: -1e-10, Z: 1e-10}.Normalize()
		if result != (Vector3{}) {
			t.Errorf("Normalize() on near-zero vector = %v, expected zero vector", result)
		}
	})
}

func TestVector3_Distance(t *testing.T) {
	tests := []struct {
		name     string
		v1       Vector3
		v2       Vector3
		expected float64
	}{
		{
			name:     "same_point",
			v1:       Vector3{X: 3, Y: 4, Z: 5},
			v2:       Vector3{X: 3, Y: 4, Z: 5},
			expected: 0,
		},
		{
			name:     "unit_distance_z",
			v1:       Vector3{},
			v2:       Vector3{Z: 1},
			expected: 1,
		},
		{
			name:     "pythagorean_distance",
			v1:       Vector3{},
			v2:       Vector3{X: 2, Y: 3, Z: 6},
			expected: 7,
		},
		{
			name:     "negative_coordinates",
			v1:       Vector3{X: -1, Y: -1, Z: -3},
			v2:       Vector3{X: 1, Y: 2, Z: 3},
			expected: 7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.v1.Distance(tt.v2)
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("Distance() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestVector3_Dot(t *testing.T) {
	tests := []struct {
		name     string
		v1       Vector3
		v2       Vector3
		expected float64
	}{
		{
			name:     "orthogonal_vectors",
			v1:       Vector3{X: 1},
			v2:       Vector3{Y: 1},
			expected: 0,
		},
		{
			name:     "parallel_vectors",
			v1:       Vector3{X: 1},
			v2:       Vector3{X: 2},
			expected: 2,
		},
		{
			name:     "antiparallel_vectors",
			v1:       Vector3{Z: 1},
			v2:       Vector3{Z: -2},
			expected: -2,
		},
		{
			name:     "general_vectors",
			v1:       Vector3{X: 3, Y: 4, Z: 5},
			v2:       Vector3{X: 1, Y: 2, Z: 3},
			expected: 26,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.v1.Dot(tt.v2)
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("Dot() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestVector3_Cross(t *testing.T) {
	tests := []struct {
		name     string
		v1       Vector3
		v2       Vector3
		expected Vector3
	}{
		{
			name:     "x_cross_y_is_z",
			v1:       Vector3{X: 1},
			v2:       Vector3{Y: 1},
			expected: Vector3{Z: 1},
		},
		{
			name:     "y_cross_x_is_negative_z",
			v1:       Vector3{Y: 1},
			v2:       Vector3{X: 1},
			expected: Vector3{Z: -1},
		},
		{
			name:     "parallel_vectors_are_degenerate",
			v1:       Vector3{Z: 1},
			v2:       Vector3{Z: 3},
			expected: Vector3{},
		},
		{
			name:     "general_vectors",
			v1:       Vector3{X: 2, Y: 3, Z: 4},
			v2:       Vector3{X: 5, Y: 6, Z: 7},
			expected: Vector3{X: -3, Y: 6, Z: -3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.v1.Cross(tt.v2)
			if result != tt.expected {
				t.Errorf("Cross() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestVector3_ClampMagnitude(t *testing.T) {
	t.Run("within_limit_unchanged", func(t *testing.T) {
		v := Vector3{X: 1, Y: 2, Z: 2} // length 3
		result := v.ClampMagnitude(5)
		if result != v {
			t.Errorf("ClampMagnitude() = %v, expected unchanged %v", result, v)
		}
	})

	t.Run("over_limit_rescaled", func(t *testing.T) {
		v := Vector3{X: 3, Y: 0, Z: 4} // length 5
		result := v.ClampMagnitude(2.5)

		if math.Abs(result.Length()-2.5) > 1e-9 {
			t.Errorf("clamped length = %v, expected 2.5", result.Length())
		}

		// direction preserved
		expected := v.Normalize()
		got := result.Normalize()
		if got.Distance(expected) > 1e-9 {
			t.Errorf("clamped direction = %v, expected %v", got, expected)
		}
	})

	t.Run("zero_vector_unchanged", func(t *testing.T) {
		result := Vector3{}.ClampMagnitude(1)
		if result != (Vector3{}) {
			t.Errorf("ClampMagnitude() on zero vector = %v, expected zero vector", result)
		}
	})
}

// Benchmark tests for performance verification
func BenchmarkVector3_Add(b *testing.B) {
	v1 := Vector3{X: 3, Y: 4, Z: 5}
	v2 := Vector3{X: 1, Y: 2, Z: 3}

	for i := 0; i < b.N; i++ {
		_ = v1.Add(v2)
	}
}

func BenchmarkVector3_Length(b *testing.B) {
	v := Vector3{X: 3, Y: 4, Z: 5}

	for i := 0; i < b.N; i++ {
		_ = v.Length()
	}
}

func BenchmarkVector3_Normalize(b *testing.B) {
	v := Vector3{X: 3, Y: 4, Z: 5}

	for i := 0; i < b.N; i++ {
		_ = v.Normalize()
	}
}
