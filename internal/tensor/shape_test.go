package tensor

import "testing"

func TestShapeNumElements(t *testing.T) {
	tests := []struct {
		shape Shape
		want  int
	}{
		{Shape{}, 1},
		{Shape{4}, 4},
		{Shape{2, 3}, 6},
		{Shape{2, 3, 4}, 24},
		{Shape{5, 0, 2}, 0},
	}
	for _, tt := range tests {
		if got := tt.shape.NumElements(); got != tt.want {
			t.Errorf("%v.NumElements() = %d, want %d", tt.shape, got, tt.want)
		}
	}
}

func TestShapeValidate(t *testing.T) {
	if err := (Shape{2, 3}).Validate(); err != nil {
		t.Errorf("valid shape rejected: %v", err)
	}
	if err := (Shape{}).Validate(); err != nil {
		t.Errorf("rank-0 shape rejected: %v", err)
	}
	if err := (Shape{2, -1}).Validate(); err == nil {
		t.Error("negative dimension accepted")
	}
}

func TestShapeStrides(t *testing.T) {
	tests := []struct {
		shape Shape
		want  []int
	}{
		{Shape{}, []int{}},
		{Shape{5}, []int{1}},
		{Shape{2, 3}, []int{3, 1}},
		{Shape{2, 3, 4}, []int{12, 4, 1}},
	}
	for _, tt := range tests {
		got := tt.shape.Strides()
		if len(got) != len(tt.want) {
			t.Errorf("%v.Strides() = %v, want %v", tt.shape, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("%v.Strides() = %v, want %v", tt.shape, got, tt.want)
				break
			}
		}
	}
}

func TestShapeEqualAndClone(t *testing.T) {
	s := Shape{2, 3}
	if !s.Equal(Shape{2, 3}) {
		t.Error("equal shapes reported unequal")
	}
	if s.Equal(Shape{3, 2}) {
		t.Error("unequal shapes reported equal")
	}
	if s.Equal(Shape{2, 3, 1}) {
		t.Error("shapes of different rank reported equal")
	}

	c := s.Clone()
	c[0] = 9
	if s[0] != 2 {
		t.Error("Clone shares backing array with original")
	}
}
