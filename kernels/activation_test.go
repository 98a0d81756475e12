package kernels

import "testing"

func TestClassIndexActivation(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		votes []int32
		want  uint32
	}{
		{"clear winner", []int32{1, 5, 2}, 1},
		{"tie broken by lowest index", []int32{3, 3, 1}, 0},
		{"single class", []int32{-1}, 0},
	}

	act := NewClassIndexActivation()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := make([]byte, 4)
			act.Apply(tt.votes, 0, buf)
			got := uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24
			if got != tt.want {
				t.Errorf("class index = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBinaryVectorActivation(t *testing.T) {
	t.Parallel()
	act := NewBinaryVectorActivation()
	votes := []int32{5, -5, 0}
	buf := make([]byte, 3)
	act.Apply(votes, 0, buf)

	want := []byte{1, 0, 0}
	for i := range want {
		if buf[i] != want[i] {
			t.Errorf("yPred[%d] = %d, want %d", i, buf[i], want[i])
		}
	}
}

func TestCustomActivation(t *testing.T) {
	t.Parallel()
	called := false
	act := NewCustomActivation(func(votes []int32, midState int8, yPred []byte) {
		called = true
		yPred[0] = 0xFF
	})
	buf := make([]byte, 1)
	act.Apply([]int32{1}, 0, buf)

	if !called {
		t.Error("custom activation function was not invoked")
	}
	if buf[0] != 0xFF {
		t.Errorf("yPred[0] = %d, want 0xFF", buf[0])
	}
}
