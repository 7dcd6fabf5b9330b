package predicate

import "testing"

func TestCombinators(t *testing.T) {
	even := Func("Even", func(v int) bool { return v%2 == 0 })
	positive := Func("Positive", func(v int) bool { return v > 0 })

	tests := []struct {
		name string
		pred Predicate[int]
		in   int
		want bool
	}{
		{"true", True[int](), -3, true},
		{"false", False[int](), 4, false},
		{"and both", And(even, positive), 4, true},
		{"and one", And(even, positive), -4, false},
		{"and empty", And[int](), 7, true},
		{"and skips nil", And(even, nil), 2, true},
		{"or one", Or(even, positive), 3, true},
		{"or none", Or(even, positive), -3, false},
		{"or empty", Or[int](), 1, false},
		{"not", Not(even), 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pred.Test(tt.in); got != tt.want {
				t.Errorf("%s.Test(%d) = %v, want %v", tt.pred, tt.in, got, tt.want)
			}
		})
	}
}

func TestString(t *testing.T) {
	even := Func("Even", func(v int) bool { return v%2 == 0 })
	got := And(even, Not(Or(True[int](), False[int]()))).String()
	want := "And(Even, Not(Or(True, False)))"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestNilHelpers(t *testing.T) {
	var p Predicate[int]
	if !Eval(p, 1) {
		t.Error("Eval(nil) should accept")
	}
	if Describe(p) != "True" {
		t.Errorf("Describe(nil) = %q", Describe(p))
	}
}
