package match

import (
	"testing"

	"memscan/value"
)

func i32(x int64) value.Value {
	v, err := value.FromInt64(x, value.Int32)
	if err != nil {
		panic(err)
	}
	return v
}

func f64(x float64) value.Value {
	v, err := value.FromFloat64(x, value.Float64)
	if err != nil {
		panic(err)
	}
	return v
}

func TestEvaluate(t *testing.T) {
	none := value.Value{}

	tests := []struct {
		name     string
		kind     Kind
		current  value.Value
		previous value.Value
		operand  value.Value
		want     bool
	}{
		{"any", Any, i32(1), none, none, true},
		{"equal", EqualTo, i32(100), none, i32(100), true},
		{"equal miss", EqualTo, i32(101), none, i32(100), false},
		{"notequal", NotEqualTo, i32(101), none, i32(100), true},
		{"notequal same", NotEqualTo, i32(100), none, i32(100), false},
		{"notequal no operand", NotEqualTo, i32(100), none, none, false},
		{"greater", GreaterThan, i32(5), none, i32(4), true},
		{"greater equal", GreaterThan, i32(4), none, i32(4), false},
		{"less", LessThan, i32(-5), none, i32(4), true},
		{"changed", Changed, i32(2), i32(1), none, true},
		{"changed same", Changed, i32(1), i32(1), none, false},
		{"changed no previous", Changed, i32(2), none, none, false},
		{"unchanged", NotChanged, i32(1), i32(1), none, true},
		{"unchanged no previous", NotChanged, i32(1), none, none, false},
		{"increased", Increased, i32(150), i32(100), none, true},
		{"increased no", Increased, i32(100), i32(100), none, false},
		{"decreased", Decreased, i32(99), i32(100), none, true},
		{"decreased no previous", Decreased, i32(99), none, none, false},
		{"increased by", IncreasedBy, i32(150), i32(100), i32(50), true},
		{"increased by miss", IncreasedBy, i32(151), i32(100), i32(50), false},
		{"decreased by", DecreasedBy, i32(90), i32(100), i32(10), true},
		{"decreased by no previous", DecreasedBy, i32(90), none, i32(10), false},
		{"float equal epsilon", EqualTo, f64(0.30000000000000004), none, f64(0.3), true},
		{"float notequal epsilon", NotEqualTo, f64(0.30000000000000004), none, f64(0.3), false},
		{"float increased by", IncreasedBy, f64(1.3), f64(1.2), f64(0.1), true},
		{"range unsupported", Range, i32(1), i32(1), i32(1), false},
		{"update unsupported", Update, i32(1), i32(1), i32(1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Evaluate(tt.kind, tt.current, tt.previous, tt.operand); got != tt.want {
				t.Errorf("Evaluate(%s, %v, %v, %v) = %v, want %v",
					tt.kind, tt.current, tt.previous, tt.operand, got, tt.want)
			}
		})
	}
}

func TestIncreasedByOverflow(t *testing.T) {
	prev, _ := value.FromInt64(120, value.Int8)
	delta, _ := value.FromInt64(10, value.Int8)
	wrapped, _ := value.FromInt64(-126, value.Int8)
	if Evaluate(IncreasedBy, wrapped, prev, delta) {
		t.Error("wrapped int8 counted as increased by 10")
	}
}

func TestKindClassification(t *testing.T) {
	for _, k := range []Kind{Range, Update, Kind(-1), Kind(99)} {
		if k.Supported() {
			t.Errorf("%s reported as supported", k)
		}
	}
	for _, k := range []Kind{Changed, NotChanged, Increased, Decreased, IncreasedBy, DecreasedBy} {
		if !k.NeedsPrevious() {
			t.Errorf("%s should need a previous value", k)
		}
	}
	for _, k := range []Kind{Any, Changed, Increased} {
		if k.NeedsOperand() {
			t.Errorf("%s should not need an operand", k)
		}
	}
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{
		"=": EqualTo, "==": EqualTo, "!=": NotEqualTo, ">": GreaterThan, "<": LessThan,
		"+": Increased, "-": Decreased, "+=": IncreasedBy, "-=": DecreasedBy,
		"?": Any, "!": Changed, "unchanged": NotChanged, "Increased": Increased,
		"equal": EqualTo, "gt": GreaterThan,
	} {
		got, err := ParseKind(in)
		if err != nil {
			t.Fatalf("ParseKind(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("ParseKind(%q) = %s, want %s", in, got, want)
		}
	}
	if _, err := ParseKind("between"); err == nil {
		t.Error("ParseKind(between) succeeded")
	}
}
