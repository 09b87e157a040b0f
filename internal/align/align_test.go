package align

import (
	"reflect"
	"strings"
	"testing"
)

func TestAlign_Identical(t *testing.T) {
	r := Align([]byte("PING"), []byte("PING"))

	if !r.Equal() {
		t.Errorf("identical sequences should align equal, got mask %v", r.Mask())
	}
	if len(r.Expected) != 4 || len(r.Actual) != 4 {
		t.Errorf("aligned rows have wrong length: %d/%d", len(r.Expected), len(r.Actual))
	}
}

func TestAlign_Substitution(t *testing.T) {
	r := Align([]byte("PING"), []byte("PONK"))

	if len(r.Expected) != 4 {
		t.Fatalf("substitutions should not introduce gaps, got %d columns", len(r.Expected))
	}
	want := []bool{false, true, false, true}
	if got := r.Mask(); !reflect.DeepEqual(got, want) {
		t.Errorf("mask = %v, want %v", got, want)
	}
}

func TestAlign_Insertion(t *testing.T) {
	r := Align([]byte("ABC"), []byte("ABXC"))

	if len(r.Expected) != 4 {
		t.Fatalf("alignment should be 4 columns, got %d", len(r.Expected))
	}
	if r.Expected[2] != Gap {
		t.Errorf("expected row should carry a gap at column 2, got %v", r.Expected)
	}
	if r.Actual[2] != 'X' {
		t.Errorf("actual row should carry X at column 2, got %v", r.Actual)
	}
	mask := r.Mask()
	if !mask[2] || mask[0] || mask[1] || mask[3] {
		t.Errorf("only column 2 should differ, mask = %v", mask)
	}
}

func TestAlign_Deletion(t *testing.T) {
	r := Align([]byte("ABXC"), []byte("ABC"))

	if len(r.Actual) != 4 {
		t.Fatalf("alignment should be 4 columns, got %d", len(r.Actual))
	}
	if r.Actual[2] != Gap {
		t.Errorf("actual row should carry a gap at column 2, got %v", r.Actual)
	}
}

func TestAlign_EmptySides(t *testing.T) {
	r := Align(nil, []byte("AB"))
	if len(r.Expected) != 2 || r.Expected[0] != Gap || r.Expected[1] != Gap {
		t.Errorf("aligning empty expected should be all gaps, got %v", r.Expected)
	}

	r = Align([]byte("AB"), nil)
	if len(r.Actual) != 2 || r.Actual[0] != Gap || r.Actual[1] != Gap {
		t.Errorf("aligning empty actual should be all gaps, got %v", r.Actual)
	}

	r = Align(nil, nil)
	if len(r.Expected) != 0 {
		t.Errorf("aligning two empty sequences should be empty, got %v", r.Expected)
	}
}

func TestAlign_Deterministic(t *testing.T) {
	a, b := []byte("T1PA1000"), []byte("T1PB100")
	first := Align(a, b)
	for i := 0; i < 10; i++ {
		if got := Align(a, b); !reflect.DeepEqual(got, first) {
			t.Fatalf("alignment is not deterministic: %v vs %v", got, first)
		}
	}
}

func TestRender(t *testing.T) {
	got := Align([]byte("PING"), []byte("PONK")).Render()

	want := strings.Join([]string{
		"expected: PING",
		"actual:   PONK",
		"           ^ ^",
	}, "\n")
	if got != want {
		t.Errorf("Render() =\n%s\nwant:\n%s", got, want)
	}
}

func TestRender_NonPrintableAndGaps(t *testing.T) {
	out := Align([]byte("A\nB"), []byte("AB")).Render()

	if !strings.Contains(out, "A.B") {
		t.Errorf("non-printable byte should render as '.', got:\n%s", out)
	}
	if !strings.Contains(out, "A_B") {
		t.Errorf("gap should render as '_', got:\n%s", out)
	}
	if !strings.Contains(out, "^") {
		t.Errorf("marker line should flag the gap column, got:\n%s", out)
	}
}
