package frame

import (
	"math"
	"reflect"
	"testing"
)

func TestInnerJoinDropsUnsharedLabels(t *testing.T) {
	t.Parallel()

	a := Series{Name: "A", Labels: []string{"2023-01-03", "2023-01-04", "2023-01-05"}, Values: []float64{1, 2, 3}}
	b := Series{Name: "B", Labels: []string{"2023-01-04", "2023-01-05", "2023-01-06"}, Values: []float64{10, 20, 30}}

	f, err := InnerJoin(a, b)
	if err != nil {
		t.Fatalf("InnerJoin: %v", err)
	}
	if !reflect.DeepEqual(f.Labels(), []string{"2023-01-04", "2023-01-05"}) {
		t.Errorf("labels = %v", f.Labels())
	}
	colA, _ := f.Col("A")
	colB, _ := f.Col("B")
	if !reflect.DeepEqual(colA, []float64{2, 3}) || !reflect.DeepEqual(colB, []float64{10, 20}) {
		t.Errorf("cols = %v / %v", colA, colB)
	}
}

func TestDiffAndPctChange(t *testing.T) {
	t.Parallel()

	f := New([]string{"y"})
	for i, v := range []float64{100, 110, 121, 133.1} {
		if err := f.Append(string(rune('a'+i)), []float64{v}); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	d := f.Diff(1)
	if d.Len() != 3 {
		t.Fatalf("Diff(1) rows = %d, want 3", d.Len())
	}
	col, _ := d.Col("y")
	if math.Abs(col[0]-10) > 1e-12 || math.Abs(col[2]-12.1) > 1e-12 {
		t.Errorf("diff col = %v", col)
	}

	p := f.PctChange(2)
	if p.Len() != 2 {
		t.Fatalf("PctChange(2) rows = %d, want 2", p.Len())
	}
	pc, _ := p.Col("y")
	if math.Abs(pc[0]-0.21) > 1e-12 {
		t.Errorf("pct change = %v, want 0.21", pc[0])
	}
}

func TestSumAcrossAndAddColumn(t *testing.T) {
	t.Parallel()

	f := New([]string{"a", "b"})
	_ = f.Append("r1", []float64{1, 2})
	_ = f.Append("r2", []float64{3, 4})

	sum, err := f.SumAcross([]string{"a", "b"})
	if err != nil {
		t.Fatalf("SumAcross: %v", err)
	}
	if !reflect.DeepEqual(sum, []float64{3, 7}) {
		t.Errorf("sum = %v", sum)
	}

	if err := f.AddColumn("total", sum); err != nil {
		t.Fatalf("AddColumn: %v", err)
	}
	if err := f.AddColumn("total", sum); err == nil {
		t.Error("duplicate column should error")
	}
	if err := f.AddColumn("short", []float64{1}); err == nil {
		t.Error("length mismatch should error")
	}
}
