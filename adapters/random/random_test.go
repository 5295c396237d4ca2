package random_test

import (
	"testing"

	"github.com/artpar/modinput/adapters/random"
	"pgregory.net/rapid"
)

func TestReal_Float64Range(t *testing.T) {
	r := random.Real{}
	for i := 0; i < 1000; i++ {
		f, err := r.Float64()
		if err != nil {
			t.Fatalf("Float64 failed: %v", err)
		}
		if f < 0 || f >= 1 {
			t.Fatalf("Float64() = %v, want [0, 1)", f)
		}
	}
}

func TestReal_Float64Varies(t *testing.T) {
	r := random.Real{}
	a, _ := r.Float64()
	b, _ := r.Float64()
	if a == b {
		t.Error("successive values should differ")
	}
}

func TestFake_Sequence(t *testing.T) {
	f := random.NewFake(0.25, 0.5)

	want := []float64{0.25, 0.5, 0.5}
	for i, w := range want {
		got, err := f.Float64()
		if err != nil || got != w {
			t.Errorf("call %d = %v, %v; want %v", i, got, err, w)
		}
	}

	f.Reset()
	if got, _ := f.Float64(); got != 0.25 {
		t.Errorf("after Reset = %v, want 0.25", got)
	}
}

func TestFake_Empty(t *testing.T) {
	if got, _ := random.NewFake().Float64(); got != 0 {
		t.Errorf("empty fake = %v, want 0", got)
	}
}

func TestBetween(t *testing.T) {
	got, err := random.Between(random.NewFake(0.5), 10, 20)
	if err != nil || got != 15 {
		t.Errorf("Between = %v, %v; want 15", got, err)
	}
}

func TestBetween_StaysInRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		low := rapid.Float64Range(-1e6, 1e6).Draw(t, "low")
		span := rapid.Float64Range(1e-3, 1e6).Draw(t, "span")
		high := low + span

		got, err := random.Between(random.Real{}, low, high)
		if err != nil {
			t.Fatal(err)
		}
		if got < low || got > high {
			t.Fatalf("Between(%v, %v) = %v", low, high, got)
		}
	})
}
