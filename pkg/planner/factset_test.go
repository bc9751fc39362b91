package planner

import "testing"

func TestFactSetBasics(t *testing.T) {
	fs := NewFactSet(10, 1, 3, 5)
	if fs.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", fs.Len())
	}
	for _, id := range []int{1, 3, 5} {
		if !fs.Contains(id) {
			t.Errorf("Contains(%d) = false, want true", id)
		}
	}
	for _, id := range []int{0, 2, 4, 9} {
		if fs.Contains(id) {
			t.Errorf("Contains(%d) = true, want false", id)
		}
	}
}

func TestFactSetWithWithout(t *testing.T) {
	fs := EmptyFactSet(5)
	fs2 := fs.With(2)
	if fs.Contains(2) {
		t.Fatalf("With must not mutate the receiver")
	}
	if !fs2.Contains(2) {
		t.Fatalf("With(2) should contain 2")
	}
	fs3 := fs2.Without(2)
	if fs2.Contains(2) == false {
		t.Fatalf("Without must not mutate the receiver")
	}
	if fs3.Contains(2) {
		t.Fatalf("Without(2) should not contain 2")
	}
}

func TestFactSetUnionIntersectSubtract(t *testing.T) {
	a := NewFactSet(10, 1, 2, 3)
	b := NewFactSet(10, 2, 3, 4)

	u := a.Union(b)
	if got, want := u.Len(), 4; got != want {
		t.Fatalf("Union len = %d, want %d", got, want)
	}

	i := a.Intersect(b)
	want := NewFactSet(10, 2, 3)
	if !i.Equal(want) {
		t.Fatalf("Intersect = %v, want %v", i.ToSlice(), want.ToSlice())
	}

	s := a.Subtract(b)
	want = NewFactSet(10, 1)
	if !s.Equal(want) {
		t.Fatalf("Subtract = %v, want %v", s.ToSlice(), want.ToSlice())
	}
}

func TestFactSetSubsetAndIntersects(t *testing.T) {
	a := NewFactSet(10, 1, 2)
	b := NewFactSet(10, 1, 2, 3)
	if !a.IsSubsetOf(b) {
		t.Fatalf("expected a ⊆ b")
	}
	if b.IsSubsetOf(a) {
		t.Fatalf("expected b ⊄ a")
	}
	if !a.Intersects(b) {
		t.Fatalf("expected a ∩ b non-empty")
	}
	c := NewFactSet(10, 7, 8)
	if a.Intersects(c) {
		t.Fatalf("expected a ∩ c empty")
	}
}

func TestFactSetAcrossWordBoundary(t *testing.T) {
	fs := NewFactSet(200, 0, 63, 64, 127, 128, 199)
	if fs.Len() != 6 {
		t.Fatalf("Len() = %d, want 6", fs.Len())
	}
	got := fs.ToSlice()
	want := []int{0, 63, 64, 127, 128, 199}
	if len(got) != len(want) {
		t.Fatalf("ToSlice() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ToSlice()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestFactSetIsEmpty(t *testing.T) {
	if !EmptyFactSet(10).IsEmpty() {
		t.Fatalf("EmptyFactSet should be empty")
	}
	if NewFactSet(10, 5).IsEmpty() {
		t.Fatalf("non-empty set reported empty")
	}
}
