package analyzer

import "testing"

func TestRange(t *testing.T) {
	t.Run("Contains", func(t *testing.T) {
		outer := Range{Start: 0, End: 6}
		inner := Range{Start: 2, End: 4}
		if !outer.Contains(inner) {
			t.Error("[0,6) should contain [2,4)")
		}
		if inner.Contains(outer) {
			t.Error("[2,4) should not contain [0,6)")
		}
		if !outer.Contains(outer) {
			t.Error("A range should contain itself")
		}
	})

	t.Run("Overlaps", func(t *testing.T) {
		a := Range{Start: 0, End: 4}
		b := Range{Start: 2, End: 6}
		c := Range{Start: 4, End: 8}
		if !a.Overlaps(b) {
			t.Error("[0,4) should overlap [2,6)")
		}
		if a.Overlaps(c) {
			t.Error("Half-open [0,4) should not overlap [4,8)")
		}
	})
}

func TestRangeTree(t *testing.T) {
	t.Run("EmptyTree", func(t *testing.T) {
		tree := NewRangeTree(5, nil)
		root := tree.Root()
		if root.Start() != 0 || root.End() != 5 {
			t.Errorf("Root should span [0,5), got [%d,%d)", root.Start(), root.End())
		}
		if root.FirstChild() != nil {
			t.Error("Empty tree root should have no children")
		}
	})

	t.Run("Nesting", func(t *testing.T) {
		tree := NewRangeTree(7, []Range{
			{Start: 0, End: 6},
			{Start: 2, End: 4},
		})
		outer := tree.Root().FirstChild()
		if outer == nil || outer.Start() != 0 || outer.End() != 6 {
			t.Fatalf("Expected [0,6) under root, got %+v", outer)
		}
		inner := outer.FirstChild()
		if inner == nil || inner.Start() != 2 || inner.End() != 4 {
			t.Fatalf("Expected [2,4) under [0,6), got %+v", inner)
		}
		if inner.Parent() != outer {
			t.Error("Inner node parent should be the outer node")
		}
		if outer.Next() != nil || inner.Next() != nil {
			t.Error("Neither node should have a sibling")
		}
	})

	t.Run("InsertionOrderIndependent", func(t *testing.T) {
		// Inserting the inner range first forces the outer range to
		// adopt it on insertion.
		tree := NewRangeTree(7, []Range{
			{Start: 2, End: 4},
			{Start: 0, End: 6},
		})
		outer := tree.Root().FirstChild()
		if outer == nil || outer.Start() != 0 || outer.End() != 6 {
			t.Fatalf("Expected [0,6) under root, got %+v", outer)
		}
		inner := outer.FirstChild()
		if inner == nil || inner.Start() != 2 || inner.End() != 4 {
			t.Fatalf("Expected adopted child [2,4), got %+v", inner)
		}
	})

	t.Run("SiblingsOrderedByStart", func(t *testing.T) {
		tree := NewRangeTree(10, []Range{
			{Start: 6, End: 9},
			{Start: 0, End: 3},
			{Start: 3, End: 6},
		})
		wantStarts := []int{0, 3, 6}
		child := tree.Root().FirstChild()
		for i, want := range wantStarts {
			if child == nil {
				t.Fatalf("Expected %d children, got %d", len(wantStarts), i)
			}
			if child.Start() != want {
				t.Errorf("Child %d: expected start %d, got %d", i, want, child.Start())
			}
			child = child.Next()
		}
		if child != nil {
			t.Errorf("Unexpected extra child starting at %d", child.Start())
		}
	})

	t.Run("DuplicateRangeIgnored", func(t *testing.T) {
		tree := NewRangeTree(5, []Range{
			{Start: 1, End: 4},
			{Start: 1, End: 4},
		})
		node := tree.Root().FirstChild()
		if node == nil || node.Next() != nil {
			t.Fatal("Duplicate range should produce a single node")
		}
		if node.FirstChild() != nil {
			t.Error("Duplicate range should not nest under itself")
		}
	})

	t.Run("TraversalOrder", func(t *testing.T) {
		tree := NewRangeTree(12, []Range{
			{Start: 0, End: 8},
			{Start: 1, End: 3},
			{Start: 4, End: 7},
			{Start: 5, End: 6},
			{Start: 9, End: 11},
		})
		got := tree.Ranges()
		if len(got) != 5 {
			t.Fatalf("Expected 5 ranges, got %d", len(got))
		}
		for i := 1; i < len(got); i++ {
			if got[i].Start < got[i-1].Start {
				t.Errorf("Traversal starts should never decrease: %v", got)
			}
		}
	})

	t.Run("PartialOverlapPanics", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("Expected panic on partially overlapping ranges")
			}
		}()
		NewRangeTree(10, []Range{
			{Start: 0, End: 5},
			{Start: 3, End: 8},
		})
	})

	t.Run("OutOfBoundsPanics", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("Expected panic on range outside the tree bounds")
			}
		}()
		NewRangeTree(4, []Range{{Start: 2, End: 9}})
	})
}
