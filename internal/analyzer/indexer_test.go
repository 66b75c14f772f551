package analyzer

import (
	"testing"

	"github.com/ludo-technologies/unflat/internal/ir"
)

func mustIndexer(t *testing.T, prog *ir.Program) *GraphIndexer {
	t.Helper()
	cfg, err := BuildCFG("m", prog)
	if err != nil {
		t.Fatalf("BuildCFG failed: %v", err)
	}
	return NewGraphIndexer(cfg)
}

func TestGraphIndexer(t *testing.T) {
	t.Run("StraightLine", func(t *testing.T) {
		gi := mustIndexer(t, newProgram(
			simpleBlock(0, "a()"),
			simpleBlock(1, "b()"),
			returnBlock(2, ""),
		))
		if gi.Size() != 3 {
			t.Fatalf("Expected size 3, got %d", gi.Size())
		}
		for idx := 0; idx < 3; idx++ {
			if gi.BlockAt(idx) != idx {
				t.Errorf("Expected block %d at index %d, got %d", idx, idx, gi.BlockAt(idx))
			}
			if gi.IndexOf(idx) != idx {
				t.Errorf("Expected index %d for block %d, got %d", idx, idx, gi.IndexOf(idx))
			}
		}
	})

	t.Run("OutOfRange", func(t *testing.T) {
		gi := mustIndexer(t, newProgram(returnBlock(0, "")))
		if gi.BlockAt(-1) != -1 {
			t.Error("Negative index should map to -1")
		}
		if gi.BlockAt(1) != -1 {
			t.Error("Index past the end should map to -1")
		}
		if gi.IndexOf(42) != -1 {
			t.Error("Unknown block should map to -1")
		}
	})

	t.Run("UnreachableBlockSkipped", func(t *testing.T) {
		gi := mustIndexer(t, newProgram(
			jumpBlock(0, 2),
			returnBlock(1, "dead"),
			returnBlock(2, ""),
		))
		if gi.Size() != 2 {
			t.Fatalf("Expected 2 indexed blocks, got %d", gi.Size())
		}
		if gi.IndexOf(1) != -1 {
			t.Error("Unreachable block 1 should have no index")
		}
		if gi.IndexOf(0) != 0 || gi.IndexOf(2) != 1 {
			t.Errorf("Expected 0->0 and 2->1, got %d and %d", gi.IndexOf(0), gi.IndexOf(2))
		}
	})

	t.Run("DominatorsFirst", func(t *testing.T) {
		// Diamond: 0 -> {1, 2} -> 3
		gi := mustIndexer(t, newProgram(
			branchBlock(0, "c", 1, 2),
			jumpBlock(1, 3),
			jumpBlock(2, 3),
			returnBlock(3, ""),
		))
		if gi.IndexOf(0) != 0 {
			t.Error("Entry should take index 0")
		}
		if gi.IndexOf(3) != 3 {
			t.Errorf("Join block should come last, got index %d", gi.IndexOf(3))
		}
	})

	t.Run("LoopBodyContiguous", func(t *testing.T) {
		// Loop {1, 2} with exit 3. Whichever branch arm leads into the
		// body, the body must pack together right behind its head.
		arms := []struct {
			name  string
			head  *ir.Block
		}{
			{"BodyOnTrueArm", branchBlock(1, "c", 2, 3)},
			{"BodyOnFalseArm", branchBlock(1, "c", 3, 2)},
		}
		for _, arm := range arms {
			t.Run(arm.name, func(t *testing.T) {
				gi := mustIndexer(t, newProgram(
					jumpBlock(0, 1),
					arm.head,
					jumpBlock(2, 1),
					returnBlock(3, ""),
				))
				if gi.IndexOf(1) != 1 {
					t.Errorf("Loop head should take index 1, got %d", gi.IndexOf(1))
				}
				if gi.IndexOf(2) != 2 {
					t.Errorf("Loop body should follow its head, got index %d", gi.IndexOf(2))
				}
				if gi.IndexOf(3) != 3 {
					t.Errorf("Loop exit should follow the body, got index %d", gi.IndexOf(3))
				}
			})
		}
	})

	t.Run("NestedLoopsContiguous", func(t *testing.T) {
		gi := mustIndexer(t, newProgram(
			jumpBlock(0, 1),
			branchBlock(1, "outer", 2, 5),
			branchBlock(2, "inner", 3, 4),
			branchBlock(3, "again", 2, 4),
			jumpBlock(4, 1),
			returnBlock(5, ""),
		))
		for id := 0; id <= 5; id++ {
			if gi.IndexOf(id) != id {
				t.Errorf("Expected block %d at index %d, got %d", id, id, gi.IndexOf(id))
			}
		}
	})
}

func TestGraphIndexerEdges(t *testing.T) {
	gi := mustIndexer(t, newProgram(
		branchBlock(0, "c", 1, 2),
		jumpBlock(1, 3),
		jumpBlock(2, 3),
		returnBlock(3, ""),
	))

	if got := gi.OutgoingEdges(0); len(got) != 2 {
		t.Errorf("Expected 2 outgoing edges from entry, got %v", got)
	}
	join := gi.IndexOf(3)
	if got := gi.IncomingEdges(join); len(got) != 2 {
		t.Errorf("Expected 2 incoming edges at join, got %v", got)
	}
	if got := gi.IncomingEdges(0); len(got) != 0 {
		t.Errorf("Entry should have no incoming edges, got %v", got)
	}
	if got := gi.OutgoingEdges(join); len(got) != 0 {
		t.Errorf("Return block should have no outgoing edges, got %v", got)
	}
}
