package merge

import "testing"

func TestMergeIdentitySameOnBothSides(t *testing.T) {
	r := Merge("A\n", "A\n", "A\n", true)
	if !r.Clean() || r.Text != "A\n" {
		t.Fatalf("Merge(A,A,A) = %+v", r)
	}
}

func TestMergeLocalOnlyChange(t *testing.T) {
	r := Merge("A\n", "L\n", "A\n", true)
	if !r.Clean() || r.Text != "L\n" {
		t.Fatalf("Merge(A,L,A) = %+v", r)
	}
}

func TestMergeRemoteOnlyChange(t *testing.T) {
	r := Merge("A\n", "A\n", "R\n", true)
	if !r.Clean() || r.Text != "R\n" {
		t.Fatalf("Merge(A,A,R) = %+v", r)
	}
}

func TestMergeIdenticalLocalAndRemoteEdit(t *testing.T) {
	r := Merge("A\n", "L\n", "L\n", true)
	if !r.Clean() || r.Text != "L\n" {
		t.Fatalf("Merge(A,L,L) = %+v", r)
	}
}

func TestMergeMissingAncestorConflictsWholeFile(t *testing.T) {
	r := Merge("", "Hi local\n", "Hi remote\n", false)
	if r.Clean() || r.Conflicts != 1 {
		t.Fatalf("expected one conflict region, got %+v", r)
	}
	want := "<<<<<<< LOCAL\nHi local\n=======\nHi remote\n>>>>>>> REMOTE\n"
	if r.Text != want {
		t.Fatalf("Text = %q, want %q", r.Text, want)
	}
}

func TestMergeScenario4ConcurrentConflictingEdit(t *testing.T) {
	r := Merge("Hi\n", "Hi local\n", "Hi remote\n", true)
	if r.Clean() || r.Conflicts != 1 {
		t.Fatalf("expected one conflict region, got %+v", r)
	}
	want := "<<<<<<< LOCAL\nHi local\n=======\nHi remote\n>>>>>>> REMOTE\n"
	if r.Text != want {
		t.Fatalf("Text = %q, want %q", r.Text, want)
	}
}

func TestMergeDisjointInsertsAreClean(t *testing.T) {
	ancestor := "one\ntwo\nthree\n"
	local := "one\nlocal-insert\ntwo\nthree\n"
	remote := "one\ntwo\nthree\nremote-insert\n"
	r := Merge(ancestor, local, remote, true)
	if !r.Clean() {
		t.Fatalf("expected clean merge of disjoint inserts, got %+v", r)
	}
	want := "one\nlocal-insert\ntwo\nthree\nremote-insert\n"
	if r.Text != want {
		t.Fatalf("Text = %q, want %q", r.Text, want)
	}
}

func TestMergeOverlappingEditsConflict(t *testing.T) {
	ancestor := "one\ntwo\nthree\n"
	local := "one\nTWO-LOCAL\nthree\n"
	remote := "one\nTWO-REMOTE\nthree\n"
	r := Merge(ancestor, local, remote, true)
	if r.Clean() || r.Conflicts != 1 {
		t.Fatalf("expected a conflict region, got %+v", r)
	}
}

func TestMergeDeterministic(t *testing.T) {
	ancestor := "a\nb\nc\nd\n"
	local := "a\nx\nc\nd\n"
	remote := "a\nb\nc\ny\n"
	r1 := Merge(ancestor, local, remote, true)
	r2 := Merge(ancestor, local, remote, true)
	if r1 != r2 {
		t.Fatalf("non-deterministic merge result: %+v != %+v", r1, r2)
	}
	if !r1.Clean() {
		t.Fatalf("expected clean merge, got %+v", r1)
	}
}
