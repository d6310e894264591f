package merge

import "testing"

func TestHasConflictMarkers(t *testing.T) {
	if HasConflictMarkers("plain text\n") {
		t.Fatal("plain text reported as containing conflict markers")
	}
	if !HasConflictMarkers("<<<<<<< LOCAL\nA\n=======\nB\n>>>>>>> REMOTE\n") {
		t.Fatal("expected conflict markers to be detected")
	}
}

func TestResolveAcceptLocal(t *testing.T) {
	text := "<<<<<<< LOCAL\nHi local\n=======\nHi remote\n>>>>>>> REMOTE\n"
	got, err := Resolve(text, AcceptLocal)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got != "Hi local\n" {
		t.Fatalf("got = %q, want %q", got, "Hi local\n")
	}
}

func TestResolveAcceptRemote(t *testing.T) {
	text := "<<<<<<< LOCAL\nHi local\n=======\nHi remote\n>>>>>>> REMOTE\n"
	got, err := Resolve(text, AcceptRemote)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got != "Hi remote\n" {
		t.Fatalf("got = %q, want %q", got, "Hi remote\n")
	}
}

func TestResolveWithSurroundingContext(t *testing.T) {
	text := "Intro.\n\n<<<<<<< LOCAL\nHi local\n=======\nHi remote\n>>>>>>> REMOTE\n\nOutro.\n"
	got, err := Resolve(text, AcceptLocal)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	want := "Intro.\n\nHi local\n\nOutro.\n"
	if got != want {
		t.Fatalf("got = %q, want %q", got, want)
	}
}

func TestResolveRefusesWithoutMarkers(t *testing.T) {
	if _, err := Resolve("plain text\n", AcceptLocal); err == nil {
		t.Fatal("expected error for text without conflict markers")
	}
}
