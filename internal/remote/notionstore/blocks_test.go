package notionstore

import "testing"

func TestStorageTextToBlocksRoundTrip(t *testing.T) {
	text := "First paragraph.\n\nSecond paragraph."
	blocks := storageTextToBlocks(text)
	if len(blocks) != 2 {
		t.Fatalf("len(blocks) = %d, want 2", len(blocks))
	}

	back := blocksToStorageText(blocks)
	if back != text {
		t.Fatalf("back = %q, want %q", back, text)
	}
}

func TestStorageTextToBlocksSkipsEmptyChunks(t *testing.T) {
	blocks := storageTextToBlocks("one\n\n\n\ntwo")
	if len(blocks) != 2 {
		t.Fatalf("len(blocks) = %d, want 2", len(blocks))
	}
}
