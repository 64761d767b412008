package vm

import (
	"bytes"
	"testing"
)

func TestBundleRoundTrip(t *testing.T) {
	chunk := compile(t, `"a" + "b"`+"\n1 + 2")
	bundle := NewBundle(chunk, "prog.hy")

	if bundle.BuildID == "" {
		t.Fatal("bundle has no build ID")
	}

	data, err := bundle.Serialize()
	if err != nil {
		t.Fatalf("serialize failed: %s", err)
	}

	got, err := DeserializeBundle(data)
	if err != nil {
		t.Fatalf("deserialize failed: %s", err)
	}

	if got.SourceFile != "prog.hy" {
		t.Errorf("wrong source file. want=%q, got=%q", "prog.hy", got.SourceFile)
	}
	if got.BuildID != bundle.BuildID {
		t.Errorf("wrong build ID. want=%q, got=%q", bundle.BuildID, got.BuildID)
	}
	if !bytes.Equal(got.Chunk.Code, chunk.Code) {
		t.Error("code does not round-trip")
	}
	if len(got.Chunk.Constants) != len(chunk.Constants) {
		t.Error("constants do not round-trip")
	}
	if len(got.Chunk.Strings) != len(chunk.Strings) {
		t.Error("string table does not round-trip")
	}
	if len(got.Chunk.Spans) != len(chunk.Spans) {
		t.Error("debug spans do not round-trip")
	}

	// The deserialized chunk executes identically.
	machine := New(got.Chunk)
	if err := machine.Run(); err != nil {
		t.Fatalf("runtime error: %s", err)
	}
	testIntegerValue(t, lastPopped(t, machine), 3)
}

func TestDeserializeRejectsGarbage(t *testing.T) {
	if _, err := DeserializeBundle([]byte{1, 2}); err == nil {
		t.Error("expected an error for a truncated bundle")
	}
	if _, err := DeserializeBundle([]byte("NOPE\x01garbage")); err == nil {
		t.Error("expected an error for a bad magic")
	}

	chunk := compile(t, "1")
	data, err := NewBundle(chunk, "x.hy").Serialize()
	if err != nil {
		t.Fatalf("serialize failed: %s", err)
	}
	data[4] = 0x7f
	if _, err := DeserializeBundle(data); err == nil {
		t.Error("expected an error for an unsupported version")
	}
}
