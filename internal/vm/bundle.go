package vm

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/google/uuid"
)

// Bundle is the on-disk form of a compiled program: the chunk plus
// provenance for error messages and cache invalidation.
type Bundle struct {
	// Chunk is the compiled bytecode for the entry script
	Chunk *Chunk

	// SourceFile is the original source file path (for error messages)
	SourceFile string

	// BuildID uniquely identifies one compilation
	BuildID string
}

// bundleMagic is the file header magic: "HYDB"
var bundleMagic = [4]byte{'H', 'Y', 'D', 'B'}

const bundleVersion byte = 0x01

// NewBundle wraps a chunk with a fresh build ID.
func NewBundle(chunk *Chunk, sourceFile string) *Bundle {
	return &Bundle{
		Chunk:      chunk,
		SourceFile: sourceFile,
		BuildID:    uuid.NewString(),
	}
}

// Serialize converts a Bundle to binary format.
// Format:
// - Magic number (4 bytes): "HYDB"
// - Version (1 byte): 0x01
// - Gob-encoded Bundle data
func (b *Bundle) Serialize() ([]byte, error) {
	buf := new(bytes.Buffer)

	buf.Write(bundleMagic[:])
	buf.WriteByte(bundleVersion)

	enc := gob.NewEncoder(buf)
	if err := enc.Encode(b); err != nil {
		return nil, fmt.Errorf("bundle gob encoding failed: %w", err)
	}

	return buf.Bytes(), nil
}

// DeserializeBundle reads bundle data produced by Serialize.
func DeserializeBundle(data []byte) (*Bundle, error) {
	if len(data) < 5 {
		return nil, fmt.Errorf("bundle too short: %d bytes", len(data))
	}
	if !bytes.Equal(data[:4], bundleMagic[:]) {
		return nil, fmt.Errorf("not a hydor bundle: bad magic %q", data[:4])
	}
	if data[4] != bundleVersion {
		return nil, fmt.Errorf("unsupported bundle version %d", data[4])
	}

	var bundle Bundle
	dec := gob.NewDecoder(bytes.NewReader(data[5:]))
	if err := dec.Decode(&bundle); err != nil {
		return nil, fmt.Errorf("bundle gob decoding failed: %w", err)
	}
	if bundle.Chunk == nil {
		return nil, fmt.Errorf("bundle has no chunk")
	}

	return &bundle, nil
}
