package chessmg

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// Serialized magic-table bundle. The in-memory tables are always built at
// init; loading a bundle replaces them afterwards and does not skip that
// enumeration. The payload is zstd-compressed: a header and version, the 64
// per-square records for rooks then bishops, then the two flat attack
// tables.

const (
	bundleHeader  = "CMGMAGIC"
	bundleVersion = uint32(1)
)

type bundleRecord struct {
	Mask   uint64
	Magic  uint64
	Shift  uint32
	Offset uint32
}

// WriteMagicBundle serializes the current magic tables.
func WriteMagicBundle(w io.Writer) error {
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("magic bundle: %w", err)
	}
	if _, err := enc.Write([]byte(bundleHeader)); err != nil {
		enc.Close()
		return fmt.Errorf("magic bundle: %w", err)
	}
	if err := binary.Write(enc, binary.LittleEndian, bundleVersion); err != nil {
		enc.Close()
		return fmt.Errorf("magic bundle: %w", err)
	}
	for sq := 0; sq < 64; sq++ {
		m := rookMagics[sq]
		if err := binary.Write(enc, binary.LittleEndian, bundleRecord{m.mask, m.magic, uint32(m.shift), m.offset}); err != nil {
			enc.Close()
			return fmt.Errorf("magic bundle: %w", err)
		}
	}
	for sq := 0; sq < 64; sq++ {
		m := bishopMagics[sq]
		if err := binary.Write(enc, binary.LittleEndian, bundleRecord{m.mask, m.magic, uint32(m.shift), m.offset}); err != nil {
			enc.Close()
			return fmt.Errorf("magic bundle: %w", err)
		}
	}
	if err := binary.Write(enc, binary.LittleEndian, rookTable[:]); err != nil {
		enc.Close()
		return fmt.Errorf("magic bundle: %w", err)
	}
	if err := binary.Write(enc, binary.LittleEndian, bishopTable[:]); err != nil {
		enc.Close()
		return fmt.Errorf("magic bundle: %w", err)
	}
	return enc.Close()
}

// LoadMagicBundle replaces the in-memory magic tables with a previously
// written bundle. It must run before the tables are shared with concurrent
// readers, i.e. during host startup.
func LoadMagicBundle(r io.Reader) error {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return fmt.Errorf("magic bundle: %w", err)
	}
	defer dec.Close()

	header := make([]byte, len(bundleHeader))
	if _, err := io.ReadFull(dec, header); err != nil {
		return fmt.Errorf("magic bundle: %w", err)
	}
	if string(header) != bundleHeader {
		return fmt.Errorf("magic bundle: bad header %q", header)
	}
	var version uint32
	if err := binary.Read(dec, binary.LittleEndian, &version); err != nil {
		return fmt.Errorf("magic bundle: %w", err)
	}
	if version != bundleVersion {
		return fmt.Errorf("magic bundle: unsupported version %d", version)
	}

	var rooks, bishops [64]magicEntry
	for sq := 0; sq < 64; sq++ {
		var rec bundleRecord
		if err := binary.Read(dec, binary.LittleEndian, &rec); err != nil {
			return fmt.Errorf("magic bundle: %w", err)
		}
		if int(rec.Shift) != 64-PopCount(rec.Mask) {
			return fmt.Errorf("magic bundle: rook record %d shift/mask mismatch", sq)
		}
		rooks[sq] = magicEntry{rec.Mask, rec.Magic, uint8(rec.Shift), rec.Offset}
	}
	for sq := 0; sq < 64; sq++ {
		var rec bundleRecord
		if err := binary.Read(dec, binary.LittleEndian, &rec); err != nil {
			return fmt.Errorf("magic bundle: %w", err)
		}
		if int(rec.Shift) != 64-PopCount(rec.Mask) {
			return fmt.Errorf("magic bundle: bishop record %d shift/mask mismatch", sq)
		}
		bishops[sq] = magicEntry{rec.Mask, rec.Magic, uint8(rec.Shift), rec.Offset}
	}

	var rt [rookTableSize]uint64
	var bt [bishopTableSize]uint64
	if err := binary.Read(dec, binary.LittleEndian, rt[:]); err != nil {
		return fmt.Errorf("magic bundle: %w", err)
	}
	if err := binary.Read(dec, binary.LittleEndian, bt[:]); err != nil {
		return fmt.Errorf("magic bundle: %w", err)
	}

	rookMagics = rooks
	bishopMagics = bishops
	rookTable = rt
	bishopTable = bt
	return nil
}
