package emulator

import "encoding/binary"

// Cursors and split boundaries both encode an offset into a scope's
// key-ordered (or, for an ordered query, order-ordered) result list.
// This keeps pagination and splitting consistent with each other
// without the emulator needing a real key-range index.

func encodeOffset(n int) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(n))
	return b
}

func decodeOffset(cursor []byte, fallback int) int {
	if len(cursor) != 8 {
		return fallback
	}
	return int(binary.BigEndian.Uint64(cursor))
}
