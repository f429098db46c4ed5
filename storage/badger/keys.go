package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/herbalist/core"
)

const (
	plantRecordPrefix = "plant:"
	plantIDPrefix     = "plantid:"
	plantSeq          = "plantseq"
)

// makePlantKey generates the key of the record at catalog position seq.
// Format: prefix + 8-byte big-endian seq, so prefix iteration yields
// catalog order.
func makePlantKey(seq uint64) []byte {
	buf := make([]byte, len(plantRecordPrefix)+8)
	offset := copy(buf, plantRecordPrefix)
	binary.BigEndian.PutUint64(buf[offset:], seq)
	return buf
}

// makePlantIDKey generates the index key mapping a plant ID to its seq.
func makePlantIDKey(id core.ID) []byte {
	return []byte(plantIDPrefix + string(id))
}

func encodeSeq(seq uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, seq)
	return buf
}

func decodeSeq(val []byte) (uint64, error) {
	if len(val) != 8 {
		return 0, fmt.Errorf("bad sequence value of %d bytes", len(val))
	}
	return binary.BigEndian.Uint64(val), nil
}
