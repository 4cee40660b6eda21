package loot

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// SequenceSeed derives the seed for invocation counter of a named random sequence.
func SequenceSeed(worldSeed uint64, sequence string, counter uint64) uint64 {
	d := xxhash.New()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], worldSeed)
	_, _ = d.Write(buf[:])
	_, _ = d.WriteString(sequence)
	binary.LittleEndian.PutUint64(buf[:], counter)
	_, _ = d.Write(buf[:])
	return d.Sum64()
}
