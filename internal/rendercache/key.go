package rendercache

import (
	"encoding/binary"
	"hash/crc64"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

var crcTable = crc64.MakeTable(crc64.ECMA)

// Key fingerprints a frame: an ECMA crc64 seeded with the volume key and
// updated with the raw bytes of the view then the projection matrix.
// Matrices that differ only in bit pattern, such as -0 and +0, give
// different keys.
func Key(volumeKey uint64, view, proj mgl32.Mat4) uint64 {
	var buf [2 * 16 * 4]byte
	for i, f := range view {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	for i, f := range proj {
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(f))
	}
	return crc64.Update(volumeKey, crcTable, buf[:])
}
