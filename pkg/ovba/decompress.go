package ovba

import (
	"encoding/binary"
	"fmt"
)

// Chunk layout of the compressed container, per [MS-OVBA] 2.4.1: a 0x01
// signature byte, then chunks of up to 4096 decompressed bytes each. A
// chunk header packs the chunk size in its low 12 bits (stored minus 3),
// a 3-bit signature 0b011, and a compressed flag in the high bit.
const (
	containerSignature = 0x01
	chunkSignature     = 0x3
	chunkWindow        = 4096
)

// DecompressStream expands an MS-OVBA compressed container, as found in
// the dir stream and in module streams past their text offset.
func DecompressStream(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty container", ErrBadCompression)
	}
	if data[0] != containerSignature {
		return nil, fmt.Errorf("%w: bad signature byte 0x%02X", ErrBadCompression, data[0])
	}

	var out []byte
	pos := 1
	for pos < len(data) {
		if pos+2 > len(data) {
			return nil, fmt.Errorf("%w: chunk header truncated at offset %d", ErrTruncatedStream, pos)
		}
		header := binary.LittleEndian.Uint16(data[pos:])
		chunkSize := int(header&0x0FFF) + 3 // includes the 2 header bytes
		if sig := (header >> 12) & 0x7; sig != chunkSignature {
			return nil, fmt.Errorf("%w: bad chunk signature 0b%03b at offset %d", ErrBadCompression, sig, pos)
		}
		end := pos + chunkSize
		if end > len(data) {
			end = len(data)
		}
		pos += 2

		if header&0x8000 == 0 {
			// Raw chunk: literal bytes, a short final chunk is allowed.
			n := chunkWindow
			if pos+n > len(data) {
				n = len(data) - pos
			}
			out = append(out, data[pos:pos+n]...)
			pos += n
			continue
		}

		// Compressed chunk: groups of 8 tokens led by a flag byte. A set
		// flag bit marks a 2-byte copy token, a clear bit a literal.
		chunkStart := len(out)
		for pos < end {
			flags := data[pos]
			pos++
			for bit := 0; bit < 8 && pos < end; bit++ {
				if flags&(1<<bit) == 0 {
					out = append(out, data[pos])
					pos++
					continue
				}
				if pos+2 > end {
					return nil, fmt.Errorf("%w: copy token truncated at offset %d", ErrTruncatedStream, pos)
				}
				token := binary.LittleEndian.Uint16(data[pos:])
				pos += 2
				length, offset := splitCopyToken(token, len(out)-chunkStart)
				src := len(out) - offset
				if src < chunkStart {
					return nil, fmt.Errorf("%w: copy offset %d reaches before chunk start at offset %d",
						ErrBadCompression, offset, pos-2)
				}
				// Byte-at-a-time copy: the source range may overlap the
				// bytes being produced.
				for i := 0; i < length; i++ {
					out = append(out, out[src+i])
				}
			}
		}
	}
	return out, nil
}

// splitCopyToken derives the offset/length split of a copy token. The
// number of offset bits grows with the bytes already produced in the
// current chunk, from a minimum of 4 up to 12.
func splitCopyToken(token uint16, produced int) (length, offset int) {
	bits := 4
	for 1<<bits < produced && bits < 12 {
		bits++
	}
	lengthMask := uint16(0xFFFF) >> bits
	length = int(token&lengthMask) + 3
	offset = int(token>>(16-bits)) + 1
	return length, offset
}
