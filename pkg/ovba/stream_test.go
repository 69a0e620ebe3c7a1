package ovba

import (
	"encoding/binary"
	"unicode/utf16"
)

// streamBuilder assembles synthetic dir streams for tests.
type streamBuilder struct {
	b []byte
}

func (s *streamBuilder) u16(v uint16) *streamBuilder {
	s.b = binary.LittleEndian.AppendUint16(s.b, v)
	return s
}

func (s *streamBuilder) u32(v uint32) *streamBuilder {
	s.b = binary.LittleEndian.AppendUint32(s.b, v)
	return s
}

func (s *streamBuilder) raw(p []byte) *streamBuilder {
	s.b = append(s.b, p...)
	return s
}

func (s *streamBuilder) str(v string) *streamBuilder {
	return s.raw([]byte(v))
}

// record writes a tag, a 4-byte declared size and the payload.
func (s *streamBuilder) record(tag uint16, payload []byte) *streamBuilder {
	return s.u16(tag).u32(uint32(len(payload))).raw(payload)
}

func (s *streamBuilder) bytes() []byte {
	return s.b
}

// utf16le encodes a string as UTF-16LE bytes.
func utf16le(v string) []byte {
	var out []byte
	for _, u := range utf16.Encode([]rune(v)) {
		out = binary.LittleEndian.AppendUint16(out, u)
	}
	return out
}

// minimalHeader builds a conformant project information sequence:
// 32-bit Windows, en-US locale, windows-1252, a one-byte project name and
// empty docstring, help file, constants.
func minimalHeader() *streamBuilder {
	s := &streamBuilder{}
	s.u16(tagSysKind).u32(4).u32(uint32(SysKindWin32))
	s.u16(tagLCID).u32(4).u32(expectedLCID)
	s.u16(tagLCIDInvoke).u32(4).u32(expectedLCID)
	s.u16(tagCodePage).u32(2).u16(1252)
	s.record(tagName, []byte("P"))
	s.record(tagDocString, nil).u16(markerDocStringReserved).u32(0)
	s.record(tagHelpFilePath, nil).u16(markerHelpFileReserved).u32(0)
	s.u16(tagHelpContext).u32(4).u32(0)
	s.u16(tagLibFlags).u32(4).u32(0)
	s.u16(tagVersion).u32(4).u32(1).u16(0)
	s.record(tagConstants, nil).u16(markerConstantsReserved).u32(0)
	return s
}

// terminated closes the stream with the reference array terminator.
func terminated(s *streamBuilder) []byte {
	return s.u16(tagModules).bytes()
}
