package ovba

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// moduleSection terminates the reference array and appends a
// PROJECTMODULES header for count modules.
func moduleSection(s *streamBuilder, count uint16) *streamBuilder {
	s.u16(tagModules).u32(2).u16(count)
	s.u16(tagProjectCookie).u32(2).u16(0xFFFF)
	return s
}

// fullModule appends one module record group with every optional
// sub-record present.
func fullModule(s *streamBuilder, name string, typ uint16, offset uint32) *streamBuilder {
	s.record(tagModuleName, []byte(name))
	s.record(tagModuleNameUnicode, utf16le(name))
	s.record(tagModuleStreamName, []byte(name))
	s.u16(markerModuleStreamNameReserved).u32(uint32(len(utf16le(name)))).raw(utf16le(name))
	s.record(tagModuleDocString, nil)
	s.u16(markerModuleDocStringReserved).u32(0)
	s.u16(tagModuleOffset).u32(4).u32(offset)
	s.u16(tagModuleHelpContext).u32(4).u32(0)
	s.u16(tagModuleCookie).u32(2).u16(0xFFFF)
	s.u16(typ).u32(0)
	s.u16(tagModuleTerminator).u32(0)
	return s
}

func TestParseModules_Single(t *testing.T) {
	t.Parallel()

	s := minimalHeader()
	moduleSection(s, 1)
	fullModule(s, "Module1", tagModuleTypeProcedural, 0x0400)

	p := NewDirParser(s.bytes(), true)
	_, _, err := p.Parse()
	require.NoError(t, err)

	mods, err := p.ParseModules()
	require.NoError(t, err)
	require.Len(t, mods, 1)

	m := mods[0]
	assert.Equal(t, "Module1", m.Name)
	assert.Equal(t, "Module1", m.NameUnicode)
	assert.Equal(t, "Module1", m.StreamName)
	assert.Equal(t, uint32(0x0400), m.TextOffset)
	assert.Equal(t, ModuleTypeProcedural, m.Type)
	assert.Equal(t, ".bas", m.Type.Ext())
	assert.False(t, m.ReadOnly)
	assert.False(t, m.Private)
}

func TestParseModules_Multiple(t *testing.T) {
	t.Parallel()

	s := minimalHeader()
	moduleSection(s, 3)
	fullModule(s, "ThisWorkbook", tagModuleTypeDocument, 0)
	fullModule(s, "Module1", tagModuleTypeProcedural, 100)
	fullModule(s, "Class1", tagModuleTypeDocument, 200)

	p := NewDirParser(s.bytes(), true)
	_, _, err := p.Parse()
	require.NoError(t, err)

	mods, err := p.ParseModules()
	require.NoError(t, err)
	require.Len(t, mods, 3)
	assert.Equal(t, "ThisWorkbook", mods[0].Name)
	assert.Equal(t, ModuleTypeDocument, mods[0].Type)
	assert.Equal(t, ".cls", mods[0].Type.Ext())
	assert.Equal(t, "Module1", mods[1].Name)
	assert.Equal(t, uint32(200), mods[2].TextOffset)
}

func TestParseModules_ReadOnlyAndPrivate(t *testing.T) {
	t.Parallel()

	s := minimalHeader()
	moduleSection(s, 1)
	s.record(tagModuleName, []byte("Hidden"))
	s.record(tagModuleStreamName, []byte("Hidden"))
	s.u16(markerModuleStreamNameReserved).u32(0)
	s.u16(tagModuleOffset).u32(4).u32(0)
	s.u16(tagModuleTypeProcedural).u32(0)
	s.u16(tagModuleReadOnly).u32(0)
	s.u16(tagModulePrivate).u32(0)
	s.u16(tagModuleTerminator).u32(0)

	p := NewDirParser(s.bytes(), true)
	_, _, err := p.Parse()
	require.NoError(t, err)

	mods, err := p.ParseModules()
	require.NoError(t, err)
	require.Len(t, mods, 1)
	assert.True(t, mods[0].ReadOnly)
	assert.True(t, mods[0].Private)
	assert.Empty(t, mods[0].NameUnicode)
}

func TestParseModules_TruncatedRecord(t *testing.T) {
	t.Parallel()

	s := minimalHeader()
	moduleSection(s, 1)
	s.u16(tagModuleName).u32(20).str("short")

	p := NewDirParser(s.bytes(), true)
	_, _, err := p.Parse()
	require.NoError(t, err)

	_, err = p.ParseModules()
	require.ErrorIs(t, err, ErrTruncatedStream)
}

func TestModuleRecord_SourceCode(t *testing.T) {
	t.Parallel()

	src := []byte("Sub Greet()\r\n    MsgBox \"hello\"\r\nEnd Sub\r\n")
	cache := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	stream := append(cache, compressLiteral(t, src)...)

	m := ModuleRecord{Name: "Module1", TextOffset: uint32(len(cache))}
	enc, err := ResolveCodePage(1252)
	require.NoError(t, err)

	code, err := m.SourceCode(stream, enc)
	require.NoError(t, err)
	assert.Equal(t, string(src), code)
}

func TestModuleRecord_SourceCodeOffsetBeyondStream(t *testing.T) {
	t.Parallel()

	m := ModuleRecord{TextOffset: 100}
	_, err := m.SourceCode([]byte("short"), nil)
	require.ErrorIs(t, err, ErrTruncatedStream)
}
