package ovba

import (
	"fmt"

	"golang.org/x/text/encoding"
)

// ModuleType distinguishes procedural modules from document, class and
// designer modules.
type ModuleType uint16

const (
	ModuleTypeUnknown    ModuleType = 0
	ModuleTypeProcedural ModuleType = tagModuleTypeProcedural
	ModuleTypeDocument   ModuleType = tagModuleTypeDocument
)

func (t ModuleType) String() string {
	switch t {
	case ModuleTypeProcedural:
		return "procedural"
	case ModuleTypeDocument:
		return "document/class/designer"
	}
	return "unknown"
}

// Ext returns the conventional source extension for the module type. The
// PROJECT stream can refine a document-type module to a form (.frm); see
// ModuleExtensions.
func (t ModuleType) Ext() string {
	if t == ModuleTypeProcedural {
		return ".bas"
	}
	return ".cls"
}

// ModuleRecord describes one module declared in the dir stream. The source
// text itself lives in a separate stream named StreamName, compressed past
// TextOffset.
type ModuleRecord struct {
	Name              string
	NameUnicode       string
	StreamName        string
	StreamNameUnicode string
	DocString         string
	TextOffset        uint32
	HelpContext       uint32
	Cookie            uint16
	Type              ModuleType
	ReadOnly          bool
	Private           bool
}

// ParseModules continues the parse after the reference array terminator
// and decodes the PROJECTMODULES header plus each module record. The
// terminator tag was consumed by the reference loop; the cursor sits on
// the record's size field.
func (p *DirParser) ParseModules() ([]ModuleRecord, error) {
	if err := p.readFixedSize("PROJECTMODULES_Size", tagModules); err != nil {
		return nil, err
	}
	count, err := p.cur.ReadU16()
	if err != nil {
		return nil, err
	}
	if _, err := p.readCheckedU16("PROJECTCOOKIE_Id", tagProjectCookie); err != nil {
		return nil, err
	}
	if err := p.readFixedSize("PROJECTCOOKIE_Size", tagProjectCookie); err != nil {
		return nil, err
	}
	if _, err := p.cur.ReadU16(); err != nil { // cookie, ignored
		return nil, err
	}

	p.logger.Debug("module records", "count", count)
	mods := make([]ModuleRecord, 0, count)
	for i := 0; i < int(count); i++ {
		m, err := p.parseModule()
		if err != nil {
			return nil, fmt.Errorf("module %d: %w", i, err)
		}
		mods = append(mods, *m)
	}
	return mods, nil
}

// parseModule decodes one MODULE record group. Only MODULENAME is
// mandatory; every other sub-record is optional and identified by its own
// tag, so the tag is held between the checks.
func (p *DirParser) parseModule() (*ModuleRecord, error) {
	m := &ModuleRecord{}

	if _, err := p.readCheckedU16("MODULENAME_Id", tagModuleName); err != nil {
		return nil, err
	}
	raw, err := p.readSized()
	if err != nil {
		return nil, err
	}
	m.Name = p.decode(raw)

	tag, err := p.cur.ReadU16()
	if err != nil {
		return nil, err
	}

	if tag == tagModuleNameUnicode {
		rawU, err := p.readSized()
		if err != nil {
			return nil, err
		}
		m.NameUnicode = DecodeUTF16(rawU)
		if tag, err = p.cur.ReadU16(); err != nil {
			return nil, err
		}
	}

	if tag == tagModuleStreamName {
		raw, err := p.readSized()
		if err != nil {
			return nil, err
		}
		m.StreamName = p.decode(raw)
		if _, err := p.readCheckedU16("MODULESTREAMNAME_Reserved", markerModuleStreamNameReserved); err != nil {
			return nil, err
		}
		rawU, err := p.readSized()
		if err != nil {
			return nil, err
		}
		m.StreamNameUnicode = DecodeUTF16(rawU)
		if tag, err = p.cur.ReadU16(); err != nil {
			return nil, err
		}
	}

	if tag == tagModuleDocString {
		raw, err := p.readSized()
		if err != nil {
			return nil, err
		}
		m.DocString = p.decode(raw)
		if _, err := p.readCheckedU16("MODULEDOCSTRING_Reserved", markerModuleDocStringReserved); err != nil {
			return nil, err
		}
		if _, err := p.readSized(); err != nil { // unicode docstring, unused
			return nil, err
		}
		if tag, err = p.cur.ReadU16(); err != nil {
			return nil, err
		}
	}

	if tag == tagModuleOffset {
		if err := p.readFixedSize("MODULEOFFSET_Size", tagModuleOffset); err != nil {
			return nil, err
		}
		if m.TextOffset, err = p.cur.ReadU32(); err != nil {
			return nil, err
		}
		if tag, err = p.cur.ReadU16(); err != nil {
			return nil, err
		}
	}

	if tag == tagModuleHelpContext {
		if err := p.readFixedSize("MODULEHELPCONTEXT_Size", tagModuleHelpContext); err != nil {
			return nil, err
		}
		if m.HelpContext, err = p.cur.ReadU32(); err != nil {
			return nil, err
		}
		if tag, err = p.cur.ReadU16(); err != nil {
			return nil, err
		}
	}

	if tag == tagModuleCookie {
		if err := p.readFixedSize("MODULECOOKIE_Size", tagModuleCookie); err != nil {
			return nil, err
		}
		if m.Cookie, err = p.cur.ReadU16(); err != nil {
			return nil, err
		}
		if tag, err = p.cur.ReadU16(); err != nil {
			return nil, err
		}
	}

	if tag == tagModuleTypeProcedural || tag == tagModuleTypeDocument {
		m.Type = ModuleType(tag)
		if _, err := p.cur.ReadU32(); err != nil { // reserved
			return nil, err
		}
		if tag, err = p.cur.ReadU16(); err != nil {
			return nil, err
		}
	}

	if tag == tagModuleReadOnly {
		m.ReadOnly = true
		if _, err := p.cur.ReadU32(); err != nil { // reserved
			return nil, err
		}
		if tag, err = p.cur.ReadU16(); err != nil {
			return nil, err
		}
	}

	if tag == tagModulePrivate {
		m.Private = true
		if _, err := p.cur.ReadU32(); err != nil { // reserved
			return nil, err
		}
		if tag, err = p.cur.ReadU16(); err != nil {
			return nil, err
		}
	}

	if err := p.check("MODULE_Terminator", tagModuleTerminator, uint32(tag)); err != nil {
		return nil, err
	}
	if tag == tagModuleTerminator {
		if _, err := p.cur.ReadU32(); err != nil { // reserved
			return nil, err
		}
	}
	return m, nil
}

// SourceCode extracts the module's source text from its stream: the bytes
// up to TextOffset are the compiler's performance cache, the compressed
// source container follows. codec decodes the decompressed bytes; callers
// commonly pass a configured encoding instead of the project codec.
func (m *ModuleRecord) SourceCode(stream []byte, codec encoding.Encoding) (string, error) {
	if int64(m.TextOffset) > int64(len(stream)) {
		return "", fmt.Errorf("%w: text offset %d beyond stream size %d",
			ErrTruncatedStream, m.TextOffset, len(stream))
	}
	raw, err := DecompressStream(stream[m.TextOffset:])
	if err != nil {
		return "", err
	}
	return Decode(raw, codec), nil
}
