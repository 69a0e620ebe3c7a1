package ovba

import (
	"bytes"
	"fmt"

	"golang.org/x/text/encoding/charmap"
)

// ParseDirStream decodes one decompressed dir stream: the project
// information records followed by the reference array. In strict mode any
// constant-field mismatch aborts; in relaxed mode mismatches accumulate on
// ProjectInfo.Diagnostics and parsing continues.
func ParseDirStream(data []byte, strict bool) (*ProjectInfo, []Reference, error) {
	return NewDirParser(data, strict).Parse()
}

// Parse decodes the project information and the reference array. Call
// ParseModules afterwards to continue with the module records.
func (p *DirParser) Parse() (*ProjectInfo, []Reference, error) {
	info, err := p.parseProjectInfo()
	if err != nil {
		return nil, nil, err
	}
	refs, err := p.parseReferences()
	if err != nil {
		return nil, nil, err
	}
	info.Diagnostics = p.diags
	return info, refs, nil
}

// parseProjectInfo runs the fixed sequence of header records:
// syskind, lcid, lcidinvoke, codepage, name, docstring, helpfile,
// helpcontext, libflags, version, constants.
func (p *DirParser) parseProjectInfo() (*ProjectInfo, error) {
	info := &ProjectInfo{}

	// PROJECTSYSKIND
	if _, err := p.readCheckedU16("PROJECTSYSKIND_Id", tagSysKind); err != nil {
		return nil, err
	}
	if err := p.readFixedSize("PROJECTSYSKIND_Size", tagSysKind); err != nil {
		return nil, err
	}
	kind, err := p.cur.ReadU32()
	if err != nil {
		return nil, err
	}
	info.SysKind = SysKind(kind)
	if !info.SysKind.known() {
		p.note("PROJECTSYSKIND_SysKind", kind, fmt.Sprintf("unknown platform 0x%04X", kind))
	}
	p.logger.Debug("project platform", "syskind", info.SysKind.String())

	// An undocumented tagged field can sit between SYSKIND and LCID. When
	// present its payload is discarded and the next tag is read fresh; the
	// tag held here is then the LCID record id.
	tag, err := p.cur.ReadU16()
	if err != nil {
		return nil, err
	}
	if tag == tagCompatVersion {
		skip, err := p.cur.ReadU32()
		if err != nil {
			return nil, err
		}
		if _, err := p.cur.ReadBytes(int(skip)); err != nil {
			return nil, err
		}
		if tag, err = p.cur.ReadU16(); err != nil {
			return nil, err
		}
	}

	// PROJECTLCID (tag consumed above)
	if err := p.check("PROJECTLCID_Id", tagLCID, uint32(tag)); err != nil {
		return nil, err
	}
	if err := p.readFixedSize("PROJECTLCID_Size", tagLCID); err != nil {
		return nil, err
	}
	if info.LCID, err = p.readCheckedU32("PROJECTLCID_Lcid", expectedLCID); err != nil {
		return nil, err
	}

	// PROJECTLCIDINVOKE
	if _, err := p.readCheckedU16("PROJECTLCIDINVOKE_Id", tagLCIDInvoke); err != nil {
		return nil, err
	}
	if err := p.readFixedSize("PROJECTLCIDINVOKE_Size", tagLCIDInvoke); err != nil {
		return nil, err
	}
	if info.LCIDInvoke, err = p.readCheckedU32("PROJECTLCIDINVOKE_LcidInvoke", expectedLCID); err != nil {
		return nil, err
	}

	// PROJECTCODEPAGE
	if _, err := p.readCheckedU16("PROJECTCODEPAGE_Id", tagCodePage); err != nil {
		return nil, err
	}
	if err := p.readFixedSize("PROJECTCODEPAGE_Size", tagCodePage); err != nil {
		return nil, err
	}
	cp, err := p.cur.ReadU16()
	if err != nil {
		return nil, err
	}
	info.CodePage = cp
	codec, err := ResolveCodePage(cp)
	if err != nil {
		p.note("PROJECTCODEPAGE_CodePage", uint32(cp), err.Error())
		codec = charmap.Windows1252
	}
	p.codec = codec
	info.Codec = codec
	p.logger.Debug("project code page", "codepage", cp)

	// PROJECTNAME
	if _, err := p.readCheckedU16("PROJECTNAME_Id", tagName); err != nil {
		return nil, err
	}
	nameLen, err := p.cur.ReadU32()
	if err != nil {
		return nil, err
	}
	if nameLen < 1 || nameLen > maxProjectNameLen {
		p.note("PROJECTNAME_SizeOfProjectName", nameLen,
			fmt.Sprintf("length %d outside [1,%d]", nameLen, maxProjectNameLen))
	}
	// The range check above is advisory only; the payload is consumed
	// either way so the cursor stays aligned.
	nameRaw, err := p.cur.ReadBytes(int(nameLen))
	if err != nil {
		return nil, err
	}
	info.Name = p.decode(nameRaw)

	// PROJECTDOCSTRING
	if _, err := p.readCheckedU16("PROJECTDOCSTRING_Id", tagDocString); err != nil {
		return nil, err
	}
	docLen, err := p.cur.ReadU32()
	if err != nil {
		return nil, err
	}
	if docLen > maxDocStringLen {
		p.note("PROJECTDOCSTRING_SizeOfDocString", docLen,
			fmt.Sprintf("length %d exceeds %d", docLen, maxDocStringLen))
	}
	docRaw, err := p.cur.ReadBytes(int(docLen))
	if err != nil {
		return nil, err
	}
	info.DocString = p.decode(docRaw)
	if _, err := p.readCheckedU16("PROJECTDOCSTRING_Reserved", markerDocStringReserved); err != nil {
		return nil, err
	}
	docULen, err := p.cur.ReadU32()
	if err != nil {
		return nil, err
	}
	if docULen%2 != 0 {
		p.note("PROJECTDOCSTRING_SizeOfDocStringUnicode", docULen, "length is not even")
	}
	docURaw, err := p.cur.ReadBytes(int(docULen))
	if err != nil {
		return nil, err
	}
	info.DocStringUnicode = DecodeUTF16(docURaw)

	// PROJECTHELPFILEPATH: the path appears twice and both copies must
	// match.
	if _, err := p.readCheckedU16("PROJECTHELPFILEPATH_Id", tagHelpFilePath); err != nil {
		return nil, err
	}
	helpLen1, err := p.cur.ReadU32()
	if err != nil {
		return nil, err
	}
	if helpLen1 > maxHelpFileLen {
		p.note("PROJECTHELPFILEPATH_SizeOfHelpFile1", helpLen1,
			fmt.Sprintf("length %d exceeds %d", helpLen1, maxHelpFileLen))
	}
	help1, err := p.cur.ReadBytes(int(helpLen1))
	if err != nil {
		return nil, err
	}
	if _, err := p.readCheckedU16("PROJECTHELPFILEPATH_Reserved", markerHelpFileReserved); err != nil {
		return nil, err
	}
	helpLen2, err := p.cur.ReadU32()
	if err != nil {
		return nil, err
	}
	if helpLen2 != helpLen1 {
		p.note("PROJECTHELPFILEPATH_SizeOfHelpFile2", helpLen2,
			fmt.Sprintf("second copy declares %d bytes, first %d", helpLen2, helpLen1))
	}
	help2, err := p.cur.ReadBytes(int(helpLen2))
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(help1, help2) {
		p.note("PROJECTHELPFILEPATH_HelpFile2", helpLen2, "copies do not match")
	}
	info.HelpFile = p.decode(help1)

	// PROJECTHELPCONTEXT
	if _, err := p.readCheckedU16("PROJECTHELPCONTEXT_Id", tagHelpContext); err != nil {
		return nil, err
	}
	if err := p.readFixedSize("PROJECTHELPCONTEXT_Size", tagHelpContext); err != nil {
		return nil, err
	}
	if info.HelpContext, err = p.cur.ReadU32(); err != nil {
		return nil, err
	}

	// PROJECTLIBFLAGS
	if _, err := p.readCheckedU16("PROJECTLIBFLAGS_Id", tagLibFlags); err != nil {
		return nil, err
	}
	if err := p.readFixedSize("PROJECTLIBFLAGS_Size", tagLibFlags); err != nil {
		return nil, err
	}
	if info.LibFlags, err = p.readCheckedU32("PROJECTLIBFLAGS_ProjectLibFlags", 0x0000); err != nil {
		return nil, err
	}

	// PROJECTVERSION
	if _, err := p.readCheckedU16("PROJECTVERSION_Id", tagVersion); err != nil {
		return nil, err
	}
	if err := p.readFixedSize("PROJECTVERSION_Reserved", tagVersion); err != nil {
		return nil, err
	}
	if info.VersionMajor, err = p.cur.ReadU32(); err != nil {
		return nil, err
	}
	if info.VersionMinor, err = p.cur.ReadU16(); err != nil {
		return nil, err
	}

	// PROJECTCONSTANTS
	if _, err := p.readCheckedU16("PROJECTCONSTANTS_Id", tagConstants); err != nil {
		return nil, err
	}
	constLen, err := p.cur.ReadU32()
	if err != nil {
		return nil, err
	}
	if constLen > maxConstantsLen {
		p.note("PROJECTCONSTANTS_SizeOfConstants", constLen,
			fmt.Sprintf("length %d exceeds %d", constLen, maxConstantsLen))
	}
	constRaw, err := p.cur.ReadBytes(int(constLen))
	if err != nil {
		return nil, err
	}
	info.Constants = p.decode(constRaw)
	if _, err := p.readCheckedU16("PROJECTCONSTANTS_Reserved", markerConstantsReserved); err != nil {
		return nil, err
	}
	constULen, err := p.cur.ReadU32()
	if err != nil {
		return nil, err
	}
	if constULen%2 != 0 {
		p.note("PROJECTCONSTANTS_SizeOfConstantsUnicode", constULen, "length is not even")
	}
	constURaw, err := p.cur.ReadBytes(int(constULen))
	if err != nil {
		return nil, err
	}
	info.ConstantsUnicode = DecodeUTF16(constURaw)

	return info, nil
}
