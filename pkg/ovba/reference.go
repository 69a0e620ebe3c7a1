package ovba

import "fmt"

// parseReferences runs the tag-dispatched loop over the reference array
// until the terminator tag. The loop holds a pending tag because a NAME
// record's trailing field can be the next record's tag rather than the
// unicode marker; that branch re-enters the dispatch without a fresh read.
func (p *DirParser) parseReferences() ([]Reference, error) {
	refs := []Reference{}
	tag, err := p.cur.ReadU16()
	if err != nil {
		return nil, err
	}
	for {
		p.logger.Debug("reference record", "tag", fmt.Sprintf("0x%04X", tag))
		switch tag {
		case tagModules:
			// End of the array. The tag is also the PROJECTMODULES record
			// id; ParseModules picks up from its size field.
			return refs, nil

		case tagRefName:
			ref, next, aliased, err := p.parseNameRecord()
			if err != nil {
				return nil, err
			}
			refs = append(refs, ref)
			if aliased {
				tag = next
				continue
			}

		case tagRefOriginal:
			raw, err := p.readSized()
			if err != nil {
				return nil, err
			}
			refs = append(refs, &OriginalReference{LibIDOriginal: p.decode(raw)})

		case tagRefControl:
			ref, err := p.parseControlRecord()
			if err != nil {
				return nil, err
			}
			refs = append(refs, ref)

		case tagRefRegistered:
			ref, err := p.parseRegisteredRecord()
			if err != nil {
				return nil, err
			}
			refs = append(refs, ref)

		case tagRefProject:
			ref, err := p.parseProjectRecord()
			if err != nil {
				return nil, err
			}
			refs = append(refs, ref)

		default:
			return nil, &UnknownTagError{Tag: tag, Offset: p.cur.Pos() - 2}
		}
		if tag, err = p.cur.ReadU16(); err != nil {
			return nil, err
		}
	}
}

// parseNameRecord decodes a REFERENCENAME body (the tag is already
// consumed). The trailing 2-byte field is either the unicode marker, in
// which case the unicode name follows, or the next record's tag. In the
// latter case aliased is true and next carries the value for the caller to
// re-dispatch on.
func (p *DirParser) parseNameRecord() (ref *NameReference, next uint16, aliased bool, err error) {
	raw, err := p.readSized()
	if err != nil {
		return nil, 0, false, err
	}
	ref = &NameReference{Name: p.decode(raw)}
	trailing, err := p.cur.ReadU16()
	if err != nil {
		return nil, 0, false, err
	}
	if trailing != markerUnicodeName {
		// Some producers omit the unicode name entirely; the value just
		// read then belongs to the next record.
		return ref, trailing, true, nil
	}
	rawU, err := p.readSized()
	if err != nil {
		return nil, 0, false, err
	}
	ref.NameUnicode = DecodeUTF16(rawU)
	ref.HasUnicode = true
	return ref, 0, false, nil
}

// parseControlRecord decodes a REFERENCECONTROL body: twiddled lib id,
// optional embedded name record, extended lib id, original type library
// guid and cookie.
func (p *DirParser) parseControlRecord() (*ControlReference, error) {
	if _, err := p.cur.ReadU32(); err != nil { // SizeTwiddled, ignored
		return nil, err
	}
	rawTw, err := p.readSized()
	if err != nil {
		return nil, err
	}
	ref := &ControlReference{LibIDTwiddled: p.decode(rawTw)}
	if _, err := p.readCheckedU32("REFERENCECONTROL_Reserved1", 0x0000); err != nil {
		return nil, err
	}
	if _, err := p.readCheckedU16("REFERENCECONTROL_Reserved2", 0x0000); err != nil {
		return nil, err
	}

	// Optional embedded name record. The 2-byte field here is either the
	// NAME tag or already the reserved3 value.
	probe, err := p.cur.ReadU16()
	if err != nil {
		return nil, err
	}
	var reserved3 uint16
	if probe == tagRefName {
		name, next, aliased, err := p.parseNameRecord()
		if err != nil {
			return nil, err
		}
		ref.Name = name
		if aliased {
			reserved3 = next
		} else if reserved3, err = p.cur.ReadU16(); err != nil {
			return nil, err
		}
	} else {
		reserved3 = probe
	}
	if err := p.check("REFERENCECONTROL_Reserved3", refControlReserved3, uint32(reserved3)); err != nil {
		return nil, err
	}

	if _, err := p.cur.ReadU32(); err != nil { // SizeExtended, ignored
		return nil, err
	}
	rawExt, err := p.readSized()
	if err != nil {
		return nil, err
	}
	ref.LibIDExtended = p.decode(rawExt)
	if _, err := p.cur.ReadU32(); err != nil { // Reserved4, ignored
		return nil, err
	}
	if _, err := p.cur.ReadU16(); err != nil { // Reserved5, ignored
		return nil, err
	}
	guid, err := p.cur.ReadBytes(16)
	if err != nil {
		return nil, err
	}
	copy(ref.OriginalTypeLib[:], guid)
	if ref.Cookie, err = p.cur.ReadU32(); err != nil {
		return nil, err
	}
	return ref, nil
}

// parseRegisteredRecord decodes a REFERENCEREGISTERED body.
func (p *DirParser) parseRegisteredRecord() (*RegisteredReference, error) {
	if _, err := p.cur.ReadU32(); err != nil { // Size of the whole record, ignored
		return nil, err
	}
	raw, err := p.readSized()
	if err != nil {
		return nil, err
	}
	ref := &RegisteredReference{LibID: p.decode(raw)}
	if _, err := p.readCheckedU32("REFERENCEREGISTERED_Reserved1", 0x0000); err != nil {
		return nil, err
	}
	if _, err := p.readCheckedU16("REFERENCEREGISTERED_Reserved2", 0x0000); err != nil {
		return nil, err
	}
	return ref, nil
}

// parseProjectRecord decodes a REFERENCEPROJECT body.
func (p *DirParser) parseProjectRecord() (*ProjectReference, error) {
	if _, err := p.cur.ReadU32(); err != nil { // Size of the whole record, ignored
		return nil, err
	}
	abs, err := p.readSized()
	if err != nil {
		return nil, err
	}
	rel, err := p.readSized()
	if err != nil {
		return nil, err
	}
	ref := &ProjectReference{
		LibIDAbsolute: p.decode(abs),
		LibIDRelative: p.decode(rel),
	}
	if ref.VersionMajor, err = p.cur.ReadU32(); err != nil {
		return nil, err
	}
	if ref.VersionMinor, err = p.cur.ReadU16(); err != nil {
		return nil, err
	}
	return ref, nil
}
