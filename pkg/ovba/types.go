package ovba

import (
	"fmt"

	"golang.org/x/text/encoding"
)

// SysKind is the platform a VBA project was created for.
type SysKind uint32

const (
	SysKindWin16 SysKind = 0x00
	SysKindWin32 SysKind = 0x01
	SysKindMac   SysKind = 0x02
	SysKindWin64 SysKind = 0x03
)

func (k SysKind) String() string {
	switch k {
	case SysKindWin16:
		return "16-bit Windows"
	case SysKindWin32:
		return "32-bit Windows"
	case SysKindMac:
		return "Macintosh"
	case SysKindWin64:
		return "64-bit Windows"
	}
	return "Unknown"
}

func (k SysKind) known() bool {
	return k <= SysKindWin64
}

// Diagnostic records a non-fatal deviation from the format specification:
// a relaxed-mode constant mismatch or an advisory size bound violation.
type Diagnostic struct {
	Field    string
	Expected uint32
	Observed uint32
	Offset   int
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s at offset %d: %s (expected 0x%04X, got 0x%04X)",
		d.Field, d.Offset, d.Message, d.Expected, d.Observed)
}

// ProjectInfo is the version-independent project information decoded from
// the front of the dir stream. Immutable once the parse returns.
type ProjectInfo struct {
	SysKind    SysKind
	LCID       uint32
	LCIDInvoke uint32
	CodePage   uint16

	// Codec is the text encoding resolved from CodePage. Falls back to
	// windows-1252 (with a diagnostic) when the code page is unknown.
	Codec encoding.Encoding

	Name             string
	DocString        string
	DocStringUnicode string
	HelpFile         string
	HelpContext      uint32
	LibFlags         uint32
	VersionMajor     uint32
	VersionMinor     uint16
	Constants        string
	ConstantsUnicode string

	// Diagnostics accumulated during the parse, in stream order. Empty for
	// a fully conformant stream.
	Diagnostics []Diagnostic
}

// ReferenceKind names the record type that produced a reference entry.
// Values are the record tags themselves.
type ReferenceKind uint16

const (
	RefRegistered ReferenceKind = tagRefRegistered
	RefProject    ReferenceKind = tagRefProject
	RefName       ReferenceKind = tagRefName
	RefControl    ReferenceKind = tagRefControl
	RefOriginal   ReferenceKind = tagRefOriginal
)

func (k ReferenceKind) String() string {
	switch k {
	case RefRegistered:
		return "REGISTERED"
	case RefProject:
		return "PROJECT"
	case RefName:
		return "NAME"
	case RefControl:
		return "CONTROL"
	case RefOriginal:
		return "ORIGINAL"
	}
	return fmt.Sprintf("0x%04X", uint16(k))
}

// Reference is one entry of the dir stream's reference array. Entries keep
// their declaration order; the order carries no meaning to the parser.
type Reference interface {
	Kind() ReferenceKind
}

// NameReference holds the display name of a referenced project or type
// library. The unicode variant is optional on the wire; some producers
// omit it entirely.
type NameReference struct {
	Name        string
	NameUnicode string
	HasUnicode  bool
}

func (*NameReference) Kind() ReferenceKind { return RefName }

// OriginalReference identifies the type library a twiddled reference was
// generated from. Well-formed streams follow it with a CONTROL record,
// but that pairing is not enforced here.
type OriginalReference struct {
	LibIDOriginal string
}

func (*OriginalReference) Kind() ReferenceKind { return RefOriginal }

// ControlReference is a reference to a twiddled type library and its
// extended type library.
type ControlReference struct {
	LibIDTwiddled   string
	Name            *NameReference // optional embedded name record
	LibIDExtended   string
	OriginalTypeLib [16]byte
	Cookie          uint32
}

func (*ControlReference) Kind() ReferenceKind { return RefControl }

// RegisteredReference is a reference to a registered Automation type
// library.
type RegisteredReference struct {
	LibID string
}

func (*RegisteredReference) Kind() ReferenceKind { return RefRegistered }

// ProjectReference is a reference to another VBA project.
type ProjectReference struct {
	LibIDAbsolute string
	LibIDRelative string
	VersionMajor  uint32
	VersionMinor  uint16
}

func (*ProjectReference) Kind() ReferenceKind { return RefProject }
