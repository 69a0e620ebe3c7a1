package ovba

// Record ids for the version-independent project information and the
// reference array, per [MS-OVBA] 2.3.4.2.
const (
	tagSysKind       = 0x0001
	tagLCID          = 0x0002
	tagCodePage      = 0x0003
	tagName          = 0x0004
	tagDocString     = 0x0005
	tagHelpFilePath  = 0x0006
	tagHelpContext   = 0x0007
	tagLibFlags      = 0x0008
	tagVersion       = 0x0009
	tagConstants     = 0x000C
	tagLCIDInvoke    = 0x0014
	tagCompatVersion = 0x004A // undocumented, seen in the wild after SYSKIND

	// tagModules opens the PROJECTMODULES record and doubles as the
	// terminator of the reference array.
	tagModules       = 0x000F
	tagProjectCookie = 0x0013

	tagRefRegistered = 0x000D
	tagRefProject    = 0x000E
	tagRefName       = 0x0016
	tagRefControl    = 0x002F
	tagRefOriginal   = 0x0033

	// markerUnicodeName follows a reference name when a unicode variant is
	// present. Any other value there is the next record's tag.
	markerUnicodeName = 0x003E

	markerDocStringReserved = 0x0040
	markerHelpFileReserved  = 0x003D
	markerConstantsReserved = 0x003C

	refControlReserved3 = 0x0030
)

// Per-module record ids, per [MS-OVBA] 2.3.4.2.3.2.
const (
	tagModuleName           = 0x0019
	tagModuleNameUnicode    = 0x0047
	tagModuleStreamName     = 0x001A
	tagModuleDocString      = 0x001C
	tagModuleHelpContext    = 0x001E
	tagModuleTypeProcedural = 0x0021
	tagModuleTypeDocument   = 0x0022
	tagModuleReadOnly       = 0x0025
	tagModulePrivate        = 0x0028
	tagModuleTerminator     = 0x002B
	tagModuleCookie         = 0x002C
	tagModuleOffset         = 0x0031

	markerModuleStreamNameReserved = 0x0032
	markerModuleDocStringReserved  = 0x0048
)

// Advisory length bounds from the format specification. Violations are
// recorded as diagnostics, never as errors.
const (
	maxProjectNameLen = 128
	maxDocStringLen   = 2000
	maxHelpFileLen    = 260
	maxConstantsLen   = 1015
)

// expectedLCID is the locale id both PROJECTLCID and PROJECTLCIDINVOKE
// must carry (en-US, 0x0409).
const expectedLCID = 0x0409

// fixedRecordSizes maps the record tags whose declared size must equal a
// fixed width. For these the size field is validated rather than used to
// drive the read length.
var fixedRecordSizes = map[uint16]uint32{
	tagSysKind:           0x0004,
	tagLCID:              0x0004,
	tagLCIDInvoke:        0x0004,
	tagCodePage:          0x0002,
	tagHelpContext:       0x0004,
	tagLibFlags:          0x0004,
	tagVersion:           0x0004, // reserved word, kept in the table for uniformity
	tagModules:           0x0002,
	tagProjectCookie:     0x0002,
	tagModuleOffset:      0x0004,
	tagModuleHelpContext: 0x0004,
	tagModuleCookie:      0x0002,
}
