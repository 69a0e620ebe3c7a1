package ovba

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/text/encoding"
)

// DirParser decodes one decompressed dir stream. It runs a single
// sequential pass: project information records first, then the reference
// array, then (optionally) the module records. One parser owns one cursor
// and one buffer; different projects are independent parses.
type DirParser struct {
	cur    *Cursor
	strict bool
	logger hclog.Logger
	codec  encoding.Encoding
	diags  []Diagnostic
}

// NewDirParser creates a parser over a decompressed dir stream. In strict
// mode any constant-field mismatch aborts the parse; in relaxed mode
// mismatches are recorded as diagnostics and parsing continues.
func NewDirParser(data []byte, strict bool) *DirParser {
	return NewDirParserWithLogger(data, strict, hclog.NewNullLogger())
}

// NewDirParserWithLogger creates a parser with a custom logger.
func NewDirParserWithLogger(data []byte, strict bool, logger hclog.Logger) *DirParser {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &DirParser{
		cur:    NewCursor(data),
		strict: strict,
		logger: logger,
	}
}

// Diagnostics returns everything recorded so far, in stream order.
func (p *DirParser) Diagnostics() []Diagnostic {
	return p.diags
}

// check validates a "must equal constant" field. Equal: no effect.
// Strict mode: fatal UnexpectedValueError. Relaxed mode: a Diagnostic is
// recorded and parsing continues.
func (p *DirParser) check(field string, expected, observed uint32) error {
	if observed == expected {
		return nil
	}
	if p.strict {
		return &UnexpectedValueError{
			Field:    field,
			Expected: expected,
			Observed: observed,
			Offset:   p.cur.Pos(),
		}
	}
	p.logger.Debug("field mismatch",
		"field", field,
		"expected", fmt.Sprintf("0x%04X", expected),
		"observed", fmt.Sprintf("0x%04X", observed),
		"offset", p.cur.Pos(),
	)
	p.diags = append(p.diags, Diagnostic{
		Field:    field,
		Expected: expected,
		Observed: observed,
		Offset:   p.cur.Pos(),
		Message:  "unexpected value",
	})
	return nil
}

// note records an advisory diagnostic that is never fatal, such as a
// length outside the documented bound.
func (p *DirParser) note(field string, observed uint32, msg string) {
	p.logger.Debug("diagnostic", "field", field, "detail", msg, "offset", p.cur.Pos())
	p.diags = append(p.diags, Diagnostic{
		Field:    field,
		Observed: observed,
		Offset:   p.cur.Pos(),
		Message:  msg,
	})
}

// readCheckedU16 reads a 2-byte field and validates it against expected.
func (p *DirParser) readCheckedU16(field string, expected uint16) (uint16, error) {
	v, err := p.cur.ReadU16()
	if err != nil {
		return 0, err
	}
	return v, p.check(field, uint32(expected), uint32(v))
}

// readCheckedU32 reads a 4-byte field and validates it against expected.
func (p *DirParser) readCheckedU32(field string, expected uint32) (uint32, error) {
	v, err := p.cur.ReadU32()
	if err != nil {
		return 0, err
	}
	return v, p.check(field, expected, v)
}

// readFixedSize reads a record's declared size and validates it against
// the fixed width the grammar assigns to tag.
func (p *DirParser) readFixedSize(field string, tag uint16) error {
	_, err := p.readCheckedU32(field, fixedRecordSizes[tag])
	return err
}

// readSized reads a 4-byte declared size followed by that many payload
// bytes. Used for the variable-length fields, where the declared size
// drives the read length.
func (p *DirParser) readSized() ([]byte, error) {
	n, err := p.cur.ReadU32()
	if err != nil {
		return nil, err
	}
	return p.cur.ReadBytes(int(n))
}

// decode converts a narrow byte span to text with the project's codec.
func (p *DirParser) decode(raw []byte) string {
	return Decode(raw, p.codec)
}
