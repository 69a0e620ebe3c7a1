package ovba

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
)

// codePages maps Windows code page numbers to their text encodings.
var codePages = map[uint16]encoding.Encoding{
	437:   charmap.CodePage437,
	850:   charmap.CodePage850,
	852:   charmap.CodePage852,
	855:   charmap.CodePage855,
	858:   charmap.CodePage858,
	860:   charmap.CodePage860,
	862:   charmap.CodePage862,
	863:   charmap.CodePage863,
	865:   charmap.CodePage865,
	866:   charmap.CodePage866,
	874:   charmap.Windows874,
	932:   japanese.ShiftJIS,
	936:   simplifiedchinese.GBK,
	949:   korean.EUCKR,
	950:   traditionalchinese.Big5,
	1200:  unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	1250:  charmap.Windows1250,
	1251:  charmap.Windows1251,
	1252:  charmap.Windows1252,
	1253:  charmap.Windows1253,
	1254:  charmap.Windows1254,
	1255:  charmap.Windows1255,
	1256:  charmap.Windows1256,
	1257:  charmap.Windows1257,
	1258:  charmap.Windows1258,
	10000: charmap.Macintosh,
	20866: charmap.KOI8R,
	21866: charmap.KOI8U,
	28591: charmap.ISO8859_1,
	28592: charmap.ISO8859_2,
	28595: charmap.ISO8859_5,
	28597: charmap.ISO8859_7,
	28599: charmap.ISO8859_9,
	65001: unicode.UTF8,
}

// ResolveCodePage maps a code page number declared in a PROJECTCODEPAGE
// record to its text encoding.
func ResolveCodePage(cp uint16) (encoding.Encoding, error) {
	if enc, ok := codePages[cp]; ok {
		return enc, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnsupportedCodePage, cp)
}

// Decode converts a narrow byte span to text under enc, substituting the
// replacement character for invalid sequences rather than failing. A nil
// encoding falls back to a lossy byte copy.
func Decode(raw []byte, enc encoding.Encoding) string {
	if len(raw) == 0 {
		return ""
	}
	if enc == nil {
		return strings.ToValidUTF8(string(raw), string(utf8.RuneError))
	}
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		// Decoders substitute U+FFFD instead of failing for these
		// encodings; keep the lossy copy in case one ever does.
		return strings.ToValidUTF8(string(raw), string(utf8.RuneError))
	}
	return string(out)
}

// DecodeUTF16 decodes a UTF-16LE byte span, used for the unicode variants
// of the dual-encoded fields.
func DecodeUTF16(raw []byte) string {
	return Decode(raw, unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM))
}
