package otfsvg

import (
	"fmt"

	"github.com/tdewolff/parse/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const nameIDFamily = 1

type nameRecord struct {
	PlatformID uint16
	EncodingID uint16
	Language   uint16
	NameID     uint16
	Value      []byte
}

// platformMacintosh and encodingMacRoman identify the one non-Unicode
// encoding this decoder special-cases; every other platform/encoding
// pair is assumed UTF-16BE or UTF-8 per the first-byte heuristic below.
const (
	platformMacintosh = 1
	encodingMacRoman  = 0
)

// String decodes the raw name record bytes to UTF-8, per spec.md
// §4.4: a leading zero byte means big-endian UTF-16, otherwise the
// bytes are UTF-8 already — except Macintosh/Roman records, which are
// single-byte Mac OS Roman and never start with a zero byte for a
// non-empty family name, so they fall to the UTF-8 branch of the
// heuristic and must be re-decoded explicitly.
func (rec nameRecord) String() string {
	if len(rec.Value) == 0 {
		return ""
	}
	if rec.Value[0] == 0 {
		dec := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
		if s, _, err := transform.String(dec, string(rec.Value)); err == nil {
			return s
		}
		return string(rec.Value)
	}
	if rec.PlatformID == platformMacintosh && rec.EncodingID == encodingMacRoman {
		if s, _, err := transform.String(charmap.Macintosh.NewDecoder(), string(rec.Value)); err == nil {
			return s
		}
	}
	return string(rec.Value)
}

// decodeFamilyName walks the name table and returns the string value
// of the first nameID==1 record with positive length. It returns
// ErrMissingName if no such record exists, per spec.md §4.4.
func decodeFamilyName(b []byte) (string, error) {
	if len(b) < 6 {
		return "", fmt.Errorf("%w: name table too short", ErrMalformedFont)
	}

	r := parse.NewBinaryReader(b)
	version := r.ReadUint16()
	if version != 0 && version != 1 {
		return "", fmt.Errorf("%w: name table bad version", ErrMalformedFont)
	}
	count := r.ReadUint16()
	storageOffset := r.ReadUint16()
	if uint32(len(b)) < 6+12*uint32(count) || uint16(len(b)) < storageOffset {
		return "", fmt.Errorf("%w: name table record array runs past end of table", ErrMalformedFont)
	}

	for i := 0; i < int(count); i++ {
		rec := nameRecord{}
		rec.PlatformID = r.ReadUint16()
		rec.EncodingID = r.ReadUint16()
		rec.Language = r.ReadUint16()
		rec.NameID = r.ReadUint16()
		length := r.ReadUint16()
		offset := r.ReadUint16()
		if uint16(len(b))-storageOffset < offset || uint16(len(b))-storageOffset-offset < length {
			return "", fmt.Errorf("%w: name record value runs past end of table", ErrMalformedFont)
		}
		if rec.NameID == nameIDFamily && 0 < length {
			rec.Value = b[storageOffset+offset : storageOffset+offset+length]
			return rec.String(), nil
		}
	}
	return "", fmt.Errorf("%w: no nameID=1 record with positive length", ErrMissingName)
}
