package otfsvg

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/xml"
)

// rewriteDirection selects which way §4.6's viewBox transform runs.
type rewriteDirection int

const (
	rewriteInbound rewriteDirection = iota
	rewriteOutbound
)

// rewriteSVG implements spec.md §4.6. Inbound (Embed), it sets the
// root <svg> element's id to glyph<glyphID> (creating the attribute
// if missing) and, if a viewBox is present, translates its origin per
// the OpenType SVG convention. Outbound (Export), it undoes the
// viewBox half of that (the id is left as written, per spec.md §4.6).
//
// Implemented as a single streaming pass over the xml lexer the
// teacher's own parse/v2 module ships (github.com/tdewolff/parse/v2/xml),
// rather than building a DOM: only the root start tag's attributes are
// ever rewritten, so a full tree was never needed, and every other
// byte of the document streams through untouched.
func rewriteSVG(b []byte, dir rewriteDirection, glyphID uint16) ([]byte, error) {
	l := xml.NewLexer(parse.NewInputBytes(b))

	var out strings.Builder
	out.Grow(len(b) + 32)

	rootSeen := false
	inRoot := false
	rootHasID := false
	sawSVGTag := false

	for {
		tt, data := l.Next()
		switch tt {
		case xml.ErrorToken:
			if err := l.Err(); err != nil && err != io.EOF {
				return nil, fmt.Errorf("%w: %v", ErrMalformedSvg, err)
			}
			if !sawSVGTag {
				return nil, fmt.Errorf("%w: no <svg> root element", ErrMalformedSvg)
			}
			return []byte(out.String()), nil
		case xml.StartTagToken:
			name := string(l.Text())
			inRoot = !rootSeen && isSVGTagName(name)
			if inRoot {
				rootSeen = true
				sawSVGTag = true
				rootHasID = false
			}
			out.Write(data)
		case xml.AttributeToken:
			if inRoot {
				key := string(l.Text())
				local := localName(key)
				val := trimAttrQuotes(l.AttrVal())
				switch local {
				case "id":
					rootHasID = true
					if dir == rewriteInbound {
						out.WriteString(fmt.Sprintf(` id="glyph%d"`, glyphID))
						continue
					}
				case "viewBox":
					rewritten, ok := rewriteViewBox(val, dir)
					if ok {
						out.WriteString(fmt.Sprintf(` viewBox="%s"`, rewritten))
						continue
					}
				}
			}
			out.Write(data)
		case xml.StartTagCloseToken, xml.StartTagCloseVoidToken, xml.StartTagClosePIToken:
			if inRoot && !rootHasID && dir == rewriteInbound {
				out.WriteString(fmt.Sprintf(` id="glyph%d"`, glyphID))
				rootHasID = true
			}
			inRoot = false
			out.Write(data)
		default:
			out.Write(data)
		}
	}
}

func isSVGTagName(name string) bool {
	return localName(name) == "svg"
}

// localName strips an XML namespace prefix ("ns:svg" -> "svg").
func localName(name string) string {
	if i := strings.IndexByte(name, ':'); i != -1 {
		return name[i+1:]
	}
	return name
}

func trimAttrQuotes(v []byte) string {
	s := string(v)
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

// rewriteViewBox parses "minX minY width height" (space and/or
// comma-separated, per SVG's flexible list-of-numbers syntax) and
// applies spec.md §4.6's origin translation.
func rewriteViewBox(val string, dir rewriteDirection) (string, bool) {
	fields := strings.FieldsFunc(val, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(fields) != 4 {
		return "", false
	}
	nums := make([]float64, 4)
	for i, f := range fields {
		n, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return "", false
		}
		nums[i] = n
	}
	minX, height, width := nums[0], nums[3], nums[2]
	switch dir {
	case rewriteInbound:
		// minX minY width height -> minX height width height
		return formatViewBox(minX, height, width, height), true
	case rewriteOutbound:
		// minX minY width height -> minX 0 width height
		return formatViewBox(minX, 0, width, height), true
	}
	return "", false
}

func formatViewBox(minX, minY, width, height float64) string {
	return fmt.Sprintf("%s %s %s %s", formatNum(minX), formatNum(minY), formatNum(width), formatNum(height))
}

func formatNum(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
