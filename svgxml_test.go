package otfsvg

import (
	"strings"
	"testing"

	"github.com/tdewolff/test"
)

func TestRewriteSVGInboundSetsIDAndTranslatesViewBox(t *testing.T) {
	in := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 120"><path d="M0 0"/></svg>`
	out, err := rewriteSVG([]byte(in), rewriteInbound, 42)
	test.Error(t, err)
	s := string(out)
	test.That(t, strings.Contains(s, `id="glyph42"`))
	test.That(t, strings.Contains(s, `viewBox="0 120 100 120"`))
}

func TestRewriteSVGOutboundResetsViewBoxOrigin(t *testing.T) {
	in := `<svg id="myIcon" viewBox="0 120 100 120"><path d="M0 0"/></svg>`
	out, err := rewriteSVG([]byte(in), rewriteOutbound, 42)
	test.Error(t, err)
	s := string(out)
	test.That(t, strings.Contains(s, `viewBox="0 0 100 120"`))
	test.That(t, strings.Contains(s, `id="myIcon"`))
	test.That(t, !strings.Contains(s, `id="glyph42"`))
}

func TestRewriteSVGOutboundLeavesMissingIDUninjected(t *testing.T) {
	in := `<svg viewBox="0 120 100 120"></svg>`
	out, err := rewriteSVG([]byte(in), rewriteOutbound, 42)
	test.Error(t, err)
	test.That(t, !strings.Contains(string(out), "id="))
}

func TestRewriteSVGInboundInjectsMissingID(t *testing.T) {
	in := `<svg viewBox="0 0 10 10"></svg>`
	out, err := rewriteSVG([]byte(in), rewriteInbound, 7)
	test.Error(t, err)
	test.That(t, strings.Contains(string(out), `id="glyph7"`))
}

func TestRewriteSVGInboundReplacesExistingID(t *testing.T) {
	in := `<svg id="whatever"></svg>`
	out, err := rewriteSVG([]byte(in), rewriteInbound, 3)
	test.Error(t, err)
	s := string(out)
	test.That(t, strings.Contains(s, `id="glyph3"`))
	test.That(t, !strings.Contains(s, "whatever"))
}

func TestRewriteSVGSelfClosingRoot(t *testing.T) {
	in := `<svg viewBox="0 0 10 10"/>`
	out, err := rewriteSVG([]byte(in), rewriteInbound, 1)
	test.Error(t, err)
	test.That(t, strings.Contains(string(out), `id="glyph1"`))
}

func TestRewriteSVGLeavesNestedSVGUntouched(t *testing.T) {
	in := `<svg viewBox="0 0 10 10"><defs><svg viewBox="1 2 3 4"></svg></defs></svg>`
	out, err := rewriteSVG([]byte(in), rewriteInbound, 9)
	test.Error(t, err)
	s := string(out)
	test.That(t, strings.Contains(s, `viewBox="1 2 3 4"`)) // nested svg's viewBox untouched
	test.That(t, strings.Contains(s, `viewBox="0 10 10 10"`))
}

func TestRewriteSVGRejectsMissingRoot(t *testing.T) {
	_, err := rewriteSVG([]byte(`<notsvg></notsvg>`), rewriteInbound, 1)
	test.That(t, err != nil)
}

func TestRewriteViewBoxRejectsWrongFieldCount(t *testing.T) {
	_, ok := rewriteViewBox("0 0 10", rewriteInbound)
	test.That(t, !ok)
}

func TestFormatNum(t *testing.T) {
	test.T(t, formatNum(10), "10")
	test.T(t, formatNum(0), "0")
	test.T(t, formatNum(1.5), "1.5")
}
