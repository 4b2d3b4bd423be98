package otfsvg

import (
	"testing"

	"github.com/tdewolff/test"
)

func TestPadLen(t *testing.T) {
	test.T(t, padLen(0), uint32(0))
	test.T(t, padLen(1), uint32(3))
	test.T(t, padLen(2), uint32(2))
	test.T(t, padLen(3), uint32(1))
	test.T(t, padLen(4), uint32(0))
	test.T(t, padLen(5), uint32(3))
}

func TestCalcChecksum(t *testing.T) {
	// one full word
	test.T(t, calcChecksum([]byte{0x00, 0x00, 0x00, 0x01}), uint32(1))

	// tail word zero-padded on the right: 0x01 -> 0x01000000
	test.T(t, calcChecksum([]byte{0x00, 0x00, 0x00, 0x01, 0x01}), uint32(1)+0x01000000)

	test.T(t, calcChecksum(nil), uint32(0))
}

