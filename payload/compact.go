package payload

import (
	"fmt"
	"math/big"

	"github.com/kverlio/glyphpack/bitstream"
	"github.com/kverlio/glyphpack/errs"
	"github.com/kverlio/glyphpack/radix"
)

// encodeCompact packs the fields into one bit sequence and base-N encodes
// the whole sequence as a single arbitrary-precision integer.
//
// The packed bytes are MSB-first with the tail zero-padded to a byte
// boundary, so the integer value of the sequence is the byte string
// shifted right by the pad bits. All arithmetic is exact; no width or
// field count can overflow it.
func (c *Codec) encodeCompact(values []uint64, widths []int, totalBits int) (string, error) {
	w, err := bitstream.PackValues(values, widths)
	if err != nil {
		return "", err
	}

	v := new(big.Int).SetBytes(w.Bytes())
	if pad := len(w.Bytes())*8 - totalBits; pad > 0 {
		v.Rsh(v, uint(pad))
	}

	return radix.EncodeBig(c.alpha, v), nil
}

// decodeCompact reverses encodeCompact using the caller's width list to
// re-slice the bit sequence.
//
// Leading zero bits lost in the integer form are restored by sizing the
// byte buffer to the width sum before unpacking.
func (c *Codec) decodeCompact(payload string, widths []int) ([]uint64, error) {
	v, err := radix.DecodeBig(c.alpha, payload)
	if err != nil {
		return nil, err
	}

	totalBits, err := bitstream.SumWidths(widths)
	if err != nil {
		return nil, err
	}
	if v.BitLen() > totalBits {
		return nil, fmt.Errorf("%w: payload carries %d bits, width list declares %d",
			errs.ErrValueOutOfRange, v.BitLen(), totalBits)
	}

	byteLen := (totalBits + 7) / 8
	if pad := byteLen*8 - totalBits; pad > 0 {
		v.Lsh(v, uint(pad))
	}
	data := v.FillBytes(make([]byte, byteLen))

	return bitstream.Unpack(data, widths)
}
