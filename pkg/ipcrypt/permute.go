package ipcrypt

import "math/bits"

// permute applies one round of the ipcrypt ARX network to the state:
// additions modulo 256, 8-bit left rotations and XORs in a fixed order.
// The operation order is part of the published construction and must not
// be rearranged. Wraparound on the additions is intentional.
func permute(s State) State {
	a, b, c, d := s[0], s[1], s[2], s[3]

	a += b
	c += d
	b = bits.RotateLeft8(b, 2)
	d = bits.RotateLeft8(d, 5)
	b ^= a
	d ^= c
	a = bits.RotateLeft8(a, 4)
	a += d
	c += b
	b = bits.RotateLeft8(b, 3)
	d = bits.RotateLeft8(d, 7)
	b ^= c
	d ^= a
	c = bits.RotateLeft8(c, 4)

	return State{a, b, c, d}
}

// permuteInverse is the exact algebraic inverse of permute: the forward
// steps undone in reverse order, with subtraction replacing addition and
// the complementary rotation amounts.
func permuteInverse(s State) State {
	a, b, c, d := s[0], s[1], s[2], s[3]

	c = bits.RotateLeft8(c, 4)
	b ^= c
	d ^= a
	b = bits.RotateLeft8(b, 5)
	d = bits.RotateLeft8(d, 1)
	a -= d
	c -= b
	a = bits.RotateLeft8(a, 4)
	b ^= a
	d ^= c
	b = bits.RotateLeft8(b, 6)
	d = bits.RotateLeft8(d, 3)
	a -= b
	c -= d

	return State{a, b, c, d}
}
