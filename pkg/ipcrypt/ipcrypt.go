// Package ipcrypt implements Jean-Philippe Aumasson's ipcrypt, a
// format-preserving cipher that maps a 4-byte value (typically an IPv4
// address) to another 4-byte value under a 16-byte key.
// The construction is Even-Mansour style: an unkeyed ARX permutation over
// four 8-bit words, sandwiched between four key-whitening steps derived by
// slicing the key. Encryption is a bijection over the 2^32 inputs and
// Decrypt exactly inverts Encrypt under the same key.
//
// ipcrypt is an obfuscation primitive with known statistical biases, not a
// general-purpose block cipher. This implementation reproduces the published
// construction bit-exactly for compatibility.
package ipcrypt

// KeySize is the ipcrypt key size in bytes.
const KeySize = 16

// Key is a 16-byte ipcrypt key.
type Key [KeySize]byte

// subkeys slices the key into four whitening states (bytes 0-3, 4-7,
// 8-11, 12-15). There is no expansion or mixing; the slices are used in
// the same byte order as the plaintext.
func (k Key) subkeys() (a, b, c, d State) {
	copy(a[:], k[0:4])
	copy(b[:], k[4:8])
	copy(c[:], k[8:12])
	copy(d[:], k[12:16])
	return a, b, c, d
}

// Encrypt encrypts one 4-byte state. Four whitening steps interleaved with
// three permutation layers; no permutation follows the final whitening.
func Encrypt(s State, key Key) State {
	a, b, c, d := key.subkeys()

	s = s.xor(a)
	s = permute(s)
	s = s.xor(b)
	s = permute(s)
	s = s.xor(c)
	s = permute(s)
	s = s.xor(d)

	return s
}

// Decrypt inverts Encrypt: whitening in reverse order interleaved with the
// inverse permutation.
func Decrypt(s State, key Key) State {
	a, b, c, d := key.subkeys()

	s = s.xor(d)
	s = permuteInverse(s)
	s = s.xor(c)
	s = permuteInverse(s)
	s = s.xor(b)
	s = permuteInverse(s)
	s = s.xor(a)

	return s
}
