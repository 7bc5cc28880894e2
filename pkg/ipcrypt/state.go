package ipcrypt

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"net/netip"
)

// ErrNotIPv4 is returned when an address cannot be represented as exactly
// 4 bytes.
var ErrNotIPv4 = errors.New("ipcrypt: not an IPv4 address")

// State is the 4-byte working value the cipher operates on, stored in the
// same order as the octets of an IPv4 address. It is a plain value type;
// every operation consumes a State and returns a new one.
type State [4]byte

func (s State) xor(o State) State {
	return State{s[0] ^ o[0], s[1] ^ o[1], s[2] ^ o[2], s[3] ^ o[3]}
}

// StateFromUint32 reads v in big-endian (network) byte order, matching how
// IPv4 addresses are conventionally packed into a uint32.
func StateFromUint32(v uint32) State {
	var s State
	binary.BigEndian.PutUint32(s[:], v)
	return s
}

// Uint32 writes the state back out in big-endian byte order.
func (s State) Uint32() uint32 {
	return binary.BigEndian.Uint32(s[:])
}

// StateFromAddr converts a netip.Addr. The address must be a plain IPv4
// address or an IPv4-mapped IPv6 address.
func StateFromAddr(addr netip.Addr) (State, error) {
	if addr.Is4In6() {
		addr = addr.Unmap()
	}
	if !addr.Is4() {
		return State{}, fmt.Errorf("%w: %s", ErrNotIPv4, addr)
	}
	return State(addr.As4()), nil
}

// Addr returns the state as a netip.Addr.
func (s State) Addr() netip.Addr {
	return netip.AddrFrom4(s)
}

// StateFromIP converts a net.IP, accepting the 4-byte and 16-byte
// (IPv4-in-IPv6) forms.
func StateFromIP(ip net.IP) (State, error) {
	v4 := ip.To4()
	if v4 == nil {
		return State{}, fmt.Errorf("%w: %s", ErrNotIPv4, ip)
	}
	var s State
	copy(s[:], v4)
	return s, nil
}

// IP returns the state as a 4-byte net.IP.
func (s State) IP() net.IP {
	return net.IPv4(s[0], s[1], s[2], s[3]).To4()
}

// EncryptBytes encrypts a raw 4-byte value.
func EncryptBytes(v [4]byte, key Key) [4]byte {
	return [4]byte(Encrypt(State(v), key))
}

// DecryptBytes decrypts a raw 4-byte value.
func DecryptBytes(v [4]byte, key Key) [4]byte {
	return [4]byte(Decrypt(State(v), key))
}

// EncryptUint32 encrypts a big-endian packed value.
func EncryptUint32(v uint32, key Key) uint32 {
	return Encrypt(StateFromUint32(v), key).Uint32()
}

// DecryptUint32 decrypts a big-endian packed value.
func DecryptUint32(v uint32, key Key) uint32 {
	return Decrypt(StateFromUint32(v), key).Uint32()
}

// EncryptAddr encrypts an IPv4 netip.Addr. The result is again an IPv4
// address (the cipher is format preserving).
func EncryptAddr(addr netip.Addr, key Key) (netip.Addr, error) {
	s, err := StateFromAddr(addr)
	if err != nil {
		return netip.Addr{}, err
	}
	return Encrypt(s, key).Addr(), nil
}

// DecryptAddr decrypts an IPv4 netip.Addr.
func DecryptAddr(addr netip.Addr, key Key) (netip.Addr, error) {
	s, err := StateFromAddr(addr)
	if err != nil {
		return netip.Addr{}, err
	}
	return Decrypt(s, key).Addr(), nil
}

// EncryptIP encrypts an IPv4 net.IP.
func EncryptIP(ip net.IP, key Key) (net.IP, error) {
	s, err := StateFromIP(ip)
	if err != nil {
		return nil, err
	}
	return Encrypt(s, key).IP(), nil
}

// DecryptIP decrypts an IPv4 net.IP.
func DecryptIP(ip net.IP, key Key) (net.IP, error) {
	s, err := StateFromIP(ip)
	if err != nil {
		return nil, err
	}
	return Decrypt(s, key).IP(), nil
}
