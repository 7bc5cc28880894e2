// Command libipcrypt builds as a C shared library
// (go build -buildmode=c-shared) exposing the cipher with a minimal C ABI:
//
//	uint32_t ipcrypt_encrypt(uint32_t value, const uint8_t *key);
//	uint32_t ipcrypt_decrypt(uint32_t value, const uint8_t *key);
//
// The value is interpreted in big-endian (network) byte order. The key
// pointer must reference at least 16 readable bytes for the duration of
// the call; violating that is undefined behavior, not a reported error.
package main

/*
#include <stdint.h>
*/
import "C"

import (
	"unsafe"

	"ipcrypt-go/pkg/ipcrypt"
)

//export ipcrypt_encrypt
func ipcrypt_encrypt(v C.uint32_t, key *C.uint8_t) C.uint32_t {
	k := ipcrypt.Key(*(*[ipcrypt.KeySize]byte)(unsafe.Pointer(key)))
	return C.uint32_t(ipcrypt.EncryptUint32(uint32(v), k))
}

//export ipcrypt_decrypt
func ipcrypt_decrypt(v C.uint32_t, key *C.uint8_t) C.uint32_t {
	k := ipcrypt.Key(*(*[ipcrypt.KeySize]byte)(unsafe.Pointer(key)))
	return C.uint32_t(ipcrypt.DecryptUint32(uint32(v), k))
}

func main() {}
