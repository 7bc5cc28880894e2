package ipcrypt

import (
	"math/rand"
	"net"
	"net/netip"
	"testing"
)

func testKey(t *testing.T) Key {
	t.Helper()
	k, err := NewKey([]byte("some 16-byte key"))
	if err != nil {
		t.Fatalf("NewKey failed: %v", err)
	}
	return k
}

// Published test vectors for the key "some 16-byte key".
var vectors = []struct {
	plain  string
	cipher string
}{
	{"127.0.0.1", "114.62.227.59"},
	{"8.8.8.8", "46.48.51.50"},
	{"1.2.3.4", "171.238.15.199"},
}

func TestVectorsAddr(t *testing.T) {
	key := testKey(t)
	for _, v := range vectors {
		plain := netip.MustParseAddr(v.plain)
		cipher := netip.MustParseAddr(v.cipher)

		got, err := EncryptAddr(plain, key)
		if err != nil {
			t.Fatalf("EncryptAddr(%s) failed: %v", plain, err)
		}
		if got != cipher {
			t.Errorf("EncryptAddr(%s) = %s, want %s", plain, got, cipher)
		}

		back, err := DecryptAddr(cipher, key)
		if err != nil {
			t.Fatalf("DecryptAddr(%s) failed: %v", cipher, err)
		}
		if back != plain {
			t.Errorf("DecryptAddr(%s) = %s, want %s", cipher, back, plain)
		}
	}
}

func TestVectorsIP(t *testing.T) {
	key := testKey(t)
	for _, v := range vectors {
		got, err := EncryptIP(net.ParseIP(v.plain), key)
		if err != nil {
			t.Fatalf("EncryptIP(%s) failed: %v", v.plain, err)
		}
		if got.String() != v.cipher {
			t.Errorf("EncryptIP(%s) = %s, want %s", v.plain, got, v.cipher)
		}
	}
}

func TestVectorsBytes(t *testing.T) {
	key := testKey(t)
	plain := [4]byte{127, 0, 0, 1}
	cipher := [4]byte{114, 62, 227, 59}

	if got := EncryptBytes(plain, key); got != cipher {
		t.Errorf("EncryptBytes(%v) = %v, want %v", plain, got, cipher)
	}
	if got := DecryptBytes(cipher, key); got != plain {
		t.Errorf("DecryptBytes(%v) = %v, want %v", cipher, got, plain)
	}
}

func TestRoundTripRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 5000; i++ {
		var key Key
		rng.Read(key[:])
		v := rng.Uint32()

		enc := EncryptUint32(v, key)
		if dec := DecryptUint32(enc, key); dec != v {
			t.Fatalf("round trip failed: v=%#x key=%x got %#x", v, key, dec)
		}
	}
}

// TestRoundTripExhaustive sweeps the full 32-bit input space for one key.
func TestRoundTripExhaustive(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping exhaustive sweep in short mode")
	}
	key := testKey(t)
	for v := uint32(0); ; v++ {
		enc := EncryptUint32(v, key)
		if dec := DecryptUint32(enc, key); dec != v {
			t.Fatalf("round trip failed at %#x: encrypt=%#x decrypt=%#x", v, enc, dec)
		}
		if v == ^uint32(0) {
			break
		}
	}
}

func TestDeterminism(t *testing.T) {
	key := testKey(t)
	v := uint32(0x7f000001)
	first := EncryptUint32(v, key)
	for i := 0; i < 10; i++ {
		if got := EncryptUint32(v, key); got != first {
			t.Fatalf("encryption is not deterministic: %#x then %#x", first, got)
		}
	}
}

func TestKeySensitivity(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	collisions := 0
	const samples = 2000
	for i := 0; i < samples; i++ {
		var k1, k2 Key
		rng.Read(k1[:])
		rng.Read(k2[:])
		if k1 == k2 {
			continue
		}
		v := rng.Uint32()
		if EncryptUint32(v, k1) == EncryptUint32(v, k2) {
			collisions++
		}
	}
	// Two random keys mapping one value identically happens with
	// probability about 2^-32 per pair; more than a couple across the
	// sample means the key is not being used.
	if collisions > 2 {
		t.Errorf("same plaintext collided under distinct keys %d/%d times", collisions, samples)
	}
}

func TestNonIPv4Rejected(t *testing.T) {
	key := testKey(t)
	if _, err := EncryptAddr(netip.MustParseAddr("2001:db8::1"), key); err == nil {
		t.Error("expected error encrypting an IPv6 address")
	}
	if _, err := EncryptIP(net.ParseIP("2001:db8::1"), key); err == nil {
		t.Error("expected error encrypting an IPv6 net.IP")
	}
	if _, err := EncryptIP(nil, key); err == nil {
		t.Error("expected error encrypting a nil net.IP")
	}
}

func TestMappedIPv4Accepted(t *testing.T) {
	key := testKey(t)
	got, err := EncryptAddr(netip.MustParseAddr("::ffff:127.0.0.1"), key)
	if err != nil {
		t.Fatalf("EncryptAddr on IPv4-mapped address failed: %v", err)
	}
	if want := netip.MustParseAddr("114.62.227.59"); got != want {
		t.Errorf("EncryptAddr(::ffff:127.0.0.1) = %s, want %s", got, want)
	}
}

func BenchmarkEncrypt(b *testing.B) {
	key := KeyFromPassphrase("bench")
	v := uint32(0x08080808)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		v = EncryptUint32(v, key)
	}
}

func BenchmarkDecrypt(b *testing.B) {
	key := KeyFromPassphrase("bench")
	v := uint32(0x08080808)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		v = DecryptUint32(v, key)
	}
}
