package transform

import (
	"bytes"
	"testing"

	"github.com/klauspost/compress/zstd"

	"ipcrypt-go/pkg/ipcrypt"
)

func mustKey(t *testing.T) ipcrypt.Key {
	t.Helper()
	k, err := ipcrypt.NewKey([]byte("some 16-byte key"))
	if err != nil {
		t.Fatalf("NewKey failed: %v", err)
	}
	return k
}

func TestIPCryptTransformRewritesAddresses(t *testing.T) {
	tr := NewIPCryptTransform(mustKey(t))

	in := []byte("GET /index.html from 127.0.0.1 and 8.8.8.8 done")
	want := []byte("GET /index.html from 114.62.227.59 and 46.48.51.50 done")

	out, err := tr.Apply(in)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if !bytes.Equal(out, want) {
		t.Errorf("Apply = %q, want %q", out, want)
	}

	back, err := tr.Reverse(out)
	if err != nil {
		t.Fatalf("Reverse failed: %v", err)
	}
	if !bytes.Equal(back, in) {
		t.Errorf("Reverse = %q, want %q", back, in)
	}
}

func TestIPCryptTransformLeavesNonAddressesAlone(t *testing.T) {
	tr := NewIPCryptTransform(mustKey(t))

	// 999.1.2.3 matches the candidate pattern but fails to parse, so it
	// must pass through untouched.
	in := []byte("version 1.2 not-an-ip 999.1.2.3 pi=3.14159")
	out, err := tr.Apply(in)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if !bytes.Equal(out, in) {
		t.Errorf("Apply rewrote non-address text: %q -> %q", in, out)
	}
}

func TestIPCryptTransformEmptyPayload(t *testing.T) {
	tr := NewIPCryptTransform(mustKey(t))
	out, err := tr.Apply(nil)
	if err != nil {
		t.Fatalf("Apply(nil) failed: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("Apply(nil) = %q", out)
	}
}

func TestGzipTransformRoundTrip(t *testing.T) {
	tr := NewGzipTransform()
	in := []byte("payload to compress, long enough to be worth compressing: 10.0.0.1 10.0.0.1 10.0.0.1")
	compressed, err := tr.Apply(in)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	out, err := tr.Reverse(compressed)
	if err != nil {
		t.Fatalf("Reverse failed: %v", err)
	}
	if !bytes.Equal(out, in) {
		t.Errorf("gzip round trip mismatch: got %q", out)
	}
}

func TestGzipReverseRejectsGarbage(t *testing.T) {
	tr := NewGzipTransform()
	if _, err := tr.Reverse([]byte("definitely not gzip")); err == nil {
		t.Error("Reverse accepted non-gzip input")
	}
}

func TestZstdTransformRoundTrip(t *testing.T) {
	tr, err := NewZstdTransform(zstd.SpeedFastest)
	if err != nil {
		t.Fatalf("NewZstdTransform failed: %v", err)
	}
	in := []byte("conn from 192.168.1.10 port 2222; conn from 192.168.1.10 port 2223")
	compressed, err := tr.Apply(in)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	out, err := tr.Reverse(compressed)
	if err != nil {
		t.Fatalf("Reverse failed: %v", err)
	}
	if !bytes.Equal(out, in) {
		t.Errorf("zstd round trip mismatch: got %q", out)
	}
}

func TestPipelineOrderAndReverse(t *testing.T) {
	tr, err := NewZstdTransform(zstd.SpeedDefault)
	if err != nil {
		t.Fatalf("NewZstdTransform failed: %v", err)
	}
	p, err := NewPipeline([]Transform{NewIPCryptTransform(mustKey(t)), tr})
	if err != nil {
		t.Fatalf("NewPipeline failed: %v", err)
	}

	in := []byte("src=127.0.0.1 dst=1.2.3.4\nsrc=8.8.8.8 dst=127.0.0.1\n")
	applied, err := p.Apply(in)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if bytes.Contains(applied, []byte("127.0.0.1")) {
		t.Error("pipeline output still contains a plaintext address")
	}

	back, err := p.Reverse(applied)
	if err != nil {
		t.Fatalf("Reverse failed: %v", err)
	}
	if !bytes.Equal(back, in) {
		t.Errorf("pipeline round trip mismatch: got %q want %q", back, in)
	}
}

func TestPipelineRequiresTransforms(t *testing.T) {
	if _, err := NewPipeline(nil); err == nil {
		t.Error("NewPipeline(nil) succeeded, want error")
	}
	if _, err := NewPipeline([]Transform{NewNoOpTransform()}); err != nil {
		t.Errorf("NewPipeline(noop) failed: %v", err)
	}
}
