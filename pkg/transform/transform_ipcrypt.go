package transform

import (
	"net/netip"
	"regexp"

	"ipcrypt-go/pkg/ipcrypt"
)

// Candidate dotted quads. Parsing decides validity; 999.1.2.3 matches here
// but is left untouched below.
var ipv4Pattern = regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`)

type ipcryptTransform struct {
	key ipcrypt.Key
}

// NewIPCryptTransform rewrites every IPv4 literal in a text payload with
// its ipcrypt-encrypted counterpart. Because the cipher is format
// preserving the output is again a dotted quad, so Reverse can find and
// decrypt the rewritten addresses. Non-address text passes through
// unchanged.
func NewIPCryptTransform(key ipcrypt.Key) Transform {
	return &ipcryptTransform{key: key}
}

func (t *ipcryptTransform) Apply(data []byte) ([]byte, error) {
	return t.rewrite(data, ipcrypt.Encrypt), nil
}

func (t *ipcryptTransform) Reverse(data []byte) ([]byte, error) {
	return t.rewrite(data, ipcrypt.Decrypt), nil
}

func (t *ipcryptTransform) rewrite(data []byte, f func(ipcrypt.State, ipcrypt.Key) ipcrypt.State) []byte {
	return ipv4Pattern.ReplaceAllFunc(data, func(match []byte) []byte {
		addr, err := netip.ParseAddr(string(match))
		if err != nil || !addr.Is4() {
			return match
		}
		out := f(ipcrypt.State(addr.As4()), t.key).Addr()
		return []byte(out.String())
	})
}
