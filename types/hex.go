package types

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// trimHexPrefix strips the required 0x or 0X prefix.
func trimHexPrefix(s string) (string, error) {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:], nil
	}
	return "", &HexPrefixError{Input: s}
}

// EncodeHex renders b as 0x-prefixed lowercase hex of every byte.
func EncodeHex(b []byte) string {
	return hexutil.Encode(b)
}

// DecodeHex decodes 0x-prefixed hex text. The empty string decodes to an
// empty byte string. Empty results are nil.
func DecodeHex(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	if _, err := trimHexPrefix(s); err != nil {
		return nil, err
	}

	b, err := hexutil.Decode(s)
	if err != nil {
		return nil, &HexDecodeError{Input: s, Err: err}
	}
	if len(b) == 0 {
		return nil, nil
	}
	return b, nil
}

// encodeUint renders v as minimal 0x-prefixed lowercase hex.
func encodeUint(v uint64) string {
	return hexutil.EncodeUint64(v)
}

func isHexDigit(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
