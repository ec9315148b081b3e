package bytes

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	tmbytes "github.com/tendermint/tendermint/libs/bytes"
)

// HexBytes is written to json as an upper-case hex string.
// Reading accepts hex with or without `0x`, and base64 as tendermint's amino json writes it.
type HexBytes tmbytes.HexBytes

func (hb HexBytes) String() string {
	return strings.ToUpper(hex.EncodeToString(hb))
}

func (hb HexBytes) MarshalJSON() ([]byte, error) {
	return []byte(`"` + hb.String() + `"`), nil
}

func (hb *HexBytes) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("HexBytes: not a json string: %s", data)
	}
	bz, err := decodeHexOrBase64(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*hb = bz
	return nil
}

func decodeHexOrBase64(s string) ([]byte, error) {
	unprefixed := strings.TrimPrefix(s, "0x")
	if bz, err := hex.DecodeString(unprefixed); err == nil {
		return bz, nil
	} else if unprefixed != s {
		// `0x` must be followed by hex
		return nil, err
	}
	bz, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("HexBytes: neither hex nor base64: %q", s)
	}
	return bz, nil
}

// Format prints the slice address for %p and upper-case hex for any other verb.
func (hb HexBytes) Format(s fmt.State, verb rune) {
	if verb == 'p' {
		_, _ = fmt.Fprintf(s, "%p", []byte(hb))
		return
	}
	_, _ = fmt.Fprintf(s, "%X", []byte(hb))
}

func (hb HexBytes) Bytes() []byte { return hb }

func (hb HexBytes) Copy() HexBytes {
	if hb == nil {
		return nil
	}
	return append(HexBytes(nil), hb...)
}

func (hb HexBytes) Compare(o HexBytes) int { return bytes.Compare(hb, o) }

func (hb HexBytes) Equal(o HexBytes) bool { return bytes.Equal(hb, o) }

func Compare(h1, h2 HexBytes) int { return h1.Compare(h2) }

func Equal(h1, h2 HexBytes) bool { return h1.Equal(h2) }

// ClearBytes zeroes `bz` in place.
func ClearBytes(bz []byte) {
	for i := range bz {
		bz[i] = 0
	}
}
