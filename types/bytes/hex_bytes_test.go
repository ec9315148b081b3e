package bytes

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/beatoz/taxpool-go/libs/jsonx"
	"github.com/stretchr/testify/require"
	tmrand "github.com/tendermint/tendermint/libs/rand"
)

func Test_UnmarshalJSON(t *testing.T) {
	addr := tmrand.Bytes(20)

	for _, s := range []string{
		hex.EncodeToString(addr),
		"0x" + hex.EncodeToString(addr),
		HexBytes(addr).String(),
		base64.StdEncoding.EncodeToString(addr),
	} {
		hb := HexBytes{}
		require.NoError(t, jsonx.Unmarshal([]byte(`"`+s+`"`), &hb), s)
		require.Equal(t, HexBytes(addr), hb, s)
	}

	hb := HexBytes{}
	require.Error(t, hb.UnmarshalJSON([]byte(`abcd`)))
	require.Error(t, hb.UnmarshalJSON([]byte(`"!@#$"`)))
}

func Test_MarshalJSON(t *testing.T) {
	hb := HexBytes{0xab, 0xcd, 0x01}
	bz, err := jsonx.Marshal(hb)
	require.NoError(t, err)
	require.Equal(t, `"ABCD01"`, string(bz))
	require.Equal(t, "ABCD01", hb.String())
	require.Equal(t, "ABCD01", fmt.Sprintf("%v", hb))

	// in a struct
	bz, err = jsonx.Marshal(&struct {
		Admin HexBytes `json:"admin"`
	}{Admin: hb})
	require.NoError(t, err)
	require.Equal(t, `{"admin":"ABCD01"}`, string(bz))
}

func Test_CopyCompare(t *testing.T) {
	hb := HexBytes{0xab, 0xcd, 0x01}
	cp := hb.Copy()
	require.Equal(t, 0, Compare(hb, cp))
	require.True(t, Equal(hb, cp))

	cp[0] = 0
	require.Equal(t, 1, hb.Compare(cp))
	require.Equal(t, byte(0xab), hb[0])
	require.Nil(t, HexBytes(nil).Copy())

	ClearBytes(hb)
	require.Equal(t, HexBytes{0, 0, 0}, hb)
}
