package version

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	info, err := Parse("v1.2.3", "abcdef0123")
	require.NoError(t, err)
	require.Equal(t, Info{Major: 1, Minor: 2, Patch: 3, Commit: 0xabcdef01}, info)

	info, err = Parse("0.10.7-rc1", "")
	require.NoError(t, err)
	require.Equal(t, Info{Major: 0, Minor: 10, Patch: 7}, info)

	_, err = Parse("1.2", "")
	require.Error(t, err)
	_, err = Parse("v1.256.0", "")
	require.Error(t, err)
	_, err = Parse("v1.2.3", "xyz")
	require.Error(t, err)
}

func TestAppVersion(t *testing.T) {
	a := Info{Major: 1, Minor: 2, Patch: 3, Commit: 7}
	b := Info{Major: 1, Minor: 2, Patch: 9}
	require.Equal(t, a.AppVersion(), b.AppVersion())
	require.Equal(t, uint64(0x0102000000000000), a.AppVersion())
	require.Less(t, a.AppVersion(), Info{Major: 1, Minor: 3}.AppVersion())
}

func TestString(t *testing.T) {
	info := Info{Major: 0, Minor: 1, Patch: 0, Commit: 0xbeef}
	require.Regexp(t, `^v0\.1\.0-0000beef@`, info.String())
}
