package libs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadSecret_Env(t *testing.T) {
	t.Setenv("TAXPOOL_TEST_SECRET", "1111")
	s, err := ReadSecret("TAXPOOL_TEST_SECRET", "unused: ")
	require.NoError(t, err)
	require.Equal(t, []byte("1111"), s)

	ClearCredential(s)
	require.Equal(t, []byte{0, 0, 0, 0}, s)
}
