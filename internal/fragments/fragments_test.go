package fragments

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/joshuaclayton/socket/skt"
)

func Test_Load(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/frags/item.skt", []byte("%li= name"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/frags/nested/card.skt", []byte("%div hi"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/frags/readme.txt", []byte("ignored"), 0o644))

	table := skt.NewFragments()
	require.NoError(t, Load(fs, "/frags", table))
	require.Equal(t, 2, table.Len())

	_, ok := table.Get("item.skt")
	require.True(t, ok)

	_, ok = table.Get("nested/card.skt")
	require.True(t, ok)
}

func Test_Load_propagatesParseErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/frags/broken.skt",
		[]byte("- extends layout.skt\n- block hdr\n  Hi\nnot a block header"), 0o644))

	table := skt.NewFragments()
	err := Load(fs, "/frags", table)
	require.Error(t, err)
}
