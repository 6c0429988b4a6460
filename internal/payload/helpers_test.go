package payload

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeNpz stores one single-element float32 array per name, in the given order.
func writeNpz(t *testing.T, names ...string) string {
	t.Helper()
	dict := "{'descr': '<f4', 'fortran_order': False, 'shape': (1,), }"
	for (10+len(dict)+1)%64 != 0 {
		dict += " "
	}
	dict += "\n"
	var npy bytes.Buffer
	npy.WriteString("\x93NUMPY\x01\x00")
	require.NoError(t, binary.Write(&npy, binary.LittleEndian, uint16(len(dict))))
	npy.WriteString(dict)
	npy.Write(make([]byte, 4))

	var b bytes.Buffer
	zw := zip.NewWriter(&b)
	for _, n := range names {
		w, err := zw.Create(n + ".npy")
		require.NoError(t, err)
		_, err = w.Write(npy.Bytes())
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	p := filepath.Join(t.TempDir(), "in.npz")
	require.NoError(t, os.WriteFile(p, b.Bytes(), 0o644))
	return p
}
