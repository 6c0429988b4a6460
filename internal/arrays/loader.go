package arrays

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var zipMagic = []byte("PK\x03\x04")
var emptyZipMagic = []byte("PK\x05\x06")

// FileLoader reads array files from the local filesystem.
type FileLoader struct{}

// LoadArrays opens path and describes the arrays it holds. The format is
// detected from the file signature, not the extension.
//
// A missing file yields an error wrapping fs.ErrNotExist.
func (FileLoader) LoadArrays(path string) (Artifact, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sig := make([]byte, len(npyMagic))
	n, err := io.ReadFull(f, sig)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	sig = sig[:n]
	switch {
	case bytes.Equal(sig, npyMagic):
		return loadNpy(f, path)
	case bytes.HasPrefix(sig, zipMagic), bytes.HasPrefix(sig, emptyZipMagic):
		return loadNpz(path)
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
}

func loadNpy(f *os.File, path string) (Artifact, error) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	h, err := readHeader(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return Single{Array: Array{Path: path, Dtype: h.descr, Shape: h.shape, FortranOrder: h.fortran}}, nil
}

func loadNpz(path string) (Artifact, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", path, ErrCorrupt, err)
	}
	defer zr.Close()

	a := &Archive{members: make(map[string]Array, len(zr.File))}
	for _, zf := range zr.File {
		name := strings.TrimSuffix(zf.Name, ".npy")
		if _, dup := a.members[name]; dup {
			return nil, fmt.Errorf("%s: %w: duplicate member %q", path, ErrCorrupt, name)
		}
		h, err := memberHeader(zf)
		if err != nil {
			return nil, fmt.Errorf("%s[%s]: %w", path, name, err)
		}
		a.names = append(a.names, name)
		a.members[name] = Array{Path: path, Key: name, Dtype: h.descr, Shape: h.shape, FortranOrder: h.fortran}
	}
	return a, nil
}

func memberHeader(zf *zip.File) (header, error) {
	rc, err := zf.Open()
	if err != nil {
		return header{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	defer rc.Close()
	return readHeader(rc)
}
