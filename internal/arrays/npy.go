package arrays

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"github.com/sbinet/npyio/npy"
)

var npyMagic = []byte("\x93NUMPY")

// header is what the loader keeps from a .npy header dictionary.
type header struct {
	descr   string
	fortran bool
	shape   []int
}

// readHeader decodes the header of a .npy stream with npyio. Data after the
// header is never read.
func readHeader(r io.Reader) (header, error) {
	var raw bytes.Buffer
	nr, err := npy.NewReader(io.TeeReader(r, &raw))
	if err == nil {
		return fromNpy(nr.Header), nil
	}
	if h, ok := readRecordHeader(raw.Bytes()); ok {
		return h, nil
	}
	return header{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
}

func fromNpy(h npy.Header) header {
	return header{
		descr:   h.Descr.Type,
		fortran: h.Descr.Fortran,
		shape:   append([]int{}, h.Descr.Shape...),
	}
}

// recordPlaceholder stands in for a record descr so npyio can decode the
// rest of the dictionary.
const recordPlaceholder = "'<f4'"

// readRecordHeader handles arrays with a record dtype, whose descr is a list
// of (name, type) pairs that npyio does not model. The list is kept verbatim
// as the dtype; shape and order still come from npyio.
func readRecordHeader(raw []byte) (header, bool) {
	prefix, dict, ok := splitHeader(raw)
	if !ok {
		return header{}, false
	}
	start, end, ok := recordDescr(dict)
	if !ok {
		return header{}, false
	}
	descr := dict[start:end]
	nr, err := npy.NewReader(bytes.NewReader(frameHeader(prefix, dict[:start]+recordPlaceholder+dict[end:])))
	if err != nil {
		return header{}, false
	}
	h := fromNpy(nr.Header)
	h.descr = descr
	return h, true
}

// splitHeader returns the magic and version bytes and the header dictionary
// of a .npy preamble.
func splitHeader(raw []byte) (prefix []byte, dict string, ok bool) {
	if len(raw) < 10 || !bytes.HasPrefix(raw, npyMagic) {
		return nil, "", false
	}
	var n, off int
	switch raw[6] {
	case 1:
		n, off = int(binary.LittleEndian.Uint16(raw[8:10])), 10
	case 2, 3:
		if len(raw) < 12 {
			return nil, "", false
		}
		n, off = int(binary.LittleEndian.Uint32(raw[8:12])), 12
	default:
		return nil, "", false
	}
	if len(raw) < off+n {
		return nil, "", false
	}
	return raw[:8], string(raw[off : off+n]), true
}

// recordDescr locates the bracketed list value of the 'descr' key.
func recordDescr(dict string) (start, end int, ok bool) {
	const key = "'descr':"
	i := strings.Index(dict, key)
	if i < 0 {
		return 0, 0, false
	}
	start = i + len(key)
	for start < len(dict) && dict[start] == ' ' {
		start++
	}
	if start == len(dict) || dict[start] != '[' {
		return 0, 0, false
	}
	depth := 0
	for j := start; j < len(dict); j++ {
		switch dict[j] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return start, j + 1, true
			}
		}
	}
	return 0, 0, false
}

// frameHeader writes dict behind the given magic and version bytes, padded
// to a multiple of 64 bytes as numpy does.
func frameHeader(prefix []byte, dict string) []byte {
	lenSize := 4
	if prefix[6] == 1 {
		lenSize = 2
	}
	dict = strings.TrimRight(dict, " \n")
	total := len(prefix) + lenSize + len(dict) + 1
	dict += strings.Repeat(" ", (64-total%64)%64) + "\n"

	var b bytes.Buffer
	b.Write(prefix)
	if lenSize == 2 {
		_ = binary.Write(&b, binary.LittleEndian, uint16(len(dict)))
	} else {
		_ = binary.Write(&b, binary.LittleEndian, uint32(len(dict)))
	}
	b.WriteString(dict)
	return b.Bytes()
}
