// Package arrays enumerates the arrays stored in NumPy .npy and .npz files.
//
// Only headers are read: each array is described by its location, dtype and
// shape, and the data itself is loaded later by the toolkit process. Member
// order of an archive follows the zip central directory, which is the order
// numpy reports in NpzFile.files.
package arrays

import (
	"encoding/json"
	"errors"
	"fmt"

	"rknnc/pkg/types"
)

var (
	// ErrUnsupportedFormat is returned for files that are neither .npy nor .npz.
	ErrUnsupportedFormat = errors.New("unsupported array file format")
	// ErrCorrupt is returned when a file has the right signature but an
	// unreadable header or archive directory.
	ErrCorrupt = errors.New("corrupt array file")
)

// Array is an opaque handle to one stored array.
type Array struct {
	// Path of the .npy or .npz file.
	Path string
	// Key is the archive member name without ".npy"; empty for a .npy file.
	Key          string
	Dtype        string
	Shape        []int
	FortranOrder bool
}

func (a Array) String() string {
	if a.Key == "" {
		return fmt.Sprintf("%s%v %s", a.Dtype, a.Shape, a.Path)
	}
	return fmt.Sprintf("%s%v %s[%s]", a.Dtype, a.Shape, a.Path, a.Key)
}

// MarshalJSON encodes the handle as a reference the bridge resolves with numpy.
func (a Array) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]types.ArrayRef{types.ArrayKey: {Path: a.Path, Key: a.Key}})
}

// Artifact is what a file yields: a Single array or an Archive of named ones.
type Artifact interface {
	isArtifact()
}

// Single is the content of a .npy file.
type Single struct {
	Array Array
}

// Archive is the content of a .npz file.
type Archive struct {
	names   []string
	members map[string]Array
}

func (Single) isArtifact()   {}
func (*Archive) isArtifact() {}

// Files lists member names in archive order.
func (a *Archive) Files() []string {
	out := make([]string, len(a.names))
	copy(out, a.names)
	return out
}

// Get returns the member called name.
func (a *Archive) Get(name string) (Array, bool) {
	arr, ok := a.members[name]
	return arr, ok
}

// Len reports the number of members.
func (a *Archive) Len() int { return len(a.names) }
