package types

// Bridge operation names. Each maps to the toolkit method of the same name.
const (
	OpConfig   = "config"
	OpLoadONNX = "load_onnx"
	OpBuild    = "build"
	OpExport   = "export_rknn"
	OpRelease  = "release"
)

// BridgeRequest is one call sent to the toolkit bridge as a single JSON line.
type BridgeRequest struct {
	// Toolkit method to invoke.
	// example: load_onnx
	Op string `json:"op"`
	// Positional arguments, in call order.
	// example: ["model.onnx"]
	Args []any `json:"args,omitempty"`
	// Keyword arguments. Insertion order is preserved on the wire.
	Kwargs any `json:"kwargs,omitempty"`
}

// BridgeResponse is the single JSON line returned for each request.
// Exactly one of Code or Error is meaningful.
type BridgeResponse struct {
	// Status code returned by the toolkit; 0 means success.
	Code int `json:"code"`
	// Set when the bridge could not perform the call at all
	// (bad request, Python exception).
	Error string `json:"error,omitempty"`
}

// ArrayKey marks an array handle inside request arguments. A handle is
// encoded as the single-key object {"__array__": ArrayRef}.
const ArrayKey = "__array__"

// ArrayRef points the bridge at one array stored on disk. Key is empty for a
// standalone .npy file and names the member of a .npz archive otherwise.
type ArrayRef struct {
	Path string `json:"path"`
	Key  string `json:"key,omitempty"`
}
