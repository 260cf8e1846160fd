package serialization

import "time"

// Format constants.
const (
	MagicBytes       = "SRGT"
	FormatVersion    = 1
	HeaderAlignment  = 64 // Align tensor data to 64 bytes
	fixedHeaderSize  = 4 + 4 + 8
	maxHeaderSize    = 64 << 20
	maxPayloadSize   = 1 << 30
	bytesPerFloat32  = 4
	checksumHexBytes = 64
)

// Header is the JSON header of a .srgt file.
type Header struct {
	FormatVersion int               `json:"format_version"`
	ModelType     string            `json:"model_type"`
	CreatedAt     time.Time         `json:"created_at"`
	Tensors       []TensorMeta      `json:"tensors"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	Checksum      string            `json:"checksum"` // hex SHA-256 of the payload
}

// TensorMeta describes one tensor of the payload.
type TensorMeta struct {
	Name   string `json:"name"`
	Shape  []int  `json:"shape"`
	Offset int64  `json:"offset"` // bytes from the start of the payload
	Size   int64  `json:"size"`   // bytes
}
