package serialization

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/born-ml/surrogate/internal/tensor"
)

// File is a decoded checkpoint.
type File struct {
	Header  Header
	Tensors map[string]*tensor.RawTensor
}

// Read decodes a .srgt checkpoint and verifies its checksum.
func Read(r io.Reader) (*File, error) {
	magic := make([]byte, len(MagicBytes))
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, fmt.Errorf("failed to read magic bytes: %w", err)
	}
	if string(magic) != MagicBytes {
		return nil, ErrInvalidMagic
	}

	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("failed to read version: %w", err)
	}
	if version != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	var headerSize uint64
	if err := binary.Read(r, binary.LittleEndian, &headerSize); err != nil {
		return nil, fmt.Errorf("failed to read header size: %w", err)
	}
	if headerSize > maxHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrHeaderTooLarge, headerSize)
	}

	headerJSON := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerJSON); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	var header Header
	if err := json.Unmarshal(headerJSON, &header); err != nil {
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}

	if _, err := io.CopyN(io.Discard, r, int64(padding(int(headerSize)))); err != nil {
		return nil, fmt.Errorf("failed to skip padding: %w", err)
	}

	var payloadSize int64
	for _, meta := range header.Tensors {
		if err := validateMeta(meta, payloadSize); err != nil {
			return nil, err
		}
		if meta.Size > maxPayloadSize-payloadSize {
			return nil, fmt.Errorf("%w: more than %d bytes", ErrPayloadTooLarge, int64(maxPayloadSize))
		}
		payloadSize += meta.Size
	}

	payload := make([]byte, payloadSize)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("failed to read tensor data: %w", err)
	}

	sum := sha256.Sum256(payload)
	if len(header.Checksum) != checksumHexBytes || hex.EncodeToString(sum[:]) != header.Checksum {
		return nil, ErrChecksumMismatch
	}

	tensors := make(map[string]*tensor.RawTensor, len(header.Tensors))
	for _, meta := range header.Tensors {
		raw, err := tensor.NewRaw(tensor.Shape(meta.Shape))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidTensor, meta.Name, err)
		}
		data := raw.Data()
		chunk := payload[meta.Offset : meta.Offset+meta.Size]
		for i := range data {
			data[i] = math.Float32frombits(binary.LittleEndian.Uint32(chunk[i*bytesPerFloat32:]))
		}
		tensors[meta.Name] = raw
	}

	return &File{Header: header, Tensors: tensors}, nil
}

// ReadFile reads a checkpoint from path.
func ReadFile(path string) (*File, error) {
	//nolint:gosec // G304: checkpoint path is chosen by the caller
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Read(file)
}

// validateMeta checks that a tensor is contiguous with the previous one and
// that its size matches its shape.
func validateMeta(meta TensorMeta, expectedOffset int64) error {
	if meta.Offset != expectedOffset {
		return fmt.Errorf("%w: %s: offset %d, expected %d", ErrInvalidTensor, meta.Name, meta.Offset, expectedOffset)
	}
	if err := tensor.Shape(meta.Shape).Validate(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidTensor, meta.Name, err)
	}
	elements := int64(1)
	for _, dim := range meta.Shape {
		if int64(dim) > maxPayloadSize/bytesPerFloat32/elements {
			return fmt.Errorf("%w: %s: shape %v", ErrPayloadTooLarge, meta.Name, meta.Shape)
		}
		elements *= int64(dim)
	}
	if want := elements * bytesPerFloat32; meta.Size != want {
		return fmt.Errorf("%w: %s: size %d, expected %d", ErrInvalidTensor, meta.Name, meta.Size, want)
	}
	return nil
}
