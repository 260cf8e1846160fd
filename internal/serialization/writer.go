package serialization

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"time"

	"github.com/born-ml/surrogate/internal/tensor"
)

// Write encodes the tensors in .srgt format.
//
// Tensors are stored sorted by name so the same state always produces the
// same payload.
func Write(w io.Writer, stateDict map[string]*tensor.RawTensor, modelType string, metadata map[string]string) error {
	names := make([]string, 0, len(stateDict))
	for name := range stateDict {
		names = append(names, name)
	}
	slices.Sort(names)

	header := Header{
		FormatVersion: FormatVersion,
		ModelType:     modelType,
		CreatedAt:     time.Now().UTC(),
		Tensors:       make([]TensorMeta, 0, len(names)),
		Metadata:      metadata,
	}

	var payload bytes.Buffer
	var offset int64
	for _, name := range names {
		raw := stateDict[name]
		size := int64(raw.NumElements() * bytesPerFloat32)
		header.Tensors = append(header.Tensors, TensorMeta{
			Name:   name,
			Shape:  []int(raw.Shape().Clone()),
			Offset: offset,
			Size:   size,
		})
		offset += size

		buf := make([]byte, size)
		for i, v := range raw.Data() {
			binary.LittleEndian.PutUint32(buf[i*bytesPerFloat32:], math.Float32bits(v))
		}
		payload.Write(buf)
	}

	sum := sha256.Sum256(payload.Bytes())
	header.Checksum = hex.EncodeToString(sum[:])

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}

	if _, err := io.WriteString(w, MagicBytes); err != nil {
		return fmt.Errorf("failed to write magic bytes: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(FormatVersion)); err != nil {
		return fmt.Errorf("failed to write version: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint64(len(headerJSON))); err != nil {
		return fmt.Errorf("failed to write header size: %w", err)
	}
	if _, err := w.Write(headerJSON); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if pad := padding(len(headerJSON)); pad > 0 {
		if _, err := w.Write(make([]byte, pad)); err != nil {
			return fmt.Errorf("failed to write padding: %w", err)
		}
	}
	if _, err := w.Write(payload.Bytes()); err != nil {
		return fmt.Errorf("failed to write tensor data: %w", err)
	}
	return nil
}

// WriteFile writes a checkpoint to path, replacing any existing file.
func WriteFile(path string, stateDict map[string]*tensor.RawTensor, modelType string, metadata map[string]string) (err error) {
	//nolint:gosec // G304: checkpoint path is chosen by the caller
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	return Write(file, stateDict, modelType, metadata)
}

// padding returns the number of zero bytes after a header of headerSize bytes.
func padding(headerSize int) int {
	pos := fixedHeaderSize + headerSize
	return (HeaderAlignment - pos%HeaderAlignment) % HeaderAlignment
}
