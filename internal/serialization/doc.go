// Package serialization reads and writes surrogate checkpoints.
//
// File layout (.srgt):
//
//	offset  size  field
//	0       4     magic "SRGT"
//	4       4     format version (uint32, little-endian)
//	8       8     header size N (uint64, little-endian)
//	16      N     JSON header (Header)
//	16+N    pad   zero padding to a 64-byte boundary
//	...           tensor payload, float32 little-endian, in header order
//
// The header stores a SHA-256 checksum of the payload, verified on read.
package serialization
