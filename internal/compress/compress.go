package compress

import "fmt"

// Compress encodes and decodes stored payloads.
type Compress interface {
	Encode(data []byte) ([]byte, error)
	Decode(data []byte) ([]byte, error)
}

// ForCodec returns the codec registered under the given name.
func ForCodec(name string) (Compress, error) {
	switch name {
	case "nop", "":
		return NewNop(), nil
	case "gzip":
		return NewGZip(), nil
	case "brotli":
		return NewBrotli(), nil
	case "lz4":
		return NewLZ4(), nil
	default:
		return nil, fmt.Errorf("unknown compression codec %q", name)
	}
}
