package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/xxh3"
)

// sink is where the dump text goes: stdout or a file, optionally zstd
// compressed. It hashes the plain text as it passes through.
type sink struct {
	w       io.Writer
	hash    *xxh3.Hasher
	enc     *zstd.Encoder
	file    *os.File
	written int64
}

func openSink(path, compression string) (*sink, error) {
	s := &sink{hash: xxh3.New()}

	var out io.Writer = os.Stdout
	if path != "" && path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("failed to create output file: %w", err)
		}
		s.file = f
		out = f
	}

	switch compression {
	case "", "none":
	case "zstd":
		enc, err := zstd.NewWriter(out, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
		}
		s.enc = enc
		out = enc
	default:
		s.Close()
		return nil, fmt.Errorf("unknown compression %q (want none or zstd)", compression)
	}

	s.w = io.MultiWriter(out, s.hash)
	return s, nil
}

func (s *sink) Write(p []byte) (int, error) {
	n, err := s.w.Write(p)
	s.written += int64(n)
	return n, err
}

// Close flushes the encoder and closes the file. Stdout is left open.
func (s *sink) Close() error {
	var firstErr error
	if s.enc != nil {
		if err := s.enc.Close(); err != nil {
			firstErr = fmt.Errorf("failed to finish zstd stream: %w", err)
		}
	}
	if s.file != nil {
		if err := s.file.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close output file: %w", err)
		}
	}
	return firstErr
}

// Checksum is the xxh3 hash of the uncompressed text written so far.
func (s *sink) Checksum() string {
	return fmt.Sprintf("%016x", s.hash.Sum64())
}
