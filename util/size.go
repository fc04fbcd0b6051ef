package util

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
)

// Common IEC sizes
const (
	KiB = 1 << 10
	MiB = 1 << 20
	GiB = 1 << 30
)

// ParseSize converts a human readable size to bytes. Suffixes are case
// insensitive: "Ki", "Mi", "Gi" (with or without a trailing "B") are powers
// of 1024, "K", "M", "G" (with or without "B") powers of 1000. A bare number
// or a trailing "B" is a byte count.
func ParseSize(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty size")
	}

	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid size %q", s)
	}
	return n, nil
}

// FormatSize renders n with IEC units, e.g. "768 MiB"
func FormatSize(n uint64) string {
	return humanize.IBytes(n)
}
