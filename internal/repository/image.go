package repository

import (
	"fmt"
	"strconv"
	"strings"
)

// EncodeImage renders a database image as comma-separated decimal bytes,
// the format the image is kept in under kvstore.KeyDatabase.
func EncodeImage(raw []byte) string {
	var b strings.Builder
	b.Grow(len(raw) * 4)
	for i, v := range raw {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(int(v)))
	}
	return b.String()
}

// DecodeImage parses the output of EncodeImage
func DecodeImage(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty image", ErrCorruptImage)
	}
	parts := strings.Split(s, ",")
	raw := make([]byte, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 || n > 255 {
			return nil, fmt.Errorf("%w: bad byte %q at offset %d", ErrCorruptImage, p, i)
		}
		raw[i] = byte(n)
	}
	return raw, nil
}
