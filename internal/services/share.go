package services

import (
	"strings"

	"github.com/skip2/go-qrcode"

	"github.com/abrezinsky/hockeyscorer/internal/logger"
)

const (
	defaultQRSize = 256
	maxQRSize     = 1024
)

// ShareService builds links and QR codes that open the scoreboard
type ShareService struct {
	log     logger.Logger
	baseURL string
}

// NewShareService creates a new ShareService for the given base URL
func NewShareService(log logger.Logger, baseURL string) *ShareService {
	return &ShareService{log: log, baseURL: strings.TrimRight(baseURL, "/")}
}

// ScoreboardURL returns the address of the scoreboard page
func (s *ShareService) ScoreboardURL() string {
	return s.baseURL + "/"
}

// QRCode returns a PNG QR code for the scoreboard URL. Sizes outside
// 1..1024 fall back to 256.
func (s *ShareService) QRCode(size int) ([]byte, error) {
	if size <= 0 || size > maxQRSize {
		size = defaultQRSize
	}
	return qrcode.Encode(s.ScoreboardURL(), qrcode.Medium, size)
}
