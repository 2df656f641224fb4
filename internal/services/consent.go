package services

import (
	"github.com/abrezinsky/hockeyscorer/internal/kvstore"
	"github.com/abrezinsky/hockeyscorer/internal/logger"
)

// ConsentService records that the user acknowledged local data storage.
// The flag is informational and gates nothing.
type ConsentService struct {
	log logger.Logger
	kv  kvstore.Store
}

// NewConsentService creates a new ConsentService
func NewConsentService(log logger.Logger, kv kvstore.Store) *ConsentService {
	return &ConsentService{log: log, kv: kv}
}

// HasConsent reports whether consent was given
func (s *ConsentService) HasConsent() (bool, error) {
	v, ok, err := s.kv.Get(kvstore.KeyConsent)
	if err != nil {
		return false, err
	}
	return ok && v == "true", nil
}

// GiveConsent records consent
func (s *ConsentService) GiveConsent() error {
	if err := s.kv.Set(kvstore.KeyConsent, "true"); err != nil {
		return err
	}
	s.log.Info("Storage consent given")
	return nil
}
