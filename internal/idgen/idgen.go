// Package idgen hands out identifiers for stored entities.
package idgen

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Generator produces unique string identifiers
type Generator interface {
	NewID() (string, error)
}

// UUID generates version 7 UUIDs. They sort by creation time and do not
// collide when many are created in the same millisecond.
type UUID struct{}

func (UUID) NewID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}
	return id.String(), nil
}

// NanoID generates short URL-safe ids, used for roster entries
type NanoID struct {
	Size int // 0 means the nanoid default of 21
}

func (g NanoID) NewID() (string, error) {
	var (
		id  string
		err error
	)
	if g.Size > 0 {
		id, err = gonanoid.New(g.Size)
	} else {
		id, err = gonanoid.New()
	}
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return id, nil
}

// Sequence generates prefix-1, prefix-2, ... for deterministic tests
type Sequence struct {
	Prefix string
	n      atomic.Int64
}

func (s *Sequence) NewID() (string, error) {
	return fmt.Sprintf("%s-%d", s.Prefix, s.n.Add(1)), nil
}

var (
	_ Generator = UUID{}
	_ Generator = NanoID{}
	_ Generator = (*Sequence)(nil)
)
