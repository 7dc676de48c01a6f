// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the longest secret bcrypt accepts.
const MaxPasswordBytes = 72

// ErrInvalidCost is returned by [NewHasher] when the work factor is out of range.
var ErrInvalidCost = errors.New("sec: bcrypt cost out of range")

// Hasher salts, hashes and verifies passwords with bcrypt.
//
// The produced hash encodes both salt and cost, so verification needs nothing
// beyond the stored value.
type Hasher struct {
	cost  int
	dummy []byte
}

// NewHasher creates a [Hasher] with the given bcrypt work factor.
//
// It also precomputes a throwaway hash used by [Hasher.CompareDummy] so that
// lookups of unknown accounts spend the same time as a real comparison.
func NewHasher(cost int) (*Hasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCost, cost)
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte("bloglist-dummy-secret"), cost)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to prepare dummy hash: %w", err)
	}

	return &Hasher{cost: cost, dummy: dummy}, nil
}

// Cost returns the configured work factor.
func (h *Hasher) Cost() int { return h.cost }

// Hash hashes a plain-text password using the bcrypt algorithm.
func (h *Hasher) Hash(plainTextPassword string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), h.cost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// Verify compares a plain-text password with its hashed version.
// A mismatch or a corrupt hash both yield false.
func (h *Hasher) Verify(plainTextPassword, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword))
	return err == nil
}

// CompareDummy burns one bcrypt comparison and always reports false.
func (h *Hasher) CompareDummy(plainTextPassword string) bool {
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(plainTextPassword))
	return false
}
