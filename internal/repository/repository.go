// Package repository contains the gorm-backed persistence layer. Each
// repository is an interface with a single gorm implementation so services
// can be tested against fakes.
package repository

import "errors"

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("record not found")
