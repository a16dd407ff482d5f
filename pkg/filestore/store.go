// Package filestore keeps uploaded and processed image bytes addressed by a
// flat file name. Names are validated on every call so a store can never be
// asked to read or write outside its root.
package filestore

import (
	"context"
	"errors"
)

var (
	ErrNotExist    = errors.New("file does not exist")
	ErrInvalidName = errors.New("invalid file name")
)

type Store interface {
	Put(ctx context.Context, name string, data []byte) error
	Get(ctx context.Context, name string) ([]byte, error)
	Exists(ctx context.Context, name string) (bool, error)
	// DeleteAll removes every object in the store and reports how many went.
	DeleteAll(ctx context.Context) (int, error)
}

func checkName(name string) error {
	if !ValidName(name) {
		return ErrInvalidName
	}
	return nil
}
