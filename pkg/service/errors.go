package service

import (
	"errors"

	"github.com/mattsolo1/notesplusplus/pkg/storage"
)

func isCorrupt(err error) bool {
	return errors.Is(err, storage.ErrCorruptContent)
}
