package catalog

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ErrNotFound covers both a missing row and a broken ownership chain. The two
// cases are deliberately indistinguishable so that probing ids never reveals
// whether another owner's resource exists.
var ErrNotFound = errors.New("resource not found")

// ErrConflict signals a uniqueness invariant violation, the database
// constraint is the arbiter for racing creates.
var ErrConflict = errors.New("resource already exists")

// Attacher materializes an encoded image into a stable public URL before the
// owning row is written. Implemented by media.Pipeline.
type Attacher interface {
	AttachPhoto(ctx context.Context, encoded, ext string) (string, error)
	AttachStoreQR(ctx context.Context, publicKey string) (string, error)
}

// translate maps gorm errors onto the repository error taxonomy.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConflict
	default:
		return err
	}
}

// capitalize uppercases the first rune and lowercases the rest.
func capitalize(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return strings.ToUpper(string(r[0])) + strings.ToLower(string(r[1:]))
}
