package cachepatch

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/krisalay/gql-cache-patch/types"
)

// isMissingField reports whether a read failed because the cache does not
// hold a selected field. Caches other than inmemory only promise the message.
func isMissingField(err error) bool {
	return errors.Is(err, types.ErrMissingField) ||
		strings.Contains(err.Error(), types.MissingFieldMessage)
}
