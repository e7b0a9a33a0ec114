// internal/core/domain/id.go
package domain

import (
	"strings"

	"curatorx/internal/platform/errors"
)

// idSeparator separa el tag de la fuente del identificador nativo.
const idSeparator = ":"

// FormatID construye el ID compuesto "<source>:<nativeId>".
func FormatID(src Source, nativeID string) string {
	return string(src) + idSeparator + strings.TrimSpace(nativeID)
}

// ParseID splits a compound ID at its first separator. The native part is
// returned verbatim, so FormatID(ParseID(id)) == id for every valid id.
func ParseID(compound string) (Source, string, error) {
	tag, native, ok := strings.Cut(strings.TrimSpace(compound), idSeparator)
	if !ok {
		return "", "", errors.Wrapf(errors.ErrInvalidInput, "malformed artwork id %q: missing source prefix", compound)
	}
	src := Source(tag)
	if !src.IsValid() {
		return "", "", errors.Wrapf(errors.ErrUnknownSource, "artwork id %q", compound)
	}
	if native == "" {
		return "", "", errors.Wrapf(errors.ErrInvalidInput, "malformed artwork id %q: empty native id", compound)
	}
	return src, native, nil
}
