package dto

import (
	"encoding/base64"
	"encoding/json"

	"github.com/cockroachdb/errors"

	"github.com/mimichq/mimic-backend/models"
)

// Cursor tokens are the base64 of the JSON cursor, treated as opaque by
// clients.
func EncodeCursor(cursor models.Cursor) string {
	encoded, _ := json.Marshal(cursor)
	return base64.URLEncoding.EncodeToString(encoded)
}

func DecodeCursor(token string) (models.Cursor, error) {
	if token == "" {
		return models.Cursor{}, nil
	}
	decoded, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return models.Cursor{}, errors.Wrap(models.BadParameterError, "invalid cursor token")
	}
	var cursor models.Cursor
	if err := json.Unmarshal(decoded, &cursor); err != nil {
		return models.Cursor{}, errors.Wrap(models.BadParameterError, "invalid cursor token")
	}
	return cursor, nil
}
