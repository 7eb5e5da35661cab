package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/mimichq/mimic-backend/models"
)

const webhookTimestampTolerance = 5 * time.Minute

// WebhookVerifier checks the signature scheme used by the identity provider:
// an HMAC-SHA256 of "id.timestamp.payload" with a base64-encoded secret,
// carried in the webhook-id / webhook-timestamp / webhook-signature headers.
type WebhookVerifier struct {
	key []byte
	now func() time.Time
}

func NewWebhookVerifier(secret string) (*WebhookVerifier, error) {
	// Secrets are distributed with a "whsec_" prefix in front of the
	// base64-encoded key material.
	encoded := strings.TrimPrefix(secret, "whsec_")
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, errors.Wrap(err, "invalid webhook secret")
	}
	return &WebhookVerifier{key: key, now: time.Now}, nil
}

func (v *WebhookVerifier) Verify(msgId, timestamp, signatureHeader string, payload []byte) error {
	if msgId == "" || timestamp == "" || signatureHeader == "" {
		return errors.Wrap(models.BadParameterError, "missing webhook signature headers")
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return errors.Wrap(models.BadParameterError, "invalid webhook timestamp")
	}
	age := v.now().Sub(time.Unix(ts, 0))
	if age > webhookTimestampTolerance || age < -webhookTimestampTolerance {
		return errors.Wrap(models.UnAuthorizedError, "webhook timestamp outside of tolerance")
	}

	expected := v.sign(msgId, timestamp, payload)

	// The header can carry several space-separated signatures, each prefixed
	// with a version. Any matching v1 signature is accepted.
	for _, part := range strings.Split(signatureHeader, " ") {
		version, signature, found := strings.Cut(part, ",")
		if !found || version != "v1" {
			continue
		}
		provided, err := base64.StdEncoding.DecodeString(signature)
		if err != nil {
			continue
		}
		if hmac.Equal(provided, expected) {
			return nil
		}
	}
	return errors.Wrap(models.UnAuthorizedError, "webhook signature mismatch")
}

func (v *WebhookVerifier) sign(msgId, timestamp string, payload []byte) []byte {
	mac := hmac.New(sha256.New, v.key)
	fmt.Fprintf(mac, "%s.%s.", msgId, timestamp)
	mac.Write(payload)
	return mac.Sum(nil)
}
