package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mimichq/mimic-backend/models"
)

const testWebhookSecret = "whsec_MfKQ9r8GKYqrTwjUPD8ILPZIo2LaLaSw"

func signTestPayload(t *testing.T, msgId, timestamp string, payload []byte) string {
	t.Helper()
	key, err := base64.StdEncoding.DecodeString("MfKQ9r8GKYqrTwjUPD8ILPZIo2LaLaSw")
	require.NoError(t, err)

	mac := hmac.New(sha256.New, key)
	fmt.Fprintf(mac, "%s.%s.", msgId, timestamp)
	mac.Write(payload)
	return "v1," + base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func newTestVerifier(t *testing.T, now time.Time) *WebhookVerifier {
	t.Helper()
	verifier, err := NewWebhookVerifier(testWebhookSecret)
	require.NoError(t, err)
	verifier.now = func() time.Time { return now }
	return verifier
}

func TestWebhookVerifier_ValidSignature(t *testing.T) {
	now := time.Now()
	verifier := newTestVerifier(t, now)

	payload := []byte(`{"type":"user.created"}`)
	timestamp := strconv.FormatInt(now.Unix(), 10)
	signature := signTestPayload(t, "msg_1", timestamp, payload)

	err := verifier.Verify("msg_1", timestamp, signature, payload)

	assert.NoError(t, err)
}

func TestWebhookVerifier_MultipleSignatures(t *testing.T) {
	now := time.Now()
	verifier := newTestVerifier(t, now)

	payload := []byte(`{"type":"user.updated"}`)
	timestamp := strconv.FormatInt(now.Unix(), 10)
	valid := signTestPayload(t, "msg_2", timestamp, payload)
	header := "v1,Zm9vYmFy " + valid

	err := verifier.Verify("msg_2", timestamp, header, payload)

	assert.NoError(t, err)
}

func TestWebhookVerifier_TamperedPayload(t *testing.T) {
	now := time.Now()
	verifier := newTestVerifier(t, now)

	payload := []byte(`{"type":"user.created"}`)
	timestamp := strconv.FormatInt(now.Unix(), 10)
	signature := signTestPayload(t, "msg_3", timestamp, payload)

	err := verifier.Verify("msg_3", timestamp, signature, []byte(`{"type":"user.deleted"}`))

	assert.ErrorIs(t, err, models.UnAuthorizedError)
}

func TestWebhookVerifier_MissingHeaders(t *testing.T) {
	verifier := newTestVerifier(t, time.Now())

	err := verifier.Verify("", "", "", []byte(`{}`))

	assert.ErrorIs(t, err, models.BadParameterError)
}

func TestWebhookVerifier_StaleTimestamp(t *testing.T) {
	now := time.Now()
	verifier := newTestVerifier(t, now)

	payload := []byte(`{"type":"user.created"}`)
	stale := strconv.FormatInt(now.Add(-10*time.Minute).Unix(), 10)
	signature := signTestPayload(t, "msg_4", stale, payload)

	err := verifier.Verify("msg_4", stale, signature, payload)

	assert.ErrorIs(t, err, models.UnAuthorizedError)
}

func TestWebhookVerifier_FutureTimestamp(t *testing.T) {
	now := time.Now()
	verifier := newTestVerifier(t, now)

	payload := []byte(`{"type":"user.created"}`)
	future := strconv.FormatInt(now.Add(10*time.Minute).Unix(), 10)
	signature := signTestPayload(t, "msg_5", future, payload)

	err := verifier.Verify("msg_5", future, signature, payload)

	assert.ErrorIs(t, err, models.UnAuthorizedError)
}

func TestNewWebhookVerifier_BadSecret(t *testing.T) {
	_, err := NewWebhookVerifier("whsec_not-base64!!!")

	assert.Error(t, err)
}
