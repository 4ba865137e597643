package services

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tradewind-gg/tradewind/backend/config"
	"github.com/tradewind-gg/tradewind/tradewind"
)

func newSessionFixture(key string) *SessionService {
	cfg := config.NewWebAppConfig(&tradewind.Config{
		Web: tradewind.WebConfig{SessionKey: key},
	}, true)
	return NewSessionService(cfg, nil)
}

func TestSignAndVerifyRoundTrip(t *testing.T) {
	svc := newSessionFixture("test-signing-key")

	signed, err := svc.signData([]byte("session-id-123"))
	require.NoError(t, err)

	data, err := svc.verifyAndDecodeData(signed)
	require.NoError(t, err)
	require.Equal(t, "session-id-123", string(data))
}

func TestVerifyRejectsTampering(t *testing.T) {
	svc := newSessionFixture("test-signing-key")

	signed, err := svc.signData([]byte("session-id-123"))
	require.NoError(t, err)

	raw, err := base64.URLEncoding.DecodeString(signed)
	require.NoError(t, err)
	raw[0] ^= 0xff
	tampered := base64.URLEncoding.EncodeToString(raw)

	_, err = svc.verifyAndDecodeData(tampered)
	require.Error(t, err)
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	signer := newSessionFixture("key-one")
	verifier := newSessionFixture("key-two")

	signed, err := signer.signData([]byte("session-id-123"))
	require.NoError(t, err)

	_, err = verifier.verifyAndDecodeData(signed)
	require.Error(t, err)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	svc := newSessionFixture("test-signing-key")

	_, err := svc.verifyAndDecodeData("not-base64!!")
	require.Error(t, err)

	_, err = svc.verifyAndDecodeData(base64.URLEncoding.EncodeToString([]byte("short")))
	require.Error(t, err)
}

func TestSigningRequiresKey(t *testing.T) {
	svc := newSessionFixture("")

	_, err := svc.signData([]byte("session-id-123"))
	require.Error(t, err)
}
