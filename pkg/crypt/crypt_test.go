package crypt_test

import (
	"os"
	"testing"

	"github.com/printipid/printipid/pkg/crypt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	os.Setenv("APP_KEY", "test-key-for-crypt")
	os.Exit(m.Run())
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	enc, err := crypt.Encrypt("ord_abc123")
	require.NoError(t, err)
	assert.NotEqual(t, "ord_abc123", enc)

	plain, err := crypt.Decrypt(enc)
	require.NoError(t, err)
	assert.Equal(t, "ord_abc123", plain)
}

func TestDecryptTamperedCiphertext(t *testing.T) {
	enc, err := crypt.Encrypt("tracking token")
	require.NoError(t, err)

	// Flip a character in the middle of the token.
	tampered := []byte(enc)
	mid := len(tampered) / 2
	if tampered[mid] == 'A' {
		tampered[mid] = 'B'
	} else {
		tampered[mid] = 'A'
	}

	_, err = crypt.Decrypt(string(tampered))
	assert.ErrorIs(t, err, crypt.ErrDecrypt)
}

func TestEncryptJSONRoundTrip(t *testing.T) {
	type trackingToken struct {
		OrderID string `json:"orderId"`
	}

	enc, err := crypt.EncryptJSON(trackingToken{OrderID: "ord_42"})
	require.NoError(t, err)

	var out trackingToken
	require.NoError(t, crypt.DecryptJSON(enc, &out))
	assert.Equal(t, "ord_42", out.OrderID)
}
