package fieldcipher

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/securex/securex/pkg/models"
)

const (
	key128 = "WmZq4t7w!z%C&F)J"
	key256 = "4fJ#x2QmV9!pL7sT0bN$8cR&yE1wK6uZ"
)

func TestRoundTrip(t *testing.T) {
	values := []string{
		"",
		"222818318317",
		"Ramesh Kumar",
		"गांधी नगर, वार्ड 4",
		"line one\nline two\t🙂",
		strings.Repeat("x", 4096),
	}

	for _, key := range []string{key128, key256[:24], key256} {
		for _, v := range values {
			ct, err := Encrypt(v, key)
			require.NoError(t, err)
			assert.NotEqual(t, v, ct)

			pt, err := Decrypt(ct, key)
			require.NoError(t, err)
			assert.Equal(t, v, pt)
		}
	}
}

func TestEncryptIsRandomized(t *testing.T) {
	a, err := Encrypt("ABCDE1234F", key128)
	require.NoError(t, err)
	b, err := Encrypt("ABCDE1234F", key128)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestDecryptWrongKey(t *testing.T) {
	ct, err := Encrypt("222818318317", key128)
	require.NoError(t, err)

	_, err = Decrypt(ct, "0000000000000000")
	assert.True(t, errors.Is(err, models.ErrDecryption))

	var de *models.DecryptionError
	assert.True(t, errors.As(err, &de))
}

func TestDecryptCorrupted(t *testing.T) {
	ct, err := Encrypt("Ramesh Kumar", key256)
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(ct)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xff
	tampered := base64.StdEncoding.EncodeToString(raw)

	tests := []struct {
		name       string
		ciphertext string
	}{
		{"tampered", tampered},
		{"not base64", "%%%not-base64%%%"},
		{"truncated", base64.StdEncoding.EncodeToString(raw[:8])},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decrypt(tt.ciphertext, key256)
			assert.ErrorIs(t, err, models.ErrDecryption)
		})
	}
}

func TestInvalidKey(t *testing.T) {
	for _, key := range []string{"", "short", strings.Repeat("k", 17), strings.Repeat("k", 33)} {
		_, err := Encrypt("value", key)
		assert.ErrorIs(t, err, models.ErrValidation, "key length %d", len(key))

		_, err = Decrypt("dmFsdWU=", key)
		assert.ErrorIs(t, err, models.ErrValidation, "key length %d", len(key))

		_, err = New(key)
		assert.ErrorIs(t, err, models.ErrValidation, "key length %d", len(key))
	}
}

func TestCipher(t *testing.T) {
	c, err := New(key128)
	require.NoError(t, err)
	assert.Equal(t, key128, c.Key())

	ct, err := c.Encrypt("9876543210")
	require.NoError(t, err)

	pt, err := Decrypt(ct, key128)
	require.NoError(t, err)
	assert.Equal(t, "9876543210", pt)

	pt, err = c.Decrypt(ct)
	require.NoError(t, err)
	assert.Equal(t, "9876543210", pt)

	other, err := New(key256)
	require.NoError(t, err)
	_, err = other.Decrypt(ct)
	assert.ErrorIs(t, err, models.ErrDecryption)
}
