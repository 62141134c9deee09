package helpers

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

func StringToInt(s string) (int, error) {
	return strconv.Atoi(s)
}

// Pagination reads page/limit query values, falling back to 1 and 10 and
// capping limit at 100.
func Pagination(page, limit string) (int, int, error) {
	pageNum, err := StringToInt(page)
	if err != nil || pageNum < 1 {
		return 0, 0, fmt.Errorf("invalid page number")
	}
	limitNum, err := StringToInt(limit)
	if err != nil || limitNum < 1 {
		return 0, 0, fmt.Errorf("invalid limit")
	}
	if limitNum > 100 {
		limitNum = 100
	}
	return pageNum, limitNum, nil
}

func deriveKey(secret string) []byte {
	hash := sha256.Sum256([]byte(secret))
	return hash[:]
}

func encryptID(id uuid.UUID, secret string) (string, error) {
	block, err := aes.NewCipher(deriveKey(secret))
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ciphertext := gcm.Seal(nonce, nonce, []byte(id.String()), nil)
	return base64.RawURLEncoding.EncodeToString(ciphertext), nil
}

func decryptID(encrypted, secret string) (uuid.UUID, error) {
	data, err := base64.RawURLEncoding.DecodeString(encrypted)
	if err != nil {
		return uuid.Nil, err
	}

	block, err := aes.NewCipher(deriveKey(secret))
	if err != nil {
		return uuid.Nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return uuid.Nil, err
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return uuid.Nil, fmt.Errorf("invalid cipher text")
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return uuid.Nil, err
	}

	id, err := uuid.Parse(string(plaintext))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid transaction ID format")
	}
	return id, nil
}

// NewOrderReference builds an opaque "ORD-<unix>-<ciphertext>" reference
// that only this server can map back to the transaction id.
func NewOrderReference(transactionID uuid.UUID, secret string, now time.Time) (string, error) {
	encrypted, err := encryptID(transactionID, secret)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("ORD-%d-%s", now.Unix(), encrypted), nil
}

func ExtractTransactionID(reference, secret string) (uuid.UUID, error) {
	parts := strings.Split(reference, "-")
	if len(parts) < 3 || parts[0] != "ORD" {
		return uuid.Nil, fmt.Errorf("invalid order reference format")
	}

	encryptedPart := strings.Join(parts[2:], "-")

	return decryptID(encryptedPart, secret)
}
