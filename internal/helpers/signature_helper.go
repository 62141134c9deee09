package helpers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// IntegritySignature is the checksum the hosted payment widget recomputes
// before charging: sha256(reference + amountInCents + currency + secret).
func IntegritySignature(reference string, amountInCents int64, currency, secret string) string {
	hash := sha256.Sum256([]byte(reference + strconv.FormatInt(amountInCents, 10) + currency + secret))
	return hex.EncodeToString(hash[:])
}

// EventChecksum authenticates a payment provider notification.
func EventChecksum(reference, status string, amountInCents int64, secret string) string {
	hash := sha256.Sum256([]byte(reference + status + strconv.FormatInt(amountInCents, 10) + secret))
	return hex.EncodeToString(hash[:])
}

func ChecksumEqual(expected, got string) bool {
	return hmac.Equal([]byte(strings.ToLower(expected)), []byte(strings.ToLower(got)))
}

func qrSignature(qrID, transactionID, userID uuid.UUID, secretKey string) string {
	data := fmt.Sprintf("%s:%s:%s", qrID.String(), transactionID.String(), userID.String())
	h := hmac.New(sha256.New, []byte(secretKey))
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}

// QRPayload is the text encoded in an admission QR image.
func QRPayload(qrID, transactionID, userID uuid.UUID, secretKey string) string {
	return fmt.Sprintf("qr:%s;order:%s;signature:%s",
		qrID.String(),
		transactionID.String(),
		qrSignature(qrID, transactionID, userID, secretKey),
	)
}

// ParseQRPayload splits a payload into its QR id, order id and signature.
// ValidQRSignature checks the signature.
func ParseQRPayload(payload string) (qrID, transactionID uuid.UUID, signature string, err error) {
	parts := strings.Split(payload, ";")
	if len(parts) != 3 || !strings.HasPrefix(parts[0], "qr:") || !strings.HasPrefix(parts[1], "order:") || !strings.HasPrefix(parts[2], "signature:") {
		return uuid.Nil, uuid.Nil, "", fmt.Errorf("invalid QR payload format")
	}
	if qrID, err = uuid.Parse(strings.TrimPrefix(parts[0], "qr:")); err != nil {
		return uuid.Nil, uuid.Nil, "", fmt.Errorf("invalid QR id: %w", err)
	}
	if transactionID, err = uuid.Parse(strings.TrimPrefix(parts[1], "order:")); err != nil {
		return uuid.Nil, uuid.Nil, "", fmt.Errorf("invalid order id: %w", err)
	}
	return qrID, transactionID, strings.TrimPrefix(parts[2], "signature:"), nil
}

func ValidQRSignature(qrID, transactionID, userID uuid.UUID, signature, secretKey string) bool {
	expected := qrSignature(qrID, transactionID, userID, secretKey)
	return hmac.Equal([]byte(expected), []byte(signature))
}
