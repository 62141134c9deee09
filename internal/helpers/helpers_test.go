package helpers

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegritySignature(t *testing.T) {
	got := IntegritySignature("ORD-1", 2990000, "COP", "secret")

	assert.Len(t, got, 64)
	assert.Equal(t, got, IntegritySignature("ORD-1", 2990000, "COP", "secret"))
	assert.NotEqual(t, got, IntegritySignature("ORD-1", 2990001, "COP", "secret"))
	assert.NotEqual(t, got, IntegritySignature("ORD-1", 2990000, "COP", "other"))
}

func TestIntegritySignature_Concatenation(t *testing.T) {
	sum := sha256.Sum256([]byte("ref42COPs3cr3t"))

	assert.Equal(t, hex.EncodeToString(sum[:]), IntegritySignature("ref", 42, "COP", "s3cr3t"))
}

func TestChecksumEqual(t *testing.T) {
	sum := EventChecksum("ORD-1", "APPROVED", 100, "events")

	assert.True(t, ChecksumEqual(sum, sum))
	assert.True(t, ChecksumEqual(sum, strings.ToUpper(sum)))
	assert.False(t, ChecksumEqual(sum, EventChecksum("ORD-1", "DECLINED", 100, "events")))
}

func TestOrderReferenceRoundTrip(t *testing.T) {
	id := uuid.New()

	ref, err := NewOrderReference(id, "jwt-secret", time.Unix(1700000000, 0))
	require.NoError(t, err)
	assert.Contains(t, ref, "ORD-1700000000-")

	got, err := ExtractTransactionID(ref, "jwt-secret")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = ExtractTransactionID(ref, "wrong-secret")
	assert.Error(t, err)
	_, err = ExtractTransactionID("INV-123", "jwt-secret")
	assert.Error(t, err)
}

func TestQRPayload(t *testing.T) {
	qrID, txID, userID := uuid.New(), uuid.New(), uuid.New()

	payload := QRPayload(qrID, txID, userID, "secret")
	gotQR, gotTx, sig, err := ParseQRPayload(payload)
	require.NoError(t, err)

	assert.Equal(t, qrID, gotQR)
	assert.Equal(t, txID, gotTx)
	assert.True(t, ValidQRSignature(qrID, txID, userID, sig, "secret"))
	assert.False(t, ValidQRSignature(qrID, txID, uuid.New(), sig, "secret"))

	_, _, _, err = ParseQRPayload("purchase:x")
	assert.Error(t, err)
}

func TestPagination(t *testing.T) {
	page, limit, err := Pagination("2", "500")
	require.NoError(t, err)
	assert.Equal(t, 2, page)
	assert.Equal(t, 100, limit)

	_, _, err = Pagination("0", "10")
	assert.Error(t, err)
	_, _, err = Pagination("1", "abc")
	assert.Error(t, err)
}
