package signature

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerify(t *testing.T) {
	secret := "webhook-secret"
	body := []byte(`{"status":"paid","externalRef":"deposit_42","amount":500.00}`)
	sig := Sign(body, secret)

	tests := []struct {
		name   string
		body   []byte
		header string
		secret string
		want   bool
	}{
		{
			name:   "valid signature",
			body:   body,
			header: sig,
			secret: secret,
			want:   true,
		},
		{
			name:   "missing header rejected",
			body:   body,
			header: "",
			secret: secret,
			want:   false,
		},
		{
			name:   "wrong secret rejected",
			body:   body,
			header: sig,
			secret: "other-secret",
			want:   false,
		},
		{
			name:   "non-hex header rejected",
			body:   body,
			header: "not-a-digest",
			secret: secret,
			want:   false,
		},
		{
			name:   "truncated digest rejected",
			body:   body,
			header: sig[:32],
			secret: secret,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Verify(tt.body, tt.header, tt.secret))
		})
	}
}

func TestVerifyAnyFlippedByteFails(t *testing.T) {
	secret := "webhook-secret"
	body := []byte(`{"status":"approved","externalRef":"deposit_7"}`)
	sig := Sign(body, secret)

	for i := range body {
		tampered := make([]byte, len(body))
		copy(tampered, body)
		tampered[i] ^= 0x01
		assert.False(t, Verify(tampered, sig, secret), "flip at offset %d verified", i)
	}
}
