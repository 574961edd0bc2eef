package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPixKey(t *testing.T) {
	tests := []struct {
		name    string
		keyType string
		key     string
		wantErr bool
	}{
		{name: "valid email", keyType: "email", key: "merchant@example.com"},
		{name: "malformed email", keyType: "email", key: "not-an-email", wantErr: true},
		{name: "valid phone", keyType: "phone", key: "+5511999990000"},
		{name: "phone without country code", keyType: "phone", key: "11999990000", wantErr: true},
		{name: "phone with letters", keyType: "phone", key: "+55eleven", wantErr: true},
		{name: "valid cpf", keyType: "document", key: "52998224725"},
		{name: "valid cnpj", keyType: "document", key: "11222333000181"},
		{name: "document with punctuation", keyType: "document", key: "529.982.247-25", wantErr: true},
		{name: "document wrong length", keyType: "document", key: "12345", wantErr: true},
		{name: "valid random key", keyType: "random", key: "123e4567-e89b-42d3-a456-426614174000"},
		{name: "random key not a uuid", keyType: "random", key: "rand0m-key", wantErr: true},
		{name: "unknown type", keyType: "iban", key: "merchant@example.com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := PixKey(tt.keyType, tt.key)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
