package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
)

func TestAllow(t *testing.T) {
	const key = "ratelimit:user-1:POST /api/v1/deposits:10.0.0.1"

	tests := []struct {
		name      string
		mockSetup func(mock redismock.ClientMock)
		allowed   bool
		expectErr bool
	}{
		{
			name: "first request opens the window",
			mockSetup: func(mock redismock.ClientMock) {
				mock.ExpectIncr(key).SetVal(1)
				mock.ExpectExpire(key, time.Minute).SetVal(true)
			},
			allowed: true,
		},
		{
			name: "request within budget",
			mockSetup: func(mock redismock.ClientMock) {
				mock.ExpectIncr(key).SetVal(60)
			},
			allowed: true,
		},
		{
			name: "request over budget",
			mockSetup: func(mock redismock.ClientMock) {
				mock.ExpectIncr(key).SetVal(61)
			},
			allowed: false,
		},
		{
			name: "redis error propagated",
			mockSetup: func(mock redismock.ClientMock) {
				mock.ExpectIncr(key).SetErr(errors.New("connection refused"))
			},
			expectErr: true,
		},
		{
			name: "expire error propagated",
			mockSetup: func(mock redismock.ClientMock) {
				mock.ExpectIncr(key).SetVal(1)
				mock.ExpectExpire(key, time.Minute).SetErr(errors.New("connection refused"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rdb, mock := redismock.NewClientMock()
			limiter := New(rdb, 60, time.Minute)
			tt.mockSetup(mock)

			allowed, err := limiter.Allow(context.Background(), "user-1", "POST /api/v1/deposits", "10.0.0.1")
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.allowed, allowed)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
