package authtoken_test

import (
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrupp/storefront/internal/domain"
	"github.com/mkrupp/storefront/internal/svc/authsvc/authtoken"
)

func encodeToken(t *testing.T, payload map[string]any) string {
	t.Helper()

	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	return header + "." + base64.RawURLEncoding.EncodeToString(body) + ".c2lnbmF0dXJl"
}

func TestDecode(t *testing.T) {
	t.Parallel()

	now := time.Now()

	tests := []struct {
		name    string
		token   string
		want    domain.AuthToken
		wantErr error
	}{
		{
			name: "decodes remote api claims",
			token: encodeToken(t, map[string]any{
				"id": "6407cf6f515bdcf347c09f17", "name": "Ada", "role": "user",
				"iat": now.Unix(), "exp": now.Add(time.Hour).Unix(),
			}),
			want: domain.AuthToken{
				UserID: "6407cf6f515bdcf347c09f17", Name: "Ada", Role: "user",
				IssuedAt: now.Unix(), ExpiresAt: now.Add(time.Hour).Unix(),
			},
		},
		{
			name:  "falls back to sub claim",
			token: encodeToken(t, map[string]any{"sub": "user-7"}),
			want:  domain.AuthToken{UserID: "user-7"},
		},
		{
			name:    "rejects token without subject",
			token:   encodeToken(t, map[string]any{"name": "Ada"}),
			wantErr: domain.ErrInvalidAuthToken,
		},
		{
			name:    "rejects empty token",
			token:   "",
			wantErr: domain.ErrInvalidAuthToken,
		},
		{
			name:    "rejects wrong segment count",
			token:   "only.two",
			wantErr: domain.ErrInvalidAuthToken,
		},
		{
			name:    "rejects payload that is not base64url",
			token:   "eyJhbGciOiJIUzI1NiJ9.%%%.sig",
			wantErr: domain.ErrInvalidAuthToken,
		},
		{
			name: "rejects payload that is not json",
			token: "eyJhbGciOiJIUzI1NiJ9." +
				base64.RawURLEncoding.EncodeToString([]byte("not json")) + ".sig",
			wantErr: domain.ErrInvalidAuthToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := authtoken.Decode(tt.token)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeValid(t *testing.T) {
	t.Parallel()

	now := time.Now()

	expired := encodeToken(t, map[string]any{"id": "u1", "exp": now.Add(-time.Minute).Unix()})
	_, err := authtoken.DecodeValid(expired, now)
	require.ErrorIs(t, err, domain.ErrAuthTokenExpired)

	valid := encodeToken(t, map[string]any{"id": "u1", "exp": now.Add(time.Minute).Unix()})
	token, err := authtoken.DecodeValid(valid, now)
	require.NoError(t, err)
	assert.Equal(t, "u1", token.UserID)

	noExpiry := encodeToken(t, map[string]any{"id": "u1"})
	_, err = authtoken.DecodeValid(noExpiry, now)
	require.NoError(t, err)
}
