//go:build unit

package bookinglink_test

import (
	"testing"
	"time"

	"salon-reserve/internal/domain/bookinglink"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	seen := make(map[string]bool)
	for range 50 {
		token, err := bookinglink.GenerateToken()
		require.NoError(t, err)
		assert.Len(t, token, 32)
		assert.NoError(t, bookinglink.ValidateTokenFormat(token))
		assert.False(t, seen[token], "tokens must not repeat")
		seen[token] = true
	}
}

func TestValidateTokenFormat(t *testing.T) {
	t.Run("accepts alphanumeric of sufficient length", func(t *testing.T) {
		assert.NoError(t, bookinglink.ValidateTokenFormat("abcDEF0123456789"))
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		for _, s := range []string{
			"",
			"short",
			"has spaces in the middle00",
			"semi;colon-injection0000",
			"日本語トークンはだめです0000",
		} {
			assert.ErrorIs(t, bookinglink.ValidateTokenFormat(s), bookinglink.ErrInvalidTokenFormat, "input %q", s)
		}
	})
}

func TestTokenUsable(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tenantID, practitionerID, createdBy := uuid.New(), uuid.New(), uuid.New()

	t.Run("active without expiry is usable", func(t *testing.T) {
		token, err := bookinglink.NewToken(tenantID, nil, practitionerID, createdBy, nil, now)
		require.NoError(t, err)
		assert.NoError(t, token.Usable(now.Add(365*24*time.Hour)))
	})

	t.Run("expiry boundary is exclusive", func(t *testing.T) {
		expiresAt := now.Add(24 * time.Hour)
		token, err := bookinglink.NewToken(tenantID, nil, practitionerID, createdBy, &expiresAt, now)
		require.NoError(t, err)

		assert.NoError(t, token.Usable(expiresAt.Add(-time.Second)))
		assert.ErrorIs(t, token.Usable(expiresAt), bookinglink.ErrTokenExpired)
		assert.ErrorIs(t, token.Usable(expiresAt.Add(time.Second)), bookinglink.ErrTokenExpired)
	})

	t.Run("revoked token never resolves", func(t *testing.T) {
		token := bookinglink.ReconstructToken(
			uuid.New(), tenantID, nil, practitionerID, "abcDEF0123456789abcDEF0123456789",
			bookinglink.StatusRevoked, createdBy, now, nil, nil,
		)
		assert.ErrorIs(t, token.Usable(now), bookinglink.ErrTokenRevoked)
	})

	t.Run("practitioner is required", func(t *testing.T) {
		_, err := bookinglink.NewToken(tenantID, nil, uuid.Nil, createdBy, nil, now)
		assert.ErrorIs(t, err, bookinglink.ErrMissingPractitioner)
	})
}

func TestResolveLineConfig(t *testing.T) {
	practitioner := &bookinglink.LineChannel{ChannelID: "p-id", ChannelSecret: "p-secret"}
	store := &bookinglink.LineChannel{ChannelID: "s-id", ChannelSecret: "s-secret"}
	tenant := &bookinglink.LineChannel{ChannelID: "t-id", ChannelSecret: "t-secret"}

	t.Run("practitioner mode prefers the practitioner channel", func(t *testing.T) {
		ch, source := bookinglink.ResolveLineConfig("practitioner", practitioner, store, tenant)
		assert.Equal(t, practitioner, ch)
		assert.Equal(t, bookinglink.SourcePractitioner, source)
	})

	t.Run("practitioner level skipped outside practitioner mode", func(t *testing.T) {
		ch, source := bookinglink.ResolveLineConfig("tenant", practitioner, store, tenant)
		assert.Equal(t, store, ch)
		assert.Equal(t, bookinglink.SourceStore, source)
	})

	t.Run("falls through to store then tenant", func(t *testing.T) {
		ch, source := bookinglink.ResolveLineConfig("practitioner", nil, store, tenant)
		assert.Equal(t, store, ch)
		assert.Equal(t, bookinglink.SourceStore, source)

		ch, source = bookinglink.ResolveLineConfig("practitioner", nil, nil, tenant)
		assert.Equal(t, tenant, ch)
		assert.Equal(t, bookinglink.SourceTenant, source)
	})

	t.Run("nothing configured", func(t *testing.T) {
		ch, source := bookinglink.ResolveLineConfig("tenant", nil, nil, nil)
		assert.Nil(t, ch)
		assert.Equal(t, bookinglink.SourceNone, source)
	})
}
