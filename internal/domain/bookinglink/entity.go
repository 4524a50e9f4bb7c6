// Package bookinglink models shareable capability tokens that bind a
// URL to a practitioner (optionally scoped to one store) for direct
// booking entry.
package bookinglink

import (
	"time"

	"salon-reserve/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrMissingPractitioner = errs.New("practitioner is required")
	ErrTokenRevoked        = errs.New("token is revoked")
	ErrTokenExpired        = errs.New("token is expired")
)

type Status string

const (
	StatusActive  Status = "active"
	StatusRevoked Status = "revoked"
)

type Token struct {
	id             uuid.UUID
	tenantID       uuid.UUID
	storeID        *uuid.UUID
	practitionerID uuid.UUID
	token          string
	status         Status
	createdBy      uuid.UUID
	createdAt      time.Time
	lastUsedAt     *time.Time
	expiresAt      *time.Time
}

func NewToken(tenantID uuid.UUID, storeID *uuid.UUID, practitionerID, createdBy uuid.UUID, expiresAt *time.Time, now time.Time) (*Token, error) {
	if practitionerID == uuid.Nil {
		return nil, ErrMissingPractitioner
	}
	value, err := GenerateToken()
	if err != nil {
		return nil, err
	}
	return &Token{
		id:             uuid.New(),
		tenantID:       tenantID,
		storeID:        storeID,
		practitionerID: practitionerID,
		token:          value,
		status:         StatusActive,
		createdBy:      createdBy,
		createdAt:      now,
		expiresAt:      expiresAt,
	}, nil
}

func ReconstructToken(
	id, tenantID uuid.UUID,
	storeID *uuid.UUID,
	practitionerID uuid.UUID,
	token string,
	status Status,
	createdBy uuid.UUID,
	createdAt time.Time,
	lastUsedAt, expiresAt *time.Time,
) *Token {
	return &Token{
		id:             id,
		tenantID:       tenantID,
		storeID:        storeID,
		practitionerID: practitionerID,
		token:          token,
		status:         status,
		createdBy:      createdBy,
		createdAt:      createdAt,
		lastUsedAt:     lastUsedAt,
		expiresAt:      expiresAt,
	}
}

// Usable reports whether the token may still resolve at the given time.
func (t *Token) Usable(now time.Time) error {
	if t.status != StatusActive {
		return ErrTokenRevoked
	}
	if t.expiresAt != nil && !now.Before(*t.expiresAt) {
		return ErrTokenExpired
	}
	return nil
}

func (t *Token) ID() uuid.UUID             { return t.id }
func (t *Token) TenantID() uuid.UUID       { return t.tenantID }
func (t *Token) StoreID() *uuid.UUID       { return t.storeID }
func (t *Token) PractitionerID() uuid.UUID { return t.practitionerID }
func (t *Token) Value() string             { return t.token }
func (t *Token) Status() Status            { return t.status }
func (t *Token) CreatedBy() uuid.UUID      { return t.createdBy }
func (t *Token) CreatedAt() time.Time      { return t.createdAt }
func (t *Token) LastUsedAt() *time.Time    { return t.lastUsedAt }
func (t *Token) ExpiresAt() *time.Time     { return t.expiresAt }

// LineConfigSource reports which level of the fallback chain supplied
// the effective messaging configuration, for observability.
type LineConfigSource string

const (
	SourcePractitioner LineConfigSource = "practitioner"
	SourceStore        LineConfigSource = "store"
	SourceTenant       LineConfigSource = "tenant"
	SourceNone         LineConfigSource = "none"
)

// LineChannel is external-messaging channel credentials. The core only
// carries them through; integrations interpret them.
type LineChannel struct {
	ChannelID     string
	ChannelSecret string
}

// ResolveLineConfig walks practitioner → store → tenant, short-circuiting
// at the first present config. The practitioner level is consulted only
// when the tenant runs in practitioner mode.
func ResolveLineConfig(tenantMode string, practitioner, store, tenant *LineChannel) (*LineChannel, LineConfigSource) {
	if tenantMode == "practitioner" && practitioner != nil {
		return practitioner, SourcePractitioner
	}
	if store != nil {
		return store, SourceStore
	}
	if tenant != nil {
		return tenant, SourceTenant
	}
	return nil, SourceNone
}
