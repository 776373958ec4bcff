package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// hmacPayload подписываемое содержимое, exp в миллисекундах Unix
type hmacPayload struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	Exp      int64  `json:"exp"`
	JTI      string `json:"jti"`
}

type hmacEnvelope struct {
	Payload string `json:"payload"`
	Hash    string `json:"hash"`
}

// HMACProvider токен вида base64url({"payload": ..., "hash": hex(HMAC-SHA256(secret, payload))})
type HMACProvider struct {
	secret   []byte
	ttl      time.Duration
	denylist Denylist
	now      func() time.Time
}

func NewHMACProvider(cfg Config, denylist Denylist) (*HMACProvider, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &HMACProvider{
		secret:   []byte(cfg.Secret),
		ttl:      cfg.ttl(),
		denylist: denylist,
		now:      time.Now,
	}, nil
}

// SetClock подменяет источник текущего времени
func (p *HMACProvider) SetClock(now func() time.Time) {
	p.now = now
}

func (p *HMACProvider) Issue(_ context.Context, id Identity) (Token, error) {
	expiresAt := p.now().Add(p.ttl)
	payload, err := json.Marshal(hmacPayload{
		Username: id.Username,
		Role:     id.Role,
		Exp:      expiresAt.UnixMilli(),
		JTI:      uuid.NewString(),
	})
	if err != nil {
		return Token{}, fmt.Errorf("marshal payload: %w", err)
	}

	envelope, err := json.Marshal(hmacEnvelope{
		Payload: string(payload),
		Hash:    p.sign(payload),
	})
	if err != nil {
		return Token{}, fmt.Errorf("marshal token: %w", err)
	}

	return Token{
		Value:     base64.RawURLEncoding.EncodeToString(envelope),
		ExpiresAt: time.UnixMilli(expiresAt.UnixMilli()),
	}, nil
}

func (p *HMACProvider) Verify(ctx context.Context, token string) (*Claims, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	var envelope hmacEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil || envelope.Payload == "" {
		return nil, ErrInvalidToken
	}

	expected, err := hex.DecodeString(envelope.Hash)
	if err != nil || !hmac.Equal(expected, p.mac([]byte(envelope.Payload))) {
		return nil, ErrInvalidToken
	}

	var payload hmacPayload
	if err := json.Unmarshal([]byte(envelope.Payload), &payload); err != nil {
		return nil, ErrInvalidToken
	}
	if p.now().UnixMilli() > payload.Exp {
		return nil, ErrExpired
	}

	return checkRevoked(ctx, p.denylist, &Claims{
		Username:  payload.Username,
		Role:      payload.Role,
		ExpiresAt: time.UnixMilli(payload.Exp),
		ID:        payload.JTI,
	})
}

func (p *HMACProvider) Revoke(ctx context.Context, token string) error {
	return revoke(ctx, p, p.denylist, token)
}

func (p *HMACProvider) mac(payload []byte) []byte {
	h := hmac.New(sha256.New, p.secret)
	h.Write(payload)
	return h.Sum(nil)
}

func (p *HMACProvider) sign(payload []byte) string {
	return hex.EncodeToString(p.mac(payload))
}
