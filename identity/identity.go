// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package identity

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoVoter is returned when no voter identity is configured at all.
	ErrNoVoter = errors.New("identity: no voter configured")

	// ErrNoSession is returned when the voter is known but holds no active
	// write capability. Callers should treat it as retryable.
	ErrNoSession = errors.New("identity: no active session")
)

// Session is an authenticated write capability over the voter's remote
// namespace: the stable voter id plus the bearer token that authorizes
// writes on the homeserver.
type Session struct {
	VoterID string
	Token   string
}

// Provider supplies the voter identity and, when authenticated, a session.
// VoterID stays stable across sessions; Session comes and goes with the
// homeserver login state.
type Provider interface {
	VoterID() (string, error)
	Session() (Session, error)
}

// StaticProvider serves a fixed identity from configuration. The voter id
// is known as soon as it is configured; the session additionally requires
// a token.
type StaticProvider struct {
	voterID string
	token   string
}

func NewStaticProvider(voterID, token string) *StaticProvider {
	return &StaticProvider{voterID: voterID, token: token}
}

// VoterID returns the configured voter id, or ErrNoVoter.
func (p *StaticProvider) VoterID() (string, error) {
	if p.voterID == "" {
		return "", ErrNoVoter
	}
	return p.voterID, nil
}

// Session returns the write capability, or ErrNoSession when no token is
// configured.
func (p *StaticProvider) Session() (Session, error) {
	if p.voterID == "" {
		return Session{}, ErrNoVoter
	}
	if p.token == "" {
		return Session{}, ErrNoSession
	}
	return Session{VoterID: p.voterID, Token: p.token}, nil
}

// GenerateToken creates a random secure bearer token. Used by the dev
// homeserver fixtures and by deployments that mint their own sessions.
func GenerateToken() (string, error) {
	b := make([]byte, 24) // 24 bytes = 192 bits of entropy
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	// URL-safe base64 without padding
	return strings.TrimRight(base64.URLEncoding.EncodeToString(b), "="), nil
}
