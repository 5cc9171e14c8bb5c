package core

import (
	"bytes"
	"context"
	"errors"
)

// Collaborator contracts. Concrete implementations live under services/ and
// are injected at process start.

var (
	ErrTokenInvalid = errors.New("invalid or expired token")
	ErrUploadFailed = errors.New("upload failed")
)

// Token audiences. A token issued for one audience never verifies under another.
const (
	TokenAudienceAccess  = "access"
	TokenAudienceRefresh = "refresh"
	TokenAudienceOTP     = "otp"
)

type (
	TokenPair struct {
		Access  string `json:"access_token"`
		Refresh string `json:"refresh_token"`
	}

	TokenClaims struct {
		UserID string
		Email  string
		Role   string
	}

	// TokenProvider issues and verifies the portal's bearer tokens.
	TokenProvider interface {
		IssuePair(userID, email, role string) (TokenPair, error)
		IssueOTPToken(userID string) (string, error)
		// Verify fails with ErrTokenInvalid on a bad signature, expiry or
		// audience mismatch.
		Verify(token, audience string) (TokenClaims, error)
	}

	// FileStore uploads a local temp file under ownerKey/slot and returns a
	// durable URL. The local file is removed whether or not the upload
	// succeeded.
	FileStore interface {
		Upload(ctx context.Context, localPath, ownerKey, slot string) (string, error)
	}

	Column struct {
		Header string
		Key    string
		Width  float64
	}

	// TabularExporter renders rows (keyed by Column.Key) into a downloadable
	// binary document.
	TabularExporter interface {
		Render(cols []Column, rows []map[string]interface{}, title, author string) (*bytes.Buffer, error)
	}
)
