// Package tokensvc issues and verifies the JWTs backing sessions and OTP
// verification flows.
package tokensvc

import (
	"time"

	"github.com/dgrijalva/jwt-go"

	"github.com/praveshhq/pravesh/core"
)

// NowFunc is overridable in tests.
var NowFunc = time.Now

type Claims struct {
	jwt.StandardClaims
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

type jwtProvider struct {
	secret  []byte
	appName string
	conf    *core.Config
}

var _ core.TokenProvider = (*jwtProvider)(nil)

func NewJWTProvider(conf *core.Config) *jwtProvider {
	return &jwtProvider{
		secret:  []byte(conf.SecretKey),
		appName: conf.AppName,
		conf:    conf,
	}
}

func (p *jwtProvider) issue(userID, email, role, audience string, ttl time.Duration) (string, error) {
	now := NowFunc()
	claims := Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    p.appName,
			Subject:   userID,
			Audience:  audience,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
		},
		Email: email,
		Role:  role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
}

func (p *jwtProvider) IssuePair(userID, email, role string) (core.TokenPair, error) {
	access, err := p.issue(userID, email, role, core.TokenAudienceAccess, p.conf.Server.AccessTokenExpirationDelta)
	if err != nil {
		return core.TokenPair{}, err
	}
	refresh, err := p.issue(userID, email, role, core.TokenAudienceRefresh, p.conf.Server.RefreshTokenExpirationDelta)
	if err != nil {
		return core.TokenPair{}, err
	}
	return core.TokenPair{Access: access, Refresh: refresh}, nil
}

func (p *jwtProvider) IssueOTPToken(userID string) (string, error) {
	return p.issue(userID, "", "", core.TokenAudienceOTP, p.conf.Server.OTPTokenExpirationDelta)
}

func (p *jwtProvider) Verify(token, audience string) (core.TokenClaims, error) {
	claims := new(Claims)
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, core.ErrTokenInvalid
		}
		return p.secret, nil
	})
	if err != nil || !parsed.Valid {
		return core.TokenClaims{}, core.ErrTokenInvalid
	}
	if !claims.VerifyAudience(audience, true) {
		return core.TokenClaims{}, core.ErrTokenInvalid
	}
	return core.TokenClaims{UserID: claims.Subject, Email: claims.Email, Role: claims.Role}, nil
}
