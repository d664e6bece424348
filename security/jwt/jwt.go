package jwt

import (
	"errors"
	"fmt"
	"time"

	jwtstd "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenError represents JWT token related errors
type TokenError string

func (e TokenError) Error() string {
	return string(e)
}

// Purpose scopes what a token may be used for.
type Purpose string

const (
	PurposeAccess         Purpose = "access"
	PurposeRefresh        Purpose = "refresh"
	PurposeVerifyAccount  Purpose = "verify-account"
	PurposeChangePassword Purpose = "change-password"
)

const (
	DefaultAccessTokenExpire  = time.Minute * 15
	DefaultRefreshTokenExpire = time.Hour * 24 * 7
	DefaultActionTokenExpire  = time.Hour * 24

	ErrNeedTokenProvider = TokenError("cannot sign token without token provider")
	ErrInvalidToken      = TokenError("invalid token")
	ErrTokenExpired      = TokenError("token expired")
	ErrPurposeMismatch   = TokenError("token purpose mismatch")
	ErrTokenParsing      = TokenError("token parsing error")
)

// Token represents the token body to be signed
type Token struct {
	JTI     string
	Subject string
	Purpose Purpose
	Payload map[string]any
	Expire  time.Duration
}

// Claims is the verified content of a token
type Claims struct {
	JTI       string
	Subject   string
	Purpose   Purpose
	Payload   map[string]any
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenManager handles JWT token operations
type TokenManager struct {
	key []byte
	now func() time.Time
}

// NewTokenManager creates a new TokenManager instance
func NewTokenManager(key string) *TokenManager {
	return &TokenManager{key: []byte(key), now: time.Now}
}

// WithClock replaces the time source, used by tests to move past expiry.
func (jtm *TokenManager) WithClock(now func() time.Time) *TokenManager {
	jtm.now = now
	return jtm
}

// validateKey validates the token key
func (jtm *TokenManager) validateKey() error {
	if len(jtm.key) == 0 {
		return ErrNeedTokenProvider
	}
	return nil
}

// Generate signs a token. An empty JTI is replaced by a random uuid.
func (jtm *TokenManager) Generate(token *Token) (string, *Claims, error) {
	if err := jtm.validateKey(); err != nil {
		return "", nil, err
	}

	jti := token.JTI
	if jti == "" {
		jti = uuid.NewString()
	}
	payload := token.Payload
	if payload == nil {
		payload = map[string]any{}
	}

	now := jtm.now()
	expiresAt := now.Add(token.Expire)
	claims := jwtstd.MapClaims{
		"jti":     jti,
		"sub":     token.Subject,
		"purpose": string(token.Purpose),
		"payload": payload,
		"iat":     now.Unix(),
		"exp":     expiresAt.Unix(),
	}

	t := jwtstd.NewWithClaims(jwtstd.SigningMethodHS256, claims)
	signed, err := t.SignedString(jtm.key)
	if err != nil {
		return "", nil, err
	}

	return signed, &Claims{
		JTI:       jti,
		Subject:   token.Subject,
		Purpose:   token.Purpose,
		Payload:   payload,
		IssuedAt:  time.Unix(now.Unix(), 0),
		ExpiresAt: time.Unix(expiresAt.Unix(), 0),
	}, nil
}

// GenerateAccessToken generates an access token for subject.
func (jtm *TokenManager) GenerateAccessToken(subject string, payload map[string]any, expiry time.Duration) (string, *Claims, error) {
	return jtm.Generate(&Token{Subject: subject, Purpose: PurposeAccess, Payload: payload, Expire: orDefault(expiry, DefaultAccessTokenExpire)})
}

// GenerateRefreshToken generates a refresh token for subject.
func (jtm *TokenManager) GenerateRefreshToken(subject string, payload map[string]any, expiry time.Duration) (string, *Claims, error) {
	return jtm.Generate(&Token{Subject: subject, Purpose: PurposeRefresh, Payload: payload, Expire: orDefault(expiry, DefaultRefreshTokenExpire)})
}

// GenerateActionToken generates a purpose-scoped token carrying a single-use code.
func (jtm *TokenManager) GenerateActionToken(subject string, purpose Purpose, code string, expiry time.Duration) (string, *Claims, error) {
	return jtm.Generate(&Token{Subject: subject, Purpose: purpose, Payload: map[string]any{"code": code}, Expire: orDefault(expiry, DefaultActionTokenExpire)})
}

// ValidateToken verifies signature and expiry and returns the claims.
// Expired tokens yield ErrTokenExpired, anything else unverifiable yields ErrInvalidToken.
func (jtm *TokenManager) ValidateToken(tokenString string) (*Claims, error) {
	if err := jtm.validateKey(); err != nil {
		return nil, err
	}

	token, err := jwtstd.Parse(tokenString, func(token *jwtstd.Token) (any, error) {
		return jtm.key, nil
	}, jwtstd.WithValidMethods([]string{jwtstd.SigningMethodHS256.Alg()}), jwtstd.WithTimeFunc(jtm.now), jwtstd.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwtstd.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	mc, ok := token.Claims.(jwtstd.MapClaims)
	if !ok {
		return nil, ErrTokenParsing
	}
	return claimsFromMap(mc)
}

// ParseExpired verifies the signature of a token without checking its time
// claims. Callers use it to identify the subject of an expired token.
func (jtm *TokenManager) ParseExpired(tokenString string) (*Claims, error) {
	if err := jtm.validateKey(); err != nil {
		return nil, err
	}

	token, err := jwtstd.Parse(tokenString, func(token *jwtstd.Token) (any, error) {
		return jtm.key, nil
	}, jwtstd.WithValidMethods([]string{jwtstd.SigningMethodHS256.Alg()}), jwtstd.WithoutClaimsValidation())
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	mc, ok := token.Claims.(jwtstd.MapClaims)
	if !ok {
		return nil, ErrTokenParsing
	}
	return claimsFromMap(mc)
}

// ValidatePurpose validates the token and requires the given purpose.
func (jtm *TokenManager) ValidatePurpose(tokenString string, purpose Purpose) (*Claims, error) {
	claims, err := jtm.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != purpose {
		return nil, ErrPurposeMismatch
	}
	return claims, nil
}

func claimsFromMap(mc jwtstd.MapClaims) (*Claims, error) {
	sub, err := mc.GetSubject()
	if err != nil || sub == "" {
		return nil, ErrTokenParsing
	}
	exp, err := mc.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, ErrTokenParsing
	}

	claims := &Claims{
		JTI:       getString(mc, "jti"),
		Subject:   sub,
		Purpose:   Purpose(getString(mc, "purpose")),
		ExpiresAt: exp.Time,
	}
	if iat, err := mc.GetIssuedAt(); err == nil && iat != nil {
		claims.IssuedAt = iat.Time
	}
	if payload, ok := getPayload(mc); ok {
		claims.Payload = payload
	} else {
		claims.Payload = map[string]any{}
	}
	return claims, nil
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
