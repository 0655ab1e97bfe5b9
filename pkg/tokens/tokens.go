package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const DefaultTTL = 7 * 24 * time.Hour

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = fmt.Errorf("%w: expired", ErrInvalidToken)
	ErrNoSigningKey = errors.New("no active signing key")
)

type Principal struct {
	ID   string
	Name string
	Kind string
}

type Claims struct {
	PrincipalID   string `json:"principalId"`
	PrincipalName string `json:"principalName"`
	Kind          string `json:"kind"`
	jwt.RegisteredClaims
}

func (c *Claims) Principal() Principal {
	return Principal{ID: c.PrincipalID, Name: c.PrincipalName, Kind: c.Kind}
}

// Keyring holds signing secrets by key id. Only ActiveID signs.
type Keyring struct {
	ActiveID string
	Keys     map[string][]byte
}

func NewKeyring(activeID string, active []byte, previous map[string][]byte) Keyring {
	keys := make(map[string][]byte, len(previous)+1)
	for kid, secret := range previous {
		keys[kid] = secret
	}
	keys[activeID] = active
	return Keyring{ActiveID: activeID, Keys: keys}
}

type Issuer struct {
	Keys Keyring
	TTL  time.Duration
	Now  func() time.Time
}

func NewIssuer(keys Keyring, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{Keys: keys, TTL: ttl, Now: time.Now}
}

func (i *Issuer) now() time.Time {
	if i.Now == nil {
		return time.Now()
	}
	return i.Now()
}

// Issue signs a token for p and returns it with its expiry.
func (i *Issuer) Issue(p Principal) (string, time.Time, error) {
	secret, ok := i.Keys.Keys[i.Keys.ActiveID]
	if !ok || len(secret) == 0 {
		return "", time.Time{}, ErrNoSigningKey
	}

	now := i.now()
	exp := now.Add(i.TTL)
	claims := &Claims{
		PrincipalID:   p.ID,
		PrincipalName: p.Name,
		Kind:          p.Kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tok.Header["kid"] = i.Keys.ActiveID

	signed, err := tok.SignedString(secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

func (i *Issuer) keyFunc(t *jwt.Token) (any, error) {
	kid, _ := t.Header["kid"].(string)
	if kid == "" {
		return nil, errors.New("missing kid header")
	}
	secret, ok := i.Keys.Keys[kid]
	if !ok {
		return nil, fmt.Errorf("unknown kid %q", kid)
	}
	return secret, nil
}

func (i *Issuer) Verify(raw string) (*Claims, error) {
	var claims Claims
	tkn, err := jwt.ParseWithClaims(raw, &claims, i.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !tkn.Valid || claims.PrincipalID == "" {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}
