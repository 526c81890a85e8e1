package receipt

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SigningMethod defines a public type used by goVault APIs.
//
// SigningMethod instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SigningMethod string

const (
	// MethodEd25519 is an exported constant or variable used by the vault engine.
	MethodEd25519 SigningMethod = "ed25519"
	// MethodHS256 is an exported constant or variable used by the vault engine.
	MethodHS256 SigningMethod = "hs256"
)

// ErrReceiptInvalid is returned when a receipt fails signature or claim checks.
var ErrReceiptInvalid = errors.New("invalid receipt")

// Config defines a public type used by goVault APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	SigningMethod SigningMethod
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
}

// Claims is the signed payload of an operation receipt.
type Claims struct {
	Op      string `json:"op"`
	Actor   string `json:"act"`
	Vault   string `json:"vlt"`
	Amount  string `json:"amt"`
	Fee     string `json:"fee,omitempty"`
	Version uint64 `json:"ver"`
	jwt.RegisteredClaims
}

// Signer defines a public type used by goVault APIs.
//
// Signer instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Signer struct {
	config Config
}

// NewSigner validates cfg and returns a [Signer]. Ed25519 requires both a
// private key (for issuing) and a public key (for verifying); HS256 uses a
// single shared secret.
func NewSigner(cfg Config) (*Signer, error) {
	switch cfg.SigningMethod {
	case MethodHS256:
		if len(cfg.PrivateKey) == 0 {
			return nil, errors.New("hs256 requires private key")
		}
	case MethodEd25519:
		if len(cfg.PrivateKey) > 0 {
			if _, err := parseEdPrivateKey(cfg.PrivateKey); err != nil {
				return nil, err
			}
		}
		if len(cfg.PublicKey) == 0 {
			return nil, errors.New("ed25519 requires public key")
		}
		if _, err := parseEdPublicKey(cfg.PublicKey); err != nil {
			return nil, err
		}
	default:
		return nil, errors.New("unsupported signing method")
	}

	return &Signer{config: cfg}, nil
}

// Issue signs a receipt for one completed operation. The receipt ID (jti) is
// a fresh UUID; issuedAt is the operation timestamp, not wall-clock time at
// signing, so replayed clock skew never changes what was attested.
func (s *Signer) Issue(op, actor, vault, amount, fee string, version uint64, issuedAt time.Time) (string, error) {
	if s == nil {
		return "", errors.New("signer not initialized")
	}

	claims := Claims{
		Op:      op,
		Actor:   actor,
		Vault:   vault,
		Amount:  amount,
		Fee:     fee,
		Version: version,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.NewString(),
			Issuer:   s.config.Issuer,
			IssuedAt: jwt.NewNumericDate(issuedAt.UTC()),
		},
	}

	switch s.config.SigningMethod {
	case MethodHS256:
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		return token.SignedString(s.config.PrivateKey)
	case MethodEd25519:
		key, err := parseEdPrivateKey(s.config.PrivateKey)
		if err != nil {
			return "", err
		}
		token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
		return token.SignedString(key)
	default:
		return "", errors.New("unsupported signing method")
	}
}

// Verify checks the receipt signature and returns its claims.
func (s *Signer) Verify(receipt string) (*Claims, error) {
	if s == nil {
		return nil, errors.New("signer not initialized")
	}
	if strings.TrimSpace(receipt) == "" {
		return nil, ErrReceiptInvalid
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(receipt, claims, s.verifyKey,
		jwt.WithValidMethods(s.validMethods()),
		jwt.WithIssuedAt(),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrReceiptInvalid, err)
	}
	if s.config.Issuer != "" && claims.Issuer != s.config.Issuer {
		return nil, ErrReceiptInvalid
	}
	return claims, nil
}

func (s *Signer) verifyKey(*jwt.Token) (any, error) {
	switch s.config.SigningMethod {
	case MethodHS256:
		return s.config.PrivateKey, nil
	case MethodEd25519:
		return parseEdPublicKey(s.config.PublicKey)
	default:
		return nil, errors.New("unsupported signing method")
	}
}

func (s *Signer) validMethods() []string {
	if s.config.SigningMethod == MethodHS256 {
		return []string{jwt.SigningMethodHS256.Alg()}
	}
	return []string{jwt.SigningMethodEdDSA.Alg()}
}

func parseEdPrivateKey(raw []byte) (ed25519.PrivateKey, error) {
	switch len(raw) {
	case ed25519.PrivateKeySize:
		return ed25519.PrivateKey(raw), nil
	case ed25519.SeedSize:
		return ed25519.NewKeyFromSeed(raw), nil
	default:
		return nil, errors.New("invalid ed25519 private key length")
	}
}

func parseEdPublicKey(raw []byte) (ed25519.PublicKey, error) {
	if len(raw) != ed25519.PublicKeySize {
		return nil, errors.New("invalid ed25519 public key length")
	}
	return ed25519.PublicKey(raw), nil
}
