package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"eventcheckout/internal/config"
)

var ErrInvalidClaims = errors.New("token is missing employee or company")

type Claims struct {
	EmployeeID int64 `json:"employeeId"`
	CompanyID  int64 `json:"companyId"`
	jwt.RegisteredClaims
}

// Verifier validates HS256 tokens signed with the shared secret.
type Verifier struct {
	secret []byte
	issuer string
}

func NewVerifier(cfg config.AuthConfig) *Verifier {
	return &Verifier{secret: []byte(cfg.JWTSecret), issuer: cfg.Issuer}
}

func (v *Verifier) Verify(tokenString string) (Identity, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	}, opts...)
	if err != nil {
		return Identity{}, err
	}
	if !token.Valid {
		return Identity{}, jwt.ErrTokenInvalidClaims
	}
	if claims.EmployeeID <= 0 || claims.CompanyID <= 0 {
		return Identity{}, ErrInvalidClaims
	}

	return Identity{EmployeeID: claims.EmployeeID, CompanyID: claims.CompanyID}, nil
}

// Issue signs a token for identity valid for ttl.
func (v *Verifier) Issue(identity Identity, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		EmployeeID: identity.EmployeeID,
		CompanyID:  identity.CompanyID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", identity.EmployeeID),
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
