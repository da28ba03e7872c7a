// Package token issues and verifies the agent's local bearer tokens.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalid = errors.New("token: invalid")
	ErrExpired = errors.New("token: expired")
)

type Claims struct {
	UserID     string
	EmployeeID string
	CompanyID  string
	ExpiresAt  time.Time
}

type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock is for tests.
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	i.now = now
	return i
}

func (i *Issuer) Issue(userID, employeeID, companyID string) (string, time.Time, error) {
	exp := i.now().Add(i.ttl)
	claims := jwt.MapClaims{
		"user_id":     userID,
		"employee_id": employeeID,
		"company_id":  companyID,
		"iat":         i.now().Unix(),
		"exp":         exp.Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func (i *Issuer) Verify(tokenString string) (Claims, error) {
	tok, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrExpired
		}
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if !tok.Valid {
		return Claims{}, ErrInvalid
	}

	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalid
	}

	c := Claims{}
	c.UserID, _ = mc["user_id"].(string)
	c.EmployeeID, _ = mc["employee_id"].(string)
	c.CompanyID, _ = mc["company_id"].(string)
	if c.EmployeeID == "" {
		return Claims{}, fmt.Errorf("%w: employee_id missing", ErrInvalid)
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	return c, nil
}
