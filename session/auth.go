package session

import (
	"context"
	"crypto/rsa"
	"fmt"
	"strconv"
	"strings"
	"time"

	jwt "github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/bitmark-inc/triage-api/schema"
	"github.com/bitmark-inc/triage-api/store"
)

const (
	MinPasswordLength = 6
	tokenAudience     = "chw-dashboard"
)

var (
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrFullNameRequired   = fmt.Errorf("full name is required")
	ErrEmailRequired      = fmt.Errorf("email is required")
	ErrPasswordTooShort   = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	ErrInvalidPhone       = fmt.Errorf("phone is not a valid Nigerian mobile number")
	ErrInvalidToken       = fmt.Errorf("invalid session token")
)

var now = time.Now

// Claims identify the worker a token was issued to
type Claims struct {
	jwt.StandardClaims
	FullName string `json:"name"`
}

// WorkerID is the id of the worker in the subject claim
func (c Claims) WorkerID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

// Authenticator signs workers in and issues the tokens which gate the dashboard
type Authenticator struct {
	workers   store.WorkerStore
	method    jwt.SigningMethod
	signKey   interface{}
	verifyKey interface{}
	expire    time.Duration
}

// NewHMACAuthenticator signs tokens with a shared secret
func NewHMACAuthenticator(workers store.WorkerStore, secret []byte, expire time.Duration) *Authenticator {
	return &Authenticator{
		workers:   workers,
		method:    jwt.SigningMethodHS256,
		signKey:   secret,
		verifyKey: secret,
		expire:    expire,
	}
}

// NewRSAAuthenticator signs tokens with a private key
func NewRSAAuthenticator(workers store.WorkerStore, key *rsa.PrivateKey, expire time.Duration) *Authenticator {
	return &Authenticator{
		workers:   workers,
		method:    jwt.SigningMethodRS256,
		signKey:   key,
		verifyKey: &key.PublicKey,
		expire:    expire,
	}
}

// HashPassword returns the bcrypt hash of a password
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Login checks the credentials of a worker and returns a token
func (a *Authenticator) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || len(password) < MinPasswordLength {
		return "", ErrInvalidCredentials
	}

	account, err := a.workers.GetWorkerByEmail(ctx, email)
	if err == store.ErrWorkerNotFound {
		return "", ErrInvalidCredentials
	} else if err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return a.issue(account.Worker())
}

// SignUp registers a worker and returns a token for the new account
func (a *Authenticator) SignUp(ctx context.Context, fullName, email, phone, password string) (string, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.TrimSpace(email)

	switch {
	case fullName == "":
		return "", ErrFullNameRequired
	case email == "":
		return "", ErrEmailRequired
	case len(password) < MinPasswordLength:
		return "", ErrPasswordTooShort
	case !schema.ValidPhone(phone):
		return "", ErrInvalidPhone
	}

	hash, err := HashPassword(password)
	if err != nil {
		return "", err
	}

	account := &schema.WorkerAccount{
		FullName:     fullName,
		Email:        email,
		Phone:        phone,
		PasswordHash: hash,
	}
	if err := a.workers.CreateWorker(ctx, account); err != nil {
		return "", err
	}

	return a.issue(account.Worker())
}

func (a *Authenticator) issue(w schema.Worker) (string, error) {
	issuedAt := now()
	token := jwt.NewWithClaims(a.method, Claims{
		StandardClaims: jwt.StandardClaims{
			Subject:   strconv.FormatInt(w.ID, 10),
			Audience:  tokenAudience,
			IssuedAt:  issuedAt.Unix(),
			ExpiresAt: issuedAt.Add(a.expire).Unix(),
			Id:        uuid.New().String(),
		},
		FullName: w.FullName,
	})

	return token.SignedString(a.signKey)
}

// Keyfunc verifies the signing method of a token and returns the key to check it with
func (a *Authenticator) Keyfunc(token *jwt.Token) (interface{}, error) {
	if token.Method.Alg() != a.method.Alg() {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return a.verifyKey, nil
}

// Validate parses a token and returns its claims
func (a *Authenticator) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, a.Keyfunc)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if !claims.VerifyAudience(tokenAudience, true) {
		return nil, ErrInvalidToken
	}
	if _, err := claims.WorkerID(); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
