package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

// ErrUnauthenticated is returned for any token that cannot be fully verified,
// a bad signature, expired token or missing claim never yields a partial
// identity.
var ErrUnauthenticated = errors.New("could not validate credentials")

const resetPurpose = "password_reset"

// Identity is the caller identity carried by an access token.
type Identity struct {
	ID    int64
	Email string
}

// Claims is the JWT payload, email plus numeric user id and expiry.
type Claims struct {
	Email   string `json:"email"`
	UserID  int64  `json:"id"`
	Purpose string `json:"purpose,omitempty"`
	jwt.RegisteredClaims
}

// CredentialService hashes passwords and issues/validates bearer tokens.
// Tokens are fully self-contained, there is no server-side session store.
type CredentialService struct {
	secret []byte
	expire time.Duration
}

func NewCredentialService(secret string, expire time.Duration) *CredentialService {
	if expire <= 0 {
		expire = 15 * time.Minute
	}
	return &CredentialService{secret: []byte(secret), expire: expire}
}

// Secret exposes the signing key for the webserver JWT middleware.
func (s *CredentialService) Secret() []byte {
	return s.secret
}

func (s *CredentialService) HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "hash password")
	}
	return string(hash), nil
}

func (s *CredentialService) CheckPassword(plain, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}

// IssueToken signs an access token for user, valid for the configured TTL.
func (s *CredentialService) IssueToken(user Identity) (string, error) {
	return s.issue(Claims{
		Email:  user.Email,
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.expire)),
		},
	})
}

// IssueResetToken signs a purpose-scoped short-lived token mailed to the user
// during the password reset flow. It is not usable as an access token.
func (s *CredentialService) IssueResetToken(email string) (string, error) {
	return s.issue(Claims{
		Email:   email,
		Purpose: resetPurpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(15 * time.Minute)),
		},
	})
}

func (s *CredentialService) issue(claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	return signed, nil
}

// ResolveToken verifies signature and expiry and returns the caller identity.
func (s *CredentialService) ResolveToken(tokenStr string) (Identity, error) {
	claims, err := s.parse(tokenStr)
	if err != nil {
		return Identity{}, err
	}
	if claims.Purpose != "" || claims.Email == "" || claims.UserID == 0 {
		return Identity{}, ErrUnauthenticated
	}
	return Identity{ID: claims.UserID, Email: claims.Email}, nil
}

// ResolveResetToken verifies a password-reset token and returns the subject
// email.
func (s *CredentialService) ResolveResetToken(tokenStr string) (string, error) {
	claims, err := s.parse(tokenStr)
	if err != nil {
		return "", err
	}
	if claims.Purpose != resetPurpose || claims.Email == "" {
		return "", ErrUnauthenticated
	}
	return claims.Email, nil
}

func (s *CredentialService) parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrUnauthenticated
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrUnauthenticated
	}
	return claims, nil
}
