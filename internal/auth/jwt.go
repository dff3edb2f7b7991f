package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/Goofygiraffe06/portal/internal/config"
	"github.com/Goofygiraffe06/portal/internal/logging"
	"github.com/Goofygiraffe06/portal/internal/models"
	"github.com/Goofygiraffe06/portal/internal/utils"
	"github.com/golang-jwt/jwt/v5"
)

var ErrKeyNotInitialized = errors.New("session key not loaded")

// SessionClaims are carried by the token handed out on login.
type SessionClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// IssueSessionToken signs a session token for user.
func IssueSessionToken(user models.User) (string, error) {
	emailHash := utils.HashEmail(user.Email)

	key := signingKey()
	if key == nil {
		logging.ErrorLog("Session token generation failed [%s]: key not initialized", emailHash)
		return "", ErrKeyNotInitialized
	}

	now := time.Now()
	claims := SessionClaims{
		Email: user.Email,
		Name:  user.FullName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			Issuer:    config.JWTIssuer(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(config.JWTExpiresIn())),
		},
	}

	tokenStr, err := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(key.priv)
	if err != nil {
		logging.ErrorLog("Session token signing failed [%s]: %v", emailHash, err)
		return "", err
	}

	logging.DebugLog("Session token generated [%s]", emailHash)
	return tokenStr, nil
}

// VerifySessionToken checks signature, issuer and expiry and returns the
// claims of a valid token.
func VerifySessionToken(tokenStr string) (*SessionClaims, error) {
	key := signingKey()
	if key == nil {
		logging.ErrorLog("Session token verification failed: key not initialized")
		return nil, ErrKeyNotInitialized
	}

	claims := &SessionClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return key.pub, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}),
		jwt.WithIssuer(config.JWTIssuer()),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		logging.DebugLog("Token verification failed: %v", err)
		return nil, err
	}

	logging.DebugLog("Token verified [%s]", utils.HashEmail(claims.Email))
	return claims, nil
}
