package jwt

import (
	"crypto/rsa"
	"errors"
	"os"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidClaims = errors.New("invalid token claims")

// Verifier 以公鑰驗證會員服務簽發的RS256 Token
type Verifier struct {
	publicKey *rsa.PublicKey
}

func NewVerifier(publicKeyPEM []byte) (*Verifier, error) {
	key, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyPEM)
	if err != nil {
		return nil, err
	}

	return &Verifier{publicKey: key}, nil
}

// 讀取公鑰
func NewVerifierFromFile(path string) (*Verifier, error) {
	keyBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return NewVerifier(keyBytes)
}

// 驗證JWT Token並回傳MemberID及Role
func (v *Verifier) Verify(tokenString string) (uint, string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return v.publicKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}))
	if err != nil {
		return 0, "", err
	}

	if !token.Valid {
		return 0, "", jwt.ErrTokenSignatureInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", ErrInvalidClaims
	}
	//Token必須帶有到期時間
	if exp, err := claims.GetExpirationTime(); err != nil || exp == nil {
		return 0, "", ErrInvalidClaims
	}
	memberID, ok := claims["memberID"].(float64)
	if !ok || memberID <= 0 {
		return 0, "", ErrInvalidClaims
	}
	role, _ := claims["role"].(string)

	return uint(memberID), role, nil
}
