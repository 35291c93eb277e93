package security

import (
	"crypto/rsa"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// JWTVerifier valide les tokens de session émis par le fournisseur
// d'identité. Côté client on ne détient QUE la clé publique : on vérifie,
// on ne signe jamais.
type JWTVerifier struct {
	publicKey *rsa.PublicKey
}

func NewJWTVerifier(publicKeyPEM []byte) (*JWTVerifier, error) {
	pubKey, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}
	return &JWTVerifier{publicKey: pubKey}, nil
}

// Verify contrôle la signature et retourne le Subject (actor ID)
func (v *JWTVerifier) Verify(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Sécurité critique : refuser tout autre algo que RSA.
		// Empêche les attaques où l'attaquant force l'algo à "None" ou "HS256".
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.publicKey, nil
	})
	if err != nil {
		return "", err // Token expiré ou signature invalide
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", errors.New("invalid token claims")
	}
	return subject, nil
}
