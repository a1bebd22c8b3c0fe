package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	firebase "firebase.google.com/go/v4"
	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v5"
	"google.golang.org/api/option"

	"github.com/nochase/nochase/internal/model"
	"github.com/nochase/nochase/internal/validation"
)

var ErrInvalidToken = errors.New("invalid token")

// TokenVerifier turns a bearer token into a verified identity.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*model.Identity, error)
}

type AuthService struct {
	verifier TokenVerifier
}

func NewAuthService(verifier TokenVerifier) *AuthService {
	return &AuthService{verifier: verifier}
}

// Authenticate verifies token. A missing or invalid token is reported as
// ErrAuthenticationRequired so callers never fall back to an anonymous
// identity.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*model.Identity, error) {
	if token == "" {
		return nil, ErrAuthenticationRequired
	}

	identity, err := s.verifier.Verify(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAuthenticationRequired, err)
	}
	err = validation.ValidateIdentity(identity)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAuthenticationRequired, err)
	}

	return identity, nil
}

// JWTVerifier checks HS256 tokens carrying a user_id claim.
type JWTVerifier struct {
	secret []byte
	expiry time.Duration
}

func NewJWTVerifier(secret string, expiry time.Duration) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret), expiry: expiry}
}

// GenerateJWT issues a token for userID. The hosted identity provider does
// this in production; the store uses it for development and tests.
func (v *JWTVerifier) GenerateJWT(userID, email string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"exp":     time.Now().Add(v.expiry).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(v.secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func (v *JWTVerifier) Verify(_ context.Context, tokenString string) (*model.Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return nil, ErrInvalidToken
	}
	email, _ := claims["email"].(string)

	return &model.Identity{UserID: userID, Email: email}, nil
}

// FirebaseVerifier checks Firebase ID tokens with the Admin SDK.
type FirebaseVerifier struct {
	client *firebaseauth.Client
}

func NewFirebaseVerifier(ctx context.Context, credentialsPath string) (*FirebaseVerifier, error) {
	if credentialsPath == "" {
		return nil, fmt.Errorf("FIREBASE_CREDENTIALS_PATH is required")
	}
	_, err := os.Stat(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read Firebase credentials: %w", err)
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Auth client: %w", err)
	}

	return &FirebaseVerifier{client: client}, nil
}

func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (*model.Identity, error) {
	decoded, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, err
	}

	email, _ := decoded.Claims["email"].(string)
	return &model.Identity{UserID: decoded.UID, Email: email}, nil
}
