// Package test holds httptest/JWT helpers and service mocks shared across
// controller tests.
package test

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"google.golang.org/api/idtoken"
	"gorm.io/gorm"

	"outfitengine/models"
)

func JsonString(model interface{}) string {
	bytes, _ := json.Marshal(model)
	return string(bytes)
}

func NewJSONRequest(method string, target string, param interface{}) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(JsonString(param)))
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")
	return req
}

func GenerateUserToken(userPk string) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userPk,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 72)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	})
	t, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		log.Fatalf("error signing user token for %s: %s", userPk, err)
	}
	return t
}

func NewJSONAuthRequest(method string, target string, userPk string, param interface{}) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(JsonString(param)))
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", GenerateUserToken(userPk)))
	return req
}

// FakeUser inserts a bare UserAccount row, the caller identity generate/
// replace/explain calls resolve their user_id against.
func FakeUser(db *gorm.DB, name, email string) *models.UserAccount {
	if email == "" {
		email = "email@example.com"
	}
	user := &models.UserAccount{Name: name, Email: email, GoogleID: "google-fake-id"}
	db.Create(user)
	return user
}

func Uint64ToUserPk(id uint) string {
	return fmt.Sprintf("%d", id)
}

// GoogleServiceMock implements services.GoogleServiceProvider for tests
// that don't hit the real Google token endpoint.
type GoogleServiceMock struct{}

func (GoogleServiceMock) ValidateIdToken(ctx context.Context, idToken string, audience string) (*idtoken.Payload, error) {
	return &idtoken.Payload{
		Issuer: "issuer", Audience: audience, Subject: "fake@example.com",
		Claims: map[string]interface{}{"email": "fake@example.com", "sub": "123googleid"},
	}, nil
}

// AWSProviderMock implements services.AWSServiceProvider for tests, always
// returning a fixed URL instead of calling out to R2/S3.
type AWSProviderMock struct {
	MockURL string
}

func (m AWSProviderMock) InitPresignClient(ctx context.Context) error { return nil }

func (m AWSProviderMock) PresignUploadURL(ctx context.Context, bucketName, fileName string) (string, error) {
	return fmt.Sprintf("https://fakebucket.example.com/%s", fileName), nil
}

func (m AWSProviderMock) PresignReadURL(ctx context.Context, bucketName, fileKey string) (string, error) {
	return m.MockURL, nil
}
