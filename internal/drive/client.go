package drive

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"certificados/pkg/config"
)

const (
	filesEndpoint        = "https://www.googleapis.com/drive/v3/files/"
	defaultTokenEndpoint = "https://oauth2.googleapis.com/token"
	driveScope           = "https://www.googleapis.com/auth/drive"
)

type serviceAccount struct {
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
	TokenURI    string `json:"token_uri"`
}

// Client talks to the Drive v3 REST API with a service-account
// credential. A Client without a usable credential is still valid; it
// reports OutcomeUnavailable for every attempt.
type Client struct {
	http   *resty.Client
	logger *zap.Logger

	account *serviceAccount
	signKey *rsa.PrivateKey

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewClient loads the credential preferring inline JSON over the file
// path. Credential problems are logged once and degrade the client to
// the unavailable state instead of failing construction.
func NewClient(cfg config.DriveConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		http:   resty.New().SetTimeout(15 * time.Second),
		logger: logger,
	}

	raw := []byte(cfg.CredentialsJSON)
	if len(raw) == 0 && cfg.CredentialsFile != "" {
		fileRaw, err := os.ReadFile(cfg.CredentialsFile)
		if err == nil {
			raw = fileRaw
		}
	}
	if len(raw) == 0 {
		logger.Warn("drive credential not configured, file removal disabled")
		return c
	}

	var account serviceAccount
	if err := json.Unmarshal(raw, &account); err != nil {
		logger.Warn("drive credential unparseable, file removal disabled", zap.Error(err))
		return c
	}
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(account.PrivateKey))
	if err != nil {
		logger.Warn("drive credential key invalid, file removal disabled", zap.Error(err))
		return c
	}

	c.account = &account
	c.signKey = key
	return c
}

// Remove deletes the linked file, falling back to ejecting it from its
// parent folders when the service account is not the owner.
func (c *Client) Remove(ctx context.Context, link string) Outcome {
	fileID, ok := FileID(link)
	if !ok {
		return OutcomeFailed
	}
	if c.account == nil {
		return OutcomeUnavailable
	}

	token, err := c.token(ctx)
	if err != nil {
		c.logger.Warn("drive token exchange failed", zap.Error(err))
		return OutcomeUnavailable
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		Delete(filesEndpoint + fileID)
	if err == nil && resp.StatusCode() < http.StatusMultipleChoices {
		return OutcomeDeleted
	}

	return c.eject(ctx, token, fileID)
}

// eject removes the file from every parent folder. A file with no
// parents counts as already removed.
func (c *Client) eject(ctx context.Context, token, fileID string) Outcome {
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetQueryParam("fields", "parents").
		Get(filesEndpoint + fileID)
	if err != nil || resp.StatusCode() != http.StatusOK {
		return OutcomeFailed
	}

	var file struct {
		Parents []string `json:"parents"`
	}
	if err := json.Unmarshal(resp.Body(), &file); err != nil {
		return OutcomeFailed
	}
	if len(file.Parents) == 0 {
		return OutcomeOrphaned
	}

	resp, err = c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetQueryParam("removeParents", strings.Join(file.Parents, ",")).
		SetHeader("Content-Type", "application/json").
		SetBody("{}").
		Patch(filesEndpoint + fileID)
	if err != nil || resp.StatusCode() != http.StatusOK {
		return OutcomeFailed
	}
	return OutcomeEjected
}

// token returns a cached access token, exchanging a signed assertion
// when the cache is empty or near expiry.
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry.Add(-time.Minute)) {
		return c.accessToken, nil
	}

	endpoint := c.account.TokenURI
	if endpoint == "" {
		endpoint = defaultTokenEndpoint
	}

	now := time.Now()
	assertion := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"iss":   c.account.ClientEmail,
		"scope": driveScope,
		"aud":   endpoint,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	})
	signed, err := assertion.SignedString(c.signKey)
	if err != nil {
		return "", err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"grant_type": "urn:ietf:params:oauth:grant-type:jwt-bearer",
			"assertion":  signed,
		}).
		Post(endpoint)
	if err != nil {
		return "", err
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.Unmarshal(resp.Body(), &tokenResp); err != nil {
		return "", err
	}
	if tokenResp.AccessToken == "" {
		return "", errors.New("token response missing access_token")
	}

	c.accessToken = tokenResp.AccessToken
	c.tokenExpiry = now.Add(time.Duration(tokenResp.ExpiresIn) * time.Second)
	return c.accessToken, nil
}
