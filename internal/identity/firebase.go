package identity

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	defaultCertsURL   = "https://www.googleapis.com/robot/v1/metadata/x509/securetoken@system.gserviceaccount.com"
	defaultCertsTTL   = time.Hour
	firebaseIssuerFmt = "https://securetoken.google.com/%s"
)

// FirebaseVerifier проверяет ID-токены Firebase Auth:
// RS256, kid из опубликованных сертификатов, aud = project id, iss = securetoken.
type FirebaseVerifier struct {
	projectID string
	certsURL  string
	client    *resty.Client
	now       func() time.Time

	mu        sync.RWMutex
	keys      map[string]*rsa.PublicKey
	expiresAt time.Time
}

func NewFirebaseVerifier(projectID, certsURL string) *FirebaseVerifier {
	if certsURL == "" {
		certsURL = defaultCertsURL
	}
	return &FirebaseVerifier{
		projectID: projectID,
		certsURL:  certsURL,
		client:    resty.New().SetTimeout(10 * time.Second).SetRetryCount(2),
		now:       time.Now,
	}
}

func (v *FirebaseVerifier) Verify(ctx context.Context, raw string) (*Claims, error) {
	var tc tokenClaims
	_, err := jwt.ParseWithClaims(raw, &tc, func(t *jwt.Token) (interface{}, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, fmt.Errorf("token has no kid header")
		}
		return v.key(ctx, kid)
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithAudience(v.projectID),
		jwt.WithIssuer(fmt.Sprintf(firebaseIssuerFmt, v.projectID)),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return tc.toClaims()
}

// key возвращает публичный ключ по kid. Кэш обновляется по max-age или при неизвестном kid.
func (v *FirebaseVerifier) key(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	v.mu.RLock()
	k, ok := v.keys[kid]
	fresh := v.now().Before(v.expiresAt)
	v.mu.RUnlock()
	if ok && fresh {
		return k, nil
	}

	if err := v.refresh(ctx); err != nil {
		return nil, err
	}

	v.mu.RLock()
	defer v.mu.RUnlock()
	if k, ok := v.keys[kid]; ok {
		return k, nil
	}
	return nil, fmt.Errorf("unknown key id %q", kid)
}

func (v *FirebaseVerifier) refresh(ctx context.Context) error {
	var certs map[string]string
	resp, err := v.client.R().
		SetContext(ctx).
		SetResult(&certs).
		Get(v.certsURL)
	if err != nil {
		return fmt.Errorf("failed to fetch signing certificates: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("failed to fetch signing certificates: status %d", resp.StatusCode())
	}

	keys := make(map[string]*rsa.PublicKey, len(certs))
	for kid, certPEM := range certs {
		pub, err := parseCertificateKey(certPEM)
		if err != nil {
			return fmt.Errorf("certificate %s: %w", kid, err)
		}
		keys[kid] = pub
	}

	v.mu.Lock()
	v.keys = keys
	v.expiresAt = v.now().Add(maxAge(resp.Header().Get("Cache-Control")))
	v.mu.Unlock()
	return nil
}

func parseCertificateKey(certPEM string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(certPEM))
	if block == nil {
		return nil, fmt.Errorf("invalid PEM")
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, err
	}
	pub, ok := cert.PublicKey.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("certificate key is not RSA")
	}
	return pub, nil
}

// maxAge разбирает "public, max-age=19055, must-revalidate"
func maxAge(cacheControl string) time.Duration {
	for _, part := range strings.Split(cacheControl, ",") {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(part, "max-age=") {
			if secs, err := strconv.Atoi(strings.TrimPrefix(part, "max-age=")); err == nil && secs > 0 {
				return time.Duration(secs) * time.Second
			}
		}
	}
	return defaultCertsTTL
}
