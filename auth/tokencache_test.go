package auth

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kbukum/apikit/credential"
)

// fakeSource is both a Source and a Credential, counting acquisitions.
type fakeSource struct {
	token     string
	expiresAt time.Time
	credErr   error
	tokenErr  error
	delay     time.Duration
	calls     int32
}

func (f *fakeSource) GetCredential(_ context.Context) (credential.Credential, error) {
	if f.credErr != nil {
		return nil, f.credErr
	}
	return f, nil
}

func (f *fakeSource) GetToken(_ context.Context, _ []string) (credential.AccessToken, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	atomic.AddInt32(&f.calls, 1)
	if f.tokenErr != nil {
		return credential.AccessToken{}, f.tokenErr
	}
	return credential.AccessToken{Value: f.token, ExpiresAt: f.expiresAt}, nil
}

func TestTokenCache_CacheHit(t *testing.T) {
	src := &fakeSource{token: "tok", expiresAt: time.Now().Add(time.Hour)}
	tc := NewTokenCache(src)

	for i := 0; i < 3; i++ {
		got, err := tc.GetAccessToken(context.Background(), "api://orders")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "tok" {
			t.Errorf("expected tok, got %q", got)
		}
	}
	if n := atomic.LoadInt32(&src.calls); n != 1 {
		t.Errorf("expected exactly 1 acquisition, got %d", n)
	}
}

func TestTokenCache_ExpiryBuffer(t *testing.T) {
	// Expires just inside the buffer: must be treated as absent.
	src := &fakeSource{token: "tok", expiresAt: time.Now().Add(DefaultExpiryBuffer - time.Second)}
	tc := NewTokenCache(src)

	if _, err := tc.GetAccessToken(context.Background(), "api://orders"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := tc.GetAccessToken(context.Background(), "api://orders"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := atomic.LoadInt32(&src.calls); n != 2 {
		t.Errorf("expected re-acquisition inside buffer, got %d calls", n)
	}
}

func TestTokenCache_BufferBoundary(t *testing.T) {
	base := time.Now()
	src := &fakeSource{token: "tok", expiresAt: base.Add(10 * time.Minute)}
	tc := NewTokenCache(src)

	tc.now = func() time.Time { return base }
	if _, err := tc.GetAccessToken(context.Background(), "api://orders"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 4m59s in: still served from cache.
	tc.now = func() time.Time { return base.Add(4*time.Minute + 59*time.Second) }
	if _, err := tc.GetAccessToken(context.Background(), "api://orders"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := atomic.LoadInt32(&src.calls); n != 1 {
		t.Fatalf("expected cache hit at t+4m59s, got %d calls", n)
	}

	// 5m01s in: inside the buffer, refresh.
	tc.now = func() time.Time { return base.Add(5*time.Minute + time.Second) }
	if _, err := tc.GetAccessToken(context.Background(), "api://orders"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := atomic.LoadInt32(&src.calls); n != 2 {
		t.Errorf("expected refresh at t+5m01s, got %d calls", n)
	}
}

func TestTokenCache_EmptyAudience(t *testing.T) {
	tc := NewTokenCache(&fakeSource{token: "tok"})
	if _, err := tc.GetAccessToken(context.Background(), ""); !errors.Is(err, ErrEmptyAudience) {
		t.Errorf("expected ErrEmptyAudience, got %v", err)
	}
}

func TestTokenCache_SourceErrorWrapped(t *testing.T) {
	cause := errors.New("identity provider down")
	tc := NewTokenCache(&fakeSource{credErr: cause})

	_, err := tc.GetAccessToken(context.Background(), "api://orders")
	if err == nil {
		t.Fatal("expected error")
	}
	var ae *Error
	if !errors.As(err, &ae) {
		t.Fatalf("expected *auth.Error, got %T", err)
	}
	if ae.Audience != "api://orders" {
		t.Errorf("expected audience carried, got %q", ae.Audience)
	}
	if !errors.Is(err, cause) {
		t.Error("expected cause to be wrapped")
	}
}

func TestTokenCache_PerAudienceEntries(t *testing.T) {
	src := &fakeSource{token: "tok", expiresAt: time.Now().Add(time.Hour)}
	tc := NewTokenCache(src)

	tc.GetAccessToken(context.Background(), "api://orders")
	tc.GetAccessToken(context.Background(), "api://billing")
	tc.GetAccessToken(context.Background(), "api://orders")

	if n := atomic.LoadInt32(&src.calls); n != 2 {
		t.Errorf("expected one acquisition per audience, got %d", n)
	}
}

func TestTokenCache_JWTExpiryFallback(t *testing.T) {
	claims := jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	// Source reports no expiry; the cache must recover it from the claim.
	src := &fakeSource{token: signed}
	tc := NewTokenCache(src)

	tc.GetAccessToken(context.Background(), "api://orders")
	tc.GetAccessToken(context.Background(), "api://orders")
	if n := atomic.LoadInt32(&src.calls); n != 1 {
		t.Errorf("expected jwt exp to make the token cacheable, got %d calls", n)
	}
}

func TestTokenCache_UnknownExpiryNeverCached(t *testing.T) {
	src := &fakeSource{token: "opaque-token"}
	tc := NewTokenCache(src)

	tc.GetAccessToken(context.Background(), "api://orders")
	tc.GetAccessToken(context.Background(), "api://orders")
	if n := atomic.LoadInt32(&src.calls); n != 2 {
		t.Errorf("expected opaque token without expiry to bypass the cache, got %d calls", n)
	}
}

func TestTokenCache_Clear(t *testing.T) {
	src := &fakeSource{token: "tok", expiresAt: time.Now().Add(time.Hour)}
	tc := NewTokenCache(src)

	tc.GetAccessToken(context.Background(), "api://orders")
	tc.Clear()
	tc.GetAccessToken(context.Background(), "api://orders")

	if n := atomic.LoadInt32(&src.calls); n != 2 {
		t.Errorf("expected refresh after clear, got %d calls", n)
	}
}

func TestTokenCache_SingleFlight(t *testing.T) {
	src := &fakeSource{token: "tok", expiresAt: time.Now().Add(time.Hour), delay: 30 * time.Millisecond}
	tc := NewTokenCache(src, WithSingleFlight())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := tc.GetAccessToken(context.Background(), "api://orders"); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if n := atomic.LoadInt32(&src.calls); n != 1 {
		t.Errorf("expected single-flight to collapse refreshes, got %d calls", n)
	}
}

func TestTokenCache_CustomBuffer(t *testing.T) {
	src := &fakeSource{token: "tok", expiresAt: time.Now().Add(time.Hour)}
	tc := NewTokenCache(src, WithExpiryBuffer(2*time.Hour))

	// Buffer exceeds lifetime: every call must refresh.
	tc.GetAccessToken(context.Background(), "api://orders")
	tc.GetAccessToken(context.Background(), "api://orders")
	if n := atomic.LoadInt32(&src.calls); n != 2 {
		t.Errorf("expected refresh on every call, got %d", n)
	}
}
