package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newLimitedApp(rl *RateLimiter) *gin.Engine {
	r := gin.New()
	r.POST("/login", rl.Middleware(KeyByIP), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func hit(r *gin.Engine, addr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = addr

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiterBlocksOverLimit(t *testing.T) {
	r := newLimitedApp(NewRateLimiter(3, time.Minute))

	for i := 0; i < 3; i++ {
		if w := hit(r, "10.0.0.1:1234"); w.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i, w.Code)
		}
	}

	w := hit(r, "10.0.0.1:1234")

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}

	if w.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After header")
	}
}

func TestRateLimiterKeysAreIndependent(t *testing.T) {
	r := newLimitedApp(NewRateLimiter(1, time.Minute))

	if w := hit(r, "10.0.0.1:1234"); w.Code != http.StatusOK {
		t.Fatalf("first client status = %d", w.Code)
	}

	if w := hit(r, "10.0.0.1:1234"); w.Code != http.StatusTooManyRequests {
		t.Fatalf("first client second hit = %d, want 429", w.Code)
	}

	// a different address gets its own window
	if w := hit(r, "10.0.0.2:1234"); w.Code != http.StatusOK {
		t.Errorf("second client status = %d, want 200", w.Code)
	}
}

func TestRateLimiterWindowResets(t *testing.T) {
	r := newLimitedApp(NewRateLimiter(1, 10*time.Millisecond))

	if w := hit(r, "10.0.0.1:1234"); w.Code != http.StatusOK {
		t.Fatalf("first hit = %d", w.Code)
	}

	if w := hit(r, "10.0.0.1:1234"); w.Code != http.StatusTooManyRequests {
		t.Fatalf("second hit = %d, want 429", w.Code)
	}

	time.Sleep(15 * time.Millisecond)

	if w := hit(r, "10.0.0.1:1234"); w.Code != http.StatusOK {
		t.Errorf("post-window hit = %d, want 200", w.Code)
	}
}
