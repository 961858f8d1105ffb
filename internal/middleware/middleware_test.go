package middleware

import (
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "go.uber.org/zap"
    "go.uber.org/zap/zapcore"
    "go.uber.org/zap/zaptest/observer"

    "github.com/iliyamo/airline-seat-booking/internal/config"
    "github.com/iliyamo/airline-seat-booking/internal/utils"
)

const secret = "test-secret"

func whoami(c echo.Context) error {
    id, _ := UserID(c)
    return c.JSON(http.StatusOK, echo.Map{"id": id, "role": Role(c), "actor": Actor(c)})
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, req)
    return rec
}

func bearer(t *testing.T, userID uint64, role string) string {
    t.Helper()
    tok, err := utils.NewAccessToken(secret, userID, role, 5)
    require.NoError(t, err)
    return "Bearer " + tok.Token
}

func TestJWTAuth(t *testing.T) {
    e := echo.New()
    e.GET("/me", whoami, JWTAuth(secret))

    tests := []struct {
        name   string
        header string
        status int
    }{
        {"missing header", "", http.StatusUnauthorized},
        {"not bearer", "Basic abc", http.StatusUnauthorized},
        {"empty bearer", "Bearer ", http.StatusUnauthorized},
        {"garbage", "Bearer not.a.jwt", http.StatusUnauthorized},
        {"valid", bearer(t, 7, "PASSENGER"), http.StatusOK},
    }
    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            req := httptest.NewRequest(http.MethodGet, "/me", nil)
            if tt.header != "" {
                req.Header.Set(echo.HeaderAuthorization, tt.header)
            }
            rec := serve(e, req)
            assert.Equal(t, tt.status, rec.Code)
            if tt.status == http.StatusOK {
                assert.JSONEq(t, `{"id":7,"role":"PASSENGER","actor":"7"}`, rec.Body.String())
            }
        })
    }
}

func TestJWTAuth_WrongSecret(t *testing.T) {
    e := echo.New()
    e.GET("/me", whoami, JWTAuth("other"))

    req := httptest.NewRequest(http.MethodGet, "/me", nil)
    req.Header.Set(echo.HeaderAuthorization, bearer(t, 1, "AGENT"))
    assert.Equal(t, http.StatusUnauthorized, serve(e, req).Code)
}

func TestRequireRole(t *testing.T) {
    e := echo.New()
    e.GET("/book", whoami, JWTAuth(secret), RequireRole("PASSENGER", "AGENT"))

    for role, want := range map[string]int{
        "PASSENGER": http.StatusOK,
        "AGENT":     http.StatusOK,
        "ADMIN":     http.StatusForbidden,
        "":          http.StatusForbidden,
    } {
        req := httptest.NewRequest(http.MethodGet, "/book", nil)
        req.Header.Set(echo.HeaderAuthorization, bearer(t, 3, role))
        assert.Equal(t, want, serve(e, req).Code, role)
    }
}

func TestActor_Guest(t *testing.T) {
    e := echo.New()
    e.GET("/x", whoami)
    rec := serve(e, httptest.NewRequest(http.MethodGet, "/x", nil))
    assert.JSONEq(t, `{"id":0,"role":"","actor":"guest"}`, rec.Body.String())
}

func TestRequestLogger_LevelsByStatus(t *testing.T) {
    core, logs := observer.New(zapcore.DebugLevel)
    e := echo.New()
    e.Use(RequestLogger(zap.New(core)))
    e.GET("/ok", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
    e.GET("/boom", func(c echo.Context) error { return echo.NewHTTPError(http.StatusInternalServerError) })

    serve(e, httptest.NewRequest(http.MethodGet, "/ok", nil))
    serve(e, httptest.NewRequest(http.MethodGet, "/boom", nil))
    serve(e, httptest.NewRequest(http.MethodGet, "/missing", nil))

    entries := logs.All()
    require.Len(t, entries, 3)
    assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
    assert.Equal(t, int64(200), entries[0].ContextMap()["status"])
    assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
    assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
    assert.Equal(t, "/missing", entries[2].ContextMap()["path"])
}

func TestCacheKey(t *testing.T) {
    e := echo.New()
    cfg := config.CacheConfig{Prefix: "fares", KeyStrategy: "route_query"}

    key := func(target string) string {
        c := e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), httptest.NewRecorder())
        return cacheKey(cfg, c)
    }
    a, b := key("/v1/fares/ELDERLY"), key("/v1/fares/INFANT")
    assert.NotEqual(t, a, b)
    assert.Equal(t, a, key("/v1/fares/ELDERLY"))
    assert.NotEqual(t, a, key("/v1/fares/ELDERLY?x=1"))
    assert.Regexp(t, `^fares:[0-9a-f]{40}$`, a)
}

func TestRateKey(t *testing.T) {
    e := echo.New()
    req := httptest.NewRequest(http.MethodPost, "/v1/seats/1A/book", nil)
    req.RemoteAddr = "10.0.0.9:5555"
    c := e.NewContext(req, httptest.NewRecorder())
    c.SetPath("/v1/seats/:id/book")
    c.Set(ctxUserID, uint64(12))

    cfg := config.RateLimitConfig{Prefix: "rl"}
    assert.Equal(t, "rl:ip:10.0.0.9:user:12:route:POST /v1/seats/:id/book", rateKey(cfg, c))
    cfg.KeyStrategy = "user"
    assert.Equal(t, "rl:user:12", rateKey(cfg, c))
}

func TestRetryAfterSeconds(t *testing.T) {
    assert.Equal(t, 0, retryAfterSeconds(-5))
    assert.Equal(t, 1, retryAfterSeconds(1))
    assert.Equal(t, 2, retryAfterSeconds(1001))
    assert.Equal(t, int64(4), asInt64("4"))
    assert.Equal(t, int64(0), asInt64(nil))
}

func TestRedisMiddleware_PassThroughWithoutClient(t *testing.T) {
    e := echo.New()
    calls := 0
    h := func(c echo.Context) error { calls++; return c.String(http.StatusOK, "x") }
    e.GET("/f", h,
        ResponseCache(config.CacheConfig{Enabled: true}, nil, zap.NewNop()),
        RateLimit(config.RateLimitConfig{Enabled: true}, nil, zap.NewNop()))

    for i := 0; i < 3; i++ {
        rec := serve(e, httptest.NewRequest(http.MethodGet, "/f", nil))
        assert.Equal(t, http.StatusOK, rec.Code)
        assert.Empty(t, rec.Header().Get("X-Cache"))
    }
    assert.Equal(t, 3, calls)
}

func TestRedisMiddleware_FailOpen(t *testing.T) {
    rdb := redis.NewClient(&redis.Options{
        Addr:        "127.0.0.1:1",
        DialTimeout: 50 * time.Millisecond,
        MaxRetries:  -1,
    })
    t.Cleanup(func() { _ = rdb.Close() })

    e := echo.New()
    e.GET("/f", func(c echo.Context) error { return c.String(http.StatusOK, "fare") },
        ResponseCache(config.CacheConfig{Enabled: true, Methods: map[string]bool{"GET": true}, TTL: time.Minute, Prefix: "t"}, rdb, zap.NewNop()),
        RateLimit(config.RateLimitConfig{Enabled: true, Capacity: 1, RefillTokens: 1, RefillInterval: time.Second, TTL: time.Minute, Prefix: "rl"}, rdb, zap.NewNop()))

    rec := serve(e, httptest.NewRequest(http.MethodGet, "/f", nil))
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Equal(t, "fare", rec.Body.String())
    assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
}
