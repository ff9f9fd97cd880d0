package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/stockpilot-api/internal/domain/entity"
	"github.com/sangkips/stockpilot-api/internal/domain/repository"
)

const (
	// IdempotencyKeyHeader is the HTTP header for idempotency keys
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyKeyTTL is how long keys are valid
	IdempotencyKeyTTL = 24 * time.Hour
)

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Repo repository.IdempotencyRepository
	// Required rejects writes that carry no key
	Required bool
}

// responseWriter wraps gin.ResponseWriter to capture the response body
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the stored response of a write already processed
// under the same Idempotency-Key. The key is reserved before the handler
// runs, so a concurrent duplicate gets 409 instead of writing twice. Only
// successful responses are stored; a failed request releases its key and
// can be retried.
func Idempotency(config IdempotencyConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut && c.Request.Method != http.MethodPatch {
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			if config.Required {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
					"success": false,
					"message": "Idempotency-Key header is required for this request",
				})
				return
			}
			c.Next()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "Failed to read request body",
			})
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		sum := sha256.Sum256(body)
		requestHash := hex.EncodeToString(sum[:])
		endpoint := c.Request.Method + " " + c.FullPath()

		existing, err := config.Repo.GetByKey(c.Request.Context(), key)
		if err != nil {
			GetLogger(c).Error("failed to check idempotency key", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Failed to check idempotency key",
			})
			return
		}

		if existing != nil && !existing.IsExpired(time.Now()) {
			replay(c, existing, endpoint, requestHash)
			return
		}

		pending := &entity.IdempotencyKey{
			Key:         key,
			Endpoint:    endpoint,
			RequestHash: requestHash,
			ExpiresAt:   time.Now().Add(IdempotencyKeyTTL),
		}
		reserved, err := config.Repo.Reserve(c.Request.Context(), pending)
		if err != nil {
			GetLogger(c).Error("failed to reserve idempotency key", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Failed to check idempotency key",
			})
			return
		}
		if !reserved {
			abortInFlight(c)
			return
		}

		blw := &responseWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		// the request context may already be cancelled
		ctx := context.WithoutCancel(c.Request.Context())
		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			if err := config.Repo.Release(ctx, key); err != nil {
				GetLogger(c).Warn("failed to release idempotency key", "error", err)
			}
			return
		}

		pending.ResponseCode = status
		pending.ResponseBody = blw.body.String()
		if err := config.Repo.Create(ctx, pending); err != nil {
			GetLogger(c).Warn("failed to store idempotency key", "error", err)
		}
	}
}

// replay answers with the stored response, or refuses when the key belongs
// to another request or its first use has not finished
func replay(c *gin.Context, existing *entity.IdempotencyKey, endpoint, requestHash string) {
	if existing.Endpoint != endpoint || existing.RequestHash != requestHash {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"message": "Idempotency-Key was already used for a different request",
		})
		return
	}
	if existing.IsPending() {
		abortInFlight(c)
		return
	}
	c.Header("X-Idempotency-Replayed", "true")
	c.Data(existing.ResponseCode, "application/json; charset=utf-8", []byte(existing.ResponseBody))
	c.Abort()
}

func abortInFlight(c *gin.Context) {
	c.Header("Retry-After", "1")
	c.AbortWithStatusJSON(http.StatusConflict, gin.H{
		"success": false,
		"message": "A request with this Idempotency-Key is still being processed",
	})
}
