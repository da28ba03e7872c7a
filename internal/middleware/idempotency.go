package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	IdempotencyHeader   = "Idempotency-Key"
	idempotencyLockTTL  = 30 * time.Second
	idempotencyCacheTTL = 24 * time.Hour
)

type cachedResponse struct {
	Status int    `json:"status"`
	Body   string `json:"body"`
}

type bodyRecorder struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

func IdempotencyCacheKey(path, employeeID, key string) string {
	return fmt.Sprintf("presence:idemp:%s:%s:%s", path, employeeID, key)
}

// Idempotency replays the stored response of a successful POST carrying the
// same Idempotency-Key, so a retried punch is not submitted twice.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader(IdempotencyHeader)
		if idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		employeeID := c.GetString("employee_id_validated")
		cacheKey := IdempotencyCacheKey(c.FullPath(), employeeID, idempKey)
		lockKey := cacheKey + ":lock"

		// 1. CEK CACHE
		if val, err := rdb.Get(ctx, cacheKey).Result(); err == nil {
			var cached cachedResponse
			if json.Unmarshal([]byte(val), &cached) == nil {
				c.Header("Idempotent-Replay", "true")
				c.Data(cached.Status, "application/json; charset=utf-8", []byte(cached.Body))
				c.Abort()
				return
			}
		}

		// 2. ATOMIC LOCK (SetNX). Expiry pendek agar lock hilang sendiri jika proses crash.
		isNew, err := rdb.SetNX(ctx, lockKey, "locked", idempotencyLockTTL).Result()
		if err != nil {
			zap.L().Warn("idempotency lock unavailable, continuing without it", zap.Error(err))
			c.Next()
			return
		}
		if !isNew {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"ok": false,
				"error": gin.H{
					"code":    "PROCESSING",
					"message": "Permintaan Anda sedang diproses, mohon tunggu sebentar.",
				},
			})
			return
		}

		rec := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = rec

		c.Next()

		if status := rec.Status(); status >= 200 && status < 300 {
			raw, _ := json.Marshal(cachedResponse{Status: status, Body: rec.buf.String()})
			if err := rdb.Set(ctx, cacheKey, string(raw), idempotencyCacheTTL).Err(); err != nil {
				zap.L().Warn("failed to cache idempotent response", zap.Error(err))
			}
		}
		if err := rdb.Del(ctx, lockKey).Err(); err != nil {
			zap.L().Warn("failed to release idempotency lock", zap.Error(err))
		}
	}
}
