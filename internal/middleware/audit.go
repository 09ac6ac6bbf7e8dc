package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/moonymoon463-sudo/trezury-sub006/internal/model"
	"github.com/moonymoon463-sudo/trezury-sub006/internal/service"
)

// bodyLogWriter tees the response body for the audit record
type bodyLogWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w bodyLogWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// AuditMiddleware records every request asynchronously. Wallet passwords
// and API keys are redacted before the bodies are persisted.
func AuditMiddleware(auditSvc *service.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqID := uuid.NewString()
		c.Header("X-Request-ID", reqID)

		// Read the body up front and hand the handler a replay
		var reqBody []byte
		if c.Request.Body != nil {
			reqBody, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(reqBody))
		}

		blw := &bodyLogWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		entry := &model.AuditLog{
			ID:           reqID,
			Method:       c.Request.Method,
			Path:         c.Request.URL.Path,
			IP:           c.ClientIP(),
			UserAgent:    c.Request.UserAgent(),
			RequestBody:  redactBody(reqBody),
			StatusCode:   c.Writer.Status(),
			ResponseBody: redactBody(blw.body.Bytes()),
			LatencyMs:    time.Since(start).Milliseconds(),
			CreatedAt:    start,
		}
		if user := CurrentUser(c); user != nil {
			entry.UserID = user.ID
		}

		auditSvc.Record(entry)
	}
}

func redactBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var data interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		return "[unparseable]"
	}
	redactValue(&data)
	out, err := json.Marshal(data)
	if err != nil {
		return "[redacted]"
	}
	return string(out)
}

func redactValue(v *interface{}) {
	switch raw := (*v).(type) {
	case map[string]interface{}:
		for key, val := range raw {
			if isSensitiveKey(key) {
				raw[key] = "***"
				continue
			}
			vv := val
			redactValue(&vv)
			raw[key] = vv
		}
	case []interface{}:
		for i, val := range raw {
			vv := val
			redactValue(&vv)
			raw[i] = vv
		}
	}
}

func isSensitiveKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "password",
		"private_key",
		"api_key",
		"auth_tag",
		"ciphertext",
		"encrypted_key":
		return true
	default:
		return false
	}
}
