package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	httpcontext "github.com/dtroode/alumni-portal-server/internal/api/http/context"
	"github.com/dtroode/alumni-portal-server/internal/testutil"
)

func newTestApp() *fiber.App {
	return fiber.New(fiber.Config{
		ErrorHandler: NewErrorHandler(testutil.MakeNoopLogger(), false),
	})
}

// asAccount stands in for the authentication middleware.
func asAccount(cm *httpcontext.Manager, id uuid.UUID) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.SetUserContext(cm.SetAccountIDToContext(context.Background(), id))
		return c.Next()
	}
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, r)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	return req
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}
