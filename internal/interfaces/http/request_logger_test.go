package http_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/paws-pos/internal/interfaces/http"
)

func accessLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	sc := bufio.NewScanner(buf)
	for sc.Scan() {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &entry))
		if entry["message"] == "http request" {
			out = append(out, entry)
		}
	}
	return out
}

func TestMiddleware_PanicQuedaEnElLogDeAcceso(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(zerolog.Nop())})
	apphttp.Middleware(app, zerolog.New(&buf), "*")
	app.Get("/boom", func(c *fiber.Ctx) error {
		panic("se rompió")
	})
	app.Get("/ok", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/ok", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	lines := accessLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "/boom", lines[0]["path"])
	assert.EqualValues(t, 500, lines[0]["status"])
	assert.Equal(t, "error", lines[0]["level"])
	assert.NotEmpty(t, lines[0]["request_id"])
	assert.Equal(t, "/ok", lines[1]["path"])
	assert.EqualValues(t, 204, lines[1]["status"])
}
