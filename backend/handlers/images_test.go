package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	tradewindconfig "github.com/tradewind-gg/tradewind/tradewind/config"
	"github.com/tradewind-gg/tradewind/tradewind/services"
)

func newUploadApp() *fiber.App {
	webApp := &WebApp{SpacesService: &services.SpacesService{}}

	app := fiber.New(fiber.Config{
		BodyLimit: 2 * tradewindconfig.MaxImageSize,
	})
	app.Post("/api/catalog/:id/image", ItemImageUpload(webApp))
	return app
}

func TestItemImageUploadRejectsOversizedFile(t *testing.T) {
	app := newUploadApp()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", "huge.png")
	require.NoError(t, err)
	_, err = part.Write(make([]byte, tradewindconfig.MaxImageSize+1))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/api/catalog/1/image", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestItemImageUploadRequiresFile(t *testing.T) {
	app := newUploadApp()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	require.NoError(t, writer.WriteField("name", "not an image"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/api/catalog/1/image", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
