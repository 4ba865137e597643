package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/tradewind-gg/tradewind/tradewind/database/models"
)

// PreviewImageService renders a trade listing into a shareable card image
// by screenshotting an HTML template in headless Chrome.
type PreviewImageService struct {
	logger       *slog.Logger
	templatePath string
}

type listingCardData struct {
	OwnerName       string
	Game            string
	Offering        []string
	Requesting      []string
	Notes           string
	CreatedAt       string
	OfferingCount   int
	RequestingCount int
}

func NewPreviewImageService() *PreviewImageService {
	service := &PreviewImageService{
		logger:       slog.With(slog.String("service", "preview_image")),
		templatePath: filepath.Join("tradewind", "templates", "listing_card.html"),
	}
	service.testChromedpAvailability()
	return service
}

func (s *PreviewImageService) testChromedpAvailability() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	chromedpCtx, cancel := chromedp.NewContext(ctx)
	defer cancel()

	err := chromedp.Run(chromedpCtx, chromedp.Navigate("data:text/html,<html><body>test</body></html>"))
	if err != nil {
		s.logger.Error("chromedp not available, listing cards will fail",
			slog.String("error", err.Error()))
	}
}

// GenerateListingCard renders the listing with resolved item names into a
// PNG screenshot.
func (s *PreviewImageService) GenerateListingCard(ctx context.Context, listing *models.TradeListing, offering, requesting []*models.Item) ([]byte, error) {
	start := time.Now()

	ownerName := "Unknown User"
	if listing.Owner != nil {
		ownerName = listing.Owner.Username
	}

	data := listingCardData{
		OwnerName:       ownerName,
		Game:            strings.ToUpper(string(listing.Game)),
		Offering:        itemNames(offering),
		Requesting:      itemNames(requesting),
		Notes:           listing.Notes,
		CreatedAt:       listing.CreatedAt.Format("Jan 2, 2006"),
		OfferingCount:   len(offering),
		RequestingCount: len(requesting),
	}

	htmlContent, err := s.renderHTML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to render card HTML: %w", err)
	}

	chromedpCtx, cancel := chromedp.NewContext(ctx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancel()

	chromedpCtx, cancel = context.WithTimeout(chromedpCtx, 15*time.Second)
	defer cancel()

	var imageBytes []byte
	err = chromedp.Run(chromedpCtx,
		chromedp.Navigate("data:text/html,"+htmlContent),
		chromedp.WaitVisible("#listing-card", chromedp.ByID),
		chromedp.Sleep(200*time.Millisecond),
		chromedp.Screenshot("#listing-card", &imageBytes, chromedp.ByID),
	)
	if err != nil {
		s.logger.Error("Failed to screenshot listing card",
			slog.String("error", err.Error()),
			slog.Duration("elapsed", time.Since(start)))
		return nil, fmt.Errorf("failed to generate listing card: %w", err)
	}

	s.logger.Info("Listing card generated",
		slog.Int64("listing_id", listing.ID),
		slog.Int("image_size", len(imageBytes)),
		slog.Duration("elapsed", time.Since(start)))
	return imageBytes, nil
}

func (s *PreviewImageService) renderHTML(data listingCardData) (string, error) {
	templateContent, err := os.ReadFile(s.templatePath)
	if err != nil {
		return "", fmt.Errorf("failed to read card template: %w", err)
	}

	tmpl, err := template.New("listing_card").Parse(string(templateContent))
	if err != nil {
		return "", fmt.Errorf("failed to parse card template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute card template: %w", err)
	}

	htmlContent := strings.ReplaceAll(buf.String(), "#", "%23")
	htmlContent = strings.ReplaceAll(htmlContent, "\n", "")
	return htmlContent, nil
}

func itemNames(items []*models.Item) []string {
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}
	return names
}
