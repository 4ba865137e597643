package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/tradewind-gg/tradewind/tradewind/config"
)

// SpacesService stores item artwork in DigitalOcean Spaces under a
// per-game key layout.
type SpacesService struct {
	client   *s3.Client
	bucket   string
	region   string
	itemRoot string
}

func NewSpacesService(spacesKey, spacesSecret, region, bucket, itemRoot string) (*SpacesService, error) {
	if itemRoot == "" {
		itemRoot = config.ItemImageRoot
	}

	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.digitaloceanspaces.com", region),
		}, nil
	})

	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithEndpointResolverWithOptions(resolver),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(spacesKey, spacesSecret, "")),
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load Spaces config: %w", err)
	}

	return &SpacesService{
		client:   s3.NewFromConfig(cfg),
		bucket:   bucket,
		region:   region,
		itemRoot: strings.Trim(itemRoot, "/"),
	}, nil
}

func (s *SpacesService) itemKey(game string, itemID int64) string {
	return fmt.Sprintf("%s/%s/%d.png", s.itemRoot, game, itemID)
}

// UploadItemImage stores the artwork and returns its public URL.
func (s *SpacesService) UploadItemImage(ctx context.Context, game string, itemID int64, data []byte) (string, error) {
	key := s.itemKey(game, itemID)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String("image/png"),
		CacheControl: aws.String("public, max-age=31536000"),
		ACL:          types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload item image: %w", err)
	}
	return s.PublicURL(key), nil
}

// FetchItemImage downloads the stored artwork bytes.
func (s *SpacesService) FetchItemImage(ctx context.Context, game string, itemID int64) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.itemKey(game, itemID)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch item image: %w", err)
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

func (s *SpacesService) DeleteItemImage(ctx context.Context, game string, itemID int64) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.itemKey(game, itemID)),
	})
	if err != nil {
		return fmt.Errorf("failed to delete item image: %w", err)
	}
	return nil
}

func (s *SpacesService) PublicURL(key string) string {
	return fmt.Sprintf("https://%s.%s.digitaloceanspaces.com/%s", s.bucket, s.region, key)
}

func (s *SpacesService) GetBucket() string {
	return s.bucket
}

func (s *SpacesService) GetRegion() string {
	return s.region
}
