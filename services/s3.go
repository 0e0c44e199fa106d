// Package services holds the object-storage and identity adapters an
// outfit-assembly deployment needs around the pure engine core: presigning
// item photo uploads/reads, and verifying caller identity tokens.
package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	cfg "outfitengine/config"
)

// AWSServiceProvider presigns wardrobe item photo uploads and reads
// against an S3-compatible bucket (e.g. R2).
type AWSServiceProvider interface {
	InitPresignClient(ctx context.Context) error
	PresignUploadURL(ctx context.Context, bucketName, fileKey string) (string, error)
	PresignReadURL(ctx context.Context, bucketName, fileKey string) (string, error)
}

// AWSService is the S3-compatible presign client.
type AWSService struct {
	S3PresignClient *s3.PresignClient
}

func (a *AWSService) InitPresignClient(ctx context.Context) error {
	settings := cfg.Load()
	r2Resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{URL: fmt.Sprintf("https://%s.r2.cloudflarestorage.com", settings.R2AccountID)}, nil
	})
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithEndpointResolverWithOptions(r2Resolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(settings.R2AccessKeyID, settings.R2AccessKeySecret, "")),
	)
	if err != nil {
		return fmt.Errorf("unable to load SDK config: %w", err)
	}
	a.S3PresignClient = s3.NewPresignClient(s3.NewFromConfig(awsCfg))
	return nil
}

// PresignUploadURL returns a presigned PUT URL for a wardrobe item photo,
// used when a client is adding a new Item to the catalog/wardrobe index.
func (a *AWSService) PresignUploadURL(ctx context.Context, bucketName, fileKey string) (string, error) {
	req, err := a.S3PresignClient.PresignPutObject(ctx, &s3.PutObjectInput{Bucket: aws.String(bucketName), Key: aws.String(fileKey)})
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

// PresignReadURL returns a presigned GET URL for reading back an item photo;
// URLCacheService memoizes its results.
func (a *AWSService) PresignReadURL(ctx context.Context, bucketName, fileKey string) (string, error) {
	req, err := a.S3PresignClient.PresignGetObject(ctx, &s3.GetObjectInput{Bucket: aws.String(bucketName), Key: aws.String(fileKey)})
	if err != nil {
		return "", fmt.Errorf("failed to presign request: %w", err)
	}
	return req.URL, nil
}

// DetectContentType exposes stdlib content sniffing for MIME validation
// before accepting an uploaded body.
func DetectContentType(body []byte) string {
	return http.DetectContentType(body)
}
