package storage

import (
	"context"
	"fmt"
	"strings"

	"medichat/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// NewS3Client erstellt einen S3-Client für das Snapshot-Archiv.
func NewS3Client(cfg *config.Config) (*s3.Client, error) {
	resolver := aws.EndpointResolverWithOptionsFunc(
		func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			return aws.Endpoint{
				URL:               cfg.SnapshotS3URL,
				SigningRegion:     cfg.SnapshotS3Region,
				HostnameImmutable: true,
			}, nil
		},
	)
	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(cfg.SnapshotS3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.SnapshotS3Key, cfg.SnapshotS3Secret, "")),
		awsconfig.WithEndpointResolverWithOptions(resolver),
	)
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(awsCfg), nil
}

// UploadSnapshot lädt eine abgerufene HTML-Seite ins S3 hoch und gibt den Link zurück.
func UploadSnapshot(ctx context.Context, client *s3.Client, bucket, key, html string, cfg *config.Config) (string, error) {
	contentType := "text/html; charset=utf-8"
	_, err := client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        strings.NewReader(html),
		ContentType: &contentType,
	})
	if err != nil {
		return "", err
	}
	link := fmt.Sprintf("%s/%s/%s", cfg.SnapshotS3URL, bucket, key)
	return link, nil
}
