package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	sc "github.com/uncovr/uncovr/internal/server/config"
	"github.com/uncovr/uncovr/internal/server/models"
	"github.com/uncovr/uncovr/internal/server/repositories/repomanager"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// latestReleasesLimit caps the home feed.
const latestReleasesLimit = 20

// presignValidity is how long the signed artwork URLs stay fetchable.
const presignValidity = 15 * time.Minute

// ReleaseService serves the catalog listings. Cover art and artist photos
// live in object storage; the service replaces their keys with presigned
// GET URLs before the rows leave the server.
type ReleaseService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
}

func NewReleaseService(db *sql.DB, repomanager repomanager.RepositoryManager, config *sc.Config) *ReleaseService {
	return &ReleaseService{
		db:          db,
		repomanager: repomanager,
		config:      config,
	}
}

func (s *ReleaseService) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,     // MINIO_ROOT_USER
			s.config.S3RootPassword, // MINIO_ROOT_PASSWORD
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
	})

	return newS3PresignClient(client), nil
}

// signArtwork fills in presigned URLs for every non-empty storage key.
// Releases without stored artwork keep empty URLs.
func (s *ReleaseService) signArtwork(ctx context.Context, releases []*models.Release) error {

	presignClient, err := s.getPresignClient()
	if err != nil {
		return err
	}

	bucket := s.config.S3Bucket

	sign := func(key string) (string, error) {
		req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
			Bucket: &bucket,
			Key:    &key,
		}, s3.WithPresignExpires(presignValidity))
		if err != nil {
			return "", err
		}
		return req.URL, nil
	}

	for _, release := range releases {
		if release.CoverKey != "" {
			if release.CoverURL, err = sign(release.CoverKey); err != nil {
				return err
			}
		}
		if release.Artist.ImageKey != "" {
			if release.Artist.ImageURL, err = sign(release.Artist.ImageKey); err != nil {
				return err
			}
		}
	}

	return nil
}

// Latest returns the newest catalog entries, artwork URLs resolved.
func (s *ReleaseService) Latest(ctx context.Context) ([]*models.Release, error) {

	releases, err := s.repomanager.Releases(s.db).Latest(ctx, latestReleasesLimit)
	if err != nil {
		return nil, err
	}

	if err := s.signArtwork(ctx, releases); err != nil {
		return nil, err
	}

	return releases, nil
}

// Featured returns the editorially flagged entries, artwork URLs resolved.
func (s *ReleaseService) Featured(ctx context.Context) ([]*models.Release, error) {

	releases, err := s.repomanager.Releases(s.db).Featured(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.signArtwork(ctx, releases); err != nil {
		return nil, err
	}

	return releases, nil
}
