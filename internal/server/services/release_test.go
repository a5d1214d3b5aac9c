package services

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sc "github.com/uncovr/uncovr/internal/server/config"
	"github.com/uncovr/uncovr/internal/server/models"
)

func newReleaseService(rm *fakeRepoManager) *ReleaseService {
	cfg := &sc.Config{
		S3RootUser:     "admin",
		S3RootPassword: "secret",
		S3Bucket:       "covers",
		S3Region:       "us-east-1",
		S3BaseEndpoint: "http://127.0.0.1:9000/",
	}
	return NewReleaseService(nil, rm, cfg)
}

// stubPresign replaces the AWS seams so no network is touched. Signed URLs
// come back as https://signed.example/<key>.
func stubPresign(t *testing.T, signErr error) {
	t.Helper()

	origLoad := loadDefaultAWSConfig
	origNewClient := newS3ClientFromConfig
	origNewPresign := newS3PresignClient
	origGet := presignGetObject
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewClient
		newS3PresignClient = origNewPresign
		presignGetObject = origGet
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return nil
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return nil
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		if signErr != nil {
			return nil, signErr
		}
		return &v4.PresignedHTTPRequest{URL: "https://signed.example/" + *in.Key}, nil
	}
}

func TestLatest_SignsArtwork(t *testing.T) {
	stubPresign(t, nil)

	rm := newFakeManager()
	rm.releases.latestOut = []*models.Release{
		{ID: 1, Title: "First", CoverKey: "covers/1.jpg", Artist: models.Artist{ImageKey: "artists/1.jpg"}},
	}
	s := newReleaseService(rm)

	releases, err := s.Latest(context.Background())
	require.NoError(t, err)
	require.Len(t, releases, 1)
	assert.Equal(t, "https://signed.example/covers/1.jpg", releases[0].CoverURL)
	assert.Equal(t, "https://signed.example/artists/1.jpg", releases[0].Artist.ImageURL)
}

func TestLatest_SkipsEmptyKeys(t *testing.T) {
	stubPresign(t, nil)

	rm := newFakeManager()
	rm.releases.latestOut = []*models.Release{
		{ID: 1, Title: "No artwork"},
	}
	s := newReleaseService(rm)

	releases, err := s.Latest(context.Background())
	require.NoError(t, err)
	assert.Empty(t, releases[0].CoverURL)
	assert.Empty(t, releases[0].Artist.ImageURL)
}

func TestLatest_PresignError(t *testing.T) {
	stubPresign(t, errors.New("presign failed"))

	rm := newFakeManager()
	rm.releases.latestOut = []*models.Release{
		{ID: 1, Title: "First", CoverKey: "covers/1.jpg"},
	}
	s := newReleaseService(rm)

	_, err := s.Latest(context.Background())
	assert.Error(t, err)
}

func TestLatest_RepoError(t *testing.T) {
	rm := newFakeManager()
	rm.releases.latestErr = errors.New("db down")
	s := newReleaseService(rm)

	_, err := s.Latest(context.Background())
	assert.Error(t, err)
}

func TestFeatured_SignsArtwork(t *testing.T) {
	stubPresign(t, nil)

	rm := newFakeManager()
	rm.releases.featuredOut = []*models.Release{
		{ID: 2, Title: "Second", CoverKey: "covers/2.jpg", Featured: true},
	}
	s := newReleaseService(rm)

	releases, err := s.Featured(context.Background())
	require.NoError(t, err)
	require.Len(t, releases, 1)
	assert.Equal(t, "https://signed.example/covers/2.jpg", releases[0].CoverURL)
}
