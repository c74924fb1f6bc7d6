package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/coursehub/internal/common"
	sc "github.com/dmitrijs2005/coursehub/internal/server/config"
	"github.com/dmitrijs2005/coursehub/internal/server/models"
	"github.com/dmitrijs2005/coursehub/internal/server/repositories/repomanager"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
)

// CourseService handles course authoring. Updates go through the store's
// atomic update-if-creator, so ownership is checked and applied in one step.
type CourseService struct {
	repomanager repomanager.RepositoryManager
	config      *sc.Config
}

func NewCourseService(m repomanager.RepositoryManager, cfg *sc.Config) *CourseService {
	return &CourseService{repomanager: m, config: cfg}
}

// Create stores a new course owned by creatorID.
func (s *CourseService) Create(ctx context.Context, creatorID string, in CourseInput) (*models.Course, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	c, err := s.repomanager.Courses().Create(ctx, &models.Course{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		ImageURL:    in.ImageURL,
		CreatorID:   creatorID,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return c, nil
}

// Update replaces the mutable fields of courseID when creatorID authored it.
// An unknown, malformed or foreign course id all yield
// common.ErrNotFoundOrForbidden.
func (s *CourseService) Update(ctx context.Context, courseID, creatorID string, in CourseInput) (*models.Course, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(courseID); err != nil {
		return nil, common.ErrNotFoundOrForbidden
	}

	c, err := s.repomanager.Courses().UpdateIfCreator(ctx, courseID, creatorID, models.CourseChanges{
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		ImageURL:    in.ImageURL,
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrNotFoundOrForbidden
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return c, nil
}

func (s *CourseService) ListByCreator(ctx context.Context, creatorID string) ([]models.Course, error) {
	list, err := s.repomanager.Courses().ListByCreator(ctx, creatorID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return list, nil
}

// ListAll is the public catalogue preview.
func (s *CourseService) ListAll(ctx context.Context) ([]models.Course, error) {
	list, err := s.repomanager.Courses().ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return list, nil
}

// ImageStorageKey returns a fresh object key for an image uploaded by creatorID.
func ImageStorageKey(creatorID string) string {
	d := time.Now()
	return fmt.Sprintf("courses/%s/%d/%d/%d/%v", creatorID, d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *CourseService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// PresignImageUpload returns an object key and a presigned PUT URL the admin
// uploads the course image to. The key is then sent back as imageUrl.
func (s *CourseService) PresignImageUpload(ctx context.Context, creatorID string) (string, string, error) {
	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	bucket := s.config.S3Bucket
	key := ImageStorageKey(creatorID)

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.config.ImageUploadURLValidity))
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	return key, req.URL, nil
}
