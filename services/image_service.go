package services

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"matchview/models"
	"matchview/pii"
)

var ErrInvalidUpload = errors.New("invalid upload")

// ObjectPresigner is the subset of s3.PresignClient the image service uses
type ObjectPresigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// NewS3Presigner builds a presigner from the shared AWS config
func NewS3Presigner(cfg aws.Config) *s3.PresignClient {
	return s3.NewPresignClient(s3.NewFromConfig(cfg))
}

// ImageService decides which profile images a viewer sees clear and signs their URLs
type ImageService struct {
	backend   *BackendClient
	access    *PiiService
	presigner ObjectPresigner
	bucket    string
	ttl       time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

func NewImageService(backend *BackendClient, access *PiiService, presigner ObjectPresigner, bucket string, ttl time.Duration, logger *zap.Logger) *ImageService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImageService{
		backend:   backend,
		access:    access,
		presigner: presigner,
		bucket:    bucket,
		ttl:       ttl,
		logger:    logger,
		now:       time.Now,
	}
}

// Images returns owner's images as the viewer may see them, in display order.
// An image is clear when it starts clear, when the viewer owns it, or when the
// viewer holds approved image access that has not expired. Everything else is
// returned blurred with no URL.
func (s *ImageService) Images(ctx context.Context, sess models.Session, owner string) ([]models.ImageView, error) {
	records, err := s.backend.ImageVisibility(ctx, sess, owner)
	if err != nil {
		return nil, err
	}

	var access pii.AccessMap
	if owner != sess.Username && s.access != nil {
		access, err = s.access.Access(ctx, sess)
		if err != nil {
			return nil, err
		}
	}

	now := s.now()
	views := make([]models.ImageView, 0, len(records))
	for _, rec := range records {
		view := models.ImageView{
			ImageID:      rec.ImageID,
			ImageOrder:   rec.ImageOrder,
			IsProfilePic: rec.IsProfilePic,
			ExpiresAt:    rec.AccessExpiresAt,
			Blurred:      !imageVisible(rec, owner == sess.Username, access.Has(owner, models.PiiTypeImages), now),
		}
		if !view.Blurred && rec.ImageKey != "" {
			url, err := s.ReadURL(ctx, rec.ImageKey)
			if err != nil {
				return nil, err
			}
			view.URL = url
		}
		views = append(views, view)
	}
	sort.SliceStable(views, func(i, j int) bool { return views[i].ImageOrder < views[j].ImageOrder })
	return views, nil
}

func imageVisible(rec models.ImageVisibility, own, granted bool, now time.Time) bool {
	if own || strings.EqualFold(rec.InitialVisibility.Type, models.VisibilityClear) {
		return true
	}
	if !granted {
		return false
	}
	return rec.AccessExpiresAt == nil || rec.AccessExpiresAt.After(now)
}

// ReadURL signs a GET for key
func (s *ImageService) ReadURL(ctx context.Context, key string) (string, error) {
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.ttl))
	if err != nil {
		return "", fmt.Errorf("presign read %s: %w", key, err)
	}
	return req.URL, nil
}

// UploadURL signs a PUT for a new image under the viewer's prefix
func (s *ImageService) UploadURL(ctx context.Context, sess models.Session, fileName, contentType string) (url, key string, err error) {
	fileName = path.Base(strings.TrimSpace(fileName))
	if fileName == "" || fileName == "." || fileName == "/" {
		return "", "", fmt.Errorf("%w: missing file name", ErrInvalidUpload)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", "", fmt.Errorf("%w: content type %q", ErrInvalidUpload, contentType)
	}
	key = "profile-pics/" + sess.Username + "/" + s.now().UTC().Format("20060102150405") + "-" + fileName
	req, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(s.ttl))
	if err != nil {
		return "", "", fmt.Errorf("presign upload %s: %w", key, err)
	}
	s.logger.Info("upload url issued", zap.String("username", sess.Username), zap.String("key", key))
	return req.URL, key, nil
}
