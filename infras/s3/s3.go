package s3

//go:generate go run go.uber.org/mock/mockgen -source=./s3.go -destination=./mocks/s3_mock.go -package=mocks

import (
	"context"
	"fmt"
	"mime/multipart"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	"hostel/config"
	"hostel/infras/otel"
	"hostel/shared/constant"
)

const (
	defaultRegion = "auto"
	cacheControl  = "public, max-age=31536000, immutable"

	otelAttrObjectKey = "s3.key"
	otelAttrBucket    = "s3.bucket"
)

// S3 stores public assets in an S3 compatible bucket. Objects are addressed
// by directory and name; the returned URL is served from the public domain.
type S3 interface {
	UploadFile(ctx context.Context, bucketName, directory string, file multipart.File, fileHeader *multipart.FileHeader, fileName string) (url string, err error)
	DeleteFile(ctx context.Context, bucketName, directory, objectName string) error
	GetObjectNameFromURL(bucketName, url string) (objectName string)
}

type s3Impl struct {
	client       *s3.Client
	bucket       string
	apiEndpoint  string
	publicDomain string
	otel         otel.Otel
}

func New(cfg *config.Config, ot otel.Otel) S3 {
	settings := cfg.External.S3

	region := settings.Region
	if region == "" {
		region = defaultRegion
	}

	awsCfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(settings.AccessKeyID, settings.SecretAccessKey, "")),
		awsConfig.WithRegion(region),
	)
	if err != nil {
		log.Error().Err(err).Msg("Error loading AWS configuration")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if settings.APIEndpoint != "" {
			o.BaseEndpoint = aws.String(settings.APIEndpoint)
		}

		o.UsePathStyle = true
	})

	return &s3Impl{
		client:       client,
		bucket:       settings.BucketName,
		apiEndpoint:  strings.TrimSuffix(settings.APIEndpoint, "/"),
		publicDomain: strings.TrimSuffix(settings.PublicDomain, "/"),
		otel:         ot,
	}
}

func (svc *s3Impl) bucketOrDefault(bucket string) string {
	if bucket == "" {
		return svc.bucket
	}

	return bucket
}

// UploadFile streams file to directory/fileName. The multipart size is sent
// as the content length, so the body is never buffered in memory.
func (svc *s3Impl) UploadFile(ctx context.Context, bucketName, directory string, file multipart.File, fileHeader *multipart.FileHeader, fileName string) (url string, err error) {
	ctx, scope := svc.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".UploadFile")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	bucket := svc.bucketOrDefault(bucketName)
	key := path.Join(directory, fileName)

	scope.SetAttributes(map[string]any{
		otelAttrObjectKey: key,
		otelAttrBucket:    bucket,
	})

	_, err = svc.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          file,
		ContentType:   aws.String(fileHeader.Header.Get(constant.RequestHeaderContentType)),
		ContentLength: aws.Int64(fileHeader.Size),
		CacheControl:  aws.String(cacheControl),
	})
	if err != nil {
		return constant.Empty, fmt.Errorf("failed to upload %s to S3: %w", key, err)
	}

	return svc.publicDomain + "/" + key, nil
}

func (svc *s3Impl) DeleteFile(ctx context.Context, bucketName, directory, objectName string) (err error) {
	ctx, scope := svc.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".DeleteFile")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	bucket := svc.bucketOrDefault(bucketName)
	key := path.Join(directory, objectName)

	scope.SetAttributes(map[string]any{
		otelAttrObjectKey: key,
		otelAttrBucket:    bucket,
	})

	_, err = svc.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s from S3: %w", key, err)
	}

	return nil
}

// GetObjectNameFromURL returns the object name of a URL produced by
// UploadFile, or of a path style API URL. Foreign URLs yield "".
func (svc *s3Impl) GetObjectNameFromURL(bucketName, url string) string {
	prefixes := []string{
		svc.publicDomain,
		svc.apiEndpoint + "/" + svc.bucketOrDefault(bucketName),
	}

	for _, prefix := range prefixes {
		if prefix == "" || prefix == "/"+svc.bucketOrDefault(bucketName) {
			continue
		}

		if rest, ok := strings.CutPrefix(url, prefix+"/"); ok && rest != "" {
			return path.Base(rest)
		}
	}

	return constant.Empty
}
