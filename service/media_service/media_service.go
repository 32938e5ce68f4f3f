package media_service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"snapnova/conf"
	"snapnova/controller/respond"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

// 媒体托管服务：入参是客户端内联的 base64 data-URI，落到 S3 兼容存储，
// 返回可直接引用的持久 URL。

var (
	mu       sync.RWMutex
	uploader *manager.Uploader
	bucket   string
	baseURL  string
)

var ErrNotConfigured = errors.New("media storage not configured")

// Init 构建上传器。bucket 未配置时服务降级为禁用（本地开发），不是错误。
func Init(ctx context.Context) error {
	mu.Lock()
	defer mu.Unlock()

	if strings.TrimSpace(conf.MediaBucket) == "" {
		log.Printf("📴 媒体存储未配置，跳过初始化")
		return nil
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(conf.MediaRegion),
	}
	if strings.TrimSpace(conf.MediaEndpoint) != "" {
		resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, _ ...interface{}) (aws.Endpoint, error) {
			if service == s3.ServiceID {
				return aws.Endpoint{
					URL:           conf.MediaEndpoint,
					SigningRegion: conf.MediaRegion,
				}, nil
			}
			return aws.Endpoint{}, &aws.EndpointNotFoundError{}
		})
		loadOpts = append(loadOpts, awsconfig.WithEndpointResolverWithOptions(resolver))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	uploader = manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = 5 * 1024 * 1024
		u.LeavePartsOnError = false
	})
	bucket = conf.MediaBucket
	baseURL = strings.TrimSuffix(conf.MediaBaseURL, "/")

	log.Printf("✅ 媒体存储初始化成功: bucket=%s", bucket)
	return nil
}

// Enabled 媒体存储是否可用
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return uploader != nil
}

// UploadBase64 上传一个 data-URI（data:<content-type>;base64,<payload>），返回持久 URL
func UploadBase64(ctx context.Context, dataURI, folder string) (string, error) {
	mu.RLock()
	up := uploader
	mu.RUnlock()

	if up == nil {
		return "", ErrNotConfigured
	}

	contentType, raw, err := ParseDataURI(dataURI)
	if err != nil {
		return "", respond.BadRequest("Invalid media data")
	}

	key := fmt.Sprintf("%s/%s%s", strings.Trim(folder, "/"), uuid.NewString(), extensionFor(contentType))
	_, err = up.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(raw),
		ContentType: aws.String(contentType),
		ACL:         s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("media upload %s: %w", key, err)
	}

	if baseURL == "" {
		return key, nil
	}
	return fmt.Sprintf("%s/%s", baseURL, key), nil
}

// ParseDataURI 解析 base64 data-URI，返回内容类型与原始字节
func ParseDataURI(dataURI string) (string, []byte, error) {
	meta, payload, ok := strings.Cut(dataURI, ",")
	if !ok || !strings.HasPrefix(meta, "data:") || !strings.HasSuffix(meta, ";base64") {
		return "", nil, errors.New("invalid media data")
	}
	contentType := strings.TrimSuffix(strings.TrimPrefix(meta, "data:"), ";base64")
	if contentType == "" {
		return "", nil, errors.New("invalid media data")
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, errors.New("invalid media data")
	}
	return contentType, raw, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "video/mp4":
		return ".mp4"
	case "video/webm":
		return ".webm"
	}
	if _, subtype, ok := strings.Cut(contentType, "/"); ok && subtype != "" {
		return "." + subtype
	}
	return ".bin"
}
