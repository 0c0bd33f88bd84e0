package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	storage_go "github.com/supabase-community/storage-go"

	"image-studio-server/modules/common/config"
	"image-studio-server/modules/common/model"
	"image-studio-server/modules/common/utils"
)

// Uploader - 생성 결과를 외부 스토리지에 복사 (공개 URL 반환)
type Uploader interface {
	Upload(ctx context.Context, sessionID, channel string, imageData []byte) (string, error)
}

// AssetRecorder - 업로드된 파일 메타데이터 기록
type AssetRecorder interface {
	InsertAsset(ctx context.Context, asset model.Asset) (int64, error)
}

// AssetLister - 세션 에셋 조회
type AssetLister interface {
	ListSessionAssets(ctx context.Context, sessionID string) ([]model.Asset, error)
}

// ObjectStore - *storage_go.Client 중 업로드에 쓰는 부분
type ObjectStore interface {
	UploadFile(bucketId string, relativePath string, data io.Reader, fileOptions ...storage_go.FileOptions) (storage_go.FileUploadResponse, error)
	GetPublicUrl(bucketId string, filePath string, urlOptions ...storage_go.UrlOptions) storage_go.SignedUrlResponse
}

type Client struct {
	objects     ObjectStore
	bucket      string
	webpQuality float32
	assets      AssetRecorder

	// storage-go는 업로드 옵션을 공용 헤더에 쓰므로 업로드를 직렬화
	uploadMu sync.Mutex

	convert func([]byte, float32) ([]byte, error)
	newName func() string
}

// NewClient - Storage 클라이언트 생성 (objects는 supabase 클라이언트의 Storage)
func NewClient(cfg *config.Config, objects ObjectStore, assets AssetRecorder) *Client {
	return &Client{
		objects:     objects,
		bucket:      cfg.SupabaseStorageBucket,
		webpQuality: cfg.WebPQuality,
		assets:      assets,
		convert:     utils.ConvertToWebP,
		newName:     func() string { return uuid.NewString() },
	}
}

// ObjectPath - 버킷 내부 경로
func ObjectPath(sessionID, name string) string {
	return fmt.Sprintf("studio/%s/%s.webp", sessionID, name)
}

// PublicURL - 버킷 내부 경로의 공개 URL
func (c *Client) PublicURL(filePath string) string {
	return c.objects.GetPublicUrl(c.bucket, filePath).SignedURL
}

// Upload - WebP 변환 후 Supabase Storage에 업로드하고 studio_assets에 기록
func (c *Client) Upload(ctx context.Context, sessionID, channel string, imageData []byte) (string, error) {
	webpData, err := c.convert(imageData, c.webpQuality)
	if err != nil {
		return "", fmt.Errorf("failed to convert image to WebP: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	filePath := ObjectPath(sessionID, c.newName())
	log.Debug().Str("session_id", sessionID).Msgf("📤 Uploading WebP image to storage: %s", filePath)

	contentType := "image/webp"
	c.uploadMu.Lock()
	_, err = c.objects.UploadFile(c.bucket, filePath, bytes.NewReader(webpData), storage_go.FileOptions{
		ContentType: &contentType,
	})
	c.uploadMu.Unlock()
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	webpSize := int64(len(webpData))
	log.Info().Str("session_id", sessionID).Msgf("✅ WebP image uploaded: %s (%d bytes)", filePath, webpSize)

	if c.assets != nil {
		asset := model.Asset{
			SessionID: sessionID,
			Channel:   channel,
			FilePath:  filePath,
			FileSize:  webpSize,
			FileType:  contentType,
		}
		// 메타데이터 기록 실패는 업로드 결과에 영향 없음
		if _, err := c.assets.InsertAsset(ctx, asset); err != nil {
			log.Warn().Err(err).Msgf("⚠️  Failed to record asset %s", filePath)
		}
	}

	return c.PublicURL(filePath), nil
}

// AttachURLs - 각 이미지를 업로드하고 URL을 채움 (uploader가 nil이면 그대로)
func AttachURLs(ctx context.Context, uploader Uploader, sessionID, channel string, images []model.ImageResult, raw [][]byte) {
	if uploader == nil {
		return
	}
	for i := range images {
		if i >= len(raw) {
			break
		}
		url, err := uploader.Upload(ctx, sessionID, channel, raw[i])
		if err != nil {
			log.Warn().Err(err).Str("session_id", sessionID).Msgf("⚠️  Upload failed for image %d", i+1)
			continue
		}
		images[i].URL = url
	}
}
