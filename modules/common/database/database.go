package database

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"
	storage_go "github.com/supabase-community/storage-go"
	"github.com/supabase-community/supabase-go"

	"image-studio-server/modules/common/config"
	"image-studio-server/modules/common/model"
)

const assetsTable = "studio_assets"

type Client struct {
	supabase *supabase.Client
}

// NewClient - Database 클라이언트 생성 (Supabase 미설정 시 nil)
func NewClient(cfg *config.Config) *Client {
	if !cfg.StorageEnabled() {
		return nil
	}

	supabaseClient, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceKey, &supabase.ClientOptions{})
	if err != nil {
		log.Error().Err(err).Msg("❌ Failed to create Supabase client")
		return nil
	}

	return &Client{
		supabase: supabaseClient,
	}
}

// Storage - 같은 Supabase 프로젝트의 Storage 클라이언트
func (c *Client) Storage() *storage_go.Client {
	return c.supabase.Storage
}

// InsertAsset - studio_assets 테이블에 레코드 생성
func (c *Client) InsertAsset(ctx context.Context, asset model.Asset) (int64, error) {
	log.Debug().Str("session_id", asset.SessionID).Msgf("💾 Creating asset record for: %s", asset.FilePath)

	insertData := map[string]interface{}{
		"session_id": asset.SessionID,
		"channel":    asset.Channel,
		"file_path":  asset.FilePath,
		"file_size":  asset.FileSize,
		"file_type":  asset.FileType,
	}

	data, _, err := c.supabase.From(assetsTable).
		Insert(insertData, false, "", "", "").
		Execute()
	if err != nil {
		return 0, fmt.Errorf("failed to insert asset record: %w", err)
	}

	var assets []model.Asset
	if err := json.Unmarshal(data, &assets); err != nil {
		return 0, fmt.Errorf("failed to parse asset response: %w", err)
	}
	if len(assets) == 0 {
		return 0, fmt.Errorf("no asset record returned")
	}

	log.Debug().Msgf("✅ Asset record created: ID=%d", assets[0].AssetID)
	return assets[0].AssetID, nil
}

// ListSessionAssets - 세션이 업로드한 에셋 목록 (최신순)
func (c *Client) ListSessionAssets(ctx context.Context, sessionID string) ([]model.Asset, error) {
	var assets []model.Asset

	data, _, err := c.supabase.From(assetsTable).
		Select("*", "exact", false).
		Eq("session_id", sessionID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to query assets: %w", err)
	}

	if err := json.Unmarshal(data, &assets); err != nil {
		return nil, fmt.Errorf("failed to parse assets: %w", err)
	}

	// 최신순 정렬
	sort.SliceStable(assets, func(i, j int) bool {
		return assets[i].CreatedAt.After(assets[j].CreatedAt)
	})
	return assets, nil
}
