package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config 구조체 - 모든 환경변수를 담음
type Config struct {
	// Server
	Port   string
	AppEnv string

	// Gemini API
	GeminiAPIKey        string
	GeminiAPIKeys       []string // 429 발생 시 순서대로 시도
	GeminiModel         string
	GeminiAnalysisModel string
	GeminiUseVertex     bool
	GoogleCloudProject  string
	GoogleCloudLocation string

	// Redis (선택 - 비어 있으면 배치 큐 비활성화)
	RedisHost     string
	RedisPort     string
	RedisUsername string
	RedisPassword string
	RedisUseTLS   bool

	// Supabase (선택 - 비어 있으면 스토리지 업로드 비활성화)
	SupabaseURL           string
	SupabaseServiceKey    string
	SupabaseStorageBucket string

	// Image
	WebPQuality  float32
	MaxRequestMB int // 요청 본문 상한 (base64 이미지 포함)

	// Session / History
	HistoryCapacity    int
	SessionInactiveTTL time.Duration
	SessionMaxAge      time.Duration
}

var globalConfig *Config

// LoadConfig - 환경변수 로드
func LoadConfig() (*Config, error) {
	// .env 파일 로드 (있으면)
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("⚠️  .env file not found, using environment variables")
	}

	cfg := &Config{
		Port:   getEnv("PORT", "8080"),
		AppEnv: getEnv("APP_ENV", "production"),

		GeminiAPIKey:        getEnv("GEMINI_API_KEY", ""),
		GeminiModel:         getEnv("GEMINI_MODEL", "gemini-2.5-flash-image"),
		GeminiAnalysisModel: getEnv("GEMINI_ANALYSIS_MODEL", "gemini-2.5-flash"),
		GeminiUseVertex:     getBool("GEMINI_USE_VERTEX", false),
		GoogleCloudProject:  getEnv("GOOGLE_CLOUD_PROJECT", ""),
		GoogleCloudLocation: getEnv("GOOGLE_CLOUD_LOCATION", "us-central1"),

		RedisHost:     getEnv("REDIS_HOST", ""),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisUsername: getEnv("REDIS_USERNAME", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisUseTLS:   getBool("REDIS_USE_TLS", false),

		SupabaseURL:           strings.TrimRight(getEnv("SUPABASE_URL", ""), "/"),
		SupabaseServiceKey:    getEnv("SUPABASE_SERVICE_KEY", ""),
		SupabaseStorageBucket: getEnv("SUPABASE_STORAGE_BUCKET", "attachments"),

		WebPQuality:  float32(getInt("WEBP_QUALITY", 90)),
		MaxRequestMB: getInt("MAX_REQUEST_MB", 32),

		HistoryCapacity:    getInt("HISTORY_CAPACITY", 20),
		SessionInactiveTTL: getDuration("SESSION_INACTIVE_TTL", 2*time.Hour),
		SessionMaxAge:      getDuration("SESSION_MAX_AGE", 24*time.Hour),
	}
	cfg.GeminiAPIKeys = buildKeyList(cfg.GeminiAPIKey, getEnv("GEMINI_API_KEYS", ""))

	// 필수 환경변수 검증
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	globalConfig = cfg

	log.Info().Msg("✅ Configuration loaded successfully")
	log.Info().Msgf("   Gemini: %s / %s (keys: %d, vertex: %v)", cfg.GeminiModel, cfg.GeminiAnalysisModel, len(cfg.GeminiAPIKeys), cfg.GeminiUseVertex)
	log.Info().Msgf("   Redis: %s (TLS: %v)", cfg.redisLabel(), cfg.RedisUseTLS)
	log.Info().Msgf("   Supabase: %s", cfg.supabaseLabel())
	log.Info().Msgf("   History capacity: %d per channel", cfg.HistoryCapacity)

	return cfg, nil
}

// GetConfig - 로드된 설정 가져오기
func GetConfig() *Config {
	if globalConfig == nil {
		log.Fatal().Msg("❌ Config not loaded. Call LoadConfig() first.")
	}
	return globalConfig
}

// validate - 필수 환경변수 검증
func (c *Config) validate() error {
	if c.GeminiUseVertex {
		if c.GoogleCloudProject == "" {
			return fmt.Errorf("GOOGLE_CLOUD_PROJECT is required when GEMINI_USE_VERTEX is set")
		}
	} else if len(c.GeminiAPIKeys) == 0 {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	if c.HistoryCapacity <= 0 {
		return fmt.Errorf("HISTORY_CAPACITY must be positive, got %d", c.HistoryCapacity)
	}
	if c.WebPQuality <= 0 || c.WebPQuality > 100 {
		return fmt.Errorf("WEBP_QUALITY must be in (0, 100], got %.0f", c.WebPQuality)
	}
	if c.MaxRequestMB <= 0 {
		return fmt.Errorf("MAX_REQUEST_MB must be positive, got %d", c.MaxRequestMB)
	}
	if (c.SupabaseURL == "") != (c.SupabaseServiceKey == "") {
		return fmt.Errorf("SUPABASE_URL and SUPABASE_SERVICE_KEY must be set together")
	}
	return nil
}

// MaxBodyBytes - 요청 본문 상한 (바이트)
func (c *Config) MaxBodyBytes() int64 {
	return int64(c.MaxRequestMB) << 20
}

// RedisEnabled - 배치 큐 사용 여부
func (c *Config) RedisEnabled() bool {
	return c.RedisHost != ""
}

// StorageEnabled - Supabase 업로드 사용 여부
func (c *Config) StorageEnabled() bool {
	return c.SupabaseURL != "" && c.SupabaseServiceKey != ""
}

// GetRedisAddr - Redis 연결 문자열 생성
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

func (c *Config) redisLabel() string {
	if !c.RedisEnabled() {
		return "disabled"
	}
	return c.GetRedisAddr()
}

func (c *Config) supabaseLabel() string {
	if !c.StorageEnabled() {
		return "disabled"
	}
	return c.SupabaseURL + " (bucket: " + c.SupabaseStorageBucket + ")"
}

// buildKeyList - 기본 키를 맨 앞에 두고 중복 제거
func buildKeyList(primary, extra string) []string {
	seen := map[string]bool{}
	keys := []string{}
	for _, k := range append([]string{primary}, strings.Split(extra, ",")...) {
		k = strings.TrimSpace(k)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		keys = append(keys, k)
	}
	return keys
}

// getEnv - 환경변수 가져오기 (기본값 지원)
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if raw := os.Getenv(key); raw != "" {
		if parsed, err := strconv.ParseBool(raw); err == nil {
			return parsed
		}
		log.Warn().Msgf("⚠️  Invalid %s=%q, using default %v", key, raw, defaultValue)
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if raw := os.Getenv(key); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			return parsed
		}
		log.Warn().Msgf("⚠️  Invalid %s=%q, using default %d", key, raw, defaultValue)
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if raw := os.Getenv(key); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			return parsed
		}
		log.Warn().Msgf("⚠️  Invalid %s=%q, using default %s", key, raw, defaultValue)
	}
	return defaultValue
}
