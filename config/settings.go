package config

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"
)

// 环境变量名
const (
	KeyCategoryURL        = "CATEGORY_URL"
	KeyMaxPages           = "MAX_PAGES"
	KeyTimezone           = "TZ"
	KeyHeadless           = "HEADLESS"
	KeySheetID            = "GOOGLE_SHEET_ID"
	KeySheetDataName      = "SHEET_DATA_NAME"
	KeySheetLogName       = "SHEET_LOG_NAME"
	KeyUserAgent          = "USER_AGENT"
	KeyServiceAccountJSON = "GOOGLE_SERVICE_ACCOUNT_JSON"
	KeyTimeoutMS          = "TIMEOUT_MS"
	KeySchedule           = "SCHEDULE"
)

// 默认值
const (
	DefaultCategoryURL   = "https://silpo.ua/category/molochni-produkty-ta-iaitsia-234"
	DefaultMaxPages      = 10
	DefaultTimezone      = "Europe/Kyiv"
	DefaultSheetDataName = "silpo_raw"
	DefaultSheetLogName  = "silpo_log"
	DefaultUserAgent     = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36"
	DefaultTimeout       = 45 * time.Second
)

// RequiredKeys 缺失即无法启动的配置项
var RequiredKeys = []string{KeySheetID, KeyServiceAccountJSON}

var (
	// ErrMissingConfig 缺少必需配置
	ErrMissingConfig = errors.New("missing required configuration")
	// ErrInvalidConfig 配置值无法解析
	ErrInvalidConfig = errors.New("invalid configuration")
)

// MissingError 列出所有缺失的必需配置项
type MissingError struct {
	Keys []string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("missing env var: %s", strings.Join(e.Keys, ", "))
}

func (e *MissingError) Is(target error) bool {
	return target == ErrMissingConfig
}

// Settings 抓取任务的运行配置，启动时构建一次后显式传递
type Settings struct {
	CategoryURL string
	MaxPages    int
	Timezone    string
	Headless    bool

	SheetID       string
	SheetDataName string
	SheetLogName  string

	UserAgent          string
	ServiceAccountJSON string

	// Timeout 单页加载超时
	Timeout time.Duration
	// Schedule cron 表达式，为空表示只运行一次
	Schedule string
}

// LoadFromEnv 从环境变量表构建 Settings
func LoadFromEnv(env map[string]string) (Settings, error) {
	cfg, err := NewConfigurationBuilder().AddEnvMap(env).Build()
	if err != nil {
		return Settings{}, err
	}
	return Load(cfg)
}

// Load 从配置构建 Settings
// 必需项缺失返回 *MissingError；数字项无法解析返回包装 ErrInvalidConfig 的错误。
func Load(cfg Configuration) (Settings, error) {
	var missing []string
	for _, key := range RequiredKeys {
		if _, ok := cfg.Lookup(key); !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return Settings{}, &MissingError{Keys: missing}
	}

	maxPages, err := positiveInt(cfg, KeyMaxPages, DefaultMaxPages, math.MaxInt32)
	if err != nil {
		return Settings{}, err
	}

	timeoutMS, err := positiveInt(cfg, KeyTimeoutMS, int64(DefaultTimeout/time.Millisecond), maxTimeoutMS)
	if err != nil {
		return Settings{}, err
	}

	return Settings{
		CategoryURL:        cfg.GetWithDefault(KeyCategoryURL, DefaultCategoryURL),
		MaxPages:           int(maxPages),
		Timezone:           cfg.GetWithDefault(KeyTimezone, DefaultTimezone),
		Headless:           !strings.EqualFold(cfg.Get(KeyHeadless), "false"),
		SheetID:            cfg.Get(KeySheetID),
		SheetDataName:      cfg.GetWithDefault(KeySheetDataName, DefaultSheetDataName),
		SheetLogName:       cfg.GetWithDefault(KeySheetLogName, DefaultSheetLogName),
		UserAgent:          cfg.GetWithDefault(KeyUserAgent, DefaultUserAgent),
		ServiceAccountJSON: cfg.Get(KeyServiceAccountJSON),
		Timeout:            time.Duration(timeoutMS) * time.Millisecond,
		Schedule:           cfg.Get(KeySchedule),
	}, nil
}

// maxTimeoutMS 换算成 time.Duration 不溢出的最大毫秒数
const maxTimeoutMS = math.MaxInt64 / int64(time.Millisecond)

// positiveInt 读取 [1, limit] 范围内的整数，未配置时返回 def
func positiveInt(cfg Configuration, key string, def, limit int64) (int64, error) {
	raw, ok := cfg.Lookup(key)
	if !ok {
		return def, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %s=%q must be a positive integer", ErrInvalidConfig, key, raw)
	}
	if n > limit {
		return 0, fmt.Errorf("%w: %s=%q must not exceed %d", ErrInvalidConfig, key, raw, limit)
	}
	return n, nil
}

// Location 加载配置的时区
func (s Settings) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, KeyTimezone, s.Timezone, err)
	}
	return loc, nil
}

// Redacted 返回可安全打印的键值对，凭据只保留长度
func (s Settings) Redacted() map[string]string {
	return map[string]string{
		KeyCategoryURL:        s.CategoryURL,
		KeyMaxPages:           strconv.Itoa(s.MaxPages),
		KeyTimezone:           s.Timezone,
		KeyHeadless:           strconv.FormatBool(s.Headless),
		KeySheetID:            s.SheetID,
		KeySheetDataName:      s.SheetDataName,
		KeySheetLogName:       s.SheetLogName,
		KeyUserAgent:          s.UserAgent,
		KeyServiceAccountJSON: fmt.Sprintf("<redacted %d bytes>", len(s.ServiceAccountJSON)),
		KeyTimeoutMS:          strconv.FormatInt(s.Timeout.Milliseconds(), 10),
		KeySchedule:           s.Schedule,
	}
}
