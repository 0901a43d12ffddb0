package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Retailer string `mapstructure:"RETAILER"`
	Country  string `mapstructure:"COUNTRY"`

	DataDir      string `mapstructure:"DATA_DIR"`
	StoreBackend string `mapstructure:"STORE_BACKEND"`
	SQLitePath   string `mapstructure:"SQLITE_PATH"`
	MySQLDSN     string `mapstructure:"MYSQL_DSN"`
	PostgresDSN  string `mapstructure:"POSTGRES_DSN"`
	MongoURI     string `mapstructure:"MONGO_URI"`
	MongoDB      string `mapstructure:"MONGO_DB"`

	CacheBackend       string `mapstructure:"CACHE_BACKEND"`
	CacheDefaultTTLSec int    `mapstructure:"CACHE_DEFAULT_TTL_SEC"`
	RedisAddr          string `mapstructure:"REDIS_ADDR"`
	RedisPassword      string `mapstructure:"REDIS_PASSWORD"`
	RedisDB            int    `mapstructure:"REDIS_DB"`
	RedisKeyPrefix     string `mapstructure:"REDIS_KEY_PREFIX"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	HTTPTimeoutSec  int    `mapstructure:"HTTP_TIMEOUT_SEC"`
	MaxAttempts     int    `mapstructure:"MAX_ATTEMPTS"`
	RetryBaseDelayMs int   `mapstructure:"RETRY_BASE_DELAY_MS"`
	UserAgent       string `mapstructure:"USER_AGENT"`

	EnableProxy      bool   `mapstructure:"ENABLE_PROXY"`
	ProxyUsername    string `mapstructure:"PROXY_USERNAME"`
	ProxyPassword    string `mapstructure:"PROXY_PASSWORD"`
	ProxyPort        int    `mapstructure:"PROXY_PORT"`
	ProxyHostUS      string `mapstructure:"PROXY_HOST_US"`
	ProxyHostIN      string `mapstructure:"PROXY_HOST_IN"`
	ProxyList        string `mapstructure:"PROXY_LIST"`
	ProxyFile        string `mapstructure:"PROXY_FILE"`

	Headless           bool   `mapstructure:"HEADLESS"`
	NavTimeoutSec      int    `mapstructure:"NAV_TIMEOUT_SEC"`
	BrowserLaunchTimeoutSec int `mapstructure:"BROWSER_LAUNCH_TIMEOUT_SEC"`
	CustomBrowserPath  string `mapstructure:"CUSTOM_BROWSER_PATH"`
	StealthScriptPath  string `mapstructure:"STEALTH_SCRIPT_PATH"`
	ViewportWidth      int    `mapstructure:"VIEWPORT_WIDTH"`
	ViewportHeight     int    `mapstructure:"VIEWPORT_HEIGHT"`

	CrawlerDelayMs   int  `mapstructure:"CRAWLER_DELAY_MS"`
	MaxProducts      int  `mapstructure:"MAX_PRODUCTS"`
	StartPage        int  `mapstructure:"START_PAGE"`
	DownloadImages   bool `mapstructure:"DOWNLOAD_IMAGES"`
	CatalogXLSX      bool `mapstructure:"CATALOG_XLSX"`

	SerpApiKey        string `mapstructure:"SERPAPI_KEY"`
	ConstructorKey    string `mapstructure:"CONSTRUCTOR_KEY"`
	ShopifyBaseURL    string `mapstructure:"SHOPIFY_BASE_URL"`
	WalmartQuery      string `mapstructure:"WALMART_QUERY"`
	JCrewCategory     string `mapstructure:"JCREW_CATEGORY"`
	AdidasCategory    string `mapstructure:"ADIDAS_CATEGORY"`
	NeimanCategory    string `mapstructure:"NEIMAN_CATEGORY"`
}

var AppConfig Config

func LoadConfig(path string) error {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetDefault("RETAILER", "shopify")
	viper.SetDefault("COUNTRY", "US")
	viper.SetDefault("DATA_DIR", "data")
	viper.SetDefault("STORE_BACKEND", "file")
	viper.SetDefault("SQLITE_PATH", "data/catalog_crawler.db")
	viper.SetDefault("MYSQL_DSN", "")
	viper.SetDefault("POSTGRES_DSN", "")
	viper.SetDefault("MONGO_URI", "")
	viper.SetDefault("MONGO_DB", "catalog_crawler")
	viper.SetDefault("CACHE_BACKEND", "memory")
	viper.SetDefault("CACHE_DEFAULT_TTL_SEC", 86400)
	viper.SetDefault("REDIS_ADDR", "127.0.0.1:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_KEY_PREFIX", "catalog_crawler:")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")
	viper.SetDefault("HTTP_TIMEOUT_SEC", 30)
	viper.SetDefault("MAX_ATTEMPTS", 4)
	viper.SetDefault("RETRY_BASE_DELAY_MS", 1000)
	viper.SetDefault("USER_AGENT", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36")
	viper.SetDefault("ENABLE_PROXY", false)
	viper.SetDefault("PROXY_USERNAME", "")
	viper.SetDefault("PROXY_PASSWORD", "")
	viper.SetDefault("PROXY_PORT", 22225)
	viper.SetDefault("PROXY_HOST_US", "")
	viper.SetDefault("PROXY_HOST_IN", "")
	viper.SetDefault("PROXY_LIST", "")
	viper.SetDefault("PROXY_FILE", "")
	viper.SetDefault("HEADLESS", true)
	viper.SetDefault("NAV_TIMEOUT_SEC", 45)
	viper.SetDefault("BROWSER_LAUNCH_TIMEOUT_SEC", 60)
	viper.SetDefault("CUSTOM_BROWSER_PATH", "")
	viper.SetDefault("STEALTH_SCRIPT_PATH", "")
	viper.SetDefault("VIEWPORT_WIDTH", 1920)
	viper.SetDefault("VIEWPORT_HEIGHT", 1080)
	viper.SetDefault("CRAWLER_DELAY_MS", 800)
	viper.SetDefault("MAX_PRODUCTS", 0)
	viper.SetDefault("START_PAGE", 1)
	viper.SetDefault("DOWNLOAD_IMAGES", false)
	viper.SetDefault("CATALOG_XLSX", false)
	viper.SetDefault("SERPAPI_KEY", "")
	viper.SetDefault("CONSTRUCTOR_KEY", "")
	viper.SetDefault("SHOPIFY_BASE_URL", "")
	viper.SetDefault("WALMART_QUERY", "clothing")
	viper.SetDefault("JCREW_CATEGORY", "mens-shirts")
	viper.SetDefault("ADIDAS_CATEGORY", "men-shoes")
	viper.SetDefault("NEIMAN_CATEGORY", "womens-clothing")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		return err
	}
	return AppConfig.Validate()
}

// Validate rejects configurations that would otherwise fail mid-crawl.
// Proxy credentials are never defaulted: running with ENABLE_PROXY and no
// credentials is a startup error, not a silent fallback.
func (c Config) Validate() error {
	if c.EnableProxy {
		if strings.TrimSpace(c.ProxyUsername) == "" || strings.TrimSpace(c.ProxyPassword) == "" {
			return errors.New("ENABLE_PROXY=true requires PROXY_USERNAME and PROXY_PASSWORD")
		}
		if strings.TrimSpace(c.ProxyHostUS) == "" && strings.TrimSpace(c.ProxyList) == "" && strings.TrimSpace(c.ProxyFile) == "" {
			return errors.New("ENABLE_PROXY=true requires PROXY_HOST_US, PROXY_LIST or PROXY_FILE")
		}
	}
	if c.MaxAttempts <= 0 {
		return errors.New("MAX_ATTEMPTS must be > 0")
	}
	return nil
}

func GetCountry() string {
	v := strings.ToUpper(strings.TrimSpace(AppConfig.Country))
	if v == "" {
		return "US"
	}
	return v
}
