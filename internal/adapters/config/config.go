package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	postgresStorage "github.com/Badsnus/qrlabels/internal/adapters/database/postgres"
	"github.com/Badsnus/qrlabels/internal/adapters/database/redis"
	"github.com/Badsnus/qrlabels/internal/domain/labels"
	"github.com/Badsnus/qrlabels/pkg/logger"
	qr "github.com/Badsnus/qrlabels/pkg/qrcode"
	"github.com/skip2/go-qrcode"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

type Config struct {
	// Database and Redis are nil when their host is not configured.
	Database *gorm.DB
	Redis    *redis.Client

	HTTP   HTTP
	Labels Labels
	QR     qr.Config
}

type HTTP struct {
	Addr         string
	Mode         string
	AllowOrigins []string
}

type Labels struct {
	DefaultTemplate string
	TemplatesFile   string
	StrictTemplates bool
	AssetsDir       string
	PrintDPI        float64
	PreviewDPI      float64
	Workers         int
}

var recoveryLevels = map[string]qrcode.RecoveryLevel{
	"low":     qrcode.Low,
	"medium":  qrcode.Medium,
	"high":    qrcode.High,
	"highest": qrcode.Highest,
}

func setDefaults() {
	viper.SetDefault("settings.timezone", "UTC")
	viper.SetDefault("settings.logs-dir", "logs")
	viper.SetDefault("http.addr", ":8080")
	viper.SetDefault("http.mode", "release")
	viper.SetDefault("labels.default-template", labels.DefaultTemplate)
	viper.SetDefault("labels.assets-dir", "assets")
	viper.SetDefault("labels.print-dpi", 300)
	viper.SetDefault("labels.preview-dpi", 96)
	viper.SetDefault("labels.workers", 4)
	viper.SetDefault("labels.max-entries", 5000)
	viper.SetDefault("labels.cache-ttl", "24h")
	viper.SetDefault("qr.style", string(qr.StyleSquare))
	viper.SetDefault("qr.recovery-level", "medium")
	viper.SetDefault("qr.quiet-zone", 2)
	viper.SetDefault("service.redis.port", 6379)
	viper.SetDefault("service.database.port", 5432)
}

func initConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.SetEnvPrefix("QRLABELS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			panic(err)
		}
	}
}

func Get() *Config {
	initConfig()

	location, err := time.LoadLocation(viper.GetString("settings.timezone"))
	if err != nil {
		panic(err)
	}
	err = logger.Init(logger.Config{
		Debug:        viper.GetBool("settings.debug"),
		JSON:         viper.GetBool("settings.log-json"),
		TimeLocation: location,
		LogToFile:    viper.GetBool("settings.log-to-file"),
		LogsDir:      viper.GetString("settings.logs-dir"),
	})
	if err != nil {
		panic(err)
	}

	qrCfg, err := QRConfig()
	if err != nil {
		logger.Log.Panicf("Invalid qr config: %v", err)
	}

	cfg := &Config{
		HTTP: HTTP{
			Addr:         viper.GetString("http.addr"),
			Mode:         viper.GetString("http.mode"),
			AllowOrigins: viper.GetStringSlice("http.allow-origins"),
		},
		Labels: Labels{
			DefaultTemplate: viper.GetString("labels.default-template"),
			TemplatesFile:   viper.GetString("labels.templates-file"),
			StrictTemplates: viper.GetBool("labels.strict-templates"),
			AssetsDir:       viper.GetString("labels.assets-dir"),
			PrintDPI:        viper.GetFloat64("labels.print-dpi"),
			PreviewDPI:      viper.GetFloat64("labels.preview-dpi"),
			Workers:         viper.GetInt("labels.workers"),
		},
		QR: qrCfg,
	}

	if viper.GetString("service.database.host") != "" {
		cfg.Database = openDatabase()
	} else {
		logger.Log.Warn("service.database.host is empty, render jobs will not be stored")
	}

	if viper.GetString("service.redis.host") != "" {
		cfg.Redis, err = redis.New(redis.Options{
			Host:     viper.GetString("service.redis.host"),
			Port:     viper.GetString("service.redis.port"),
			Password: viper.GetString("service.redis.password"),
			DB:       viper.GetInt("service.redis.db"),
			TTL:      viper.GetDuration("labels.cache-ttl"),
		})
		if err != nil {
			logger.Log.Panicf("Failed to connect to redis: %v", err)
		}
		logger.Log.Info("Successfully connected to redis")
	} else {
		logger.Log.Warn("service.redis.host is empty, qr images will not be cached")
	}

	return cfg
}

// QRConfig builds the producer config from the qr.* keys on top of the
// print preset.
func QRConfig() (qr.Config, error) {
	cfg := qr.Print
	if viper.GetString("qr.style") == string(qr.StyleRounded) {
		cfg = qr.Rounded
	}

	style := qr.Style(viper.GetString("qr.style"))
	switch style {
	case qr.StyleSquare, qr.StyleRounded, qr.StyleCircle:
		cfg.Style = style
	default:
		return cfg, fmt.Errorf("unknown qr style %q", style)
	}

	level, ok := recoveryLevels[strings.ToLower(viper.GetString("qr.recovery-level"))]
	if !ok {
		return cfg, fmt.Errorf("unknown qr recovery level %q", viper.GetString("qr.recovery-level"))
	}
	cfg.RecoveryLevel = level
	cfg.QuietZone = viper.GetInt("qr.quiet-zone")
	cfg.LogoPath = viper.GetString("qr.logo-path")
	if size := viper.GetInt("qr.size"); size > 0 {
		cfg.Size = size
	}
	return cfg, nil
}

func openDatabase() *gorm.DB {
	var gormConfig *gorm.Config
	if viper.GetBool("settings.debug") {
		newLogger := gormLogger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			gormLogger.Config{
				SlowThreshold: time.Second,
				LogLevel:      gormLogger.Info,
				Colorful:      true,
			},
		)
		gormConfig = &gorm.Config{
			Logger: newLogger,
		}
	} else {
		gormConfig = &gorm.Config{}
	}

	dsn := fmt.Sprintf("user=%s password=%s dbname=%s host=%s port=%d sslmode=disable TimeZone=UTC",
		viper.GetString("service.database.user"),
		viper.GetString("service.database.password"),
		viper.GetString("service.database.name"),
		viper.GetString("service.database.host"),
		viper.GetInt("service.database.port"),
	)

	database, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		logger.Log.Panicf("Failed to connect to the database: %v", err)
	} else {
		logger.Log.Info("Successfully connected to the database")
	}

	errMigrate := database.AutoMigrate(postgresStorage.Migrations...)
	if errMigrate != nil {
		logger.Log.Panicf("Failed to migrate database: %v", errMigrate)
	}
	return database
}
