package config

import (
	"strings"

	"github.com/blues/afs/internal/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Pledge   PledgeConfig   `mapstructure:"pledge"`
	Badge    BadgeConfig    `mapstructure:"badge"`
	Task     TaskConfig     `mapstructure:"task"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"` // postgres, sqlite
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
	Path     string `mapstructure:"path"` // sqlite 数据库文件路径
	LogLevel string `mapstructure:"log_level"`
}

// AuthConfig 身份令牌配置
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	Issuer    string `mapstructure:"issuer"`
	TokenTTL  int    `mapstructure:"token_ttl"` // 小时
}

// PledgeConfig 捐赠校验配置
type PledgeConfig struct {
	MinAmount float64 `mapstructure:"min_amount"` // 最小捐赠金额
}

// BadgeConfig 徽章规则配置
type BadgeConfig struct {
	TopDonorName      string  `mapstructure:"top_donor_name"`
	FirstDonorName    string  `mapstructure:"first_donor_name"`
	TopDonorThreshold float64 `mapstructure:"top_donor_threshold"`
}

// TaskConfig 徽章重试任务配置
type TaskConfig struct {
	Interval    int `mapstructure:"interval"`     // 秒
	PoolSize    int `mapstructure:"pool_size"`    // 协程池大小
	BatchSize   int `mapstructure:"batch_size"`   // 每次处理的记录数
	MaxAttempts int `mapstructure:"max_attempts"` // 最大重试次数
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // 日志级别: debug, info, warn, error, fatal
	Output string `mapstructure:"output"` // 输出目标: stdout, stderr, file
	File   string `mapstructure:"file"`   // 日志文件路径（当output为file时使用）
}

// GetLevel 实现 logger.LogConfig 接口
func (l LogConfig) GetLevel() string {
	return l.Level
}

// GetOutput 实现 logger.LogConfig 接口
func (l LogConfig) GetOutput() string {
	return l.Output
}

// GetFile 实现 logger.LogConfig 接口
func (l LogConfig) GetFile() string {
	return l.File
}

// Load 加载配置，读取失败时使用默认值
func Load() *Config {
	cfg, err := LoadFrom(viper.New(), ".env")
	if err != nil {
		logger.Fatal("Unable to decode config into struct: %v", err)
	}
	return cfg
}

// LoadFrom 从指定的 viper 实例加载配置
func LoadFrom(v *viper.Viper, envFiles ...string) (*Config, error) {
	// .env 不存在时忽略
	for _, f := range envFiles {
		if err := godotenv.Load(f); err == nil {
			logger.Info("Loaded environment from %s", f)
		}
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/afs")

	setDefaults(v)

	// 自动读取环境变量, 例如 AFS_DATABASE_HOST
	v.SetEnvPrefix("afs")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		logger.Warn("Warning: Could not read config file: %v", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "crowdfunding")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.path", "data/afs.db")
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.issuer", "afs")
	v.SetDefault("auth.token_ttl", 24)
	v.SetDefault("pledge.min_amount", 1)
	v.SetDefault("badge.top_donor_name", "Top Donor")
	v.SetDefault("badge.first_donor_name", "First Donor")
	v.SetDefault("badge.top_donor_threshold", 100)
	v.SetDefault("task.interval", 60)
	v.SetDefault("task.pool_size", 4)
	v.SetDefault("task.batch_size", 50)
	v.SetDefault("task.max_attempts", 5)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.file", "logs/app.log")
}
