package config

import (
	"fmt"
	"time"
)

type Configs struct {
	Env string `toml:"env"`

	Database  DatabaseConfigs `toml:"database"`
	ApiServer ServerConfigs   `toml:"api_server"`
	Auth      AuthConfigs     `toml:"auth"`
	Session   SessionConfigs  `toml:"session"`
	Storage   S3Configs       `toml:"storage"`
	File      FileConfigs     `toml:"file"`
	Redis     RedisConfigs    `toml:"redis"`
	Kafka     KafkaConfigs    `toml:"kafka"`
	Popular   PopularConfigs  `toml:"popular"`
}

type DatabaseConfigs struct {
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	Database string `toml:"database"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host           string   `toml:"host"`
	Port           string   `toml:"port"`
	AllowedOrigins []string `toml:"allowed_origins"`
	MaxLimit       int      `toml:"max_limit"`
	DefaultLimit   int      `toml:"default_limit"`
}

type SessionConfigs struct {
	Secret string `toml:"secret"`
	Name   string `toml:"name"`
}

type AuthConfigs struct {
	TokenSecret  string       `toml:"token_secret"`
	AccessToken  TokenConfigs `toml:"access_token"`
	RefreshToken TokenConfigs `toml:"refresh_token"`

	Kakao  OAuth2Config `toml:"kakao"`
	Google OAuth2Config `toml:"google"`
}

type OAuth2Config struct {
	Name         string `toml:"name"`
	Issuer       string `toml:"issuer"`
	AuthURL      string `toml:"auth_url"`
	TokenURL     string `toml:"token_url"`
	ApiDomain    string `toml:"api_domain"`
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
}

type TokenConfigs struct {
	Name       string        `toml:"name"`
	Expiration time.Duration `toml:"expiration"`
}

type S3Configs struct {
	Region                 string        `toml:"region"`
	Endpoint               string        `toml:"endpoint"`
	PublicEndpoint         string        `toml:"public_endpoint"`
	AccessKey              string        `toml:"access_key"`
	SecretKey              string        `toml:"secret_key"`
	Bucket                 string        `toml:"bucket"`
	SSLDisabled            bool          `toml:"ssl_disabled"`
	PresignedURLExpiration time.Duration `toml:"presigned_url_expiration"`
}

type FileConfigs struct {
	MaxSize int `toml:"max_size"`
}

type RedisConfigs struct {
	Addr string `toml:"addr"`
}

type KafkaConfigs struct {
	Addr string `toml:"addr"`
}

type PopularConfigs struct {
	DailyLimit  int `toml:"daily_limit"`
	WeeklyLimit int `toml:"weekly_limit"`
}
