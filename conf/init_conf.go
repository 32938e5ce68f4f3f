package conf

import (
	"fmt"

	"github.com/spf13/viper"
)

var (
	Net  string = ""
	Port string = ""

	// CORS origin of the web client
	ClientURL string = ""

	// MongoDB Configuration
	MongoURI      string = ""
	MongoDatabase string = ""

	// Session Store Configuration (pebble)
	SessionDBPath string = ""

	// JWT Configuration
	JwtAccessSecret  string = ""
	JwtRefreshSecret string = ""
	JwtAccessTTL     string = ""
	JwtRefreshTTL    string = ""

	// Media Storage Configuration (S3 compatible)
	MediaRegion   string = ""
	MediaBucket   string = ""
	MediaEndpoint string = ""
	MediaBaseURL  string = ""
)

func InitConfig(configPath string) {
	if configPath == "" {
		configPath = GetYaml()
	}
	// Set the file name of the configurations file
	fmt.Printf("configPath:%s\n", configPath)
	viper.SetConfigFile(configPath)
	if err := viper.ReadInConfig(); err != nil {
		panic(fmt.Errorf("Fatal error config file: %s \n", err))
	}

	Net = viper.GetString("net")
	Port = viper.GetString("port")
	ClientURL = viper.GetString("client_url")

	// 读取 MongoDB 配置
	MongoURI = viper.GetString("mongo.uri")
	MongoDatabase = viper.GetString("mongo.database")

	// 读取会话存储配置
	SessionDBPath = viper.GetString("session.db_path")

	// 读取 JWT 配置
	JwtAccessSecret = viper.GetString("jwt.access_secret")
	JwtRefreshSecret = viper.GetString("jwt.refresh_secret")
	JwtAccessTTL = viper.GetString("jwt.access_ttl")
	JwtRefreshTTL = viper.GetString("jwt.refresh_ttl")

	// 读取媒体存储配置
	MediaRegion = viper.GetString("media.region")
	MediaBucket = viper.GetString("media.bucket")
	MediaEndpoint = viper.GetString("media.endpoint")
	MediaBaseURL = viper.GetString("media.base_url")
}
