package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"snapnova/conf"
	"snapnova/controller"
	"snapnova/major"
	"snapnova/service/media_service"
	"snapnova/service/relay_service"
	"snapnova/service/session_service"
	"snapnova/service/token_service"
)

func initServices() {
	log.Printf("🚀 开始初始化 Snapnova 服务...")

	// 1. JWT 签发器（缺密钥直接 panic，不允许裸跑）
	token_service.Init(conf.JwtAccessSecret, conf.JwtRefreshSecret, conf.JwtAccessTTL, conf.JwtRefreshTTL)
	log.Printf("✅ JWT 签发器已就绪")

	// 2. 会话存储（pebble，单活跃 refresh token）
	if err := session_service.Init(conf.SessionDBPath); err != nil {
		log.Fatalf("❌ 初始化会话存储失败: %v", err)
	}
	log.Printf("✅ 会话存储已就绪: %s", conf.SessionDBPath)

	// 3. MongoDB
	major.InitMongoConfig()

	// 4. 媒体存储（未配置 bucket 时自动禁用）
	if err := media_service.Init(context.Background()); err != nil {
		log.Fatalf("❌ 初始化媒体存储失败: %v", err)
	}

	// 5. Socket.IO 实时通道
	relay_service.Init()
	log.Printf("✅ 实时通道已就绪")
}

// Package main
// @title Snapnova API
// @version 1.0
// @description 阅后即焚社交服务：聊天、快照、24小时动态、好友关系与实时在线状态
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	var env string
	flag.StringVar(&env, "env", "mainnet", "env config: testnet, mainnet")
	flag.Parse()

	switch env {
	case "mainnet":
		conf.SystemEnvironmentEnum = conf.MainnetEnvironmentEnum
	case "testnet":
		conf.SystemEnvironmentEnum = conf.TestnetEnvironmentEnum
	default:
		conf.SystemEnvironmentEnum = conf.ExampleEnvironmentEnum
	}

	conf.InitConfig("")

	fmt.Printf("run snapnova service, env: %s\n", env)

	initServices()

	controller.Run()
}
