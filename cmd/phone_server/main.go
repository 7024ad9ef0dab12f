package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"phone_sim_server/internal/config"
	"phone_sim_server/internal/dao/store"
	"phone_sim_server/internal/gateway/websocket"
	"phone_sim_server/internal/handler"
	"phone_sim_server/internal/infrastructure/agent"
	"phone_sim_server/internal/infrastructure/logger"
	"phone_sim_server/internal/router"
	"phone_sim_server/internal/service/appstate"
	"phone_sim_server/internal/service/reconcile"
	"phone_sim_server/internal/service/staging"
)

func main() {
	// 1. 加载配置
	conf := config.GetConfig()

	// 2. 初始化日志
	if err := logger.Init(&conf.LogConfig, conf.MainConfig.Mode); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	zap.L().Info("日志初始化成功")

	// 3. 初始化校验错误翻译
	if err := handler.InitTrans(); err != nil {
		zap.L().Fatal("校验翻译初始化失败", zap.Error(err))
	}

	// 4. 打开文档存储并保证初始条目就位
	backend, err := store.Open(conf.StoreConfig)
	if err != nil {
		zap.L().Fatal("文档存储初始化失败", zap.Error(err))
	}
	docs := store.NewDocuments(backend)
	if err := docs.Ensure(context.Background()); err != nil {
		zap.L().Fatal("文档初始化失败", zap.Error(err))
	}
	zap.L().Info("文档存储初始化成功", zap.String("backend", conf.StoreConfig.Backend))

	// 5. 运行期状态与内存镜像
	state := appstate.New(docs)
	if err := state.RefreshAll(context.Background()); err != nil {
		zap.L().Error("首次镜像构建失败", zap.Error(err))
	}

	// 6. 推送网关与各服务
	hub := websocket.NewHub()
	reconcileSvc := reconcile.New(state, hub)
	trigger := agent.NewHTTPClient(conf.AgentConfig)
	stagingSvc := staging.New(state, hub, trigger)
	zap.L().Info("Service 层初始化成功")

	// 7. 路由与 HTTP 服务
	handlers := handler.NewHandlers(reconcileSvc, stagingSvc, state)
	engine := router.NewRouter(handlers, hub).Engine()

	go func() {
		addr := fmt.Sprintf("%s:%d", conf.MainConfig.Host, conf.MainConfig.Port)
		if err := engine.Run(addr); err != nil {
			zap.L().Fatal("server running fault", zap.Error(err))
		}
	}()
	zap.L().Info("服务启动成功")

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zap.L().Info("关闭服务器...")
	hub.Close()
	if err := docs.Close(); err != nil {
		zap.L().Error("关闭文档存储失败", zap.Error(err))
	}
	zap.L().Info("服务器已关闭")
}
