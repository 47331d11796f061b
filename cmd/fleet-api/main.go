package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/FleetLink/FleetLink/internal/api"
	"github.com/FleetLink/FleetLink/internal/common/config"
	"github.com/FleetLink/FleetLink/internal/common/db"
	"github.com/FleetLink/FleetLink/internal/common/logger"
	"github.com/FleetLink/FleetLink/internal/company"
	"github.com/FleetLink/FleetLink/internal/driver"
	"github.com/FleetLink/FleetLink/internal/fleet"
	"github.com/FleetLink/FleetLink/internal/user"
	"github.com/FleetLink/FleetLink/internal/vehicle"
)

var (
	configPath = flag.String("config", "configs/fleet-api.json", "配置文件路径")
)

func main() {
	flag.Parse()

	// 加载配置
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 初始化日志
	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.Path)
	if err != nil {
		panic(fmt.Sprintf("failed to init logger: %v", err))
	}

	// 初始化数据库
	gormDB, err := db.NewMySQL(
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Database,
		cfg.Database.MaxIdle,
		cfg.Database.MaxOpen,
	)
	if err != nil {
		log.Fatalf("failed to init mysql: %v", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}
	if cfg.Seed {
		if err := db.Seed(gormDB); err != nil {
			log.Fatalf("failed to seed: %v", err)
		}
	}

	// 组装仓储与服务
	fleetSvc := fleet.NewService(
		company.NewRepo(gormDB),
		driver.NewRepo(gormDB),
		vehicle.NewRepo(gormDB),
		user.NewRepo(gormDB),
		log,
	)
	authSvc := fleet.NewAuthService(user.NewRepo(gormDB), cfg.Auth, log)

	srv := api.NewServer(fleetSvc, authSvc, cfg, log).
		HTTPServer(fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port))

	// 启动 + 优雅退出
	errCh := make(chan error, 1)
	go func() {
		log.Infof("%s listening on %s", cfg.Server.Name, srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Fatalf("server exited with error: %v", err)
	case sig := <-quit:
		log.Infof("received signal %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("graceful shutdown failed: %v", err)
	}
}
