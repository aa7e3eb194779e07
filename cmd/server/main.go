package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"dreidel/internal/config"
	"dreidel/internal/db"
	"dreidel/internal/server"

	"gorm.io/gorm"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}
	cfg := config.Load()

	addr := ":8080"
	if env := os.Getenv("PORT"); env != "" {
		addr = ":" + env
	}

	conn := openDatabase(cfg)
	srv := server.New(conn, cfg)
	if conn != nil {
		if err := srv.RestoreRooms(); err != nil {
			log.Printf("room restore failed: %v", err)
		}
	}

	log.Printf("dreidel server listening on %s", addr)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		log.Fatal(err)
	}
}

func openDatabase(cfg config.Config) *gorm.DB {
	conn, err := db.Open()
	if err != nil {
		log.Printf("running without database: %v", err)
		return nil
	}
	if err := db.Migrate(conn); err != nil {
		log.Printf("running without database: %v", err)
		return nil
	}
	sqlDB, err := conn.DB()
	if err != nil {
		log.Printf("running without database: %v", err)
		return nil
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.DBConnMaxLifetimeSeconds) * time.Second)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.DBConnMaxIdleTimeSeconds) * time.Second)
	return conn
}
