package middleware

import (
	"github.com/farellandr/boxoffice/config"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	dbKey     = "db"
	loggerKey = "logger"
	configKey = "config"
)

func DatabaseMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(dbKey, db)
		c.Next()
	}
}

func GetDB(c *gin.Context) *gorm.DB {
	db, exists := c.Get(dbKey)
	if !exists {
		return nil
	}
	return db.(*gorm.DB).WithContext(c.Request.Context())
}

func ConfigMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(configKey, cfg)
		c.Next()
	}
}

func GetConfig(c *gin.Context) *config.Config {
	cfg, exists := c.Get(configKey)
	if !exists {
		return nil
	}
	return cfg.(*config.Config)
}

func GetLogger(c *gin.Context) *zap.Logger {
	log, exists := c.Get(loggerKey)
	if !exists {
		return zap.NewNop()
	}
	return log.(*zap.Logger)
}
