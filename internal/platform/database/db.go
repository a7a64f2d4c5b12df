package database

import (
	"fmt"
	"log"
	"os"

	"github.com/SlpAus/online-voting-backend/internal/platform/config"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB 是一个全局的GORM数据库实例，供项目其他部分使用
var DB *gorm.DB

// InitDB 初始化数据库连接
func InitDB(cfg config.SqliteConfig) {
	var err error

	// GORM日志配置
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: 0,
			LogLevel:      logger.Silent, // 在生产环境中可以设为Silent
			Colorful:      true,
		},
	)

	// 连接到SQLite数据库
	// _busy_timeout让并发写入在锁冲突时等待而不是直接报错；
	// _txlock=immediate让事务一开始就持有写锁，避免读锁升级死锁
	dsn := fmt.Sprintf("%s?_busy_timeout=5000&_txlock=immediate", cfg.Path)
	DB, err = gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: newLogger,
		// 将底层驱动的唯一键冲突等错误翻译为GORM的统一错误类型
		TranslateError: true,
	})

	if err != nil {
		fmt.Println("连接数据库失败", err)
		panic(err)
	}

	fmt.Println("数据库连接成功！")
}
