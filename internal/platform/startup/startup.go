package startup

import (
	"fmt"

	"github.com/SlpAus/online-voting-backend/internal/election"
	"github.com/SlpAus/online-voting-backend/internal/user"
)

// InitializeApplication 是应用首次启动时执行的总入口。
// 按依赖顺序初始化各模块：先迁移表结构，再预热缓存。
func InitializeApplication() error {
	fmt.Println("开始应用首次初始化...")

	if err := user.PrimeModule(); err != nil {
		return err
	}
	if err := election.PrimeCachedDB(); err != nil {
		return err
	}

	fmt.Println("应用初始化完成！")
	return nil
}
