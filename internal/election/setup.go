package election

import (
	"fmt"

	"github.com/SlpAus/online-voting-backend/internal/platform/database"
)

// migrateDB 负责自动迁移选举聚合的全部表结构
func migrateDB() error {
	if err := database.DB.AutoMigrate(&Election{}, &Candidate{}, &VoteRecord{}); err != nil {
		return fmt.Errorf("无法迁移election相关表: %w", err)
	}
	fmt.Println("Election数据库表迁移成功。")
	return nil
}

// PrimeCachedDB 是election模块的初始化总入口
func PrimeCachedDB() error {
	if err := migrateDB(); err != nil {
		return err
	}
	if err := WarmupVoterCache(); err != nil {
		return err
	}
	return nil
}
