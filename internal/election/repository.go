package election

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/SlpAus/online-voting-backend/internal/platform/database"
	"gorm.io/gorm"
)

// --- Redis 键名常量 ---

// VoterSetKeyPrefix 加上选举ID构成一个 Redis Set 的键，
// Set的成员是已在该选举中投过票的用户ID。
// 这个缓存只是快速路径，数据库中的唯一索引才是权威约束。
const VoterSetKeyPrefix = "election:voters:"

// VoterSetKey 返回指定选举的已投票用户集合的Redis键
func VoterSetKey(electionID uint) string {
	return VoterSetKeyPrefix + strconv.FormatUint(uint64(electionID), 10)
}

// --- SQLite 查询辅助函数 ---

// withCandidates 按插入顺序预加载候选人列表
func withCandidates(db *gorm.DB) *gorm.DB {
	return db.Preload("Candidates", func(db *gorm.DB) *gorm.DB {
		return db.Order("candidates.id ASC")
	})
}

// GetElectionByID 按ID查询选举及其候选人，未找到时返回(nil, nil)
func GetElectionByID(id uint) (*Election, error) {
	var e Election
	err := withCandidates(database.DB).First(&e, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询选举 %d 失败: %w", id, err)
	}
	return &e, nil
}

// ListElections 返回全部选举及其候选人，按创建顺序排列。
// 没有选举时返回空切片而不是nil，保证JSON序列化为[]。
func ListElections() ([]Election, error) {
	elections := []Election{}
	if err := withCandidates(database.DB).Order("id ASC").Find(&elections).Error; err != nil {
		return nil, fmt.Errorf("查询选举列表失败: %w", err)
	}
	return elections, nil
}

// CountVotes 返回指定选举中已有的投票记录数
func CountVotes(electionID uint) (int64, error) {
	var count int64
	err := database.DB.Model(&VoteRecord{}).Where("election_id = ?", electionID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("统计选举 %d 的投票数失败: %w", electionID, err)
	}
	return count, nil
}

// --- 已投票用户集合缓存 ---

// HasVoterCached 查询缓存中该用户是否已在该选举中投票。
// Redis不可用时返回false，调用方会退回到数据库检查。
func HasVoterCached(electionID, voterID uint) bool {
	if database.RDB == nil {
		return false
	}
	exists, err := database.RDB.SIsMember(database.Ctx, VoterSetKey(electionID), voterID).Result()
	if err != nil {
		fmt.Printf("查询已投票缓存失败: %v\n", err)
		return false
	}
	return exists
}

// MarkVoterCached 在投票成功提交后把用户加入缓存，失败只记录日志
func MarkVoterCached(electionID, voterID uint) {
	if database.RDB == nil {
		return
	}
	if err := database.RDB.SAdd(database.Ctx, VoterSetKey(electionID), voterID).Err(); err != nil {
		fmt.Printf("更新已投票缓存失败: %v\n", err)
	}
}

// InvalidateVoterCache 在选举被删除时清除其缓存键。
// SQLite可能复用已删除的自增ID，残留的缓存会把新选举的投票误判为重复。
func InvalidateVoterCache(electionID uint) {
	if database.RDB == nil {
		return
	}
	if err := database.RDB.Del(database.Ctx, VoterSetKey(electionID)).Err(); err != nil {
		fmt.Printf("清除已投票缓存失败: %v\n", err)
	}
}

// WarmupVoterCache 从SQLite加载全部投票记录，并预热到Redis的Set中
func WarmupVoterCache() error {
	if database.RDB == nil {
		return nil
	}

	var votes []VoteRecord
	if err := database.DB.Select("election_id", "voter_id").Find(&votes).Error; err != nil {
		return fmt.Errorf("无法从SQLite读取投票记录: %w", err)
	}

	// 按选举分组
	grouped := make(map[uint][]interface{})
	for _, v := range votes {
		grouped[v.ElectionID] = append(grouped[v.ElectionID], v.VoterID)
	}

	// 使用Pipeline批量写入，先清空旧键确保数据一致性
	pipe := database.RDB.Pipeline()
	for electionID, voters := range grouped {
		key := VoterSetKey(electionID)
		pipe.Del(database.Ctx, key)
		pipe.SAdd(database.Ctx, key, voters...)
	}
	if _, err := pipe.Exec(database.Ctx); err != nil {
		return fmt.Errorf("预热已投票集合到Redis失败: %w", err)
	}

	fmt.Printf("成功预热 %d 个选举的已投票集合到Redis。\n", len(grouped))
	return nil
}
