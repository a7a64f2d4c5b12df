package vote

import (
	"errors"
	"fmt"

	"github.com/SlpAus/online-voting-backend/internal/election"
	"github.com/SlpAus/online-voting-backend/internal/platform/database"
	"github.com/SlpAus/online-voting-backend/pkg/apperror"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CastVote 为指定投票人在指定选举中记录一票。
//
// 前置条件按顺序检查：选举存在、该投票人尚未投票、候选人属于该选举。
// 计票增加和投票记录写入在同一个数据库事务中完成，
// (election_id, voter_id)上的唯一索引使“不存在才写入”在存储层原子生效：
// 即使两个事务交错执行，后提交的一方会因唯一键冲突整体回滚，
// 计票增量随之撤销，不会出现丢失更新或重复投票。
func CastVote(electionID, candidateID, voterID uint) error {
	// 快速路径：缓存命中直接拒绝，不必打开事务。
	// 缓存未命中不代表没投过票，事务内还会以数据库为准再查一次。
	if election.HasVoterCached(electionID, voterID) {
		return apperror.BadRequest(apperror.CodeAlreadyVoted, "您已经在该选举中投过票了")
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		// 锁定选举行，防止与删除、候选人替换等写操作交错
		var e election.Election
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&e, electionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound(apperror.CodeElectionNotFound, "选举不存在")
			}
			return fmt.Errorf("查询选举失败: %w", err)
		}

		// 以数据库为准检查是否已投票
		var existing election.VoteRecord
		err := tx.Where("election_id = ? AND voter_id = ?", electionID, voterID).First(&existing).Error
		if err == nil {
			return apperror.BadRequest(apperror.CodeAlreadyVoted, "您已经在该选举中投过票了")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("查询投票记录失败: %w", err)
		}

		// 候选人必须内嵌在该选举中
		var candidate election.Candidate
		err = tx.Where("id = ? AND election_id = ?", candidateID, electionID).First(&candidate).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound(apperror.CodeCandidateNotFound, "候选人不存在")
			}
			return fmt.Errorf("查询候选人失败: %w", err)
		}

		// 增加计票
		if err := tx.Model(&candidate).UpdateColumn("votes", gorm.Expr("votes + ?", 1)).Error; err != nil {
			return fmt.Errorf("无法更新计票: %w", err)
		}

		// 写入投票记录，唯一索引兜底并发下的重复投票
		record := election.VoteRecord{
			ElectionID:  electionID,
			CandidateID: candidateID,
			VoterID:     voterID,
		}
		if err := tx.Create(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperror.BadRequest(apperror.CodeAlreadyVoted, "您已经在该选举中投过票了")
			}
			return fmt.Errorf("无法写入投票记录: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	// 事务提交后更新缓存，失败只影响快速路径
	election.MarkVoterCached(electionID, voterID)
	return nil
}
