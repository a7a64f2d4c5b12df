package election

import (
	"errors"
	"fmt"
	"time"

	"github.com/SlpAus/online-voting-backend/internal/platform/database"
	"github.com/SlpAus/online-voting-backend/pkg/apperror"
	"gorm.io/gorm"
)

// CreateElectionInput 是创建选举服务的入参
type CreateElectionInput struct {
	Title       string
	Description string
	EndTime     time.Time
	Candidates  []string
}

// UpdateElectionInput 是更新选举服务的入参。
// nil字段表示不修改，Candidates非nil时整体替换候选人列表。
type UpdateElectionInput struct {
	Title       *string
	Description *string
	EndTime     *time.Time
	Candidates  []string
}

// VoterElectionDTO 是投票人视角的选举视图，
// 在持久化字段之外附加了实时推导的状态和剩余时间。
type VoterElectionDTO struct {
	Election
	Status   string `json:"status"`
	TimeLeft string `json:"timeLeft"`
}

// CreateElection 创建一个新选举，所有候选人票数为零
func CreateElection(input CreateElectionInput, adminID uint) (*Election, error) {
	candidates := make([]Candidate, len(input.Candidates))
	for i, name := range input.Candidates {
		candidates[i] = Candidate{Name: name}
	}

	e := Election{
		Title:       input.Title,
		Description: input.Description,
		EndTime:     input.EndTime,
		CreatedBy:   adminID,
		Candidates:  candidates,
	}
	if err := database.DB.Create(&e).Error; err != nil {
		return nil, fmt.Errorf("无法创建选举: %w", err)
	}
	return &e, nil
}

// UpdateElection 按字段更新一个选举。
// 替换候选人列表会清零全部计票，因此一旦有投票记录就拒绝替换。
func UpdateElection(id uint, input UpdateElectionInput) (*Election, error) {
	e, err := GetElectionByID(id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, apperror.NotFound(apperror.CodeElectionNotFound, "选举不存在")
	}

	if input.Candidates != nil {
		voteCount, err := CountVotes(id)
		if err != nil {
			return nil, err
		}
		if voteCount > 0 {
			return nil, apperror.Conflict(apperror.CodeElectionHasVotes, "选举已有投票，不能再替换候选人列表")
		}
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if input.Title != nil {
			e.Title = *input.Title
		}
		if input.Description != nil {
			e.Description = *input.Description
		}
		if input.EndTime != nil {
			e.EndTime = *input.EndTime
		}

		if input.Candidates != nil {
			// 整体替换：删除旧候选人，重建新列表
			if err := tx.Where("election_id = ?", id).Delete(&Candidate{}).Error; err != nil {
				return fmt.Errorf("无法删除旧候选人: %w", err)
			}
			candidates := make([]Candidate, len(input.Candidates))
			for i, name := range input.Candidates {
				candidates[i] = Candidate{ElectionID: id, Name: name}
			}
			if len(candidates) > 0 {
				if err := tx.Create(&candidates).Error; err != nil {
					return fmt.Errorf("无法创建新候选人: %w", err)
				}
			}
			e.Candidates = candidates
		}

		if err := tx.Omit("Candidates").Save(e).Error; err != nil {
			return fmt.Errorf("无法保存选举: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return GetElectionByID(id)
}

// DeleteElection 删除一个选举及其全部候选人和投票记录
func DeleteElection(id uint) error {
	var e Election
	if err := database.DB.First(&e, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound(apperror.CodeElectionNotFound, "选举不存在")
		}
		return fmt.Errorf("查询选举 %d 失败: %w", id, err)
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("election_id = ?", id).Delete(&VoteRecord{}).Error; err != nil {
			return fmt.Errorf("无法删除投票记录: %w", err)
		}
		if err := tx.Where("election_id = ?", id).Delete(&Candidate{}).Error; err != nil {
			return fmt.Errorf("无法删除候选人: %w", err)
		}
		if err := tx.Delete(&e).Error; err != nil {
			return fmt.Errorf("无法删除选举: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	InvalidateVoterCache(id)
	return nil
}

// ListForAdmin 返回管理员视角的全部选举
func ListForAdmin() ([]Election, error) {
	return ListElections()
}

// ListForVoter 返回投票人视角的选举列表，附加状态和剩余时间
func ListForVoter(now time.Time) ([]VoterElectionDTO, error) {
	elections, err := ListElections()
	if err != nil {
		return nil, err
	}

	result := make([]VoterElectionDTO, len(elections))
	for i, e := range elections {
		status := DeriveStatus(e.EndTime, now)
		timeLeft := "Election ended"
		if status == StatusOngoing {
			timeLeft = formatTimeLeft(e.EndTime.Sub(now))
		}
		result[i] = VoterElectionDTO{
			Election: e,
			Status:   status,
			TimeLeft: timeLeft,
		}
	}
	return result, nil
}

// formatTimeLeft 把剩余时间格式化为 "Xd Xh Xm Xs"
func formatTimeLeft(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
}
