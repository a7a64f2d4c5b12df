package results

import (
	"fmt"
	"time"

	"github.com/SlpAus/online-voting-backend/internal/election"
	"github.com/SlpAus/online-voting-backend/internal/platform/database"
	"gorm.io/gorm"
)

// NoVotesSentinel 是所有候选人都是零票时winner字段的占位值
const NoVotesSentinel = "No votes yet"

// CandidateResult 是结果视图中的单个候选人
type CandidateResult struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Votes int    `json:"votes"`
	// Percentage 是该候选人得票占总票数的百分比，总票数为零时为0
	Percentage float64 `json:"percentage"`
}

// ElectionResult 是单个选举的只读结果投影。
// 它由存储的计票即时推导，从不回写任何数据。
type ElectionResult struct {
	ID          uint              `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	EndTime     time.Time         `json:"endTime"`
	Candidates  []CandidateResult `json:"candidates"`
	Winner      string            `json:"winner"`
	TotalVotes  int               `json:"totalVotes"`
	Status      string            `json:"status"`
}

// VoteListEntry 是管理员投票流水视图中的一条记录
type VoteListEntry struct {
	Candidate string `json:"candidate"`
	VoterID   uint   `json:"voter"`
}

// ElectionVotes 是单个选举的投票流水
type ElectionVotes struct {
	ElectionTitle string          `json:"electionTitle"`
	Votes         []VoteListEntry `json:"votes"`
}

// ComputeResults 为全部选举计算结果投影。
//
// winner取候选人列表中票数严格最大的那一位；
// 并列时取列表中先出现的（即先插入的）候选人，规则固定且有测试覆盖。
func ComputeResults(now time.Time) ([]ElectionResult, error) {
	elections, err := election.ListElections()
	if err != nil {
		return nil, err
	}

	results := make([]ElectionResult, len(elections))
	for i, e := range elections {
		candidates := make([]CandidateResult, len(e.Candidates))
		totalVotes := 0
		winner := NoVotesSentinel
		maxVotes := 0

		for j, cand := range e.Candidates {
			candidates[j] = CandidateResult{
				ID:    cand.ID,
				Name:  cand.Name,
				Votes: cand.Votes,
			}
			totalVotes += cand.Votes
			if cand.Votes > maxVotes {
				maxVotes = cand.Votes
				winner = cand.Name
			}
		}

		if totalVotes > 0 {
			for j := range candidates {
				candidates[j].Percentage = float64(candidates[j].Votes) / float64(totalVotes) * 100
			}
		}

		results[i] = ElectionResult{
			ID:          e.ID,
			Title:       e.Title,
			Description: e.Description,
			EndTime:     e.EndTime,
			Candidates:  candidates,
			Winner:      winner,
			TotalVotes:  totalVotes,
			Status:      election.DeriveStatus(e.EndTime, now),
		}
	}
	return results, nil
}

// ListVotes 返回每个选举的投票流水，候选人ID被解析为名称
func ListVotes() ([]ElectionVotes, error) {
	var elections []election.Election
	err := database.DB.
		Preload("Candidates").
		Preload("Votes", func(db *gorm.DB) *gorm.DB {
			return db.Order("vote_records.id ASC")
		}).
		Order("id ASC").
		Find(&elections).Error
	if err != nil {
		return nil, fmt.Errorf("查询投票流水失败: %w", err)
	}

	result := make([]ElectionVotes, len(elections))
	for i, e := range elections {
		nameByID := make(map[uint]string, len(e.Candidates))
		for _, cand := range e.Candidates {
			nameByID[cand.ID] = cand.Name
		}

		votes := make([]VoteListEntry, len(e.Votes))
		for j, v := range e.Votes {
			votes[j] = VoteListEntry{
				Candidate: nameByID[v.CandidateID],
				VoterID:   v.VoterID,
			}
		}
		result[i] = ElectionVotes{
			ElectionTitle: e.Title,
			Votes:         votes,
		}
	}
	return result, nil
}
