package election

import (
	"time"

	"gorm.io/gorm"
)

// 选举状态常量。
// 状态不落库，由EndTime和当前时间实时推导，转换是单向的。
const (
	// StatusOngoing 表示选举仍在进行中
	StatusOngoing = "ongoing"
	// StatusCompleted 表示选举已结束
	StatusCompleted = "completed"
)

// Election 定义了选举在数据库中的持久化模型。
// 选举是聚合根，独占其候选人和投票记录的生命周期。
type Election struct {
	gorm.Model

	// Title 是选举的标题
	Title string `gorm:"not null" json:"title"`

	// Description 是选举的描述
	Description string `gorm:"not null" json:"description"`

	// EndTime 是选举的截止时间，超过后状态变为completed
	EndTime time.Time `gorm:"not null" json:"endTime"`

	// CreatedBy 记录创建该选举的管理员的用户ID
	CreatedBy uint `json:"createdBy"`

	// Candidates 是内嵌在选举中的候选人列表，按插入顺序排列
	Candidates []Candidate `json:"candidates"`

	// Votes 是该选举内的所有投票记录
	Votes []VoteRecord `json:"-"`
}

// Candidate 定义了选举内嵌的候选人。
// 候选人不独立存在，随选举一同创建和删除。
type Candidate struct {
	gorm.Model

	// ElectionID 是所属选举的ID
	ElectionID uint `gorm:"index;not null" json:"electionId"`

	// Name 是候选人的名称
	Name string `gorm:"not null" json:"name"`

	// Votes 是该候选人获得的票数，非负且只会单调增加
	Votes int `gorm:"not null;default:0" json:"votes"`
}

// VoteRecord 定义了一条投票记录，绑定(选举, 候选人, 投票人)。
// (ElectionID, VoterID)上的唯一索引在存储层保证
// 同一投票人在同一选举中最多只有一条记录。
type VoteRecord struct {
	gorm.Model

	// ElectionID 是所属选举的ID
	ElectionID uint `gorm:"uniqueIndex:idx_election_voter;not null" json:"electionId"`

	// CandidateID 是被投票的候选人的ID
	CandidateID uint `gorm:"not null" json:"candidateId"`

	// VoterID 是投票人的用户ID
	VoterID uint `gorm:"uniqueIndex:idx_election_voter;not null" json:"voterId"`
}

// DeriveStatus 根据截止时间和给定时刻推导选举状态
func DeriveStatus(endTime, now time.Time) string {
	if endTime.After(now) {
		return StatusOngoing
	}
	return StatusCompleted
}
