package model

import "time"

// TargetKind selects which entity a follow edge points at.
type TargetKind string

const (
	TargetBlog      TargetKind = "blog"
	TargetCommunity TargetKind = "community"
	TargetTag       TargetKind = "tag"
	TargetAlias     TargetKind = "alias"
)

// Valid reports whether the kind is one of the four supported targets.
func (k TargetKind) Valid() bool {
	switch k {
	case TargetBlog, TargetCommunity, TargetTag, TargetAlias:
		return true
	}
	return false
}

// RelationType is the semantic of a follow edge.
type RelationType string

const (
	RelationFollow RelationType = "follow"
	RelationBlock  RelationType = "block"
)

// Valid reports whether the relation type is a member of the enumeration.
func (t RelationType) Valid() bool {
	return t == RelationFollow || t == RelationBlock
}

// FollowEdge is the single polymorphic relation standing in for four
// relationship kinds (alias→blog, alias→community, alias→tag, alias→alias).
// The store does not constrain an alias to hold only one of follow/block
// toward the same target; precedence between the two is the feed layer's
// concern.
type FollowEdge struct {
	ID            int64        `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ViewerAliasID int64        `gorm:"column:viewer_alias_id;index:idx_follow_viewer;uniqueIndex:idx_follow_edge;not null" json:"viewerAliasId"`
	TargetKind    TargetKind   `gorm:"column:target_kind;type:varchar(16);uniqueIndex:idx_follow_edge;not null" json:"targetKind"`
	TargetID      int64        `gorm:"column:target_id;uniqueIndex:idx_follow_edge;not null" json:"targetId"`
	RelationType  RelationType `gorm:"column:relation_type;type:varchar(8);uniqueIndex:idx_follow_edge;not null" json:"relationType"`
	CreateTime    time.Time    `gorm:"column:create_time;autoCreateTime" json:"createTime"`
	UpdateTime    time.Time    `gorm:"column:update_time;autoUpdateTime" json:"updateTime"`
}

func (FollowEdge) TableName() string { return "follow_edges" }
