package model

import "strings"

// Role 用户角色
type Role string

const (
	RoleAthlete Role = "athlete" // 运动员，可创建筹款活动
	RoleDonor   Role = "donor"   // 捐赠者，可发起捐赠
	RoleBoth    Role = "both"    // 两者皆可
)

// ParseRole 解析角色字符串，未知角色返回 false
func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleAthlete, RoleDonor, RoleBoth:
		return r, true
	default:
		return "", false
	}
}

// Valid 是否为已知角色
func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

// CanPledge 是否允许发起捐赠
func (r Role) CanPledge() bool {
	return r == RoleDonor || r == RoleBoth
}

// CanCreateCampaign 是否允许创建和管理筹款活动
func (r Role) CanCreateCampaign() bool {
	return r == RoleAthlete || r == RoleBoth
}
