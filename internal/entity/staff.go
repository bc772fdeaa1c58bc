package entity

// Staff represents a staff directory member
type Staff struct {
	Id        int64  `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	FullName  string `json:"fullName" gorm:"column:full_name"`
	Email     string `json:"email" gorm:"column:email"`
	Phone     string `json:"phone" gorm:"column:phone"`
	Role      string `json:"role" gorm:"column:role"`
	Avatar    string `json:"avatar" gorm:"column:avatar"`
	IsVisible bool   `json:"is_visible" gorm:"column:is_visible"`
	CreatedAt int64  `json:"created_at" gorm:"column:created_at;autoCreateTime:milli"`
	UpdatedAt int64  `json:"updated_at" gorm:"column:updated_at;autoUpdateTime:milli"`
}

// TableName returns the table name for Staff
func (Staff) TableName() string {
	return "staff"
}

// StaffInfo is the admin-facing staff shape with visibility toggle state
type StaffInfo struct {
	Id         int64  `json:"id"`
	FullName   string `json:"fullName"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Avatar     string `json:"avatar"`
	ShowActive bool   `json:"showActive"`
	HideActive bool   `json:"hideActive"`
}

// ToStaffInfo converts Staff to StaffInfo
func (s *Staff) ToStaffInfo() *StaffInfo {
	return &StaffInfo{
		Id:         s.Id,
		FullName:   s.FullName,
		Phone:      s.Phone,
		Email:      s.Email,
		Role:       s.Role,
		Avatar:     s.Avatar,
		ShowActive: !s.IsVisible,
		HideActive: s.IsVisible,
	}
}
