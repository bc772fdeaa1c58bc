package entity

// User represents a user account
type User struct {
	Id        int64   `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	FirstName string  `json:"firstName" gorm:"column:first_name"`
	LastName  string  `json:"lastName" gorm:"column:last_name"`
	Username  string  `json:"username" gorm:"column:username"`
	Email     string  `json:"email" gorm:"column:email;uniqueIndex"`
	Phone     string  `json:"phone" gorm:"column:phone"`
	Dob       string  `json:"dob" gorm:"column:dob"`
	Address   string  `json:"address" gorm:"column:address"`
	Role      string  `json:"role" gorm:"column:role"`
	Avatar    string  `json:"avatar" gorm:"column:avatar"`
	Password  string  `json:"-" gorm:"column:password"`
	LastSeen  *int64  `json:"last_seen" gorm:"column:last_seen"`
	CreatedAt int64   `json:"created_at" gorm:"column:created_at;autoCreateTime:milli"`
	UpdatedAt int64   `json:"updated_at" gorm:"column:updated_at;autoUpdateTime:milli"`
}

// TableName returns the table name for User
func (User) TableName() string {
	return "users"
}

// UserInfo represents public user info (without password)
type UserInfo struct {
	Id        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Dob       string `json:"dob"`
	Address   string `json:"address"`
	Role      string `json:"role"`
	Avatar    string `json:"avatar"`
}

// ToUserInfo converts User to UserInfo
func (u *User) ToUserInfo() *UserInfo {
	return &UserInfo{
		Id:        u.Id,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Username:  u.Username,
		Email:     u.Email,
		Phone:     u.Phone,
		Dob:       u.Dob,
		Address:   u.Address,
		Role:      u.Role,
		Avatar:    u.Avatar,
	}
}

// PresenceInfo is the durable presence baseline for one user. Status is always
// reported as offline here; live online state arrives over the broadcast channel.
type PresenceInfo struct {
	UserId   int64  `json:"userId"`
	Status   string `json:"status"`
	LastSeen *int64 `json:"last_seen"`
}
