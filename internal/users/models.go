package users

import "time"

const (
	TypeStudent = "student"
	TypeParent  = "parent"
)

// User is one identity record. Role-specific fields stay zero-valued for the
// other role; users are never hard-deleted.
type User struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"type:varchar(128);not null" json:"-"`
	Name         string `gorm:"type:varchar(128);not null" json:"name"`
	UserType     string `gorm:"type:varchar(16);index;not null" json:"userType"`
	Avatar       string `gorm:"type:varchar(8)" json:"avatar"`

	// student fields
	StudentCode  string         `gorm:"type:varchar(32);index" json:"studentId,omitempty"`
	StudentClass int            `json:"studentClass,omitempty"`
	Performance  map[string]int `gorm:"serializer:json" json:"performance,omitempty"`
	Attendance   int            `json:"attendance,omitempty"`
	Remarks      string         `gorm:"type:text" json:"remarks,omitempty"`
	RewardPoints int            `json:"rewardPoints,omitempty"`
	LastActive   *time.Time     `json:"lastActive,omitempty"`

	// parent fields
	Children []string `gorm:"serializer:json" json:"children,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}

func (User) TableName() string { return "users" }

type VocationalCourse struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement" json:"-"`
	UserID       uint64    `gorm:"not null;index:uniq_user_course,unique,priority:1" json:"-"`
	CourseID     string    `gorm:"type:varchar(64);not null;index:uniq_user_course,unique,priority:2" json:"courseId"`
	CourseName   string    `gorm:"type:varchar(255);not null" json:"courseName"`
	RegisteredAt time.Time `json:"registeredAt"`
	Progress     int       `gorm:"not null" json:"progress"`
	Completed    bool      `gorm:"not null" json:"completed"`
	LastAccessed time.Time `json:"lastAccessed"`
}

func (VocationalCourse) TableName() string { return "vocational_courses" }
