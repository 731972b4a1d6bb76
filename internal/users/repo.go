package users

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) CreateUser(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *Repo) CountByEmail(ctx context.Context, email string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&User{}).Where("email = ?", email).Count(&cnt).Error
	return cnt, err
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repo) GetByID(ctx context.Context, id uint64) (*User, error) {
	var u User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repo) GetByStudentCode(ctx context.Context, code string) (*User, error) {
	var u User
	if err := r.db.WithContext(ctx).
		Where("student_code = ? AND user_type = ?", code, TypeStudent).
		First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateByEmail applies the given column updates and reports how many rows
// were touched.
func (r *Repo) UpdateByEmail(ctx context.Context, email string, updates map[string]any) (int64, error) {
	res := r.db.WithContext(ctx).Model(&User{}).Where("email = ?", email).Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *Repo) CountUsers(ctx context.Context) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&User{}).Count(&cnt).Error
	return cnt, err
}

func (r *Repo) ListStudents(ctx context.Context) ([]User, error) {
	var list []User
	if err := r.db.WithContext(ctx).
		Where("user_type = ?", TypeStudent).
		Order("id ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *Repo) TouchLastActive(ctx context.Context, id uint64) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&User{}).
		Where("id = ?", id).
		Update("last_active", now).Error
}

// AddCourseIfAbsent inserts an enrollment unless the (user, course) pair
// already exists. Reports whether a row was created.
func (r *Repo) AddCourseIfAbsent(ctx context.Context, course *VocationalCourse) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).Model(&VocationalCourse{}).
		Where("user_id = ? AND course_id = ?", course.UserID, course.CourseID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	if cnt > 0 {
		return false, nil
	}
	if err := r.db.WithContext(ctx).Create(course).Error; err != nil {
		return false, err
	}
	return true, nil
}

func (r *Repo) ListCourses(ctx context.Context, userID uint64) ([]VocationalCourse, error) {
	var list []VocationalCourse
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("registered_at ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// UpdateCourseProgress is a conditional update keyed by the (user, course)
// pair; zero rows affected means the pair does not exist.
func (r *Repo) UpdateCourseProgress(ctx context.Context, userID uint64, courseID string, progress int, completed bool) (int64, error) {
	res := r.db.WithContext(ctx).Model(&VocationalCourse{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Updates(map[string]any{
			"progress":      progress,
			"completed":     completed,
			"last_accessed": time.Now(),
		})
	return res.RowsAffected, res.Error
}
