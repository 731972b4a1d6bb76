package users

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eternal-365/educonnect/internal/auth"
)

type Service struct {
	repo *Repo
}

func NewService(repo *Repo) *Service {
	return &Service{repo: repo}
}

type RegisterInput struct {
	Email        string
	Password     string
	Name         string
	UserType     string
	StudentID    string
	StudentClass int
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	cnt, err := s.repo.CountByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if cnt > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := &User{
		Email:        in.Email,
		PasswordHash: hash,
		Name:         in.Name,
		UserType:     in.UserType,
		Avatar:       initials(in.Name),
	}

	switch in.UserType {
	case TypeStudent:
		u.StudentCode = in.StudentID
		if u.StudentCode == "" {
			u.StudentCode = newStudentCode()
		}
		u.StudentClass = in.StudentClass
		if u.StudentClass == 0 {
			u.StudentClass = 10
		}
		u.Performance = map[string]int{"math": 0, "science": 0, "english": 0}
		u.Attendance = 0
		u.RewardPoints = 0
		u.Remarks = "New student"
	case TypeParent:
		u.Children = []string{}
	}

	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login verifies credentials and, when expectedType is set, the account role.
func (s *Service) Login(ctx context.Context, email, password, expectedType string) (*User, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if expectedType != "" && u.UserType != expectedType {
		return nil, ErrRoleMismatch
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *Service) GetProfile(ctx context.Context, email string) (*User, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

type UpdateProfileInput struct {
	Name         *string
	StudentClass *int
}

func (s *Service) UpdateProfile(ctx context.Context, email string, in UpdateProfileInput) (*User, error) {
	updates := map[string]any{}
	if in.Name != nil && *in.Name != "" {
		updates["name"] = *in.Name
		updates["avatar"] = initials(*in.Name)
	}
	if in.StudentClass != nil {
		updates["student_class"] = *in.StudentClass
	}
	if len(updates) == 0 {
		return nil, ErrNotFound
	}

	rows, err := s.repo.UpdateByEmail(ctx, email, updates)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrNotFound
	}
	return s.GetProfile(ctx, email)
}

func (s *Service) GetStudent(ctx context.Context, id uint64) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

// GetStudentByCode looks a student up by the external "S..." code, the form
// a parent's children list stores.
func (s *Service) GetStudentByCode(ctx context.Context, code string) (*User, error) {
	u, err := s.repo.GetByStudentCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *Service) TouchLastActive(ctx context.Context, id uint64) error {
	return s.repo.TouchLastActive(ctx, id)
}

func (s *Service) ListStudents(ctx context.Context) ([]User, error) {
	return s.repo.ListStudents(ctx)
}

// RegisterVocationalCourse is an idempotent add-if-absent; registering the
// same course twice is not an error.
func (s *Service) RegisterVocationalCourse(ctx context.Context, userID uint64, userType, courseID, courseName string) error {
	if userType != TypeStudent {
		return ErrStudentsOnly
	}
	now := time.Now()
	_, err := s.repo.AddCourseIfAbsent(ctx, &VocationalCourse{
		UserID:       userID,
		CourseID:     courseID,
		CourseName:   courseName,
		RegisteredAt: now,
		Progress:     0,
		Completed:    false,
		LastAccessed: now,
	})
	return err
}

func (s *Service) ListVocationalCourses(ctx context.Context, userID uint64) ([]VocationalCourse, error) {
	return s.repo.ListCourses(ctx, userID)
}

func (s *Service) UpdateCourseProgress(ctx context.Context, userID uint64, courseID string, progress int) error {
	rows, err := s.repo.UpdateCourseProgress(ctx, userID, courseID, progress, progress >= 100)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrCourseNotFound
	}
	return nil
}

// initials derives avatar initials from a display name ("Rahul Student" -> "RS").
func initials(name string) string {
	var b strings.Builder
	for _, part := range strings.Fields(name) {
		r := []rune(part)
		b.WriteRune(unicode.ToUpper(r[0]))
	}
	return b.String()
}

func newStudentCode() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "S" + strings.ToUpper(id[:9])
}
