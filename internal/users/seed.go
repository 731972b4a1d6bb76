package users

import (
	"context"
	"log"

	"github.com/eternal-365/educonnect/internal/auth"
)

// Seed inserts the sample student and parent accounts when the users table
// is empty. Safe to call on every startup.
func (s *Service) Seed(ctx context.Context) error {
	cnt, err := s.repo.CountUsers(ctx)
	if err != nil {
		return err
	}
	if cnt > 0 {
		return nil
	}

	studentHash, err := auth.HashPassword("student123")
	if err != nil {
		return err
	}
	student := &User{
		Email:        "student@educonnect.com",
		PasswordHash: studentHash,
		Name:         "Rahul Student",
		UserType:     TypeStudent,
		Avatar:       "RS",
		StudentCode:  "S123",
		StudentClass: 10,
		Performance:  map[string]int{"math": 85, "science": 78, "english": 92},
		Attendance:   95,
		Remarks:      "Excellent student, needs improvement in science",
		RewardPoints: 1250,
	}
	if err := s.repo.CreateUser(ctx, student); err != nil {
		return err
	}

	parentHash, err := auth.HashPassword("parent123")
	if err != nil {
		return err
	}
	parent := &User{
		Email:        "parent@educonnect.com",
		PasswordHash: parentHash,
		Name:         "Parent User",
		UserType:     TypeParent,
		Avatar:       "PU",
		Children:     []string{"S123"},
	}
	if err := s.repo.CreateUser(ctx, parent); err != nil {
		return err
	}

	log.Printf("sample user data created")
	return nil
}
