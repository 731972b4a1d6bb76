package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/eternal-365/educonnect/internal/ai"
	"github.com/eternal-365/educonnect/internal/auth"
	"github.com/eternal-365/educonnect/internal/common"
	"github.com/eternal-365/educonnect/internal/ratelimit"
	"github.com/eternal-365/educonnect/internal/users"
)

type Service struct {
	repo          *Repo
	users         *users.Service
	registry      *ai.Registry
	limiter       ratelimit.Limiter
	provider      string
	model         string
	contextWindow int
}

func NewService(repo *Repo, usersSvc *users.Service, registry *ai.Registry, limiter ratelimit.Limiter, provider, model string, contextWindow int) *Service {
	if contextWindow <= 0 || contextWindow > 100 {
		contextWindow = 6
	}
	return &Service{
		repo:          repo,
		users:         usersSvc,
		registry:      registry,
		limiter:       limiter,
		provider:      provider,
		model:         model,
		contextWindow: contextWindow,
	}
}

// ResolveOwner picks the conversation owner for a request: students always
// chat as themselves, parents must name the target student, either by
// numeric user id or by the "S..." code their children list stores.
func (s *Service) ResolveOwner(ctx context.Context, claims *auth.Claims, targetStudentID string) (uint64, error) {
	if claims.UserType == users.TypeStudent {
		return claims.UserID, nil
	}
	target := strings.TrimSpace(targetStudentID)
	if target == "" {
		return 0, ErrStudentRequired
	}
	if id, err := strconv.ParseUint(target, 10, 64); err == nil {
		return id, nil
	}
	student, err := s.users.GetStudentByCode(ctx, target)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return 0, ErrStudentNotFound
		}
		return 0, err
	}
	return student.ID, nil
}

// SendMessage runs the whole chat-proxy path: owner resolution, rate limit,
// student lookup, user-turn persist, completion call, assistant-turn persist.
// The user turn stays committed even when the completion fails.
func (s *Service) SendMessage(ctx context.Context, claims *auth.Claims, text, messageID, targetStudentID string) (*Message, error) {
	student, _, err := s.prepareUserTurn(ctx, claims, text, messageID, targetStudentID)
	if err != nil {
		return nil, err
	}

	assistant, err := s.generateReply(ctx, student, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return assistant, nil
}

// prepareUserTurn validates the request and persists the inbound user turn.
func (s *Service) prepareUserTurn(ctx context.Context, claims *auth.Claims, text, messageID, targetStudentID string) (*users.User, *Message, error) {
	owner, err := s.ResolveOwner(ctx, claims, targetStudentID)
	if err != nil {
		return nil, nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil, ErrEmptyMessage
	}

	allowed, err := s.limiter.Allow(ctx, strconv.FormatUint(owner, 10))
	if err != nil {
		// Fail open: a degraded limiter backend must not block chat.
		log.Printf("rate limiter degraded: %v", err)
	} else if !allowed {
		return nil, nil, ErrRateLimited
	}

	student, err := s.users.GetStudent(ctx, owner)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, nil, ErrStudentNotFound
		}
		return nil, nil, err
	}
	_ = s.users.TouchLastActive(ctx, owner)

	if messageID == "" {
		messageID, err = common.NewULID()
		if err != nil {
			return nil, nil, err
		}
	}
	userMsg := &Message{
		MessageID: messageID,
		OwnerID:   owner,
		Role:      "user",
		Content:   text,
		UserType:  claims.UserType,
	}
	if err := s.repo.InsertMessage(ctx, userMsg); err != nil {
		return nil, nil, err
	}
	return student, userMsg, nil
}

// generateReply builds the prompt from recent history, calls the provider,
// and persists the assistant turn.
func (s *Service) generateReply(ctx context.Context, student *users.User, text string) (*Message, error) {
	recentDesc, err := s.repo.ListRecentDesc(ctx, student.ID, s.contextWindow)
	if err != nil {
		return nil, err
	}

	// reverse to ASC (oldest -> newest)
	var transcript strings.Builder
	for i := len(recentDesc) - 1; i >= 0; i-- {
		m := recentDesc[i]
		fmt.Fprintf(&transcript, "%s: %s\n", m.Role, m.Content)
	}

	provider, err := s.registry.Get(ctx, s.provider, s.model)
	if err != nil {
		return nil, err
	}

	reply, err := provider.Chat(ctx, []ai.Message{
		{Role: "system", Content: systemPrompt(student, strings.TrimRight(transcript.String(), "\n"))},
		{Role: "user", Content: text},
	})
	if err != nil {
		return nil, err
	}

	mid, err := common.NewULID()
	if err != nil {
		return nil, err
	}
	assistant := &Message{
		MessageID: mid,
		OwnerID:   student.ID,
		Role:      "assistant",
		Content:   reply,
	}
	if err := s.repo.InsertMessage(ctx, assistant); err != nil {
		return nil, err
	}
	return assistant, nil
}

// History returns the owner's conversation in chronological order.
func (s *Service) History(ctx context.Context, claims *auth.Claims, targetStudentID string, limit int) ([]Message, error) {
	owner, err := s.ResolveOwner(ctx, claims, targetStudentID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListHistoryAsc(ctx, owner, limit)
}

// EnqueueMessage persists the user turn and creates a queued job for the
// worker; the caller publishes the job id.
func (s *Service) EnqueueMessage(ctx context.Context, claims *auth.Claims, text, messageID, targetStudentID string) (*Job, error) {
	student, _, err := s.prepareUserTurn(ctx, claims, text, messageID, targetStudentID)
	if err != nil {
		return nil, err
	}

	jobID, err := common.NewULID()
	if err != nil {
		return nil, err
	}
	job := &Job{
		ID:       jobID,
		OwnerID:  student.ID,
		CallerID: claims.UserID,
		Prompt:   text,
		Status:   JobQueued,
	}
	if err := s.repo.CreateJob(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

func (s *Service) GetJob(ctx context.Context, jobID string) (*Job, error) {
	j, err := s.repo.GetJobByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return j, nil
}

// CompleteJob generates and persists the assistant reply for a queued job.
func (s *Service) CompleteJob(ctx context.Context, jobID string) error {
	_ = s.repo.UpdateJobStatusRunning(ctx, jobID)

	job, err := s.repo.GetJobByID(ctx, jobID)
	if err != nil {
		return err
	}

	student, err := s.users.GetStudent(ctx, job.OwnerID)
	if err != nil {
		_ = s.repo.MarkJobFailed(ctx, jobID, err.Error())
		return err
	}

	assistant, err := s.generateReply(ctx, student, job.Prompt)
	if err != nil {
		_ = s.repo.MarkJobFailed(ctx, jobID, err.Error())
		return err
	}

	return s.repo.MarkJobSucceeded(ctx, jobID, assistant.MessageID)
}
