package chat

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/eternal-365/educonnect/internal/ai"
	"github.com/eternal-365/educonnect/internal/auth"
	"github.com/eternal-365/educonnect/internal/ratelimit"
	"github.com/eternal-365/educonnect/internal/users"
)

type recordingProvider struct {
	last  []ai.Message
	reply string
	err   error
}

func (p *recordingProvider) Chat(ctx context.Context, messages []ai.Message) (string, error) {
	_ = ctx
	p.last = append([]ai.Message(nil), messages...)
	if p.err != nil {
		return "", p.err
	}
	if p.reply == "" {
		return "ok", nil
	}
	return p.reply, nil
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(gormsqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&users.User{}, &users.VocationalCourse{}, &Message{}, &Job{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func newTestService(t *testing.T, db *gorm.DB, prov ai.Provider, limiter ratelimit.Limiter) (*Service, *users.Service) {
	t.Helper()
	usersSvc := users.NewService(users.NewRepo(db))

	reg := ai.NewRegistry()
	reg.Register("fake", func(ctx context.Context, model string) (ai.Provider, error) {
		_ = ctx
		_ = model
		return prov, nil
	})

	if limiter == nil {
		limiter = ratelimit.NewMemoryLimiter(10, time.Minute)
	}
	svc := NewService(NewRepo(db), usersSvc, reg, limiter, "fake", "default", 6)
	return svc, usersSvc
}

func registerStudent(t *testing.T, usersSvc *users.Service, email string) *users.User {
	t.Helper()
	u, err := usersSvc.Register(context.Background(), users.RegisterInput{
		Email:    email,
		Password: "secret123",
		Name:     "Test Student",
		UserType: users.TypeStudent,
	})
	if err != nil {
		t.Fatalf("register student: %v", err)
	}
	return u
}

func studentClaims(u *users.User) *auth.Claims {
	return &auth.Claims{UserID: u.ID, Email: u.Email, UserType: u.UserType, Name: u.Name}
}

func TestSendMessage_WritesUserAndAssistant(t *testing.T) {
	db := openTestDB(t)
	prov := &recordingProvider{reply: "study more math"}
	svc, usersSvc := newTestService(t, db, prov, nil)
	student := registerStudent(t, usersSvc, "a@x.com")

	assistant, err := svc.SendMessage(context.Background(), studentClaims(student), "Hello", "", "")
	if err != nil {
		t.Fatalf("send message: %v", err)
	}
	if assistant.Content != "study more math" {
		t.Fatalf("unexpected reply: %q", assistant.Content)
	}
	if assistant.MessageID == "" {
		t.Fatalf("expected assistant message id to be set")
	}

	msgs, err := svc.History(context.Background(), studentClaims(student), "", 2)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Role != "user" || msgs[0].Content != "Hello" {
		t.Fatalf("unexpected user msg: role=%q content=%q", msgs[0].Role, msgs[0].Content)
	}
	if msgs[1].Role != "assistant" || msgs[1].Content != "study more math" {
		t.Fatalf("unexpected assistant msg: role=%q content=%q", msgs[1].Role, msgs[1].Content)
	}
	if msgs[1].CreatedAt.Before(msgs[0].CreatedAt) {
		t.Fatalf("history out of timestamp order")
	}
}

func TestSendMessage_ClientMessageIDKept(t *testing.T) {
	db := openTestDB(t)
	svc, usersSvc := newTestService(t, db, &recordingProvider{}, nil)
	student := registerStudent(t, usersSvc, "a@x.com")

	if _, err := svc.SendMessage(context.Background(), studentClaims(student), "Hi", "client-msg-1", ""); err != nil {
		t.Fatalf("send message: %v", err)
	}

	var userMsg Message
	if err := db.Where("role = ?", "user").First(&userMsg).Error; err != nil {
		t.Fatalf("query user msg: %v", err)
	}
	if userMsg.MessageID != "client-msg-1" {
		t.Fatalf("expected client message id to be kept, got %q", userMsg.MessageID)
	}
}

func TestSendMessage_ProviderErrorKeepsUserTurn(t *testing.T) {
	db := openTestDB(t)
	prov := &recordingProvider{err: errors.New("model overloaded")}
	svc, usersSvc := newTestService(t, db, prov, nil)
	student := registerStudent(t, usersSvc, "a@x.com")

	_, err := svc.SendMessage(context.Background(), studentClaims(student), "Hello", "", "")
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}

	var msgs []Message
	if err := db.Where("owner_id = ?", student.ID).Find(&msgs).Error; err != nil {
		t.Fatalf("query messages: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Role != "user" {
		t.Fatalf("expected exactly the persisted user turn, got %d messages", len(msgs))
	}
}

func TestSendMessage_RateLimited(t *testing.T) {
	db := openTestDB(t)
	svc, usersSvc := newTestService(t, db, &recordingProvider{}, ratelimit.NewMemoryLimiter(1, time.Minute))
	student := registerStudent(t, usersSvc, "a@x.com")

	if _, err := svc.SendMessage(context.Background(), studentClaims(student), "one", "", ""); err != nil {
		t.Fatalf("first message: %v", err)
	}
	_, err := svc.SendMessage(context.Background(), studentClaims(student), "two", "", "")
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

func TestSendMessage_EmptyText(t *testing.T) {
	db := openTestDB(t)
	svc, usersSvc := newTestService(t, db, &recordingProvider{}, nil)
	student := registerStudent(t, usersSvc, "a@x.com")

	_, err := svc.SendMessage(context.Background(), studentClaims(student), "   ", "", "")
	if !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
}

func TestSendMessage_ParentNeedsStudentID(t *testing.T) {
	db := openTestDB(t)
	svc, usersSvc := newTestService(t, db, &recordingProvider{}, nil)
	student := registerStudent(t, usersSvc, "a@x.com")

	parent, err := usersSvc.Register(context.Background(), users.RegisterInput{
		Email:    "p@x.com",
		Password: "secret123",
		Name:     "Parent User",
		UserType: users.TypeParent,
	})
	if err != nil {
		t.Fatalf("register parent: %v", err)
	}
	parentClaims := &auth.Claims{UserID: parent.ID, Email: parent.Email, UserType: parent.UserType, Name: parent.Name}

	if _, err := svc.SendMessage(context.Background(), parentClaims, "How is he doing?", "", ""); !errors.Is(err, ErrStudentRequired) {
		t.Fatalf("expected ErrStudentRequired, got %v", err)
	}

	// with a target the parent chats into the student's conversation
	if _, err := svc.SendMessage(context.Background(), parentClaims, "How is he doing?", "", strconv.FormatUint(student.ID, 10)); err != nil {
		t.Fatalf("parent chat with target: %v", err)
	}
	var cnt int64
	if err := db.Model(&Message{}).Where("owner_id = ?", student.ID).Count(&cnt).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if cnt != 2 {
		t.Fatalf("expected 2 turns under the student, got %d", cnt)
	}
}

func TestSendMessage_ParentTargetsStudentByCode(t *testing.T) {
	db := openTestDB(t)
	svc, usersSvc := newTestService(t, db, &recordingProvider{}, nil)
	student := registerStudent(t, usersSvc, "a@x.com")
	if student.StudentCode == "" {
		t.Fatalf("expected generated student code")
	}

	parent, err := usersSvc.Register(context.Background(), users.RegisterInput{
		Email:    "p@x.com",
		Password: "secret123",
		Name:     "Parent User",
		UserType: users.TypeParent,
	})
	if err != nil {
		t.Fatalf("register parent: %v", err)
	}
	parentClaims := &auth.Claims{UserID: parent.ID, Email: parent.Email, UserType: parent.UserType, Name: parent.Name}

	// the "S..." code a parent holds in the children list works as a target
	if _, err := svc.SendMessage(context.Background(), parentClaims, "How is she doing?", "", student.StudentCode); err != nil {
		t.Fatalf("parent chat with student code: %v", err)
	}
	var cnt int64
	if err := db.Model(&Message{}).Where("owner_id = ?", student.ID).Count(&cnt).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if cnt != 2 {
		t.Fatalf("expected 2 turns under the student, got %d", cnt)
	}

	if _, err := svc.SendMessage(context.Background(), parentClaims, "Hello", "", "S-does-not-exist"); !errors.Is(err, ErrStudentNotFound) {
		t.Fatalf("expected ErrStudentNotFound for unknown code, got %v", err)
	}
}

func TestSendMessage_PromptCarriesStudentContext(t *testing.T) {
	db := openTestDB(t)
	prov := &recordingProvider{}
	svc, usersSvc := newTestService(t, db, prov, nil)
	student := registerStudent(t, usersSvc, "a@x.com")

	if _, err := svc.SendMessage(context.Background(), studentClaims(student), "what should I revise?", "", ""); err != nil {
		t.Fatalf("send message: %v", err)
	}

	if len(prov.last) != 2 {
		t.Fatalf("expected system+user messages, got %d", len(prov.last))
	}
	sys := prov.last[0]
	if sys.Role != "system" {
		t.Fatalf("expected first provider message to be system, got %q", sys.Role)
	}
	if !strings.Contains(sys.Content, "Test Student") {
		t.Fatalf("system prompt missing student name:\n%s", sys.Content)
	}
	if !strings.Contains(sys.Content, "what should I revise?") {
		t.Fatalf("system prompt missing conversation transcript:\n%s", sys.Content)
	}
	if prov.last[1].Role != "user" || prov.last[1].Content != "what should I revise?" {
		t.Fatalf("unexpected user provider message: %+v", prov.last[1])
	}
}

func TestEnqueueAndCompleteJob(t *testing.T) {
	db := openTestDB(t)
	prov := &recordingProvider{reply: "async reply"}
	svc, usersSvc := newTestService(t, db, prov, nil)
	student := registerStudent(t, usersSvc, "a@x.com")

	job, err := svc.EnqueueMessage(context.Background(), studentClaims(student), "Hello", "", "")
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if job.Status != JobQueued {
		t.Fatalf("expected queued job, got %q", job.Status)
	}

	if err := svc.CompleteJob(context.Background(), job.ID); err != nil {
		t.Fatalf("complete job: %v", err)
	}

	done, err := svc.GetJob(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	if done.Status != JobSucceeded {
		t.Fatalf("expected succeeded, got %q (err=%v)", done.Status, done.Error)
	}
	if done.ResultMessageID == nil || *done.ResultMessageID == "" {
		t.Fatalf("expected result message id to be set")
	}

	var msgs []Message
	if err := db.Where("owner_id = ?", student.ID).Order("id ASC").Find(&msgs).Error; err != nil {
		t.Fatalf("query messages: %v", err)
	}
	if len(msgs) != 2 || msgs[1].Content != "async reply" {
		t.Fatalf("expected persisted assistant reply, got %+v", msgs)
	}
}

func TestCompleteJob_ProviderFailureMarksFailed(t *testing.T) {
	db := openTestDB(t)
	prov := &recordingProvider{}
	svc, usersSvc := newTestService(t, db, prov, nil)
	student := registerStudent(t, usersSvc, "a@x.com")

	job, err := svc.EnqueueMessage(context.Background(), studentClaims(student), "Hello", "", "")
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	prov.err = errors.New("model overloaded")
	if err := svc.CompleteJob(context.Background(), job.ID); err == nil {
		t.Fatalf("expected complete to fail")
	}

	failed, err := svc.GetJob(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	if failed.Status != JobFailed || failed.Error == nil {
		t.Fatalf("expected failed job with error, got %+v", failed)
	}
}
