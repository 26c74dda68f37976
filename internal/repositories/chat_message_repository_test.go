package repositories

import (
	"context"
	"testing"
	"time"

	"finance-tracker/internal/database"
	"finance-tracker/internal/models"

	"github.com/stretchr/testify/suite"
)

func TestChatMessageRepository(t *testing.T) {
	suite.Run(t, new(ChatMessageRepositorySuite))
}

type ChatMessageRepositorySuite struct {
	suite.Suite
	db    *database.DB
	repo  ChatMessageRepositoryInterface
	ctx   context.Context
	user  *models.User
	other *models.User
}

func (s *ChatMessageRepositorySuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.repo = NewChatMessageRepository(s.db.DB)
	s.ctx = context.Background()
	s.user = database.CreateTestUser(s.T(), s.db, "chat@example.com")
	s.other = database.CreateTestUser(s.T(), s.db, "other-chat@example.com")
}

func (s *ChatMessageRepositorySuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func (s *ChatMessageRepositorySuite) exchange(at time.Time, question, reply string) {
	err := s.repo.Create(s.ctx,
		&models.ChatMessage{UserID: s.user.ID, Role: models.ChatRoleUser, Content: question, CreatedAt: at},
		&models.ChatMessage{UserID: s.user.ID, Role: models.ChatRoleAssistant, Content: reply, Intent: "balance", CreatedAt: at.Add(time.Millisecond)},
	)
	s.Require().NoError(err)
}

func (s *ChatMessageRepositorySuite) TestListByUser_Chronological() {
	base := time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)
	s.exchange(base, "qual meu saldo", "Seu saldo atual é R$ 10.00.")
	s.exchange(base.Add(time.Minute), "e agora?", "Seu saldo atual é R$ 20.00.")

	s.Require().NoError(s.repo.Create(s.ctx, &models.ChatMessage{UserID: s.other.ID, Role: models.ChatRoleUser, Content: "oi"}))

	messages, err := s.repo.ListByUser(s.ctx, s.user.ID, 0)
	s.NoError(err)
	s.Require().Len(messages, 4)
	s.Equal("qual meu saldo", messages[0].Content)
	s.Equal(models.ChatRoleAssistant, messages[1].Role)
	s.Equal("Seu saldo atual é R$ 20.00.", messages[3].Content)

	latest, err := s.repo.ListByUser(s.ctx, s.user.ID, 2)
	s.NoError(err)
	s.Require().Len(latest, 2)
	s.Equal("e agora?", latest[0].Content)
	s.Equal("Seu saldo atual é R$ 20.00.", latest[1].Content)
}

func (s *ChatMessageRepositorySuite) TestCreate_NoMessages() {
	s.NoError(s.repo.Create(s.ctx))
}

func (s *ChatMessageRepositorySuite) TestDeleteByUser() {
	s.exchange(time.Now().UTC(), "saldo", "Seu saldo atual é R$ 0.00.")
	s.Require().NoError(s.repo.Create(s.ctx, &models.ChatMessage{UserID: s.other.ID, Role: models.ChatRoleUser, Content: "oi"}))

	deleted, err := s.repo.DeleteByUser(s.ctx, s.user.ID)
	s.NoError(err)
	s.Equal(int64(2), deleted)

	messages, err := s.repo.ListByUser(s.ctx, s.user.ID, 0)
	s.NoError(err)
	s.Empty(messages)

	remaining, err := s.repo.ListByUser(s.ctx, s.other.ID, 0)
	s.NoError(err)
	s.Len(remaining, 1)
}
