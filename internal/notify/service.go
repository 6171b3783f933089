package notify

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/knakam/dance-analyzer/internal/task"
)

// Service renders notification emails and hands them to the background
// queue so request handlers never wait on SMTP.
type Service struct {
	sender Sender
	queue  *task.Queue
	logger *zap.Logger
}

func NewService(sender Sender, queue *task.Queue, logger *zap.Logger) *Service {
	if sender == nil {
		panic("sender must not be nil")
	}
	if queue == nil {
		panic("queue must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{sender: sender, queue: queue, logger: logger.Named("notify")}
}

// WelcomeEmail queues the registration greeting. A full or closed queue
// drops the mail with a warning; signup never fails over a notification.
func (s *Service) WelcomeEmail(ctx context.Context, email, username string) {
	s.enqueue(ctx, "welcome-email", Message{
		To:      email,
		Subject: "ダンス上達アプリへようこそ！",
		Body: fmt.Sprintf("%sさん、登録ありがとうございます。\n\n"+
			"早速、練習セッションを始めてみましょう。", username),
	})
}

func (s *Service) AnalysisReport(ctx context.Context, email string, sessionID int64) {
	s.enqueue(ctx, "analysis-report", Message{
		To:      email,
		Subject: "練習セッションの分析レポート",
		Body: fmt.Sprintf("セッション #%d の分析が完了しました。\n\n"+
			"アプリでフィードバックを確認してください。", sessionID),
	})
}

func (s *Service) enqueue(ctx context.Context, name string, msg Message) {
	ok := s.queue.Enqueue(ctx, task.Job{
		Name: name,
		Run: func(ctx context.Context) error {
			return s.sender.Send(ctx, msg)
		},
	})
	if !ok {
		s.logger.Warn("notification dropped, queue unavailable",
			zap.String("job", name),
			zap.String("to", msg.To))
	}
}
