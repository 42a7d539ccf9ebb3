package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Shreyasms28/InvoiceAnalytics/internal/application/port"
	"github.com/Shreyasms28/InvoiceAnalytics/internal/domain/entity"
)

// ErrEmptyQuery is returned when a chat question is blank
var ErrEmptyQuery = errors.New("query is required")

// ChatService answers natural-language questions about the invoice data
type ChatService interface {
	Ask(ctx context.Context, query string) (*entity.ChatAnswer, error)
}

type chatServiceImpl struct {
	answerer port.QueryAnswerer
	logger   Logger
}

// NewChatService creates a new ChatService
func NewChatService(answerer port.QueryAnswerer, logger Logger) ChatService {
	return &chatServiceImpl{
		answerer: answerer,
		logger:   logger,
	}
}

// Ask forwards a question to the query service. Upstream failures are
// returned unchanged so callers can map them with errors.Is / errors.As.
func (s *chatServiceImpl) Ask(ctx context.Context, query string) (*entity.ChatAnswer, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	answer, err := s.answerer.Answer(ctx, query)
	if err != nil {
		var upstream *port.UpstreamError
		switch {
		case errors.As(err, &upstream):
			s.logger.Error("Query service rejected question", "status", upstream.StatusCode, "message", upstream.Message)
		case errors.Is(err, port.ErrUpstreamUnavailable):
			s.logger.Error("Query service unavailable", "error", err)
		default:
			s.logger.Error("Query service call failed", "error", err)
		}
		return nil, err
	}

	s.logger.Info("Question answered", "query_length", len(query), "rows", len(answer.Rows))
	return answer, nil
}
