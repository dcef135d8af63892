package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/taskmesh/taskmesh/internal/metrics"
	"github.com/taskmesh/taskmesh/internal/model"
	"github.com/taskmesh/taskmesh/internal/store"
)

const commentsResource = "comments"

// CommentService handles comment business logic.
type CommentService struct {
	store   *store.Memory[model.Comment]
	metrics metrics.Recorder
}

// NewCommentService creates a new CommentService backed by s.
func NewCommentService(s *store.Memory[model.Comment], recorder metrics.Recorder) *CommentService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &CommentService{
		store:   s,
		metrics: recorder,
	}
}

// CreateCommentInput defines input for creating a comment.
type CreateCommentInput struct {
	Text   string
	TaskID string
	UserID string
}

// ListByTask returns the comments attached to taskID, oldest first.
// A task without comments, or an unknown task, yields an empty slice.
func (s *CommentService) ListByTask(ctx context.Context, taskID string) []model.Comment {
	return s.store.Filter(func(c model.Comment) bool {
		return c.TaskID == taskID
	})
}

// CreateComment validates input and appends a new comment.
func (s *CommentService) CreateComment(ctx context.Context, input CreateCommentInput) (*model.Comment, error) {
	text := strings.TrimSpace(input.Text)
	taskID := strings.TrimSpace(input.TaskID)

	if err := requireField("text", text); err != nil {
		return nil, err
	}
	if err := requireField("taskId", taskID); err != nil {
		return nil, err
	}

	comment := model.Comment{
		ID:     uuid.NewString(),
		Text:   text,
		TaskID: taskID,
		UserID: strings.TrimSpace(input.UserID),
	}
	s.store.Append(comment)
	s.metrics.IncRecordCreated(commentsResource)

	return &comment, nil
}

// ClearComments drops every comment. It always succeeds.
func (s *CommentService) ClearComments(ctx context.Context) int {
	n := s.store.Clear()
	s.metrics.IncStoreCleared(commentsResource)
	return n
}
