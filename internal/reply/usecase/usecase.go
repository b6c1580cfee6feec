package usecase

import (
	"context"

	replydomain "mailreply-backend/internal/reply/domain"
	replydto "mailreply-backend/internal/reply/dto"
)

// ReplyGenerator turns a received email and a tone into a reply draft
type ReplyGenerator interface {
	// Generate validates the input, makes exactly one provider call and returns the trimmed reply.
	// Every failure is a *replydomain.GenerationError.
	Generate(ctx context.Context, originalEmail string, tone replydomain.Tone) (string, error)
}

// HistoryUsecase defines the business logic for a user's saved replies
type HistoryUsecase interface {
	// SaveReply stores a generated reply for the user
	SaveReply(userID string, req *replydto.SaveReplyRequest) (*replydomain.SavedReply, error)

	// ListReplies returns the user's replies newest first; limit <= 0 uses the default
	ListReplies(userID string, limit int) ([]*replydomain.SavedReply, error)

	// GetReply retrieves a reply by ID (with ownership check)
	GetReply(userID, replyID string) (*replydomain.SavedReply, error)

	// UpdateReply edits the reply text and/or tone
	UpdateReply(userID, replyID string, req *replydto.UpdateReplyRequest) (*replydomain.SavedReply, error)

	// DeleteReply deletes a reply (with ownership check)
	DeleteReply(userID, replyID string) error

	// Stats counts the user's saved replies in total and per tone
	Stats(userID string) (*replydto.ReplyStats, error)
}
