package usecase

import (
	"fmt"
	"strings"

	replydomain "mailreply-backend/internal/reply/domain"
	replydto "mailreply-backend/internal/reply/dto"
	"mailreply-backend/internal/reply/repository"
	"mailreply-backend/pkg/metrics"
)

const maxHistoryLimit = 1000

// historyUsecase implements HistoryUsecase interface
type historyUsecase struct {
	replyRepo    repository.ReplyRepository
	defaultLimit int
}

// NewHistoryUsecase creates a new instance of historyUsecase
func NewHistoryUsecase(replyRepo repository.ReplyRepository, defaultLimit int) HistoryUsecase {
	if defaultLimit <= 0 {
		defaultLimit = 50
	}
	return &historyUsecase{
		replyRepo:    replyRepo,
		defaultLimit: defaultLimit,
	}
}

func (u *historyUsecase) SaveReply(userID string, req *replydto.SaveReplyRequest) (*replydomain.SavedReply, error) {
	tone := replydomain.Tone(req.Tone)
	if !tone.Valid() {
		return nil, fmt.Errorf("%w: unknown tone %q", replydomain.ErrInvalidReply, req.Tone)
	}
	if strings.TrimSpace(req.OriginalEmail) == "" || strings.TrimSpace(req.GeneratedReply) == "" {
		return nil, fmt.Errorf("%w: original email and generated reply are required", replydomain.ErrInvalidReply)
	}

	reply := &replydomain.SavedReply{
		UserID:         userID,
		OriginalEmail:  req.OriginalEmail,
		GeneratedReply: req.GeneratedReply,
		Tone:           tone,
	}
	if err := u.replyRepo.Create(reply); err != nil {
		return nil, err
	}

	metrics.IncrementHistoryOperation("save")
	return reply, nil
}

func (u *historyUsecase) ListReplies(userID string, limit int) ([]*replydomain.SavedReply, error) {
	if limit <= 0 {
		limit = u.defaultLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	return u.replyRepo.FindByUserID(userID, limit)
}

func (u *historyUsecase) GetReply(userID, replyID string) (*replydomain.SavedReply, error) {
	reply, err := u.replyRepo.FindByID(replyID)
	if err != nil {
		return nil, err
	}
	if reply == nil {
		return nil, replydomain.ErrReplyNotFound
	}
	if reply.UserID != userID {
		return nil, replydomain.ErrForbidden
	}
	return reply, nil
}

func (u *historyUsecase) UpdateReply(userID, replyID string, req *replydto.UpdateReplyRequest) (*replydomain.SavedReply, error) {
	reply, err := u.GetReply(userID, replyID)
	if err != nil {
		return nil, err
	}

	if req.GeneratedReply != nil {
		if strings.TrimSpace(*req.GeneratedReply) == "" {
			return nil, fmt.Errorf("%w: generated reply cannot be empty", replydomain.ErrInvalidReply)
		}
		reply.GeneratedReply = *req.GeneratedReply
	}
	if req.Tone != nil {
		tone := replydomain.Tone(*req.Tone)
		if !tone.Valid() {
			return nil, fmt.Errorf("%w: unknown tone %q", replydomain.ErrInvalidReply, *req.Tone)
		}
		reply.Tone = tone
	}

	if err := u.replyRepo.Update(reply); err != nil {
		return nil, err
	}

	metrics.IncrementHistoryOperation("update")
	return reply, nil
}

func (u *historyUsecase) DeleteReply(userID, replyID string) error {
	reply, err := u.GetReply(userID, replyID)
	if err != nil {
		return err
	}
	if err := u.replyRepo.Delete(reply.ID); err != nil {
		return err
	}

	metrics.IncrementHistoryOperation("delete")
	return nil
}

func (u *historyUsecase) Stats(userID string) (*replydto.ReplyStats, error) {
	counts, err := u.replyRepo.CountByTone(userID)
	if err != nil {
		return nil, err
	}

	stats := &replydto.ReplyStats{ByTone: make(map[replydomain.Tone]int64, len(replydomain.Tones))}
	for _, tone := range replydomain.Tones {
		stats.ByTone[tone] = counts[tone]
		stats.Total += counts[tone]
	}
	return stats, nil
}
