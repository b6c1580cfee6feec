package repository

import (
	"errors"
	"time"

	replydomain "mailreply-backend/internal/reply/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormReplyRepository implements ReplyRepository using GORM
type gormReplyRepository struct {
	db *gorm.DB
}

// NewGormReplyRepository creates a new GORM-based ReplyRepository
func NewGormReplyRepository(db *gorm.DB) ReplyRepository {
	return &gormReplyRepository{db: db}
}

func (r *gormReplyRepository) Create(reply *replydomain.SavedReply) error {
	if reply.ID == "" {
		reply.ID = uuid.New().String()
	}
	now := time.Now()
	reply.CreatedAt = now
	reply.UpdatedAt = now
	return r.db.Create(reply).Error
}

func (r *gormReplyRepository) FindByID(id string) (*replydomain.SavedReply, error) {
	var reply replydomain.SavedReply
	err := r.db.Where("id = ?", id).First(&reply).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reply, nil
}

func (r *gormReplyRepository) FindByUserID(userID string, limit int) ([]*replydomain.SavedReply, error) {
	replies := []*replydomain.SavedReply{}
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&replies).Error
	return replies, err
}

func (r *gormReplyRepository) Update(reply *replydomain.SavedReply) error {
	reply.UpdatedAt = time.Now()
	return r.db.Save(reply).Error
}

func (r *gormReplyRepository) Delete(id string) error {
	return r.db.Delete(&replydomain.SavedReply{}, "id = ?", id).Error
}

func (r *gormReplyRepository) CountByTone(userID string) (map[replydomain.Tone]int64, error) {
	var rows []struct {
		Tone  replydomain.Tone
		Count int64
	}
	err := r.db.Model(&replydomain.SavedReply{}).
		Select("tone, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("tone").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[replydomain.Tone]int64, len(rows))
	for _, row := range rows {
		counts[row.Tone] = row.Count
	}
	return counts, nil
}
