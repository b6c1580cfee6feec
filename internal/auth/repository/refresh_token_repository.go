package repository

import (
	"time"

	authdomain "mailreply-backend/internal/auth/domain"

	"gorm.io/gorm"
)

func (r *userRepository) FindRefreshToken(token string) (*authdomain.RefreshToken, error) {
	return findOne[authdomain.RefreshToken](r.db, "token = ?", token)
}

// IssueRefreshToken keeps the user's other live sessions so each device stays signed in
func (r *userRepository) IssueRefreshToken(token *authdomain.RefreshToken) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := purgeExpired(tx, token.UserID, r.now()); err != nil {
			return err
		}
		return tx.Create(token).Error
	})
}

func (r *userRepository) RotateRefreshToken(old string, next *authdomain.RefreshToken) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		now := r.now()

		// the conditional delete is the claim: of two concurrent rotations only one removes the row
		claimed := tx.Where("token = ? AND user_id = ? AND expires_at > ?", old, next.UserID, now).
			Delete(&authdomain.RefreshToken{})
		if claimed.Error != nil {
			return claimed.Error
		}
		if claimed.RowsAffected == 0 {
			return authdomain.ErrRefreshTokenExpired
		}

		if err := purgeExpired(tx, next.UserID, now); err != nil {
			return err
		}
		return tx.Create(next).Error
	})
}

func (r *userRepository) RevokeRefreshToken(token string) error {
	return r.db.Where("token = ?", token).Delete(&authdomain.RefreshToken{}).Error
}

func (r *userRepository) RevokeUserSessions(userID string) error {
	return r.db.Where("user_id = ?", userID).Delete(&authdomain.RefreshToken{}).Error
}

func (r *userRepository) DeleteExpiredRefreshTokens(before time.Time) (int64, error) {
	result := r.db.Where("expires_at < ?", before).Delete(&authdomain.RefreshToken{})
	return result.RowsAffected, result.Error
}

func purgeExpired(tx *gorm.DB, userID string, now time.Time) error {
	return tx.Where("user_id = ? AND expires_at < ?", userID, now).Delete(&authdomain.RefreshToken{}).Error
}
