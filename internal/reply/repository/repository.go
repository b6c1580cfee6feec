package repository

import replydomain "mailreply-backend/internal/reply/domain"

// ReplyRepository defines the interface for saved reply data access
type ReplyRepository interface {
	// Create stores a new saved reply, assigning ID and timestamps
	Create(reply *replydomain.SavedReply) error

	// FindByID finds a saved reply by its ID; returns nil, nil when absent
	FindByID(id string) (*replydomain.SavedReply, error)

	// FindByUserID returns the user's replies newest first, at most limit rows
	FindByUserID(userID string, limit int) ([]*replydomain.SavedReply, error)

	// Update persists changes to an existing reply
	Update(reply *replydomain.SavedReply) error

	// Delete deletes a saved reply by ID
	Delete(id string) error

	// CountByTone returns the number of saved replies per tone for a user
	CountByTone(userID string) (map[replydomain.Tone]int64, error)
}
