package dto

import replydomain "mailreply-backend/internal/reply/domain"

// GenerateReplyRequest carries no binding tags: missing fields are reported
// by the generator as validation errors with error_kind set.
type GenerateReplyRequest struct {
	OriginalEmail string `json:"originalEmail"`
	Tone          string `json:"tone"`
}

type GenerateReplyResponse struct {
	Reply string `json:"reply"`
}

type ErrorResponse struct {
	ErrorKind replydomain.ErrorKind `json:"error_kind"`
	Error     string                `json:"error"`
}

type SaveReplyRequest struct {
	OriginalEmail  string `json:"originalEmail" binding:"required"`
	GeneratedReply string `json:"generatedReply" binding:"required"`
	Tone           string `json:"tone" binding:"required"`
}

// UpdateReplyRequest represents the fields that can be updated
type UpdateReplyRequest struct {
	GeneratedReply *string `json:"generatedReply,omitempty"`
	Tone           *string `json:"tone,omitempty"`
}

type RepliesResponse struct {
	Replies []*replydomain.SavedReply `json:"replies"`
	Count   int                       `json:"count"`
}

type ReplyStats struct {
	Total  int64                      `json:"total"`
	ByTone map[replydomain.Tone]int64 `json:"by_tone"`
}

type ToneOption struct {
	Value replydomain.Tone `json:"value"`
	Label string           `json:"label"`
}
