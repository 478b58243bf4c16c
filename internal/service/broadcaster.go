package service

// Broadcaster interface for WebSocket broadcasting (avoids import cycle)
type Broadcaster interface {
	BroadcastToQuiz(quizID string, msgType string, payload interface{})
}

// MsgTopMatches is sent to quiz subscribers after every scored submission
const MsgTopMatches = "top_matches_update"
