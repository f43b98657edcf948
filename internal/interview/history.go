package interview

// Speaker is who produced a turn.
type Speaker string

const (
	SpeakerUser      Speaker = "user"
	SpeakerAssistant Speaker = "assistant"
)

// Turn is one message of the conversation.
type Turn struct {
	Role    Speaker `json:"role"`
	Content string  `json:"content"`
}

// History is the ordered conversation. Callers only append to it.
type History []Turn

// Recent returns at most the last n turns.
func (h History) Recent(n int) History {
	if n <= 0 {
		return nil
	}
	if len(h) <= n {
		return h
	}
	return h[len(h)-n:]
}
