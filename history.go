package askpage

// History is the conversation buffer of one assistant.
// It has a single writer and is shared by pointer between the components
// that read and extend it. It grows for the lifetime of the assistant.
type History struct {
	messages []Message
}

// NewHistory returns an empty History.
func NewHistory() *History {
	return &History{}
}

// Append adds messages to the end of the conversation.
func (h *History) Append(msgs ...Message) {
	h.messages = append(h.messages, msgs...)
}

// Messages returns a copy of the conversation in order.
func (h *History) Messages() []Message {
	out := make([]Message, len(h.messages))
	copy(out, h.messages)
	return out
}

// Len returns the number of messages.
func (h *History) Len() int {
	return len(h.messages)
}
