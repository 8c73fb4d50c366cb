package domain

// Message is one entry of a chat session log (user, assistant or error).
type Message struct {
	ID        MessageID
	SessionID SessionID
	Role      Role
	Text      string
	CreatedAt Timestamp

	// Cosmetic attribution attached to assistant and error messages.
	Sources   []string
	FollowUps []string

	// Rating is the only field mutated after creation.
	Rating Rating
}

// Clone returns a copy that shares no slices with m.
func (m *Message) Clone() *Message {
	if m == nil {
		return nil
	}
	c := *m
	c.Sources = append([]string(nil), m.Sources...)
	c.FollowUps = append([]string(nil), m.FollowUps...)
	return &c
}

// ExtractedContent is text recovered from an uploaded image, folded into
// every later prompt of the session.
type ExtractedContent struct {
	Text         string
	DocumentType string
}

// Upload describes a file attached to a chat session or sent for analysis.
// Data is only populated on the way to a collaborator.
type Upload struct {
	Name        string
	ContentType string
	Size        int64
	Data        []byte
}
