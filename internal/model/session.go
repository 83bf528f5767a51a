package model

const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashMessage = "message" // default category, used when none is given
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// Session is the per-client state carried in the signed session cookie.
type Session struct {
	Authenticated bool    `json:"authenticated"`
	Username      string  `json:"username"`
	Flashes       []Flash `json:"flashes,omitempty"`
}

// Start marks the session as logged in for username.
func (s *Session) Start(username string) {
	s.Authenticated = true
	s.Username = username
}

// End logs the session out. Pending flashes survive so the next page can show them.
func (s *Session) End() {
	s.Authenticated = false
	s.Username = ""
}

func (s *Session) IsAuthenticated() bool {
	return s != nil && s.Authenticated
}

// AddFlash queues a message; an empty category falls back to FlashMessage.
func (s *Session) AddFlash(category, message string) {
	if category == "" {
		category = FlashMessage
	}
	s.Flashes = append(s.Flashes, Flash{Category: category, Message: message})
}

// PopFlashes returns the queued messages and clears them.
func (s *Session) PopFlashes() []Flash {
	flashes := s.Flashes
	s.Flashes = nil
	return flashes
}
