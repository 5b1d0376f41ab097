package panel

import "time"

// NoticeLevel is the severity of a transient notice.
type NoticeLevel int

const (
	NoticeInfo NoticeLevel = iota
	NoticeError
)

func (l NoticeLevel) String() string {
	if l == NoticeError {
		return "error"
	}
	return "info"
}

func (l NoticeLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// Notice is a short-lived message shown below the queue.
type Notice struct {
	ID        uint64      `json:"id"`
	Message   string      `json:"message"`
	Level     NoticeLevel `json:"level"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

// noticeBoard holds at most one visible notice; a new notice replaces the
// current one.
type noticeBoard struct {
	duration time.Duration
	seq      uint64
	current  *Notice
}

func newNoticeBoard(duration time.Duration) *noticeBoard {
	if duration <= 0 {
		duration = 3 * time.Second
	}
	return &noticeBoard{duration: duration}
}

func (b *noticeBoard) show(message string, level NoticeLevel, now time.Time) Notice {
	b.seq++
	n := Notice{ID: b.seq, Message: message, Level: level, ExpiresAt: now.Add(b.duration)}
	b.current = &n
	return n
}

// expire hides the notice with id if it is still the visible one.
func (b *noticeBoard) expire(id uint64) bool {
	if b.current == nil || b.current.ID != id {
		return false
	}
	b.current = nil
	return true
}

func (b *noticeBoard) visible(now time.Time) (Notice, bool) {
	if b.current == nil || !now.Before(b.current.ExpiresAt) {
		return Notice{}, false
	}
	return *b.current, true
}
