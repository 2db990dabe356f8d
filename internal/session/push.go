package session

import (
	"context"
	"errors"

	"github.com/metcalfc/digest/internal/reader"
)

// NoticeKind classifies the outcome of a push.
type NoticeKind int

const (
	NothingOpen NoticeKind = iota
	Pushed
	PushFailed
)

// Notice is the message shown to the user after a push.
type Notice struct {
	Kind NoticeKind
	Text string
}

func (n Notice) String() string {
	return n.Text
}

// Pusher sends a book or article to the user's device.
type Pusher interface {
	Push(ctx context.Context, req reader.PushRequest) error
}

var nothingOpen = Notice{Kind: NothingOpen, Text: "No article is open"}

// PushRequest builds the request for target (reader.PushBook or
// reader.PushArticle) from the cursor. It reports false when nothing is open.
func (s *Session) PushRequest(target string) (reader.PushRequest, bool) {
	if s.cursor.IsZero() {
		return reader.PushRequest{}, false
	}
	req := reader.PushRequest{
		Type:  target,
		Src:   s.cursor.Src,
		Title: s.cursor.Text,
	}
	if target == reader.PushArticle {
		req.Language = s.cat.FindArticleLanguage(s.cursor.Src)
	}
	return req, true
}

// Push sends the open book or article through p.
func (s *Session) Push(ctx context.Context, p Pusher, target string) Notice {
	req, ok := s.PushRequest(target)
	if !ok {
		return nothingOpen
	}
	return PushResult(req, p.Push(ctx, req))
}

// PushResult turns the outcome of a push into a notice.
func PushResult(req reader.PushRequest, err error) Notice {
	if err == nil {
		return Notice{Kind: Pushed, Text: "Pushed\n" + req.Title}
	}
	var se *reader.StatusError
	if errors.As(err, &se) {
		return Notice{Kind: PushFailed, Text: se.Status}
	}
	return Notice{Kind: PushFailed, Text: err.Error()}
}

// NothingOpenNotice is shown when a push is requested without an open article.
func NothingOpenNotice() Notice {
	return nothingOpen
}
