package notifyclient

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"
)

// Notification is a notification as served by the storefront API.
type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Read      bool      `json:"read"`
	OrderID   *string   `json:"order_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Snapshot is the authoritative state fetched after every reconnect.
type Snapshot struct {
	Items       []Notification `json:"items"`
	UnreadCount int64          `json:"unread_count"`
}

type connectedPayload struct {
	UserID      int64 `json:"user_id"`
	UnreadCount int64 `json:"unread_count"`
}

type unreadPayload struct {
	UnreadCount int64 `json:"unread_count"`
}

type event struct {
	Name  string
	ID    string
	Data  string
	Retry time.Duration
}

// eventReader decodes a text/event-stream body one event at a time.
type eventReader struct {
	r *bufio.Reader
}

func newEventReader(r io.Reader) *eventReader {
	return &eventReader{r: bufio.NewReader(r)}
}

// Next blocks until a complete event is read. Comment lines and blocks
// without data or name are skipped.
func (er *eventReader) Next() (event, error) {
	var (
		ev   event
		data []string
	)
	for {
		line, err := er.r.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) && line == "" {
				return event{}, io.ErrUnexpectedEOF
			}
			if !errors.Is(err, io.EOF) {
				return event{}, err
			}
		}
		line = strings.TrimRight(line, "\r\n")

		if line == "" {
			if ev.Name == "" && len(data) == 0 {
				if err != nil {
					return event{}, io.ErrUnexpectedEOF
				}
				continue
			}
			ev.Data = strings.Join(data, "\n")
			if ev.Name == "" {
				ev.Name = "message"
			}
			return ev, nil
		}
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")
		switch field {
		case "event":
			ev.Name = value
		case "id":
			ev.ID = value
		case "data":
			data = append(data, value)
		case "retry":
			if ms, convErr := strconv.Atoi(value); convErr == nil && ms > 0 {
				ev.Retry = time.Duration(ms) * time.Millisecond
			}
		}

		if err != nil {
			return event{}, io.ErrUnexpectedEOF
		}
	}
}
