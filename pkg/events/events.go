package events

import (
	"context"
	"time"
)

// VideosChannel carries every video lifecycle event.
const VideosChannel = "strmly:videos"

const TypeVideoUploaded = "video.uploaded"

type Event struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp int64       `json:"timestamp"`
}

// VideoUploaded is the payload of TypeVideoUploaded.
type VideoUploaded struct {
	VideoID    string `json:"videoId"`
	UploaderID string `json:"uploaderId"`
	Title      string `json:"title"`
	VideoURL   string `json:"videoUrl"`
	FileSize   int64  `json:"fileSize"`
}

func NewEvent(eventType string, payload interface{}, at time.Time) Event {
	return Event{Type: eventType, Payload: payload, Timestamp: at.UnixMilli()}
}

type Handler func(ctx context.Context, event Event) error

type Publisher interface {
	Publish(ctx context.Context, channel string, event Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, channel string, handler Handler) error
}

type Broker interface {
	Publisher
	Subscriber
}
