package bot

import (
	"strings"

	"github.com/miroshnikov-aleks/TG02/pkg/bus"
)

// Kind is the classification outcome for one inbound message. Exactly one
// handler is bound to each kind; KindUnhandled produces no reply.
type Kind int

const (
	KindUnhandled Kind = iota
	KindStart
	KindHelp
	KindWeather
	KindSendVoice
	KindPhotoArchive
	KindTranslate
)

var kindNames = map[Kind]string{
	KindUnhandled:    "unhandled",
	KindStart:        "start",
	KindHelp:         "help",
	KindWeather:      "weather",
	KindSendVoice:    "sendvoice",
	KindPhotoArchive: "photo_archive",
	KindTranslate:    "translate",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

const commandMarker = "/"

// Classifier maps an inbound message to a handler kind. It is a pure,
// total function of the message's fields: every shape yields exactly one
// kind, checked in a fixed priority order.
type Classifier struct {
	botUsername string
}

// NewClassifier builds a classifier. When botUsername is non-empty,
// command tokens suffixed with "@<botUsername>" are recognized too, per
// the platform's group-chat convention.
func NewClassifier(botUsername string) *Classifier {
	return &Classifier{botUsername: botUsername}
}

// Classify applies the rules in priority order: recognized command, photo
// attachment, plain text, silent drop. The attachment check does not
// require text absence.
func (c *Classifier) Classify(msg bus.InboundMessage) Kind {
	if msg.HasText {
		if kind, ok := c.command(msg.Text); ok {
			return kind
		}
	}
	if msg.Attachment != nil && msg.Attachment.Kind == bus.AttachmentPhoto {
		return KindPhotoArchive
	}
	if msg.HasText && !strings.HasPrefix(msg.Text, commandMarker) {
		return KindTranslate
	}
	return KindUnhandled
}

func (c *Classifier) command(text string) (Kind, bool) {
	token := text
	if c.botUsername != "" {
		token = strings.TrimSuffix(token, "@"+c.botUsername)
	}
	switch token {
	case "/start":
		return KindStart, true
	case "/help":
		return KindHelp, true
	case "/weather":
		return KindWeather, true
	case "/sendvoice":
		return KindSendVoice, true
	}
	return KindUnhandled, false
}
