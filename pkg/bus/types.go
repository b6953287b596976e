package bus

// AttachmentKind names the media type the transport attached to a message.
type AttachmentKind string

const (
	AttachmentPhoto    AttachmentKind = "photo"
	AttachmentVoice    AttachmentKind = "voice"
	AttachmentAudio    AttachmentKind = "audio"
	AttachmentDocument AttachmentKind = "document"
	AttachmentSticker  AttachmentKind = "sticker"
)

// PhotoVariant is one resolution of an inbound photo. The transport
// delivers variants in ascending size order.
type PhotoVariant struct {
	FileID       string `json:"file_id"`
	FileUniqueID string `json:"file_unique_id"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
}

// Attachment describes the media part of an inbound message. Photos carry
// the full variant list; other kinds carry a single file ID.
type Attachment struct {
	Kind     AttachmentKind `json:"kind"`
	FileID   string         `json:"file_id,omitempty"`
	Variants []PhotoVariant `json:"variants,omitempty"`
}

// InboundMessage is one unit of input received from the transport. It is
// immutable once published and consumed by exactly one handler.
//
// HasText distinguishes "no text part" from an empty text part. Photo
// messages never populate Text; accompanying text arrives as Caption.
type InboundMessage struct {
	MessageID     int         `json:"message_id"`
	ChatID        int64       `json:"chat_id"`
	SenderID      int64       `json:"sender_id"`
	Username      string      `json:"username,omitempty"`
	Text          string      `json:"text,omitempty"`
	HasText       bool        `json:"has_text"`
	Caption       string      `json:"caption,omitempty"`
	Attachment    *Attachment `json:"attachment,omitempty"`
	CorrelationID string      `json:"correlation_id,omitempty"`
}
