package channels

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/google/uuid"
	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"github.com/miroshnikov-aleks/TG02/pkg/bus"
	"github.com/miroshnikov-aleks/TG02/pkg/config"
	"github.com/miroshnikov-aleks/TG02/pkg/logger"
	"github.com/miroshnikov-aleks/TG02/pkg/utils"
)

const pollTimeoutSeconds = 30

// TelegramChannel owns the long-polling connection to the chat platform.
// Inbound updates are converted into bus messages; the dispatcher talks
// back through SendText, SendVoice and OpenFile.
type TelegramChannel struct {
	bot      *telego.Bot
	bus      *bus.MessageBus
	fileHTTP *http.Client
}

func NewTelegramChannel(cfg config.TelegramConfig, msgBus *bus.MessageBus) (*TelegramChannel, error) {
	bot, err := telego.NewBot(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	return &TelegramChannel{
		bot:      bot,
		bus:      msgBus,
		fileHTTP: &http.Client{},
	}, nil
}

// BotUsername reports the authenticated bot's username, used by the
// classifier to accept name-suffixed command tokens.
func (c *TelegramChannel) BotUsername() string {
	return c.bot.Username()
}

// Start begins long polling and feeds the bus until ctx is cancelled.
func (c *TelegramChannel) Start(ctx context.Context) error {
	logger.InfoC("telegram", "Starting Telegram bot (polling mode)...")

	updates, err := c.bot.UpdatesViaLongPolling(ctx, &telego.GetUpdatesParams{
		Timeout: pollTimeoutSeconds,
	})
	if err != nil {
		return fmt.Errorf("start long polling: %w", err)
	}

	logger.InfoCF("telegram", "Telegram bot connected", map[string]interface{}{
		"username": c.bot.Username(),
	})

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case update, ok := <-updates:
				if !ok {
					logger.InfoC("telegram", "Updates channel closed")
					return
				}
				if update.Message != nil {
					c.handleUpdate(ctx, update.Message)
				}
			}
		}
	}()

	return nil
}

func (c *TelegramChannel) handleUpdate(ctx context.Context, message *telego.Message) {
	if message.From == nil {
		return
	}

	msg := bus.InboundMessage{
		MessageID:     message.MessageID,
		ChatID:        message.Chat.ID,
		SenderID:      message.From.ID,
		Username:      message.From.Username,
		Caption:       message.Caption,
		CorrelationID: uuid.NewString(),
	}
	if message.Text != "" {
		msg.Text = message.Text
		msg.HasText = true
	}
	msg.Attachment = attachmentFromMessage(message)

	logger.DebugCF("telegram", "Received message", map[string]interface{}{
		"chat_id":        msg.ChatID,
		"sender_id":      msg.SenderID,
		"correlation_id": msg.CorrelationID,
		"preview":        utils.Truncate(msg.Text, 50),
	})

	if err := c.bot.SendChatAction(ctx, tu.ChatAction(tu.ID(msg.ChatID), telego.ChatActionTyping)); err != nil {
		logger.DebugCF("telegram", "Failed to send chat action", map[string]interface{}{
			"error": err.Error(),
		})
	}

	c.bus.PublishInbound(msg)
}

func attachmentFromMessage(message *telego.Message) *bus.Attachment {
	switch {
	case len(message.Photo) > 0:
		variants := make([]bus.PhotoVariant, 0, len(message.Photo))
		for _, p := range message.Photo {
			variants = append(variants, bus.PhotoVariant{
				FileID:       p.FileID,
				FileUniqueID: p.FileUniqueID,
				Width:        p.Width,
				Height:       p.Height,
			})
		}
		return &bus.Attachment{Kind: bus.AttachmentPhoto, Variants: variants}
	case message.Voice != nil:
		return &bus.Attachment{Kind: bus.AttachmentVoice, FileID: message.Voice.FileID}
	case message.Audio != nil:
		return &bus.Attachment{Kind: bus.AttachmentAudio, FileID: message.Audio.FileID}
	case message.Document != nil:
		return &bus.Attachment{Kind: bus.AttachmentDocument, FileID: message.Document.FileID}
	case message.Sticker != nil:
		return &bus.Attachment{Kind: bus.AttachmentSticker, FileID: message.Sticker.FileID}
	}
	return nil
}

// SendText delivers one plain text reply to a chat.
func (c *TelegramChannel) SendText(ctx context.Context, chatID int64, text string) error {
	_, err := c.bot.SendMessage(ctx, tu.Message(tu.ID(chatID), text))
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// SendVoice streams a local audio file to a chat as a voice message.
func (c *TelegramChannel) SendVoice(ctx context.Context, chatID int64, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open voice file: %w", err)
	}
	defer f.Close()

	if _, err := c.bot.SendVoice(ctx, tu.Voice(tu.ID(chatID), tu.File(f))); err != nil {
		return fmt.Errorf("send voice: %w", err)
	}
	return nil
}

// OpenFile resolves a download handle for a transport file ID and returns
// a stream of its bytes. The caller closes the stream.
func (c *TelegramChannel) OpenFile(ctx context.Context, fileID string) (io.ReadCloser, error) {
	file, err := c.bot.GetFile(ctx, &telego.GetFileParams{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("resolve file %s: %w", fileID, err)
	}
	if file.FilePath == "" {
		return nil, fmt.Errorf("file %s has no download path", fileID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.bot.FileDownloadURL(file.FilePath), nil)
	if err != nil {
		return nil, fmt.Errorf("build download request: %w", err)
	}
	resp, err := c.fileHTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file %s: %w", fileID, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("file download returned status %d", resp.StatusCode)
	}
	return resp.Body, nil
}
