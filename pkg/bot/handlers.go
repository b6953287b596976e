package bot

import (
	"context"
	"fmt"
	"os"

	"github.com/miroshnikov-aleks/TG02/pkg/bus"
	"github.com/miroshnikov-aleks/TG02/pkg/logger"
	"github.com/miroshnikov-aleks/TG02/pkg/utils"
	"github.com/miroshnikov-aleks/TG02/pkg/weather"
)

const (
	replyStart = "Привет! Я бот, который может предоставить прогноз погоды и перевести текст на английский. " +
		"Напиши /weather, чтобы получить прогноз, или отправь текст для перевода."
	replyHelp = "Я могу помочь тебе с прогнозом погоды и переводом текста.\n\n" +
		"Команды:\n" +
		"/start - Начать работу с ботом\n" +
		"/help - Получить справку\n" +
		"/weather - Получить прогноз погоды\n" +
		"/sendvoice - Отправить голосовое сообщение"
	replyPhotoSaved      = "Фото сохранено!"
	replyWeatherFailed   = "Не удалось получить данные о погоде. Попробуйте позже."
	replyVoiceFailed     = "Не удалось отправить голосовое сообщение. Попробуйте позже."
	replyPhotoFailed     = "Не удалось сохранить фото. Попробуйте позже."
	replyTranslateFailed = "Не удалось перевести текст. Попробуйте позже."
	translatePrefix      = "Перевод:\n"
)

func (d *Dispatcher) handleStart(ctx context.Context, msg bus.InboundMessage) {
	d.reply(ctx, msg, replyStart)
}

func (d *Dispatcher) handleHelp(ctx context.Context, msg bus.InboundMessage) {
	d.reply(ctx, msg, replyHelp)
}

// handleWeather fetches the configured city's current weather. The adapter
// call is bounded; any failure collapses into one generic reply.
func (d *Dispatcher) handleWeather(ctx context.Context, msg bus.InboundMessage) {
	fetchCtx, cancel := context.WithTimeout(ctx, d.opts.WeatherTimeout)
	defer cancel()

	report, err := d.weather.CurrentByCity(fetchCtx, d.opts.City)
	if err != nil {
		logger.ErrorCF("bot", "Failed to fetch weather", map[string]interface{}{
			"city":           d.opts.City,
			"error":          err.Error(),
			"correlation_id": msg.CorrelationID,
		})
		d.reply(ctx, msg, replyWeatherFailed)
		return
	}

	description := weather.CapitalizeFirst(weather.Localize(report.Description))
	d.reply(ctx, msg, fmt.Sprintf(
		"Погода в %sе:\nТемпература: %g°C\nОписание: %s",
		d.opts.City, report.Temperature, description,
	))
}

// handleSendVoice streams the configured local audio resource. A missing
// file is the same terminal outcome as a send failure.
func (d *Dispatcher) handleSendVoice(ctx context.Context, msg bus.InboundMessage) {
	if _, err := os.Stat(d.opts.VoicePath); err != nil {
		logger.ErrorCF("bot", "Voice file is not available", map[string]interface{}{
			"path":           d.opts.VoicePath,
			"error":          err.Error(),
			"correlation_id": msg.CorrelationID,
		})
		d.reply(ctx, msg, replyVoiceFailed)
		return
	}

	if err := d.transport.SendVoice(ctx, msg.ChatID, d.opts.VoicePath); err != nil {
		logger.ErrorCF("bot", "Failed to send voice message", map[string]interface{}{
			"path":           d.opts.VoicePath,
			"error":          err.Error(),
			"correlation_id": msg.CorrelationID,
		})
		d.reply(ctx, msg, replyVoiceFailed)
		return
	}
	logger.InfoCF("bot", "Voice message sent", map[string]interface{}{
		"chat_id": msg.ChatID,
	})
}

// handlePhotoArchive saves the highest-resolution variant of an inbound
// photo under its transport file ID.
func (d *Dispatcher) handlePhotoArchive(ctx context.Context, msg bus.InboundMessage) {
	variants := msg.Attachment.Variants
	if len(variants) == 0 {
		logger.ErrorCF("bot", "Photo attachment without variants", map[string]interface{}{
			"correlation_id": msg.CorrelationID,
		})
		d.reply(ctx, msg, replyPhotoFailed)
		return
	}
	variant := variants[len(variants)-1]

	body, err := d.transport.OpenFile(ctx, variant.FileID)
	if err != nil {
		logger.ErrorCF("bot", "Failed to download photo", map[string]interface{}{
			"file_id":        variant.FileID,
			"error":          err.Error(),
			"correlation_id": msg.CorrelationID,
		})
		d.reply(ctx, msg, replyPhotoFailed)
		return
	}
	defer body.Close()

	path, err := d.images.Save(variant.FileID, body)
	if err != nil {
		logger.ErrorCF("bot", "Failed to store photo", map[string]interface{}{
			"file_id":        variant.FileID,
			"error":          err.Error(),
			"correlation_id": msg.CorrelationID,
		})
		d.reply(ctx, msg, replyPhotoFailed)
		return
	}

	logger.InfoCF("bot", "Photo stored", map[string]interface{}{
		"file_id": variant.FileID,
		"path":    path,
	})
	d.reply(ctx, msg, replyPhotoSaved)
}

// handleTranslate translates the message text into the target language.
func (d *Dispatcher) handleTranslate(ctx context.Context, msg bus.InboundMessage) {
	translated, err := d.translator.Translate(ctx, msg.Text, d.opts.TargetLanguage)
	if err != nil {
		logger.ErrorCF("bot", "Failed to translate text", map[string]interface{}{
			"error":          err.Error(),
			"correlation_id": msg.CorrelationID,
			"preview":        utils.Truncate(msg.Text, 50),
		})
		d.reply(ctx, msg, replyTranslateFailed)
		return
	}
	d.reply(ctx, msg, translatePrefix+translated)
}
