package bot

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/miroshnikov-aleks/TG02/pkg/bus"
	"github.com/miroshnikov-aleks/TG02/pkg/logger"
	"github.com/miroshnikov-aleks/TG02/pkg/weather"
)

// Transport is the chat-platform surface the handlers consume. Connection
// management and polling cadence stay on the other side of it.
type Transport interface {
	SendText(ctx context.Context, chatID int64, text string) error
	SendVoice(ctx context.Context, chatID int64, path string) error
	OpenFile(ctx context.Context, fileID string) (io.ReadCloser, error)
}

// WeatherService fetches current weather for a city.
type WeatherService interface {
	CurrentByCity(ctx context.Context, city string) (weather.Report, error)
}

// Translator converts text into a target language.
type Translator interface {
	Translate(ctx context.Context, text, target string) (string, error)
}

// ImageStore archives photo bytes under a transport file ID.
type ImageStore interface {
	Save(fileID string, r io.Reader) (string, error)
}

// Options carries the fixed, read-only handler configuration.
type Options struct {
	City           string
	VoicePath      string
	TargetLanguage string
	WeatherTimeout time.Duration
}

// Dispatcher owns the classifier, handler set and adapter references. It
// consumes each inbound message exactly once and routes it to the single
// matching handler. Handler failures never escape the message that caused
// them.
type Dispatcher struct {
	bus        *bus.MessageBus
	transport  Transport
	classifier *Classifier
	weather    WeatherService
	translator Translator
	images     ImageStore
	opts       Options
	running    atomic.Bool
}

func NewDispatcher(
	msgBus *bus.MessageBus,
	transport Transport,
	classifier *Classifier,
	weatherSvc WeatherService,
	translator Translator,
	images ImageStore,
	opts Options,
) *Dispatcher {
	if opts.TargetLanguage == "" {
		opts.TargetLanguage = "en"
	}
	if opts.WeatherTimeout <= 0 {
		opts.WeatherTimeout = 10 * time.Second
	}
	return &Dispatcher{
		bus:        msgBus,
		transport:  transport,
		classifier: classifier,
		weather:    weatherSvc,
		translator: translator,
		images:     images,
		opts:       opts,
	}
}

// Run consumes inbound messages until ctx is cancelled. Each message is
// handled on its own goroutine so a slow upstream call never blocks the
// reception of the next message. Messages are attempted exactly once.
func (d *Dispatcher) Run(ctx context.Context) error {
	d.running.Store(true)
	logger.InfoC("dispatcher", "Dispatcher started")

	for d.running.Load() {
		msg, ok := d.bus.ConsumeInbound(ctx)
		if !ok {
			if ctx.Err() != nil {
				logger.InfoC("dispatcher", "Dispatcher stopped")
				return nil
			}
			continue
		}
		go d.dispatch(ctx, msg)
	}
	return nil
}

// Stop ends the consume loop after the current receive.
func (d *Dispatcher) Stop() {
	d.running.Store(false)
}

// dispatch classifies one message and runs its handler. The recover at
// this boundary is the isolation guarantee: a panicking handler affects
// only its own message.
func (d *Dispatcher) dispatch(ctx context.Context, msg bus.InboundMessage) {
	defer func() {
		if r := recover(); r != nil {
			logger.ErrorCF("dispatcher", "Handler panicked", map[string]interface{}{
				"panic":          fmt.Sprintf("%v", r),
				"chat_id":        msg.ChatID,
				"correlation_id": msg.CorrelationID,
			})
		}
	}()

	kind := d.classifier.Classify(msg)
	logger.DebugCF("dispatcher", "Message classified", map[string]interface{}{
		"kind":           kind.String(),
		"chat_id":        msg.ChatID,
		"correlation_id": msg.CorrelationID,
	})

	switch kind {
	case KindStart:
		d.handleStart(ctx, msg)
	case KindHelp:
		d.handleHelp(ctx, msg)
	case KindWeather:
		d.handleWeather(ctx, msg)
	case KindSendVoice:
		d.handleSendVoice(ctx, msg)
	case KindPhotoArchive:
		d.handlePhotoArchive(ctx, msg)
	case KindTranslate:
		d.handleTranslate(ctx, msg)
	case KindUnhandled:
		// Deliberate silent no-op, not an error.
		logger.DebugCF("dispatcher", "Message matched no handler", map[string]interface{}{
			"chat_id":        msg.ChatID,
			"correlation_id": msg.CorrelationID,
		})
	}
}

// reply sends the single outbound reply for a message. Send failures are
// terminal for this message only.
func (d *Dispatcher) reply(ctx context.Context, msg bus.InboundMessage, text string) {
	if err := d.transport.SendText(ctx, msg.ChatID, text); err != nil {
		logger.ErrorCF("dispatcher", "Failed to send reply", map[string]interface{}{
			"chat_id":        msg.ChatID,
			"error":          err.Error(),
			"correlation_id": msg.CorrelationID,
		})
	}
}
