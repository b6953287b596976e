package bot

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/miroshnikov-aleks/TG02/pkg/bus"
	"github.com/miroshnikov-aleks/TG02/pkg/weather"
)

type fakeTransport struct {
	mu      sync.Mutex
	texts   []string
	voices  []string
	sendErr error
	fileErr error
	file    []byte
	sent    chan string
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{file: []byte("jpeg-bytes"), sent: make(chan string, 16)}
}

func (f *fakeTransport) SendText(_ context.Context, _ int64, text string) error {
	f.mu.Lock()
	f.texts = append(f.texts, text)
	f.mu.Unlock()
	f.sent <- text
	return f.sendErr
}

func (f *fakeTransport) SendVoice(_ context.Context, _ int64, path string) error {
	f.mu.Lock()
	f.voices = append(f.voices, path)
	f.mu.Unlock()
	return f.sendErr
}

func (f *fakeTransport) OpenFile(_ context.Context, _ string) (io.ReadCloser, error) {
	if f.fileErr != nil {
		return nil, f.fileErr
	}
	return io.NopCloser(bytes.NewReader(f.file)), nil
}

func (f *fakeTransport) lastText(t *testing.T) string {
	t.Helper()
	select {
	case text := <-f.sent:
		return text
	case <-time.After(2 * time.Second):
		t.Fatalf("no reply sent")
		return ""
	}
}

type fakeWeather struct {
	report weather.Report
	err    error
	panics bool
}

func (f *fakeWeather) CurrentByCity(context.Context, string) (weather.Report, error) {
	if f.panics {
		panic("weather adapter exploded")
	}
	return f.report, f.err
}

type fakeTranslator struct {
	out string
	err error
}

func (f *fakeTranslator) Translate(_ context.Context, _, _ string) (string, error) {
	return f.out, f.err
}

type fakeImages struct {
	mu    sync.Mutex
	saved map[string][]byte
	err   error
}

func newFakeImages() *fakeImages {
	return &fakeImages{saved: map[string][]byte{}}
}

func (f *fakeImages) Save(fileID string, r io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	f.saved[fileID] = data
	f.mu.Unlock()
	return "img/" + fileID + ".jpg", nil
}

type testEnv struct {
	dispatcher *Dispatcher
	transport  *fakeTransport
	weather    *fakeWeather
	translator *fakeTranslator
	images     *fakeImages
	bus        *bus.MessageBus
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		transport:  newFakeTransport(),
		weather:    &fakeWeather{report: weather.Report{Temperature: 20.5, Description: "clear sky"}},
		translator: &fakeTranslator{out: "Hello"},
		images:     newFakeImages(),
		bus:        bus.NewMessageBus(),
	}
	env.dispatcher = NewDispatcher(
		env.bus,
		env.transport,
		NewClassifier("TG02Bot"),
		env.weather,
		env.translator,
		env.images,
		Options{City: "Брянск", VoicePath: "testdata/absent.ogg"},
	)
	return env
}

func TestDispatchWeatherReply(t *testing.T) {
	env := newTestEnv(t)
	env.dispatcher.dispatch(context.Background(), textMsg("/weather"))

	reply := env.transport.lastText(t)
	if !strings.Contains(reply, "20.5") {
		t.Errorf("weather reply missing temperature: %q", reply)
	}
	if !strings.Contains(reply, "Ясное небо") {
		t.Errorf("weather reply missing capitalized localized description: %q", reply)
	}
}

func TestDispatchWeatherFailure(t *testing.T) {
	env := newTestEnv(t)
	env.weather.err = errors.New("upstream 503")

	env.dispatcher.dispatch(context.Background(), textMsg("/weather"))

	if reply := env.transport.lastText(t); reply != replyWeatherFailed {
		t.Errorf("expected generic weather failure reply, got %q", reply)
	}
}

func TestDispatchTranslate(t *testing.T) {
	env := newTestEnv(t)
	env.dispatcher.dispatch(context.Background(), textMsg("Привет"))

	if reply := env.transport.lastText(t); reply != translatePrefix+"Hello" {
		t.Errorf("unexpected translate reply: %q", reply)
	}

	env.translator.err = errors.New("provider down")
	env.dispatcher.dispatch(context.Background(), textMsg("Привет"))
	if reply := env.transport.lastText(t); reply != replyTranslateFailed {
		t.Errorf("expected generic translate failure reply, got %q", reply)
	}
}

func TestDispatchPhotoArchive(t *testing.T) {
	env := newTestEnv(t)
	env.dispatcher.dispatch(context.Background(), photoMsg(""))

	if reply := env.transport.lastText(t); reply != replyPhotoSaved {
		t.Errorf("unexpected photo reply: %q", reply)
	}
	// Highest-resolution variant is the last one.
	if _, ok := env.images.saved["big"]; !ok {
		t.Errorf("expected highest-resolution variant saved, have %v", env.images.saved)
	}
	if _, ok := env.images.saved["small"]; ok {
		t.Errorf("low-resolution variant should not be saved")
	}
}

func TestDispatchPhotoDownloadFailure(t *testing.T) {
	env := newTestEnv(t)
	env.transport.fileErr = errors.New("resolve failed")

	env.dispatcher.dispatch(context.Background(), photoMsg(""))

	if reply := env.transport.lastText(t); reply != replyPhotoFailed {
		t.Errorf("expected generic photo failure reply, got %q", reply)
	}
}

func TestDispatchVoiceMissingFile(t *testing.T) {
	env := newTestEnv(t)
	env.dispatcher.dispatch(context.Background(), textMsg("/sendvoice"))

	if reply := env.transport.lastText(t); reply != replyVoiceFailed {
		t.Errorf("expected generic voice failure reply, got %q", reply)
	}
	if len(env.transport.voices) != 0 {
		t.Errorf("voice should not be sent when the file is missing")
	}
}

func TestDispatchVoiceSends(t *testing.T) {
	env := newTestEnv(t)
	voicePath := filepath.Join(t.TempDir(), "voice.ogg")
	if err := os.WriteFile(voicePath, []byte("ogg"), 0644); err != nil {
		t.Fatalf("write voice file: %v", err)
	}
	env.dispatcher.opts.VoicePath = voicePath

	env.dispatcher.dispatch(context.Background(), textMsg("/sendvoice"))

	if len(env.transport.voices) != 1 || env.transport.voices[0] != voicePath {
		t.Errorf("voice not sent, sent list: %v", env.transport.voices)
	}
}

func TestDispatchStartHelp(t *testing.T) {
	env := newTestEnv(t)

	env.dispatcher.dispatch(context.Background(), textMsg("/start"))
	if reply := env.transport.lastText(t); reply != replyStart {
		t.Errorf("unexpected start reply: %q", reply)
	}
	env.dispatcher.dispatch(context.Background(), textMsg("/help"))
	if reply := env.transport.lastText(t); reply != replyHelp {
		t.Errorf("unexpected help reply: %q", reply)
	}
}

func TestDispatchUnhandledSendsNothing(t *testing.T) {
	env := newTestEnv(t)
	env.dispatcher.dispatch(context.Background(), textMsg("/unknown"))
	env.dispatcher.dispatch(context.Background(), bus.InboundMessage{ChatID: 1})

	select {
	case text := <-env.transport.sent:
		t.Fatalf("unhandled message produced a reply: %q", text)
	case <-time.After(100 * time.Millisecond):
	}
}

// A handler that fails, or even panics, for message A must not prevent
// message B from being handled in the same run.
func TestRunIsolatesFailingHandler(t *testing.T) {
	env := newTestEnv(t)
	env.weather.panics = true

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		env.dispatcher.Run(ctx)
		close(done)
	}()

	env.bus.PublishInbound(textMsg("/weather"))
	env.bus.PublishInbound(textMsg("hello"))

	if reply := env.transport.lastText(t); reply != translatePrefix+"Hello" {
		t.Errorf("message after panicking handler not processed, got %q", reply)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("dispatcher did not stop on context cancellation")
	}
}

func TestRunProcessesConcurrently(t *testing.T) {
	env := newTestEnv(t)

	block := make(chan struct{})
	env.translator.err = nil
	slow := &blockingTranslator{block: block, out: "later"}
	env.dispatcher.translator = slow

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go env.dispatcher.Run(ctx)

	// First message parks inside the translator; the command behind it
	// must still be answered.
	env.bus.PublishInbound(textMsg("slow text"))
	env.bus.PublishInbound(textMsg("/start"))

	if reply := env.transport.lastText(t); reply != replyStart {
		t.Errorf("slow upstream call blocked later message, got %q", reply)
	}
	close(block)
	if reply := env.transport.lastText(t); reply != translatePrefix+"later" {
		t.Errorf("blocked translation never completed, got %q", reply)
	}
}

type blockingTranslator struct {
	block chan struct{}
	out   string
}

func (b *blockingTranslator) Translate(ctx context.Context, _, _ string) (string, error) {
	select {
	case <-b.block:
		return b.out, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
