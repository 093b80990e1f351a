package speech

import (
	"context"
	"errors"
	"testing"

	"github.com/hammamikhairi/voicetodo/internal/domain"
	"github.com/hammamikhairi/voicetodo/internal/logger"
)

type fakeRecorder struct {
	wav []byte
	err error
}

func (r fakeRecorder) Record(context.Context) ([]byte, error) { return r.wav, r.err }

type fakeRecognizer struct {
	got  []byte
	text string
}

func (r *fakeRecognizer) Recognize(_ context.Context, wav []byte) (string, error) {
	r.got = wav
	return r.text, nil
}

func TestCloudEar(t *testing.T) {
	stt := &fakeRecognizer{text: "show my list"}
	ear := NewCloudEar(fakeRecorder{wav: []byte("RIFF")}, stt, logger.New(logger.LevelOff, nil))

	got, err := ear.Transcribe(context.Background())
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if got != "show my list" || string(stt.got) != "RIFF" {
		t.Fatalf("got %q, sent %q", got, stt.got)
	}
}

func TestCloudEarSilence(t *testing.T) {
	stt := &fakeRecognizer{}
	ear := NewCloudEar(fakeRecorder{err: domain.ErrNoSpeech}, stt, logger.New(logger.LevelOff, nil))

	_, err := ear.Transcribe(context.Background())
	if !errors.Is(err, domain.ErrNoSpeech) {
		t.Fatalf("err = %v", err)
	}
	if stt.got != nil {
		t.Fatal("silence must not be sent for recognition")
	}
}

func TestCloudEarSilenceIsNotApologisedFor(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	ear := NewCloudEar(fakeRecorder{err: domain.ErrNoSpeech}, &fakeRecognizer{}, log)
	n := &mockNotifier{}
	v := NewVoiceInput(ear, n, log, WithErrorBackoff(0))

	for i := 0; i < 3; i++ {
		got, err := v.Listen(context.Background())
		if err != nil || got != "" {
			t.Fatalf("listen %d: got %q, %v", i, got, err)
		}
	}
	if said := n.messages(); len(said) != 0 {
		t.Fatalf("expected silence to stay quiet, got %q", said)
	}
}
