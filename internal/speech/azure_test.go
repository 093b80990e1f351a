package speech

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hammamikhairi/voicetodo/internal/domain"
	"github.com/hammamikhairi/voicetodo/internal/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *AzureClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewAzureClient("test-key", "westeurope", logger.New(logger.LevelOff, nil),
		WithEndpoints(srv.URL+"/tts", srv.URL+"/stt"),
	)
}

func TestSynthesize(t *testing.T) {
	var gotBody string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Ocp-Apim-Subscription-Key") != "test-key" {
			t.Errorf("missing subscription key header")
		}
		if r.Header.Get("X-Microsoft-OutputFormat") != DefaultAudioFormat {
			t.Errorf("output format = %q", r.Header.Get("X-Microsoft-OutputFormat"))
		}
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Write([]byte("RIFFfake"))
	})

	audio, err := c.Synthesize(context.Background(), "Added 'salt & pepper'.")
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	if string(audio) != "RIFFfake" {
		t.Fatalf("audio = %q", audio)
	}
	if !strings.Contains(gotBody, "salt &amp; pepper") {
		t.Errorf("ssml text not escaped: %s", gotBody)
	}
	if !strings.Contains(gotBody, DefaultVoice) {
		t.Errorf("ssml missing voice: %s", gotBody)
	}
}

func TestSynthesizeHTTPError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota", http.StatusTooManyRequests)
	})
	if _, err := c.Synthesize(context.Background(), "hi"); err == nil {
		t.Fatal("expected error")
	}
}

func TestRecognize(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    string
		wantErr error
	}{
		{
			name:   "itn preferred",
			status: http.StatusOK,
			body:   `{"RecognitionStatus":"Success","DisplayText":"Remind me in five minutes.","NBest":[{"ITN":"remind me in 5 minutes","Display":"Remind me in 5 minutes."}]}`,
			want:   "remind me in 5 minutes",
		},
		{
			name:   "display fallback",
			status: http.StatusOK,
			body:   `{"RecognitionStatus":"Success","DisplayText":"Show my list."}`,
			want:   "Show my list.",
		},
		{"no match", http.StatusOK, `{"RecognitionStatus":"NoMatch"}`, "", domain.ErrUnintelligible},
		{"silence", http.StatusOK, `{"RecognitionStatus":"InitialSilenceTimeout"}`, "", domain.ErrUnintelligible},
		{"babble", http.StatusOK, `{"RecognitionStatus":"BabbleTimeout"}`, "", domain.ErrUnintelligible},
		{"empty text", http.StatusOK, `{"RecognitionStatus":"Success","DisplayText":""}`, "", domain.ErrUnintelligible},
		{"unauthorized", http.StatusUnauthorized, `denied`, "", domain.ErrNetwork},
		{"server error", http.StatusInternalServerError, `boom`, "", domain.ErrNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if got := r.URL.Query().Get("language"); got != DefaultLanguage {
					t.Errorf("language = %q", got)
				}
				if got := r.URL.Query().Get("format"); got != "detailed" {
					t.Errorf("format = %q", got)
				}
				if ct := r.Header.Get("Content-Type"); !strings.Contains(ct, "samplerate=16000") {
					t.Errorf("content type = %q", ct)
				}
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			got, err := c.Recognize(context.Background(), []byte("RIFF...."))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("text = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRecognizeTransportFailure(t *testing.T) {
	c := NewAzureClient("k", "r", logger.New(logger.LevelOff, nil),
		WithEndpoints("http://127.0.0.1:1/tts", "http://127.0.0.1:1/stt"),
	)
	_, err := c.Recognize(context.Background(), []byte("RIFF"))
	if !errors.Is(err, domain.ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
}
