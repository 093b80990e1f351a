package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hammamikhairi/voicetodo/internal/domain"
	"github.com/hammamikhairi/voicetodo/internal/logger"
)

// AzureOption configures the Azure speech client.
type AzureOption func(*AzureClient)

// WithVoice sets the TTS voice.
func WithVoice(voice string) AzureOption {
	return func(c *AzureClient) {
		c.voice = voice
	}
}

// WithLanguage sets the recognition locale, e.g. "en-US".
func WithLanguage(lang string) AzureOption {
	return func(c *AzureClient) {
		c.language = lang
	}
}

// WithAudioFormat sets the audio output format.
func WithAudioFormat(format string) AzureOption {
	return func(c *AzureClient) {
		c.format = format
	}
}

// WithHTTPTimeout sets the HTTP client timeout for speech requests.
func WithHTTPTimeout(d time.Duration) AzureOption {
	return func(c *AzureClient) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the HTTP client, e.g. one dialing through a proxy.
func WithHTTPClient(hc *http.Client) AzureOption {
	return func(c *AzureClient) {
		c.httpClient = hc
	}
}

// WithEndpoints overrides the regional TTS and STT URLs.
func WithEndpoints(ttsURL, sttURL string) AzureOption {
	return func(c *AzureClient) {
		c.ttsURL = ttsURL
		c.sttURL = sttURL
	}
}

// AzureClient talks to the Azure Speech REST APIs: neural text-to-speech and
// short-audio speech-to-text.
type AzureClient struct {
	subscriptionKey string
	region          string
	voice           string
	language        string
	format          string
	ttsURL          string
	sttURL          string
	httpClient      *http.Client
	log             *logger.Logger
}

// Voice returns the configured voice name.
func (c *AzureClient) Voice() string { return c.voice }

// NewAzureClient creates an Azure speech client with the given credentials.
func NewAzureClient(key, region string, log *logger.Logger, opts ...AzureOption) *AzureClient {
	c := &AzureClient{
		subscriptionKey: key,
		region:          region,
		voice:           DefaultVoice,
		language:        DefaultLanguage,
		format:          DefaultAudioFormat,
		ttsURL:          fmt.Sprintf("https://%s.tts.speech.microsoft.com/cognitiveservices/v1", region),
		sttURL:          fmt.Sprintf("https://%s.stt.speech.microsoft.com/speech/recognition/conversation/cognitiveservices/v1", region),
		httpClient: &http.Client{
			Timeout: DefaultHTTPTimeout,
		},
		log: log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Synthesize converts text to speech audio data (WAV bytes).
func (c *AzureClient) Synthesize(ctx context.Context, text string) ([]byte, error) {
	ssml, err := c.buildSSML(text)
	if err != nil {
		return nil, err
	}
	c.log.Debug("azure tts: synthesizing %d chars with voice %s", len(text), c.voice)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.ttsURL, strings.NewReader(ssml))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Ocp-Apim-Subscription-Key", c.subscriptionKey)
	req.Header.Set("Content-Type", "application/ssml+xml")
	req.Header.Set("X-Microsoft-OutputFormat", c.format)
	req.Header.Set("User-Agent", "voicetodo/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts request failed: %w: %w", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("azure tts error %d: %s", resp.StatusCode, string(body))
	}

	audioData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading audio data: %w", err)
	}

	c.log.Debug("azure tts: got %d bytes of audio", len(audioData))
	return audioData, nil
}

// buildSSML creates SSML markup for the synthesis request. The text is
// XML-escaped; item names can contain '&' or '<'.
func (c *AzureClient) buildSSML(text string) (string, error) {
	var escaped bytes.Buffer
	if err := xml.EscapeText(&escaped, []byte(text)); err != nil {
		return "", fmt.Errorf("escaping ssml: %w", err)
	}
	return fmt.Sprintf(
		`<speak version='1.0' xml:lang='%s'><voice xml:lang='%s' name='%s'>%s</voice></speak>`,
		c.language, c.language, c.voice, escaped.String(),
	), nil
}

// Recognition statuses returned by the short-audio endpoint.
const (
	statusSuccess               = "Success"
	statusNoMatch               = "NoMatch"
	statusInitialSilenceTimeout = "InitialSilenceTimeout"
	statusBabbleTimeout         = "BabbleTimeout"
)

type recognitionResult struct {
	RecognitionStatus string `json:"RecognitionStatus"`
	DisplayText       string `json:"DisplayText"`
	NBest             []struct {
		Confidence float64 `json:"Confidence"`
		Lexical    string  `json:"Lexical"`
		ITN        string  `json:"ITN"`
		Display    string  `json:"Display"`
	} `json:"NBest"`
}

// Recognize transcribes a 16 kHz mono 16-bit WAV utterance. Silence and
// unrecognizable audio yield domain.ErrUnintelligible; transport failures
// and non-200 responses wrap domain.ErrNetwork.
func (c *AzureClient) Recognize(ctx context.Context, wav []byte) (string, error) {
	u, err := url.Parse(c.sttURL)
	if err != nil {
		return "", fmt.Errorf("parsing stt url: %w", err)
	}
	q := u.Query()
	q.Set("language", c.language)
	q.Set("format", "detailed")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(wav))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", c.subscriptionKey)
	req.Header.Set("Content-Type", fmt.Sprintf("audio/wav; codecs=audio/pcm; samplerate=%d", RecognitionSampleRate))
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "voicetodo/1.0")

	c.log.Debug("azure stt: sending %d bytes", len(wav))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("stt request failed: %w: %w", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("azure stt error %d: %s: %w", resp.StatusCode, string(body), domain.ErrNetwork)
	}

	var result recognitionResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding stt response: %w", err)
	}

	c.log.Debug("azure stt: status=%s display=%q", result.RecognitionStatus, result.DisplayText)

	switch result.RecognitionStatus {
	case statusSuccess:
	case statusNoMatch, statusInitialSilenceTimeout, statusBabbleTimeout:
		return "", domain.ErrUnintelligible
	default:
		return "", fmt.Errorf("azure stt status %q", result.RecognitionStatus)
	}

	text := result.DisplayText
	if len(result.NBest) > 0 && result.NBest[0].ITN != "" {
		text = result.NBest[0].ITN
	}
	if strings.TrimSpace(text) == "" {
		return "", domain.ErrUnintelligible
	}
	return text, nil
}
