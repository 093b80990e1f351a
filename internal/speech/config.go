package speech

import "time"

// Default voice for TTS.
// Full list: https://learn.microsoft.com/en-us/azure/ai-services/speech-service/language-support
const DefaultVoice = "en-US-AvaNeural"

// DefaultLanguage is the recognition locale for speech-to-text.
const DefaultLanguage = "en-US"

// Audio format returned by Azure TTS and expected by the player.
const DefaultAudioFormat = "riff-24khz-16bit-mono-pcm"

// Playback parameters matching DefaultAudioFormat.
const (
	SampleRate   = 24000
	ChannelCount = 1
	BitDepth     = 16
)

// RecognitionSampleRate is the capture rate the short-audio STT endpoint
// expects.
const RecognitionSampleRate = 16000

// Env var names for Azure Speech credentials.
const (
	EnvAzureSpeechKey    = "AZURE_SPEECH_KEY"
	EnvAzureSpeechRegion = "AZURE_SPEECH_REGION"
)

// DefaultHTTPTimeout bounds a single Azure request.
const DefaultHTTPTimeout = 30 * time.Second

// errorBackoff is how long voice input waits after an unexpected ear
// failure before the next listen.
const errorBackoff = 2 * time.Second
