package gcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	speech "cloud.google.com/go/speech/apiv1"
	speechpb "cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/durationpb"

	"github.com/yungbote/moodcare-backend/internal/pkg/ctxutil"
	"github.com/yungbote/moodcare-backend/internal/pkg/logger"
)

type Speech interface {
	TranscribeAudioBytes(ctx context.Context, audio []byte, mimeType string) (*SpeechResult, error)
	Close() error
}

type SpeechResult struct {
	Provider    string  `json:"provider"`
	PrimaryText string  `json:"primary_text"`
	DurationSec float64 `json:"duration_sec,omitempty"`
}

type speechService struct {
	log          *logger.Logger
	client       *speech.Client
	languageCode string
}

func NewSpeech(log *logger.Logger) (Speech, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	slog := log.With("service", "gcp.Speech")

	ctx := context.Background()
	opts := ClientOptionsFromEnv()

	c, err := speech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("speech client: %w", err)
	}

	lang := strings.TrimSpace(getenv("SPEECH_LANGUAGE_CODE"))
	if lang == "" {
		lang = "en-US"
	}

	return &speechService{
		log:          slog,
		client:       c,
		languageCode: lang,
	}, nil
}

func (s *speechService) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

// TranscribeAudioBytes runs one synchronous recognition pass. A transient
// gRPC failure surfaces as an error; callers never see a retried call.
func (s *speechService) TranscribeAudioBytes(ctx context.Context, audio []byte, mimeType string) (*SpeechResult, error) {
	ctx = ctxutil.Default(ctx)
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	if len(audio) == 0 {
		return &SpeechResult{Provider: "gcp_speech", PrimaryText: ""}, nil
	}

	req := &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			LanguageCode:               s.languageCode,
			EnableAutomaticPunctuation: true,
			Encoding:                   inferSpeechEncoding(mimeType),
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	}

	resp, err := s.client.Recognize(ctx, req)
	if err != nil {
		if code := status.Code(err); code == codes.Unavailable || code == codes.ResourceExhausted {
			s.log.Warn("speech recognize transient failure", "code", code.String(), "error", err)
		}
		return nil, fmt.Errorf("speech recognize: %w", err)
	}

	var full strings.Builder
	var dur float64
	for _, r := range resp.Results {
		if r == nil || len(r.Alternatives) == 0 || r.Alternatives[0] == nil {
			continue
		}
		alt := r.Alternatives[0]
		if strings.TrimSpace(alt.Transcript) == "" {
			continue
		}
		if full.Len() > 0 {
			full.WriteString(" ")
		}
		full.WriteString(strings.TrimSpace(alt.Transcript))
		dur = durToSec(r.ResultEndTime)
	}

	return &SpeechResult{
		Provider:    "gcp_speech",
		PrimaryText: strings.TrimSpace(full.String()),
		DurationSec: dur,
	}, nil
}

func inferSpeechEncoding(mimeType string) speechpb.RecognitionConfig_AudioEncoding {
	m := strings.ToLower(strings.TrimSpace(mimeType))
	switch {
	case strings.Contains(m, "wav"):
		return speechpb.RecognitionConfig_LINEAR16
	case strings.Contains(m, "flac"):
		return speechpb.RecognitionConfig_FLAC
	case strings.Contains(m, "mp3") || strings.Contains(m, "mpeg"):
		return speechpb.RecognitionConfig_MP3
	case strings.Contains(m, "ogg") || strings.Contains(m, "opus"):
		return speechpb.RecognitionConfig_OGG_OPUS
	default:
		return speechpb.RecognitionConfig_ENCODING_UNSPECIFIED
	}
}

func durToSec(d *durationpb.Duration) float64 {
	if d == nil {
		return 0
	}
	return float64(d.Seconds) + float64(d.Nanos)/1e9
}
