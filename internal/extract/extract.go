// Package extract reads the text of a math problem out of a photo using a
// vision-capable LLM provider.
package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog/log"

	"github.com/abhisek/yechim/internal/llm"
)

// MaxImageBytes is the default upper bound on image size.
const MaxImageBytes = 10 << 20

var (
	// ErrNoTextFound is returned when the image holds no readable problem.
	ErrNoTextFound = errors.New("no problem text found in image")

	// ErrEmptyImage is returned for a zero-length upload.
	ErrEmptyImage = errors.New("image is empty")
)

// ErrImageTooLarge reports an image above the configured limit.
type ErrImageTooLarge struct {
	Size  int64
	Limit int64
}

func (e *ErrImageTooLarge) Error() string {
	return fmt.Sprintf("image is %d bytes, limit is %d", e.Size, e.Limit)
}

// ErrUnsupportedType reports content that is not an image.
type ErrUnsupportedType struct {
	MediaType string
}

func (e *ErrUnsupportedType) Error() string {
	return fmt.Sprintf("unsupported file type %q, expected an image", e.MediaType)
}

// Result is what an extraction produced.
type Result struct {
	// Text is the problem as it should be handed to the solver.
	Text string `json:"text"`

	// Raw is the model's answer before any cleaning.
	Raw string `json:"raw"`

	Confidence float64 `json:"confidence"`
	MediaType  string  `json:"media_type"`
}

// Options tune an Extractor.
type Options struct {
	// Clean applies CleanOCRText to the model output. Useful for photos of
	// bare equations, harmful for worded problems.
	Clean bool

	// MaxTokens bounds the model's answer. Zero means 512.
	MaxTokens int

	// MaxBytes is the largest accepted image. Zero means MaxImageBytes.
	MaxBytes int64
}

// Extractor turns images into problem text.
type Extractor struct {
	provider llm.Provider
	opts     Options
}

// New returns an Extractor backed by provider.
func New(provider llm.Provider, opts Options) *Extractor {
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 512
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = MaxImageBytes
	}
	return &Extractor{provider: provider, opts: opts}
}

const systemPrompt = `You transcribe math problems from photos of homework, textbooks and whiteboards.
Return exactly one problem, the most prominent one, as plain text on a single line.
Write powers with ^ (x^2), multiplication with * and keep words that describe the task
(derivative, integral, area, radius, sin, mean, and their Uzbek equivalents) as written.
Do not solve the problem. If the image contains no math problem return an empty
problem_text and confidence 0.`

var problemSchema = &llm.Schema{
	Name:        "problem-text",
	Description: "A math problem transcribed from an image",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"problem_text": map[string]any{
				"type":        "string",
				"description": "The problem exactly as written, on one line",
			},
			"confidence": map[string]any{
				"type":        "number",
				"description": "How sure the transcription is, 0 to 1",
				"minimum":     0,
				"maximum":     1,
			},
		},
		"required":             []any{"problem_text", "confidence"},
		"additionalProperties": false,
	},
}

type problemOutput struct {
	ProblemText string  `json:"problem_text"`
	Confidence  float64 `json:"confidence"`
}

// Extract reads the problem in image.
func (e *Extractor) Extract(ctx context.Context, image []byte) (*Result, error) {
	mediaType, err := CheckImage(image, e.opts.MaxBytes)
	if err != nil {
		return nil, err
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeExtract)
	resp, err := e.provider.Generate(ctx, llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{{
			Role:    llm.RoleUser,
			Content: "Transcribe the math problem in this image.",
			Images:  []llm.Image{{MediaType: mediaType, Data: image}},
		}},
		Schema:    problemSchema,
		MaxTokens: e.opts.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("extract problem text: %w", err)
	}

	var out problemOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("decode extraction: %w", err)
	}

	res := &Result{
		Raw:        out.ProblemText,
		Text:       strings.Join(strings.Fields(out.ProblemText), " "),
		Confidence: out.Confidence,
		MediaType:  mediaType,
	}
	if e.opts.Clean {
		res.Text = CleanOCRText(out.ProblemText)
	}

	log.Debug().
		Str("media_type", mediaType).
		Int("bytes", len(image)).
		Float64("confidence", out.Confidence).
		Str("text", res.Text).
		Msg("extracted problem text")

	if strings.TrimSpace(res.Text) == "" {
		return nil, ErrNoTextFound
	}
	return res, nil
}

// MaxBytes is the largest image e accepts.
func (e *Extractor) MaxBytes() int64 { return e.opts.MaxBytes }

// CheckImage enforces the size limit and sniffs the media type, which
// must be image/*.
func CheckImage(data []byte, limit int64) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyImage
	}
	if int64(len(data)) > limit {
		return "", &ErrImageTooLarge{Size: int64(len(data)), Limit: limit}
	}
	mt := mimetype.Detect(data)
	mediaType, _, _ := strings.Cut(mt.String(), ";")
	if !strings.HasPrefix(mediaType, "image/") {
		return "", &ErrUnsupportedType{MediaType: mediaType}
	}
	return mediaType, nil
}
