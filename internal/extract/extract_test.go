package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/yechim/internal/llm"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func reply(text string, confidence float64) llm.MockResponse {
	b, _ := json.Marshal(problemOutput{ProblemText: text, Confidence: confidence})
	return llm.MockResponse{Content: b}
}

func TestExtract_SendsImageWithPurpose(t *testing.T) {
	mock := llm.NewMockProvider(reply("2x + 3 =  7", 0.93))
	ex := New(mock, Options{})

	res, err := ex.Extract(context.Background(), pngHeader)
	require.NoError(t, err)

	assert.Equal(t, "2x + 3 = 7", res.Text)
	assert.Equal(t, "2x + 3 =  7", res.Raw)
	assert.InDelta(t, 0.93, res.Confidence, 1e-9)
	assert.Equal(t, "image/png", res.MediaType)

	require.Equal(t, 1, mock.CallCount())
	call := mock.Calls[0]
	require.Len(t, call.Messages, 1)
	require.Len(t, call.Messages[0].Images, 1)
	assert.Equal(t, "image/png", call.Messages[0].Images[0].MediaType)
	assert.Equal(t, pngHeader, call.Messages[0].Images[0].Data)
	assert.Equal(t, problemSchema, call.Schema)
	assert.Equal(t, 512, call.MaxTokens)
	assert.Equal(t, int64(MaxImageBytes), ex.MaxBytes())
}

func TestExtract_CleanOption(t *testing.T) {
	mock := llm.NewMockProvider(reply("2x + l = |O", 0.5))
	res, err := New(mock, Options{Clean: true}).Extract(context.Background(), pngHeader)
	require.NoError(t, err)
	assert.Equal(t, "2x + 1 = 10", res.Text)
}

func TestExtract_NoText(t *testing.T) {
	mock := llm.NewMockProvider(reply("   ", 0))
	_, err := New(mock, Options{}).Extract(context.Background(), pngHeader)
	assert.ErrorIs(t, err, ErrNoTextFound)
}

func TestExtract_ProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrAuth{Err: errors.New("401")}})
	_, err := New(mock, Options{}).Extract(context.Background(), pngHeader)

	var auth *llm.ErrAuth
	assert.ErrorAs(t, err, &auth)
}

func TestCheckImage(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		want    string
		wantErr any
	}{
		{"png", pngHeader, "image/png", nil},
		{"jpeg", []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00"), "image/jpeg", nil},
		{"gif", []byte("GIF89a\x01\x00\x01\x00"), "image/gif", nil},
		{"plain text", []byte("x^2 - 4 = 0"), "", &ErrUnsupportedType{}},
		{"too large", append(bytes.Clone(pngHeader), make([]byte, MaxImageBytes)...), "", &ErrImageTooLarge{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CheckImage(tt.data, MaxImageBytes)
			switch want := tt.wantErr.(type) {
			case nil:
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			case *ErrUnsupportedType:
				assert.ErrorAs(t, err, &want)
				assert.Equal(t, "text/plain", want.MediaType)
			case *ErrImageTooLarge:
				assert.ErrorAs(t, err, &want)
			}
		})
	}

	_, err := CheckImage(nil, MaxImageBytes)
	assert.ErrorIs(t, err, ErrEmptyImage)

	var tooLarge *ErrImageTooLarge
	_, err = CheckImage(pngHeader, 8)
	require.ErrorAs(t, err, &tooLarge)
	assert.Equal(t, int64(8), tooLarge.Limit)
}

func TestCleanOCRText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"2x  +\n3 = 7", "2x + 3 = 7"},
		{"x² - 4 = O", "x² - 4 = 0"},
		{"|2 + l", "12 + 1"},
		{"π * 5²", "π * 5²"},
		{"sin(30)", "(30)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanOCRText(tt.in), tt.in)
	}
}
