package generation

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateInput(t *testing.T) {
	t.Parallel()
	limits := DefaultLimits()

	tests := []struct {
		name     string
		length   int
		count    int
		wantKind error
		wantMsg  string
	}{
		{name: "minimum length", length: 1000, count: 10},
		{name: "maximum length", length: 10000, count: 10},
		{name: "minimum count", length: 5000, count: 1},
		{name: "maximum count", length: 5000, count: 100},
		{
			name: "one char too short", length: 999, count: 10,
			wantKind: ErrTextTooShort, wantMsg: "source text too short, 999 chars, minimum 1000",
		},
		{
			name: "empty text", length: 0, count: 10,
			wantKind: ErrTextTooShort, wantMsg: "source text too short, 0 chars, minimum 1000",
		},
		{
			name: "one char too long", length: 10001, count: 10,
			wantKind: ErrTextTooLong, wantMsg: "source text too long, 10001 chars, maximum 10000",
		},
		{
			name: "zero count", length: 5000, count: 0,
			wantKind: ErrInvalidCount, wantMsg: "requested flashcard count must be between 1 and 100, got 0",
		},
		{
			name: "negative count", length: 5000, count: -3,
			wantKind: ErrInvalidCount, wantMsg: "requested flashcard count must be between 1 and 100, got -3",
		},
		{
			name: "count above maximum", length: 5000, count: 101,
			wantKind: ErrInvalidCount, wantMsg: "requested flashcard count must be between 1 and 100, got 101",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateInput(Input{SourceText: strings.Repeat("a", tt.length), RequestedCount: tt.count}, limits)

			if tt.wantKind == nil {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantKind)
			assert.Equal(t, tt.wantMsg, err.Error())

			var inputErr *InputError
			require.True(t, errors.As(err, &inputErr))
			if tt.wantKind == ErrInvalidCount {
				assert.Equal(t, tt.count, inputErr.Actual)
			} else {
				assert.Equal(t, tt.length, inputErr.Actual)
			}
		})
	}
}

func TestValidateInputCountsCharacters(t *testing.T) {
	t.Parallel()

	// 1000 characters, 3000 bytes.
	text := strings.Repeat("語", 1000)
	assert.NoError(t, ValidateInput(Input{SourceText: text, RequestedCount: 5}, DefaultLimits()))

	err := ValidateInput(Input{SourceText: text[:len(text)-3], RequestedCount: 5}, DefaultLimits())
	require.Error(t, err)
	assert.Equal(t, "source text too short, 999 chars, minimum 1000", err.Error())
}

func TestValidateInputChecksTextBeforeCount(t *testing.T) {
	t.Parallel()

	err := ValidateInput(Input{SourceText: "short", RequestedCount: 0}, DefaultLimits())
	assert.ErrorIs(t, err, ErrTextTooShort)
}

func TestParseSourceText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "string", raw: `"hello world"`, want: "hello world"},
		{name: "escaped string", raw: `"line\nbreak é"`, want: "line\nbreak é"},
		{name: "missing", raw: ``, wantErr: true},
		{name: "null", raw: `null`, wantErr: true},
		{name: "number", raw: `42`, wantErr: true},
		{name: "boolean", raw: `true`, wantErr: true},
		{name: "object", raw: `{"text":"x"}`, wantErr: true},
		{name: "array", raw: `["x"]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseSourceText(json.RawMessage(tt.raw))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInputType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
