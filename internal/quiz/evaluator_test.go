package quiz

import (
	"testing"

	"flightdeck/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	atlanta := &model.Airport{
		Code: "ATL",
		Name: "Hartsfield-Jackson Atlanta International Airport",
	}

	tests := []struct {
		name      string
		qType     model.QuestionType
		submitted string
		want      bool
	}{
		{
			name:      "exact name match",
			qType:     model.CodeToAirport,
			submitted: "Hartsfield-Jackson Atlanta International Airport",
			want:      true,
		},
		{
			name:      "name match ignores case",
			qType:     model.CodeToAirport,
			submitted: "hartsfield-jackson atlanta international airport",
			want:      true,
		},
		{
			name:      "name match trims surrounding whitespace",
			qType:     model.CodeToAirport,
			submitted: "  Hartsfield-Jackson Atlanta International Airport  ",
			want:      true,
		},
		{
			name:      "wrong name",
			qType:     model.CodeToAirport,
			submitted: "Los Angeles International Airport",
			want:      false,
		},
		{
			name:      "code match ignores case and whitespace",
			qType:     model.AirportToCode,
			submitted: " atl ",
			want:      true,
		},
		{
			name:      "wrong code",
			qType:     model.AirportToCode,
			submitted: "LAX",
			want:      false,
		},
		{
			name:      "empty answer",
			qType:     model.CodeToAirport,
			submitted: "",
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(tt.qType, atlanta, tt.submitted)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("unknown question type", func(t *testing.T) {
		got, err := Evaluate("reverse_code", atlanta, "ATL")
		assert.False(t, got)
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})
}

func TestCorrectAnswerFor(t *testing.T) {
	heathrow := &model.Airport{Code: "LHR", Name: "Heathrow Airport"}

	assert.Equal(t, "Heathrow Airport", CorrectAnswerFor(model.CodeToAirport, heathrow))
	assert.Equal(t, "LHR", CorrectAnswerFor(model.AirportToCode, heathrow))
}
