package analysis

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordMarshalFlatShape(t *testing.T) {
	score := 8.5
	rec := Record{
		OverallScore:       &score,
		PerformanceMetrics: map[string]int{"clarity": 9},
		Fields:             map[string]any{"summary": "Strong backend profile"},
	}

	b, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"overallScore": 8.5,
		"performanceMetrics": {"clarity": 9},
		"summary": "Strong backend profile"
	}`, string(b))
}

func TestRecordTypedFieldsWinOverFreeForm(t *testing.T) {
	score := 4.0
	rec := Record{
		OverallScore: &score,
		Fields:       map[string]any{"overallScore": "stale"},
	}

	b, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"overallScore": 4}`, string(b))
}

func TestFailedDefaultsMessage(t *testing.T) {
	rec := Failed("")
	assert.Equal(t, FailureMessage, rec.Error)
	assert.Nil(t, rec.OverallScore)
	assert.Equal(t, 0.0, rec.Score())
}
