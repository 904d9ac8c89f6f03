package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFormValueRoundTrip(t *testing.T) {
	ts := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	values := map[string]FormValue{
		"reason":   StringValue("budget approval"),
		"amount":   NumberValue(1250.5),
		"urgent":   BoolValue(true),
		"deadline": TimeValue(ts),
	}
	data, err := json.Marshal(values)
	require.NoError(t, err)

	var decoded map[string]FormValue
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, "budget approval", decoded["reason"].Str)
	require.Equal(t, 1250.5, decoded["amount"].Num)
	require.True(t, decoded["urgent"].Bool)
	require.True(t, ts.Equal(decoded["deadline"].Time))
}

func TestFormValueUnknownTypeDecodesAsString(t *testing.T) {
	var fv FormValue
	require.NoError(t, json.Unmarshal([]byte(`{"type":"mystery","value":42}`), &fv))
	require.Equal(t, FORM_VALUE_STRING, fv.Type)
	require.Equal(t, "42", fv.Str)
}
