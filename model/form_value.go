package model

import (
	"encoding/json"
	"fmt"
	"time"
)

type FormValueType string

const FORM_VALUE_STRING FormValueType = "string"
const FORM_VALUE_NUMBER FormValueType = "number"
const FORM_VALUE_BOOL FormValueType = "bool"
const FORM_VALUE_TIME FormValueType = "time"

// FormValue is a typed variant for the free form data actors attach to a
// step. Keys are schema-less, values are one of string, number, bool or
// timestamp.
type FormValue struct {
	Type FormValueType
	Str  string
	Num  float64
	Bool bool
	Time time.Time
}

func StringValue(v string) FormValue {
	return FormValue{Type: FORM_VALUE_STRING, Str: v}
}

func NumberValue(v float64) FormValue {
	return FormValue{Type: FORM_VALUE_NUMBER, Num: v}
}

func BoolValue(v bool) FormValue {
	return FormValue{Type: FORM_VALUE_BOOL, Bool: v}
}

func TimeValue(v time.Time) FormValue {
	return FormValue{Type: FORM_VALUE_TIME, Time: v}
}

type formValueJson struct {
	Type  FormValueType `json:"type"`
	Value any           `json:"value"`
}

func (fv FormValue) MarshalJSON() ([]byte, error) {
	out := formValueJson{Type: fv.Type}
	switch fv.Type {
	case FORM_VALUE_NUMBER:
		out.Value = fv.Num
	case FORM_VALUE_BOOL:
		out.Value = fv.Bool
	case FORM_VALUE_TIME:
		out.Value = fv.Time.Format(time.RFC3339)
	default:
		out.Type = FORM_VALUE_STRING
		out.Value = fv.Str
	}
	return json.Marshal(out)
}

func (fv *FormValue) UnmarshalJSON(data []byte) error {
	var in formValueJson
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	switch in.Type {
	case FORM_VALUE_NUMBER:
		num, ok := in.Value.(float64)
		if !ok {
			return fmt.Errorf("form value of type number holds %T", in.Value)
		}
		*fv = NumberValue(num)
	case FORM_VALUE_BOOL:
		b, ok := in.Value.(bool)
		if !ok {
			return fmt.Errorf("form value of type bool holds %T", in.Value)
		}
		*fv = BoolValue(b)
	case FORM_VALUE_TIME:
		str, ok := in.Value.(string)
		if !ok {
			return fmt.Errorf("form value of type time holds %T", in.Value)
		}
		ts, err := time.Parse(time.RFC3339, str)
		if err != nil {
			return err
		}
		*fv = TimeValue(ts)
	default:
		*fv = StringValue(fmt.Sprintf("%v", in.Value))
	}
	return nil
}
