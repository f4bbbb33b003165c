package api

import "encoding/json"

func jsonMarshal(v interface{}) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func jsonRaw(s string) json.RawMessage {
	return json.RawMessage(s)
}
