package models

import "time"

// ResponseModel is the envelope wrapped around every API payload.
type ResponseModel struct {
	Code        int         `json:"code"`
	CurrentTime int64       `json:"currentTime"`
	Data        interface{} `json:"data"`
	Text        string      `json:"text"`
	Version     int         `json:"version"`
}

// ResponseCurrentTime returns the current time in epoch milliseconds.
func ResponseCurrentTime() int64 {
	return time.Now().UnixMilli()
}

// NewEntryResponse wraps a single entry in the standard envelope.
func NewEntryResponse(entry interface{}) ResponseModel {
	return ResponseModel{
		Code:        200,
		CurrentTime: ResponseCurrentTime(),
		Data:        map[string]interface{}{"entry": entry},
		Text:        "OK",
		Version:     2,
	}
}

// ListData is the payload shape for list endpoints.
type ListData struct {
	LimitExceeded bool        `json:"limitExceeded"`
	List          interface{} `json:"list"`
}

// NewListResponse wraps a list in the standard envelope.
func NewListResponse(list interface{}, limitExceeded bool) ResponseModel {
	return ResponseModel{
		Code:        200,
		CurrentTime: ResponseCurrentTime(),
		Data:        ListData{LimitExceeded: limitExceeded, List: list},
		Text:        "OK",
		Version:     2,
	}
}

// CurrentTimeModel is the entry for the current-time endpoint.
type CurrentTimeModel struct {
	ReadableTime string `json:"readableTime"`
	Time         int64  `json:"time"`
}

// NewCurrentTimeModel builds the entry for a given time.
func NewCurrentTimeModel(t time.Time) CurrentTimeModel {
	return CurrentTimeModel{
		ReadableTime: t.Format(time.RFC3339),
		Time:         t.UnixMilli(),
	}
}
