package result

// Response is the uniform JSON envelope for all handlers.
type Response struct {
	Success  bool        `json:"success"`
	ErrorMsg string      `json:"errorMsg,omitempty"`
	Data     interface{} `json:"data,omitempty"`
	Total    int64       `json:"total,omitempty"`
}

func Ok() Response {
	return Response{Success: true}
}

func OkWithData(data interface{}) Response {
	return Response{Success: true, Data: data}
}

func OkWithList(data interface{}, total int64) Response {
	return Response{Success: true, Data: data, Total: total}
}

func Fail(msg string) Response {
	return Response{Success: false, ErrorMsg: msg}
}
