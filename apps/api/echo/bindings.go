package echoapi

// Response envelopes shared by the portal-facing handlers.

type (
	SuccessResponse struct {
		Success bool        `json:"success"`
		Data    interface{} `json:"data,omitempty"`
	}

	LoginResponse struct {
		Success bool        `json:"success"`
		Data    interface{} `json:"data"`
		Token   string      `json:"token"`
	}

	CountData struct {
		Count int `json:"count"`
	}
)

func ok(data interface{}) SuccessResponse {
	return SuccessResponse{Success: true, Data: data}
}
