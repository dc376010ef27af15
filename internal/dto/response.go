package dto

// ActionResultDTO отдают эндпоинты, которые сообщают только результат.
type ActionResultDTO struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type CountDTO struct {
	Count int64 `json:"count"`
}

// RejectDTO - причина отказа, обязательная для всех reject-эндпоинтов.
type RejectDTO struct {
	Reason string `json:"reason" validate:"required,max=1000"`
}
