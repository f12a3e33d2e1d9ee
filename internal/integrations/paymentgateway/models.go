package paymentgateway

// CaptureRequest запрос на списание средств
type CaptureRequest struct {
	Amount     int64  `json:"amount"` // минимальные единицы валюты
	BookingRef string `json:"bookingRef"`
}

// PaymentResult результат списания
type PaymentResult struct {
	PaymentRef string `json:"paymentRef"`
	Status     string `json:"status"` // captured | declined
}

// RefundRequest запрос на возврат средств
type RefundRequest struct {
	PaymentRef string `json:"paymentRef"`
	Amount     int64  `json:"amount"`
}

// RefundResult результат возврата
type RefundResult struct {
	RefundRef string `json:"refundRef"`
	Status    string `json:"status"` // refunded | failed
}

// ErrorResponse модель ошибки от шлюза
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
