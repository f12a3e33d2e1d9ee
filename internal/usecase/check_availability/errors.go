package check_availability

import "errors"

var (
	// ErrInvalidWindow возвращается при окне с end <= start
	ErrInvalidWindow = errors.New("check_availability: invalid window")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("check_availability: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("check_availability: internal error")
)
