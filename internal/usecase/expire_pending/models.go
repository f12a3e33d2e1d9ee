package expire_pending

// Response результат одного прохода зачистки протухших pending-броней
type Response struct {
	Expired []string // Коды отмененных броней
	Skipped int      // Брони, успевшие уйти из pending между выборкой и отменой
}
