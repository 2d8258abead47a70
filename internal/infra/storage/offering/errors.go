package offering

import "errors"

var (
	// ErrOfferingNotFound возвращается, когда оффер не найден
	ErrOfferingNotFound = errors.New("offering.repository: offering not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("offering.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("offering.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("offering.repository: failed to scan row")

	// ErrLedgerVersionMismatch возвращается, когда журнал оффера изменили параллельно
	// Оборачивает txmanager.ErrConcurrentUpdate, поэтому транзакция будет повторена
	ErrLedgerVersionMismatch = errors.New("offering.repository: ledger version mismatch")
)
