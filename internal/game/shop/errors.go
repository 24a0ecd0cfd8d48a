package shop

import "errors"

var (
	// ErrLedgerInactive — мутация ledger'а shopkeeper'а, который сейчас
	// вне магазина. Это сигнал программной ошибки, а не обычный "not found".
	ErrLedgerInactive = errors.New("shopkeeper ledger is inactive")

	// ErrNotCustomer — игрок не является покупателем этого shopkeeper'а.
	ErrNotCustomer = errors.New("player is not this shopkeeper's customer")

	// ErrCancelled — игрок отменил интерактивный шаг протокола оплаты.
	// Команда завершается, оставшиеся записи остаются pending.
	ErrCancelled = errors.New("payment cancelled by player")

	// ErrNoFunds — у игрока кончились и деньги, и кредит.
	ErrNoFunds = errors.New("out of money and credit")

	// ErrNoShopkeeper — не удалось определить shopkeeper'а для оплаты.
	ErrNoShopkeeper = errors.New("no shopkeeper to pay")
)
