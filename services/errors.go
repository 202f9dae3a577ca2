package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ошибки валидации: возникают до любой записи в хранилище
	ErrInvalidMatchID = errors.New("invalid match id")
	ErrInvalidDraft   = errors.New("invalid match draft")
	ErrUnknownTeam    = errors.New("team is not part of this league")
	ErrInvalidSeason  = errors.New("invalid season")
	ErrInvalidPlayer  = errors.New("invalid player")
	ErrInvalidBan     = errors.New("invalid ban")

	// Ошибки, специфичные для сущностей
	ErrMatchNotFound   = errors.New("match not found")
	ErrFinanceNotFound = errors.New("team finances not found")
	ErrPlayerExists    = errors.New("player already exists")

	// Частичная запись: часть изменений уже применена
	ErrSettlementFailed = errors.New("match settlement failed")
	ErrReversalFailed   = errors.New("match reversal failed")

	// Проверка постусловий после удаления
	ErrTransactionDeletionIncomplete = errors.New("match transactions were not fully deleted")
	ErrMatchDeletionFailed           = errors.New("match row still exists after deletion")

	// Ошибки аутентификации
	ErrAuthenticationFailed = errors.New("authentication failed")
)
